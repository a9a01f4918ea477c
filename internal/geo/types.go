// 包 geo：区域多边形、点入多边形判定与可复现的随机采样，为路线负载生成提供起终点
package geo

// 点坐标（WGS84，纬度在前）
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Ring：有序顶点序列，首尾不要求闭合
type Ring []Point

// 文档注释：区域多边形
// 背景：一个区域可由多个互不相交的环组成（如海湾两岸），采样时各环按并集处理。
// 约束：定义后只读；Rings 的顺序参与外部展示但不影响判定结果。
type Region struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Rings []Ring `json:"rings" yaml:"rings"`
}

// BBox：轴对齐包围盒
type BBox struct {
	MinLat, MinLng, MaxLat, MaxLng float64
}

// Span 返回纬度与经度跨度
func (b BBox) Span() (float64, float64) { return b.MaxLat - b.MinLat, b.MaxLng - b.MinLng }

// Contains：闭区间判定
func (b BBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Bounds 计算全部环的包围盒；以首个顶点为初值，不假设坐标落在经纬度范围内。空区域返回零值与 false
func (r Region) Bounds() (BBox, bool) {
	var b BBox
	seen := false
	for _, ring := range r.Rings {
		for _, p := range ring {
			if !seen {
				b = BBox{MinLat: p.Lat, MinLng: p.Lng, MaxLat: p.Lat, MaxLng: p.Lng}
				seen = true
				continue
			}
			b.MinLat = min(b.MinLat, p.Lat)
			b.MinLng = min(b.MinLng, p.Lng)
			b.MaxLat = max(b.MaxLat, p.Lat)
			b.MaxLng = max(b.MaxLng, p.Lng)
		}
	}
	return b, seen
}

// 文档注释：起终点组合
// 背景：一次路线请求的输入；Waypoints 长度等于定义中的途经点数量。
type Pair struct {
	Origin      Point   `json:"origin"`
	Destination Point   `json:"destination"`
	Waypoints   []Point `json:"waypoints"`
}
