package geo

// 文档注释：点入区域判定（环并集）
// 背景：区域的多个环代表互不相交的地块，任一环命中即视为在区域内；与按洞处理的行政边界不同。
// 约束：射线法在边界上的结果不稳定，采样场景下边界点的概率可忽略。
func (r Region) Contains(pt Point) bool {
	for _, ring := range r.Rings {
		if pointInRing(pt, ring) {
			return true
		}
	}
	return false
}

// 射线法判定点是否在环内
func pointInRing(pt Point, ring Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x := pt.Lng
	y := pt.Lat
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
