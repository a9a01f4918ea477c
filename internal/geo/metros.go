package geo

import (
	"sort"
	"sync"
)

// 文档注释：内置城市区域
// 背景：边界为手工绘制的粗略多边形，覆盖城区与主要通勤范围；名称即缓存键中的区域标识，不可随意修改。
var metros = []Region{
	{
		Name:  "San_Fran_Neighorhood",
		Label: "Corona Heights & Surrounds",
		Rings: []Ring{{
			{37.77506, -122.46034}, {37.77594, -122.4246}, {37.75345, -122.42667}, {37.75352, -122.46083},
		}},
	},
	{
		Name:  "San_Francisco",
		Label: "San Francisco Bay Area",
		Rings: []Ring{
			{
				{37.78271, -122.51799}, {37.81146, -122.48161}, {37.80766, -122.39166}, {37.66049, -122.36625},
				{37.65723, -122.51045},
			},
			{
				{37.78079, -122.33536}, {37.74823, -122.26051}, {37.80358, -122.17262}, {37.93368, -122.27081},
				{37.94366, -122.40618}, {37.90195, -122.38558}, {37.90141, -122.32447}, {37.83202, -122.29838},
			},
			{
				{37.82624, -122.38064}, {37.80698, -122.36966}, {37.8101, -122.3597}, {37.81485, -122.36279},
				{37.81309, -122.36828}, {37.81607, -122.37051}, {37.82204, -122.36245}, {37.83275, -122.37137},
			},
			{
				{37.85614, -122.57997}, {37.81736, -122.5089}, {37.83391, -122.46702}, {37.85533, -122.47663},
				{37.87023, -122.49448}, {37.88107, -122.51611}, {37.89299, -122.49757}, {37.86183, -122.45809},
				{37.88053, -122.44024}, {37.90783, -122.47499}, {37.87017, -122.57627},
			},
		},
	},
	{
		Name:  "Seattle",
		Label: "Seattle",
		Rings: []Ring{
			{
				{47.59221, -122.3925}, {47.57275, -122.42271}, {47.48373, -122.36778}, {47.45217, -122.37739},
				{47.40014, -122.32246}, {47.40293, -122.0478}, {47.59961, -122.1247}, {47.68196, -122.12058},
				{47.74387, -122.17689}, {47.74018, -122.26203}, {47.70323, -122.22907}, {47.64589, -122.19749},
				{47.63387, -122.24006}, {47.61258, -122.23731}, {47.58016, -122.19337}, {47.49858, -122.21259},
				{47.53846, -122.27439}, {47.61906, -122.29087}, {47.7448, -122.29499}, {47.75127, -122.36881},
				{47.66163, -122.41138}, {47.63572, -122.40451}, {47.61073, -122.3386}, {47.57924, -122.36057},
			},
			{
				{47.71063, -122.55146}, {47.64683, -122.50476}, {47.5811, -122.48142}, {47.59962, -122.54459},
				{47.59314, -122.57206}, {47.70416, -122.56519},
			},
			{
				{47.52363, -122.54871}, {47.50786, -122.50888}, {47.45032, -122.54184}, {47.46796, -122.65995},
				{47.53198, -122.64209}, {47.5848, -122.56519},
			},
		},
	},
	{
		Name:  "Jakarta",
		Label: "Jakarta",
		Rings: []Ring{{
			{-6.09407, 106.70003}, {-6.12684, 106.81676}, {-6.10363, 106.96645}, {-6.29067, 107.05983},
			{-6.39713, 106.9225}, {-6.33299, 106.73299}, {-6.21149, 106.6245},
		}},
	},
}

// 文档注释：区域目录
// 背景：内置区域与从 GeoJSON 目录加载的自定义区域共用一个查找表；同名时后注册者覆盖。
// 约束：读多写少，RWMutex 保护；返回的 Region 与内部共享环切片，调用方不得修改。
type Catalog struct {
	mu      sync.RWMutex
	regions map[string]Region
}

// NewCatalog 以内置区域初始化
func NewCatalog() *Catalog {
	c := &Catalog{regions: make(map[string]Region, len(metros))}
	for _, r := range metros {
		c.regions[r.Name] = r
	}
	return c
}

func (c *Catalog) Add(r Region) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regions[r.Name] = r
}

func (c *Catalog) Lookup(name string) (Region, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.regions[name]
	return r, ok
}

// List 按名称排序返回全部区域
func (c *Catalog) List() []Region {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Region, 0, len(c.regions))
	for _, r := range c.regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Metros 返回内置区域副本
func Metros() []Region { return append([]Region(nil), metros...) }
