package geo

// 文档注释：生成起终点组合
// 背景：每个组合依次采样起点、终点与途经点，彼此独立，不做最小间距或空间相关约束。
// 返回：长度恰为 numRoutes 的切片；采样失败时返回已生成部分之外的错误（整体失败）。
func GeneratePairs(s *Sampler, numRoutes, numWaypoints int) ([]Pair, error) {
	if numRoutes < 0 {
		numRoutes = 0
	}
	if numWaypoints < 0 {
		numWaypoints = 0
	}
	out := make([]Pair, 0, numRoutes)
	for i := 0; i < numRoutes; i++ {
		o, err := s.Sample()
		if err != nil {
			return nil, err
		}
		d, err := s.Sample()
		if err != nil {
			return nil, err
		}
		wps := make([]Point, 0, numWaypoints)
		for j := 0; j < numWaypoints; j++ {
			w, err := s.Sample()
			if err != nil {
				return nil, err
			}
			wps = append(wps, w)
		}
		out = append(out, Pair{Origin: o, Destination: d, Waypoints: wps})
	}
	return out, nil
}
