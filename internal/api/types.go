package api

import (
	"route-bench/internal/geo"
	"route-bench/internal/route"
)

// 文档注释：路线返回结构（对外）
// 背景：持久化五字段之外附带点形式的途经点标记；仅在 path=true 时附带解码后的折线。
// 约束：字段稳定；字段名与精简持久化格式保持一致，便于直接导出为离线数据。
type routeOut struct {
	EncodedPolyline string       `json:"encodedPoly"`
	Distance        int          `json:"distance"`
	Duration        float64      `json:"duration"`
	RequestLatency  float64      `json:"requestLatency"`
	WaypointMarkers [][2]float64 `json:"waypointMarkers"`
	Markers         []geo.Point  `json:"markers"`
	Path            []geo.Point  `json:"path,omitempty"`
}

type routesResponse struct {
	Region  string     `json:"region"`
	Algo    string     `json:"algo"`
	Key     string     `json:"key"`
	Count   int        `json:"count"`
	Records []routeOut `json:"records"`
}

type regionOut struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Rings int    `json:"rings"`
}

type errorOut struct {
	Error string `json:"error"`
}

func toRouteOut(r route.Record, withPath bool) routeOut {
	out := routeOut{
		EncodedPolyline: r.EncodedPolyline,
		Distance:        r.Distance,
		Duration:        r.Duration,
		RequestLatency:  r.RequestLatency,
		WaypointMarkers: r.WaypointMarkers,
		Markers:         r.Markers(),
	}
	if withPath {
		// 解码失败时省略路径，记录本身仍返回
		if pts, err := r.Path(); err == nil {
			out.Path = pts
		}
	}
	return out
}
