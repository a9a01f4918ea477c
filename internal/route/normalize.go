package route

import (
	"googlemaps.github.io/maps"

	"route-bench/internal/geo"
)

// PreferredResponse：REST 路线服务响应中被字段掩码保留的部分
type PreferredResponse struct {
	Routes []PreferredRoute `json:"routes"`
}

type PreferredRoute struct {
	DistanceMeters int    `json:"distanceMeters"`
	Duration       string `json:"duration"`
	Polyline       struct {
		EncodedPolyline string `json:"encodedPolyline"`
	} `json:"polyline"`
	Legs []PreferredLeg `json:"legs"`
}

type PreferredLeg struct {
	EndLocation struct {
		LatLng struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"latLng"`
	} `json:"endLocation"`
}

// FromRoutesPreferred 取第一条路线；没有路线时 ok=false
func FromRoutesPreferred(resp PreferredResponse, latencyMs float64) (Record, bool) {
	if len(resp.Routes) == 0 {
		return Record{}, false
	}
	rt := resp.Routes[0]
	markers := make([][2]float64, 0, len(rt.Legs))
	for _, leg := range rt.Legs {
		ll := leg.EndLocation.LatLng
		markers = append(markers, [2]float64{ll.Latitude, ll.Longitude})
	}
	// 时长格式异常时记为 0，不丢弃整条记录
	secs, _ := ParseSeconds(rt.Duration)
	return New(rt.Polyline.EncodedPolyline, rt.DistanceMeters, secs, latencyMs, markers), true
}

// 文档注释：SDK 导航结果归一化
// 背景：途经点较多时概览折线会丢失细节，因此由各 step 折线拼接后重新编码；距离与时长按 leg 求和。
func FromDirections(rt maps.Route, latencyMs float64) (Record, error) {
	markers := make([][2]float64, 0, len(rt.Legs))
	var (
		distance int
		duration float64
		path     []geo.Point
	)
	for _, leg := range rt.Legs {
		if leg == nil {
			continue
		}
		markers = append(markers, [2]float64{leg.EndLocation.Lat, leg.EndLocation.Lng})
		distance += leg.Meters
		duration += leg.Duration.Seconds()
		for _, step := range leg.Steps {
			if step == nil {
				continue
			}
			pts, err := decodePath(step.Points)
			if err != nil {
				return Record{}, err
			}
			path = append(path, pts...)
		}
	}
	encoded := encodePath(path)
	if len(path) == 0 {
		encoded = rt.OverviewPolyline.Points
	}
	return New(encoded, distance, duration, latencyMs, markers), nil
}
