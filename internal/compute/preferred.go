package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.trai.ch/zerr"

	"route-bench/internal/algo"
	"route-bench/internal/geo"
	"route-bench/internal/logger"
	"route-bench/internal/route"
)

// DefaultPreferredURL：REST 路线服务默认端点
const DefaultPreferredURL = "https://routespreferred.googleapis.com/v1:computeRoutes"

const preferredFieldMask = "routes.duration,routes.distanceMeters,routes.polyline.encodedPolyline,routes.legs.end_location"

// 文档注释：REST 路线后端
// 背景：每个起终点对发送一次 POST，无人为延迟；响应只按字段掩码保留时长、距离、折线与各段终点。
// 约束：传输错误、非 2xx、响应无法解析均为致命；响应中没有路线视为跳过。
type Preferred struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

// NewPreferred 构造 REST 后端；endpoint 为空时使用默认端点，client 为空时使用 30s 超时的默认客户端
func NewPreferred(endpoint, apiKey string, client *http.Client) *Preferred {
	if endpoint == "" {
		endpoint = DefaultPreferredURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Preferred{Endpoint: endpoint, APIKey: apiKey, Client: client}
}

func (p *Preferred) Kind() algo.BackendKind { return algo.PreferredRouting }

func (p *Preferred) Compute(ctx context.Context, pairs []geo.Pair, def algo.Definition) []route.Record {
	return drain(ctx, p.Kind(), pairs, func(ctx context.Context, pair geo.Pair) (route.Record, error) {
		return p.calcRoute(ctx, pair, def)
	}, nil)
}

type waypoint struct {
	VehicleStopover bool     `json:"vehicleStopover,omitempty"`
	Location        location `json:"location"`
}

type location struct {
	LatLng latLng `json:"latLng"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type routeModifiers struct {
	AvoidTolls    bool `json:"avoidTolls"`
	AvoidHighways bool `json:"avoidHighways"`
	AvoidFerries  bool `json:"avoidFerries"`
}

type preferredRequest struct {
	Intermediates            []waypoint     `json:"intermediates"`
	Origin                   waypoint       `json:"origin"`
	Destination              waypoint       `json:"destination"`
	TravelMode               string         `json:"travelMode,omitempty"`
	RoutingPreference        string         `json:"routingPreference,omitempty"`
	PolylineQuality          string         `json:"polylineQuality"`
	ComputeAlternativeRoutes bool           `json:"computeAlternativeRoutes"`
	RouteModifiers           routeModifiers `json:"routeModifiers"`
	LanguageCode             string         `json:"languageCode"`
	Units                    string         `json:"units"`
}

func toWaypoint(p geo.Point, stopover bool) waypoint {
	return waypoint{VehicleStopover: stopover, Location: location{LatLng: latLng{Latitude: p.Lat, Longitude: p.Lng}}}
}

func buildPreferredRequest(pair geo.Pair, def algo.Definition) preferredRequest {
	inter := make([]waypoint, 0, len(pair.Waypoints))
	for _, wp := range pair.Waypoints {
		inter = append(inter, toWaypoint(wp, true))
	}
	return preferredRequest{
		Intermediates:     inter,
		Origin:            toWaypoint(pair.Origin, false),
		Destination:       toWaypoint(pair.Destination, false),
		TravelMode:        def.TravelMode,
		RoutingPreference: def.RoutingPreference,
		PolylineQuality:   "OVERVIEW",
		RouteModifiers: routeModifiers{
			AvoidTolls:    def.Bool("avoidTolls"),
			AvoidHighways: def.Bool("avoidHighways"),
		},
		LanguageCode: "en-US",
		Units:        "IMPERIAL",
	}
}

// calcRoute 发起单次请求；延迟只覆盖 HTTP 往返
func (p *Preferred) calcRoute(ctx context.Context, pair geo.Pair, def algo.Definition) (route.Record, error) {
	body, err := json.Marshal(buildPreferredRequest(pair, def))
	if err != nil {
		return route.Record{}, zerr.Wrap(ErrBackendFatal, err.Error())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return route.Record{}, zerr.Wrap(ErrBackendFatal, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", p.APIKey)
	req.Header.Set("X-Goog-FieldMask", preferredFieldMask)

	t0 := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		return route.Record{}, zerr.Wrap(ErrBackendFatal, err.Error())
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	latency := observe(p.Kind(), t0)
	if err != nil {
		return route.Record{}, zerr.Wrap(ErrBackendFatal, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := zerr.With(zerr.Wrap(ErrBackendFatal, "unexpected status"), "status", resp.StatusCode)
		return route.Record{}, zerr.With(err, "body", truncate(raw, 256))
	}
	var parsed route.PreferredResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return route.Record{}, zerr.Wrap(ErrBackendFatal, "decode response: "+err.Error())
	}
	rec, ok := route.FromRoutesPreferred(parsed, latency)
	if !ok {
		return route.Record{}, ErrZeroResults
	}
	logger.L().Debug("preferred_resp", "distance", rec.Distance, "duration", rec.Duration, "latency_ms", latency)
	return rec, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
