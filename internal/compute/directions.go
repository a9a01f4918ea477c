package compute

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/zerr"
	"googlemaps.github.io/maps"

	"route-bench/internal/algo"
	"route-bench/internal/geo"
	"route-bench/internal/logger"
	"route-bench/internal/route"
)

// DefaultPacing：SDK 后端两次请求之间的固定间隔
const DefaultPacing = 400 * time.Millisecond

// DirectionsClient：*maps.Client 满足该接口，测试中可替换
type DirectionsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// 文档注释：SDK 导航后端
// 背景：外部配额较紧，每次调用之后固定等待 Pacing 再处理下一对；最后一对之后不再等待。
// 约束：ZERO_RESULTS 跳过；其余错误致命；等待期间上下文取消也终止队列。
type Directions struct {
	Client DirectionsClient
	Pacing time.Duration
}

// NewDirections 构造 SDK 后端；pacing<0 时使用默认间隔
func NewDirections(client DirectionsClient, pacing time.Duration) *Directions {
	if pacing < 0 {
		pacing = DefaultPacing
	}
	return &Directions{Client: client, Pacing: pacing}
}

// NewDirectionsFromKey 使用 API Key 创建 maps 客户端
func NewDirectionsFromKey(apiKey string, pacing time.Duration, opts ...maps.ClientOption) (*Directions, error) {
	c, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, zerr.Wrap(err, "new directions client")
	}
	return NewDirections(c, pacing), nil
}

func (d *Directions) Kind() algo.BackendKind { return algo.DirectionsSDK }

func (d *Directions) Compute(ctx context.Context, pairs []geo.Pair, def algo.Definition) []route.Record {
	last := len(pairs) - 1
	return drain(ctx, d.Kind(), pairs, func(ctx context.Context, pair geo.Pair) (route.Record, error) {
		return d.calcRoute(ctx, pair, def)
	}, func(ctx context.Context, i int) error {
		if i == last || d.Pacing <= 0 {
			return nil
		}
		t := time.NewTimer(d.Pacing)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	})
}

func latLngString(p geo.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

func buildDirectionsRequest(pair geo.Pair, def algo.Definition) *maps.DirectionsRequest {
	req := &maps.DirectionsRequest{
		Origin:      latLngString(pair.Origin),
		Destination: latLngString(pair.Destination),
		Mode:        maps.Mode(strings.ToLower(def.TravelMode)),
		Optimize:    def.Bool("optimizeWaypoints"),
	}
	for _, wp := range pair.Waypoints {
		req.Waypoints = append(req.Waypoints, latLngString(wp))
	}
	if def.Bool("avoidTolls") {
		req.Avoid = append(req.Avoid, maps.AvoidTolls)
	}
	if def.Bool("avoidHighways") {
		req.Avoid = append(req.Avoid, maps.AvoidHighways)
	}
	return req
}

func (d *Directions) calcRoute(ctx context.Context, pair geo.Pair, def algo.Definition) (route.Record, error) {
	t0 := time.Now()
	routes, _, err := d.Client.Directions(ctx, buildDirectionsRequest(pair, def))
	latency := observe(d.Kind(), t0)
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return route.Record{}, ErrZeroResults
		}
		return route.Record{}, zerr.Wrap(ErrBackendFatal, err.Error())
	}
	// maps 客户端对 ZERO_RESULTS 返回空结果而非错误
	if len(routes) == 0 {
		return route.Record{}, ErrZeroResults
	}
	rec, err := route.FromDirections(routes[0], latency)
	if err != nil {
		return route.Record{}, zerr.Wrap(ErrBackendFatal, err.Error())
	}
	logger.L().Debug("directions_resp", "distance", rec.Distance, "duration", rec.Duration, "latency_ms", latency)
	return rec, nil
}
