// 包 route：跨后端统一的路线记录、折线懒解码与精简持久化格式
package route

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/twpayne/go-polyline"
	"go.trai.ch/zerr"

	"route-bench/internal/geo"
)

// ErrMalformedRecord：持久化文本无法还原为路线记录
var ErrMalformedRecord = zerr.New("malformed route records")

// Persisted：持久化只保留的五个字段，顺序与线上 JSON 一致
type Persisted struct {
	EncodedPolyline string       `json:"encodedPoly"`
	Distance        int          `json:"distance"`
	Duration        float64      `json:"duration"`
	RequestLatency  float64      `json:"requestLatency"`
	WaypointMarkers [][2]float64 `json:"waypointMarkers"`
}

// UnmarshalJSON 兼容旧数据中 "123s" 形式的时长
func (p *Persisted) UnmarshalJSON(b []byte) error {
	type alias Persisted
	var aux struct {
		alias
		Duration json.RawMessage `json:"duration"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Persisted(aux.alias)
	if len(aux.Duration) == 0 || string(aux.Duration) == "null" {
		return nil
	}
	if aux.Duration[0] == '"' {
		var s string
		if err := json.Unmarshal(aux.Duration, &s); err != nil {
			return err
		}
		secs, err := ParseSeconds(s)
		if err != nil {
			return err
		}
		p.Duration = secs
		return nil
	}
	return json.Unmarshal(aux.Duration, &p.Duration)
}

// 文档注释：路线记录
// 背景：所有后端的结果归一为同一形态；创建后不再修改，缓存重建总是整体替换。
// 约束：Path 仅在首次调用时解码，归一化与持久化都不触发解码；记录可按值复制，解码结果在副本间共享。
type Record struct {
	Persisted
	path *lazyPath
}

type lazyPath struct {
	once sync.Once
	done atomic.Bool
	pts  []geo.Point
	err  error
}

// New 构造记录；markers 可为空
func New(encoded string, distance int, duration, latency float64, markers [][2]float64) Record {
	return Record{
		Persisted: Persisted{
			EncodedPolyline: encoded,
			Distance:        distance,
			Duration:        duration,
			RequestLatency:  latency,
			WaypointMarkers: markers,
		},
		path: &lazyPath{},
	}
}

// Path 返回解码后的折线点序列，首次调用时解码并缓存
func (r Record) Path() ([]geo.Point, error) {
	if r.path == nil {
		return decodePath(r.EncodedPolyline)
	}
	r.path.once.Do(func() {
		r.path.pts, r.path.err = decodePath(r.EncodedPolyline)
		r.path.done.Store(true)
	})
	return r.path.pts, r.path.err
}

// Decoded 报告折线是否已经解码
func (r Record) Decoded() bool {
	return r.path != nil && r.path.done.Load()
}

// Markers 以点的形式返回途经点标记；没有时返回空切片
func (r Record) Markers() []geo.Point {
	out := make([]geo.Point, 0, len(r.WaypointMarkers))
	for _, m := range r.WaypointMarkers {
		out = append(out, geo.Point{Lat: m[0], Lng: m[1]})
	}
	return out
}

func decodePath(encoded string) ([]geo.Point, error) {
	if encoded == "" {
		return []geo.Point{}, nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, zerr.Wrap(err, "decode polyline")
	}
	pts := make([]geo.Point, 0, len(coords))
	for _, c := range coords {
		pts = append(pts, geo.Point{Lat: c[0], Lng: c[1]})
	}
	return pts, nil
}

func encodePath(pts []geo.Point) string {
	coords := make([][]float64, 0, len(pts))
	for _, p := range pts {
		coords = append(coords, []float64{p.Lat, p.Lng})
	}
	return string(polyline.EncodeCoords(coords))
}

// ParseSeconds 解析 "123s" / "1.5s" / "90" 形式的时长为秒
func ParseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d.Seconds(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(ErrMalformedRecord, "parse duration"), "duration", s)
	}
	return v, nil
}
