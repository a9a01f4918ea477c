package route

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// Marshal 输出精简 JSON 数组，只包含五个必要字段，不含解码后的路径
func Marshal(records []Record) (string, error) {
	out := make([]Persisted, len(records))
	for i, r := range records {
		out[i] = r.Persisted
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", zerr.Wrap(err, "marshal route records")
	}
	return string(b), nil
}

// Unmarshal 从精简 JSON 还原记录；路径解码推迟到首次访问
func Unmarshal(s string) ([]Record, error) {
	var parsed []Persisted
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return nil, zerr.With(zerr.Wrap(ErrMalformedRecord, err.Error()), "bytes", len(s))
	}
	return FromParsed(parsed), nil
}

// FromParsed 把已解析的持久化形态包装为记录
func FromParsed(parsed []Persisted) []Record {
	out := make([]Record, len(parsed))
	for i, p := range parsed {
		out[i] = New(p.EncodedPolyline, p.Distance, p.Duration, p.RequestLatency, p.WaypointMarkers)
	}
	return out
}
