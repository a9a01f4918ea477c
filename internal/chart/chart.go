// 包 chart：从已解析的路线记录派生延迟、时长、距离三组序列
package chart

import (
	"encoding/json"
	"strconv"

	"route-bench/internal/route"
)

// Row：一个 (标签, 数值) 点
type Row struct {
	Label string
	Value float64
}

// Series：首行为表头（名称, 单位），随后为数据点
type Series struct {
	Name string
	Unit string
	Rows []Row
}

// MarshalJSON 输出 [["Latency","ms"],["req #0",12],...]，与图表组件的二维数组格式一致
func (s Series) MarshalJSON() ([]byte, error) {
	out := make([][2]any, 0, len(s.Rows)+1)
	out = append(out, [2]any{s.Name, s.Unit})
	for _, r := range s.Rows {
		out = append(out, [2]any{r.Label, r.Value})
	}
	return json.Marshal(out)
}

// Data：三组序列
type Data struct {
	Latency  Series `json:"latencyData"`
	Duration Series `json:"durationData"`
	Distance Series `json:"distanceData"`
}

// Aggregate 纯函数，不触发任何计算或 I/O；时长取整数部分
func Aggregate(records []route.Record) Data {
	d := Data{
		Latency:  Series{Name: "Latency", Unit: "ms", Rows: make([]Row, 0, len(records))},
		Duration: Series{Name: "Duration", Unit: "sec", Rows: make([]Row, 0, len(records))},
		Distance: Series{Name: "Distance", Unit: "meters", Rows: make([]Row, 0, len(records))},
	}
	for i, r := range records {
		label := "req #" + strconv.Itoa(i)
		d.Latency.Rows = append(d.Latency.Rows, Row{Label: label, Value: r.RequestLatency})
		d.Duration.Rows = append(d.Duration.Rows, Row{Label: label, Value: float64(int64(r.Duration))})
		d.Distance.Rows = append(d.Distance.Rows, Row{Label: label, Value: float64(r.Distance)})
	}
	return d
}
