// 包 algo：算法定义（后端类型、出行方式、负载规模）与内容寻址的缓存键
package algo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// ErrMalformedDefinition：无法选择后端的定义，需在任何 I/O 之前同步返回
var ErrMalformedDefinition = zerr.New("malformed algorithm definition")

// BackendKind：封闭的后端类型集合
type BackendKind string

const (
	// PreferredRouting：REST 路线服务（逐对 HTTP 请求）
	PreferredRouting BackendKind = "RoutesPreferred"
	// DirectionsSDK：SDK 方式的导航服务（带节流）
	DirectionsSDK BackendKind = "DirectionsJsSDK"
)

// ParseBackendKind 接受线上名称与别名，未知值返回 ErrMalformedDefinition
func ParseBackendKind(s string) (BackendKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "routespreferred", "preferredrouting":
		return PreferredRouting, nil
	case "directionsjssdk", "directionssdk":
		return DirectionsSDK, nil
	}
	return "", zerr.With(zerr.Wrap(ErrMalformedDefinition, "unknown backend kind"), "api", s)
}

// 文档注释：算法定义
// 背景：完整决定一次负载的计算行为与缓存身份；任何字段变化都会得到不同的缓存键。
// 约束：值语义、只读；字段顺序即序列化顺序，调整顺序会使既有缓存与离线数据失效。
type Definition struct {
	Name              string         `json:"name" yaml:"name"`
	API               BackendKind    `json:"api" yaml:"api"`
	TravelMode        string         `json:"travelMode" yaml:"travelMode"`
	RoutingPreference string         `json:"routingPreference,omitempty" yaml:"routingPreference,omitempty"`
	NumRoutes         int            `json:"numRoutes" yaml:"numRoutes"`
	NumWaypoints      int            `json:"numWaypoints,omitempty" yaml:"numWaypoints,omitempty"`
	Options           map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
	Offline           bool           `json:"offline,omitempty" yaml:"offline,omitempty"`
}

// Validate 校验后端类型与规模参数，并把别名归一化为线上名称
func (d Definition) Validate() (Definition, error) {
	k, err := ParseBackendKind(string(d.API))
	if err != nil {
		return d, zerr.With(err, "algo", d.Name)
	}
	if d.NumRoutes < 0 || d.NumWaypoints < 0 {
		err := zerr.Wrap(ErrMalformedDefinition, "negative route or waypoint count")
		return d, zerr.With(zerr.With(err, "num_routes", d.NumRoutes), "num_waypoints", d.NumWaypoints)
	}
	if len(d.Options) > 0 {
		// NaN/Inf 或不可序列化的值会让缓存键失去区分度
		if _, err := json.Marshal(d.Options); err != nil {
			return d, zerr.With(zerr.Wrap(ErrMalformedDefinition, "options not JSON-encodable: "+err.Error()), "algo", d.Name)
		}
	}
	d.API = k
	return d, nil
}

// Bool 读取布尔选项；缺失或类型不符返回 false
func (d Definition) Bool(key string) bool {
	v, ok := d.Options[key].(bool)
	return ok && v
}

// 文档注释：稳定序列化
// 背景：结构体字段按声明顺序输出，map 键由 encoding/json 排序，保证相同定义得到相同文本。
func (d Definition) Canonical() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		// 仅未经 Validate 的定义会走到这里；%#v 仍包含全部字段，fmt 对 map 键排序
		return fmt.Sprintf("%#v", d)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Key：<区域>_<稳定序列化定义>_route
func Key(region string, d Definition) string {
	return region + "_" + d.Canonical() + "_route"
}
