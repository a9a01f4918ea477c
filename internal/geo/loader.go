package geo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// 文档注释：从目录加载自定义区域（GeoJSON）
// 背景：内置区域之外的采样范围通过 *.geojson 文件提供，支持 Feature/FeatureCollection 与 Polygon/MultiPolygon。
// 约束：区域名取 properties.name（缺失时用文件名）；仅取每个多边形的外环，洞被忽略，因为采样按环并集处理。
// 返回：成功解析的区域；单个文件解析失败时跳过该文件，目录不可读时返回错误。
func LoadRegions(dir string) ([]Region, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "read regions dir"), "dir", dir)
	}
	var out []Region
	for _, ent := range entries {
		name := ent.Name()
		if ent.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".geojson") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		var gj map[string]any
		if err := json.Unmarshal(b, &gj); err != nil {
			continue
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		out = append(out, regionsFromGeoJSON(gj, base)...)
	}
	return out, nil
}

func regionsFromGeoJSON(gj map[string]any, fallback string) []Region {
	switch strings.ToLower(getStr(gj, "type")) {
	case "featurecollection":
		var out []Region
		arr, _ := gj["features"].([]any)
		for i, it := range arr {
			f, ok := it.(map[string]any)
			if !ok {
				continue
			}
			name := fallback
			if len(arr) > 1 {
				name = fallback + "_" + strconv.Itoa(i)
			}
			if r, ok := regionFromFeature(f, name); ok {
				out = append(out, r)
			}
		}
		return out
	case "feature":
		if r, ok := regionFromFeature(gj, fallback); ok {
			return []Region{r}
		}
	}
	return nil
}

func regionFromFeature(f map[string]any, fallback string) (Region, bool) {
	r := Region{Name: fallback}
	if p, ok := f["properties"].(map[string]any); ok {
		if v := getStr(p, "name"); v != "" {
			r.Name = v
		}
		r.Label = getStr(p, "label")
	}
	g, ok := f["geometry"].(map[string]any)
	if !ok {
		return r, false
	}
	coords, _ := g["coordinates"].([]any)
	switch strings.ToLower(getStr(g, "type")) {
	case "polygon":
		if ring, ok := outerRing(coords); ok {
			r.Rings = append(r.Rings, ring)
		}
	case "multipolygon":
		for _, part := range coords {
			rings, _ := part.([]any)
			if ring, ok := outerRing(rings); ok {
				r.Rings = append(r.Rings, ring)
			}
		}
	}
	return r, len(r.Rings) > 0
}

// GeoJSON 坐标顺序为 [lng, lat]
func outerRing(rings []any) (Ring, bool) {
	if len(rings) == 0 {
		return nil, false
	}
	arr, ok := rings[0].([]any)
	if !ok {
		return nil, false
	}
	var ring Ring
	for _, p := range arr {
		vv, ok := p.([]any)
		if !ok || len(vv) < 2 {
			continue
		}
		lng, ok1 := vv[0].(float64)
		lat, ok2 := vv[1].(float64)
		if !ok1 || !ok2 {
			continue
		}
		ring = append(ring, Point{Lat: lat, Lng: lng})
	}
	return ring, len(ring) >= 3
}

func getStr(m map[string]any, k string) string {
	if v, ok := m[k].(string); ok {
		return v
	}
	return ""
}
