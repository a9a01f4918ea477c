package geo

import (
	"go.trai.ch/zerr"
)

var (
	// ErrBoundedSampling 在超过最大尝试次数仍未命中区域时返回
	ErrBoundedSampling = zerr.New("sampling attempts exhausted")
	// ErrEmptyRegion 区域没有任何顶点
	ErrEmptyRegion = zerr.New("region has no vertices")
)

// DefaultMaxAttempts：单点最大拒绝次数
const DefaultMaxAttempts = 100000

// 文档注释：拒绝采样器
// 背景：在包围盒内均匀取点，再做点入多边形判定，未命中则重抽；包围盒只计算一次。
// 约束：区域占包围盒面积比例过小时效率急剧下降；maxAttempts<=0 表示不设上限（可能不终止）。
type Sampler struct {
	region      Region
	bbox        BBox
	rng         *SFC32
	maxAttempts int
}

func NewSampler(region Region, rng *SFC32, maxAttempts int) (*Sampler, error) {
	b, ok := region.Bounds()
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrEmptyRegion, "new sampler"), "region", region.Name)
	}
	return &Sampler{region: region, bbox: b, rng: rng, maxAttempts: maxAttempts}, nil
}

// Sample 返回一个落在区域内的点；每次候选消耗两次随机数（先纬度后经度）
func (s *Sampler) Sample() (Point, error) {
	spanLat, spanLng := s.bbox.Span()
	for n := 0; s.maxAttempts <= 0 || n < s.maxAttempts; n++ {
		p := Point{
			Lat: s.bbox.MinLat + s.rng.Next()*spanLat,
			Lng: s.bbox.MinLng + s.rng.Next()*spanLng,
		}
		if s.region.Contains(p) {
			return p, nil
		}
	}
	err := zerr.Wrap(ErrBoundedSampling, "sample point")
	return Point{}, zerr.With(zerr.With(err, "region", s.region.Name), "attempts", s.maxAttempts)
}

// Func 返回无参采样函数形式
func (s *Sampler) Func() func() (Point, error) { return s.Sample }
