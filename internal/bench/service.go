// 包 bench：面向调用方的路线与图表接口
package bench

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/zerr"

	"route-bench/internal/algo"
	"route-bench/internal/cache"
	"route-bench/internal/chart"
	"route-bench/internal/geo"
	"route-bench/internal/logger"
	"route-bench/internal/route"
)

var (
	// ErrNotResolved：图表请求早于同键的 GetRoutes
	ErrNotResolved = zerr.New("routes not resolved for key")
	// ErrUnknownRegion：区域名不在目录中
	ErrUnknownRegion = zerr.New("unknown region")
)

// 文档注释：基准服务
// 背景：组合区域目录、算法注册表与缓存解析器；HTTP 与命令行共用。
// 约束：GetChartData 只读内存层，不触发计算。
type Service struct {
	Resolver *cache.Resolver
	Regions  *geo.Catalog
	Algos    *algo.Registry
}

func New(r *cache.Resolver, regions *geo.Catalog, algos *algo.Registry) *Service {
	if regions == nil {
		regions = geo.NewCatalog()
	}
	if algos == nil {
		algos = algo.NewRegistry(nil)
	}
	return &Service{Resolver: r, Regions: regions, Algos: algos}
}

func (s *Service) region(name string) (geo.Region, error) {
	r, ok := s.Regions.Lookup(name)
	if !ok {
		return geo.Region{}, zerr.With(zerr.Wrap(ErrUnknownRegion, "lookup region"), "region", name)
	}
	return r, nil
}

// GetRoutes 运行解析状态机直至完成
func (s *Service) GetRoutes(ctx context.Context, regionName string, def algo.Definition, force bool) ([]route.Record, error) {
	region, err := s.region(regionName)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	t0 := time.Now()
	logger.L().Debug("get_routes_begin", "run_id", runID, "region", regionName, "algo", def.Name, "force", force)
	recs, err := s.Resolver.Resolve(ctx, region, def, force)
	if err != nil {
		logger.L().Warn("get_routes_error", "run_id", runID, "err", err)
		return nil, err
	}
	logger.L().Info("get_routes_done", "run_id", runID, "records", len(recs), "duration_ms", time.Since(t0).Milliseconds())
	return recs, nil
}

// GetRoutesByID 通过注册表中的算法 ID 取定义
func (s *Service) GetRoutesByID(ctx context.Context, regionName, algoID string, force bool) ([]route.Record, error) {
	def, err := s.Algos.Get(algoID)
	if err != nil {
		return nil, err
	}
	return s.GetRoutes(ctx, regionName, def, force)
}

// GetChartData 要求同键此前已成功 GetRoutes
func (s *Service) GetChartData(regionName string, def algo.Definition) (chart.Data, error) {
	if _, err := s.region(regionName); err != nil {
		return chart.Data{}, err
	}
	key, err := s.Resolver.Key(regionName, def)
	if err != nil {
		return chart.Data{}, err
	}
	recs, ok := s.Resolver.Memory.Get(key)
	if !ok {
		return chart.Data{}, zerr.With(zerr.Wrap(ErrNotResolved, "chart data"), "key", key)
	}
	return chart.Aggregate(recs), nil
}

// GetChartDataByID 通过注册表中的算法 ID 取定义
func (s *Service) GetChartDataByID(regionName, algoID string) (chart.Data, error) {
	def, err := s.Algos.Get(algoID)
	if err != nil {
		return chart.Data{}, err
	}
	return s.GetChartData(regionName, def)
}
