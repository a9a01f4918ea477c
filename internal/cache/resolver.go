package cache

import (
	"context"
	"log/slog"

	"go.trai.ch/zerr"

	"route-bench/internal/algo"
	"route-bench/internal/compute"
	"route-bench/internal/geo"
	"route-bench/internal/logger"
	"route-bench/internal/metrics"
	"route-bench/internal/route"
)

// Selector 按定义选择计算适配器；compute.Backends 满足该接口
type Selector interface {
	Select(def algo.Definition) (compute.Adapter, error)
}

// 文档注释：缓存解析器
// 背景：按 (区域, 算法定义) 的内容寻址键，依次执行 强制失效 → 离线覆盖 → 内存 → 持久层 → 计算并写穿。
// 约束：
// - 定义非法时在任何 I/O 之前同步返回 algo.ErrMalformedDefinition；
// - 后端致命错误与持久层失败都不向调用方暴露，结果可能为部分或空集合；
// - 同一键的并发解析不互斥，后写者覆盖两级缓存；失效与调用方取消都不会中断在途计算；
// - 离线定义总是用离线数据整体覆盖内存层（即使数据为空），不与持久层合并。
type Resolver struct {
	Memory      *Memory
	Durable     Durable
	Fixtures    FixtureSource
	Backends    Selector
	Seed        geo.Seed
	MaxAttempts int
}

// NewResolver：durable 为空时使用 Nop；种子默认 geo.DefaultSeed
func NewResolver(mem *Memory, durable Durable, fixtures FixtureSource, backends Selector) *Resolver {
	if mem == nil {
		mem = NewMemory(0)
	}
	if durable == nil {
		durable = Nop{}
	}
	return &Resolver{
		Memory:      mem,
		Durable:     durable,
		Fixtures:    fixtures,
		Backends:    backends,
		Seed:        geo.DefaultSeed,
		MaxAttempts: geo.DefaultMaxAttempts,
	}
}

// Key 与 Resolve 使用同一键；定义先归一化
func (r *Resolver) Key(region string, def algo.Definition) (string, error) {
	d, err := def.Validate()
	if err != nil {
		return "", err
	}
	return algo.Key(region, d), nil
}

// Resolve 运行解析状态机直至完成
func (r *Resolver) Resolve(ctx context.Context, region geo.Region, def algo.Definition, force bool) ([]route.Record, error) {
	def, err := def.Validate()
	if err != nil {
		return nil, err
	}
	key := algo.Key(region.Name, def)
	l := logger.L().With("region", region.Name, "algo", def.Name)

	if force {
		metrics.CacheInvalidationsTotal.Inc()
		r.Memory.Delete(key)
		if err := r.Durable.Remove(ctx, key); err != nil {
			l.Warn("durable_remove_error", "err", err)
		}
		l.Debug("resolve_invalidated")
	}

	if def.Offline {
		recs := r.fetchFixture(ctx, key, l)
		r.Memory.Set(key, recs)
		metrics.CacheHitsTotal.WithLabelValues("fixture").Inc()
		l.Info("resolve_offline", "records", len(recs))
		return recs, nil
	}

	if recs, ok := r.Memory.Get(key); ok {
		metrics.CacheHitsTotal.WithLabelValues("memory").Inc()
		l.Debug("resolve_memory_hit", "records", len(recs))
		return recs, nil
	}

	if recs, ok := r.fromDurable(ctx, key, l); ok {
		r.Memory.Set(key, recs)
		metrics.CacheHitsTotal.WithLabelValues("durable").Inc()
		l.Debug("resolve_durable_hit", "records", len(recs))
		return recs, nil
	}

	metrics.CacheMissesTotal.Inc()
	// 计算一旦开始就跑完并写穿；调用方断开不会把截断结果留在缓存里
	bg := context.WithoutCancel(ctx)
	recs, err := r.compute(bg, region, def)
	if err != nil {
		return nil, err
	}
	r.writeThrough(bg, key, recs, l)
	metrics.RoutesResolved.Observe(float64(len(recs)))
	l.Info("resolve_computed", "records", len(recs), "requested", def.NumRoutes)
	return recs, nil
}

func (r *Resolver) fetchFixture(ctx context.Context, key string, l *slog.Logger) []route.Record {
	if r.Fixtures == nil {
		metrics.FixtureFailTotal.Inc()
		l.Warn("fixture_unconfigured")
		return []route.Record{}
	}
	recs, err := r.Fixtures.Fetch(ctx, key)
	if err != nil {
		metrics.FixtureFailTotal.Inc()
		l.Warn("fixture_fetch_error", "err", err)
		return []route.Record{}
	}
	return recs
}

func (r *Resolver) fromDurable(ctx context.Context, key string, l *slog.Logger) ([]route.Record, bool) {
	raw, ok, err := r.Durable.Get(ctx, key)
	if err != nil {
		l.Warn("durable_get_error", "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	recs, err := route.Unmarshal(raw)
	if err != nil {
		l.Warn("durable_decode_error", "err", err)
		return nil, false
	}
	return recs, true
}

// compute 生成起终点对并交给适配器；采样失败与后端未配置会返回错误，此时没有发生任何后端调用
func (r *Resolver) compute(ctx context.Context, region geo.Region, def algo.Definition) ([]route.Record, error) {
	if r.Backends == nil {
		return nil, zerr.With(zerr.Wrap(compute.ErrNotConfigured, "resolve"), "api", string(def.API))
	}
	adapter, err := r.Backends.Select(def)
	if err != nil {
		return nil, err
	}
	sampler, err := geo.NewSampler(region, geo.NewSFC32(r.Seed), r.MaxAttempts)
	if err != nil {
		return nil, err
	}
	pairs, err := geo.GeneratePairs(sampler, def.NumRoutes, def.NumWaypoints)
	if err != nil {
		return nil, err
	}
	return adapter.Compute(ctx, pairs, def), nil
}

func (r *Resolver) writeThrough(ctx context.Context, key string, recs []route.Record, l *slog.Logger) {
	if s, err := route.Marshal(recs); err != nil {
		l.Warn("durable_encode_error", "err", err)
	} else if err := r.Durable.Set(ctx, key, s); err != nil {
		metrics.DurableWriteFailTotal.WithLabelValues(storeName(r.Durable)).Inc()
		l.Warn("durable_set_error", "err", err, "bytes", len(s))
	}
	r.Memory.Set(key, recs)
}

func storeName(d Durable) string {
	switch d.(type) {
	case *RedisStore:
		return "redis"
	case *PostgresStore:
		return "postgres"
	case Nop:
		return "none"
	}
	return "other"
}
