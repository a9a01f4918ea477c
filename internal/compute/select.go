package compute

import (
	"context"
	"sync/atomic"

	"go.trai.ch/zerr"

	"route-bench/internal/algo"
	"route-bench/internal/geo"
	"route-bench/internal/route"
)

// Backends：按后端类型持有已配置的适配器
type Backends struct {
	Preferred  Adapter
	Directions Adapter
}

// Select 对后端类型做穷尽匹配；未知类型返回 ErrMalformedDefinition，未配置返回 ErrNotConfigured
func (b Backends) Select(def algo.Definition) (Adapter, error) {
	var a Adapter
	switch def.API {
	case algo.PreferredRouting:
		a = b.Preferred
	case algo.DirectionsSDK:
		a = b.Directions
	default:
		return nil, zerr.With(zerr.Wrap(algo.ErrMalformedDefinition, "no adapter for backend kind"), "api", string(def.API))
	}
	if a == nil {
		return nil, zerr.With(zerr.Wrap(ErrNotConfigured, "select adapter"), "api", string(def.API))
	}
	return a, nil
}

// 文档注释：计数包装
// 背景：统计 Compute 调用次数与提交的起终点对数量，用于验证缓存命中时不触发计算。
type Counting struct {
	Adapter
	calls atomic.Int64
	pairs atomic.Int64
}

func NewCounting(a Adapter) *Counting { return &Counting{Adapter: a} }

func (c *Counting) Compute(ctx context.Context, pairs []geo.Pair, def algo.Definition) []route.Record {
	c.calls.Add(1)
	c.pairs.Add(int64(len(pairs)))
	return c.Adapter.Compute(ctx, pairs, def)
}

// Calls 返回 Compute 调用次数
func (c *Counting) Calls() int64 { return c.calls.Load() }

// Pairs 返回累计提交的起终点对数
func (c *Counting) Pairs() int64 { return c.pairs.Load() }

// Func 把普通函数适配为 Adapter，便于测试与离线替身
type Func struct {
	K  algo.BackendKind
	Fn func(ctx context.Context, pairs []geo.Pair, def algo.Definition) []route.Record
}

func (f Func) Kind() algo.BackendKind { return f.K }

func (f Func) Compute(ctx context.Context, pairs []geo.Pair, def algo.Definition) []route.Record {
	return f.Fn(ctx, pairs, def)
}

// PerPair 构造逐对调用的 Adapter：与真实后端共享串行、跳过与失败开放语义
func PerPair(kind algo.BackendKind, call func(ctx context.Context, i int, p geo.Pair) (route.Record, error)) Adapter {
	return Func{K: kind, Fn: func(ctx context.Context, pairs []geo.Pair, def algo.Definition) []route.Record {
		i := -1
		return drain(ctx, kind, pairs, func(ctx context.Context, p geo.Pair) (route.Record, error) {
			i++
			return call(ctx, i, p)
		}, nil)
	}}
}
