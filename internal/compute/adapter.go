// 包 compute：把起终点对队列串行地交给路线后端，归一化为路线记录
package compute

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/zerr"

	"route-bench/internal/algo"
	"route-bench/internal/geo"
	"route-bench/internal/logger"
	"route-bench/internal/metrics"
	"route-bench/internal/route"
)

var (
	// ErrZeroResults：该起终点对没有可行路线，跳过且不计为失败
	ErrZeroResults = zerr.New("backend returned zero results")
	// ErrBackendFatal：其余任何后端失败，终止剩余队列
	ErrBackendFatal = zerr.New("backend call failed")
	// ErrNotConfigured：定义选择的后端在本进程未配置
	ErrNotConfigured = zerr.New("backend not configured")
)

// 文档注释：计算适配器
// 背景：不同后端（REST 与 SDK）共享同一调用约定，按定义中的后端类型选择。
// 约束：严格串行，同一时刻只有一个在途请求；失败开放，致命错误只终止循环并返回已累计结果，从不向上抛出。
// 输入切片只读，不会被修改。
type Adapter interface {
	Kind() algo.BackendKind
	Compute(ctx context.Context, pairs []geo.Pair, def algo.Definition) []route.Record
}

// callFunc 处理单个起终点对；返回 ErrZeroResults 表示跳过
type callFunc func(ctx context.Context, p geo.Pair) (route.Record, error)

// drain 按下标顺序处理 pairs；after 在每次非致命调用之后执行（节流），返回错误则视为致命
func drain(ctx context.Context, kind algo.BackendKind, pairs []geo.Pair, call callFunc, after func(ctx context.Context, i int) error) []route.Record {
	backend := string(kind)
	out := make([]route.Record, 0, len(pairs))
	for i := range pairs {
		if err := ctx.Err(); err != nil {
			logger.L().Warn("backend_cancelled", "backend", backend, "index", i, "records", len(out), "err", err)
			return out
		}
		metrics.BackendRequestsTotal.WithLabelValues(backend).Inc()
		rec, err := call(ctx, pairs[i])
		switch {
		case err == nil:
			out = append(out, rec)
		case errors.Is(err, ErrZeroResults):
			metrics.BackendZeroResultsTotal.WithLabelValues(backend).Inc()
			logger.L().Debug("backend_zero_results", "backend", backend, "index", i)
		default:
			metrics.BackendFailTotal.WithLabelValues(backend).Inc()
			logger.L().Error("backend_fatal", "backend", backend, "index", i, "records", len(out), "err", err)
			return out
		}
		if after != nil {
			if err := after(ctx, i); err != nil {
				logger.L().Warn("backend_cancelled", "backend", backend, "index", i, "records", len(out), "err", err)
				return out
			}
		}
	}
	return out
}

// observe 记录单次后端调用耗时并返回毫秒值
func observe(kind algo.BackendKind, t0 time.Time) float64 {
	ms := float64(time.Since(t0).Milliseconds())
	metrics.BackendDurationMs.WithLabelValues(string(kind)).Observe(ms)
	return ms
}
