package logger

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultSlow：超过该耗时的请求按 info 记录，通常意味着缓存未命中触发了后端计算
const DefaultSlow = 2 * time.Second

// routeParams：路线与图表接口的查询参数，单独成字段便于按区域与算法过滤日志
var routeParams = []string{"region", "algo", "refresh"}

type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *recorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// 文档注释：访问日志
// 约束：5xx 记 warn，超过 Slow 记 info 并带 slow=true，其余记 debug；不读取请求体。
type Access struct {
	Logger *slog.Logger
	Slow   time.Duration
}

// AccessMiddleware 使用 DefaultSlow
func AccessMiddleware(l *slog.Logger) func(http.Handler) http.Handler {
	return Access{Logger: l, Slow: DefaultSlow}.Wrap
}

func (a Access) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &recorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rw, r)
		elapsed := time.Since(start)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"bytes", rw.bytes,
			"duration_ms", elapsed.Milliseconds(),
			"ip", r.RemoteAddr,
		}
		q := r.URL.Query()
		for _, k := range routeParams {
			if v := q.Get(k); v != "" {
				attrs = append(attrs, k, v)
			}
		}
		lvl := slog.LevelDebug
		switch {
		case rw.status >= http.StatusInternalServerError:
			lvl = slog.LevelWarn
		case a.Slow > 0 && elapsed >= a.Slow:
			lvl = slog.LevelInfo
			attrs = append(attrs, "slow", true)
		}
		a.Logger.Log(r.Context(), lvl, "http_access", attrs...)
	})
}
