package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"route-bench/internal/logger"
	"route-bench/internal/utils"
)

// idleExpiry：客户端桶闲置多久后回收
const idleExpiry = 5 * time.Minute

// 文档注释：按客户端的令牌桶限流
// 背景：每次未命中缓存的 /routes 都会串行触发外部路线服务，需限制单个来源的请求速率以保护配额。
// 约束：不排队，超限直接返回 429；客户端标识取自反向代理头，存在伪造风险时应在可信代理处限流。
type Limiter struct {
	qps   rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*client
	lastGC  time.Time
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewLimiter(qps, burst int) *Limiter {
	if burst <= 0 {
		burst = qps
	}
	return &Limiter{qps: rate.Limit(qps), burst: burst, clients: make(map[string]*client), lastGC: time.Now()}
}

// Allow 判定并消耗一个令牌
func (l *Limiter) Allow(id string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastGC) > idleExpiry {
		for k, c := range l.clients {
			if now.Sub(c.seen) > idleExpiry {
				delete(l.clients, k)
			}
		}
		l.lastGC = now
	}
	c, ok := l.clients[id]
	if !ok {
		c = &client{lim: rate.NewLimiter(l.qps, l.burst)}
		l.clients[id] = c
	}
	c.seen = now
	return c.lim.AllowN(now, 1)
}

func (l *Limiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := clientIP(r)
		if !l.Allow(id, time.Now()) {
			logger.L().Debug("rate_limited", "client", id, "path", r.URL.Path)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Wrap：RATE_LIMIT_ENABLED=true 时按 RATE_LIMIT_QPS / RATE_LIMIT_BURST 包装
func Wrap(next http.Handler) http.Handler {
	if !utils.EnvBool("RATE_LIMIT_ENABLED", false) {
		return next
	}
	qps := utils.EnvInt("RATE_LIMIT_QPS", 5)
	if qps <= 0 {
		qps = 5
	}
	logger.L().Info("rate_limit_enabled", "qps", qps)
	return NewLimiter(qps, utils.EnvInt("RATE_LIMIT_BURST", qps)).Wrap(next)
}

// clientIP：优先常见反向代理头，最后回退远端地址（去掉端口）
func clientIP(r *http.Request) string {
	h := r.Header
	if x := h.Get("x-forwarded-for"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	for _, k := range []string{"cf-connecting-ip", "x-real-ip", "x-client-ip"} {
		if x := h.Get(k); x != "" {
			return x
		}
	}
	if x := h.Get("forwarded"); x != "" {
		if i := strings.Index(strings.ToLower(x), "for="); i >= 0 {
			y := x[i+4:]
			if p := strings.IndexAny(y, ";,"); p >= 0 {
				y = y[:p]
			}
			return strings.Trim(y, "\" ")
		}
	}
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return addr[:i]
	}
	return addr
}
