// 包 app：从环境变量装配区域目录、算法注册表、各级缓存与后端，供服务端与命令行共用
package app

import (
	"context"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"route-bench/internal/algo"
	"route-bench/internal/bench"
	"route-bench/internal/cache"
	"route-bench/internal/compute"
	"route-bench/internal/geo"
	"route-bench/internal/logger"
	"route-bench/internal/migrate"
	"route-bench/internal/utils"
)

// Options：装配参数，通常由 OptionsFromEnv 填充；MaxAttempts<=0 表示采样不设上限
type Options struct {
	DurableBackend string
	FixtureBase    string
	AlgosFile      string
	RegionsDir     string
	Seed           string
	MaxAttempts    int
	Pacing         time.Duration
}

// OptionsFromEnv 读取环境变量
func OptionsFromEnv() Options {
	return Options{
		DurableBackend: utils.Env("DURABLE_BACKEND", "redis"),
		FixtureBase:    utils.Env("FIXTURE_BASE", ""),
		AlgosFile:      utils.Env("ALGOS_FILE", ""),
		RegionsDir:     utils.Env("REGIONS_DIR", ""),
		Seed:           utils.Env("SAMPLER_SEED", ""),
		MaxAttempts:    utils.EnvInt("SAMPLER_MAX_ATTEMPTS", geo.DefaultMaxAttempts),
		Pacing:         utils.EnvMillis("DIRECTIONS_PACING_MS", compute.DefaultPacing),
	}
}

// App：装配结果
type App struct {
	Service *bench.Service
	closers []func() error
}

// Close 释放连接
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// DefaultAlgos：未配置 ALGOS_FILE 时的内置定义
func DefaultAlgos() algo.Set {
	return algo.Set{
		"routes_preferred_traffic_aware": {
			Name: "Routes Preferred, traffic aware", API: algo.PreferredRouting,
			TravelMode: "DRIVE", RoutingPreference: "TRAFFIC_AWARE", NumRoutes: 25,
		},
		"routes_preferred_waypoints": {
			Name: "Routes Preferred, 5 waypoints", API: algo.PreferredRouting,
			TravelMode: "DRIVE", RoutingPreference: "TRAFFIC_UNAWARE", NumRoutes: 10, NumWaypoints: 5,
		},
		"directions_driving": {
			Name: "Directions, driving", API: algo.DirectionsSDK,
			TravelMode: "DRIVING", NumRoutes: 25,
		},
	}
}

// LoadCatalog：预置都市区域加上 dir 中的 GeoJSON 区域（同名覆盖）
func LoadCatalog(dir string) (*geo.Catalog, error) {
	c := geo.NewCatalog()
	for _, m := range geo.Metros() {
		c.Add(m)
	}
	if dir == "" {
		return c, nil
	}
	regions, err := geo.LoadRegions(dir)
	if err != nil {
		return nil, err
	}
	for _, r := range regions {
		c.Add(r)
	}
	logger.L().Info("regions_loaded", "dir", dir, "count", len(regions))
	return c, nil
}

// LoadAlgos：ALGOS_FILE 为空时使用内置定义
func LoadAlgos(path string) (*algo.Registry, error) {
	if path == "" {
		return algo.NewRegistry(DefaultAlgos()), nil
	}
	set, err := algo.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.L().Info("algos_loaded", "file", path, "count", len(set))
	return algo.NewRegistry(set), nil
}

// Backends：按已配置的密钥创建后端，未配置的保持为空
func Backends(pacing time.Duration) (compute.Backends, error) {
	var b compute.Backends
	if key := utils.Env("ROUTES_PREFERRED_KEY", ""); key != "" {
		b.Preferred = compute.NewPreferred(utils.Env("ROUTES_PREFERRED_URL", ""), key, nil)
		logger.L().Info("backend_enabled", "backend", string(algo.PreferredRouting))
	}
	if key := utils.Env("DIRECTIONS_API_KEY", ""); key != "" {
		d, err := compute.NewDirectionsFromKey(key, pacing)
		if err != nil {
			return b, err
		}
		b.Directions = d
		logger.L().Info("backend_enabled", "backend", string(algo.DirectionsSDK), "pacing_ms", pacing.Milliseconds())
	}
	return b, nil
}

// Durable：按名称打开持久层；连接失败时记录并回退到 Nop，持久层故障不阻断服务
func Durable(ctx context.Context, backend string) (cache.Durable, func() error) {
	maxBytes := int64(utils.EnvInt("DURABLE_MAX_BYTES", cache.DefaultMaxBytes))
	l := logger.L()
	switch strings.ToLower(backend) {
	case "redis":
		rc := utils.OpenRedisFromEnv()
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
			_ = rc.Close()
			return cache.Nop{}, nil
		}
		l.Info("redis_ping_ok")
		ttl := time.Duration(utils.EnvInt("DURABLE_TTL_SEC", 0)) * time.Second
		return cache.NewRedisStore(rc, utils.Env("REDIS_PREFIX", "routebench:"), maxBytes, ttl), rc.Close
	case "postgres":
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			return cache.Nop{}, nil
		}
		if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
			_ = db.Close()
			return cache.Nop{}, nil
		}
		if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			_ = db.Close()
			return cache.Nop{}, nil
		}
		l.Info("db_ping_ok")
		return cache.NewPostgresStore(db, maxBytes), db.Close
	case "", "none":
		l.Info("durable_disabled")
		return cache.Nop{}, nil
	}
	l.Warn("durable_unknown_backend", "backend", backend)
	return cache.Nop{}, nil
}

// New 装配完整服务
func New(ctx context.Context, o Options) (*App, error) {
	regions, err := LoadCatalog(o.RegionsDir)
	if err != nil {
		return nil, zerr.Wrap(err, "load regions")
	}
	algos, err := LoadAlgos(o.AlgosFile)
	if err != nil {
		return nil, zerr.Wrap(err, "load algos")
	}
	backends, err := Backends(o.Pacing)
	if err != nil {
		return nil, zerr.Wrap(err, "configure backends")
	}
	a := &App{}
	durable, closer := Durable(ctx, o.DurableBackend)
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	r := cache.NewResolver(cache.NewMemory(utils.EnvInt("MEMORY_CAPACITY", 0)), durable, cache.FixturesFromBase(o.FixtureBase), backends)
	if o.Seed != "" {
		r.Seed = geo.SeedFromString(o.Seed)
	}
	r.MaxAttempts = o.MaxAttempts
	a.Service = bench.New(r, regions, algos)
	return a, nil
}
