// 包 utils：连接与环境变量工具，统一 Redis/Postgres 的环境读取
package utils

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"route-bench/internal/logger"
)

// OpenRedis：使用地址与密码打开 Redis 客户端；地址为空返回 nil
func OpenRedis(addr, pass string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass})
}

// OpenRedisFromEnv：从 REDIS_HOST/REDIS_PORT/REDIS_PASS/REDIS_DB 打开客户端
// 约束：REDIS_DB 解析失败时回退到 0
func OpenRedisFromEnv() *redis.Client {
	addr := Env("REDIS_HOST", "127.0.0.1") + ":" + Env("REDIS_PORT", "6379")
	db := 0
	if n, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil && n >= 0 {
		db = n
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db})
}
