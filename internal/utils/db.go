package utils

import (
	"database/sql"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.trai.ch/zerr"
)

func BuildPostgresDSNFromEnv() string {
	dsn := "postgres://" + Env("PG_USER", "postgres")
	if pass := os.Getenv("PG_PASSWORD"); pass != "" {
		dsn += ":" + pass
	}
	dsn += "@" + Env("PG_HOST", "localhost") + ":" + Env("PG_PORT", "5432") + "/" + Env("PG_DB", "routebench")
	return dsn + "?sslmode=" + Env("PG_SSLMODE", "disable")
}

// OpenPostgresFromEnv：连接池上限由 PG_MAX_OPEN_CONNS / PG_MAX_IDLE_CONNS 调整
// 背景：路线缓存只有少量大值读写，默认连接数远低于在线查询服务。
func OpenPostgresFromEnv() (*sql.DB, error) {
	db, err := sql.Open("postgres", BuildPostgresDSNFromEnv())
	if err != nil {
		return nil, zerr.Wrap(err, "open postgres")
	}
	maxOpen := 10
	maxIdle := 5
	if n, e := strconv.Atoi(os.Getenv("PG_MAX_OPEN_CONNS")); e == nil {
		maxOpen = n
	}
	if n, e := strconv.Atoi(os.Getenv("PG_MAX_IDLE_CONNS")); e == nil {
		maxIdle = n
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	return db, nil
}
