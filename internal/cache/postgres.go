package cache

import (
	"context"
	"database/sql"
	"errors"

	"go.trai.ch/zerr"

	"route-bench/internal/migrate"
)

// 文档注释：Postgres 持久层
// 背景：无 Redis 的环境使用同一键值语义；表结构由 migrate.EnsureSchema 创建。
// 约束：容量上限按表内 bytes 之和计算（不含本键旧值）；写入为单条 upsert，不做事务合并。
type PostgresStore struct {
	db       *sql.DB
	maxBytes int64
}

func NewPostgresStore(db *sql.DB, maxBytes int64) *PostgresStore {
	return &PostgresStore{db: db, maxBytes: maxBytes}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM `+migrate.CacheTable+` WHERE cache_key=$1`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, zerr.With(zerr.Wrap(ErrStorage, err.Error()), "op", "pg_get")
	}
	return payload, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, val string) error {
	size := int64(len(val))
	if s.maxBytes > 0 {
		var used int64
		err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(bytes),0) FROM `+migrate.CacheTable+` WHERE cache_key<>$1`, key).Scan(&used)
		if err != nil {
			return zerr.With(zerr.Wrap(ErrStorage, err.Error()), "op", "pg_used")
		}
		if used+size > s.maxBytes {
			return capacityExceeded(key, used, size, s.maxBytes)
		}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO `+migrate.CacheTable+`(cache_key, payload, bytes, updated_at) VALUES($1,$2,$3,now())
		ON CONFLICT (cache_key) DO UPDATE SET payload=EXCLUDED.payload, bytes=EXCLUDED.bytes, updated_at=now()`, key, val, size)
	if err != nil {
		return zerr.With(zerr.Wrap(ErrStorage, err.Error()), "op", "pg_set")
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+migrate.CacheTable+` WHERE cache_key=$1`, key); err != nil {
		return zerr.With(zerr.Wrap(ErrStorage, err.Error()), "op", "pg_remove")
	}
	return nil
}
