package migrate

import (
	"context"
	"database/sql"

	"go.trai.ch/zerr"

	"route-bench/internal/logger"
)

// CacheTable：持久层路线缓存表名
const CacheTable = "_route_cache"

// EnsureSchema 首次运行自动建表
// 约束：使用 IF NOT EXISTS；值为精简 JSON 文本，按键整体覆盖，不做合并。
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + CacheTable + ` (
			cache_key TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			bytes INT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_route_cache_updated ON ` + CacheTable + `(updated_at)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return zerr.With(zerr.Wrap(err, "ensure schema"), "stmt", i)
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
