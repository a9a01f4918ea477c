package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.trai.ch/zerr"

	"route-bench/internal/logger"
)

// 文档注释：Redis 持久层
// 背景：值以 prefix+key 存放；各条目字节数记在 prefix+"sizes" 哈希中，用于实现总容量上限。
// 约束：写入使超过 MaxBytes 时返回 ErrStorage 且不写入；过期条目在容量不足时才清理其记账。
type RedisStore struct {
	rdb      *redis.Client
	prefix   string
	maxBytes int64
	ttl      time.Duration
}

// NewRedisStore：maxBytes<=0 表示不限容量，ttl<=0 表示不过期
func NewRedisStore(rdb *redis.Client, prefix string, maxBytes int64, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "routebench:"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, maxBytes: maxBytes, ttl: ttl}
}

func (s *RedisStore) sizesKey() string { return s.prefix + "sizes" }

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, zerr.With(zerr.Wrap(ErrStorage, err.Error()), "op", "redis_get")
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, val string) error {
	size := int64(len(val))
	if s.maxBytes > 0 {
		used, err := s.usedExcluding(ctx, key, false)
		if err != nil {
			return err
		}
		if used+size > s.maxBytes {
			// 先清理已过期条目的记账再判定一次
			if used, err = s.usedExcluding(ctx, key, true); err != nil {
				return err
			}
			if used+size > s.maxBytes {
				return capacityExceeded(key, used, size, s.maxBytes)
			}
		}
	}
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.prefix+key, val, s.ttl)
		p.HSet(ctx, s.sizesKey(), key, size)
		return nil
	})
	if err != nil {
		return zerr.With(zerr.Wrap(ErrStorage, err.Error()), "op", "redis_set")
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.prefix+key)
		p.HDel(ctx, s.sizesKey(), key)
		return nil
	})
	if err != nil {
		return zerr.With(zerr.Wrap(ErrStorage, err.Error()), "op", "redis_remove")
	}
	return nil
}

// Used 返回当前记账的总字节数
func (s *RedisStore) Used(ctx context.Context) (int64, error) {
	return s.usedExcluding(ctx, "", false)
}

func (s *RedisStore) usedExcluding(ctx context.Context, key string, prune bool) (int64, error) {
	sizes, err := s.rdb.HGetAll(ctx, s.sizesKey()).Result()
	if err != nil {
		return 0, zerr.With(zerr.Wrap(ErrStorage, err.Error()), "op", "redis_sizes")
	}
	var total int64
	for k, v := range sizes {
		if k == key {
			continue
		}
		if prune {
			n, err := s.rdb.Exists(ctx, s.prefix+k).Result()
			if err == nil && n == 0 {
				s.rdb.HDel(ctx, s.sizesKey(), k)
				logger.L().Debug("durable_prune_expired", "key", k)
				continue
			}
		}
		n, _ := strconv.ParseInt(v, 10, 64)
		total += n
	}
	return total, nil
}
