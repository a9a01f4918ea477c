package cache

import (
	"context"

	"go.trai.ch/zerr"
)

// ErrStorage：持久层读写或离线数据获取失败；解析流程按“该层为空”降级，不向调用方暴露
var ErrStorage = zerr.New("storage failure")

// DefaultMaxBytes：持久层容量上限的默认值（与浏览器本地存储的 5 MiB 配额一致）
const DefaultMaxBytes = 5 << 20

// Durable：跨进程保留的键值层，值为精简 JSON 文本
type Durable interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, val string) error
	Remove(ctx context.Context, key string) error
}

// Nop：不保存任何内容的持久层
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (Nop) Set(context.Context, string, string) error        { return nil }
func (Nop) Remove(context.Context, string) error             { return nil }

func capacityExceeded(key string, used, size, max int64) error {
	err := zerr.Wrap(ErrStorage, "durable capacity exceeded")
	err = zerr.With(err, "key", key)
	err = zerr.With(err, "used", used)
	err = zerr.With(err, "size", size)
	return zerr.With(err, "max", max)
}
