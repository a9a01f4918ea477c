package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"route-bench/internal/route"
)

// FixtureSource：只读的离线数据来源，按缓存键寻址，内容与持久层格式一致
type FixtureSource interface {
	Fetch(ctx context.Context, key string) ([]route.Record, error)
}

// maxFixtureName：常见文件系统的单个文件名上限（NAME_MAX）
const maxFixtureName = 255

// 文档注释：键到文件名的映射
// 背景：键中含 JSON 字符与斜杠，按路径段转义为 <escaped>.json；带选项或途经点的定义转义后常超过 NAME_MAX，
// 此时改用 route_<xxhash64 十六进制>.json。
// 约束：HTTP、目录来源与 export-fixture 共用此映射，生成与读取两端必须一致。
func FixtureName(key string) string {
	name := url.PathEscape(key) + ".json"
	if len(name) <= maxFixtureName {
		return name
	}
	return fmt.Sprintf("route_%016x.json", xxhash.Sum64String(key))
}

// HTTPFixtures：GET <Base>/<FixtureName(key)>
type HTTPFixtures struct {
	Base   string
	Client *http.Client
}

func NewHTTPFixtures(base string, client *http.Client) *HTTPFixtures {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFixtures{Base: strings.TrimRight(base, "/"), Client: client}
}

func (f *HTTPFixtures) Fetch(ctx context.Context, key string) ([]route.Record, error) {
	u := f.Base + "/" + FixtureName(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, zerr.Wrap(ErrStorage, err.Error())
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrStorage, err.Error()), "url", u)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, zerr.With(zerr.With(zerr.Wrap(ErrStorage, "fixture fetch"), "url", u), "status", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrStorage, err.Error()), "url", u)
	}
	recs, err := route.Unmarshal(string(b))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrStorage, err.Error()), "url", u)
	}
	return recs, nil
}

// DirFixtures：本地目录中的 <FixtureName(key)> 文件
type DirFixtures struct {
	Dir string
}

func (f DirFixtures) Fetch(_ context.Context, key string) ([]route.Record, error) {
	p := filepath.Join(f.Dir, FixtureName(key))
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrStorage, err.Error()), "path", p)
	}
	recs, err := route.Unmarshal(string(b))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrStorage, err.Error()), "path", p)
	}
	return recs, nil
}

// WriteFixture 把记录写成离线数据文件，返回文件路径
func WriteFixture(dir, key string, recs []route.Record) (string, error) {
	s, err := route.Marshal(recs)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", zerr.With(zerr.Wrap(err, "create fixture dir"), "dir", dir)
	}
	p := filepath.Join(dir, FixtureName(key))
	if err := os.WriteFile(p, []byte(s), 0o644); err != nil {
		return "", zerr.With(zerr.Wrap(err, "write fixture"), "path", p)
	}
	return p, nil
}

// FixturesFromBase：http(s) 前缀使用 HTTPFixtures，其余视为本地目录；空值返回 nil
func FixturesFromBase(base string) FixtureSource {
	switch {
	case base == "":
		return nil
	case strings.HasPrefix(base, "http://"), strings.HasPrefix(base, "https://"):
		return NewHTTPFixtures(base, nil)
	}
	return DirFixtures{Dir: base}
}
