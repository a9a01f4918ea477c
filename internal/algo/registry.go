package algo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ErrUnknownAlgo：按 id 查找不到定义
var ErrUnknownAlgo = zerr.New("unknown algorithm id")

// Set：id → 定义；所有修改都返回新的 Set，旧值保持不变
type Set map[string]Definition

// Add 以 custom_algo_<uuid> 作为新 id
func (s Set) Add(d Definition) (string, Set) {
	id := "custom_algo_" + uuid.NewString()
	return id, s.Update(id, d)
}

func (s Set) Update(id string, d Definition) Set {
	out := make(Set, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[id] = d
	return out
}

func (s Set) Delete(id string) Set {
	out := make(Set, len(s))
	for k, v := range s {
		if k != id {
			out[k] = v
		}
	}
	return out
}

// IDs 按字典序返回
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for k := range s {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}

// 文档注释：从文件加载种子定义
// 背景：.json 走 encoding/json，其余按 YAML 解析；文件内容为 id → 定义的映射。
// 约束：逐条校验，任一定义非法则整体失败，避免半加载状态。
func LoadFile(path string) (Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "read algos file"), "path", path)
	}
	raw := map[string]Definition{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &raw)
	} else {
		err = yaml.Unmarshal(b, &raw)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "parse algos file"), "path", path)
	}
	out := make(Set, len(raw))
	for id, d := range raw {
		v, err := d.Validate()
		if err != nil {
			return nil, zerr.With(err, "id", id)
		}
		out[id] = v
	}
	return out, nil
}

// 文档注释：定义注册表
// 背景：HTTP 层并发读、偶发写；atomic.Pointer 持有当前 Set，写入时整体替换，读路径无锁。
// 约束：写写之间不互斥，并发写入时后写者覆盖，符合单用户工具的使用方式。
type Registry struct {
	cur atomic.Pointer[Set]
}

func NewRegistry(seed Set) *Registry {
	r := &Registry{}
	if seed == nil {
		seed = Set{}
	}
	r.cur.Store(&seed)
	return r
}

func (r *Registry) Snapshot() Set { return *r.cur.Load() }

func (r *Registry) Get(id string) (Definition, error) {
	d, ok := r.Snapshot()[id]
	if !ok {
		return Definition{}, zerr.With(zerr.Wrap(ErrUnknownAlgo, "get algo"), "id", id)
	}
	return d, nil
}

func (r *Registry) Add(d Definition) (string, error) {
	v, err := d.Validate()
	if err != nil {
		return "", err
	}
	id, next := r.Snapshot().Add(v)
	r.cur.Store(&next)
	return id, nil
}

func (r *Registry) Update(id string, d Definition) error {
	v, err := d.Validate()
	if err != nil {
		return err
	}
	if _, err := r.Get(id); err != nil {
		return err
	}
	next := r.Snapshot().Update(id, v)
	r.cur.Store(&next)
	return nil
}

func (r *Registry) Delete(id string) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	next := r.Snapshot().Delete(id)
	r.cur.Store(&next)
	return nil
}
