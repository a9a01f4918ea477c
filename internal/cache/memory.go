// 包 cache：多级路线缓存（内存、持久层、离线数据）与解析状态机
package cache

import (
	"container/list"
	"sync"

	"route-bench/internal/route"
)

// 文档注释：内存层
// 背景：进程内键值表，进程重启即清空；显式构造后按引用交给 Resolver，不使用包级全局状态。
// 约束：互斥锁只保证内存安全，不提供解析级别的互斥；capacity<=0 表示不限条目数，否则按 LRU 淘汰。
type Memory struct {
	mu   sync.Mutex
	cap  int
	lst  *list.List
	dict map[string]*list.Element
}

type entry struct {
	k string
	v []route.Record
}

// NewMemory 创建内存层
func NewMemory(capacity int) *Memory {
	return &Memory{cap: capacity, lst: list.New(), dict: make(map[string]*list.Element)}
}

// Get 返回条目的副本切片；记录本身不可变，可安全共享
func (m *Memory) Get(k string) ([]route.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.dict[k]
	if !ok {
		return nil, false
	}
	m.lst.MoveToFront(e)
	return append([]route.Record(nil), e.Value.(entry).v...), true
}

// Set 整体替换条目，从不合并
func (m *Memory) Set(k string, v []route.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v = append([]route.Record(nil), v...)
	if e, ok := m.dict[k]; ok {
		e.Value = entry{k: k, v: v}
		m.lst.MoveToFront(e)
		return
	}
	m.dict[k] = m.lst.PushFront(entry{k: k, v: v})
	if m.cap > 0 && m.lst.Len() > m.cap {
		last := m.lst.Back()
		m.lst.Remove(last)
		delete(m.dict, last.Value.(entry).k)
	}
}

func (m *Memory) Delete(k string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.dict[k]; ok {
		m.lst.Remove(e)
		delete(m.dict, k)
	}
}

// Clear 清空全部条目
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lst.Init()
	m.dict = make(map[string]*list.Element)
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lst.Len()
}

// Keys 按最近使用顺序返回键
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, m.lst.Len())
	for e := m.lst.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(entry).k)
	}
	return out
}
