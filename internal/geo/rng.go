package geo

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// Seed：sfc32 的四个 32 位状态字
type Seed [4]uint32

// DefaultSeed 与历史固定状态一致，保证既有离线数据可复现
var DefaultSeed = Seed{1395214498, 566822976, 953786, 132715663}

// 文档注释：sfc32 伪随机数发生器
// 背景：计数器型混合（加法、旋转、移位异或），速度快、可复现；用于负载生成，不具备密码学强度。
// 约束：非并发安全；相同种子产生相同的无限序列。
type SFC32 struct {
	a, b, c, d uint32
}

func NewSFC32(s Seed) *SFC32 {
	return &SFC32{a: s[0], b: s[1], c: s[2], d: s[3]}
}

// Next 返回 [0,1) 内的浮点数
func (r *SFC32) Next() float64 {
	t := r.a + r.b + r.d
	r.d++
	r.a = r.b ^ (r.b >> 9)
	r.b = r.c + (r.c << 3)
	r.c = bits.RotateLeft32(r.c, 21)
	r.c += t
	return float64(t) / 4294967296.0
}

// 文档注释：由字符串派生种子
// 背景：需要“可复现但彼此不同”的序列时（如按区域名或运行标签区分），用 xxhash 派生四个状态字。
func SeedFromString(s string) Seed {
	h1 := xxhash.Sum64String(s)
	d := xxhash.New()
	_, _ = d.WriteString(s)
	_, _ = d.Write([]byte{0})
	h2 := d.Sum64()
	return Seed{uint32(h1 >> 32), uint32(h1), uint32(h2 >> 32), uint32(h2)}
}
