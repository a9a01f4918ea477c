package geo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unitSquare = Region{
	Name:  "unit",
	Rings: []Ring{{{0, 0}, {0, 1}, {1, 1}, {1, 0}}},
}

func TestRegionContains(t *testing.T) {
	assert.True(t, unitSquare.Contains(Point{0.5, 0.5}))
	assert.False(t, unitSquare.Contains(Point{1.5, 0.5}))
	assert.False(t, unitSquare.Contains(Point{0.5, -0.1}))

	// 两个不相交的环按并集处理
	twoIslands := Region{Name: "islands", Rings: []Ring{
		{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		{{0, 2}, {0, 3}, {1, 3}, {1, 2}},
	}}
	assert.True(t, twoIslands.Contains(Point{0.5, 2.5}))
	assert.True(t, twoIslands.Contains(Point{0.5, 0.5}))
	assert.False(t, twoIslands.Contains(Point{0.5, 1.5}))
}

func TestRegionBounds(t *testing.T) {
	b, ok := Metros()[1].Bounds()
	require.True(t, ok)
	assert.InDelta(t, 37.65723, b.MinLat, 1e-9)
	assert.InDelta(t, 37.94366, b.MaxLat, 1e-9)
	assert.InDelta(t, -122.57997, b.MinLng, 1e-9)
	assert.InDelta(t, -122.17262, b.MaxLng, 1e-9)

	_, ok = Region{Name: "empty"}.Bounds()
	assert.False(t, ok)
}

func TestRegionBounds_OutsideGeographicRange(t *testing.T) {
	projected := Region{Name: "grid", Rings: []Ring{{{Lat: 500, Lng: 1000}, {Lat: 500, Lng: 1200}, {Lat: 700, Lng: 1200}, {Lat: 700, Lng: 1000}}}}
	b, ok := projected.Bounds()
	require.True(t, ok)
	assert.Equal(t, BBox{MinLat: 500, MinLng: 1000, MaxLat: 700, MaxLng: 1200}, b)

	s, err := NewSampler(projected, NewSFC32(DefaultSeed), 100)
	require.NoError(t, err)
	p, err := s.Sample()
	require.NoError(t, err)
	assert.True(t, b.Contains(p))
}

func TestSampler_EmptyRegion(t *testing.T) {
	_, err := NewSampler(Region{Name: "empty"}, NewSFC32(DefaultSeed), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyRegion))
}

func TestSampler_Containment(t *testing.T) {
	for _, r := range Metros() {
		s, err := NewSampler(r, NewSFC32(SeedFromString(r.Name)), DefaultMaxAttempts)
		require.NoError(t, err)
		for i := 0; i < 200; i++ {
			p, err := s.Sample()
			require.NoError(t, err)
			require.True(t, r.Contains(p), "%s: %v", r.Name, p)
		}
	}
}

func TestSampler_BoundedAttempts(t *testing.T) {
	// 细长三角形几乎不占包围盒面积
	sliver := Region{Name: "sliver", Rings: []Ring{{{0, 0}, {1, 1}, {1, 1.0000000001}}}}
	s, err := NewSampler(sliver, NewSFC32(DefaultSeed), 50)
	require.NoError(t, err)
	_, err = s.Sample()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBoundedSampling))
}

func TestSampler_Deterministic(t *testing.T) {
	s1, _ := NewSampler(unitSquare, NewSFC32(DefaultSeed), 0)
	s2, _ := NewSampler(unitSquare, NewSFC32(DefaultSeed), 0)
	f1, f2 := s1.Func(), s2.Func()
	for i := 0; i < 20; i++ {
		p1, _ := f1()
		p2, _ := f2()
		require.Equal(t, p1, p2)
	}
}
