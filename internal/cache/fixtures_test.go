package cache

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-bench/internal/algo"
	"route-bench/internal/geo"
	"route-bench/internal/route"
)

const fixtureKey = `Seattle_{"name":"a/b","api":"RoutesPreferred"}_route`

func TestHTTPFixtures(t *testing.T) {
	body, err := route.Marshal(recs(3))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		if r.URL.Path != "/fixtures/"+fixtureKey+".json" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	f := NewHTTPFixtures(srv.URL+"/fixtures/", srv.Client())
	got, err := f.Fetch(context.Background(), fixtureKey)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = f.Fetch(context.Background(), "other")
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestHTTPFixtures_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))
	defer srv.Close()
	_, err := NewHTTPFixtures(srv.URL, nil).Fetch(context.Background(), "k")
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestDirFixtures_WriteThenFetch(t *testing.T) {
	dir := t.TempDir()
	p, err := WriteFixture(dir, fixtureKey, recs(2))
	require.NoError(t, err)
	assert.FileExists(t, p)

	got, err := DirFixtures{Dir: dir}.Fetch(context.Background(), fixtureKey)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[1].Distance)

	_, err = DirFixtures{Dir: dir}.Fetch(context.Background(), "absent")
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestFixturesFromBase(t *testing.T) {
	assert.Nil(t, FixturesFromBase(""))
	assert.IsType(t, &HTTPFixtures{}, FixturesFromBase("https://example.com/fx"))
	assert.Equal(t, DirFixtures{Dir: "data/fixtures"}, FixturesFromBase("data/fixtures"))
}

func TestFixtureName_LongKeysHashed(t *testing.T) {
	assert.Equal(t, "k.json", FixtureName("k"))

	long := "Seattle_" + strings.Repeat("x", 300) + "_route"
	name := FixtureName(long)
	assert.LessOrEqual(t, len(name), maxFixtureName)
	assert.True(t, strings.HasPrefix(name, "route_"))
	assert.Equal(t, name, FixtureName(long))
	assert.NotEqual(t, name, FixtureName(long+"2"))
}

func TestDirFixtures_ShippedAlgosRoundTrip(t *testing.T) {
	set, err := algo.LoadFile("../../data/algos.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, set)
	dir := t.TempDir()
	for _, region := range geo.Metros() {
		for id, def := range set {
			key := algo.Key(region.Name, def)
			_, err := WriteFixture(dir, key, recs(2))
			require.NoError(t, err, id)
			got, err := DirFixtures{Dir: dir}.Fetch(context.Background(), key)
			require.NoError(t, err, id)
			assert.Len(t, got, 2, id)
		}
	}
}
