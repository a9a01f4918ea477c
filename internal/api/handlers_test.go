package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-bench/internal/algo"
	"route-bench/internal/bench"
	"route-bench/internal/cache"
	"route-bench/internal/compute"
	"route-bench/internal/geo"
	"route-bench/internal/route"
)

const poly = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	backend := compute.PerPair(algo.PreferredRouting, func(ctx context.Context, i int, p geo.Pair) (route.Record, error) {
		return route.New(poly, 1000+i, 120.4, 50, [][2]float64{{p.Destination.Lat, p.Destination.Lng}}), nil
	})
	regions := geo.NewCatalog()
	for _, m := range geo.Metros() {
		regions.Add(m)
	}
	algos := algo.NewRegistry(algo.Set{
		"drive": {Name: "drive", API: algo.PreferredRouting, TravelMode: "DRIVE", NumRoutes: 2},
	})
	svc := bench.New(cache.NewResolver(nil, nil, nil, compute.Backends{Preferred: backend}), regions, algos)
	srv := httptest.NewServer(BuildRoutes(svc))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestRoutesThenChart(t *testing.T) {
	srv := newServer(t)

	resp, _ := do(t, http.MethodGet, srv.URL+"/chart?region=Seattle&algo=drive", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := do(t, http.MethodGet, srv.URL+"/routes?region=Seattle&algo=drive&path=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["count"])
	assert.True(t, strings.HasPrefix(body["key"].(string), "Seattle_{"))
	recs := body["records"].([]any)
	first := recs[0].(map[string]any)
	assert.Equal(t, poly, first["encodedPoly"])
	assert.Len(t, first["path"].([]any), 3)
	assert.Len(t, first["markers"].([]any), 1)

	resp, body = do(t, http.MethodGet, srv.URL+"/chart?region=Seattle&algo=drive", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lat := body["latencyData"].([]any)
	require.Len(t, lat, 3)
	assert.Equal(t, []any{"Latency", "ms"}, lat[0])
}

func TestRoutes_NotFound(t *testing.T) {
	srv := newServer(t)
	resp, _ := do(t, http.MethodGet, srv.URL+"/routes?region=Atlantis&algo=drive", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, srv.URL+"/routes?region=Seattle&algo=missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAlgosCRUD(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/algos", `{"name":"walk","api":"DirectionsSDK","travelMode":"WALKING","numRoutes":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	assert.True(t, strings.HasPrefix(id, "custom_algo_"))

	resp, body = do(t, http.MethodGet, srv.URL+"/algos", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	added := body[id].(map[string]any)
	assert.Equal(t, "DirectionsJsSDK", added["api"])

	resp, _ = do(t, http.MethodPut, srv.URL+"/algos/"+id, `{"name":"walk2","api":"Teleport","numRoutes":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/algos/"+id, `{"name":"walk2","api":"DirectionsSDK","numRoutes":2}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// 后端未配置
	resp, _ = do(t, http.MethodGet, srv.URL+"/routes?region=Seattle&algo="+id, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/algos/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, http.MethodDelete, srv.URL+"/algos/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/algos", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegions(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/regions")
	require.NoError(t, err)
	defer resp.Body.Close()
	var out []regionOut
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 4)
	names := map[string]int{}
	for _, r := range out {
		names[r.Name] = r.Rings
	}
	assert.Equal(t, 4, names["San_Francisco"])
	assert.Equal(t, 3, names["Seattle"])
}
