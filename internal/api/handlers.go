// 包 api：集中注册 HTTP API 路由以解耦主入口
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"route-bench/internal/algo"
	"route-bench/internal/bench"
	"route-bench/internal/compute"
	"route-bench/internal/geo"
	"route-bench/internal/logger"
	"route-bench/internal/metrics"
)

// maxBodyBytes：算法定义请求体上限
const maxBodyBytes = 1 << 20

// BuildRoutes 构建 API 路由：独立 ServeMux，在主入口挂载到 API_BASE 前缀
func BuildRoutes(svc *bench.Service) *http.ServeMux {
	mux := http.NewServeMux()
	h := &handlers{svc: svc}
	mux.HandleFunc("GET /regions", h.regions)
	mux.HandleFunc("GET /algos", h.listAlgos)
	mux.HandleFunc("POST /algos", h.addAlgo)
	mux.HandleFunc("PUT /algos/{id}", h.updateAlgo)
	mux.HandleFunc("DELETE /algos/{id}", h.deleteAlgo)
	mux.HandleFunc("GET /routes", h.routes)
	mux.HandleFunc("GET /chart", h.chart)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

type handlers struct {
	svc *bench.Service
}

func writeJSON(w http.ResponseWriter, endpoint string, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
	metrics.HTTPRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status/100)+"xx").Inc()
}

// statusFor 错误到状态码的映射
func statusFor(err error) int {
	switch {
	case errors.Is(err, algo.ErrMalformedDefinition):
		return http.StatusBadRequest
	case errors.Is(err, bench.ErrUnknownRegion), errors.Is(err, algo.ErrUnknownAlgo):
		return http.StatusNotFound
	case errors.Is(err, bench.ErrNotResolved):
		return http.StatusConflict
	case errors.Is(err, geo.ErrBoundedSampling), errors.Is(err, geo.ErrEmptyRegion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, compute.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, endpoint string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.L().Error("api_error", "endpoint", endpoint, "err", err)
	}
	writeJSON(w, endpoint, status, errorOut{Error: err.Error()})
}

func (h *handlers) regions(w http.ResponseWriter, r *http.Request) {
	list := h.svc.Regions.List()
	out := make([]regionOut, 0, len(list))
	for _, rg := range list {
		out = append(out, regionOut{Name: rg.Name, Label: rg.Label, Rings: len(rg.Rings)})
	}
	writeJSON(w, "regions", http.StatusOK, out)
}

func (h *handlers) listAlgos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, "algos", http.StatusOK, h.svc.Algos.Snapshot())
}

func decodeDefinition(w http.ResponseWriter, r *http.Request) (algo.Definition, error) {
	var d algo.Definition
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&d); err != nil {
		return d, errors.Join(algo.ErrMalformedDefinition, err)
	}
	return d, nil
}

func (h *handlers) addAlgo(w http.ResponseWriter, r *http.Request) {
	d, err := decodeDefinition(w, r)
	if err != nil {
		writeError(w, "algos", err)
		return
	}
	id, err := h.svc.Algos.Add(d)
	if err != nil {
		writeError(w, "algos", err)
		return
	}
	logger.L().Info("algo_added", "id", id, "name", d.Name)
	writeJSON(w, "algos", http.StatusCreated, map[string]string{"id": id})
}

func (h *handlers) updateAlgo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d, err := decodeDefinition(w, r)
	if err != nil {
		writeError(w, "algos", err)
		return
	}
	if err := h.svc.Algos.Update(id, d); err != nil {
		writeError(w, "algos", err)
		return
	}
	writeJSON(w, "algos", http.StatusOK, map[string]string{"id": id})
}

func (h *handlers) deleteAlgo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.Algos.Delete(id); err != nil {
		writeError(w, "algos", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	metrics.HTTPRequestsTotal.WithLabelValues("algos", "2xx").Inc()
}

func (h *handlers) routes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	region, algoID := q.Get("region"), q.Get("algo")
	def, err := h.svc.Algos.Get(algoID)
	if err != nil {
		writeError(w, "routes", err)
		return
	}
	recs, err := h.svc.GetRoutes(r.Context(), region, def, q.Get("refresh") == "true")
	if err != nil {
		writeError(w, "routes", err)
		return
	}
	key, _ := h.svc.Resolver.Key(region, def)
	withPath := q.Get("path") == "true"
	out := routesResponse{Region: region, Algo: algoID, Key: key, Count: len(recs), Records: make([]routeOut, 0, len(recs))}
	for _, rec := range recs {
		out.Records = append(out.Records, toRouteOut(rec, withPath))
	}
	writeJSON(w, "routes", http.StatusOK, out)
}

func (h *handlers) chart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data, err := h.svc.GetChartDataByID(q.Get("region"), q.Get("algo"))
	if err != nil {
		writeError(w, "chart", err)
		return
	}
	writeJSON(w, "chart", http.StatusOK, data)
}
