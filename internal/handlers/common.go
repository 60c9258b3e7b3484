package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dotapit/stats-api/internal/logic"
)

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dotapit_http_request_duration_seconds",
	Help:    "HTTP request duration by path pattern and status",
	Buckets: prometheus.DefBuckets,
}, []string{"path", "status"})

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint: the service is ready once the dataset loads and
// Redis answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, dsErr := h.dataset.Load(ctx)
	checks := map[string]bool{
		"dataset": dsErr == nil,
		"redis":   h.redis == nil || h.redis.Ping(ctx).Err() == nil,
	}

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !allHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

func (h *Handler) textResponse(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

// serviceError maps the core's error taxonomy onto HTTP statuses. Returns
// false when the error was nil and the caller should continue.
func (h *Handler) serviceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, logic.ErrNotFound):
		h.errorResponse(w, http.StatusNotFound, "Not found")
	case errors.Is(err, logic.ErrInsufficientData):
		h.jsonResponse(w, http.StatusOK, map[string]interface{}{"results": []interface{}{}})
	case errors.Is(err, logic.ErrDatasetUnavailable):
		h.errorResponse(w, http.StatusServiceUnavailable, "Match dataset unavailable")
	case errors.Is(err, logic.ErrRosterSize):
		h.errorResponse(w, http.StatusBadRequest, "Draft requires exactly 10 distinct players")
	default:
		h.logger.Errorw("Unhandled service error", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Internal error")
	}
	return true
}

// wantsText reports whether the caller asked for the chat-formatted
// rendering instead of JSON.
func wantsText(r *http.Request) bool {
	return r.URL.Query().Get("format") == "text"
}

// cached wraps a compute function with Redis cache-aside. Cache failures
// fall through to computing fresh; they are never surfaced to callers.
func (h *Handler) cached(ctx context.Context, key string, out interface{}, compute func() (interface{}, error)) (interface{}, error) {
	if h.redis != nil {
		if data, err := h.redis.Get(ctx, key).Bytes(); err == nil {
			if err := json.Unmarshal(data, out); err == nil {
				return out, nil
			}
		}
	}

	fresh, err := compute()
	if err != nil {
		return nil, err
	}

	if h.redis != nil {
		if data, err := json.Marshal(fresh); err == nil {
			if err := h.redis.Set(ctx, key, data, h.cacheTTL).Err(); err != nil {
				h.logger.Warnw("Cache write failed", "key", key, "error", err)
			}
		}
	}
	return fresh, nil
}

// metricsMiddleware records request durations against the route pattern,
// not the raw URL, to keep label cardinality bounded.
func (h *Handler) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		pattern := r.URL.Path
		if rctx := routePattern(r); rctx != "" {
			pattern = rctx
		}
		httpDuration.WithLabelValues(pattern, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

// routePattern is only populated after routing, so the middleware reads it
// once the handler chain returns.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
