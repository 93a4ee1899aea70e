package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Prober exposes the dependency probes readiness is judged on.
type Prober interface {
	PingDB(ctx context.Context, timeout time.Duration) error
	PingRedis(ctx context.Context, timeout time.Duration) error
}

var ready atomic.Bool

func init() {
	ready.Store(true)
}

// SetReady flips the readiness gate. Shutdown calls SetReady(false) so load
// balancers drain the instance before connections are closed.
func SetReady(v bool) {
	ready.Store(v)
}

// Handler exposes liveness and readiness endpoints.
type Handler struct {
	Prober       Prober
	DBTimeout    time.Duration
	RedisTimeout time.Duration
}

// Live reports process liveness.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready probes Postgres and Redis and reports per-dependency status.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !ready.Load() || h.Prober == nil {
		http.Error(w, "draining", http.StatusServiceUnavailable)
		return
	}
	ctx := r.Context()
	checks := map[string]string{"postgres": "ok", "redis": "ok"}
	if err := h.Prober.PingDB(ctx, h.dbTimeout()); err != nil {
		checks["postgres"] = err.Error()
	}
	if err := h.Prober.PingRedis(ctx, h.redisTimeout()); err != nil {
		checks["redis"] = err.Error()
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"checks": checks})
}

func (h Handler) dbTimeout() time.Duration {
	if h.DBTimeout <= 0 {
		return 500 * time.Millisecond
	}
	return h.DBTimeout
}

func (h Handler) redisTimeout() time.Duration {
	if h.RedisTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.RedisTimeout
}
