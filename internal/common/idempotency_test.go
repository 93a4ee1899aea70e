package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestIdemMiddlewareBlocksReplay(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	idem := Idem{R: client, TTL: time.Minute}
	wrapped := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("Idempotency-Key", "abc-123")

	rr1 := httptest.NewRecorder()
	wrapped.ServeHTTP(rr1, req.Clone(req.Context()))
	if rr1.Code != http.StatusCreated {
		t.Fatalf("expected first request through, got %d", rr1.Code)
	}

	rr2 := httptest.NewRecorder()
	wrapped.ServeHTTP(rr2, req.Clone(req.Context()))
	if rr2.Code != http.StatusConflict {
		t.Fatalf("expected 409 replay, got %d", rr2.Code)
	}
}

func TestIdemMiddlewareNoHeaderPassesThrough(t *testing.T) {
	idem := Idem{}
	wrapped := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rr.Code)
	}
}
