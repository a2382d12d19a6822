package worker

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elliotmandel/AIOracle/internal/config"
	"github.com/elliotmandel/AIOracle/internal/observability"
)

func TestObservabilityHandler(t *testing.T) {
	w := New(config.Load(), nil, observability.NewLogger("worker-test"), observability.NewWorkerMetrics())
	w.metrics.ObserveStatsRun("ok", 120*time.Millisecond)

	handler := w.ObservabilityHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `stats_runs_total{status="ok"} 1`) {
		t.Fatalf("metrics output missing stats run counter:\n%s", body)
	}
}
