package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elliotmandel/AIOracle/internal/config"
	"github.com/elliotmandel/AIOracle/internal/observability"
	"github.com/elliotmandel/AIOracle/internal/oracle"
)

type staticGenerator struct{}

func (staticGenerator) Generate(_ context.Context, _ string) (string, error) {
	return "The stars align in quiet patterns, and your path reveals itself one step at a time.", nil
}

func newTestServer() *Server {
	cfg := config.Load()
	engine := oracle.NewEngine(staticGenerator{}, nil, nil)
	return NewServer(cfg, nil, engine, observability.NewLogger("api-test"), observability.NewAPIMetrics())
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyzWithoutDatabase(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a database, got %d", rec.Code)
	}
}

func TestOracleMoodEndpoint(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/oracle/mood", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Mood    struct {
			Name     string  `json:"name"`
			Modifier float64 `json:"modifier"`
		} `json:"mood"`
		Personas      []json.RawMessage `json:"personas"`
		ResponseTypes []json.RawMessage `json:"responseTypes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.Mood.Name == "" || body.Mood.Modifier == 0 {
		t.Fatalf("mood payload incomplete: %s", rec.Body.String())
	}
	if len(body.Personas) != 8 || len(body.ResponseTypes) != 5 {
		t.Fatalf("expected 8 personas and 5 response types, got %d and %d",
			len(body.Personas), len(body.ResponseTypes))
	}
}

func TestOfferingsEndpoint(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/offerings", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success   bool `json:"success"`
		Offerings []struct {
			ID   string `json:"id"`
			Cost int    `json:"cost"`
		} `json:"offerings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Offerings) != 6 {
		t.Fatalf("expected 6 offerings, got %d", len(body.Offerings))
	}
}

func TestMetricsEndpointIncludesHTTPRequestsTotal(t *testing.T) {
	srv := newTestServer()
	router := srv.Router()

	healthReq := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	healthRecorder := httptest.NewRecorder()
	router.ServeHTTP(healthRecorder, healthReq)
	if healthRecorder.Code != http.StatusOK {
		t.Fatalf("expected /healthz 200, got %d", healthRecorder.Code)
	}

	metricsReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsRecorder := httptest.NewRecorder()
	router.ServeHTTP(metricsRecorder, metricsReq)
	if metricsRecorder.Code != http.StatusOK {
		t.Fatalf("expected /metrics 200, got %d", metricsRecorder.Code)
	}

	body := metricsRecorder.Body.String()
	if !strings.Contains(body, "http_requests_total") {
		t.Fatalf("expected metrics output to include http_requests_total, got: %s", body)
	}
}

func TestAskRequiresSession(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/oracle/ask",
		strings.NewReader(`{"question":"What awaits me?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session token, got %d", rec.Code)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"question":"hi","extra":true}`))

	var dst struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(req, &dst); err == nil {
		t.Fatalf("unknown field should be rejected")
	}
}

func TestDecodeJSONAllowEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	var dst struct {
		AnonymousID string `json:"anonymousId"`
	}
	if err := decodeJSONAllowEmpty(req, &dst); err != nil {
		t.Fatalf("empty body should be accepted: %v", err)
	}
	if dst.AnonymousID != "" {
		t.Fatalf("empty body should leave fields zero")
	}
}
