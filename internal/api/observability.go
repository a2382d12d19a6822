package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/elliotmandel/AIOracle/internal/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const metricsContentType = "text/plain; version=0.0.4; charset=utf-8"

func (s *Server) bodyLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.RequestBodyMaxBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestObservabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(wrapped, r)

		status := wrapped.Status()
		if status == 0 {
			status = http.StatusOK
		}
		latency := time.Since(startedAt)
		route := routePatternFromRequest(r)

		s.metrics.ObserveHTTPRequest(route, r.Method, status, latency)

		s.logger.Info("http_request", observability.Fields{
			"request_id": requestIDFromRequest(r),
			"route":      route,
			"method":     strings.ToUpper(strings.TrimSpace(r.Method)),
			"status":     status,
			"latency_ms": latency.Milliseconds(),
		})
	})
}

func (s *Server) recoverJSONMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic_recovered", observability.Fields{
					"request_id": requestIDFromRequest(r),
					"route":      routePatternFromRequest(r),
					"method":     strings.ToUpper(strings.TrimSpace(r.Method)),
					"status":     http.StatusInternalServerError,
					"panic":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
				})
				writeInternalError(w, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.DBQueryTimeout)
	defer cancel()

	if err := s.checkReady(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", metricsContentType)
	_, _ = w.Write([]byte(s.metrics.Render()))
}

func (s *Server) checkReady(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database is not configured")
	}

	pingStartedAt := time.Now()
	err := s.db.Ping(ctx)
	s.metrics.ObserveDBQuery(time.Since(pingStartedAt))
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	expectedMigrations, err := countSQLMigrations(s.cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("could not inspect migrations: %w", err)
	}

	var appliedMigrations int
	queryStartedAt := time.Now()
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*)::int
		FROM schema_migrations
	`).Scan(&appliedMigrations)
	s.metrics.ObserveDBQuery(time.Since(queryStartedAt))
	if err != nil {
		return fmt.Errorf("could not read schema_migrations: %w", err)
	}

	if appliedMigrations < expectedMigrations {
		return fmt.Errorf("migrations pending: applied=%d expected=%d", appliedMigrations, expectedMigrations)
	}

	return nil
}

func countSQLMigrations(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ".sql" {
			count++
		}
	}
	return count, nil
}

func routePatternFromRequest(r *http.Request) string {
	routeCtx := chi.RouteContext(r.Context())
	if routeCtx != nil {
		if pattern := strings.TrimSpace(routeCtx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func requestIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(middleware.GetReqID(r.Context()))
}
