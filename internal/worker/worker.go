package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/elliotmandel/AIOracle/internal/config"
	"github.com/elliotmandel/AIOracle/internal/observability"

	"github.com/jackc/pgx/v5/pgxpool"
)

const metricsContentType = "text/plain; version=0.0.4; charset=utf-8"

// Worker maintains the daily oracle_stats rollups: per date, question totals,
// persona and response-type usage, average processing time and a feedback
// summary. Each run refreshes today and yesterday so late rows around
// midnight still land in the right bucket.
type Worker struct {
	cfg     config.Config
	db      *pgxpool.Pool
	logger  *observability.Logger
	metrics *observability.WorkerMetrics
}

func New(cfg config.Config, db *pgxpool.Pool, logger *observability.Logger, metrics *observability.WorkerMetrics) *Worker {
	return &Worker{cfg: cfg, db: db, logger: logger, metrics: metrics}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.WorkerPollEvery)
	defer ticker.Stop()

	for {
		w.runOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	startedAt := time.Now()

	taskCtx, cancel := context.WithTimeout(ctx, w.cfg.WorkerTaskTimeout)
	defer cancel()

	now := time.Now().UTC()
	dates := []string{
		now.AddDate(0, 0, -1).Format("2006-01-02"),
		now.Format("2006-01-02"),
	}

	for _, date := range dates {
		if err := w.aggregateDate(taskCtx, date); err != nil {
			w.metrics.ObserveStatsRun("error", time.Since(startedAt))
			w.logger.Error("stats_aggregation_failed", observability.Fields{
				"date":  date,
				"error": err.Error(),
			})
			return
		}
	}

	w.metrics.ObserveStatsRun("ok", time.Since(startedAt))
	w.logger.Info("stats_aggregated", observability.Fields{
		"dates":      dates,
		"latency_ms": time.Since(startedAt).Milliseconds(),
	})
}

func (w *Worker) aggregateDate(ctx context.Context, date string) error {
	var (
		totalQuestions int
		avgProcessing  float64
	)
	startedAt := time.Now()
	err := w.db.QueryRow(ctx, `
		SELECT COUNT(*)::int, COALESCE(AVG(processing_time_ms), 0)
		FROM questions
		WHERE created_at::date = $1::date
	`, date).Scan(&totalQuestions, &avgProcessing)
	w.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return err
	}

	personaUsage, err := w.countByColumn(ctx, date, "persona_name")
	if err != nil {
		return err
	}
	responseTypeUsage, err := w.countByColumn(ctx, date, "response_type")
	if err != nil {
		return err
	}

	feedbackSummary, err := w.feedbackSummary(ctx, date)
	if err != nil {
		return err
	}

	personaJSON, err := json.Marshal(personaUsage)
	if err != nil {
		return err
	}
	responseTypeJSON, err := json.Marshal(responseTypeUsage)
	if err != nil {
		return err
	}
	feedbackJSON, err := json.Marshal(feedbackSummary)
	if err != nil {
		return err
	}

	startedAt = time.Now()
	_, err = w.db.Exec(ctx, `
		INSERT INTO oracle_stats (
			date, total_questions, persona_usage, response_type_usage,
			average_processing_time_ms, feedback_summary
		)
		VALUES ($1::date, $2, $3, $4, $5, $6)
		ON CONFLICT (date) DO UPDATE SET
			total_questions = EXCLUDED.total_questions,
			persona_usage = EXCLUDED.persona_usage,
			response_type_usage = EXCLUDED.response_type_usage,
			average_processing_time_ms = EXCLUDED.average_processing_time_ms,
			feedback_summary = EXCLUDED.feedback_summary
	`, date, totalQuestions, personaJSON, responseTypeJSON, avgProcessing, feedbackJSON)
	w.metrics.ObserveDBQuery(time.Since(startedAt))
	return err
}

func (w *Worker) countByColumn(ctx context.Context, date, column string) (map[string]int, error) {
	// column is one of two fixed identifiers, never user input.
	query := `
		SELECT COALESCE(` + column + `, ''), COUNT(*)::int
		FROM questions
		WHERE created_at::date = $1::date
		GROUP BY 1
	`

	startedAt := time.Now()
	rows, err := w.db.Query(ctx, query, date)
	w.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := map[string]int{}
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		if key == "" {
			key = "unknown"
		}
		usage[key] = count
	}
	return usage, rows.Err()
}

func (w *Worker) feedbackSummary(ctx context.Context, date string) (map[string]int, error) {
	startedAt := time.Now()
	rows, err := w.db.Query(ctx, `
		SELECT f.rating, COUNT(*)::int
		FROM feedback f
		JOIN questions q ON q.id = f.question_id
		WHERE q.created_at::date = $1::date
		GROUP BY f.rating
	`, date)
	w.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := map[string]int{}
	for rows.Next() {
		var (
			rating string
			count  int
		)
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		summary[rating] = count
	}
	return summary, rows.Err()
}

func (w *Worker) ObservabilityHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", metricsContentType)
		_, _ = rw.Write([]byte(w.metrics.Render()))
	})
	return mux
}
