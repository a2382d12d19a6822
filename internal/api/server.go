package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/elliotmandel/AIOracle/internal/config"
	"github.com/elliotmandel/AIOracle/internal/observability"
	"github.com/elliotmandel/AIOracle/internal/oracle"
	"github.com/elliotmandel/AIOracle/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Server struct {
	cfg     config.Config
	db      *pgxpool.Pool
	engine  *oracle.Engine
	logger  *observability.Logger
	metrics *observability.APIMetrics
}

func NewServer(cfg config.Config, pool *pgxpool.Pool, engine *oracle.Engine, logger *observability.Logger, metrics *observability.APIMetrics) *Server {
	return &Server{
		cfg:     cfg,
		db:      pool,
		engine:  engine,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverJSONMiddleware)
	r.Use(s.bodyLimitMiddleware)
	r.Use(s.requestObservabilityMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Post("/session/init", s.handleSessionInit)
		r.Get("/offerings", s.handleListOfferings)
		r.Get("/oracle/mood", s.handleOracleMood)

		r.Group(func(r chi.Router) {
			r.Use(session.Middleware(s.cfg.SessionSecret))

			r.Post("/oracle/ask", s.handleAsk)
			r.Post("/oracle/feedback", s.handleFeedback)
			r.Get("/oracle/history/{sessionID}", s.handleHistory)

			r.Get("/session/{sessionID}/progress", s.handleProgress)
			r.Post("/session/{sessionID}/earn", s.handleEarn)
			r.Post("/session/{sessionID}/spend", s.handleSpend)
			r.Get("/session/{sessionID}/transactions", s.handleTransactions)
		})
	})

	return r
}

func (s *Server) handleSessionInit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AnonymousID string `json:"anonymousId"`
	}
	if err := decodeJSONAllowEmpty(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ctx := r.Context()
	sessionID := strings.TrimSpace(req.AnonymousID)
	isNewUser := sessionID == ""

	if sessionID != "" {
		var exists bool
		startedAt := time.Now()
		err := s.db.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM oracle_sessions WHERE id = $1)
		`, sessionID).Scan(&exists)
		s.metrics.ObserveDBQuery(time.Since(startedAt))
		if err != nil {
			s.logger.Error("session_lookup_failed", observability.Fields{"error": err.Error()})
			writeInternalError(w, "failed to initialize session")
			return
		}
		if !exists {
			sessionID = ""
			isNewUser = true
		}
	}

	if sessionID == "" {
		sessionID = session.NewSessionID()
		if _, err := s.createOracleSession(ctx, sessionID); err != nil {
			s.logger.Error("session_create_failed", observability.Fields{"error": err.Error()})
			writeInternalError(w, "failed to initialize session")
			return
		}
	} else if err := s.updateDailyActivity(ctx, sessionID); err != nil {
		s.logger.Error("daily_activity_failed", observability.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		writeInternalError(w, "failed to initialize session")
		return
	}

	token, err := session.CreateToken(s.cfg.SessionSecret, sessionID)
	if err != nil {
		s.logger.Error("session_token_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "failed to initialize session")
		return
	}

	progress, err := s.loadProgress(ctx, sessionID)
	if err != nil {
		s.logger.Error("progress_load_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "failed to initialize session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sessionId": sessionID,
		"token":     token,
		"isNewUser": isNewUser,
		"session":   progress,
		"offerings": oracle.Offerings(),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.requireSessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		Question    string                      `json:"question"`
		Offerings   []string                    `json:"offerings"`
		Enhancement *oracle.EnhancementOverride `json:"enhancement"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	question, err := validateQuestion(req.Question, s.cfg.QuestionMaxLen)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ctx := r.Context()
	result := s.engine.Process(ctx, question, sessionID, req.Offerings, req.Enhancement)

	s.metrics.IncOracleRequest(result.Metadata.Persona.ID, result.Metadata.ResponseType)
	s.metrics.IncEnhancementLevel(result.Metadata.EnhancementLevel)
	if result.Metadata.FallbackUsed {
		s.metrics.IncGenerationFailure("fallback")
	}

	if !result.Success {
		writeJSON(w, http.StatusOK, result)
		return
	}

	questionID, err := s.saveQuestion(ctx, sessionID, result)
	if err != nil {
		s.logger.Error("question_save_failed", observability.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		writeInternalError(w, "the oracle encountered an unexpected disturbance")
		return
	}

	awarded, details, err := s.awardQuestionCoins(ctx, sessionID, question)
	if err != nil {
		// The answer exists; a failed coin grant should not destroy it.
		s.logger.Warn("question_coins_failed", observability.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		awarded, details = 0, nil
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"question":       result.Question,
		"response":       result.Response,
		"metadata":       result.Metadata,
		"questionId":     questionID,
		"coinsAwarded":   awarded,
		"earningDetails": details,
	})
}

func (s *Server) saveQuestion(ctx context.Context, sessionID string, result oracle.Result) (int64, error) {
	themesJSON, err := json.Marshal(result.Metadata.Themes)
	if err != nil {
		return 0, err
	}
	offerings := result.Metadata.Offerings
	if offerings == nil {
		offerings = []string{}
	}
	offeringsJSON, err := json.Marshal(offerings)
	if err != nil {
		return 0, err
	}

	var questionID int64
	startedAt := time.Now()
	err = s.db.QueryRow(ctx, `
		INSERT INTO questions (
			session_id, question, response, persona_name, persona_description,
			response_type, themes, sentiment, mood, processing_time_ms,
			offerings_used, enhancement_level
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`,
		sessionID, result.Question, result.Response,
		result.Metadata.Persona.Name, result.Metadata.Persona.Description,
		result.Metadata.ResponseType, themesJSON, string(result.Metadata.Sentiment),
		result.Metadata.Mood.Name, result.Metadata.ProcessingTime.Milliseconds(),
		offeringsJSON, result.Metadata.EnhancementLevel,
	).Scan(&questionID)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	return questionID, err
}

func (s *Server) handleOracleMood(w http.ResponseWriter, _ *http.Request) {
	state := s.engine.CurrentState()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"mood":          state.Mood,
		"personas":      state.Personas,
		"responseTypes": state.ResponseTypes,
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.requireSessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		QuestionID int64  `json:"questionId"`
		Rating     string `json:"rating"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.QuestionID == 0 {
		writeBadRequest(w, "questionId is required")
		return
	}
	rating, err := validateRating(req.Rating)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ctx := r.Context()
	var owner *string
	startedAt := time.Now()
	err = s.db.QueryRow(ctx, `
		SELECT session_id FROM questions WHERE id = $1
	`, req.QuestionID).Scan(&owner)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		writeNotFound(w, "question not found")
		return
	}
	if err != nil {
		s.logger.Error("feedback_lookup_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "unable to record feedback")
		return
	}
	if owner == nil || *owner != sessionID {
		writeForbidden(w, "question belongs to another seeker")
		return
	}

	var feedbackID int64
	startedAt = time.Now()
	err = s.db.QueryRow(ctx, `
		INSERT INTO feedback (question_id, rating) VALUES ($1, $2) RETURNING id
	`, req.QuestionID, rating).Scan(&feedbackID)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		s.logger.Error("feedback_save_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "unable to record feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"feedbackId": feedbackID,
		"message":    "Thank you for your feedback. The Oracle learns from your wisdom.",
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.requireSessionID(w, r)
	if !ok {
		return
	}
	if chi.URLParam(r, "sessionID") != sessionID {
		writeForbidden(w, "history belongs to another seeker")
		return
	}

	limit, err := parsePaginationLimit(r.URL.Query().Get("limit"), s.cfg.HistoryDefaultLimit, 1, s.cfg.HistoryMaxLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ctx := r.Context()
	startedAt := time.Now()
	rows, err := s.db.Query(ctx, `
		SELECT id, question, response, persona_name, response_type,
		       enhancement_level, created_at
		FROM questions
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, sessionID, limit)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		s.logger.Error("history_query_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "unable to retrieve session history")
		return
	}
	defer rows.Close()

	type historyEntry struct {
		ID               int64     `json:"id"`
		Question         string    `json:"question"`
		Response         string    `json:"response"`
		PersonaName      *string   `json:"personaName"`
		ResponseType     *string   `json:"responseType"`
		EnhancementLevel string    `json:"enhancementLevel"`
		CreatedAt        time.Time `json:"createdAt"`
	}

	history := []historyEntry{}
	for rows.Next() {
		var entry historyEntry
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Response,
			&entry.PersonaName, &entry.ResponseType, &entry.EnhancementLevel, &entry.CreatedAt); err != nil {
			s.logger.Error("history_scan_failed", observability.Fields{"error": err.Error()})
			writeInternalError(w, "unable to retrieve session history")
			return
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("history_rows_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "unable to retrieve session history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sessionId": sessionID,
		"history":   history,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.requireSessionID(w, r)
	if !ok {
		return
	}
	if chi.URLParam(r, "sessionID") != sessionID {
		writeForbidden(w, "progress belongs to another seeker")
		return
	}

	progress, err := s.loadProgress(r.Context(), sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeNotFound(w, "session not found")
		return
	}
	if err != nil {
		s.logger.Error("progress_load_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "failed to get progress")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"progress": progress,
	})
}

func (s *Server) handleEarn(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.requireSessionID(w, r)
	if !ok {
		return
	}
	if chi.URLParam(r, "sessionID") != sessionID {
		writeForbidden(w, "session belongs to another seeker")
		return
	}

	var req struct {
		Activity string `json:"activity"`
		Metadata struct {
			QuestionText string `json:"questionText"`
		} `json:"metadata"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ctx := r.Context()
	var (
		awarded int
		details []earningDetail
		err     error
	)
	switch req.Activity {
	case "ask_question":
		awarded, details, err = s.awardQuestionCoins(ctx, sessionID, req.Metadata.QuestionText)
	case "provide_feedback", "quality_question":
		activity := earningActivities[req.Activity]
		err = s.awardCoins(ctx, sessionID, activity.Coins, req.Activity, nil)
		awarded = activity.Coins
		details = []earningDetail{{Reason: req.Activity, Amount: activity.Coins, Description: activity.Description}}
	default:
		writeBadRequest(w, "unknown activity")
		return
	}
	if err != nil {
		s.logger.Error("earn_failed", observability.Fields{
			"session_id": sessionID,
			"activity":   req.Activity,
			"error":      err.Error(),
		})
		writeInternalError(w, "failed to award coins")
		return
	}

	progress, err := s.loadProgress(ctx, sessionID)
	if err != nil {
		s.logger.Error("progress_load_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "failed to award coins")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"activity":       req.Activity,
		"coinsAwarded":   awarded,
		"earningDetails": details,
		"currentCoins":   progress.Coins,
	})
}

func (s *Server) handleSpend(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.requireSessionID(w, r)
	if !ok {
		return
	}
	if chi.URLParam(r, "sessionID") != sessionID {
		writeForbidden(w, "session belongs to another seeker")
		return
	}

	var req struct {
		Offerings  []string `json:"offerings"`
		QuestionID int64    `json:"questionId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	offerings, err := validateOfferingIDs(req.Offerings)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cost := oracle.CostOf(offerings)
	metadata := map[string]any{"offerings": offerings}
	if req.QuestionID != 0 {
		metadata["questionId"] = req.QuestionID
	}

	ctx := r.Context()
	if err := s.spendCoins(ctx, sessionID, cost, metadata); err != nil {
		if errors.Is(err, errInsufficientCoins) {
			writeBadRequest(w, "not enough mystical coins")
			return
		}
		s.logger.Error("spend_failed", observability.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		writeInternalError(w, "failed to process offerings")
		return
	}

	progress, err := s.loadProgress(ctx, sessionID)
	if err != nil {
		s.logger.Error("progress_load_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "failed to process offerings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"spent":        cost,
		"offerings":    offerings,
		"enhancements": oracle.ResolveEnhancements(offerings),
		"currentCoins": progress.Coins,
	})
}

func (s *Server) handleListOfferings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"offerings": oracle.Offerings(),
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.requireSessionID(w, r)
	if !ok {
		return
	}
	if chi.URLParam(r, "sessionID") != sessionID {
		writeForbidden(w, "transactions belong to another seeker")
		return
	}

	limit, err := parsePaginationLimit(r.URL.Query().Get("limit"), 20, 1, 100)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ctx := r.Context()
	startedAt := time.Now()
	rows, err := s.db.Query(ctx, `
		SELECT type, amount, reason, metadata, created_at
		FROM coin_transactions
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, sessionID, limit)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		s.logger.Error("transactions_query_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "failed to get transactions")
		return
	}
	defer rows.Close()

	type transaction struct {
		Type      string         `json:"type"`
		Amount    int            `json:"amount"`
		Reason    string         `json:"reason"`
		Metadata  map[string]any `json:"metadata"`
		CreatedAt time.Time      `json:"createdAt"`
	}

	transactions := []transaction{}
	for rows.Next() {
		var (
			tx           transaction
			metadataJSON []byte
		)
		if err := rows.Scan(&tx.Type, &tx.Amount, &tx.Reason, &metadataJSON, &tx.CreatedAt); err != nil {
			s.logger.Error("transactions_scan_failed", observability.Fields{"error": err.Error()})
			writeInternalError(w, "failed to get transactions")
			return
		}
		tx.Metadata = map[string]any{}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &tx.Metadata); err != nil {
				s.logger.Error("transactions_metadata_failed", observability.Fields{"error": err.Error()})
				writeInternalError(w, "failed to get transactions")
				return
			}
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("transactions_rows_failed", observability.Fields{"error": err.Error()})
		writeInternalError(w, "failed to get transactions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"transactions": transactions,
	})
}
