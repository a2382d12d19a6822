package api

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elliotmandel/AIOracle/internal/common"
)

var errInsufficientCoins = errors.New("insufficient coins")

const (
	startingCoins      = 15
	qualityWordMinimum = 15
)

type earningActivity struct {
	Coins       int    `json:"coins"`
	Description string `json:"description"`
}

var earningActivities = map[string]earningActivity{
	"first_visit_today":     {Coins: 10, Description: "Dawn's blessing"},
	"ask_question":          {Coins: 3, Description: "Seeking wisdom"},
	"quality_question":      {Coins: 5, Description: "Thoughtful inquiry"},
	"provide_feedback":      {Coins: 5, Description: "Sharing insight"},
	"consecutive_day_bonus": {Coins: 2, Description: "Devotion bonus"},
	"first_question_ever":   {Coins: 15, Description: "Welcome seeker"},
	"topic_professional":    {Coins: 1, Description: "Professional insight"},
	"topic_personal":        {Coins: 1, Description: "Personal growth"},
	"topic_relationships":   {Coins: 1, Description: "Relationship wisdom"},
	"topic_past":            {Coins: 1, Description: "Past reflection"},
	"topic_present":         {Coins: 1, Description: "Present awareness"},
	"topic_future":          {Coins: 1, Description: "Future guidance"},
}

type earningDetail struct {
	Reason      string `json:"reason"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

var topicKeywords = map[string][]string{
	"professional": {
		"career", "job", "work", "workplace", "professional", "business", "interview",
		"promotion", "colleague", "boss", "manager", "client", "project", "salary",
		"office", "company", "industry", "skill", "resume", "employment", "profession",
	},
	"personal": {
		"myself", "personal", "self", "identity", "purpose", "meaning", "growth",
		"change", "habit", "goal", "dream", "aspiration", "potential", "confidence",
		"fear", "anxiety", "happiness", "fulfillment", "passion", "talent", "strength",
	},
	"relationships": {
		"relationship", "love", "partner", "spouse", "marriage", "dating", "friend",
		"friendship", "family", "parent", "child", "sibling", "romantic", "social",
		"connection", "trust", "conflict", "communication", "intimacy", "breakup",
	},
	"past": {
		"past", "history", "childhood", "previous", "before", "earlier", "used to",
		"remember", "memory", "regret", "mistake", "lesson", "experience", "was",
		"were", "had", "did", "happened", "ago", "yesterday", "last",
	},
	"present": {
		"now", "currently", "present", "today", "right now", "at the moment",
		"these days", "lately", "recent", "am", "is", "are", "doing", "happening",
		"current", "this", "immediate", "contemporary",
	},
	"future": {
		"future", "will", "going to", "plan", "next", "tomorrow", "upcoming",
		"ahead", "later", "eventually", "someday", "potential", "possibility",
		"destiny", "fate", "prediction", "forecast", "hope", "expect", "anticipate",
	},
}

var topicOrder = []string{"professional", "personal", "relationships", "past", "present", "future"}

func categorizeQuestion(question string) []string {
	lower := strings.ToLower(question)

	var categories []string
	for _, topic := range topicOrder {
		for _, keyword := range topicKeywords[topic] {
			if strings.Contains(lower, keyword) {
				categories = append(categories, topic)
				break
			}
		}
	}
	return categories
}

type dailyActivity struct {
	Visited        bool `json:"visited"`
	QuestionsAsked int  `json:"questionsAsked"`
	FeedbackGiven  int  `json:"feedbackGiven"`
	CoinsEarned    int  `json:"coinsEarned"`
}

type sessionProgress struct {
	Coins           int                      `json:"coins"`
	TotalEarned     int                      `json:"totalEarned"`
	Streak          int                      `json:"streak"`
	TotalQuestions  int                      `json:"totalQuestions"`
	SessionsCount   int                      `json:"sessionsCount"`
	DailyActivities map[string]dailyActivity `json:"dailyActivities"`
	Achievements    []string                 `json:"achievements"`
	MemberSince     time.Time                `json:"memberSince"`
}

func (s *Server) createOracleSession(ctx context.Context, sessionID string) (map[string]dailyActivity, error) {
	today := time.Now().UTC().Format("2006-01-02")
	activities := map[string]dailyActivity{
		today: {Visited: true, CoinsEarned: startingCoins},
	}

	activitiesJSON, err := json.Marshal(activities)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now()
	_, err = s.db.Exec(ctx, `
		INSERT INTO oracle_sessions (id, last_visit, daily_activities)
		VALUES ($1, $2, $3)
	`, sessionID, today, activitiesJSON)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return nil, err
	}

	if err := s.recordTransaction(ctx, sessionID, "earn", startingCoins, "welcome_bonus", nil); err != nil {
		return nil, err
	}
	return activities, nil
}

// updateDailyActivity handles the first visit of a calendar day: streak
// bookkeeping plus the daily visit bonus. Subsequent visits on the same day
// are no-ops.
func (s *Server) updateDailyActivity(ctx context.Context, sessionID string) error {
	var (
		activitiesJSON []byte
		lastVisit      *time.Time
		streak         int
	)
	startedAt := time.Now()
	err := s.db.QueryRow(ctx, `
		SELECT daily_activities, last_visit, streak
		FROM oracle_sessions
		WHERE id = $1
	`, sessionID).Scan(&activitiesJSON, &lastVisit, &streak)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return err
	}

	activities := map[string]dailyActivity{}
	if len(activitiesJSON) > 0 {
		if err := json.Unmarshal(activitiesJSON, &activities); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	if _, visitedToday := activities[today]; visitedToday {
		return nil
	}

	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	newStreak := 1
	consecutive := false
	if lastVisit != nil {
		switch lastVisit.Format("2006-01-02") {
		case yesterday:
			newStreak = streak + 1
			consecutive = true
		case today:
			newStreak = streak
		}
	}

	visitBonus := earningActivities["first_visit_today"]
	activities[today] = dailyActivity{Visited: true, CoinsEarned: visitBonus.Coins}

	updatedJSON, err := json.Marshal(activities)
	if err != nil {
		return err
	}

	startedAt = time.Now()
	_, err = s.db.Exec(ctx, `
		UPDATE oracle_sessions
		SET daily_activities = $1, last_visit = $2, streak = $3, updated_at = NOW()
		WHERE id = $4
	`, updatedJSON, today, newStreak, sessionID)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return err
	}

	if consecutive {
		bonus := earningActivities["consecutive_day_bonus"]
		if err := s.awardCoins(ctx, sessionID, bonus.Coins, "consecutive_day_bonus", nil); err != nil {
			return err
		}
	}
	return s.awardCoins(ctx, sessionID, visitBonus.Coins, "first_visit_today", nil)
}

func (s *Server) awardCoins(ctx context.Context, sessionID string, amount int, reason string, metadata map[string]any) error {
	startedAt := time.Now()
	_, err := s.db.Exec(ctx, `
		UPDATE oracle_sessions
		SET coins = coins + $1, total_earned = total_earned + $1, updated_at = NOW()
		WHERE id = $2
	`, amount, sessionID)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return err
	}
	return s.recordTransaction(ctx, sessionID, "earn", amount, reason, metadata)
}

// spendCoins deducts atomically: the balance guard lives in the UPDATE so two
// concurrent spends cannot both succeed on one balance.
func (s *Server) spendCoins(ctx context.Context, sessionID string, cost int, metadata map[string]any) error {
	startedAt := time.Now()
	tag, err := s.db.Exec(ctx, `
		UPDATE oracle_sessions
		SET coins = coins - $1, updated_at = NOW()
		WHERE id = $2 AND coins >= $1
	`, cost, sessionID)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errInsufficientCoins
	}
	return s.recordTransaction(ctx, sessionID, "spend", cost, "offerings", metadata)
}

func (s *Server) recordTransaction(ctx context.Context, sessionID, txType string, amount int, reason string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	startedAt := time.Now()
	_, err = s.db.Exec(ctx, `
		INSERT INTO coin_transactions (session_id, type, amount, reason, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`, sessionID, txType, amount, reason, metadataJSON)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	return err
}

// awardQuestionCoins grants the base reward, the quality bonus at 15+ words,
// the one-time first question bonus, and one coin per matched topic.
func (s *Server) awardQuestionCoins(ctx context.Context, sessionID, questionText string) (int, []earningDetail, error) {
	var totalQuestions int
	startedAt := time.Now()
	err := s.db.QueryRow(ctx, `
		SELECT total_questions FROM oracle_sessions WHERE id = $1
	`, sessionID).Scan(&totalQuestions)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return 0, nil, err
	}

	totalAwarded := 0
	details := []earningDetail{}

	grant := func(reason string) error {
		activity := earningActivities[reason]
		if err := s.awardCoins(ctx, sessionID, activity.Coins, reason, nil); err != nil {
			return err
		}
		totalAwarded += activity.Coins
		details = append(details, earningDetail{
			Reason:      reason,
			Amount:      activity.Coins,
			Description: activity.Description,
		})
		return nil
	}

	if err := grant("ask_question"); err != nil {
		return 0, nil, err
	}
	if common.WordCount(questionText) >= qualityWordMinimum {
		if err := grant("quality_question"); err != nil {
			return 0, nil, err
		}
	}
	if totalQuestions == 0 {
		if err := grant("first_question_ever"); err != nil {
			return 0, nil, err
		}
	}
	for _, topic := range categorizeQuestion(questionText) {
		if err := grant("topic_" + topic); err != nil {
			return 0, nil, err
		}
	}

	startedAt = time.Now()
	_, err = s.db.Exec(ctx, `
		UPDATE oracle_sessions
		SET total_questions = total_questions + 1, updated_at = NOW()
		WHERE id = $1
	`, sessionID)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return 0, nil, err
	}

	return totalAwarded, details, nil
}

func (s *Server) loadProgress(ctx context.Context, sessionID string) (sessionProgress, error) {
	var (
		progress        sessionProgress
		activitiesJSON  []byte
		achievementJSON []byte
	)
	startedAt := time.Now()
	err := s.db.QueryRow(ctx, `
		SELECT coins, total_earned, streak, total_questions, sessions_count,
		       daily_activities, achievements, created_at
		FROM oracle_sessions
		WHERE id = $1
	`, sessionID).Scan(
		&progress.Coins, &progress.TotalEarned, &progress.Streak,
		&progress.TotalQuestions, &progress.SessionsCount,
		&activitiesJSON, &achievementJSON, &progress.MemberSince,
	)
	s.metrics.ObserveDBQuery(time.Since(startedAt))
	if err != nil {
		return sessionProgress{}, err
	}

	progress.DailyActivities = map[string]dailyActivity{}
	if len(activitiesJSON) > 0 {
		if err := json.Unmarshal(activitiesJSON, &progress.DailyActivities); err != nil {
			return sessionProgress{}, err
		}
	}
	progress.Achievements = []string{}
	if len(achievementJSON) > 0 {
		if err := json.Unmarshal(achievementJSON, &progress.Achievements); err != nil {
			return sessionProgress{}, err
		}
	}
	return progress, nil
}
