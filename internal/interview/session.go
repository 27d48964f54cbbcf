package interview

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/infra"
)

// CompletionMessage closes out an interview once the snapshot is exhausted.
const CompletionMessage = "面试已完成，感谢您的参与！"

// Sessions orchestrates interview sessions over an immutable question
// snapshot drawn at start time. Billing state is evaluated lazily on each
// question fetch against the configured time limit.
type Sessions struct {
	sessions  domain.SessionRepository
	questions domain.QuestionRepository
	config    domain.ConfigRepository
	logger    infra.Logger

	now     func() time.Time
	randInt func(n int) int
}

// NewSessions wires the session orchestrator with the real clock and
// randomness source.
func NewSessions(sessions domain.SessionRepository, questions domain.QuestionRepository, config domain.ConfigRepository, logger infra.Logger) *Sessions {
	return &Sessions{
		sessions:  sessions,
		questions: questions,
		config:    config,
		logger:    logger,
		now:       time.Now,
		randInt:   rand.Intn,
	}
}

// StartResult is the full snapshot returned when a session begins.
type StartResult struct {
	SessionID      string                   `json:"sessionId"`
	Industry       string                   `json:"industry"`
	Role           string                   `json:"role"`
	Questions      []domain.SessionQuestion `json:"questions"`
	TotalQuestions int                      `json:"totalQuestions"`
	StartTime      time.Time                `json:"startTime"`
}

// NextQuestion is one question in interview order.
type NextQuestion struct {
	ID    int64  `json:"id"`
	Text  string `json:"text"`
	Type  string `json:"type"`
	Index int    `json:"index"`
	Total int    `json:"total"`
}

// SessionInfo accompanies every question so stateless clients can render the
// interview header.
type SessionInfo struct {
	SessionID string    `json:"sessionId"`
	Industry  string    `json:"industry"`
	Role      string    `json:"role"`
	StartTime time.Time `json:"startTime"`
}

// NextQuestionResult is the fetch-next response. Exactly one of Question or
// the completion fields is meaningful.
type NextQuestionResult struct {
	IsComplete       bool          `json:"isComplete"`
	Message          string        `json:"message,omitempty"`
	Question         *NextQuestion `json:"question,omitempty"`
	BillingTriggered bool          `json:"billingTriggered"`
	SessionInfo      *SessionInfo  `json:"sessionInfo,omitempty"`
}

// Progress is the polling view of a running session.
type Progress struct {
	SessionID        string    `json:"sessionId"`
	CurrentIndex     int       `json:"currentIndex"`
	TotalQuestions   int       `json:"totalQuestions"`
	Percent          int       `json:"percent"`
	ElapsedMinutes   int       `json:"elapsedMinutes"`
	BillingTimeLimit int       `json:"billingTimeLimit"`
	BillingTriggered bool      `json:"billingTriggered"`
	Status           string    `json:"status"`
	StartTime        time.Time `json:"startTime"`
}

// Start draws a random snapshot for the pair and opens a session over it. The
// snapshot is capped at the configured set size but a smaller bank still
// yields a session; only an empty bank refuses with ErrInsufficientQuestions.
func (s *Sessions) Start(ctx context.Context, userID, industry, role string) (*StartResult, error) {
	industry = strings.TrimSpace(industry)
	role = strings.TrimSpace(role)
	if industry == "" || role == "" {
		return nil, domain.ErrValidation
	}

	setSize := s.config.GetInt(ctx, domain.ConfigQuestionSetSize, domain.DefaultConfigInt[domain.ConfigQuestionSetSize])
	records, err := s.questions.RandomByPair(ctx, industry, role, setSize)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrInsufficientQuestions
	}

	snapshot := make([]domain.SessionQuestion, len(records))
	for i, r := range records {
		snapshot[i] = domain.SessionQuestion{ID: r.ID, Text: r.Text, Type: r.Type}
	}

	session := &domain.InterviewSession{
		SessionID:   uuid.NewString(),
		UserID:      userID,
		Industry:    industry,
		Role:        role,
		QuestionSet: snapshot,
		Status:      domain.SessionStatusActive,
		StartTime:   s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Str("session_id", session.SessionID).Str("industry", industry).Str("role", role).
		Int("questions", len(snapshot)).Msg("interview session started")

	return &StartResult{
		SessionID:      session.SessionID,
		Industry:       industry,
		Role:           role,
		Questions:      snapshot,
		TotalQuestions: len(snapshot),
		StartTime:      session.StartTime,
	}, nil
}

// Next returns the question at the session's current index and advances it.
// When the snapshot is exhausted the session is completed and a completion
// result is returned instead.
func (s *Sessions) Next(ctx context.Context, sessionID string) (*NextQuestionResult, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusActive {
		return nil, domain.ErrSessionEnded
	}

	if session.CurrentIndex >= len(session.QuestionSet) {
		if _, err := s.sessions.Complete(ctx, sessionID); err != nil {
			return nil, err
		}
		s.logger.Info().Str("session_id", sessionID).Msg("interview session completed")
		return &NextQuestionResult{
			IsComplete:       true,
			Message:          CompletionMessage,
			BillingTriggered: session.BillingTriggered,
		}, nil
	}

	billing, err := s.checkBilling(ctx, session)
	if err != nil {
		return nil, err
	}

	q := session.QuestionSet[session.CurrentIndex]
	text := q.Text
	if session.CurrentIndex > 0 {
		text = pickFeedback(s.randInt) + " " + text
	}

	if err := s.sessions.UpdateIndex(ctx, sessionID, session.CurrentIndex+1); err != nil {
		return nil, err
	}

	return &NextQuestionResult{
		Question: &NextQuestion{
			ID:    q.ID,
			Text:  text,
			Type:  string(q.Type),
			Index: session.CurrentIndex + 1,
			Total: len(session.QuestionSet),
		},
		BillingTriggered: billing,
		SessionInfo: &SessionInfo{
			SessionID: session.SessionID,
			Industry:  session.Industry,
			Role:      session.Role,
			StartTime: session.StartTime,
		},
	}, nil
}

// checkBilling reports whether the session has crossed the billing time
// limit, persisting the transition the first time it is observed. Once
// triggered the flag never clears.
func (s *Sessions) checkBilling(ctx context.Context, session *domain.InterviewSession) (bool, error) {
	if session.BillingTriggered {
		return true, nil
	}
	limitMinutes := s.config.GetInt(ctx, domain.ConfigBillingTimeLimit, domain.DefaultConfigInt[domain.ConfigBillingTimeLimit])
	elapsed := s.now().Sub(session.StartTime)
	if elapsed < time.Duration(limitMinutes)*time.Minute {
		return false, nil
	}
	if err := s.sessions.TriggerBilling(ctx, session.SessionID); err != nil {
		return false, err
	}
	session.BillingTriggered = true
	infra.BillingTriggers.Inc()
	s.logger.Info().Str("session_id", session.SessionID).Int("limit_minutes", limitMinutes).
		Msg("billing time limit reached")
	return true, nil
}

// End completes a session. Returns false when the session was already in a
// terminal state, so repeated calls are harmless.
func (s *Sessions) End(ctx context.Context, sessionID string) (bool, error) {
	changed, err := s.sessions.Complete(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if changed {
		s.logger.Info().Str("session_id", sessionID).Msg("interview session ended by caller")
	}
	return changed, nil
}

// GetProgress reports completion percentage and elapsed time for a session.
func (s *Sessions) GetProgress(ctx context.Context, sessionID string) (*Progress, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	total := len(session.QuestionSet)
	percent := 0
	if total > 0 {
		percent = int(math.Round(float64(session.CurrentIndex) / float64(total) * 100))
	}

	end := s.now()
	if session.EndTime != nil {
		end = *session.EndTime
	}
	elapsed := int(math.Round(end.Sub(session.StartTime).Minutes()))
	limitMinutes := s.config.GetInt(ctx, domain.ConfigBillingTimeLimit, domain.DefaultConfigInt[domain.ConfigBillingTimeLimit])

	return &Progress{
		SessionID:        session.SessionID,
		CurrentIndex:     session.CurrentIndex,
		TotalQuestions:   total,
		Percent:          percent,
		ElapsedMinutes:   elapsed,
		BillingTimeLimit: limitMinutes,
		BillingTriggered: session.BillingTriggered,
		Status:           session.DisplayStatus(),
		StartTime:        session.StartTime,
	}, nil
}
