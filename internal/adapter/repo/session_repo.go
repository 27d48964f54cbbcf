package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// SessionRepositoryPG implements domain.SessionRepository. The question set
// snapshot is stored as JSONB alongside the session row.
type SessionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a session repository backed by PostgreSQL.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepositoryPG {
	return &SessionRepositoryPG{pool: pool}
}

// Create inserts a new session record with its question snapshot.
func (r *SessionRepositoryPG) Create(ctx context.Context, session *domain.InterviewSession) error {
	questionSet, err := json.Marshal(session.QuestionSet)
	if err != nil {
		return err
	}
	query := `
INSERT INTO interview_sessions (session_id, user_id, industry, role, question_set, current_index, status, billing_triggered, start_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err = r.pool.Exec(ctx, query,
		session.SessionID,
		nullableString(session.UserID),
		session.Industry,
		session.Role,
		questionSet,
		session.CurrentIndex,
		session.Status,
		session.BillingTriggered,
		session.StartTime,
	)
	return err
}

// GetByID fetches a session by its identifier.
func (r *SessionRepositoryPG) GetByID(ctx context.Context, sessionID string) (*domain.InterviewSession, error) {
	query := `
SELECT session_id, user_id, industry, role, question_set, current_index, status, billing_triggered, start_time, end_time
FROM interview_sessions
WHERE session_id = $1;
`
	row := r.pool.QueryRow(ctx, query, sessionID)
	var session domain.InterviewSession
	var userID *string
	var questionSet []byte
	if err := row.Scan(
		&session.SessionID,
		&userID,
		&session.Industry,
		&session.Role,
		&questionSet,
		&session.CurrentIndex,
		&session.Status,
		&session.BillingTriggered,
		&session.StartTime,
		&session.EndTime,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if userID != nil {
		session.UserID = *userID
	}
	if err := json.Unmarshal(questionSet, &session.QuestionSet); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateIndex persists the advanced question cursor.
func (r *SessionRepositoryPG) UpdateIndex(ctx context.Context, sessionID string, index int) error {
	query := `
UPDATE interview_sessions
SET current_index = $2
WHERE session_id = $1;
`
	_, err := r.pool.Exec(ctx, query, sessionID, index)
	return err
}

// Complete marks the session completed. The status guard makes repeated calls
// report false instead of rewriting the terminal row.
func (r *SessionRepositoryPG) Complete(ctx context.Context, sessionID string) (bool, error) {
	query := `
UPDATE interview_sessions
SET status = 'completed', end_time = NOW()
WHERE session_id = $1 AND status = 'active';
`
	tag, err := r.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// TriggerBilling sets the one-way billing flag.
func (r *SessionRepositoryPG) TriggerBilling(ctx context.Context, sessionID string) error {
	query := `
UPDATE interview_sessions
SET billing_triggered = TRUE
WHERE session_id = $1;
`
	_, err := r.pool.Exec(ctx, query, sessionID)
	return err
}

// CompleteIdleBefore force-completes active sessions started before cutoff.
func (r *SessionRepositoryPG) CompleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
UPDATE interview_sessions
SET status = 'completed', end_time = NOW()
WHERE status = 'active' AND start_time < $1;
`
	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ domain.SessionRepository = (*SessionRepositoryPG)(nil)
