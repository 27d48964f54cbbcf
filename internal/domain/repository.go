package domain

import (
	"context"
	"time"
)

// QuestionRepository defines persistence for the question bank.
type QuestionRepository interface {
	Add(ctx context.Context, questions []QuestionRecord) error
	CountByPair(ctx context.Context, industry, role string) (int, error)
	// RandomByPair draws up to limit questions uniformly at random without
	// replacement for the given pair.
	RandomByPair(ctx context.Context, industry, role string, limit int) ([]QuestionRecord, error)
}

// TaskRepository defines persistence for generation tasks.
type TaskRepository interface {
	// CreateIfAbsent atomically inserts the task unless a processing task for
	// the same (industry, role) pair already exists. It returns the task now
	// active for the pair and whether the insert took effect.
	CreateIfAbsent(ctx context.Context, task *GenerationTask) (*GenerationTask, bool, error)
	GetByID(ctx context.Context, taskID string) (*GenerationTask, error)
	// GetActiveByPair returns the processing task for the pair, or ErrNotFound.
	GetActiveByPair(ctx context.Context, industry, role string) (*GenerationTask, error)
	UpdateProgress(ctx context.Context, taskID string, current int) error
	Complete(ctx context.Context, taskID string) error
	Fail(ctx context.Context, taskID, message string) error
}

// SessionRepository defines persistence for interview sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *InterviewSession) error
	GetByID(ctx context.Context, sessionID string) (*InterviewSession, error)
	UpdateIndex(ctx context.Context, sessionID string, index int) error
	// Complete marks the session completed and reports whether a still-active
	// record was actually changed.
	Complete(ctx context.Context, sessionID string) (bool, error)
	TriggerBilling(ctx context.Context, sessionID string) error
	// CompleteIdleBefore force-completes active sessions started before the
	// cutoff and returns how many were closed.
	CompleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ConfigRepository is the read-through store for runtime configuration.
type ConfigRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// GetInt reads a string-encoded integer, returning fallback when the key
	// is absent or unparseable. Values are re-read per call; no cache.
	GetInt(ctx context.Context, key string, fallback int) int
}
