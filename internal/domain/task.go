package domain

import "time"

// TaskStatus enumerates generation task lifecycle states.
type TaskStatus string

const (
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// GenerationTask tracks one background run that grows the question bank for
// an (industry, role) pair toward ProgressTarget. At most one task per pair
// may be in the processing state; completed and failed are terminal.
type GenerationTask struct {
	TaskID          string
	Industry        string
	Role            string
	Status          TaskStatus
	ProgressCurrent int
	ProgressTarget  int
	ErrorMessage    string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// Terminal reports whether the task can no longer change state.
func (t *GenerationTask) Terminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}
