package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// TaskRepositoryPG implements domain.TaskRepository.
type TaskRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a generation task repository backed by PostgreSQL.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepositoryPG {
	return &TaskRepositoryPG{pool: pool}
}

// CreateIfAbsent inserts the task unless the partial unique index on
// (industry, role) WHERE status='processing' already holds a row. The insert
// and the uniqueness check are a single statement, so two concurrent callers
// cannot both create a processing task for the same pair.
func (r *TaskRepositoryPG) CreateIfAbsent(ctx context.Context, task *domain.GenerationTask) (*domain.GenerationTask, bool, error) {
	query := `
INSERT INTO generation_tasks (task_id, industry, role, status, progress_current, progress_target)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (industry, role) WHERE status = 'processing' DO NOTHING;
`
	tag, err := r.pool.Exec(ctx, query,
		task.TaskID,
		task.Industry,
		task.Role,
		task.Status,
		task.ProgressCurrent,
		task.ProgressTarget,
	)
	if err != nil {
		return nil, false, err
	}
	if tag.RowsAffected() == 1 {
		return task, true, nil
	}
	active, err := r.GetActiveByPair(ctx, task.Industry, task.Role)
	if err != nil {
		return nil, false, err
	}
	return active, false, nil
}

// GetByID fetches a task by its identifier.
func (r *TaskRepositoryPG) GetByID(ctx context.Context, taskID string) (*domain.GenerationTask, error) {
	query := `
SELECT task_id, industry, role, status, progress_current, progress_target, error_message, created_at, completed_at
FROM generation_tasks
WHERE task_id = $1;
`
	return r.scanTask(r.pool.QueryRow(ctx, query, taskID))
}

// GetActiveByPair fetches the processing task for the pair, if any.
func (r *TaskRepositoryPG) GetActiveByPair(ctx context.Context, industry, role string) (*domain.GenerationTask, error) {
	query := `
SELECT task_id, industry, role, status, progress_current, progress_target, error_message, created_at, completed_at
FROM generation_tasks
WHERE industry = $1 AND role = $2 AND status = 'processing';
`
	return r.scanTask(r.pool.QueryRow(ctx, query, industry, role))
}

// UpdateProgress records how many questions the task has accepted so far.
func (r *TaskRepositoryPG) UpdateProgress(ctx context.Context, taskID string, current int) error {
	query := `
UPDATE generation_tasks
SET progress_current = $2
WHERE task_id = $1;
`
	_, err := r.pool.Exec(ctx, query, taskID, current)
	return err
}

// Complete transitions the task to its terminal completed state.
func (r *TaskRepositoryPG) Complete(ctx context.Context, taskID string) error {
	query := `
UPDATE generation_tasks
SET status = 'completed', completed_at = NOW()
WHERE task_id = $1 AND status = 'processing';
`
	_, err := r.pool.Exec(ctx, query, taskID)
	return err
}

// Fail transitions the task to its terminal failed state with the error recorded.
func (r *TaskRepositoryPG) Fail(ctx context.Context, taskID, message string) error {
	query := `
UPDATE generation_tasks
SET status = 'failed', error_message = $2, completed_at = NOW()
WHERE task_id = $1 AND status = 'processing';
`
	_, err := r.pool.Exec(ctx, query, taskID, message)
	return err
}

func (r *TaskRepositoryPG) scanTask(row pgx.Row) (*domain.GenerationTask, error) {
	var task domain.GenerationTask
	var errMsg *string
	if err := row.Scan(
		&task.TaskID,
		&task.Industry,
		&task.Role,
		&task.Status,
		&task.ProgressCurrent,
		&task.ProgressTarget,
		&errMsg,
		&task.CreatedAt,
		&task.CompletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if errMsg != nil {
		task.ErrorMessage = *errMsg
	}
	return &task, nil
}

var _ domain.TaskRepository = (*TaskRepositoryPG)(nil)
