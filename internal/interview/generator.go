package interview

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/deepseek"
)

const (
	generationBatchSize = 10
	generationPause     = time.Second
)

// Generator grows the question bank through detached background tasks. Each
// task repeatedly asks the model for a bounded batch of labelled questions
// until the bank holds the configured target for its (industry, role) pair.
type Generator struct {
	questions domain.QuestionRepository
	tasks     domain.TaskRepository
	config    domain.ConfigRepository
	gateway   Gateway
	logger    infra.Logger

	batchSize int
	pause     time.Duration
}

// NewGenerator wires the generation orchestrator.
func NewGenerator(questions domain.QuestionRepository, tasks domain.TaskRepository, config domain.ConfigRepository, gateway Gateway, logger infra.Logger) *Generator {
	return &Generator{
		questions: questions,
		tasks:     tasks,
		config:    config,
		gateway:   gateway,
		logger:    logger,
		batchSize: generationBatchSize,
		pause:     generationPause,
	}
}

// Availability reports whether the bank can support starting an interview.
type Availability struct {
	CurrentCount int           `json:"currentCount"`
	MinRequired  int           `json:"minRequired"`
	TargetCount  int           `json:"targetCount"`
	IsAvailable  bool          `json:"isAvailable"`
	ActiveTask   *TaskProgress `json:"activeTask,omitempty"`
}

// TaskProgress is the polling view of a running generation task.
type TaskProgress struct {
	TaskID   string `json:"taskId"`
	Progress int    `json:"progress"`
	Target   int    `json:"target"`
}

// StartTask starts a background generation task for the pair, or returns the
// id of the task already running. The caller never blocks on generation.
func (g *Generator) StartTask(ctx context.Context, industry, role string) (string, error) {
	industry = strings.TrimSpace(industry)
	role = strings.TrimSpace(role)
	if industry == "" || role == "" {
		return "", domain.ErrValidation
	}

	if existing, err := g.tasks.GetActiveByPair(ctx, industry, role); err == nil {
		g.logger.Info().Str("task_id", existing.TaskID).Str("industry", industry).Str("role", role).
			Msg("generation already running for pair")
		return existing.TaskID, nil
	} else if err != domain.ErrNotFound {
		return "", err
	}

	targetCount := g.config.GetInt(ctx, domain.ConfigTargetQuestions, domain.DefaultConfigInt[domain.ConfigTargetQuestions])
	task := &domain.GenerationTask{
		TaskID:         uuid.NewString(),
		Industry:       industry,
		Role:           role,
		Status:         domain.TaskStatusProcessing,
		ProgressTarget: targetCount,
		CreatedAt:      time.Now(),
	}
	active, created, err := g.tasks.CreateIfAbsent(ctx, task)
	if err != nil {
		return "", err
	}
	if !created {
		// Lost the insert race; the winner's task serves both callers.
		return active.TaskID, nil
	}

	// Detached: the task outlives the triggering request and runs until it
	// reaches its target or fails. There is no cancellation path.
	go g.Execute(context.Background(), task.TaskID, industry, role, targetCount)

	return task.TaskID, nil
}

// Execute runs the generation loop for one task. Progress is persisted after
// every batch so pollers see movement; any failure degrades the task to its
// terminal failed state instead of propagating.
func (g *Generator) Execute(ctx context.Context, taskID, industry, role string, targetCount int) {
	g.logger.Info().Str("task_id", taskID).Str("industry", industry).Str("role", role).
		Int("target", targetCount).Msg("generation task started")

	currentCount := 0
	for currentCount < targetCount {
		batch := targetCount - currentCount
		if batch > g.batchSize {
			batch = g.batchSize
		}

		accepted, err := g.generateBatch(ctx, industry, role, batch)
		if err != nil {
			g.fail(ctx, taskID, err)
			return
		}

		if len(accepted) > 0 {
			if err := g.questions.Add(ctx, accepted); err != nil {
				g.fail(ctx, taskID, err)
				return
			}
			currentCount += len(accepted)
			if err := g.tasks.UpdateProgress(ctx, taskID, currentCount); err != nil {
				g.fail(ctx, taskID, err)
				return
			}
			infra.QuestionsGenerated.Add(float64(len(accepted)))
			g.logger.Info().Str("task_id", taskID).Int("current", currentCount).Int("target", targetCount).
				Msg("generation progress")
		} else {
			g.logger.Warn().Str("task_id", taskID).Msg("batch yielded no valid questions")
		}

		// Bounds the upstream call rate.
		time.Sleep(g.pause)
	}

	if err := g.tasks.Complete(ctx, taskID); err != nil {
		g.logger.Error().Err(err).Str("task_id", taskID).Msg("failed to mark task completed")
		return
	}
	infra.GenerationTasksCompleted.Inc()
	g.logger.Info().Str("task_id", taskID).Int("generated", currentCount).Msg("generation task completed")
}

// generateBatch asks the model for count labelled questions and returns every
// valid line. The yield may fall short of count, or exceed it when the model
// over-delivers; both are accepted as-is.
func (g *Generator) generateBatch(ctx context.Context, industry, role string, count int) ([]domain.QuestionRecord, error) {
	systemPrompt, userPrompt := BuildBankPrompt(industry, role, count)
	response, err := g.gateway.Send(ctx, userPrompt, deepseek.SendOptions{
		SystemPrompt: systemPrompt,
		Temperature:  0.8,
		MaxTokens:    2000,
	})
	if err != nil {
		return nil, err
	}
	return ParseLabelledQuestions(response, industry, role), nil
}

func (g *Generator) fail(ctx context.Context, taskID string, cause error) {
	g.logger.Error().Err(cause).Str("task_id", taskID).Msg("generation task failed")
	infra.GenerationTasksFailed.Inc()
	if err := g.tasks.Fail(ctx, taskID, cause.Error()); err != nil {
		g.logger.Error().Err(err).Str("task_id", taskID).Msg("failed to record task failure")
	}
}

// CheckAvailability reports bank readiness for the pair together with the
// active task, so callers can poll instead of starting a duplicate.
func (g *Generator) CheckAvailability(ctx context.Context, industry, role string) (*Availability, error) {
	industry = strings.TrimSpace(industry)
	role = strings.TrimSpace(role)
	if industry == "" || role == "" {
		return nil, domain.ErrValidation
	}

	currentCount, err := g.questions.CountByPair(ctx, industry, role)
	if err != nil {
		return nil, err
	}
	minRequired := g.config.GetInt(ctx, domain.ConfigMinQuestions, domain.DefaultConfigInt[domain.ConfigMinQuestions])
	targetCount := g.config.GetInt(ctx, domain.ConfigTargetQuestions, domain.DefaultConfigInt[domain.ConfigTargetQuestions])

	availability := &Availability{
		CurrentCount: currentCount,
		MinRequired:  minRequired,
		TargetCount:  targetCount,
		IsAvailable:  currentCount >= minRequired,
	}
	if active, err := g.tasks.GetActiveByPair(ctx, industry, role); err == nil {
		availability.ActiveTask = &TaskProgress{
			TaskID:   active.TaskID,
			Progress: active.ProgressCurrent,
			Target:   active.ProgressTarget,
		}
	} else if err != domain.ErrNotFound {
		return nil, err
	}
	return availability, nil
}

// TaskStatus fetches a task by id.
func (g *Generator) TaskStatus(ctx context.Context, taskID string) (*domain.GenerationTask, error) {
	return g.tasks.GetByID(ctx, taskID)
}
