package interview

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"server/internal/domain"
	"server/internal/providers/deepseek"
)

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []domain.QuestionRecord
	nextID    int64
	addErr    error
}

func (f *fakeQuestionRepo) Add(_ context.Context, questions []domain.QuestionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	for _, q := range questions {
		f.nextID++
		q.ID = f.nextID
		f.questions = append(f.questions, q)
	}
	return nil
}

func (f *fakeQuestionRepo) CountByPair(_ context.Context, industry, role string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, q := range f.questions {
		if q.Industry == industry && q.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeQuestionRepo) RandomByPair(_ context.Context, industry, role string, limit int) ([]domain.QuestionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.QuestionRecord
	for _, q := range f.questions {
		if q.Industry == industry && q.Role == role {
			out = append(out, q)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) seed(industry, role string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		f.nextID++
		f.questions = append(f.questions, domain.QuestionRecord{
			ID:       f.nextID,
			Industry: industry,
			Role:     role,
			Text:     fmt.Sprintf("问题%d", f.nextID),
			Type:     domain.QuestionTypeBehavior,
		})
	}
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.GenerationTask
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*domain.GenerationTask{}}
}

func (f *fakeTaskRepo) CreateIfAbsent(_ context.Context, task *domain.GenerationTask) (*domain.GenerationTask, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.Industry == task.Industry && t.Role == task.Role && t.Status == domain.TaskStatusProcessing {
			cp := *t
			return &cp, false, nil
		}
	}
	cp := *task
	f.tasks[task.TaskID] = &cp
	return task, true, nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, taskID string) (*domain.GenerationTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepo) GetActiveByPair(_ context.Context, industry, role string) (*domain.GenerationTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.Industry == industry && t.Role == role && t.Status == domain.TaskStatusProcessing {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTaskRepo) UpdateProgress(_ context.Context, taskID string, current int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return domain.ErrNotFound
	}
	t.ProgressCurrent = current
	return nil
}

func (f *fakeTaskRepo) Complete(_ context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = domain.TaskStatusCompleted
	now := time.Now()
	t.CompletedAt = &now
	return nil
}

func (f *fakeTaskRepo) Fail(_ context.Context, taskID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = domain.TaskStatusFailed
	t.ErrorMessage = message
	now := time.Now()
	t.CompletedAt = &now
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.InterviewSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.InterviewSession{}}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *domain.InterviewSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *session
	f.sessions[session.SessionID] = &cp
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, sessionID string) (*domain.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) UpdateIndex(_ context.Context, sessionID string, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	s.CurrentIndex = index
	return nil
}

func (f *fakeSessionRepo) Complete(_ context.Context, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if s.Status != domain.SessionStatusActive {
		return false, nil
	}
	s.Status = domain.SessionStatusCompleted
	now := time.Now()
	s.EndTime = &now
	return true, nil
}

func (f *fakeSessionRepo) TriggerBilling(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	s.BillingTriggered = true
	return nil
}

func (f *fakeSessionRepo) CompleteIdleBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.sessions {
		if s.Status == domain.SessionStatusActive && s.StartTime.Before(cutoff) {
			s.Status = domain.SessionStatusCompleted
			n++
		}
	}
	return n, nil
}

type fakeConfigRepo struct {
	values map[string]string
}

func (f *fakeConfigRepo) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeConfigRepo) Set(_ context.Context, key, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

func (f *fakeConfigRepo) GetInt(_ context.Context, key string, fallback int) int {
	v, ok := f.values[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// scriptedGateway returns canned responses in order, then repeats the last.
type scriptedGateway struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (f *scriptedGateway) Send(_ context.Context, _ string, _ deepseek.SendOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func (f *scriptedGateway) SendStream(ctx context.Context, prompt string, opts deepseek.SendOptions, onChunk func(string)) (string, error) {
	full, err := f.Send(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	if onChunk != nil {
		onChunk(full)
	}
	return full, nil
}

// labelledResponse builds a model response with n valid behavior lines.
func labelledResponse(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += fmt.Sprintf("[behavior] 请分享第%d个经历\n", i+1)
	}
	return out
}
