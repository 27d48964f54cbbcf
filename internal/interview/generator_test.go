package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

func newTestGenerator(questions *fakeQuestionRepo, tasks *fakeTaskRepo, gw Gateway) *Generator {
	g := NewGenerator(questions, tasks, &fakeConfigRepo{}, gw, zerolog.Nop())
	g.pause = 0
	return g
}

func TestExecuteRunsToTarget(t *testing.T) {
	questions := &fakeQuestionRepo{}
	tasks := newFakeTaskRepo()
	gw := &scriptedGateway{responses: []string{labelledResponse(10)}}
	g := newTestGenerator(questions, tasks, gw)

	ctx := context.Background()
	task := &domain.GenerationTask{TaskID: "t1", Industry: "互联网", Role: "后端工程师", Status: domain.TaskStatusProcessing, ProgressTarget: 50}
	if _, _, err := tasks.CreateIfAbsent(ctx, task); err != nil {
		t.Fatalf("CreateIfAbsent() error = %v", err)
	}

	g.Execute(ctx, "t1", "互联网", "后端工程师", 50)

	got, err := tasks.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != domain.TaskStatusCompleted {
		t.Fatalf("task status = %q, want %q", got.Status, domain.TaskStatusCompleted)
	}
	if got.ProgressCurrent != 50 {
		t.Errorf("progress = %d, want 50", got.ProgressCurrent)
	}
	if gw.calls != 5 {
		t.Errorf("gateway calls = %d, want 5", gw.calls)
	}
	if n, _ := questions.CountByPair(ctx, "互联网", "后端工程师"); n != 50 {
		t.Errorf("bank count = %d, want 50", n)
	}
}

func TestExecuteShortBatchesExtendLoop(t *testing.T) {
	questions := &fakeQuestionRepo{}
	tasks := newFakeTaskRepo()
	// 7 valid lines per response instead of the 10 requested.
	gw := &scriptedGateway{responses: []string{labelledResponse(7)}}
	g := newTestGenerator(questions, tasks, gw)

	ctx := context.Background()
	task := &domain.GenerationTask{TaskID: "t1", Industry: "金融", Role: "分析师", Status: domain.TaskStatusProcessing, ProgressTarget: 20}
	tasks.CreateIfAbsent(ctx, task)

	g.Execute(ctx, "t1", "金融", "分析师", 20)

	got, _ := tasks.GetByID(ctx, "t1")
	if got.Status != domain.TaskStatusCompleted {
		t.Fatalf("task status = %q, want %q", got.Status, domain.TaskStatusCompleted)
	}
	// 7+7+7 = 21; over-delivery past the target is kept.
	if got.ProgressCurrent != 21 {
		t.Errorf("progress = %d, want 21", got.ProgressCurrent)
	}
	if gw.calls != 3 {
		t.Errorf("gateway calls = %d, want 3", gw.calls)
	}
}

func TestExecuteFailsTaskOnGatewayError(t *testing.T) {
	questions := &fakeQuestionRepo{}
	tasks := newFakeTaskRepo()
	gw := &scriptedGateway{
		responses: []string{labelledResponse(10), ""},
		errs:      []error{nil, errors.New("upstream 502")},
	}
	g := newTestGenerator(questions, tasks, gw)

	ctx := context.Background()
	task := &domain.GenerationTask{TaskID: "t1", Industry: "教育", Role: "讲师", Status: domain.TaskStatusProcessing, ProgressTarget: 30}
	tasks.CreateIfAbsent(ctx, task)

	g.Execute(ctx, "t1", "教育", "讲师", 30)

	got, _ := tasks.GetByID(ctx, "t1")
	if got.Status != domain.TaskStatusFailed {
		t.Fatalf("task status = %q, want %q", got.Status, domain.TaskStatusFailed)
	}
	if got.ErrorMessage != "upstream 502" {
		t.Errorf("error message = %q, want %q", got.ErrorMessage, "upstream 502")
	}
	// The first batch landed before the failure.
	if got.ProgressCurrent != 10 {
		t.Errorf("progress = %d, want 10", got.ProgressCurrent)
	}
}

func TestStartTaskIdempotentPerPair(t *testing.T) {
	questions := &fakeQuestionRepo{}
	tasks := newFakeTaskRepo()
	// Never yields a valid line so the background loop cannot finish during
	// the test and the first task stays in processing.
	gw := &scriptedGateway{responses: []string{"nothing usable"}}
	g := newTestGenerator(questions, tasks, gw)
	ctx := context.Background()

	existing := &domain.GenerationTask{TaskID: "t-existing", Industry: "互联网", Role: "产品经理", Status: domain.TaskStatusProcessing, ProgressTarget: 50}
	tasks.CreateIfAbsent(ctx, existing)

	id, err := g.StartTask(ctx, "互联网", "产品经理")
	if err != nil {
		t.Fatalf("StartTask() error = %v", err)
	}
	if id != "t-existing" {
		t.Errorf("StartTask() = %q, want %q", id, "t-existing")
	}
}

func TestStartTaskRejectsBlankPair(t *testing.T) {
	g := newTestGenerator(&fakeQuestionRepo{}, newFakeTaskRepo(), &scriptedGateway{})
	if _, err := g.StartTask(context.Background(), "  ", "后端工程师"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("StartTask() error = %v, want ErrValidation", err)
	}
	if _, err := g.StartTask(context.Background(), "互联网", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("StartTask() error = %v, want ErrValidation", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	questions := &fakeQuestionRepo{}
	questions.seed("互联网", "后端工程师", 3)
	tasks := newFakeTaskRepo()
	g := newTestGenerator(questions, tasks, &scriptedGateway{})
	ctx := context.Background()

	got, err := g.CheckAvailability(ctx, "互联网", "后端工程师")
	if err != nil {
		t.Fatalf("CheckAvailability() error = %v", err)
	}
	if got.IsAvailable {
		t.Errorf("IsAvailable = true with %d questions, min %d", got.CurrentCount, got.MinRequired)
	}
	if got.CurrentCount != 3 || got.MinRequired != 5 || got.TargetCount != 50 {
		t.Errorf("availability = %+v, want counts 3/5/50", got)
	}
	if got.ActiveTask != nil {
		t.Errorf("ActiveTask = %+v, want nil", got.ActiveTask)
	}

	questions.seed("互联网", "后端工程师", 2)
	task := &domain.GenerationTask{TaskID: "t1", Industry: "互联网", Role: "后端工程师", Status: domain.TaskStatusProcessing, ProgressCurrent: 5, ProgressTarget: 50}
	tasks.CreateIfAbsent(ctx, task)

	got, err = g.CheckAvailability(ctx, "互联网", "后端工程师")
	if err != nil {
		t.Fatalf("CheckAvailability() error = %v", err)
	}
	if !got.IsAvailable {
		t.Errorf("IsAvailable = false with %d questions", got.CurrentCount)
	}
	if got.ActiveTask == nil || got.ActiveTask.TaskID != "t1" || got.ActiveTask.Progress != 5 {
		t.Errorf("ActiveTask = %+v, want t1 at progress 5", got.ActiveTask)
	}
}

func TestTaskStatusNotFound(t *testing.T) {
	g := newTestGenerator(&fakeQuestionRepo{}, newFakeTaskRepo(), &scriptedGateway{})
	if _, err := g.TaskStatus(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("TaskStatus() error = %v, want ErrNotFound", err)
	}
}
