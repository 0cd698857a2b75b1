package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"yt-batch-transcriber/internal/blob"
	"yt-batch-transcriber/internal/jobstore"
	"yt-batch-transcriber/internal/model"
)

// countingProcessor records which videos actually got processed and lets
// tests script per-video outcomes.
type countingProcessor struct {
	layout    jobstore.Layout
	store     *blob.Memory
	failURLs  map[string]bool
	processed []string
	cancel    context.CancelFunc
	cancelAt  int
}

func (p *countingProcessor) Process(ctx context.Context, jobID string, task model.Task, prior []model.Result) model.Result {
	videoID := task.URL[len(task.URL)-11:]
	result := model.Result{Task: task, VideoID: videoID, Channel: "chan", ProcessedAt: "2026-01-02T03:04:05Z"}

	mdKey := p.layout.OutputMarkdownKey(jobID, "chan", videoID)
	jsonKey := p.layout.OutputJSONKey(jobID, "chan", videoID)
	mdExists, _ := p.store.Exists(ctx, mdKey)
	jsonExists, _ := p.store.Exists(ctx, jsonKey)
	if mdExists && jsonExists {
		result.Status = model.StatusSkipped
		return result
	}
	for _, prev := range prior {
		if prev.VideoID == videoID && prev.Status == model.StatusSuccess {
			result.Status = model.StatusSkipped
			return result
		}
	}

	p.processed = append(p.processed, videoID)
	if p.cancel != nil && len(p.processed) == p.cancelAt {
		p.cancel()
	}
	if p.failURLs[task.URL] {
		result.Status = model.StatusFailed
		result.Error = "download failed"
		return result
	}
	_ = p.store.Put(ctx, mdKey, []byte("# t"), "")
	_ = p.store.Put(ctx, jsonKey, []byte("{}"), "")
	result.Status = model.StatusSuccess
	return result
}

func taskURL(i int) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=vid%08d", i)
}

type fixture struct {
	store  *blob.Memory
	jobs   *jobstore.Store
	layout jobstore.Layout
	proc   *countingProcessor
	worker *Worker
}

func newFixture(t *testing.T, taskCount int) *fixture {
	t.Helper()
	store := blob.NewMemory()
	layout := jobstore.NewLayout("jobs/")
	jobs := jobstore.New(store, layout, nil)

	tasks := make([]model.Task, 0, taskCount)
	for i := 0; i < taskCount; i++ {
		tasks = append(tasks, model.Task{URL: taskURL(i)})
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), layout.TasksKey("job-1"), data, "application/json"); err != nil {
		t.Fatal(err)
	}

	proc := &countingProcessor{
		layout:   layout,
		store:    store,
		failURLs: map[string]bool{},
	}
	return &fixture{
		store:  store,
		jobs:   jobs,
		layout: layout,
		proc:   proc,
		worker: New(jobs, proc, nil),
	}
}

func (f *fixture) results(t *testing.T) []model.Result {
	t.Helper()
	results, err := f.jobs.LoadResults(context.Background(), "job-1")
	if err != nil {
		t.Fatal(err)
	}
	return results
}

func TestRunProcessesAllTasks(t *testing.T) {
	f := newFixture(t, 3)

	if err := f.worker.Run(context.Background(), "job-1"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(f.proc.processed) != 3 {
		t.Fatalf("processed %d tasks, want 3", len(f.proc.processed))
	}
	results := f.results(t)
	if len(results) != 3 {
		t.Fatalf("result log has %d entries, want 3", len(results))
	}
	for _, r := range results {
		if r.Status != model.StatusSuccess {
			t.Errorf("video %s status = %q, want success", r.VideoID, r.Status)
		}
	}
}

func TestRunMissingTasksObject(t *testing.T) {
	f := newFixture(t, 0)
	f.store.Delete(f.layout.TasksKey("job-1"))

	err := f.worker.Run(context.Background(), "job-1")
	if !errors.Is(err, jobstore.ErrNoTasks) {
		t.Fatalf("Run error = %v, want ErrNoTasks", err)
	}
}

func TestRunSecondRunDoesNoWork(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	if err := f.worker.Run(ctx, "job-1"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	f.proc.processed = nil

	if err := f.worker.Run(ctx, "job-1"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(f.proc.processed) != 0 {
		t.Fatalf("second run processed %v, want nothing", f.proc.processed)
	}
	for _, r := range f.results(t) {
		if r.Status != model.StatusSkipped {
			t.Errorf("video %s status = %q after rerun, want skipped", r.VideoID, r.Status)
		}
	}
}

func TestRunPartialFailureIsolated(t *testing.T) {
	f := newFixture(t, 3)
	f.proc.failURLs[taskURL(1)] = true

	err := f.worker.Run(context.Background(), "job-1")
	if !errors.Is(err, ErrTasksFailed) {
		t.Fatalf("Run error = %v, want ErrTasksFailed", err)
	}

	results := f.results(t)
	if len(results) != 3 {
		t.Fatalf("result log has %d entries, want 3", len(results))
	}
	want := []string{model.StatusSuccess, model.StatusFailed, model.StatusSuccess}
	for i, r := range results {
		if r.Status != want[i] {
			t.Errorf("task %d status = %q, want %q", i, r.Status, want[i])
		}
	}
	if results[1].Error == "" {
		t.Error("failed result carries no error message")
	}
}

func TestRunRetriesOnlyFailedTasks(t *testing.T) {
	f := newFixture(t, 3)
	f.proc.failURLs[taskURL(1)] = true

	if err := f.worker.Run(context.Background(), "job-1"); !errors.Is(err, ErrTasksFailed) {
		t.Fatalf("first run error = %v, want ErrTasksFailed", err)
	}

	delete(f.proc.failURLs, taskURL(1))
	f.proc.processed = nil

	if err := f.worker.Run(context.Background(), "job-1"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(f.proc.processed) != 1 || f.proc.processed[0] != "vid00000001" {
		t.Fatalf("second run processed %v, want only the failed video", f.proc.processed)
	}
}

func TestRunCheckpointsAfterEveryTask(t *testing.T) {
	f := newFixture(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	f.proc.cancel = cancel
	f.proc.cancelAt = 2

	err := f.worker.Run(ctx, "job-1")
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}

	results := f.results(t)
	if len(results) != 2 {
		t.Fatalf("checkpoint has %d entries after cancellation, want 2", len(results))
	}
}

func TestRunResumesAfterInterruption(t *testing.T) {
	f := newFixture(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	f.proc.cancel = cancel
	f.proc.cancelAt = 2

	if err := f.worker.Run(ctx, "job-1"); err == nil {
		t.Fatal("expected interrupted run to return an error")
	}
	f.proc.processed = nil
	f.proc.cancel = nil

	if err := f.worker.Run(context.Background(), "job-1"); err != nil {
		t.Fatalf("resume run: %v", err)
	}
	if len(f.proc.processed) != 1 || f.proc.processed[0] != "vid00000002" {
		t.Fatalf("resume processed %v, want only the unfinished video", f.proc.processed)
	}
}

func TestRunSurvivesResultLogLoss(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	if err := f.worker.Run(ctx, "job-1"); err != nil {
		t.Fatalf("first run: %v", err)
	}

	f.store.Delete(f.layout.ResultsKey("job-1"))
	f.proc.processed = nil

	if err := f.worker.Run(ctx, "job-1"); err != nil {
		t.Fatalf("rerun after log loss: %v", err)
	}
	if len(f.proc.processed) != 0 {
		t.Fatalf("rerun processed %v, outputs alone should prevent rework", f.proc.processed)
	}
}

func TestRunDuplicateTaskInSameRun(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	tasks := []model.Task{{URL: taskURL(7)}, {URL: taskURL(7)}}
	data, err := json.Marshal(tasks)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.store.Put(ctx, f.layout.TasksKey("job-1"), data, "application/json"); err != nil {
		t.Fatal(err)
	}

	if err := f.worker.Run(ctx, "job-1"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.proc.processed) != 1 {
		t.Fatalf("duplicate URL processed %d times, want 1", len(f.proc.processed))
	}
	results := f.results(t)
	if results[0].Status != model.StatusSuccess || results[1].Status != model.StatusSkipped {
		t.Fatalf("statuses = %q, %q; want success then skipped", results[0].Status, results[1].Status)
	}
}
