package worker

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"yt-batch-transcriber/internal/jobstore"
	"yt-batch-transcriber/internal/model"
)

// ErrTasksFailed reports that the run completed but at least one task ended
// failed. Callers map it to a non-zero exit.
var ErrTasksFailed = errors.New("worker: one or more tasks failed")

// TaskProcessor runs a single task to a terminal status. Failures are
// folded into the result, never returned.
type TaskProcessor interface {
	Process(ctx context.Context, jobID string, task model.Task, prior []model.Result) model.Result
}

// Worker drains one job's task list sequentially, checkpointing the result
// log after every task so an interrupted run can resume without repeating
// finished work.
type Worker struct {
	jobs *jobstore.Store
	proc TaskProcessor
	log  *zap.Logger
}

func New(jobs *jobstore.Store, proc TaskProcessor, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{jobs: jobs, proc: proc, log: log}
}

// Run processes every task of jobID. Prior results feed the idempotency
// gate; the result log written back is a full snapshot of this run.
func (w *Worker) Run(ctx context.Context, jobID string) error {
	log := w.log.With(zap.String("job_id", jobID))

	tasks, err := w.jobs.LoadTasks(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load tasks for job %s: %w", jobID, err)
	}
	prior, err := w.jobs.LoadResults(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load results for job %s: %w", jobID, err)
	}

	log.Info("starting job run",
		zap.Int("tasks", len(tasks)), zap.Int("prior_results", len(prior)))

	results := make([]model.Result, 0, len(tasks))
	var interrupted error
	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			log.Warn("run interrupted", zap.Int("remaining", len(tasks)-i))
			interrupted = err
			break
		}

		// Results accumulated this run join the prior log in the gate,
		// so a duplicate URL later in the same task list skips too.
		seen := append(append([]model.Result(nil), prior...), results...)
		result := w.proc.Process(ctx, jobID, task, seen)
		results = append(results, result)

		if err := w.checkpoint(ctx, jobID, results); err != nil {
			return err
		}
	}

	summary := model.Summarize(jobID, results)
	log.Info("job run finished",
		zap.String("status", summary.Status),
		zap.Int("success", summary.CompletedTasks),
		zap.Int("failed", summary.FailedTasks),
		zap.Int("skipped", summary.SkippedTasks))

	if interrupted != nil {
		return fmt.Errorf("job %s interrupted: %w", jobID, interrupted)
	}
	if summary.FailedTasks > 0 {
		return fmt.Errorf("job %s: %w", jobID, ErrTasksFailed)
	}
	return nil
}

// checkpoint persists the full result snapshot. It must land even when the
// run is being cancelled, so the save ignores the caller's cancellation.
func (w *Worker) checkpoint(ctx context.Context, jobID string, results []model.Result) error {
	if err := w.jobs.SaveResults(context.WithoutCancel(ctx), jobID, results); err != nil {
		return fmt.Errorf("checkpoint results for job %s: %w", jobID, err)
	}
	return nil
}
