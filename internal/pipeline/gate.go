package pipeline

import (
	"context"

	"go.uber.org/zap"

	"yt-batch-transcriber/internal/model"
)

// Decision is the idempotency gate's verdict for one task.
type Decision int

const (
	DecisionRun Decision = iota
	DecisionSkip
)

// evaluate decides whether a task's work has already been done. Two
// independent sources answer: the output store (survives result-log loss)
// and the result log (survives output-store loss). Either one is enough to
// skip; the expensive work never repeats while at least one is intact.
//
// The channel must already be resolved before this runs, since output keys
// embed it.
func (e *Executor) evaluate(ctx context.Context, jobID, channel, videoID string, prior []model.Result) (Decision, string) {
	mdKey := e.layout.OutputMarkdownKey(jobID, channel, videoID)
	jsonKey := e.layout.OutputJSONKey(jobID, channel, videoID)

	mdExists := e.outputExists(ctx, mdKey)
	jsonExists := e.outputExists(ctx, jsonKey)
	if mdExists && jsonExists {
		return DecisionSkip, "outputs already exist"
	}

	for _, prev := range prior {
		if prev.VideoID == videoID && prev.Status == model.StatusSuccess {
			return DecisionSkip, "already processed successfully"
		}
	}
	return DecisionRun, ""
}

// outputExists is a best-effort probe. A backend error here must not fail
// the task: the result-log check still guards against duplicate work, and
// running a task twice is safe, just wasteful.
func (e *Executor) outputExists(ctx context.Context, key string) bool {
	exists, err := e.blob.Exists(ctx, key)
	if err != nil {
		e.log.Warn("could not check output existence", zap.String("key", key), zap.Error(err))
		return false
	}
	return exists
}
