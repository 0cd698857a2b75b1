package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"yt-batch-transcriber/internal/blob"
	"yt-batch-transcriber/internal/jobstore"
	"yt-batch-transcriber/internal/media"
	"yt-batch-transcriber/internal/model"
	"yt-batch-transcriber/internal/retry"
	"yt-batch-transcriber/internal/transcribe"
)

// Deps wires the executor's collaborators.
type Deps struct {
	Blob       blob.Store
	Layout     jobstore.Layout
	Resolver   media.Resolver
	Downloader media.Downloader
	Extractor  media.AudioExtractor
	Engine     transcribe.Engine
	Retry      retry.Policy
	Options    transcribe.Options
	Log        *zap.Logger
}

// Executor drives one task through the four ordered stages: download,
// extract, transcribe, upload. Download and extract retry on transient
// failure; transcription and uploads do not.
type Executor struct {
	blob       blob.Store
	layout     jobstore.Layout
	resolver   media.Resolver
	downloader media.Downloader
	extractor  media.AudioExtractor
	engine     transcribe.Engine
	retry      retry.Policy
	options    transcribe.Options
	log        *zap.Logger

	// mkdirTemp is swappable for workspace failure tests.
	mkdirTemp func(dir, pattern string) (string, error)
}

func NewExecutor(deps Deps) *Executor {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		blob:       deps.Blob,
		layout:     deps.Layout,
		resolver:   deps.Resolver,
		downloader: deps.Downloader,
		extractor:  deps.Extractor,
		engine:     deps.Engine,
		retry:      deps.Retry,
		options:    deps.Options,
		log:        log,
		mkdirTemp:  os.MkdirTemp,
	}
}

// Process runs one task to its terminal status. It never returns an error:
// every failure is isolated into the result so the job keeps going.
func (e *Executor) Process(ctx context.Context, jobID string, task model.Task, prior []model.Result) model.Result {
	result := model.Result{Task: task}

	videoID, err := media.ExtractVideoID(task.URL)
	if err != nil {
		return e.fail(result, err)
	}
	result.VideoID = videoID

	log := e.log.With(zap.String("job_id", jobID), zap.String("video_id", videoID))
	log.Info("processing video", zap.String("title", task.Title))

	// Metadata must resolve (or degrade) before the gate: output keys
	// embed the channel.
	meta := e.resolver.Resolve(ctx, task.URL)
	result.Channel = meta.Channel

	decision, reason := e.evaluate(ctx, jobID, meta.Channel, videoID, prior)
	if decision == DecisionSkip {
		log.Info("skipping video", zap.String("reason", reason))
		result.ProcessedAt = now()
		if err := model.TransitionResultStatus(&result, model.StatusSkipped); err != nil {
			return e.fail(result, err)
		}
		return result
	}

	if err := model.TransitionResultStatus(&result, model.StatusProcessing); err != nil {
		return e.fail(result, err)
	}
	result.ProcessedAt = now()

	if err := e.runStages(ctx, jobID, task, meta.Channel, videoID, log); err != nil {
		return e.fail(result, err)
	}

	log.Info("successfully processed video")
	result.ProcessedAt = now()
	if err := model.TransitionResultStatus(&result, model.StatusSuccess); err != nil {
		return e.fail(result, err)
	}
	return result
}

// runStages executes the four stages inside a scoped workspace. The
// workspace is released on every exit path.
func (e *Executor) runStages(ctx context.Context, jobID string, task model.Task, channel, videoID string, log *zap.Logger) error {
	workDir, err := e.mkdirTemp("", "yt-batch-transcriber-*")
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	videoPath := filepath.Join(workDir, videoID+".mp4")
	audioPath := filepath.Join(workDir, videoID+".wav")

	log.Info("downloading video")
	if err := e.retry.Do(ctx, "download "+videoID, func() error {
		return e.downloader.Download(ctx, task.URL, videoPath)
	}); err != nil {
		return err
	}

	log.Info("archiving source video")
	inputKey := e.layout.InputVideoKey(jobID, channel, videoID)
	if err := e.blob.Upload(ctx, inputKey, videoPath); err != nil {
		return fmt.Errorf("archive source video: %w", err)
	}

	log.Info("extracting audio")
	if err := e.retry.Do(ctx, "extract audio "+videoID, func() error {
		return e.extractor.Extract(ctx, videoPath, audioPath)
	}); err != nil {
		return err
	}

	log.Info("transcribing audio")
	outputs, err := e.engine.Transcribe(ctx, workDir, transcribe.Request{
		AudioPath:   audioPath,
		Title:       task.Title,
		Description: task.Description,
		Options:     e.options,
	})
	if err != nil {
		return fmt.Errorf("transcribe %s: %w", videoID, err)
	}

	log.Info("uploading transcripts")
	// Both uploads are attempted even if the first fails; a partially
	// uploaded output pair is a task failure and is not rolled back.
	mdErr := e.blob.Upload(ctx, e.layout.OutputMarkdownKey(jobID, channel, videoID), outputs.MarkdownPath)
	jsonErr := e.blob.Upload(ctx, e.layout.OutputJSONKey(jobID, channel, videoID), outputs.JSONPath)
	if mdErr != nil {
		return fmt.Errorf("upload markdown transcript: %w", mdErr)
	}
	if jsonErr != nil {
		return fmt.Errorf("upload json transcript: %w", jsonErr)
	}
	return nil
}

func (e *Executor) fail(result model.Result, cause error) model.Result {
	e.log.Error("failed to process video",
		zap.String("video_id", result.VideoID), zap.Error(cause))
	result.Status = model.StatusFailed
	result.ProcessedAt = now()
	result.Error = cause.Error()
	return result
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
