package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"yt-batch-transcriber/internal/blob"
	"yt-batch-transcriber/internal/model"
)

// ErrNoTasks reports a job without a tasks object. Tasks are the one
// mandatory job input, so this is a configuration error, not an empty job.
var ErrNoTasks = errors.New("jobstore: job has no tasks object")

const jsonContentType = "application/json"

// Store reads and writes a job's task list, result list, and optional
// configs through the blob gateway. Result saves are always full snapshots;
// readers never observe a partial append.
type Store struct {
	blob   blob.Store
	layout Layout
	log    *zap.Logger
}

func New(store blob.Store, layout Layout, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{blob: store, layout: layout, log: log}
}

func (s *Store) Layout() Layout {
	return s.layout
}

// Blob exposes the underlying object store for components that address
// objects outside the job metadata set, like the pipeline's artifacts.
func (s *Store) Blob() blob.Store {
	return s.blob
}

func (s *Store) LoadTasks(ctx context.Context, jobID string) ([]model.Task, error) {
	key := s.layout.TasksKey(jobID)
	data, err := s.blob.Get(ctx, key)
	if err != nil {
		if blob.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoTasks, key)
		}
		return nil, err
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	s.log.Info("loaded tasks", zap.String("job_id", jobID), zap.Int("count", len(tasks)))
	return tasks, nil
}

// LoadResults returns the job's checkpointed results. A first run has none;
// absence yields an empty list.
func (s *Store) LoadResults(ctx context.Context, jobID string) ([]model.Result, error) {
	key := s.layout.ResultsKey(jobID)
	data, err := s.blob.Get(ctx, key)
	if err != nil {
		if blob.IsNotFound(err) {
			s.log.Info("no existing results, starting fresh", zap.String("job_id", jobID))
			return nil, nil
		}
		return nil, err
	}

	var results []model.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	s.log.Info("loaded existing results", zap.String("job_id", jobID), zap.Int("count", len(results)))
	return results, nil
}

// SaveResults overwrites the results object wholesale. This is the crash
// recovery checkpoint; it runs after every task.
func (s *Store) SaveResults(ctx context.Context, jobID string, results []model.Result) error {
	if results == nil {
		results = []model.Result{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results for job %s: %w", jobID, err)
	}
	return s.blob.Put(ctx, s.layout.ResultsKey(jobID), data, jsonContentType)
}

// LoadTranscriptionConfig returns the job's optional engine overrides, nil
// when the job carries none.
func (s *Store) LoadTranscriptionConfig(ctx context.Context, jobID string) (*model.TranscriptionConfig, error) {
	var cfg model.TranscriptionConfig
	ok, err := s.loadOptional(ctx, s.layout.ConfigKey(jobID), &cfg)
	if err != nil || !ok {
		return nil, err
	}
	s.log.Info("loaded transcription config", zap.String("job_id", jobID))
	return &cfg, nil
}

// LoadResourceConfig returns the job's optional compute sizing hints, nil
// when absent.
func (s *Store) LoadResourceConfig(ctx context.Context, jobID string) (*model.ResourceConfig, error) {
	var cfg model.ResourceConfig
	ok, err := s.loadOptional(ctx, s.layout.ResourcesKey(jobID), &cfg)
	if err != nil || !ok {
		return nil, err
	}
	return &cfg, nil
}

func (s *Store) loadOptional(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.blob.Get(ctx, key)
	if err != nil {
		if blob.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return true, nil
}

// SubmitOptions carries the optional attachments for a new job.
type SubmitOptions struct {
	JobID               string
	TranscriptionConfig *model.TranscriptionConfig
	Resources           *model.ResourceConfig
}

// Submit validates and uploads a task list, creating the job. Returns the
// job id, generated when the caller supplied none.
func (s *Store) Submit(ctx context.Context, tasks []model.Task, opts SubmitOptions) (string, error) {
	if len(tasks) == 0 {
		return "", fmt.Errorf("at least one task is required")
	}
	for i, task := range tasks {
		if err := task.Validate(); err != nil {
			return "", fmt.Errorf("task %d: %w", i, err)
		}
	}

	jobID := strings.TrimSpace(opts.JobID)
	if jobID == "" {
		jobID = uuid.NewString()
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.blob.Put(ctx, s.layout.TasksKey(jobID), data, jsonContentType); err != nil {
		return "", err
	}

	if opts.TranscriptionConfig != nil {
		cfgData, err := json.MarshalIndent(opts.TranscriptionConfig, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode transcription config: %w", err)
		}
		if err := s.blob.Put(ctx, s.layout.ConfigKey(jobID), cfgData, jsonContentType); err != nil {
			return "", err
		}
	}
	if opts.Resources != nil {
		resData, err := json.MarshalIndent(opts.Resources, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode resource config: %w", err)
		}
		if err := s.blob.Put(ctx, s.layout.ResourcesKey(jobID), resData, jsonContentType); err != nil {
			return "", err
		}
	}

	s.log.Info("submitted job",
		zap.String("job_id", jobID),
		zap.Int("tasks", len(tasks)),
		zap.Bool("with_config", opts.TranscriptionConfig != nil),
		zap.Bool("with_resources", opts.Resources != nil))
	return jobID, nil
}

// ListJobs enumerates job ids under the configured prefix.
func (s *Store) ListJobs(ctx context.Context) ([]string, error) {
	return s.blob.ListPrefixes(ctx, s.layout.Prefix())
}

// Status derives the aggregate status of a job from its checkpointed
// results, attaching the resource config when present.
func (s *Store) Status(ctx context.Context, jobID string) (model.JobSummary, error) {
	results, err := s.LoadResults(ctx, jobID)
	if err != nil {
		return model.JobSummary{}, err
	}
	summary := model.Summarize(jobID, results)

	resources, err := s.LoadResourceConfig(ctx, jobID)
	if err != nil {
		return model.JobSummary{}, err
	}
	summary.Resources = resources
	return summary, nil
}
