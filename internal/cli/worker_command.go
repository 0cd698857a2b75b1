package cli

import (
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yt-batch-transcriber/internal/config"
	"yt-batch-transcriber/internal/media"
	"yt-batch-transcriber/internal/pipeline"
	"yt-batch-transcriber/internal/retry"
	"yt-batch-transcriber/internal/transcribe"
	"yt-batch-transcriber/internal/worker"
)

func newWorkerCmd(a *app) *cobra.Command {
	var (
		jobID         string
		diarization   bool
		downloadFmt   string
		retryAttempts int
		retryDelay    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "process every task of a job",
		Args:  cobra.NoArgs,
		Long: "worker drains one job: download each video, extract audio, transcribe,\n" +
			"and upload the artifacts. Progress is checkpointed after every task, so\n" +
			"an interrupted worker resumes where it stopped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobID != "" {
				a.cfg.Worker.JobID = jobID
			}
			if cmd.Flags().Changed("retry-attempts") {
				a.cfg.Worker.RetryAttempts = retryAttempts
			}
			if cmd.Flags().Changed("retry-delay") {
				a.cfg.Worker.RetryDelay = retryDelay
			}
			if err := a.cfg.RequireWorker(); err != nil {
				return err
			}
			if err := media.CheckDependencies(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			jobs, err := a.openJobStore(ctx)
			if err != nil {
				return err
			}
			job := a.cfg.Worker.JobID

			jobCfg, err := jobs.LoadTranscriptionConfig(ctx, job)
			if err != nil {
				return err
			}
			overrides := config.RunOverrides{}
			if cmd.Flags().Changed("speaker-diarization") {
				overrides.SpeakerDiarization = &diarization
			}
			if cmd.Flags().Changed("yt-dlp-format") {
				overrides.DownloadFormat = &downloadFmt
			}
			settings := config.ResolveSettings(a.cfg.Transcription, jobCfg, overrides)
			a.log.Info("resolved transcription settings",
				zap.String("whisper_model", settings.WhisperModel),
				zap.String("yt_dlp_format", settings.DownloadFormat),
				zap.Bool("speaker_diarization", settings.SpeakerDiarization))

			engine, err := transcribe.NewClient(transcribe.ClientOptions{
				BaseURL: a.cfg.Engine.URL,
				APIKey:  a.cfg.Engine.APIKey,
				Timeout: a.cfg.Engine.Timeout,
			}, a.log)
			if err != nil {
				return err
			}

			ytdlp := media.NewYTDLP(settings.DownloadFormat, a.log)
			exec := pipeline.NewExecutor(pipeline.Deps{
				Blob:       jobs.Blob(),
				Layout:     jobs.Layout(),
				Resolver:   ytdlp,
				Downloader: ytdlp,
				Extractor:  media.NewFFmpeg(),
				Engine:     engine,
				Retry: retry.Policy{
					Attempts: a.cfg.Worker.RetryAttempts,
					Delay:    a.cfg.Worker.RetryDelay,
				},
				Options: transcribe.Options{
					WhisperModel:       settings.WhisperModel,
					LLMModel:           settings.LLMModel,
					EmbeddingModel:     settings.EmbeddingModel,
					MinSegmentSize:     settings.MinSegmentSize,
					SpeakerDiarization: settings.SpeakerDiarization,
				},
				Log: a.log,
			})

			err = worker.New(jobs, exec, a.log).Run(ctx, job)
			if errors.Is(err, worker.ErrTasksFailed) {
				a.log.Warn("run finished with failed tasks", zap.String("job_id", job))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "job to process (defaults to S3_JOB_ID)")
	cmd.Flags().BoolVar(&diarization, "speaker-diarization", true, "force speaker diarization on or off for this run")
	cmd.Flags().StringVar(&downloadFmt, "yt-dlp-format", "", "force a yt-dlp format selector for this run")
	cmd.Flags().IntVar(&retryAttempts, "retry-attempts", retry.Default.Attempts, "attempts per retryable stage")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", retry.Default.Delay, "delay between retry attempts")
	return cmd
}
