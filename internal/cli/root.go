package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yt-batch-transcriber/internal/blob"
	"yt-batch-transcriber/internal/config"
	"yt-batch-transcriber/internal/jobstore"
	"yt-batch-transcriber/internal/logging"
)

// app is the shared state every subcommand hangs off: environment config
// and the process logger, both built once in the root PersistentPreRun.
type app struct {
	cfg config.Config
	log *zap.Logger
}

func NewRootCmd(version string) *cobra.Command {
	a := &app{}
	var logLevel string

	root := &cobra.Command{
		Use:   "yt-batch-transcriber",
		Short: "batch video transcription over S3-compatible object storage",
		Long: "yt-batch-transcriber runs batch video transcription jobs: submit a task\n" +
			"list to object storage, then point workers at the job id. Finished work\n" +
			"is never repeated, failed tasks retry on the next run.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}
			a.log = log
			a.cfg = config.FromEnv()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "zap log level (debug, info, warn, error)")

	root.AddCommand(
		newSubmitCmd(a),
		newWorkerCmd(a),
		newStatusCmd(a),
		newListCmd(a),
		newBrowseCmd(a),
		newDoctorCmd(a),
	)
	return root
}

// openJobStore validates the storage config and connects to the bucket.
func (a *app) openJobStore(ctx context.Context) (*jobstore.Store, error) {
	if err := a.cfg.RequireStore(); err != nil {
		return nil, err
	}
	store, err := blob.NewS3Store(ctx, blob.S3Options{
		Bucket:    a.cfg.S3.Bucket,
		Region:    a.cfg.S3.Region,
		Endpoint:  a.cfg.S3.Endpoint,
		AccessKey: a.cfg.S3.AccessKey,
		SecretKey: a.cfg.S3.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to bucket %s: %w", a.cfg.S3.Bucket, err)
	}
	layout := jobstore.NewLayout(a.cfg.S3.Prefix)
	return jobstore.New(store, layout, a.log), nil
}
