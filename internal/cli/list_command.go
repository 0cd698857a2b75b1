package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"yt-batch-transcriber/internal/jobstore"
	"yt-batch-transcriber/internal/model"
)

func newListCmd(a *app) *cobra.Command {
	var (
		statusFilter string
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list jobs in the bucket with their aggregate status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := a.openJobStore(cmd.Context())
			if err != nil {
				return err
			}
			ids, err := jobs.ListJobs(cmd.Context())
			if err != nil {
				return err
			}

			summaries, err := fetchSummaries(cmd.Context(), jobs, ids)
			if err != nil {
				return err
			}
			if statusFilter != "" {
				filtered := summaries[:0]
				for _, s := range summaries {
					if s.Status == statusFilter {
						filtered = append(filtered, s)
					}
				}
				summaries = filtered
			}

			if jsonOut {
				return printJSON(summaries)
			}
			if len(summaries) == 0 {
				fmt.Println("no jobs found")
				return nil
			}
			for _, s := range summaries {
				fmt.Printf("%-38s %-16s %3.0f%%  %d/%d tasks, %d failed\n",
					s.JobID, renderJobStatus(s.Status), s.Progress*100,
					s.CompletedTasks+s.SkippedTasks, s.TotalTasks, s.FailedTasks)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "only show jobs with this status (pending, processing, completed, partial_failure)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON output")
	return cmd
}

// fetchSummaries loads job summaries concurrently. Each summary costs a few
// object reads and buckets accumulate jobs, so serial fetching gets slow.
func fetchSummaries(ctx context.Context, jobs *jobstore.Store, ids []string) ([]model.JobSummary, error) {
	summaries := make([]model.JobSummary, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			summary, err := jobs.Status(ctx, id)
			if err != nil {
				return fmt.Errorf("status of job %s: %w", id, err)
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].JobID < summaries[j].JobID })
	return summaries, nil
}
