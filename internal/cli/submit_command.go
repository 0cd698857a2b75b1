package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yt-batch-transcriber/internal/jobstore"
	"yt-batch-transcriber/internal/model"
)

func newSubmitCmd(a *app) *cobra.Command {
	var (
		jobID         string
		configPath    string
		resourcesPath string
		jsonOut       bool
	)

	cmd := &cobra.Command{
		Use:   "submit <tasks.json>",
		Short: "upload a task list and create a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := readTasksFile(args[0])
			if err != nil {
				return err
			}

			opts := jobstore.SubmitOptions{JobID: jobID}
			if configPath != "" {
				cfg := &model.TranscriptionConfig{}
				if err := readJSONFile(configPath, cfg); err != nil {
					return err
				}
				opts.TranscriptionConfig = cfg
			}
			if resourcesPath != "" {
				res := &model.ResourceConfig{}
				if err := readJSONFile(resourcesPath, res); err != nil {
					return err
				}
				opts.Resources = res
			}

			jobs, err := a.openJobStore(cmd.Context())
			if err != nil {
				return err
			}
			id, err := jobs.Submit(cmd.Context(), tasks, opts)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(map[string]any{"job_id": id, "tasks": len(tasks)})
			}
			fmt.Printf("job %s created with %d task(s)\n", id, len(tasks))
			fmt.Printf("next: yt-batch-transcriber worker --job-id %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "job id (generated when omitted)")
	cmd.Flags().StringVar(&configPath, "config", "", "job-level transcription config JSON file")
	cmd.Flags().StringVar(&resourcesPath, "resources", "", "resource requirements JSON file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON output")
	return cmd
}

func readTasksFile(path string) ([]model.Task, error) {
	var tasks []model.Task
	if err := readJSONFile(path, &tasks); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%s contains no tasks", path)
	}
	return tasks, nil
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
