package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"yt-batch-transcriber/internal/model"
)

var (
	statusTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	statusWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	statusErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

func newStatusCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "aggregate progress of one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := a.openJobStore(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := jobs.Status(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(summary)
			}
			fmt.Println(renderSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON output")
	return cmd
}

func renderSummary(s model.JobSummary) string {
	var b strings.Builder
	b.WriteString(statusTitleStyle.Render("job "+s.JobID) + "\n")
	b.WriteString(fmt.Sprintf("status:   %s\n", renderJobStatus(s.Status)))
	b.WriteString(fmt.Sprintf("progress: %.0f%% (%d/%d)\n", s.Progress*100, s.CompletedTasks+s.SkippedTasks, s.TotalTasks))
	b.WriteString(fmt.Sprintf("tasks:    %d success, %d failed, %d skipped", s.CompletedTasks, s.FailedTasks, s.SkippedTasks))
	if s.ProcessingTasks > 0 {
		b.WriteString(fmt.Sprintf(", %d processing", s.ProcessingTasks))
	}
	if s.Resources != nil {
		b.WriteString("\n")
		b.WriteString(statusMutedStyle.Render(fmt.Sprintf("resources: %d cpu, %d MB, %d gpu",
			s.Resources.CPU, s.Resources.MemoryMB, s.Resources.GPUCount)))
	}
	return b.String()
}

func renderJobStatus(status string) string {
	switch status {
	case model.JobCompleted:
		return statusOKStyle.Render(status)
	case model.JobPartialFailure:
		return statusErrStyle.Render(status)
	case model.JobProcessing:
		return statusWarnStyle.Render(status)
	default:
		return statusMutedStyle.Render(status)
	}
}
