package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"yt-batch-transcriber/internal/jobstore"
	"yt-batch-transcriber/internal/model"
)

var (
	browseTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	browseMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	browseErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	browsePanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	browseSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

func newBrowseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "interactive job browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stdinIsTTY() {
				return errors.New("browse requires an interactive terminal (TTY)")
			}
			jobs, err := a.openJobStore(cmd.Context())
			if err != nil {
				return err
			}

			sp := spinner.New()
			sp.Spinner = spinner.Dot
			m := browseModel{
				ctx:     cmd.Context(),
				jobs:    jobs,
				spin:    sp,
				loading: true,
			}
			finalModel, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if fm, ok := finalModel.(browseModel); ok {
				return fm.fatalErr
			}
			return nil
		},
	}
	return cmd
}

type browseModel struct {
	ctx  context.Context
	jobs *jobstore.Store

	summaries []model.JobSummary
	results   []model.Result
	resultsOf string

	cursor  int
	width   int
	height  int
	loading bool
	spin    spinner.Model

	statusMessage string
	fatalErr      error
}

type browseJobsMsg struct {
	summaries []model.JobSummary
	err       error
}

type browseResultsMsg struct {
	jobID   string
	results []model.Result
	err     error
}

func (m browseModel) loadJobsCmd() tea.Cmd {
	return func() tea.Msg {
		ids, err := m.jobs.ListJobs(m.ctx)
		if err != nil {
			return browseJobsMsg{err: err}
		}
		summaries, err := fetchSummaries(m.ctx, m.jobs, ids)
		return browseJobsMsg{summaries: summaries, err: err}
	}
}

func (m browseModel) loadResultsCmd(jobID string) tea.Cmd {
	return func() tea.Msg {
		results, err := m.jobs.LoadResults(m.ctx, jobID)
		return browseResultsMsg{jobID: jobID, results: results, err: err}
	}
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadJobsCmd())
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case browseJobsMsg:
		m.loading = false
		if msg.err != nil {
			m.fatalErr = msg.err
			return m, tea.Quit
		}
		m.summaries = msg.summaries
		if m.cursor >= len(m.summaries) {
			m.cursor = 0
		}
		if len(m.summaries) > 0 {
			return m, m.loadResultsCmd(m.summaries[m.cursor].JobID)
		}
		return m, nil

	case browseResultsMsg:
		if msg.err != nil {
			m.statusMessage = browseErrorStyle.Render(msg.err.Error())
			return m, nil
		}
		m.resultsOf = msg.jobID
		m.results = msg.results
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				return m, m.loadResultsCmd(m.summaries[m.cursor].JobID)
			}
		case "down", "j":
			if m.cursor < len(m.summaries)-1 {
				m.cursor++
				return m, m.loadResultsCmd(m.summaries[m.cursor].JobID)
			}
		case "r":
			m.loading = true
			m.statusMessage = ""
			return m, tea.Batch(m.spin.Tick, m.loadJobsCmd())
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	header := browseTitleStyle.Render("yt-batch-transcriber jobs")
	hints := browseMutedStyle.Render("up/down select, r refresh, q quit")

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.spin.View()+" loading jobs...")
	}
	if len(m.summaries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "no jobs found", hints)
	}

	var rows []string
	for i, s := range m.summaries {
		line := fmt.Sprintf("%-38s %-16s %3.0f%%", s.JobID, s.Status, s.Progress*100)
		if i == m.cursor {
			line = browseSelStyle.Render(line)
		}
		rows = append(rows, line)
	}
	list := browsePanelStyle.Render(strings.Join(rows, "\n"))
	detail := browsePanelStyle.Render(m.renderDetail())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, detail)

	parts := []string{header, body, hints}
	if m.statusMessage != "" {
		parts = append(parts, m.statusMessage)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m browseModel) renderDetail() string {
	selected := m.summaries[m.cursor]
	var b strings.Builder
	fmt.Fprintf(&b, "%d tasks: %d success, %d failed, %d skipped\n\n",
		selected.TotalTasks, selected.CompletedTasks, selected.FailedTasks, selected.SkippedTasks)

	if m.resultsOf != selected.JobID {
		b.WriteString(browseMutedStyle.Render("loading results..."))
		return b.String()
	}
	if len(m.results) == 0 {
		b.WriteString(browseMutedStyle.Render("no results yet"))
		return b.String()
	}
	for _, r := range m.results {
		line := fmt.Sprintf("%-12s %-10s %s", r.VideoID, r.Status, r.Channel)
		if r.Status == model.StatusFailed && r.Error != "" {
			line += " " + browseErrorStyle.Render(truncate(r.Error, 40))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
