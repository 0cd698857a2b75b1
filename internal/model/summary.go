package model

// Aggregate job statuses derived from a result list.
const (
	JobPending        = "pending"
	JobProcessing     = "processing"
	JobCompleted      = "completed"
	JobPartialFailure = "partial_failure"
)

// JobSummary is the aggregate view of one job's result list.
type JobSummary struct {
	JobID           string  `json:"job_id"`
	Status          string  `json:"status"`
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	FailedTasks     int     `json:"failed_tasks"`
	SkippedTasks    int     `json:"skipped_tasks"`
	ProcessingTasks int     `json:"processing_tasks"`
	Progress        float64 `json:"progress"`

	Resources *ResourceConfig `json:"resources,omitempty"`
}

// Summarize derives the aggregate status of a job from its result list. A
// lingering processing entry is a stale marker from a crashed run and keeps
// the job in processing.
func Summarize(jobID string, results []Result) JobSummary {
	summary := JobSummary{JobID: jobID, Status: JobPending}
	if len(results) == 0 {
		return summary
	}

	summary.TotalTasks = len(results)
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			summary.CompletedTasks++
		case StatusFailed:
			summary.FailedTasks++
		case StatusSkipped:
			summary.SkippedTasks++
		case StatusProcessing:
			summary.ProcessingTasks++
		}
	}

	done := summary.CompletedTasks + summary.FailedTasks + summary.SkippedTasks
	summary.Progress = float64(done) / float64(summary.TotalTasks)

	switch {
	case summary.ProcessingTasks > 0:
		summary.Status = JobProcessing
	case summary.CompletedTasks+summary.SkippedTasks == summary.TotalTasks:
		summary.Status = JobCompleted
	case summary.FailedTasks > 0:
		summary.Status = JobPartialFailure
	default:
		summary.Status = JobPending
	}
	return summary
}
