package model

import "fmt"

// Per-task result statuses. A task enters processing when the pipeline picks
// it up, and ends in exactly one terminal status per run.
const (
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
	StatusSkipped    = "skipped"
)

var allowedTransitions = map[string]map[string]bool{
	"": {
		StatusProcessing: true,
		StatusSkipped:    true,
	},
	StatusProcessing: {
		StatusSuccess: true,
		StatusFailed:  true,
	},
	// success is terminal: a later run must never re-execute the task.
	StatusSuccess: {},
	// failed is not terminal across runs, but within one run the result is final.
	StatusFailed:  {},
	StatusSkipped: {},
}

func IsKnownStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok && status != ""
}

func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func TransitionResultStatus(result *Result, toStatus string) error {
	from := result.Status
	if !CanTransition(from, toStatus) {
		return fmt.Errorf("invalid result status transition: %q -> %q (video_id=%s)", from, toStatus, result.VideoID)
	}
	result.Status = toStatus
	return nil
}
