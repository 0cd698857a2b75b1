package model

import "testing"

func TestSummarize_EmptyResultsIsPending(t *testing.T) {
	summary := Summarize("job-1", nil)
	if summary.Status != JobPending {
		t.Fatalf("expected pending, got %q", summary.Status)
	}
	if summary.TotalTasks != 0 || summary.Progress != 0 {
		t.Fatalf("expected zeroed summary, got %+v", summary)
	}
}

func TestSummarize_MixedOutcomes(t *testing.T) {
	results := []Result{
		{Status: StatusSuccess},
		{Status: StatusFailed},
		{Status: StatusSkipped},
	}

	summary := Summarize("job-1", results)
	if summary.Status != JobPartialFailure {
		t.Fatalf("expected partial_failure, got %q", summary.Status)
	}
	if summary.Progress != 1.0 {
		t.Fatalf("expected progress 1.0, got %v", summary.Progress)
	}
	if summary.CompletedTasks != 1 || summary.FailedTasks != 1 || summary.SkippedTasks != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
}

func TestSummarize_AllSuccessIsCompleted(t *testing.T) {
	results := []Result{
		{Status: StatusSuccess},
		{Status: StatusSuccess},
	}

	summary := Summarize("job-1", results)
	if summary.Status != JobCompleted {
		t.Fatalf("expected completed, got %q", summary.Status)
	}
}

func TestSummarize_SkipsCountTowardCompletion(t *testing.T) {
	results := []Result{
		{Status: StatusSuccess},
		{Status: StatusSkipped},
	}

	if got := Summarize("job-1", results).Status; got != JobCompleted {
		t.Fatalf("expected completed, got %q", got)
	}
}

func TestSummarize_StaleProcessingMarkerWins(t *testing.T) {
	results := []Result{
		{Status: StatusSuccess},
		{Status: StatusProcessing},
		{Status: StatusFailed},
	}

	summary := Summarize("job-1", results)
	if summary.Status != JobProcessing {
		t.Fatalf("expected processing, got %q", summary.Status)
	}
	if summary.Progress <= 0.66 || summary.Progress >= 0.67 {
		t.Fatalf("expected progress 2/3, got %v", summary.Progress)
	}
}
