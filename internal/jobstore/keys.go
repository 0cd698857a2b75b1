package jobstore

import "fmt"

// Layout computes the object keys for one job under the configured prefix:
//
//	{prefix}{jobID}/tasks.json
//	{prefix}{jobID}/config.json
//	{prefix}{jobID}/resources.json
//	{prefix}{jobID}/results.json
//	{prefix}{jobID}/inputs/{channel}/{videoID}/{videoID}.mp4
//	{prefix}{jobID}/outputs/{channel}/{videoID}/{videoID}_transcript.{md,json}
type Layout struct {
	prefix string
}

func NewLayout(prefix string) Layout {
	return Layout{prefix: NormalizePrefix(prefix)}
}

// NormalizePrefix guarantees a trailing slash on non-empty prefixes.
func NormalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	if prefix[len(prefix)-1] != '/' {
		return prefix + "/"
	}
	return prefix
}

func (l Layout) Prefix() string {
	return l.prefix
}

func (l Layout) JobPrefix(jobID string) string {
	return fmt.Sprintf("%s%s/", l.prefix, jobID)
}

func (l Layout) TasksKey(jobID string) string {
	return l.JobPrefix(jobID) + "tasks.json"
}

func (l Layout) ConfigKey(jobID string) string {
	return l.JobPrefix(jobID) + "config.json"
}

func (l Layout) ResourcesKey(jobID string) string {
	return l.JobPrefix(jobID) + "resources.json"
}

func (l Layout) ResultsKey(jobID string) string {
	return l.JobPrefix(jobID) + "results.json"
}

func (l Layout) InputVideoKey(jobID, channel, videoID string) string {
	return fmt.Sprintf("%sinputs/%s/%s/%s.mp4", l.JobPrefix(jobID), channel, videoID, videoID)
}

func (l Layout) OutputMarkdownKey(jobID, channel, videoID string) string {
	return fmt.Sprintf("%soutputs/%s/%s/%s_transcript.md", l.JobPrefix(jobID), channel, videoID, videoID)
}

func (l Layout) OutputJSONKey(jobID, channel, videoID string) string {
	return fmt.Sprintf("%soutputs/%s/%s/%s_transcript.json", l.JobPrefix(jobID), channel, videoID, videoID)
}
