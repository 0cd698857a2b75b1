package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Task is one unit of input work: a video URL plus whatever metadata the
// submitter attached. Unknown JSON fields survive a load/store round trip
// via Meta.
type Task struct {
	URL         string
	Title       string
	Description string
	PublishedAt string

	// Meta holds free-form fields carried through to the result untouched.
	Meta map[string]any
}

// Result is the recorded outcome of attempting a Task. It is a superset of
// the task's fields.
type Result struct {
	Task

	VideoID     string
	Channel     string
	Status      string
	ProcessedAt string
	Error       string
}

// VideoMetadata is what the media resolver reports for a URL. Resolution is
// best-effort; unresolvable fields hold sentinel values.
type VideoMetadata struct {
	Channel   string `json:"channel"`
	ChannelID string `json:"channel_id"`
	Duration  int64  `json:"duration"`
	ViewCount int64  `json:"view_count"`
}

// UnknownChannel is the sentinel used when metadata resolution fails.
const UnknownChannel = "unknown"

// TranscriptionConfig carries optional per-job overrides for the
// transcription engine. Nil fields mean "no override".
type TranscriptionConfig struct {
	WhisperModel       *string `json:"whisper_model,omitempty"`
	LLMModel           *string `json:"llm_model,omitempty"`
	EmbeddingModel     *string `json:"embedding_model,omitempty"`
	MinSegmentSize     *int    `json:"min_segment_size,omitempty"`
	SpeakerDiarization *bool   `json:"speaker_diarization,omitempty"`
	DownloadFormat     *string `json:"yt_dlp_format,omitempty"`
}

// ResourceConfig carries compute sizing hints for a job. The worker treats it
// as read-only metadata.
type ResourceConfig struct {
	CPU      int `json:"cpu,omitempty"`
	MemoryMB int `json:"memory_mb,omitempty"`
	GPUCount int `json:"gpu_count,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.URL) == "" {
		return fmt.Errorf("task is missing required field %q", "url")
	}
	return nil
}

const (
	taskFieldURL         = "url"
	taskFieldTitle       = "title"
	taskFieldDescription = "description"
	taskFieldPublishedAt = "published_at"

	resultFieldVideoID     = "video_id"
	resultFieldChannel     = "channel"
	resultFieldStatus      = "status"
	resultFieldProcessedAt = "processed_at"
	resultFieldError       = "error"
)

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.asMap())
}

func (t *Task) UnmarshalJSON(data []byte) error {
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	t.fromMap(fields)
	return nil
}

func (t Task) asMap() map[string]any {
	out := make(map[string]any, len(t.Meta)+4)
	for k, v := range t.Meta {
		out[k] = v
	}
	out[taskFieldURL] = t.URL
	if t.Title != "" {
		out[taskFieldTitle] = t.Title
	}
	if t.Description != "" {
		out[taskFieldDescription] = t.Description
	}
	if t.PublishedAt != "" {
		out[taskFieldPublishedAt] = t.PublishedAt
	}
	return out
}

func (t *Task) fromMap(fields map[string]any) {
	t.URL = popString(fields, taskFieldURL)
	t.Title = popString(fields, taskFieldTitle)
	t.Description = popString(fields, taskFieldDescription)
	t.PublishedAt = popString(fields, taskFieldPublishedAt)
	if len(fields) > 0 {
		t.Meta = fields
	} else {
		t.Meta = nil
	}
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := r.Task.asMap()
	out[resultFieldVideoID] = r.VideoID
	out[resultFieldStatus] = r.Status
	out[resultFieldProcessedAt] = r.ProcessedAt
	if r.Channel != "" {
		out[resultFieldChannel] = r.Channel
	}
	if r.Error != "" {
		out[resultFieldError] = r.Error
	}
	return json.Marshal(out)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.VideoID = popString(fields, resultFieldVideoID)
	r.Channel = popString(fields, resultFieldChannel)
	r.Status = popString(fields, resultFieldStatus)
	r.ProcessedAt = popString(fields, resultFieldProcessedAt)
	r.Error = popString(fields, resultFieldError)
	r.Task.fromMap(fields)
	return nil
}

func popString(fields map[string]any, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	delete(fields, key)
	s, _ := raw.(string)
	return s
}
