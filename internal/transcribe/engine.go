package transcribe

import "context"

// Options are the engine parameters after all config layers have been
// resolved. Zero values mean "engine default".
type Options struct {
	WhisperModel       string `json:"whisper_model,omitempty"`
	LLMModel           string `json:"llm_model,omitempty"`
	EmbeddingModel     string `json:"embedding_model,omitempty"`
	MinSegmentSize     int    `json:"min_segment_size,omitempty"`
	SpeakerDiarization bool   `json:"enable_speaker_diarization"`
}

// Request describes one transcription: the normalized audio artifact plus
// the video context the engine uses for prompting.
type Request struct {
	AudioPath   string
	Title       string
	Description string
	Options     Options
}

// Outputs are the two artifacts the engine produces: a human-readable
// markdown transcript and a structured JSON transcript.
type Outputs struct {
	MarkdownPath string
	JSONPath     string
}

// Engine turns audio into transcripts. Engine failures are treated as
// non-transient; the pipeline does not retry them.
type Engine interface {
	Transcribe(ctx context.Context, workDir string, req Request) (Outputs, error)
}
