package config

import "yt-batch-transcriber/internal/model"

// RunOverrides are the per-run knobs the operator may force from the command
// line. Nil fields leave the lower layers in effect.
type RunOverrides struct {
	SpeakerDiarization *bool
	DownloadFormat     *string
}

// ResolveSettings layers the job-level config and per-run overrides over the
// environment defaults. Precedence, lowest to highest: env defaults,
// job config.json, run flags. The result is resolved once, before any
// component consumes it.
func ResolveSettings(defaults Settings, jobCfg *model.TranscriptionConfig, run RunOverrides) Settings {
	resolved := defaults

	if jobCfg != nil {
		if jobCfg.WhisperModel != nil {
			resolved.WhisperModel = *jobCfg.WhisperModel
		}
		if jobCfg.LLMModel != nil {
			resolved.LLMModel = *jobCfg.LLMModel
		}
		if jobCfg.EmbeddingModel != nil {
			resolved.EmbeddingModel = *jobCfg.EmbeddingModel
		}
		if jobCfg.MinSegmentSize != nil {
			resolved.MinSegmentSize = *jobCfg.MinSegmentSize
		}
		if jobCfg.SpeakerDiarization != nil {
			resolved.SpeakerDiarization = *jobCfg.SpeakerDiarization
		}
		if jobCfg.DownloadFormat != nil {
			resolved.DownloadFormat = *jobCfg.DownloadFormat
		}
	}

	if run.SpeakerDiarization != nil {
		resolved.SpeakerDiarization = *run.SpeakerDiarization
	}
	if run.DownloadFormat != nil {
		resolved.DownloadFormat = *run.DownloadFormat
	}
	return resolved
}
