package config

import (
	"testing"

	"yt-batch-transcriber/internal/model"
)

func TestResolveSettings_DefaultsPassThrough(t *testing.T) {
	defaults := Settings{
		WhisperModel:       "whisper-turbo",
		LLMModel:           "llama3",
		MinSegmentSize:     5,
		SpeakerDiarization: true,
		DownloadFormat:     "best",
	}

	resolved := ResolveSettings(defaults, nil, RunOverrides{})
	if resolved != defaults {
		t.Fatalf("expected defaults unchanged, got %+v", resolved)
	}
}

func TestResolveSettings_JobConfigOverridesDefaults(t *testing.T) {
	defaults := Settings{WhisperModel: "whisper-turbo", MinSegmentSize: 5, SpeakerDiarization: true}

	whisper := "whisper-large-v3"
	segSize := 10
	diarization := false
	resolved := ResolveSettings(defaults, &model.TranscriptionConfig{
		WhisperModel:       &whisper,
		MinSegmentSize:     &segSize,
		SpeakerDiarization: &diarization,
	}, RunOverrides{})

	if resolved.WhisperModel != "whisper-large-v3" {
		t.Fatalf("whisper model not overridden: %+v", resolved)
	}
	if resolved.MinSegmentSize != 10 {
		t.Fatalf("min segment size not overridden: %+v", resolved)
	}
	if resolved.SpeakerDiarization {
		t.Fatalf("diarization not overridden: %+v", resolved)
	}
}

func TestResolveSettings_RunFlagsWin(t *testing.T) {
	defaults := Settings{SpeakerDiarization: false, DownloadFormat: "best"}

	jobDiarization := false
	runDiarization := true
	format := "bestaudio"
	resolved := ResolveSettings(defaults,
		&model.TranscriptionConfig{SpeakerDiarization: &jobDiarization},
		RunOverrides{SpeakerDiarization: &runDiarization, DownloadFormat: &format})

	if !resolved.SpeakerDiarization {
		t.Fatalf("run flag must win over job config: %+v", resolved)
	}
	if resolved.DownloadFormat != "bestaudio" {
		t.Fatalf("run format must win: %+v", resolved)
	}
}

func TestRequireWorker(t *testing.T) {
	cfg := Config{}
	if err := cfg.RequireWorker(); err == nil {
		t.Fatalf("expected missing bucket error")
	}

	cfg.S3.Bucket = "transcriber-bucket"
	if err := cfg.RequireWorker(); err == nil {
		t.Fatalf("expected missing job id error")
	}

	cfg.Worker.JobID = "job-1"
	if err := cfg.RequireWorker(); err == nil {
		t.Fatalf("expected missing engine url error")
	}

	cfg.Engine.URL = "http://engine:9000"
	if err := cfg.RequireWorker(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFromEnv_HasDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.S3.Region == "" {
		t.Fatalf("expected default region")
	}
	if cfg.Worker.RetryAttempts != 3 {
		t.Fatalf("expected default retry attempts, got %d", cfg.Worker.RetryAttempts)
	}
	if cfg.Transcription.WhisperModel == "" {
		t.Fatalf("expected default whisper model")
	}
}
