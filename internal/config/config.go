package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration, built once at startup from the
// environment and passed by reference into every component. No component
// reads the environment directly.
type Config struct {
	S3     S3Config
	Engine EngineConfig
	Worker WorkerConfig

	// Transcription holds the environment-level engine defaults. Job-level
	// config and per-run flags layer on top via ResolveSettings.
	Transcription Settings
}

type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type EngineConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type WorkerConfig struct {
	JobID         string
	RetryAttempts int
	RetryDelay    time.Duration
}

// Settings are fully resolved transcription parameters; see ResolveSettings
// for the layering order.
type Settings struct {
	WhisperModel       string
	LLMModel           string
	EmbeddingModel     string
	MinSegmentSize     int
	SpeakerDiarization bool
	DownloadFormat     string
}

// FromEnv reads the environment layer. It never fails on missing values;
// each command validates the subset it needs (RequireStore, RequireWorker).
func FromEnv() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("ENGINE_TIMEOUT", "30m")
	v.SetDefault("WHISPER_MODEL", "whisper-turbo")
	v.SetDefault("LLM_MODEL", "llama3")
	v.SetDefault("EMBEDDING_MODEL", "nomic-embed-text")
	v.SetDefault("MIN_SEGMENT_SIZE", 5)
	v.SetDefault("SPEAKER_DIARIZATION", true)
	v.SetDefault("YT_DLP_FORMAT", "best")
	v.SetDefault("RETRY_ATTEMPTS", 3)
	v.SetDefault("RETRY_DELAY", "2s")

	return Config{
		S3: S3Config{
			Bucket:    v.GetString("S3_TRANSCRIBER_BUCKET"),
			Prefix:    v.GetString("S3_TRANSCRIBER_PREFIX"),
			Region:    v.GetString("AWS_REGION"),
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
		},
		Engine: EngineConfig{
			URL:     v.GetString("ENGINE_URL"),
			APIKey:  v.GetString("ENGINE_API_KEY"),
			Timeout: v.GetDuration("ENGINE_TIMEOUT"),
		},
		Worker: WorkerConfig{
			JobID:         v.GetString("S3_JOB_ID"),
			RetryAttempts: v.GetInt("RETRY_ATTEMPTS"),
			RetryDelay:    v.GetDuration("RETRY_DELAY"),
		},
		Transcription: Settings{
			WhisperModel:       v.GetString("WHISPER_MODEL"),
			LLMModel:           v.GetString("LLM_MODEL"),
			EmbeddingModel:     v.GetString("EMBEDDING_MODEL"),
			MinSegmentSize:     v.GetInt("MIN_SEGMENT_SIZE"),
			SpeakerDiarization: v.GetBool("SPEAKER_DIARIZATION"),
			DownloadFormat:     v.GetString("YT_DLP_FORMAT"),
		},
	}
}

// RequireStore validates the subset needed to reach the job store.
func (c Config) RequireStore() error {
	if strings.TrimSpace(c.S3.Bucket) == "" {
		return fmt.Errorf("S3_TRANSCRIBER_BUCKET is required")
	}
	return nil
}

// RequireWorker validates everything the batch worker needs before any task
// processing starts.
func (c Config) RequireWorker() error {
	if err := c.RequireStore(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Worker.JobID) == "" {
		return fmt.Errorf("job id is required (flag --job-id or S3_JOB_ID)")
	}
	if strings.TrimSpace(c.Engine.URL) == "" {
		return fmt.Errorf("ENGINE_URL is required")
	}
	return nil
}
