package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeFormat = "2006-01-02 15:04:05.999"

// New builds the process logger: console encoding, no sampling, level
// settable by the CLI. The worker logs one structured line per pipeline
// phase transition, so console readability matters more than JSON here.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}
	return cfg.Build()
}
