package media

import (
	"context"
	"fmt"
)

// FFmpeg extracts audio with the fixed output contract the transcription
// engine requires: mono, 16kHz.
type FFmpeg struct{}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{}
}

func (f *FFmpeg) Extract(ctx context.Context, videoPath, audioPath string) error {
	if _, err := runCommand(ctx, "ffmpeg", buildExtractArgs(videoPath, audioPath)...); err != nil {
		return fmt.Errorf("extract audio from %s: %w", videoPath, err)
	}
	return nil
}

func buildExtractArgs(videoPath, audioPath string) []string {
	return []string{
		"-i", videoPath,
		"-ac", "1",
		"-ar", "16000",
		"-y",
		audioPath,
	}
}
