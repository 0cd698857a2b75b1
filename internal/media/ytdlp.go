package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"yt-batch-transcriber/internal/model"
)

// YTDLP runs yt-dlp for metadata resolution and video download.
type YTDLP struct {
	// Format is the yt-dlp format selector for downloads. Empty means "best".
	Format string

	log *zap.Logger
}

func NewYTDLP(format string, log *zap.Logger) *YTDLP {
	if log == nil {
		log = zap.NewNop()
	}
	return &YTDLP{Format: format, log: log}
}

// ytdlpInfo is the slice of yt-dlp's -J output the resolver cares about.
type ytdlpInfo struct {
	Uploader   string `json:"uploader"`
	UploaderID string `json:"uploader_id"`
	Duration   int64  `json:"duration"`
	ViewCount  int64  `json:"view_count"`
}

// Resolve fetches video metadata without downloading. Failures degrade to
// sentinel values: a task must still be processable when metadata is
// unavailable.
func (y *YTDLP) Resolve(ctx context.Context, url string) model.VideoMetadata {
	fallback := model.VideoMetadata{
		Channel:   model.UnknownChannel,
		ChannelID: model.UnknownChannel,
	}

	out, err := runCommand(ctx, "yt-dlp", buildResolveArgs(url)...)
	if err != nil {
		y.log.Warn("could not resolve video metadata",
			zap.String("url", url), zap.Error(err))
		return fallback
	}

	var info ytdlpInfo
	if err := json.Unmarshal(out, &info); err != nil {
		y.log.Warn("could not parse video metadata",
			zap.String("url", url), zap.Error(err))
		return fallback
	}

	meta := model.VideoMetadata{
		Channel:   info.Uploader,
		ChannelID: info.UploaderID,
		Duration:  info.Duration,
		ViewCount: info.ViewCount,
	}
	if strings.TrimSpace(meta.Channel) == "" {
		meta.Channel = model.UnknownChannel
	}
	if strings.TrimSpace(meta.ChannelID) == "" {
		meta.ChannelID = model.UnknownChannel
	}
	return meta
}

// Download fetches the source media to destPath.
func (y *YTDLP) Download(ctx context.Context, url, destPath string) error {
	if _, err := runCommand(ctx, "yt-dlp", buildDownloadArgs(url, destPath, y.Format)...); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	return nil
}

func buildResolveArgs(url string) []string {
	return []string{
		"--no-playlist",
		"--no-warnings",
		"--skip-download",
		"-J",
		url,
	}
}

func buildDownloadArgs(url, destPath, format string) []string {
	if strings.TrimSpace(format) == "" {
		format = "best"
	}
	return []string{
		"--no-playlist",
		"--no-warnings",
		"-f", format,
		"-o", destPath,
		url,
	}
}

// runCommand executes one external command and returns stdout. On failure
// the error carries the tail of stderr, which is where yt-dlp and ffmpeg
// put their diagnostics.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w (%s)", name, err, stderrTail(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func stderrTail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return "no stderr output"
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
