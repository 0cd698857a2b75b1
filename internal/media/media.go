package media

import (
	"context"

	"yt-batch-transcriber/internal/model"
)

// Resolver reports metadata for a video URL. Resolution is best-effort and
// never fails hard: implementations degrade to sentinel values so that
// idempotency keys can always be computed.
type Resolver interface {
	Resolve(ctx context.Context, url string) model.VideoMetadata
}

// Downloader fetches the source media for a URL into a local file.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) error
}

// AudioExtractor produces the normalized audio artifact (mono, 16kHz WAV)
// the transcription engine expects.
type AudioExtractor interface {
	Extract(ctx context.Context, videoPath, audioPath string) error
}
