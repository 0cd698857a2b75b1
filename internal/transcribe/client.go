package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the multi-step transcription service over HTTP. The
// service does the heavy lifting (whisper, diarization, LLM segmentation);
// this client uploads audio and materializes the returned transcripts as
// local files.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

type ClientOptions struct {
	BaseURL string
	APIKey  string
	// Timeout bounds one whole transcription round trip. Transcription of
	// long videos is slow; this is typically tens of minutes.
	Timeout time.Duration
}

func NewClient(opts ClientOptions, log *zap.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("transcription engine URL is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		apiKey:  opts.APIKey,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

// transcribeResponse is the engine's reply: the markdown transcript inline
// and the structured transcript as raw JSON.
type transcribeResponse struct {
	Markdown   string          `json:"markdown"`
	Transcript json.RawMessage `json:"transcript"`
}

func (c *Client) Transcribe(ctx context.Context, workDir string, req Request) (Outputs, error) {
	body, contentType, err := encodeTranscribeRequest(req)
	if err != nil {
		return Outputs{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/transcribe", body)
	if err != nil {
		return Outputs{}, fmt.Errorf("build transcribe request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Outputs{}, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Outputs{}, fmt.Errorf("transcription engine returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var payload transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Outputs{}, fmt.Errorf("decode transcription response: %w", err)
	}
	if payload.Markdown == "" || len(payload.Transcript) == 0 {
		return Outputs{}, fmt.Errorf("transcription engine returned incomplete outputs")
	}

	base := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	outputs := Outputs{
		MarkdownPath: filepath.Join(workDir, base+"_transcript.md"),
		JSONPath:     filepath.Join(workDir, base+"_transcript.json"),
	}
	if err := os.WriteFile(outputs.MarkdownPath, []byte(payload.Markdown), 0o644); err != nil {
		return Outputs{}, fmt.Errorf("write markdown transcript: %w", err)
	}
	if err := os.WriteFile(outputs.JSONPath, payload.Transcript, 0o644); err != nil {
		return Outputs{}, fmt.Errorf("write json transcript: %w", err)
	}

	c.log.Info("transcription complete",
		zap.String("audio", req.AudioPath),
		zap.String("markdown", outputs.MarkdownPath),
		zap.String("json", outputs.JSONPath))
	return outputs, nil
}

// encodeTranscribeRequest builds the multipart body: the audio file plus
// title, description, and the options JSON.
func encodeTranscribeRequest(req Request) (io.Reader, string, error) {
	audio, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio %s: %w", req.AudioPath, err)
	}
	defer audio.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, "", fmt.Errorf("encode audio part: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, "", fmt.Errorf("read audio %s: %w", req.AudioPath, err)
	}

	if err := writer.WriteField("title", req.Title); err != nil {
		return nil, "", fmt.Errorf("encode title: %w", err)
	}
	if err := writer.WriteField("description", req.Description); err != nil {
		return nil, "", fmt.Errorf("encode description: %w", err)
	}
	optionsJSON, err := json.Marshal(req.Options)
	if err != nil {
		return nil, "", fmt.Errorf("encode options: %w", err)
	}
	if err := writer.WriteField("options", string(optionsJSON)); err != nil {
		return nil, "", fmt.Errorf("encode options field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
