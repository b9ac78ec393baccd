package auth

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
	"time"
)

const defaultEmbedTimeout = 30 * time.Second

// HTTPEmbedderConfig configures the speaker-embedding service client.
type HTTPEmbedderConfig struct {
	// URL is the full endpoint of the embedding service, e.g.
	// http://localhost:8090/embed. Required.
	URL string

	// APIKey is an optional bearer token.
	APIKey string

	// Timeout is the HTTP request timeout. Defaults to 30 s.
	Timeout time.Duration
}

// HTTPEmbedder implements Embedder against a speaker-embedding service that
// accepts a multipart WAV upload and returns {"embedding": [...]}. Any
// resemblyzer-style model served over HTTP fits this shape.
type HTTPEmbedder struct {
	cfg    HTTPEmbedderConfig
	client *http.Client
}

// NewHTTPEmbedder creates an Embedder backed by the configured service.
// The returned embedder is safe for concurrent use.
func NewHTTPEmbedder(cfg HTTPEmbedderConfig) *HTTPEmbedder {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultEmbedTimeout
	}
	return &HTTPEmbedder{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// --- minimal wire types ---

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// EmbedFile uploads the audio file at path and returns the embedding vector.
func (e *HTTPEmbedder) EmbedFile(ctx context.Context, path string) ([]float32, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("auth embedder: read sample: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("auth embedder: build form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("auth embedder: build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("auth embedder: build form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, &buf)
	if err != nil {
		return nil, fmt.Errorf("auth embedder: create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if e.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("auth embedder: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("auth embedder: read response body: %w", err)
	}

	var embResp embedResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("auth embedder: decode response: %w", err)
	}

	if embResp.Error != nil {
		return nil, fmt.Errorf("auth embedder: service error: %s", embResp.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("auth embedder: unexpected HTTP status %d", resp.StatusCode)
	}
	if len(embResp.Embedding) == 0 {
		return nil, fmt.Errorf("auth embedder: no embedding returned")
	}

	return embResp.Embedding, nil
}

// Compile-time interface satisfaction check.
var _ Embedder = (*HTTPEmbedder)(nil)
