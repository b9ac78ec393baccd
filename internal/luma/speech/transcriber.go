package speech

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
)

const (
	defaultASRModel  = "whisper-1"
	defaultTTSModel  = "tts-1"
	defaultTTSVoice  = "nova"
	defaultHTTPLimit = 30 * time.Second
)

// ClientConfig configures the HTTP speech backends. BaseURL and APIKey are
// shared by transcription and synthesis.
type ClientConfig struct {
	// APIKey authenticates requests. Required for hosted backends.
	APIKey string

	// BaseURL is the API root, e.g. https://api.openai.com/v1.
	BaseURL string

	// ASRModel is the transcription model. Defaults to whisper-1.
	ASRModel string

	// TTSModel is the synthesis model. Defaults to tts-1.
	TTSModel string

	// TTSVoice is the synthesis voice. Defaults to nova.
	TTSVoice string

	// Timeout is the HTTP request timeout. Defaults to 30 s.
	Timeout time.Duration
}

func (c *ClientConfig) applyDefaults() {
	if c.ASRModel == "" {
		c.ASRModel = defaultASRModel
	}
	if c.TTSModel == "" {
		c.TTSModel = defaultTTSModel
	}
	if c.TTSVoice == "" {
		c.TTSVoice = defaultTTSVoice
	}
	if c.Timeout == 0 {
		c.Timeout = defaultHTTPLimit
	}
}

// HTTPTranscriber implements Transcriber against an OpenAI-compatible
// /audio/transcriptions endpoint.
type HTTPTranscriber struct {
	cfg    ClientConfig
	client *http.Client
}

// NewHTTPTranscriber creates a Transcriber backed by the configured service.
// Safe for concurrent use.
func NewHTTPTranscriber(cfg ClientConfig) *HTTPTranscriber {
	cfg.applyDefaults()
	return &HTTPTranscriber{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// --- minimal wire types ---

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Transcribe uploads the audio file and returns its transcript with
// surrounding whitespace trimmed. A transcript that is empty after trimming
// is reported as ErrNoSpeech.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("speech: read capture: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("speech: build form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("speech: build form: %w", err)
	}
	if err := mw.WriteField("model", t.cfg.ASRModel); err != nil {
		return "", fmt.Errorf("speech: build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("speech: build form: %w", err)
	}

	url := strings.TrimSuffix(t.cfg.BaseURL, "/") + "/audio/transcriptions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("speech: create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if t.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("speech: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("speech: read response body: %w", err)
	}

	var trResp transcriptionResponse
	if err := json.Unmarshal(respBody, &trResp); err != nil {
		return "", fmt.Errorf("speech: decode response: %w", err)
	}
	if trResp.Error != nil {
		return "", fmt.Errorf("speech: transcription service error: %s", trResp.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("speech: unexpected HTTP status %d", resp.StatusCode)
	}

	text := strings.TrimSpace(trResp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

var _ Transcriber = (*HTTPTranscriber)(nil)
