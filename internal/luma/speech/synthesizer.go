package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"
)

// HTTPSynthesizer implements Synthesizer against an OpenAI-compatible
// /audio/speech endpoint, playing the returned audio through a local
// player command such as mpv.
type HTTPSynthesizer struct {
	cfg        ClientConfig
	playerArgv []string
	client     *http.Client
	logger     *slog.Logger
}

// NewHTTPSynthesizer creates a Synthesizer backed by the configured service.
// playerArgv is the local playback command; the audio file path is appended
// as its final argument.
func NewHTTPSynthesizer(cfg ClientConfig, playerArgv []string, logger *slog.Logger) (*HTTPSynthesizer, error) {
	if len(playerArgv) == 0 {
		return nil, fmt.Errorf("speech: player command must not be empty")
	}
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSynthesizer{
		cfg:        cfg,
		playerArgv: playerArgv,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

// --- minimal wire types ---

type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`

	// Language hints the synthesis language for backends that accept it.
	Language string `json:"language,omitempty"`
}

type speechError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Speak synthesizes text and plays it through the local player. The
// synthesis language follows DetectLanguage, so romanized Tamil is voiced
// as Tamil rather than mangled as English.
func (s *HTTPSynthesizer) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	audio, err := s.synthesize(ctx, text)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "luma-reply-*.mp3")
	if err != nil {
		return fmt.Errorf("speech: create playback file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("speech: write playback file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("speech: write playback file: %w", err)
	}

	args := append([]string{}, s.playerArgv[1:]...)
	args = append(args, path)
	cmd := exec.CommandContext(ctx, s.playerArgv[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("speech: playback command failed: %w: %s", err, string(out))
	}
	return nil
}

func (s *HTTPSynthesizer) synthesize(ctx context.Context, text string) ([]byte, error) {
	req := speechRequest{
		Model: s.cfg.TTSModel,
		Voice: s.cfg.TTSVoice,
		Input: text,
	}
	if lang := DetectLanguage(text); lang != "en" {
		req.Language = lang
		s.logger.Debug("non-default synthesis language", "language", lang)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("speech: encode request: %w", err)
	}

	url := strings.TrimSuffix(s.cfg.BaseURL, "/") + "/audio/speech"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("speech: create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speech: http request: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var svcErr speechError
		if json.Unmarshal(audio, &svcErr) == nil && svcErr.Error.Message != "" {
			return nil, fmt.Errorf("speech: synthesis service error: %s", svcErr.Error.Message)
		}
		return nil, fmt.Errorf("speech: unexpected HTTP status %d", resp.StatusCode)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech: synthesis returned no audio")
	}
	return audio, nil
}

var _ Synthesizer = (*HTTPSynthesizer)(nil)
