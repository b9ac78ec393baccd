// Package config defines the Luma configuration schema and its loading rules.
//
// Configuration is read from an optional YAML file, then overridden by
// environment variables (LUMA_*). The API key for the OpenAI-compatible
// backends is only ever read from the environment, never from the file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/velmoor/luma/common/environment"
)

// Default values applied when neither the file nor the environment sets a knob.
const (
	DefaultThreshold     = 0.75
	DefaultDatabasePath  = "./luma.db"
	DefaultBaseURL       = "https://api.openai.com/v1"
	DefaultChatModel     = "gpt-4o-mini"
	DefaultRatingModel   = "gpt-4o-mini"
	DefaultASRModel      = "whisper-1"
	DefaultTTSModel      = "tts-1"
	DefaultTTSVoice      = "nova"
	DefaultTimeout       = 30 * time.Second
	DefaultListenSeconds = 10
	DefaultMaxTurns      = 10
)

// APIKeyEnv is the environment variable holding the backend API key.
const APIKeyEnv = "LUMA_API_KEY"

// Config is the root configuration for the assistant.
type Config struct {
	// Assistant holds persona knobs: name, addressed user, wake phrases.
	Assistant Assistant `yaml:"assistant"`

	// Auth configures the voice verification gate.
	Auth Auth `yaml:"auth"`

	// Backends configures the OpenAI-compatible HTTP services.
	Backends Backends `yaml:"backends"`

	// Speech configures audio capture and playback.
	Speech Speech `yaml:"speech"`

	// Storage configures the SQLite document store.
	Storage Storage `yaml:"storage"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"logLevel"`
}

// Assistant holds persona configuration.
type Assistant struct {
	// Name is the assistant's spoken name. Defaults to "Luma".
	Name string `yaml:"name"`

	// UserName is how the assistant addresses the user. Defaults to "friend".
	UserName string `yaml:"userName"`

	// WakePhrases are matched case-insensitively as substrings of an
	// utterance. Defaults to ["hey luma", "ok luma", "luma"].
	WakePhrases []string `yaml:"wakePhrases"`

	// MaxTurns caps the rolling context window. Defaults to 10.
	MaxTurns int `yaml:"maxTurns"`
}

// Auth configures the speaker-verification gate.
type Auth struct {
	// Enabled gates the whole session behind voice verification.
	// Defaults to true; set false for development.
	Enabled *bool `yaml:"enabled"`

	// ReferenceSample is the path to the enrolled voice sample (WAV).
	ReferenceSample string `yaml:"referenceSample"`

	// Threshold is the cosine-similarity acceptance threshold in [-1, 1].
	// Defaults to 0.75.
	Threshold float64 `yaml:"threshold"`
}

// Backends configures the external OpenAI-compatible services.
type Backends struct {
	// BaseURL is the API endpoint shared by all backends.
	// Defaults to https://api.openai.com/v1; point it at an Ollama or
	// LocalAI instance for fully local operation.
	BaseURL string `yaml:"baseURL"`

	// EmbeddingURL is the speaker-embedding service endpoint. A separate
	// knob because voice embeddings are usually served by a dedicated
	// local model rather than the chat provider.
	EmbeddingURL string `yaml:"embeddingURL"`

	// ChatModel is the conversational model. Defaults to gpt-4o-mini.
	ChatModel string `yaml:"chatModel"`

	// RatingModel is the sentiment-rating model. Defaults to gpt-4o-mini.
	RatingModel string `yaml:"ratingModel"`

	// ASRModel is the transcription model. Defaults to whisper-1.
	ASRModel string `yaml:"asrModel"`

	// TTSModel is the speech-synthesis model. Defaults to tts-1.
	TTSModel string `yaml:"ttsModel"`

	// TTSVoice is the synthesis voice name. Defaults to "nova".
	TTSVoice string `yaml:"ttsVoice"`

	// Timeout bounds every backend HTTP call. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout"`
}

// Speech configures local audio capture and playback.
type Speech struct {
	// CaptureCommand records from the microphone to the WAV file appended
	// as the final argument. Defaults to arecord with a 16 kHz mono profile.
	CaptureCommand []string `yaml:"captureCommand"`

	// PlayerCommand plays the audio file appended as the final argument.
	// Defaults to mpv --really-quiet.
	PlayerCommand []string `yaml:"playerCommand"`

	// ListenSeconds is the maximum phrase duration per capture. Defaults to 10.
	ListenSeconds int `yaml:"listenSeconds"`
}

// Storage configures persistence.
type Storage struct {
	// DatabasePath is the SQLite file holding the three document stores.
	// Defaults to ./luma.db.
	DatabasePath string `yaml:"databasePath"`
}

// Parse decodes a YAML document into a Config, applies defaults and
// environment overrides, and validates the result. It is the canonical
// entry point for loading configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config parse: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the YAML file at path and parses it. A missing file is not an
// error: defaults plus environment overrides form a complete configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil)
		}
		return nil, fmt.Errorf("config load %s: %w", path, err)
	}
	return Parse(data)
}

// AuthEnabled reports whether the startup voice gate is on.
func (c *Config) AuthEnabled() bool {
	return c.Auth.Enabled == nil || *c.Auth.Enabled
}

// APIKey returns the backend API key from the environment.
func (c *Config) APIKey() string {
	return os.Getenv(APIKeyEnv)
}

func (c *Config) applyDefaults() {
	if c.Assistant.Name == "" {
		c.Assistant.Name = "Luma"
	}
	if c.Assistant.UserName == "" {
		c.Assistant.UserName = "friend"
	}
	if len(c.Assistant.WakePhrases) == 0 {
		c.Assistant.WakePhrases = []string{"hey luma", "ok luma", "luma"}
	}
	if c.Assistant.MaxTurns == 0 {
		c.Assistant.MaxTurns = DefaultMaxTurns
	}
	if c.Auth.Threshold == 0 {
		c.Auth.Threshold = DefaultThreshold
	}
	if c.Backends.BaseURL == "" {
		c.Backends.BaseURL = DefaultBaseURL
	}
	if c.Backends.ChatModel == "" {
		c.Backends.ChatModel = DefaultChatModel
	}
	if c.Backends.RatingModel == "" {
		c.Backends.RatingModel = DefaultRatingModel
	}
	if c.Backends.ASRModel == "" {
		c.Backends.ASRModel = DefaultASRModel
	}
	if c.Backends.TTSModel == "" {
		c.Backends.TTSModel = DefaultTTSModel
	}
	if c.Backends.TTSVoice == "" {
		c.Backends.TTSVoice = DefaultTTSVoice
	}
	if c.Backends.Timeout == 0 {
		c.Backends.Timeout = DefaultTimeout
	}
	if len(c.Speech.CaptureCommand) == 0 {
		c.Speech.CaptureCommand = []string{"arecord", "-q", "-f", "S16_LE", "-r", "16000", "-c", "1"}
	}
	if len(c.Speech.PlayerCommand) == 0 {
		c.Speech.PlayerCommand = []string{"mpv", "--really-quiet"}
	}
	if c.Speech.ListenSeconds == 0 {
		c.Speech.ListenSeconds = DefaultListenSeconds
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = DefaultDatabasePath
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) applyEnv() {
	c.Auth.ReferenceSample = environment.StringOr("LUMA_REFERENCE_SAMPLE", c.Auth.ReferenceSample)
	c.Auth.Threshold = environment.Float64Or("LUMA_AUTH_THRESHOLD", c.Auth.Threshold)
	if v, ok := environment.String("LUMA_AUTH_ENABLED"); ok && v != "" {
		enabled := environment.BoolOr("LUMA_AUTH_ENABLED", true)
		c.Auth.Enabled = &enabled
	}
	c.Backends.BaseURL = environment.StringOr("LUMA_BASE_URL", c.Backends.BaseURL)
	c.Backends.EmbeddingURL = environment.StringOr("LUMA_EMBEDDING_URL", c.Backends.EmbeddingURL)
	c.Backends.ChatModel = environment.StringOr("LUMA_CHAT_MODEL", c.Backends.ChatModel)
	c.Backends.Timeout = environment.DurationOr("LUMA_BACKEND_TIMEOUT", c.Backends.Timeout)
	c.Assistant.WakePhrases = environment.StringSliceOr("LUMA_WAKE_PHRASES", c.Assistant.WakePhrases)
	c.Storage.DatabasePath = environment.StringOr("LUMA_DB_PATH", c.Storage.DatabasePath)
	c.LogLevel = environment.StringOr("LUMA_LOG_LEVEL", c.LogLevel)
}

// Validate checks a Config for structural correctness. It returns the first
// validation error encountered, or nil if the config is valid.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config must not be nil")
	}
	if cfg.Auth.Threshold < -1 || cfg.Auth.Threshold > 1 {
		return fmt.Errorf("auth.threshold must be within [-1, 1], got %v", cfg.Auth.Threshold)
	}
	if cfg.Assistant.MaxTurns < 1 {
		return fmt.Errorf("assistant.maxTurns must be at least 1, got %d", cfg.Assistant.MaxTurns)
	}
	for i, phrase := range cfg.Assistant.WakePhrases {
		if strings.TrimSpace(phrase) == "" {
			return fmt.Errorf("assistant.wakePhrases[%d] must not be empty", i)
		}
	}
	if cfg.Speech.ListenSeconds < 1 {
		return fmt.Errorf("speech.listenSeconds must be at least 1, got %d", cfg.Speech.ListenSeconds)
	}
	if cfg.Backends.Timeout < 0 {
		return fmt.Errorf("backends.timeout must not be negative, got %v", cfg.Backends.Timeout)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logLevel must be one of debug, info, warn, error; got %q", cfg.LogLevel)
	}
	return nil
}
