// Package app wires the assistant together: configuration, the document
// store, the external backends, and the session dispatcher, plus the
// voice-verification gate that guards session start.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/velmoor/luma/internal/luma/actions"
	"github.com/velmoor/luma/internal/luma/auth"
	"github.com/velmoor/luma/internal/luma/config"
	"github.com/velmoor/luma/internal/luma/memory"
	"github.com/velmoor/luma/internal/luma/nlp"
	"github.com/velmoor/luma/internal/luma/session"
	"github.com/velmoor/luma/internal/luma/speech"
	"github.com/velmoor/luma/internal/luma/store"
)

// ErrAccessDenied is returned by Run when voice verification rejects the
// captured sample. The session never starts in that case.
var ErrAccessDenied = errors.New("app: voice verification failed")

// verifier is the slice of auth.Verifier the gate needs.
type verifier interface {
	Verify(ctx context.Context, candidatePath string, threshold float64) auth.Decision
}

// App owns the assistant's wired components for one process lifetime.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	store      *store.Store
	dispatcher *session.Dispatcher

	recorder speech.Recorder
	speaker  speech.Synthesizer
	verifier verifier
}

// New wires an App from configuration. When authentication is enabled the
// reference sample is embedded here, so a missing enrollment fails fast at
// startup instead of at first verify.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.New(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("app: open store: %w", err)
	}
	docs, err := store.NewDocuments(st)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("app: document store: %w", err)
	}

	apiKey := cfg.APIKey()
	chat := nlp.NewChat(nlp.Config{
		APIKey:  apiKey,
		BaseURL: cfg.Backends.BaseURL,
		Model:   cfg.Backends.ChatModel,
		Timeout: cfg.Backends.Timeout,
	})
	sentiment := nlp.NewSentiment(nlp.Config{
		APIKey:  apiKey,
		BaseURL: cfg.Backends.BaseURL,
		Model:   cfg.Backends.RatingModel,
		Timeout: cfg.Backends.Timeout,
	})

	speechCfg := speech.ClientConfig{
		APIKey:   apiKey,
		BaseURL:  cfg.Backends.BaseURL,
		ASRModel: cfg.Backends.ASRModel,
		TTSModel: cfg.Backends.TTSModel,
		TTSVoice: cfg.Backends.TTSVoice,
		Timeout:  cfg.Backends.Timeout,
	}
	recorder, err := speech.NewCommandRecorder(cfg.Speech.CaptureCommand, logger)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("app: recorder: %w", err)
	}
	transcriber := speech.NewHTTPTranscriber(speechCfg)
	speaker, err := speech.NewHTTPSynthesizer(speechCfg, cfg.Speech.PlayerCommand, logger)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("app: synthesizer: %w", err)
	}

	window := memory.NewContextWindow(docs, cfg.Assistant.MaxTurns)
	moods := memory.NewMoodTracker(docs, sentiment)
	prefs := memory.NewPrefsStore(docs)

	desktop := actions.NewDesktop(
		actions.NewExecRunner(logger),
		actions.NewStartRunner(logger),
	)

	dispatcher, err := session.New(session.Config{
		Logger:        logger,
		Window:        window,
		Moods:         moods,
		Prefs:         prefs,
		Chat:          chat,
		Recorder:      recorder,
		Transcriber:   transcriber,
		Speaker:       speaker,
		Desktop:       desktop,
		AssistantName: cfg.Assistant.Name,
		UserName:      cfg.Assistant.UserName,
		WakePhrases:   cfg.Assistant.WakePhrases,
		ListenSeconds: cfg.Speech.ListenSeconds,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	a := &App{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		dispatcher: dispatcher,
		recorder:   recorder,
		speaker:    speaker,
	}

	if cfg.AuthEnabled() {
		embedder := auth.NewHTTPEmbedder(auth.HTTPEmbedderConfig{
			URL:     cfg.Backends.EmbeddingURL,
			APIKey:  apiKey,
			Timeout: cfg.Backends.Timeout,
		})
		v, err := auth.NewVerifier(ctx, embedder, cfg.Auth.ReferenceSample, logger)
		if err != nil {
			st.Close()
			return nil, err
		}
		a.verifier = v
	}

	return a, nil
}

// Run gates the session on voice verification, then hands control to the
// dispatcher until the user says goodbye or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.verifier != nil {
		if err := a.authenticate(ctx); err != nil {
			return err
		}
	} else {
		a.logger.Warn("voice verification disabled, starting unauthenticated session")
	}
	return a.dispatcher.Run(ctx)
}

// Close releases the store. Safe to call after a failed Run.
func (a *App) Close() error {
	return a.store.Close()
}

// authenticate captures one sample and verifies it against the enrolled
// reference. Rejection ends the process before any command is accepted.
func (a *App) authenticate(ctx context.Context) error {
	if err := a.speaker.Speak(ctx, "Please say a few words so I can verify it's you."); err != nil {
		a.logger.Warn("verification prompt playback failed", "err", err)
	}

	path, err := a.recorder.Record(ctx, a.cfg.Speech.ListenSeconds)
	if err != nil {
		return fmt.Errorf("%w: sample capture: %v", ErrAccessDenied, err)
	}
	defer os.Remove(path)

	decision := a.verifier.Verify(ctx, path, a.cfg.Auth.Threshold)
	if !decision.Accepted {
		a.logger.Warn("voice verification rejected",
			"similarity", decision.Similarity, "reason", decision.Reason)
		if err := a.speaker.Speak(ctx, "Sorry, I couldn't verify your voice."); err != nil {
			a.logger.Warn("rejection notice playback failed", "err", err)
		}
		return fmt.Errorf("%w: %s", ErrAccessDenied, decision.Reason)
	}

	a.logger.Info("voice verification accepted", "similarity", decision.Similarity)
	return nil
}
