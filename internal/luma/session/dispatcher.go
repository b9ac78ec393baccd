// Package session implements the utterance dispatcher: the state machine
// that turns each recognized utterance into a structured action or a
// conversational reply, driving the memory stores and external backends.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/velmoor/luma/common/retry"
	"github.com/velmoor/luma/common/trace"
	"github.com/velmoor/luma/internal/luma/actions"
	"github.com/velmoor/luma/internal/luma/memory"
	"github.com/velmoor/luma/internal/luma/nlp"
	"github.com/velmoor/luma/internal/luma/speech"
)

// State is the dispatcher's position in its utterance-handling cycle.
type State string

const (
	StateIdle           State = "idle"
	StateWakeCheck      State = "wake_check"
	StateDispatch       State = "dispatch"
	StateConversational State = "conversational"
	StateExited         State = "exited"
)

var greetings = []string{
	"Yes? I'm listening.",
	"How can I help?",
	"What do you need?",
}

var farewells = []string{
	"Goodbye! Talk to you soon.",
	"See you later. Take care!",
	"Signing off now. Bye!",
}

// moodPrefixes color the conversational reply, one fixed string per mood.
// Unrecognized moods add nothing.
var moodPrefixes = map[memory.Mood]string{
	memory.MoodHappy:   "Glad you're in a good mood! ",
	memory.MoodNeutral: "I'm here to help. ",
	memory.MoodAngry:   "I hear you. ",
	memory.MoodSad:     "I'm sorry you're feeling low. ",
}

// Config carries the dispatcher's collaborators and settings. All
// collaborator fields are required unless noted.
type Config struct {
	Logger *slog.Logger

	Window *memory.ContextWindow
	Moods  *memory.MoodTracker
	Prefs  *memory.PrefsStore

	Chat        nlp.ChatProvider
	Recorder    speech.Recorder
	Transcriber speech.Transcriber
	Speaker     speech.Synthesizer
	Desktop     *actions.Desktop

	AssistantName string
	UserName      string
	WakePhrases   []string
	ListenSeconds int

	// Retry budget for the chat backend. Zero value uses retry.DefaultConfig.
	Retry retry.Config
}

// Dispatcher consumes one recognized utterance at a time. It is strictly
// sequential: every action is awaited before the next utterance is
// requested, so no mutex is needed beyond the ones inside the stores.
type Dispatcher struct {
	cfg       Config
	logger    *slog.Logger
	sessionID string
	routes    []route
	state     State

	rng *rand.Rand
	now func() time.Time
}

// New creates a Dispatcher in the Idle state.
func New(cfg Config) (*Dispatcher, error) {
	switch {
	case cfg.Window == nil, cfg.Moods == nil, cfg.Prefs == nil:
		return nil, fmt.Errorf("session: memory stores are required")
	case cfg.Chat == nil:
		return nil, fmt.Errorf("session: chat provider is required")
	case cfg.Recorder == nil, cfg.Transcriber == nil, cfg.Speaker == nil:
		return nil, fmt.Errorf("session: speech collaborators are required")
	case cfg.Desktop == nil:
		return nil, fmt.Errorf("session: desktop actions are required")
	case len(cfg.WakePhrases) == 0:
		return nil, fmt.Errorf("session: at least one wake phrase is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.AssistantName == "" {
		cfg.AssistantName = "Luma"
	}
	if cfg.ListenSeconds < 1 {
		cfg.ListenSeconds = 10
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultConfig
	}

	d := &Dispatcher{
		cfg:       cfg,
		sessionID: uuid.NewString(),
		state:     StateIdle,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
	d.logger = cfg.Logger.With("session_id", d.sessionID)
	d.routes = d.buildRoutes()
	return d, nil
}

// State returns the dispatcher's current state.
func (d *Dispatcher) State() State {
	return d.state
}

// Run greets the user and then consumes utterances until the exit route
// fires or ctx is cancelled. Recognition misses are retried silently.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.Greet(ctx)

	for d.state != StateExited {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("session: run loop: %w", err)
		}

		uttCtx := trace.WithTraceID(ctx, trace.GenerateID())
		text, ok := d.listen(uttCtx)
		if !ok {
			continue
		}

		done, err := d.HandleUtterance(uttCtx, text)
		if err != nil {
			d.logger.Warn("utterance handling failed",
				"trace_id", trace.FromContext(uttCtx), "err", err)
		}
		if done {
			return nil
		}
	}
	return nil
}

// HandleUtterance processes one recognized utterance through the wake
// check and the dispatch routes. The returned bool is true once the exit
// route has fired and the session is over.
//
// Utterances are never dropped while waiting for a wake phrase: a non-wake
// utterance is dispatched directly. A wake match speaks a greeting and
// synchronously captures one follow-up utterance, which is then dispatched;
// if that capture misses, the dispatcher returns to Idle.
func (d *Dispatcher) HandleUtterance(ctx context.Context, text string) (bool, error) {
	d.state = StateWakeCheck

	if d.isWakePhrase(text) {
		d.logger.Info("wake phrase recognized",
			"trace_id", trace.FromContext(ctx))
		d.speak(ctx, pick(d.rng, greetings))

		followUp, ok := d.listen(ctx)
		if !ok {
			d.state = StateIdle
			return false, nil
		}
		text = followUp
	}

	d.state = StateDispatch
	defer func() {
		if d.state != StateExited {
			d.state = StateIdle
		}
	}()

	for _, r := range d.routes {
		if !r.match(text) {
			continue
		}
		d.logger.Info("dispatching utterance",
			"trace_id", trace.FromContext(ctx), "route", r.name)
		err := r.handle(ctx, text)
		return d.state == StateExited, err
	}

	d.state = StateConversational
	return false, d.converse(ctx, text)
}

// Greet speaks the session-opening greeting: time-of-day salutation,
// weekday and clock time, and the last recorded mood when one exists.
func (d *Dispatcher) Greet(ctx context.Context) {
	now := d.now()

	var daypart string
	switch hour := now.Hour(); {
	case hour >= 5 && hour < 12:
		daypart = "Good morning"
	case hour >= 12 && hour < 17:
		daypart = "Good afternoon"
	case hour >= 17 && hour < 21:
		daypart = "Good evening"
	default:
		daypart = "Good night"
	}

	var b strings.Builder
	if d.cfg.UserName != "" {
		fmt.Fprintf(&b, "%s, %s! ", daypart, d.cfg.UserName)
	} else {
		fmt.Fprintf(&b, "%s! ", daypart)
	}
	fmt.Fprintf(&b, "It's %s, %s. ", now.Weekday(), now.Format("3:04 PM"))

	if mood, ok, err := d.cfg.Moods.LastMood(ctx); err != nil {
		d.logger.Warn("could not read last mood", "err", err)
	} else if ok {
		fmt.Fprintf(&b, "Last time you seemed %s. ", strings.ToLower(string(mood)))
	}
	fmt.Fprintf(&b, "I'm %s. How can I help?", d.cfg.AssistantName)

	d.speak(ctx, b.String())
}

// isWakePhrase reports whether text contains any configured wake phrase,
// case-insensitively and anywhere in the string.
func (d *Dispatcher) isWakePhrase(text string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range d.cfg.WakePhrases {
		if phrase != "" && strings.Contains(lowered, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// listen captures one utterance and transcribes it. A recognition miss of
// any kind yields ok=false; the caller decides whether to retry.
func (d *Dispatcher) listen(ctx context.Context) (string, bool) {
	path, err := d.cfg.Recorder.Record(ctx, d.cfg.ListenSeconds)
	if err != nil {
		d.logger.Warn("audio capture failed", "err", err)
		return "", false
	}
	defer os.Remove(path)

	text, err := d.cfg.Transcriber.Transcribe(ctx, path)
	if errors.Is(err, speech.ErrNoSpeech) {
		d.logger.Debug("no speech recognized")
		return "", false
	}
	if err != nil {
		d.logger.Warn("transcription failed", "err", err)
		return "", false
	}

	d.logger.Info("utterance recognized",
		"trace_id", trace.FromContext(ctx), "chars", len(text))
	return text, true
}

// converse handles the conversational fallback: classify and log the mood,
// condition the chat backend on the context window, and speak the reply
// with a mood-specific prefix. A chat failure degrades to a spoken apology
// that is still recorded as the assistant's side of the turn.
func (d *Dispatcher) converse(ctx context.Context, text string) error {
	var prefix string
	mood, err := d.cfg.Moods.Classify(ctx, text)
	if err != nil {
		d.logger.Warn("mood classification failed, continuing without it",
			"trace_id", trace.FromContext(ctx), "err", err)
	} else {
		prefix = moodPrefixes[mood]
		if err := d.cfg.Moods.LogMood(ctx, mood); err != nil {
			d.logger.Warn("mood log write failed", "err", err)
		}
	}

	grounding, err := d.cfg.Window.Formatted(ctx)
	if err != nil {
		d.logger.Warn("context window read failed, replying without history", "err", err)
		grounding = ""
	}
	prompt := grounding + "User: " + text

	var reply string
	chatErr := retry.Do(ctx, d.retryConfig(), func() error {
		var err error
		reply, err = d.cfg.Chat.Reply(ctx, d.systemPrompt(mood), prompt)
		return err
	})
	if chatErr != nil {
		d.logger.Warn("chat backend failed",
			"trace_id", trace.FromContext(ctx), "err", chatErr)
		reply = "Sorry, I'm having trouble thinking right now. Please try again in a moment."
		prefix = ""
	}

	final := prefix + reply
	if err := d.cfg.Window.Append(ctx, memory.DialogueTurn{User: text, Assistant: final}); err != nil {
		d.logger.Warn("context window write failed", "err", err)
	}

	d.speak(ctx, final)
	return nil
}

func (d *Dispatcher) systemPrompt(mood memory.Mood) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a voice assistant", d.cfg.AssistantName)
	if d.cfg.UserName != "" {
		fmt.Fprintf(&b, " for %s", d.cfg.UserName)
	}
	b.WriteString(". Reply in one or two short spoken sentences.")
	if mood == memory.MoodSad || mood == memory.MoodAngry {
		b.WriteString(" The user seems upset; be gentle and patient.")
	}
	return b.String()
}

func (d *Dispatcher) retryConfig() retry.Config {
	cfg := d.cfg.Retry
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = func(err error) bool {
			return errors.Is(err, nlp.ErrRateLimit)
		}
	}
	return cfg
}

// speak voices text, absorbing playback errors: a broken speaker must not
// end the session.
func (d *Dispatcher) speak(ctx context.Context, text string) {
	if err := d.cfg.Speaker.Speak(ctx, text); err != nil {
		d.logger.Warn("speech playback failed", "err", err)
	}
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}
