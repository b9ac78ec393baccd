// Package memory implements the assistant's durable stores: the rolling
// conversation context window, the append-only mood log, and user
// preferences. Each store owns one whole-document record in the SQLite
// documents table and rewrites it after every mutation, so state survives
// process restarts without any in-memory cache to go stale.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/velmoor/luma/internal/luma/store"
)

// DefaultMaxTurns is the context window cap when none is configured.
const DefaultMaxTurns = 10

// DialogueTurn is one (user utterance, assistant reply) pair.
type DialogueTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ContextWindow is the bounded, ordered ring of dialogue turns used to
// ground every conversational reply. Eviction is strictly FIFO: once the
// cap is exceeded, the oldest turns are dropped first. Safe for concurrent
// use; writers are serialized per store.
type ContextWindow struct {
	mu       sync.Mutex
	docs     *store.Documents
	maxTurns int
}

// NewContextWindow creates a ContextWindow persisting through docs.
// maxTurns values below 1 fall back to DefaultMaxTurns.
func NewContextWindow(docs *store.Documents, maxTurns int) *ContextWindow {
	if maxTurns < 1 {
		maxTurns = DefaultMaxTurns
	}
	return &ContextWindow{docs: docs, maxTurns: maxTurns}
}

// Append adds turn to the end of the window, evicts from the front until
// the cap holds, and persists the result wholesale.
func (w *ContextWindow) Append(ctx context.Context, turn DialogueTurn) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	turns, err := w.load(ctx)
	if err != nil {
		return err
	}

	turns = append(turns, turn)
	if excess := len(turns) - w.maxTurns; excess > 0 {
		turns = turns[excess:]
	}

	if err := w.docs.Save(ctx, store.DocChatHistory, turns); err != nil {
		return fmt.Errorf("memory: persist context window: %w", err)
	}
	return nil
}

// Turns returns the current window contents in chronological order.
func (w *ContextWindow) Turns(ctx context.Context) ([]DialogueTurn, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.load(ctx)
}

// Formatted renders the window as alternating "User: …" / "Assistant: …"
// lines in chronological order, read fresh from the store on every call.
// Returns the empty string for an empty window.
func (w *ContextWindow) Formatted(ctx context.Context) (string, error) {
	turns, err := w.Turns(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", turn.User, turn.Assistant)
	}
	return b.String(), nil
}

// Clear resets the window to the empty sequence and persists it.
func (w *ContextWindow) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.docs.Save(ctx, store.DocChatHistory, []DialogueTurn{}); err != nil {
		return fmt.Errorf("memory: clear context window: %w", err)
	}
	return nil
}

// load reads the persisted window; a never-saved document is an empty window.
// Must be called with mu held.
func (w *ContextWindow) load(ctx context.Context) ([]DialogueTurn, error) {
	var turns []DialogueTurn
	err := w.docs.Load(ctx, store.DocChatHistory, &turns)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("memory: load context window: %w", err)
	}
	return turns, nil
}
