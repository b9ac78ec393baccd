package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/velmoor/luma/internal/luma/nlp"
	"github.com/velmoor/luma/internal/luma/store"
)

// Mood is the coarse emotional category derived from a sentiment rating.
// It only colors the assistant's reply tone, never gates access.
type Mood string

const (
	MoodHappy   Mood = "Happy"
	MoodNeutral Mood = "Neutral"
	MoodAngry   Mood = "Angry"
	MoodSad     Mood = "Sad"
)

// MoodFromRating maps a 1 to 5 sentiment intensity rating to a Mood:
// {4,5}→Happy, {3}→Neutral, {2}→Angry, {1}→Sad. Ratings outside 1..5 are
// rejected, not clamped.
func MoodFromRating(rating int) (Mood, error) {
	switch rating {
	case 4, 5:
		return MoodHappy, nil
	case 3:
		return MoodNeutral, nil
	case 2:
		return MoodAngry, nil
	case 1:
		return MoodSad, nil
	default:
		return "", fmt.Errorf("memory: sentiment rating %d outside 1..5", rating)
	}
}

// MoodEntry is one timestamped record in the mood log.
type MoodEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Mood      Mood      `json:"mood"`
}

// MoodTracker classifies utterances into moods and maintains the durable,
// append-only mood log. Unlike the context window the log is a historical
// record: it never caps, never overwrites, never reorders. Safe for
// concurrent use.
type MoodTracker struct {
	mu        sync.Mutex
	docs      *store.Documents
	sentiment nlp.SentimentProvider
	now       func() time.Time
}

// NewMoodTracker creates a MoodTracker persisting through docs and rating
// utterances with sentiment.
func NewMoodTracker(docs *store.Documents, sentiment nlp.SentimentProvider) *MoodTracker {
	return &MoodTracker{docs: docs, sentiment: sentiment, now: time.Now}
}

// Classify rates text with the sentiment provider and maps the rating to a
// Mood. It has no side effects; pair it with LogMood to record the result.
func (t *MoodTracker) Classify(ctx context.Context, text string) (Mood, error) {
	rating, err := t.sentiment.Rate(ctx, text)
	if err != nil {
		return "", fmt.Errorf("memory: rate utterance: %w", err)
	}
	return MoodFromRating(rating)
}

// LogMood appends a timestamped entry for mood and persists the grown log.
func (t *MoodTracker) LogMood(ctx context.Context, mood Mood) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries, err := t.load(ctx)
	if err != nil {
		return err
	}

	entries = append(entries, MoodEntry{Timestamp: t.now().UTC(), Mood: mood})
	if err := t.docs.Save(ctx, store.DocMoodLog, entries); err != nil {
		return fmt.Errorf("memory: persist mood log: %w", err)
	}
	return nil
}

// LastMood returns the mood of the most recently appended entry. The
// boolean is false when the log is empty.
func (t *MoodTracker) LastMood(ctx context.Context) (Mood, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries, err := t.load(ctx)
	if err != nil {
		return "", false, err
	}
	if len(entries) == 0 {
		return "", false, nil
	}
	return entries[len(entries)-1].Mood, true, nil
}

// Entries returns the full mood history in insertion order.
func (t *MoodTracker) Entries(ctx context.Context) ([]MoodEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

// load reads the persisted log; a never-saved document is an empty log.
// Must be called with mu held.
func (t *MoodTracker) load(ctx context.Context) ([]MoodEntry, error) {
	var entries []MoodEntry
	err := t.docs.Load(ctx, store.DocMoodLog, &entries)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("memory: load mood log: %w", err)
	}
	return entries, nil
}
