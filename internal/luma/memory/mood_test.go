package memory

import (
	"context"
	"testing"
	"time"
)

// fixedSentiment always returns the same rating.
type fixedSentiment struct {
	rating int
	err    error
}

func (f fixedSentiment) Rate(ctx context.Context, text string) (int, error) {
	return f.rating, f.err
}

func TestMoodFromRating(t *testing.T) {
	tests := []struct {
		rating  int
		want    Mood
		wantErr bool
	}{
		{rating: 5, want: MoodHappy},
		{rating: 4, want: MoodHappy},
		{rating: 3, want: MoodNeutral},
		{rating: 2, want: MoodAngry},
		{rating: 1, want: MoodSad},
		{rating: 0, wantErr: true},
		{rating: 6, wantErr: true},
		{rating: -1, wantErr: true},
	}

	for _, tt := range tests {
		mood, err := MoodFromRating(tt.rating)
		if tt.wantErr {
			if err == nil {
				t.Errorf("MoodFromRating(%d): expected error, got %q", tt.rating, mood)
			}
			continue
		}
		if err != nil {
			t.Errorf("MoodFromRating(%d): %v", tt.rating, err)
			continue
		}
		if mood != tt.want {
			t.Errorf("MoodFromRating(%d) = %q, want %q", tt.rating, mood, tt.want)
		}
	}
}

func TestMoodTracker_Classify(t *testing.T) {
	tracker := NewMoodTracker(newTestDocuments(t), fixedSentiment{rating: 2})

	mood, err := tracker.Classify(context.Background(), "this is the third time it has failed")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if mood != MoodAngry {
		t.Fatalf("Classify = %q, want %q", mood, MoodAngry)
	}
}

func TestMoodTracker_ClassifyDoesNotLog(t *testing.T) {
	tracker := NewMoodTracker(newTestDocuments(t), fixedSentiment{rating: 5})
	ctx := context.Background()

	if _, err := tracker.Classify(ctx, "what a great day"); err != nil {
		t.Fatalf("Classify: %v", err)
	}

	entries, err := tracker.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("Classify must not write to the log, found %d entries", len(entries))
	}
}

func TestMoodTracker_LogIsAppendOnly(t *testing.T) {
	tracker := NewMoodTracker(newTestDocuments(t), fixedSentiment{rating: 3})
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	step := 0
	tracker.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}
	ctx := context.Background()

	for _, mood := range []Mood{MoodHappy, MoodSad, MoodHappy, MoodNeutral} {
		if err := tracker.LogMood(ctx, mood); err != nil {
			t.Fatalf("LogMood(%q): %v", mood, err)
		}
	}

	entries, err := tracker.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	want := []Mood{MoodHappy, MoodSad, MoodHappy, MoodNeutral}
	for i, entry := range entries {
		if entry.Mood != want[i] {
			t.Errorf("entry %d = %q, want %q", i, entry.Mood, want[i])
		}
		if i > 0 && !entries[i-1].Timestamp.Before(entry.Timestamp) {
			t.Errorf("entry %d timestamp %v not after entry %d timestamp %v",
				i, entry.Timestamp, i-1, entries[i-1].Timestamp)
		}
	}
}

func TestMoodTracker_LastMood(t *testing.T) {
	tracker := NewMoodTracker(newTestDocuments(t), fixedSentiment{rating: 3})
	ctx := context.Background()

	if _, ok, err := tracker.LastMood(ctx); err != nil {
		t.Fatalf("LastMood on empty log: %v", err)
	} else if ok {
		t.Fatal("empty log should report no last mood")
	}

	if err := tracker.LogMood(ctx, MoodSad); err != nil {
		t.Fatalf("LogMood: %v", err)
	}
	if err := tracker.LogMood(ctx, MoodHappy); err != nil {
		t.Fatalf("LogMood: %v", err)
	}

	mood, ok, err := tracker.LastMood(ctx)
	if err != nil {
		t.Fatalf("LastMood: %v", err)
	}
	if !ok || mood != MoodHappy {
		t.Fatalf("LastMood = %q ok=%v, want %q", mood, ok, MoodHappy)
	}
}
