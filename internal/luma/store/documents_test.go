package store_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/velmoor/luma/internal/luma/store"
)

func newTestDocuments(t *testing.T) *store.Documents {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "luma-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp db file: %v", err)
	}
	f.Close()

	s, err := store.New(f.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	docs, err := store.NewDocuments(s)
	if err != nil {
		t.Fatalf("failed to create documents facade: %v", err)
	}
	return docs
}

type turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

func TestDocuments_LoadMissing(t *testing.T) {
	docs := newTestDocuments(t)

	var history []turn
	err := docs.Load(context.Background(), store.DocChatHistory, &history)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDocuments_SaveThenLoad(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	in := []turn{
		{User: "how's the weather?", Assistant: "It's sunny today!"},
		{User: "tell me a joke", Assistant: "Why did the chicken cross the road?"},
	}
	if err := docs.Save(ctx, store.DocChatHistory, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var out []turn
	if err := docs.Load(ctx, store.DocChatHistory, &out); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(out))
	}
	if out[0].User != in[0].User || out[1].Assistant != in[1].Assistant {
		t.Errorf("round trip lost data: %+v", out)
	}
}

func TestDocuments_SaveOverwritesWholesale(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	if err := docs.Save(ctx, store.DocChatHistory, []turn{{User: "a", Assistant: "b"}}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := docs.Save(ctx, store.DocChatHistory, []turn{{User: "c", Assistant: "d"}}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	var out []turn
	if err := docs.Load(ctx, store.DocChatHistory, &out); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(out) != 1 || out[0].User != "c" {
		t.Errorf("expected wholesale overwrite, got %+v", out)
	}
}

func TestDocuments_SchemaRejectsBadMood(t *testing.T) {
	docs := newTestDocuments(t)

	bad := []map[string]string{
		{"timestamp": "2026-09-01T10:00:00Z", "mood": "Ecstatic"},
	}
	err := docs.Save(context.Background(), store.DocMoodLog, bad)
	if err == nil {
		t.Fatal("expected schema validation error for unknown mood, got nil")
	}
}

func TestDocuments_UnknownName(t *testing.T) {
	docs := newTestDocuments(t)

	if err := docs.Save(context.Background(), "scratch", map[string]string{}); err == nil {
		t.Fatal("expected error for unknown document name, got nil")
	}
	var v any
	if err := docs.Load(context.Background(), "scratch", &v); err == nil {
		t.Fatal("expected error for unknown document name, got nil")
	}
}
