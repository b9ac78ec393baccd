package speech

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestCommandRecorder_WritesCapture(t *testing.T) {
	// Stand-in capture command: writes fake audio to its appended output
	// path ($2, following the -d <seconds> pair).
	rec, err := NewCommandRecorder(
		[]string{"/bin/sh", "-c", `printf RIFFfake > "$2"`}, slog.Default())
	if err != nil {
		t.Fatalf("NewCommandRecorder: %v", err)
	}

	path, err := rec.Record(context.Background(), 3)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read capture: %v", err)
	}
	if string(data) != "RIFFfake" {
		t.Fatalf("capture content = %q", data)
	}
}

func TestCommandRecorder_CommandFailure(t *testing.T) {
	rec, err := NewCommandRecorder([]string{"/bin/sh", "-c", "exit 1"}, slog.Default())
	if err != nil {
		t.Fatalf("NewCommandRecorder: %v", err)
	}
	if _, err := rec.Record(context.Background(), 3); err == nil {
		t.Fatal("expected error from failing capture command")
	}
}

func TestCommandRecorder_RejectsBadDuration(t *testing.T) {
	rec, err := NewCommandRecorder([]string{"arecord"}, slog.Default())
	if err != nil {
		t.Fatalf("NewCommandRecorder: %v", err)
	}
	if _, err := rec.Record(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestNewCommandRecorder_EmptyCommand(t *testing.T) {
	if _, err := NewCommandRecorder(nil, slog.Default()); err == nil {
		t.Fatal("expected error for empty capture command")
	}
}

func writeTempWAV(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "sample-*.wav")
	if err != nil {
		t.Fatalf("create sample: %v", err)
	}
	if _, err := f.WriteString("RIFFfake"); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	f.Close()
	return f.Name()
}

func TestHTTPTranscriber_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "  open youtube  "}`))
	}))
	defer srv.Close()

	tr := NewHTTPTranscriber(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	text, err := tr.Transcribe(context.Background(), writeTempWAV(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "open youtube" {
		t.Fatalf("transcript = %q, want %q", text, "open youtube")
	}
}

func TestHTTPTranscriber_EmptyTranscriptIsNoSpeech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "   "}`))
	}))
	defer srv.Close()

	tr := NewHTTPTranscriber(ClientConfig{BaseURL: srv.URL})
	_, err := tr.Transcribe(context.Background(), writeTempWAV(t))
	if !errors.Is(err, ErrNoSpeech) {
		t.Fatalf("expected ErrNoSpeech, got %v", err)
	}
}

func TestHTTPTranscriber_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "model overloaded"}}`))
	}))
	defer srv.Close()

	tr := NewHTTPTranscriber(ClientConfig{BaseURL: srv.URL})
	_, err := tr.Transcribe(context.Background(), writeTempWAV(t))
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestHTTPSynthesizer_SpeakPlaysAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte("mp3bytes"))
	}))
	defer srv.Close()

	// Player stand-in: copies the audio file ($2) so the test can check
	// what reached playback.
	played := t.TempDir() + "/played"
	syn, err := NewHTTPSynthesizer(
		ClientConfig{BaseURL: srv.URL},
		[]string{"/bin/sh", "-c", `cp "$1" "` + played + `"`, "player"},
		slog.Default())
	if err != nil {
		t.Fatalf("NewHTTPSynthesizer: %v", err)
	}

	if err := syn.Speak(context.Background(), "hello there"); err != nil {
		t.Fatalf("Speak: %v", err)
	}

	data, err := os.ReadFile(played)
	if err != nil {
		t.Fatalf("player never ran: %v", err)
	}
	if string(data) != "mp3bytes" {
		t.Fatalf("played audio = %q", data)
	}
}

func TestHTTPSynthesizer_EmptyTextIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty text")
	}))
	defer srv.Close()

	syn, err := NewHTTPSynthesizer(ClientConfig{BaseURL: srv.URL}, []string{"/bin/false"}, slog.Default())
	if err != nil {
		t.Fatalf("NewHTTPSynthesizer: %v", err)
	}
	if err := syn.Speak(context.Background(), "   "); err != nil {
		t.Fatalf("Speak on empty text: %v", err)
	}
}

func TestHTTPSynthesizer_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "invalid voice"}}`))
	}))
	defer srv.Close()

	syn, err := NewHTTPSynthesizer(ClientConfig{BaseURL: srv.URL}, []string{"/bin/false"}, slog.Default())
	if err != nil {
		t.Fatalf("NewHTTPSynthesizer: %v", err)
	}
	err = syn.Speak(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "invalid voice") {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"good morning, how can I help?", "en"},
		{"vanakkam! eppadi irukkeenga?", "ta"},
		{"Nandri, see you tomorrow", "ta"},
		{"வணக்கம்", "ta"},
		{"", "en"},
		{"open youtube", "en"},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
