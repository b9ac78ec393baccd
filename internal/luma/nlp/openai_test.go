package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestChat_Reply(t *testing.T) {
	srv := chatServer(t, http.StatusOK,
		`{"choices": [{"message": {"role": "assistant", "content": "  Hello there!  "}}]}`)
	defer srv.Close()

	p := NewChat(Config{APIKey: "test-key", BaseURL: srv.URL})
	got, err := p.Reply(context.Background(), "You are a friendly assistant.", "hi")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if got != "Hello there!" {
		t.Errorf("expected trimmed reply, got %q", got)
	}
}

func TestChat_RateLimit(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests,
		`{"error": {"message": "slow down", "type": "rate_limit"}}`)
	defer srv.Close()

	p := NewChat(Config{APIKey: "test-key", BaseURL: srv.URL})
	_, err := p.Reply(context.Background(), "sys", "hi")
	if !errors.Is(err, ErrRateLimit) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
}

func TestChat_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `this is not json`},
		{"no choices", `{"choices": []}`},
		{"empty reply", `{"choices": [{"message": {"role": "assistant", "content": "   "}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, http.StatusOK, tt.body)
			defer srv.Close()

			p := NewChat(Config{APIKey: "test-key", BaseURL: srv.URL})
			_, err := p.Reply(context.Background(), "sys", "hi")
			if !errors.Is(err, ErrMalformedOutput) {
				t.Fatalf("expected ErrMalformedOutput, got %v", err)
			}
		})
	}
}

func TestSentiment_Rate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req oaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Error("expected JSON-mode request")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "{\"rating\": 4}"}}]}`))
	}))
	defer srv.Close()

	p := NewSentiment(Config{APIKey: "test-key", BaseURL: srv.URL})
	rating, err := p.Rate(context.Background(), "this is wonderful")
	if err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	if rating != 4 {
		t.Errorf("expected rating 4, got %d", rating)
	}
}

func TestSentiment_OutOfRangeRating(t *testing.T) {
	for _, content := range []string{`{"rating": 0}`, `{"rating": 6}`, `{"rating": -3}`} {
		srv := chatServer(t, http.StatusOK,
			`{"choices": [{"message": {"role": "assistant", "content": "`+jsonEscape(content)+`"}}]}`)

		p := NewSentiment(Config{APIKey: "test-key", BaseURL: srv.URL})
		_, err := p.Rate(context.Background(), "text")
		srv.Close()
		if !errors.Is(err, ErrMalformedOutput) {
			t.Fatalf("rating %s: expected ErrMalformedOutput, got %v", content, err)
		}
	}
}

// jsonEscape escapes a string for embedding inside a JSON string literal.
func jsonEscape(s string) string {
	b, _ := json.Marshal(s)
	return string(b[1 : len(b)-1])
}
