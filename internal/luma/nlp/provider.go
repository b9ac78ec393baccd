// Package nlp provides the language backends consumed by the session engine:
// the conversational chat provider and the sentiment-rating provider.
//
// Both are thin translation layers over an OpenAI-compatible HTTP API. They
// never decide what to do with their output; the dispatcher owns policy:
// chat failures degrade to a spoken apology, rating failures skip the mood
// update. Nothing in this package terminates the process.
package nlp

import (
	"context"
	"errors"
)

// ErrRateLimit is returned when the upstream API reports a rate-limiting
// condition (HTTP 429). Callers should surface a user-visible message
// rather than silently retrying forever.
var ErrRateLimit = errors.New("nlp: upstream rate limit exceeded")

// ErrMalformedOutput is returned when the API responds successfully but the
// body cannot be interpreted (JSON parse failure, missing fields, or a
// rating outside the documented range).
var ErrMalformedOutput = errors.New("nlp: malformed response from LLM")

// ChatProvider produces a free-form conversational reply.
type ChatProvider interface {
	// Reply sends the system prompt and the assembled conversation prompt
	// to the chat backend and returns the assistant's reply text.
	Reply(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// SentimentProvider rates the emotional intensity of an utterance on the
// 1 to 5 scale used by star-rating sentiment models (1 = very negative,
// 5 = very positive).
type SentimentProvider interface {
	// Rate returns the intensity rating for text, in 1..5.
	Rate(ctx context.Context, text string) (int, error)
}
