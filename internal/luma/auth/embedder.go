// Package auth implements the voice verification gate.
//
// A fixed-length embedding is computed for an enrolled reference sample at
// construction time; every later verification attempt embeds a candidate
// sample and compares the two by cosine similarity against a configured
// threshold. Every failure inside the gate degrades to a reject decision,
// never a crash: the gate fails closed.
package auth

import "context"

// Embedder produces a fixed-length voice embedding for an audio sample on
// disk. Implementations call an external speaker-embedding service; the
// embedding model itself is outside this system's scope.
type Embedder interface {
	// EmbedFile reads the audio file at path and returns its embedding.
	EmbedFile(ctx context.Context, path string) ([]float32, error)
}
