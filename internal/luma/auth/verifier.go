package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
)

// ErrEnrollment is returned by NewVerifier when the reference voice sample
// is missing or cannot be embedded. The assistant cannot run without an
// enrolled reference, so this error is fatal at startup.
var ErrEnrollment = errors.New("auth: enrollment failed")

// Decision is the outcome of one verification attempt. It is derived state,
// never persisted.
type Decision struct {
	// Accepted is true when the candidate matched the enrolled speaker.
	Accepted bool

	// Similarity is the cosine similarity that produced the decision,
	// in [-1, 1]. Zero when the attempt failed before comparison.
	Similarity float64

	// Reason explains a rejection; empty on acceptance.
	Reason string
}

// Verifier holds the enrolled reference embedding and answers whether a
// candidate sample was spoken by the same person. The verifier performs no
// learning and no threshold adaptation.
type Verifier struct {
	embedder Embedder
	ref      []float32
	logger   *slog.Logger
}

// NewVerifier embeds the reference sample at refPath and returns a Verifier
// holding the resulting embedding. Returns an error wrapping ErrEnrollment
// when the file is missing, unreadable, or cannot be embedded. Enrollment
// happens exactly once, at construction.
func NewVerifier(ctx context.Context, embedder Embedder, refPath string, logger *slog.Logger) (*Verifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := os.Stat(refPath); err != nil {
		return nil, fmt.Errorf("%w: reference sample %s: %v", ErrEnrollment, refPath, err)
	}

	ref, err := embedder.EmbedFile(ctx, refPath)
	if err != nil {
		return nil, fmt.Errorf("%w: embed reference sample: %v", ErrEnrollment, err)
	}

	logger.Info("auth: enrolled reference voice sample", "path", refPath, "dimensions", len(ref))
	return &Verifier{embedder: embedder, ref: ref, logger: logger}, nil
}

// Verify embeds the candidate sample and accepts it when the cosine
// similarity with the enrolled reference meets threshold. Every internal
// failure (missing file, embedding error, degenerate vectors) produces a
// reject decision with a diagnostic reason; Verify never returns an error
// and never panics past its own boundary.
func (v *Verifier) Verify(ctx context.Context, candidatePath string, threshold float64) Decision {
	if _, err := os.Stat(candidatePath); err != nil {
		return v.reject(fmt.Sprintf("candidate sample not readable: %v", err))
	}

	candidate, err := v.embedder.EmbedFile(ctx, candidatePath)
	if err != nil {
		return v.reject(fmt.Sprintf("embed candidate sample: %v", err))
	}

	if len(candidate) != len(v.ref) {
		return v.reject(fmt.Sprintf("embedding dimension mismatch: reference %d, candidate %d", len(v.ref), len(candidate)))
	}

	sim := cosineSimilarity(v.ref, candidate)
	decision := Decision{
		Accepted:   sim >= threshold,
		Similarity: sim,
	}
	if !decision.Accepted {
		decision.Reason = fmt.Sprintf("similarity %.4f below threshold %.4f", sim, threshold)
	}

	v.logger.Info("auth: verification decision",
		"accepted", decision.Accepted,
		"similarity", fmt.Sprintf("%.4f", sim),
		"threshold", threshold,
	)
	return decision
}

func (v *Verifier) reject(reason string) Decision {
	v.logger.Warn("auth: verification rejected", "reason", reason)
	return Decision{Accepted: false, Reason: reason}
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 if either vector is empty or has zero magnitude.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
