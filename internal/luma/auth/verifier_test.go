package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// fakeEmbedder returns a canned embedding per file base name.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) EmbedFile(_ context.Context, path string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vec, ok := f.vectors[filepath.Base(path)]
	if !ok {
		return nil, fmt.Errorf("no canned vector for %s", path)
	}
	return vec, nil
}

func writeSample(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("RIFF fake wav"), 0o600); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestNewVerifier_MissingReference(t *testing.T) {
	_, err := NewVerifier(context.Background(), &fakeEmbedder{}, "/does/not/exist.wav", nil)
	if !errors.Is(err, ErrEnrollment) {
		t.Fatalf("expected ErrEnrollment, got %v", err)
	}
}

func TestNewVerifier_EmbedFailure(t *testing.T) {
	ref := writeSample(t, "ref.wav")
	_, err := NewVerifier(context.Background(), &fakeEmbedder{err: errors.New("service down")}, ref, nil)
	if !errors.Is(err, ErrEnrollment) {
		t.Fatalf("expected ErrEnrollment, got %v", err)
	}
}

func TestVerify_IdenticalEmbeddingAccepts(t *testing.T) {
	ref := writeSample(t, "ref.wav")
	cand := writeSample(t, "cand.wav")
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"ref.wav":  {0.5, 0.5, 0.5},
		"cand.wav": {0.5, 0.5, 0.5},
	}}

	v, err := NewVerifier(context.Background(), emb, ref, nil)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	d := v.Verify(context.Background(), cand, 0.75)
	if !d.Accepted {
		t.Errorf("identical embeddings should accept at 0.75, got %+v", d)
	}
	if d.Similarity < 0.999 || d.Similarity > 1.001 {
		t.Errorf("expected similarity 1.0, got %v", d.Similarity)
	}
}

func TestVerify_OrthogonalEmbeddingRejects(t *testing.T) {
	ref := writeSample(t, "ref.wav")
	cand := writeSample(t, "cand.wav")
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"ref.wav":  {1, 0},
		"cand.wav": {0, 1},
	}}

	v, err := NewVerifier(context.Background(), emb, ref, nil)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	d := v.Verify(context.Background(), cand, 0.75)
	if d.Accepted {
		t.Errorf("orthogonal embeddings should reject, got %+v", d)
	}
	if d.Similarity > 0.001 || d.Similarity < -0.001 {
		t.Errorf("expected similarity ~0, got %v", d.Similarity)
	}
	if d.Reason == "" {
		t.Error("rejection should carry a reason")
	}
}

func TestVerify_ThresholdMonotonic(t *testing.T) {
	ref := writeSample(t, "ref.wav")
	cand := writeSample(t, "cand.wav")
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"ref.wav":  {1, 1, 0},
		"cand.wav": {1, 0.8, 0.1},
	}}

	v, err := NewVerifier(context.Background(), emb, ref, nil)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	thresholds := []float64{0.1, 0.3, 0.5, 0.7, 0.9, 0.99}
	prevAccepted := true
	for _, th := range thresholds {
		d := v.Verify(context.Background(), cand, th)
		// Once a threshold rejects, every higher threshold must reject too.
		if d.Accepted && !prevAccepted {
			t.Fatalf("acceptance not monotonic: accepted at %v after rejecting at a lower threshold", th)
		}
		prevAccepted = d.Accepted
	}
}

func TestVerify_FailsClosed(t *testing.T) {
	ref := writeSample(t, "ref.wav")
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"ref.wav": {1, 0, 0},
	}}

	v, err := NewVerifier(context.Background(), emb, ref, nil)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	t.Run("missing candidate", func(t *testing.T) {
		d := v.Verify(context.Background(), "/does/not/exist.wav", 0.75)
		if d.Accepted {
			t.Error("missing candidate must reject")
		}
	})

	t.Run("embedder error", func(t *testing.T) {
		cand := writeSample(t, "unknown.wav")
		d := v.Verify(context.Background(), cand, 0.75)
		if d.Accepted {
			t.Error("embedder error must reject")
		}
		if d.Reason == "" {
			t.Error("rejection should carry a diagnostic reason")
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		cand := writeSample(t, "short.wav")
		emb.vectors["short.wav"] = []float32{1}
		d := v.Verify(context.Background(), cand, 0.75)
		if d.Accepted {
			t.Error("dimension mismatch must reject")
		}
	})
}

func TestCosineSimilarity_Degenerate(t *testing.T) {
	if got := cosineSimilarity(nil, nil); got != 0 {
		t.Errorf("empty vectors: expected 0, got %v", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("zero magnitude: expected 0, got %v", got)
	}
	if got := cosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}); got != 0 {
		t.Errorf("length mismatch: expected 0, got %v", got)
	}
}
