// Package embedding defines the interface the classification engine consumes
// to turn text into vectors, plus the small amount of vector math the scorer
// needs.
package embedding

import (
	"context"
	"math"
)

// Provider turns text into fixed-length embedding vectors. Implementations
// may block on external compute; callers are expected to bound calls with a
// context deadline.
type Provider interface {
	// Embed returns the embedding of a single text.
	Embed(ctx context.Context, text string, language string) ([]float32, error)

	// EmbedBatch returns one embedding per input text, in order.
	EmbedBatch(ctx context.Context, texts []string, language string) ([][]float32, error)
}

// IsDegenerate reports whether a vector is a soft-failure signal from the
// provider: empty, or every element equal (a constant vector carries no
// direction and would make cosine similarity meaningless).
func IsDegenerate(vec []float32) bool {
	if len(vec) == 0 {
		return true
	}
	first := vec[0]
	for _, v := range vec[1:] {
		if v != first {
			return false
		}
	}
	return true
}

// Cosine returns the cosine similarity of two vectors, in [-1, 1]. Vectors of
// different lengths or zero magnitude score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
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
