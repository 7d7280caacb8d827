package similarity

import (
	"math"

	"lorevec/internal/domain"
)

// Cosine computes the cosine similarity between two vectors: the dot product
// divided by the product of their magnitudes. The result lies in [-1, 1].
//
// Vectors of different lengths fail with DimensionMismatchError; they are
// never truncated or padded. A zero-norm input fails with ErrZeroNormVector
// instead of producing NaN.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &domain.DimensionMismatchError{Want: len(a), Got: len(b)}
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, domain.ErrZeroNormVector
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
