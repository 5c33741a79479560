// Package retriever ranks indexed units against a query vector by
// cosine similarity.
package retriever

import (
	"math"
	"sort"

	"bankdocs/internal/domain"
)

// DefaultTopK is the baseline deployment retrieval depth.
const DefaultTopK = 4

// Retrieve returns the k units most similar to the query vector, in
// non-increasing score order. Ties keep the index order. Units with a
// zero-norm vector score negative infinity and are excluded. Retrieving
// from an empty index fails with domain.ErrEmptyIndex; k larger than the
// index is clamped, never an error.
func Retrieve(query []float64, idx *domain.Index, k int) ([]domain.Result, error) {
	if idx == nil || len(idx.Units) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if k <= 0 {
		k = DefaultTopK
	}

	results := make([]domain.Result, 0, len(idx.Units))
	for _, u := range idx.Units {
		score := Cosine(query, u.Vector)
		if math.IsInf(score, -1) {
			continue
		}
		results = append(results, domain.Result{Unit: u, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Cosine returns the cosine similarity of a and b in [-1, 1]. If either
// vector has zero norm the similarity is negative infinity, so degenerate
// embeddings rank below everything instead of dividing by zero.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return math.Inf(-1)
	}
	return dot / denom
}
