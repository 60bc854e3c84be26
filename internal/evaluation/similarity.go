package evaluation

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CosineSimilarity computes dot(a,b) / (|a|*|b|). Mismatched lengths and
// zero-magnitude vectors score 0.0 instead of erroring.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	dotProduct := floats.Dot(a, b)
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)

	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dotProduct / (normA * normB)
	if math.IsNaN(sim) {
		return 0.0
	}
	return sim
}

// SimilarityMatrix computes the full NxN pairwise cosine similarity matrix
// for a set of embeddings. The diagonal is 1.0.
func SimilarityMatrix(embeddings [][]float64) *mat.Dense {
	n := len(embeddings)
	sims := mat.NewDense(n, n, nil)

	for i := range n {
		sims.Set(i, i, 1.0)
		for j := i + 1; j < n; j++ {
			sim := CosineSimilarity(embeddings[i], embeddings[j])
			sims.Set(i, j, sim)
			sims.Set(j, i, sim)
		}
	}

	return sims
}

// UpperTriangleMean returns the mean over the strict upper triangle of a
// similarity matrix, i.e. the mean pairwise similarity across all unordered
// pairs. Returns 0.0 when there are no pairs.
func UpperTriangleMean(sims *mat.Dense) float64 {
	rows, _ := sims.Dims()

	var sum float64
	var count int
	for i := range rows {
		for j := i + 1; j < rows; j++ {
			sum += sims.At(i, j)
			count++
		}
	}

	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}
