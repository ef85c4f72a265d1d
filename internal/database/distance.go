package database

import "math"

// EuclideanDistance computes the L2 distance between two vectors. It is used
// by backends without native vector search (MySQL, the in-memory mock) and
// for re-ranking HNSW candidates. Mismatched or empty vectors return +Inf so
// they always sort last.
func EuclideanDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
