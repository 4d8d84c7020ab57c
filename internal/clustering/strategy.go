// Package clustering groups embedding vectors into candidate event clusters.
package clustering

import "math"

// Noise is the sentinel label for points that belong to no cluster.
const Noise = -1

// Strategy assigns a cluster label to every vector. Labels are dense
// non-negative integers; Noise marks unclustered points.
type Strategy interface {
	Name() string
	Cluster(vectors [][]float32) []int
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Zero vectors yield 0.
func cosineSimilarity(a, b []float32) float64 {
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

// similarityMatrix computes the full pairwise cosine similarity matrix.
func similarityMatrix(vectors [][]float32) [][]float64 {
	n := len(vectors)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		matrix[i][i] = 1
		for j := i + 1; j < n; j++ {
			sim := cosineSimilarity(vectors[i], vectors[j])
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}
	return matrix
}
