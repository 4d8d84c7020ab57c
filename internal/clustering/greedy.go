package clustering

// GreedyCosine is a deterministic threshold clustering for small batches.
// It computes the full pairwise cosine similarity matrix and, visiting points
// in index order, assigns a fresh label to every similar-set large enough to
// form a cluster.
//
// Label assignment is intentionally unconditional: a point labeled by an
// earlier similar-set can be re-labeled when a later unassigned point sweeps
// it into its own set. This matches the historical behavior that downstream
// output comparisons depend on.
type GreedyCosine struct {
	Threshold      float64 // similarity above this joins the set
	MinClusterSize int
}

// NewGreedyCosine creates a greedy cosine strategy.
func NewGreedyCosine(threshold float64, minClusterSize int) *GreedyCosine {
	return &GreedyCosine{
		Threshold:      threshold,
		MinClusterSize: minClusterSize,
	}
}

// Name returns the strategy name used in run statistics.
func (g *GreedyCosine) Name() string {
	return "cosine_greedy"
}

// Cluster assigns labels to vectors. For a fixed input and threshold, two
// runs produce identical label arrays.
func (g *GreedyCosine) Cluster(vectors [][]float32) []int {
	n := len(vectors)
	if n == 0 {
		return nil
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}

	matrix := similarityMatrix(vectors)

	clusterID := 0
	for i := 0; i < n; i++ {
		if labels[i] != Noise {
			continue
		}

		var similar []int
		for j := 0; j < n; j++ {
			if matrix[i][j] > g.Threshold {
				similar = append(similar, j)
			}
		}

		if len(similar) >= g.MinClusterSize {
			for _, j := range similar {
				labels[j] = clusterID
			}
			clusterID++
		}
	}

	return labels
}
