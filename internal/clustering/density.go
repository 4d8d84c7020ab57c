package clustering

// Density is a DBSCAN clustering over cosine distance, used for larger
// batches where the cluster count is unknown up front. Sparse points are
// marked as noise.
type Density struct {
	Epsilon        float64 // max cosine distance (1 - similarity) to be a neighbor
	MinClusterSize int     // minimum points, core point included
}

// NewDensity creates a density strategy.
func NewDensity(epsilon float64, minClusterSize int) *Density {
	return &Density{
		Epsilon:        epsilon,
		MinClusterSize: minClusterSize,
	}
}

// Name returns the strategy name used in run statistics.
func (d *Density) Name() string {
	return "dbscan"
}

// Cluster runs DBSCAN and returns a label per vector.
func (d *Density) Cluster(vectors [][]float32) []int {
	n := len(vectors)
	if n == 0 {
		return nil
	}

	matrix := similarityMatrix(vectors)
	neighbors := func(i int) []int {
		var result []int
		for j := 0; j < n; j++ {
			if 1-matrix[i][j] <= d.Epsilon {
				result = append(result, j)
			}
		}
		return result
	}

	const unvisited = -2
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	clusterID := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}

		seeds := neighbors(i)
		if len(seeds) < d.MinClusterSize {
			labels[i] = Noise
			continue
		}

		labels[i] = clusterID
		queue := append([]int(nil), seeds...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if labels[j] == Noise {
				// Border point reached from a core point.
				labels[j] = clusterID
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = clusterID

			jNeighbors := neighbors(j)
			if len(jNeighbors) >= d.MinClusterSize {
				queue = append(queue, jNeighbors...)
			}
		}
		clusterID++
	}

	return labels
}
