package clustering

import (
	"github.com/rs/zerolog"

	"github.com/janwang001/ai-invest-news/internal/config"
	"github.com/janwang001/ai-invest-news/internal/models"
)

// RunStats describes one raw clustering pass plus validity filtering.
type RunStats struct {
	NClusters        int    `json:"n_clusters"`
	NoisePoints      int    `json:"noise_points"`
	TotalPoints      int    `json:"total_points"`
	AlgorithmUsed    string `json:"algorithm_used"`
	SampleSize       int    `json:"sample_size"`
	OriginalClusters int    `json:"original_clusters"`
	ValidEvents      int    `json:"valid_events"`
	FilteredClusters int    `json:"filtered_clusters"`
}

// Clusterer groups news items by embedding similarity and filters candidate
// clusters through the event-validity criteria.
type Clusterer struct {
	clustering config.ClusteringConfig
	validity   config.ValidityConfig
	logger     zerolog.Logger

	// Stats of the most recent run, for pipeline-level reporting.
	lastStats RunStats
}

// New creates a Clusterer with the given configuration.
func New(clustering config.ClusteringConfig, validity config.ValidityConfig, logger zerolog.Logger) *Clusterer {
	return &Clusterer{
		clustering: clustering,
		validity:   validity,
		logger:     logger,
	}
}

// SelectStrategy returns the clustering strategy for a batch of n vectors:
// greedy cosine for small batches, density clustering otherwise.
func (c *Clusterer) SelectStrategy(n int) Strategy {
	if n <= c.clustering.SmallBatchLimit {
		return NewGreedyCosine(c.clustering.SimilarityThreshold, c.clustering.MinClusterSize)
	}
	return NewDensity(c.clustering.SelectionEpsilon, c.clustering.MinClusterSize)
}

// FitCluster assigns a label per vector and reports raw clustering stats.
func (c *Clusterer) FitCluster(vectors [][]float32) ([]int, RunStats) {
	if len(vectors) == 0 {
		return nil, RunStats{}
	}

	strategy := c.SelectStrategy(len(vectors))
	labels := strategy.Cluster(vectors)

	stats := RunStats{
		AlgorithmUsed: strategy.Name(),
		SampleSize:    len(vectors),
		TotalPoints:   len(labels),
	}
	seen := make(map[int]struct{})
	for _, label := range labels {
		if label == Noise {
			stats.NoisePoints++
			continue
		}
		seen[label] = struct{}{}
	}
	stats.NClusters = len(seen)

	c.logger.Debug().
		Str("algorithm", stats.AlgorithmUsed).
		Int("samples", stats.SampleSize).
		Int("clusters", stats.NClusters).
		Int("noise_points", stats.NoisePoints).
		Msg("Raw clustering completed")

	return labels, stats
}

// ClusterNews clusters news items by their vectors and returns only the
// clusters that pass the event-validity filter. Noise points never appear in
// the output. Rejections are silent; counts land in LastStats.
func (c *Clusterer) ClusterNews(items []models.NewsItem, vectors [][]float32) [][]models.NewsItem {
	if len(items) == 0 || len(vectors) == 0 || len(items) != len(vectors) {
		c.lastStats = RunStats{}
		return nil
	}

	labels, stats := c.FitCluster(vectors)

	// Group by label in first-occurrence order, dropping noise.
	groups := make(map[int][]models.NewsItem)
	var order []int
	for i, item := range items {
		label := labels[i]
		if label == Noise {
			continue
		}
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], item)
	}

	var valid [][]models.NewsItem
	for _, label := range order {
		cluster := groups[label]
		if c.isValidEvent(cluster) {
			valid = append(valid, cluster)
		}
	}

	stats.OriginalClusters = len(order)
	stats.ValidEvents = len(valid)
	stats.FilteredClusters = len(order) - len(valid)
	c.lastStats = stats

	return valid
}

// isValidEvent applies the event-validity criteria: enough members, enough
// distinct companies and signal tags, and a sufficient mean investment score.
func (c *Clusterer) isValidEvent(cluster []models.NewsItem) bool {
	if len(cluster) < c.validity.MinEventSize {
		return false
	}

	companies := make(map[string]struct{})
	signals := make(map[string]struct{})
	var totalScore float64
	for _, item := range cluster {
		for _, company := range item.Companies {
			companies[company] = struct{}{}
		}
		for _, signal := range item.Signals {
			signals[signal] = struct{}{}
		}
		totalScore += item.InvestmentScore
	}
	avgScore := totalScore / float64(len(cluster))

	return len(companies) >= c.validity.MinCompanyCount &&
		len(signals) >= c.validity.MinSignalCount &&
		avgScore >= c.validity.MinInvestmentScore
}

// LastStats returns the statistics of the most recent ClusterNews run.
func (c *Clusterer) LastStats() RunStats {
	return c.lastStats
}

// Thresholds returns the active validity thresholds, mainly for reporting.
func (c *Clusterer) Thresholds() config.ValidityConfig {
	return c.validity
}
