// Package pipeline orchestrates embedding, clustering, and summarization
// over one batch of news items.
package pipeline

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/janwang001/ai-invest-news/internal/clustering"
	"github.com/janwang001/ai-invest-news/internal/embedding"
	apperrors "github.com/janwang001/ai-invest-news/internal/errors"
	"github.com/janwang001/ai-invest-news/internal/logging"
	"github.com/janwang001/ai-invest-news/internal/models"
	"github.com/janwang001/ai-invest-news/internal/summary"
)

// RunStats aggregates one pipeline run. Error is set when a stage failed and
// the run degraded to an empty event list.
type RunStats struct {
	TotalNews        int     `json:"total_news"`
	ClustersDetected int     `json:"clusters_detected"`
	FilteredClusters int     `json:"filtered_clusters"`
	ValidEvents      int     `json:"valid_events"`
	EventsSummarized int     `json:"events_summarized"`
	NewsInEvents     int     `json:"news_in_events"`
	CoverageRate     float64 `json:"coverage_rate"`
	MinEventSize     int     `json:"min_event_size"`
	AvgEventSize     float64 `json:"avg_event_size"`
	MaxEventSize     int     `json:"max_event_size"`
	Error            string  `json:"error,omitempty"`
}

// EventPipeline runs embedder, clusterer, and summarizer over one batch.
// It never returns an error: the monitor runs unattended on a schedule, so a
// bad batch degrades to an empty event list recorded in stats.
type EventPipeline struct {
	embedder   embedding.Embedder
	clusterer  *clustering.Clusterer
	summarizer *summary.Summarizer
	logger     zerolog.Logger
}

// New creates an EventPipeline.
func New(embedder embedding.Embedder, clusterer *clustering.Clusterer, summarizer *summary.Summarizer, logger zerolog.Logger) *EventPipeline {
	return &EventPipeline{
		embedder:   embedder,
		clusterer:  clusterer,
		summarizer: summarizer,
		logger:     logger,
	}
}

// AnalyzeEvents runs the full embed → cluster → summarize flow. Empty input
// short-circuits without touching the embedding model.
func (p *EventPipeline) AnalyzeEvents(ctx context.Context, items []models.NewsItem) ([]models.Event, RunStats) {
	logger := logging.WithStage(p.logger, "event_pipeline")

	if len(items) == 0 {
		logger.Warn().Msg("Empty news list, skipping event analysis")
		return []models.Event{}, RunStats{}
	}

	stats := RunStats{TotalNews: len(items)}

	vectors, err := p.embedder.EmbedNews(ctx, items)
	if err != nil {
		stageErr := apperrors.NewStageError("embedding", err)
		logger.Error().Err(stageErr).Msg("Event analysis failed")
		stats.Error = stageErr.Error()
		return []models.Event{}, stats
	}
	logger.Debug().Int("vectors", len(vectors)).Msg("Text embedding completed")

	clusters := p.clusterer.ClusterNews(items, vectors)
	clusterStats := p.clusterer.LastStats()
	stats.ClustersDetected = clusterStats.OriginalClusters
	stats.FilteredClusters = clusterStats.FilteredClusters
	stats.ValidEvents = clusterStats.ValidEvents
	logger.Debug().
		Int("raw_clusters", stats.ClustersDetected).
		Int("valid_events", stats.ValidEvents).
		Msg("News clustering completed")

	events := p.summarizer.SummarizeEvents(clusters)
	stats.EventsSummarized = len(events)

	if len(events) > 0 {
		stats.MinEventSize = events[len(events)-1].NewsCount
		stats.MaxEventSize = events[0].NewsCount
		for _, event := range events {
			stats.NewsInEvents += event.NewsCount
		}
		stats.CoverageRate = float64(stats.NewsInEvents) / float64(stats.TotalNews)
		stats.AvgEventSize = float64(stats.NewsInEvents) / float64(len(events))
	}

	logging.LogRun(logger, stats.TotalNews, stats.EventsSummarized, stats.CoverageRate)
	return events, stats
}

// KeywordCount is one entry of a keyword frequency ranking.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// EventStatistics aggregates a decided or undecided event list for reporting.
type EventStatistics struct {
	TotalEvents     int            `json:"total_events"`
	TotalNews       int            `json:"total_news"`
	AvgNewsPerEvent float64        `json:"avg_news_per_event"`
	SourcesCoverage int            `json:"sources_coverage"`
	TopKeywords     []KeywordCount `json:"top_keywords"`
}

// Statistics computes aggregate statistics over a list of events.
func Statistics(events []models.Event) EventStatistics {
	stats := EventStatistics{TotalEvents: len(events)}
	if len(events) == 0 {
		return stats
	}

	sources := make(map[string]struct{})
	keywordCounts := make(map[string]int)
	for _, event := range events {
		stats.TotalNews += event.NewsCount
		for _, source := range event.Sources {
			sources[source] = struct{}{}
		}
		for _, keyword := range event.Keywords {
			keywordCounts[keyword]++
		}
	}
	stats.AvgNewsPerEvent = float64(stats.TotalNews) / float64(len(events))
	stats.SourcesCoverage = len(sources)

	ranked := make([]KeywordCount, 0, len(keywordCounts))
	for keyword, count := range keywordCounts {
		ranked = append(ranked, KeywordCount{Keyword: keyword, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	stats.TopKeywords = ranked

	return stats
}
