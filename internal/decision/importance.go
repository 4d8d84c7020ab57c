// Package decision classifies events into importance, signal, and action
// labels through three independent stateless rule engines.
package decision

import (
	"github.com/rs/zerolog"

	"github.com/janwang001/ai-invest-news/internal/config"
	"github.com/janwang001/ai-invest-news/internal/models"
)

// ImportanceEvaluator assigns an importance tier to an event.
type ImportanceEvaluator interface {
	Evaluate(event *models.Event) models.Importance
}

// RuleImportanceEvaluator evaluates importance from corroboration volume,
// source diversity, and mean investment score against two threshold tiers.
// It is total: malformed events fall through to Low.
type RuleImportanceEvaluator struct {
	high   config.ImportanceTier
	medium config.ImportanceTier
	logger zerolog.Logger
}

// NewImportanceEvaluator creates a rule evaluator with the given tiers.
func NewImportanceEvaluator(cfg config.DecisionConfig, logger zerolog.Logger) *RuleImportanceEvaluator {
	return &RuleImportanceEvaluator{
		high:   cfg.High,
		medium: cfg.Medium,
		logger: logger,
	}
}

// Evaluate tests the High tier first, then Medium; all three conditions of a
// tier must hold simultaneously.
func (e *RuleImportanceEvaluator) Evaluate(event *models.Event) models.Importance {
	if event == nil {
		return models.ImportanceLow
	}

	newsCount := event.NewsCount
	sources := event.DistinctSources()
	avgScore := event.AvgInvestmentScore()

	e.logger.Debug().
		Str("event_id", event.EventID).
		Int("news_count", newsCount).
		Int("sources", sources).
		Float64("avg_score", avgScore).
		Msg("Evaluating importance")

	if matchTier(e.high, newsCount, sources, avgScore) {
		return models.ImportanceHigh
	}
	if matchTier(e.medium, newsCount, sources, avgScore) {
		return models.ImportanceMedium
	}
	return models.ImportanceLow
}

func matchTier(tier config.ImportanceTier, newsCount, sources int, score float64) bool {
	return newsCount >= tier.MinNews &&
		sources >= tier.MinSources &&
		score >= tier.MinScore
}
