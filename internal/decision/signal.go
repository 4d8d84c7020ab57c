package decision

import (
	"github.com/rs/zerolog"

	"github.com/janwang001/ai-invest-news/internal/config"
	"github.com/janwang001/ai-invest-news/internal/models"
)

// SignalClassifier assigns a market-signal direction to an event.
type SignalClassifier interface {
	Classify(event *models.Event) models.Signal
}

// KeywordSignalClassifier classifies by intersecting the union of the
// event's signal tags with fixed positive and risk keyword sets. It is
// total: events with no recognizable tags are Neutral.
type KeywordSignalClassifier struct {
	positive map[string]struct{}
	risk     map[string]struct{}
	logger   zerolog.Logger
}

// NewSignalClassifier creates a keyword classifier from the configured sets.
func NewSignalClassifier(cfg config.DecisionConfig, logger zerolog.Logger) *KeywordSignalClassifier {
	return &KeywordSignalClassifier{
		positive: toSet(cfg.PositiveSignals),
		risk:     toSet(cfg.RiskSignals),
		logger:   logger,
	}
}

func toSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[kw] = struct{}{}
	}
	return set
}

// Classify applies the decision table: positive-only is Positive, risk-only
// is Risk, both present is Neutral (mixed signal), neither is Neutral.
func (c *KeywordSignalClassifier) Classify(event *models.Event) models.Signal {
	if event == nil {
		return models.SignalNeutral
	}

	var hasPositive, hasRisk bool
	for tag := range event.SignalSet() {
		if _, ok := c.positive[tag]; ok {
			hasPositive = true
		}
		if _, ok := c.risk[tag]; ok {
			hasRisk = true
		}
	}

	c.logger.Debug().
		Str("event_id", event.EventID).
		Bool("has_positive", hasPositive).
		Bool("has_risk", hasRisk).
		Msg("Classifying signal")

	switch {
	case hasPositive && !hasRisk:
		return models.SignalPositive
	case hasRisk && !hasPositive:
		return models.SignalRisk
	default:
		return models.SignalNeutral
	}
}
