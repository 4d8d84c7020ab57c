package decision

import (
	"github.com/rs/zerolog"

	"github.com/janwang001/ai-invest-news/internal/config"
	apperrors "github.com/janwang001/ai-invest-news/internal/errors"
	"github.com/janwang001/ai-invest-news/internal/logging"
	"github.com/janwang001/ai-invest-news/internal/models"
)

// Stats aggregates one decision batch: label distributions, per-event
// errors, and the overall success rate.
type Stats struct {
	TotalEvents            int                       `json:"total_events"`
	SuccessCount           int                       `json:"success_count"`
	ErrorCount             int                       `json:"error_count"`
	SuccessRate            float64                   `json:"success_rate"`
	ImportanceDistribution map[models.Importance]int `json:"importance_distribution"`
	SignalDistribution     map[models.Signal]int     `json:"signal_distribution"`
	ActionDistribution     map[models.Action]int     `json:"action_distribution"`
	Errors                 []string                  `json:"errors,omitempty"`
}

func newStats(total int) Stats {
	return Stats{
		TotalEvents: total,
		ImportanceDistribution: map[models.Importance]int{
			models.ImportanceHigh: 0, models.ImportanceMedium: 0, models.ImportanceLow: 0,
		},
		SignalDistribution: map[models.Signal]int{
			models.SignalPositive: 0, models.SignalNeutral: 0, models.SignalRisk: 0,
		},
		ActionDistribution: map[models.Action]int{
			models.ActionWatch: 0, models.ActionHold: 0, models.ActionAvoid: 0,
		},
	}
}

// Pipeline runs the three rule engines per event and attaches the combined
// decision.
type Pipeline struct {
	importance ImportanceEvaluator
	signal     SignalClassifier
	action     ActionMapper
	logger     zerolog.Logger
}

// NewPipeline creates a decision pipeline with the default rule engines.
func NewPipeline(cfg config.DecisionConfig, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		importance: NewImportanceEvaluator(cfg, logger),
		signal:     NewSignalClassifier(cfg, logger),
		action:     NewActionMapper(logger),
		logger:     logger,
	}
}

// NewPipelineWithEngines creates a pipeline with injected engines, for tests
// and alternative rule sets.
func NewPipelineWithEngines(importance ImportanceEvaluator, signal SignalClassifier, action ActionMapper, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		importance: importance,
		signal:     signal,
		action:     action,
		logger:     logger,
	}
}

// decideOne computes the decision triple for one event, rejecting any label
// outside the enumerated values so a misbehaving engine cannot attach
// malformed state.
func (p *Pipeline) decideOne(event *models.Event) (models.Decision, error) {
	importance := p.importance.Evaluate(event)
	if !importance.Valid() {
		return models.Decision{}, apperrors.NewDecisionError(event.EventID, "importance",
			apperrors.Wrapf(apperrors.ErrInputValidation, "invalid importance %q", importance))
	}

	signal := p.signal.Classify(event)
	if !signal.Valid() {
		return models.Decision{}, apperrors.NewDecisionError(event.EventID, "signal",
			apperrors.Wrapf(apperrors.ErrInputValidation, "invalid signal %q", signal))
	}

	action := p.action.Map(importance, signal)
	if !action.Valid() {
		return models.Decision{}, apperrors.NewDecisionError(event.EventID, "action",
			apperrors.Wrapf(apperrors.ErrInputValidation, "invalid action %q", action))
	}

	return models.Decision{
		Importance: importance,
		Signal:     signal,
		Action:     action,
	}, nil
}

// Decide attaches a decision to every event and returns the list. Deciding
// an already-decided list reproduces identical decisions.
func (p *Pipeline) Decide(events []models.Event) []models.Event {
	decided := make([]models.Event, 0, len(events))
	for i := range events {
		event := events[i]
		if d, err := p.decideOne(&event); err == nil {
			event.Decision = &d
		}
		decided = append(decided, event)
	}
	return decided
}

// DecideWithStats decides a batch with per-event failure isolation: a failed
// event is kept in the output without a decision, the error is recorded, and
// the batch continues.
func (p *Pipeline) DecideWithStats(events []models.Event) ([]models.Event, Stats) {
	if len(events) == 0 {
		p.logger.Info().Msg("No events to decide")
		return []models.Event{}, newStats(0)
	}

	stats := newStats(len(events))
	decided := make([]models.Event, 0, len(events))

	for i := range events {
		event := events[i]
		d, err := p.decideOne(&event)
		if err != nil {
			stats.ErrorCount++
			stats.Errors = append(stats.Errors, err.Error())
			p.logger.Error().Err(err).Str("event_id", event.EventID).Msg("Event decision failed")
			decided = append(decided, event)
			continue
		}

		event.Decision = &d
		decided = append(decided, event)

		stats.SuccessCount++
		stats.ImportanceDistribution[d.Importance]++
		stats.SignalDistribution[d.Signal]++
		stats.ActionDistribution[d.Action]++
		logging.LogDecision(p.logger, event.EventID,
			string(d.Importance), string(d.Signal), string(d.Action))
	}

	stats.SuccessRate = float64(stats.SuccessCount) / float64(max(stats.TotalEvents, 1))

	p.logger.Info().
		Int("success", stats.SuccessCount).
		Int("errors", stats.ErrorCount).
		Float64("success_rate", stats.SuccessRate).
		Msg("Decision batch completed")

	return decided, stats
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
