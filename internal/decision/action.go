package decision

import (
	"github.com/rs/zerolog"

	"github.com/janwang001/ai-invest-news/internal/models"
)

// ActionMapper maps an (importance, signal) pair to a recommended action.
type ActionMapper interface {
	Map(importance models.Importance, signal models.Signal) models.Action
}

// TableActionMapper is the fixed 3x3 lookup:
//
//	            Positive  Neutral  Risk
//	High        Hold      Watch    Avoid
//	Medium      Watch     Watch    Avoid
//	Low         Avoid     Avoid    Avoid
//
// It is a total function. Invalid inputs are clamped to their safest default
// (importance Low, signal Neutral) with a warning, because the mapper sits
// at the end of a pipeline that must not crash on malformed state.
type TableActionMapper struct {
	logger zerolog.Logger
}

// NewActionMapper creates a TableActionMapper.
func NewActionMapper(logger zerolog.Logger) *TableActionMapper {
	return &TableActionMapper{logger: logger}
}

// Map returns the action for the given pair, clamping invalid values first.
func (m *TableActionMapper) Map(importance models.Importance, signal models.Signal) models.Action {
	if !importance.Valid() {
		m.logger.Warn().
			Str("importance", string(importance)).
			Msg("Invalid importance level, defaulting to Low")
		importance = models.ImportanceLow
	}
	if !signal.Valid() {
		m.logger.Warn().
			Str("signal", string(signal)).
			Msg("Invalid signal direction, defaulting to Neutral")
		signal = models.SignalNeutral
	}

	switch importance {
	case models.ImportanceHigh:
		switch signal {
		case models.SignalPositive:
			return models.ActionHold
		case models.SignalRisk:
			return models.ActionAvoid
		default:
			return models.ActionWatch
		}
	case models.ImportanceMedium:
		switch signal {
		case models.SignalRisk:
			return models.ActionAvoid
		default:
			return models.ActionWatch
		}
	default:
		return models.ActionAvoid
	}
}
