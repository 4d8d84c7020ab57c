package models

// Importance classifies an event's materiality.
type Importance string

// Importance tiers, ordered from most to least material.
const (
	ImportanceHigh   Importance = "High"
	ImportanceMedium Importance = "Medium"
	ImportanceLow    Importance = "Low"
)

// Valid reports whether the importance is one of the enumerated tiers.
func (i Importance) Valid() bool {
	switch i {
	case ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	}
	return false
}

// Signal classifies an event's market direction.
type Signal string

// Signal directions.
const (
	SignalPositive Signal = "Positive"
	SignalNeutral  Signal = "Neutral"
	SignalRisk     Signal = "Risk"
)

// Valid reports whether the signal is one of the enumerated directions.
func (s Signal) Valid() bool {
	switch s {
	case SignalPositive, SignalNeutral, SignalRisk:
		return true
	}
	return false
}

// Action is the recommended investment posture for an event.
type Action string

// Recommended actions.
const (
	ActionWatch Action = "Watch"
	ActionHold  Action = "Hold"
	ActionAvoid Action = "Avoid"
)

// Valid reports whether the action is one of the enumerated postures.
func (a Action) Valid() bool {
	switch a {
	case ActionWatch, ActionHold, ActionAvoid:
		return true
	}
	return false
}

// Decision is the immutable triple attached to an event by the decision
// pipeline.
type Decision struct {
	Importance Importance `json:"importance"`
	Signal     Signal     `json:"signal"`
	Action     Action     `json:"action"`
}
