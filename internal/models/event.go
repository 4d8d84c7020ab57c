package models

// DateRange holds the earliest and latest publication dates of an event's
// member news items.
type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// Event is a validated group of related news items believed to describe one
// real-world happening. Events are created by the summarizer and mutated
// exactly once by the decision pipeline (attachment of Decision).
type Event struct {
	EventID             string     `json:"event_id"`
	NewsCount           int        `json:"news_count"`
	Sources             []string   `json:"sources"`
	DateRange           DateRange  `json:"date_range"`
	Keywords            []string   `json:"keywords"`
	RepresentativeTitle string     `json:"representative_title"`
	Summary             string     `json:"summary"`
	NewsList            []NewsItem `json:"news_list"`

	// Decision is nil until the decision stage runs, and stays nil for an
	// event whose decision failed. Downstream consumers must treat it as
	// optional.
	Decision *Decision `json:"decision,omitempty"`
}

// AvgInvestmentScore returns the mean investment score across the event's
// member news items, or 0 for an empty event.
func (e *Event) AvgInvestmentScore() float64 {
	if len(e.NewsList) == 0 {
		return 0
	}
	var total float64
	for _, n := range e.NewsList {
		total += n.InvestmentScore
	}
	return total / float64(len(e.NewsList))
}

// DistinctSources returns the number of distinct source names in the event.
func (e *Event) DistinctSources() int {
	seen := make(map[string]struct{}, len(e.Sources))
	for _, s := range e.Sources {
		seen[s] = struct{}{}
	}
	return len(seen)
}

// SignalSet returns the union of signal tags across the event's news items.
func (e *Event) SignalSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, n := range e.NewsList {
		for _, s := range n.Signals {
			set[s] = struct{}{}
		}
	}
	return set
}
