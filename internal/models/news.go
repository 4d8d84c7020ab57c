// Package models defines the core data types shared across the event pipeline.
package models

// NewsItem represents a single pre-filtered news article produced upstream.
// Items are read-only inputs: the pipeline never mutates the caller's copy.
type NewsItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
	URL     string `json:"url"`
	Date    string `json:"date"` // sortable fixed format (ISO-like)

	// Optional enrichment produced by upstream extractors. Missing fields
	// degrade scoring gracefully rather than erroring.
	Signals         []string `json:"signals,omitempty"`
	Companies       []string `json:"companies,omitempty"`
	InvestmentScore float64  `json:"investment_score,omitempty"`
}
