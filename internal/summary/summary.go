// Package summary converts validated news clusters into event records.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/janwang001/ai-invest-news/internal/models"
)

const maxKeywords = 10

// Summarizer builds Event records from clusters of related news items.
type Summarizer struct {
	now func() time.Time

	// Event ID disambiguation for events produced within the same second.
	lastStamp string
	seq       int
}

// New creates a Summarizer.
func New() *Summarizer {
	return &Summarizer{now: time.Now}
}

// NewWithClock creates a Summarizer with an injected clock, for tests.
func NewWithClock(now func() time.Time) *Summarizer {
	return &Summarizer{now: now}
}

// SummarizeEvents generates an Event per cluster, sorted descending by news
// count. Events backed by more corroborating reports rank first; downstream
// article builders rely on this ordering.
func (s *Summarizer) SummarizeEvents(clusters [][]models.NewsItem) []models.Event {
	events := make([]models.Event, 0, len(clusters))
	for _, cluster := range clusters {
		if len(cluster) == 0 {
			continue
		}
		events = append(events, s.GenerateEventSummary(cluster))
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].NewsCount > events[j].NewsCount
	})

	return events
}

// GenerateEventSummary builds the Event record for one cluster. Member order
// is whatever the clusterer produced; the first item supplies the
// representative title.
func (s *Summarizer) GenerateEventSummary(cluster []models.NewsItem) models.Event {
	sources := make([]string, 0, len(cluster))
	seenSources := make(map[string]struct{})
	var earliest, latest string
	for i, item := range cluster {
		if _, ok := seenSources[item.Source]; !ok {
			seenSources[item.Source] = struct{}{}
			sources = append(sources, item.Source)
		}
		if i == 0 || item.Date < earliest {
			earliest = item.Date
		}
		if i == 0 || item.Date > latest {
			latest = item.Date
		}
	}

	return models.Event{
		EventID:             s.nextEventID(),
		NewsCount:           len(cluster),
		Sources:             sources,
		DateRange:           models.DateRange{Earliest: earliest, Latest: latest},
		Keywords:            GenerateEventKeywords(cluster),
		RepresentativeTitle: cluster[0].Title,
		Summary:             textSummary(cluster),
		NewsList:            cluster,
	}
}

// nextEventID derives a time-based identifier, appending a monotonic suffix
// when several events are produced within the same second.
func (s *Summarizer) nextEventID() string {
	stamp := s.now().Format("20060102150405")
	if stamp == s.lastStamp {
		s.seq++
		return fmt.Sprintf("event_%s_%d", stamp, s.seq)
	}
	s.lastStamp = stamp
	s.seq = 0
	return "event_" + stamp
}

// textSummary produces the short text summary: the representative title,
// plus a suffix noting additional corroborating reports.
func textSummary(cluster []models.NewsItem) string {
	title := cluster[0].Title
	if len(cluster) == 1 {
		return title
	}
	return fmt.Sprintf("%s (+%d related reports)", title, len(cluster)-1)
}

// GenerateEventKeywords extracts up to ten keywords by cheap token
// collection over titles and content: lowercase alphabetic tokens longer
// than three characters, deduplicated. Not NLP-grade extraction.
func GenerateEventKeywords(cluster []models.NewsItem) []string {
	seen := make(map[string]struct{})
	var keywords []string

	for _, item := range cluster {
		text := strings.ToLower(item.Title + " " + item.Content)
		for _, word := range strings.Fields(text) {
			if len(keywords) >= maxKeywords {
				return keywords
			}
			if len(word) <= 3 || !isAlpha(word) {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			keywords = append(keywords, word)
		}
	}

	return keywords
}

func isAlpha(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
