package decision

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/janwang001/ai-invest-news/internal/config"
	apperrors "github.com/janwang001/ai-invest-news/internal/errors"
	"github.com/janwang001/ai-invest-news/internal/models"
)

// buildEvent assembles an event from n news items spread across the given
// sources, all carrying the same signals and score.
func buildEvent(n int, sources []string, signals []string, score float64) models.Event {
	items := make([]models.NewsItem, n)
	for i := range items {
		items[i] = models.NewsItem{
			Title:           "report",
			Content:         "body",
			Source:          sources[i%len(sources)],
			Date:            "2026-08-15",
			Signals:         signals,
			Companies:       []string{"Acme"},
			InvestmentScore: score,
		}
	}
	seen := make(map[string]struct{})
	var distinct []string
	for _, item := range items {
		if _, ok := seen[item.Source]; !ok {
			seen[item.Source] = struct{}{}
			distinct = append(distinct, item.Source)
		}
	}
	return models.Event{
		EventID:   "event_test",
		NewsCount: n,
		Sources:   distinct,
		NewsList:  items,
	}
}

func TestImportanceEvaluatorTiers(t *testing.T) {
	evaluator := NewImportanceEvaluator(config.Default().Decision, zerolog.Nop())

	tests := []struct {
		name    string
		n       int
		sources []string
		score   float64
		want    models.Importance
	}{
		{"high tier", 3, []string{"a", "b"}, 0.7, models.ImportanceHigh},
		{"high boundary", 3, []string{"a", "b"}, 0.6, models.ImportanceHigh},
		{"medium on low score", 3, []string{"a", "b"}, 0.5, models.ImportanceMedium},
		{"medium on single source", 4, []string{"a"}, 0.9, models.ImportanceMedium},
		{"medium tier", 2, []string{"a"}, 0.3, models.ImportanceMedium},
		{"low on tiny event", 1, []string{"a"}, 0.9, models.ImportanceLow},
		{"low on weak score", 2, []string{"a"}, 0.1, models.ImportanceLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := buildEvent(tt.n, tt.sources, []string{"funding"}, tt.score)
			if got := evaluator.Evaluate(&event); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImportanceEvaluatorNilEvent(t *testing.T) {
	evaluator := NewImportanceEvaluator(config.Default().Decision, zerolog.Nop())
	if got := evaluator.Evaluate(nil); got != models.ImportanceLow {
		t.Errorf("Evaluate(nil) = %v, want Low", got)
	}
}

func TestSignalClassifier(t *testing.T) {
	classifier := NewSignalClassifier(config.Default().Decision, zerolog.Nop())

	tests := []struct {
		name    string
		signals []string
		want    models.Signal
	}{
		{"positive only", []string{"funding", "earnings"}, models.SignalPositive},
		{"risk only", []string{"lawsuit", "regulation"}, models.SignalRisk},
		{"mixed is neutral", []string{"earnings", "lawsuit"}, models.SignalNeutral},
		{"unknown tags are neutral", []string{"weather", "sports"}, models.SignalNeutral},
		{"no tags", nil, models.SignalNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := buildEvent(2, []string{"a"}, tt.signals, 0.5)
			if got := classifier.Classify(&event); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignalClassifierNilEvent(t *testing.T) {
	classifier := NewSignalClassifier(config.Default().Decision, zerolog.Nop())
	if got := classifier.Classify(nil); got != models.SignalNeutral {
		t.Errorf("Classify(nil) = %v, want Neutral", got)
	}
}

func TestActionMapperTable(t *testing.T) {
	mapper := NewActionMapper(zerolog.Nop())

	tests := []struct {
		importance models.Importance
		signal     models.Signal
		want       models.Action
	}{
		{models.ImportanceHigh, models.SignalPositive, models.ActionHold},
		{models.ImportanceHigh, models.SignalNeutral, models.ActionWatch},
		{models.ImportanceHigh, models.SignalRisk, models.ActionAvoid},
		{models.ImportanceMedium, models.SignalPositive, models.ActionWatch},
		{models.ImportanceMedium, models.SignalNeutral, models.ActionWatch},
		{models.ImportanceMedium, models.SignalRisk, models.ActionAvoid},
		{models.ImportanceLow, models.SignalPositive, models.ActionAvoid},
		{models.ImportanceLow, models.SignalNeutral, models.ActionAvoid},
		{models.ImportanceLow, models.SignalRisk, models.ActionAvoid},
	}
	for _, tt := range tests {
		got := mapper.Map(tt.importance, tt.signal)
		if got != tt.want {
			t.Errorf("Map(%v, %v) = %v, want %v", tt.importance, tt.signal, got, tt.want)
		}
	}
}

func TestActionMapperClampsInvalidInputs(t *testing.T) {
	mapper := NewActionMapper(zerolog.Nop())

	if got := mapper.Map(models.Importance("urgent"), models.SignalPositive); got != models.ActionAvoid {
		t.Errorf("invalid importance: got %v, want Avoid (clamped to Low)", got)
	}
	if got := mapper.Map(models.ImportanceHigh, models.Signal("bullish")); got != models.ActionWatch {
		t.Errorf("invalid signal: got %v, want Watch (clamped to Neutral)", got)
	}
	if got := mapper.Map(models.Importance(""), models.Signal("")); got != models.ActionAvoid {
		t.Errorf("both invalid: got %v, want Avoid", got)
	}
}

func TestDecideScenarios(t *testing.T) {
	pipeline := NewPipeline(config.Default().Decision, zerolog.Nop())

	tests := []struct {
		name  string
		event models.Event
		want  models.Decision
	}{
		{
			// Four corroborating funding reports from one outlet.
			name:  "single source funding",
			event: buildEvent(4, []string{"wire"}, []string{"funding"}, 0.8),
			want: models.Decision{
				Importance: models.ImportanceMedium,
				Signal:     models.SignalPositive,
				Action:     models.ActionWatch,
			},
		},
		{
			// Strong coverage with conflicting directions.
			name:  "mixed earnings and lawsuit",
			event: buildEvent(3, []string{"wire", "court"}, []string{"earnings", "lawsuit"}, 0.7),
			want: models.Decision{
				Importance: models.ImportanceHigh,
				Signal:     models.SignalNeutral,
				Action:     models.ActionWatch,
			},
		},
		{
			// Positive direction but too little corroboration.
			name:  "low importance positive",
			event: buildEvent(1, []string{"wire"}, []string{"funding"}, 0.9),
			want: models.Decision{
				Importance: models.ImportanceLow,
				Signal:     models.SignalPositive,
				Action:     models.ActionAvoid,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decided := pipeline.Decide([]models.Event{tt.event})
			if len(decided) != 1 {
				t.Fatalf("got %d events, want 1", len(decided))
			}
			if decided[0].Decision == nil {
				t.Fatal("Decision is nil, want attached decision")
			}
			if *decided[0].Decision != tt.want {
				t.Errorf("Decision = %+v, want %+v", *decided[0].Decision, tt.want)
			}
		})
	}
}

// evaluators returning fixed or invalid labels, for failure-path tests.

type fixedImportance struct{ value models.Importance }

func (f fixedImportance) Evaluate(*models.Event) models.Importance { return f.value }

type fixedSignal struct{ value models.Signal }

func (f fixedSignal) Classify(*models.Event) models.Signal { return f.value }

type fixedAction struct{ value models.Action }

func (f fixedAction) Map(models.Importance, models.Signal) models.Action { return f.value }

func TestDecideWithStatsPerEventIsolation(t *testing.T) {
	// The importance engine emits an out-of-range label, so every event
	// fails at the validation gate. The batch must still complete.
	pipeline := NewPipelineWithEngines(
		fixedImportance{value: models.Importance("Critical")},
		fixedSignal{value: models.SignalNeutral},
		fixedAction{value: models.ActionWatch},
		zerolog.Nop(),
	)

	events := []models.Event{
		buildEvent(2, []string{"a"}, []string{"funding"}, 0.5),
		buildEvent(3, []string{"a", "b"}, []string{"lawsuit"}, 0.7),
	}

	decided, stats := pipeline.DecideWithStats(events)

	if len(decided) != 2 {
		t.Fatalf("got %d events, want both kept", len(decided))
	}
	for i, event := range decided {
		if event.Decision != nil {
			t.Errorf("event %d has a decision, want nil after failure", i)
		}
	}
	if stats.SuccessCount != 0 || stats.ErrorCount != 2 {
		t.Errorf("success/error = %d/%d, want 0/2", stats.SuccessCount, stats.ErrorCount)
	}
	if stats.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0", stats.SuccessRate)
	}
	if len(stats.Errors) != 2 {
		t.Fatalf("got %d recorded errors, want 2", len(stats.Errors))
	}
	for _, msg := range stats.Errors {
		if !strings.Contains(msg, "importance") {
			t.Errorf("error %q does not name the failing step", msg)
		}
	}
}

func TestDecideWithStatsMixedBatch(t *testing.T) {
	pipeline := NewPipeline(config.Default().Decision, zerolog.Nop())

	events := []models.Event{
		buildEvent(3, []string{"a", "b"}, []string{"funding"}, 0.8),
		buildEvent(2, []string{"a"}, []string{"lawsuit"}, 0.5),
	}

	decided, stats := pipeline.DecideWithStats(events)

	if stats.TotalEvents != 2 || stats.SuccessCount != 2 || stats.ErrorCount != 0 {
		t.Errorf("stats = %+v, want 2 successes", stats)
	}
	if stats.SuccessRate != 1 {
		t.Errorf("SuccessRate = %v, want 1", stats.SuccessRate)
	}
	if stats.ImportanceDistribution[models.ImportanceHigh] != 1 ||
		stats.ImportanceDistribution[models.ImportanceMedium] != 1 {
		t.Errorf("ImportanceDistribution = %v, want one High and one Medium",
			stats.ImportanceDistribution)
	}
	if stats.ActionDistribution[models.ActionHold] != 1 ||
		stats.ActionDistribution[models.ActionAvoid] != 1 {
		t.Errorf("ActionDistribution = %v, want one Hold and one Avoid",
			stats.ActionDistribution)
	}
	for i, event := range decided {
		if event.Decision == nil {
			t.Errorf("event %d has nil decision", i)
		}
	}
}

func TestDecideWithStatsEmptyBatch(t *testing.T) {
	pipeline := NewPipeline(config.Default().Decision, zerolog.Nop())

	decided, stats := pipeline.DecideWithStats(nil)

	if len(decided) != 0 {
		t.Errorf("got %d events, want 0", len(decided))
	}
	if stats.TotalEvents != 0 || stats.SuccessRate != 0 {
		t.Errorf("stats = %+v, want zero counts", stats)
	}
	if stats.ImportanceDistribution[models.ImportanceLow] != 0 {
		t.Error("distributions should be pre-seeded with zero counts")
	}
}

func TestDecideOneRejectsInvalidEngineOutput(t *testing.T) {
	pipeline := NewPipelineWithEngines(
		fixedImportance{value: models.ImportanceHigh},
		fixedSignal{value: models.Signal("bullish")},
		fixedAction{value: models.ActionWatch},
		zerolog.Nop(),
	)

	event := buildEvent(2, []string{"a"}, []string{"funding"}, 0.5)
	_, err := pipeline.decideOne(&event)

	if err == nil {
		t.Fatal("decideOne accepted an invalid signal label")
	}
	var decisionErr *apperrors.DecisionError
	if !errors.As(err, &decisionErr) {
		t.Fatalf("error type = %T, want *DecisionError", err)
	}
	if decisionErr.Step != "signal" {
		t.Errorf("Step = %q, want signal", decisionErr.Step)
	}
	if !errors.Is(err, apperrors.ErrInputValidation) {
		t.Error("error chain does not include ErrInputValidation")
	}
}
