package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/janwang001/ai-invest-news/internal/clustering"
	"github.com/janwang001/ai-invest-news/internal/decision"
	"github.com/janwang001/ai-invest-news/internal/embedding"
	"github.com/janwang001/ai-invest-news/internal/models"
	"github.com/janwang001/ai-invest-news/internal/pipeline"
	"github.com/janwang001/ai-invest-news/internal/summary"
	"github.com/janwang001/ai-invest-news/pkg/utils"
)

// analyzeResult is the JSON envelope written by the analyze command.
type analyzeResult struct {
	Events        []models.Event           `json:"events"`
	RunStats      pipeline.RunStats        `json:"run_stats"`
	DecisionStats decision.Stats           `json:"decision_stats"`
	Statistics    pipeline.EventStatistics `json:"statistics"`
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var inputPath, outputPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a batch of news items into decided events",
		Long: `Read a JSON array of news items, group them into events, and decide
importance, signal, and action per event. Writes the decided events plus run
statistics as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			items, err := readNewsFile(inputPath)
			if err != nil {
				return err
			}

			apiKey := app.Config.Credentials.OpenAI.APIKey
			if apiKey == "" {
				return fmt.Errorf("no OpenAI API key configured (credentials.toml or OPENAI_API_KEY)")
			}

			embedder := embedding.NewOpenAI(apiKey, embedding.Config{
				Model:     app.Config.Embedding.Model,
				Dimension: app.Config.Embedding.Dimension,
				CacheCap:  app.Config.Embedding.CacheCap,
			})
			clusterer := clustering.New(app.Config.Clustering, app.Config.Validity, app.Logger)
			eventPipeline := pipeline.New(embedder, clusterer, summary.New(), app.Logger)
			decider := decision.NewPipeline(app.Config.Decision, app.Logger)

			events, runStats := eventPipeline.AnalyzeEvents(cmd.Context(), items)
			decided, decisionStats := decider.DecideWithStats(events)

			result := analyzeResult{
				Events:        decided,
				RunStats:      runStats,
				DecisionStats: decisionStats,
				Statistics:    pipeline.Statistics(decided),
			}

			if outputPath != "" {
				if err := writeResultFile(outputPath, result); err != nil {
					return err
				}
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			renderResult(output, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to a JSON array of news items (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "optional path to write the result JSON")
	cmd.MarkFlagRequired("input")

	return cmd
}

func readNewsFile(path string) ([]models.NewsItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading news file: %w", err)
	}
	var items []models.NewsItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing news file: %w", err)
	}
	return items, nil
}

func writeResultFile(path string, result analyzeResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}
	return nil
}

func renderResult(output *Output, result analyzeResult) {
	if result.RunStats.Error != "" {
		output.Warning("Run degraded: %s", result.RunStats.Error)
	}

	output.Bold("Analyzed %d news %s: %d %s detected (coverage %s)",
		result.RunStats.TotalNews, utils.Pluralize("item", result.RunStats.TotalNews),
		len(result.Events), utils.Pluralize("event", len(result.Events)),
		utils.FormatPercent(result.RunStats.CoverageRate))

	for _, event := range result.Events {
		output.Println()
		output.Info("%s  %s", event.EventID, utils.Truncate(event.RepresentativeTitle, 70))
		output.Dim("  %d reports | %d sources | %s .. %s",
			event.NewsCount, len(event.Sources),
			event.DateRange.Earliest, event.DateRange.Latest)
		if event.Decision == nil {
			output.Warning("  decision unavailable")
			continue
		}
		line := fmt.Sprintf("  %s | %s | %s",
			event.Decision.Importance, event.Decision.Signal, event.Decision.Action)
		switch event.Decision.Action {
		case models.ActionAvoid:
			output.Error("%s", line)
		case models.ActionHold:
			output.Success("%s", line)
		default:
			output.Printf("%s\n", line)
		}
	}

	if result.DecisionStats.ErrorCount > 0 {
		output.Println()
		output.Warning("%d decision %s failed", result.DecisionStats.ErrorCount,
			utils.Pluralize("event", result.DecisionStats.ErrorCount))
	}
}
