package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driving"
)

var (
	groundPrior string
	groundJSON  bool
)

var groundCmd = &cobra.Command{
	Use:   "ground [analysis-id]",
	Short: "Ground an analysis against its referenced forms",
	Long: `Loads the analysis and the ingested sections and chunks of every form
version it references, anchors each conclusion to supporting excerpts,
detects open questions, and persists the grounded result. Decisions
already recorded on gates and questions survive re-grounding.`,
	Args: cobra.ExactArgs(1),
	RunE: runGround,
}

func init() {
	groundCmd.Flags().StringVar(&groundPrior, "prior", "", "prior analysis id (overrides the recorded link)")
	groundCmd.Flags().BoolVar(&groundJSON, "json", false, "output the grounded result as JSON")
	rootCmd.AddCommand(groundCmd)
}

func runGround(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	grounded, err := groundingService.GroundExistingAnalysis(ctx, orgID, args[0],
		driving.GroundOptions{PriorAnalysisID: groundPrior})
	if err != nil {
		return fmt.Errorf("grounding failed: %w", err)
	}

	if groundJSON {
		return outputJSON(cmd, grounded)
	}

	cmd.Printf("Grounded analysis %s (version %d)\n\n", args[0], grounded.AnalysisVersion)
	printConclusions(cmd, grounded.Conclusions)
	printQuestions(cmd, grounded.OpenQuestions)
	printGates(cmd, grounded.DecisionGates)
	return nil
}

func printConclusions(cmd *cobra.Command, conclusions []domain.CitedConclusion) {
	cmd.Printf("Conclusions (%d):\n", len(conclusions))
	for _, c := range conclusions {
		cmd.Printf("  [%s] %-6s %s\n", c.Type, c.Confidence, c.Statement)
		for _, cit := range c.Citations {
			cmd.Printf("      %s · %s · p.%d (%s)\n", cit.FormLabel, cit.SectionPath, cit.Page, cit.Relevance)
		}
	}
	cmd.Println()
}

func printQuestions(cmd *cobra.Command, questions []domain.OpenQuestion) {
	cmd.Printf("Open questions (%d):\n", len(questions))
	for _, q := range questions {
		state := "open"
		if q.Resolved {
			state = "resolved"
		}
		cmd.Printf("  %s [%s] (%s) %s\n", q.ID, q.Category, state, q.Question)
	}
	cmd.Println()
}

func printGates(cmd *cobra.Command, gates []domain.DecisionGate) {
	cmd.Printf("Decision gates (%d):\n", len(gates))
	for _, g := range gates {
		line := fmt.Sprintf("  %s %-24s %s", g.ID, g.Name, g.Status)
		if g.DecidedBy != "" {
			line += fmt.Sprintf(" (by %s)", g.DecidedBy)
		}
		cmd.Println(line)
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
