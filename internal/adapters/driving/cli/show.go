package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [analysis-id]",
	Short: "Show an analysis and its grounded fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := groundingService.GetGroundedAnalysis(ctx, orgID, args[0])
	if err != nil {
		return fmt.Errorf("loading analysis: %w", err)
	}

	if showJSON {
		return outputJSON(cmd, result)
	}

	analysis := result.Analysis
	cmd.Printf("Analysis %s: %s\n", analysis.ID, analysis.Title)
	cmd.Printf("Determination: %s\n", analysis.Determination.Description())
	cmd.Printf("Forms: %d referenced\n\n", len(analysis.Sources))

	if result.Grounded == nil {
		cmd.Println("Not grounded yet. Run `citeground ground` first.")
		return nil
	}

	cmd.Printf("Grounding version %d\n\n", result.Grounded.AnalysisVersion)
	printConclusions(cmd, result.Grounded.Conclusions)
	printQuestions(cmd, result.Grounded.OpenQuestions)
	printGates(cmd, result.Grounded.DecisionGates)
	return nil
}
