package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage analysis records",
}

var analysisImportCmd = &cobra.Command{
	Use:   "import [file.json]",
	Short: "Import an analysis record from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalysisImport,
}

var analysisListCmd = &cobra.Command{
	Use:   "list",
	Short: "List analyses for the org",
	Args:  cobra.NoArgs,
	RunE:  runAnalysisList,
}

func init() {
	analysisCmd.AddCommand(analysisImportCmd)
	analysisCmd.AddCommand(analysisListCmd)
	rootCmd.AddCommand(analysisCmd)
}

func runAnalysisImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var analysis domain.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	if analysis.OrgID == "" {
		analysis.OrgID = orgID
	}

	ctx := context.Background()
	imported, err := importService.ImportAnalysis(ctx, analysis)
	if err != nil {
		return fmt.Errorf("importing analysis: %w", err)
	}

	cmd.Printf("Imported analysis %s (%s)\n", imported.ID, imported.Title)
	return nil
}

func runAnalysisList(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	analyses, err := store.AnalysisStore().ListAnalyses(ctx, orgID)
	if err != nil {
		return fmt.Errorf("listing analyses: %w", err)
	}

	if len(analyses) == 0 {
		cmd.Println("No analyses. Import one with `citeground analysis import`.")
		return nil
	}

	for _, a := range analyses {
		cmd.Printf("%s  %-12s  %s\n", a.ID, a.Determination, a.Title)
	}
	return nil
}
