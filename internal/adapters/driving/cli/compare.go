package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var compareJSON bool

var compareCmd = &cobra.Command{
	Use:   "compare [left-analysis-id] [right-analysis-id]",
	Short: "Diff two grounded analyses",
	Long: `Compares two groundings of the same scenario: which conclusions were
added, removed or changed, whether the determination flipped, and how
many open questions were resolved. Both analyses must be grounded.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	comparison, err := comparisonService.CompareGroundedAnalyses(ctx, orgID, args[0], args[1])
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if compareJSON {
		return outputJSON(cmd, comparison)
	}

	if comparison.DeterminationChanged {
		cmd.Printf("Determination changed: %s -> %s\n\n",
			comparison.LeftDetermination, comparison.RightDetermination)
	} else {
		cmd.Printf("Determination unchanged: %s\n\n", comparison.LeftDetermination)
	}

	for _, delta := range comparison.ConclusionDeltas {
		cmd.Printf("  %-9s [%s] %s\n", delta.ChangeType, delta.Type, delta.Statement)
	}

	stats := comparison.Stats
	cmd.Printf("\n%d added, %d removed, %d changed, %d questions resolved\n",
		stats.ConclusionsAdded, stats.ConclusionsRemoved,
		stats.ConclusionsChanged, stats.QuestionsResolved)
	return nil
}
