package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [analysis-id] [question-id] [resolution]",
	Short: "Record the resolution of an open question",
	Long: `Marks an open question resolved with the given resolution text.
Questions are never deleted; the record of what was asked is kept.`,
	Args: cobra.ExactArgs(3),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := groundingService.ResolveOpenQuestion(ctx, orgID, args[0], args[1], args[2]); err != nil {
		return fmt.Errorf("resolving question: %w", err)
	}

	cmd.Printf("Resolved question %s on analysis %s\n", args[1], args[0])
	return nil
}
