package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

var (
	gateActor string
	gateNotes string
)

var gateCmd = &cobra.Command{
	Use:   "gate [analysis-id] [gate-id] [status]",
	Short: "Advance a decision gate",
	Long: `Transitions a review checkpoint to approved, rejected or needs_review.
Transitions are not one-way: any decided status can be re-entered. The
actor and transition time are recorded; only the last decision is kept.`,
	Args: cobra.ExactArgs(3),
	RunE: runGate,
}

func init() {
	gateCmd.Flags().StringVar(&gateActor, "actor", "", "acting user id (required)")
	gateCmd.Flags().StringVar(&gateNotes, "notes", "", "optional decision notes")
	gateCmd.MarkFlagRequired("actor") //nolint:errcheck
	rootCmd.AddCommand(gateCmd)
}

func runGate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	status := domain.GateStatus(args[2])
	if !status.IsDecision() {
		return fmt.Errorf("status must be one of approved, rejected, needs_review: %w", domain.ErrInvalidGateStatus)
	}

	if err := groundingService.AdvanceDecisionGate(ctx, orgID, args[0], args[1], status, gateActor, gateNotes); err != nil {
		return fmt.Errorf("advancing gate: %w", err)
	}

	cmd.Printf("Gate %s on analysis %s is now %s\n", args[1], args[0], status)
	return nil
}
