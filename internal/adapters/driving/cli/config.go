package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/citeground-cli/internal/adapters/driven/config/file"
)

var configJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective resolver configuration",
	Long: `Prints the citation resolver tunables: relevance thresholds, the
citation cap and the excerpt length limit. Values come from
config.toml in the config directory, with documented defaults for
anything unset.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	cfg := configStore.GroundingConfig()

	if configJSON {
		return outputJSON(cmd, cfg)
	}

	cmd.Printf("direct_threshold              %.2f\n", cfg.DirectThreshold)
	cmd.Printf("supporting_threshold          %.2f\n", cfg.SupportingThreshold)
	cmd.Printf("min_threshold                 %.2f\n", cfg.MinThreshold)
	cmd.Printf("max_citations_per_conclusion  %d\n", cfg.MaxCitationsPerConclusion)
	cmd.Printf("max_excerpt_length            %d\n", cfg.MaxExcerptLength)
	return nil
}
