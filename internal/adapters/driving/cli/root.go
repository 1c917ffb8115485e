// Package cli wires the cobra command tree to the core services.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/citeground-cli/internal/adapters/driven/config/file"
	"github.com/parchment-labs/citeground-cli/internal/adapters/driven/storage/sqlite"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driving"
	"github.com/parchment-labs/citeground-cli/internal/core/services"
	"github.com/parchment-labs/citeground-cli/internal/logger"
)

var version = "dev"

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

var (
	verboseFlag bool
	dataDir     string
	configDir   string
	orgID       string
)

// Services shared by the commands, initialised per invocation.
var (
	store             *sqlite.Store
	groundingService  driving.GroundingService
	comparisonService driving.ComparisonService
	importService     driving.ImportService
)

var rootCmd = &cobra.Command{
	Use:   "citeground",
	Short: "Clause-grounded citation engine for coverage analyses",
	Long: `Citeground anchors every substantive statement of a coverage analysis
to verbatim excerpts from the ingested reference forms, tracks the open
questions the grounding raises, and gates the analysis through named
review checkpoints.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			store.Close() //nolint:errcheck
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.citeground/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.citeground)")
	rootCmd.PersistentFlags().StringVar(&orgID, "org", "default", "organisation id scoping all records")
}

// initServices opens the store and builds the services the commands use.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	// version and config don't touch the data store.
	if cmd.Name() == "version" || cmd.Name() == "config" {
		return nil
	}

	var err error
	store, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	analysisStore := store.AnalysisStore()
	ingestionStore := store.IngestionStore()

	groundingService = services.NewGroundingService(analysisStore, ingestionStore, configStore)
	comparisonService = services.NewComparisonService(analysisStore)
	importService = services.NewImportService(analysisStore, ingestionStore)

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
