package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

// ingestFile is the JSON layout accepted by the ingest command.
type ingestFile struct {
	Version  domain.FormVersion   `json:"version"`
	Sections []domain.FormSection `json:"sections"`
	Chunks   []domain.FormChunk   `json:"chunks"`
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.json]",
	Short: "Ingest a form version from a JSON file",
	Long: `Loads a form version with its sections and chunks into the local
store. Chunk indices must form a dense 0-based sequence. Form versions
are immutable: re-ingesting a document means a new version id.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var payload ingestFile
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	ctx := context.Background()
	version, err := importService.ImportFormVersion(ctx, payload.Version, payload.Sections, payload.Chunks)
	if err != nil {
		return fmt.Errorf("ingesting form version: %w", err)
	}

	cmd.Printf("Ingested form version %s (%s): %d sections, %d chunks\n",
		version.ID, version.Label, len(payload.Sections), len(payload.Chunks))
	return nil
}
