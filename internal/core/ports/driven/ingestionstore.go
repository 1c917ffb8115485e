package driven

import (
	"context"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

// IngestionStore supplies ingested form versions with their ordered
// sections and chunks. Form versions are immutable once ingested;
// re-ingestion produces a new version.
type IngestionStore interface {
	// SaveFormVersion stores a form version with its sections and chunks.
	// Returns domain.ErrAlreadyExists if the version id is already ingested.
	SaveFormVersion(ctx context.Context, version domain.FormVersion,
		sections []domain.FormSection, chunks []domain.FormChunk) error

	// GetFormVersion retrieves a form version by id.
	// Returns domain.ErrNotFound if it does not exist.
	GetFormVersion(ctx context.Context, id string) (*domain.FormVersion, error)

	// GetSections returns the sections of a form version in Order.
	GetSections(ctx context.Context, formVersionID string) ([]domain.FormSection, error)

	// GetChunks returns the chunks of a form version in Index order.
	GetChunks(ctx context.Context, formVersionID string) ([]domain.FormChunk, error)
}
