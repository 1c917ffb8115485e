package memory

import (
	"context"
	"sync"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driven"
)

// Ensure IngestionStore implements the interface.
var _ driven.IngestionStore = (*IngestionStore)(nil)

// IngestionStore is an in-memory implementation of driven.IngestionStore.
type IngestionStore struct {
	mu       sync.RWMutex
	versions map[string]domain.FormVersion
	sections map[string][]domain.FormSection
	chunks   map[string][]domain.FormChunk
}

// NewIngestionStore creates a new in-memory ingestion store.
func NewIngestionStore() *IngestionStore {
	return &IngestionStore{
		versions: make(map[string]domain.FormVersion),
		sections: make(map[string][]domain.FormSection),
		chunks:   make(map[string][]domain.FormChunk),
	}
}

// SaveFormVersion stores a form version with its sections and chunks.
// Form versions are immutable: saving an existing id is rejected.
func (s *IngestionStore) SaveFormVersion(_ context.Context, version domain.FormVersion,
	sections []domain.FormSection, chunks []domain.FormChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.versions[version.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.versions[version.ID] = version
	s.sections[version.ID] = append([]domain.FormSection(nil), sections...)
	s.chunks[version.ID] = append([]domain.FormChunk(nil), chunks...)
	return nil
}

// GetFormVersion retrieves a form version by id.
func (s *IngestionStore) GetFormVersion(_ context.Context, id string) (*domain.FormVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	version, ok := s.versions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &version, nil
}

// GetSections returns the sections of a form version in order.
func (s *IngestionStore) GetSections(_ context.Context, formVersionID string) ([]domain.FormSection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.versions[formVersionID]; !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.FormSection(nil), s.sections[formVersionID]...), nil
}

// GetChunks returns the chunks of a form version in index order.
func (s *IngestionStore) GetChunks(_ context.Context, formVersionID string) ([]domain.FormChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.versions[formVersionID]; !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.FormChunk(nil), s.chunks[formVersionID]...), nil
}
