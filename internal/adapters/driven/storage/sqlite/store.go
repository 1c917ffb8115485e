package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/parchment-labs/citeground-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/parchment-labs/citeground-cli/internal/core/domain"
	"github.com/parchment-labs/citeground-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.citeground/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".citeground", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AnalysisStore returns an AnalysisStore interface backed by this store.
func (s *Store) AnalysisStore() driven.AnalysisStore {
	return &analysisStore{store: s}
}

// IngestionStore returns an IngestionStore interface backed by this store.
func (s *Store) IngestionStore() driven.IngestionStore {
	return &ingestionStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Analysis Store ====================

// analysisStore implements driven.AnalysisStore.
type analysisStore struct {
	store *Store
}

var _ driven.AnalysisStore = (*analysisStore)(nil)

// SaveAnalysis stores or updates an analysis record.
func (s *analysisStore) SaveAnalysis(ctx context.Context, analysis *domain.Analysis) error {
	scenarioJSON, err := json.Marshal(analysis.Scenario)
	if err != nil {
		return fmt.Errorf("marshalling scenario: %w", err)
	}
	fieldsJSON, err := json.Marshal(analysis.Fields)
	if err != nil {
		return fmt.Errorf("marshalling fields: %w", err)
	}
	sourcesJSON, err := json.Marshal(analysis.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}
	citationsJSON, err := json.Marshal(analysis.ExistingCitations)
	if err != nil {
		return fmt.Errorf("marshalling existing citations: %w", err)
	}

	now := time.Now().UTC()
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = now
	}
	analysis.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO analyses (id, org_id, title, determination, scenario, fields,
			sources, existing_citations, prior_analysis_id, output_markdown, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(org_id, id) DO UPDATE SET
			title = excluded.title,
			determination = excluded.determination,
			scenario = excluded.scenario,
			fields = excluded.fields,
			sources = excluded.sources,
			existing_citations = excluded.existing_citations,
			prior_analysis_id = excluded.prior_analysis_id,
			output_markdown = excluded.output_markdown,
			updated_at = excluded.updated_at
	`, analysis.ID, analysis.OrgID, analysis.Title, string(analysis.Determination),
		string(scenarioJSON), string(fieldsJSON), string(sourcesJSON), string(citationsJSON),
		nullString(analysis.PriorAnalysisID), analysis.OutputMarkdown,
		analysis.CreatedAt, analysis.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by org and id.
func (s *analysisStore) GetAnalysis(ctx context.Context, orgID, id string) (*domain.Analysis, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, org_id, title, determination, scenario, fields,
			sources, existing_citations, prior_analysis_id, output_markdown, created_at, updated_at
		FROM analyses WHERE org_id = ? AND id = ?
	`, orgID, id)

	analysis, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return analysis, nil
}

// ListAnalyses returns all analyses for an org.
func (s *analysisStore) ListAnalyses(ctx context.Context, orgID string) ([]domain.Analysis, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, org_id, title, determination, scenario, fields,
			sources, existing_citations, prior_analysis_id, output_markdown, created_at, updated_at
		FROM analyses WHERE org_id = ? ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var analyses []domain.Analysis //nolint:prealloc // size unknown from query
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}
	return analyses, nil
}

// scanner abstracts sql.Row and sql.Rows for scanAnalysis.
type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*domain.Analysis, error) {
	var analysis domain.Analysis
	var determination string
	var scenarioJSON, fieldsJSON, sourcesJSON, citationsJSON string
	var priorAnalysisID sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&analysis.ID, &analysis.OrgID, &analysis.Title, &determination,
		&scenarioJSON, &fieldsJSON, &sourcesJSON, &citationsJSON,
		&priorAnalysisID, &analysis.OutputMarkdown, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning analysis: %w", err)
	}

	analysis.Determination = domain.Determination(determination)
	if err := json.Unmarshal([]byte(scenarioJSON), &analysis.Scenario); err != nil {
		return nil, fmt.Errorf("unmarshaling scenario: %w", err)
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &analysis.Fields); err != nil {
		return nil, fmt.Errorf("unmarshaling fields: %w", err)
	}
	if err := json.Unmarshal([]byte(sourcesJSON), &analysis.Sources); err != nil {
		return nil, fmt.Errorf("unmarshaling sources: %w", err)
	}
	if err := json.Unmarshal([]byte(citationsJSON), &analysis.ExistingCitations); err != nil {
		return nil, fmt.Errorf("unmarshaling existing citations: %w", err)
	}

	analysis.PriorAnalysisID = priorAnalysisID.String
	if createdAt.Valid {
		analysis.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		analysis.UpdatedAt = updatedAt.Time
	}
	return &analysis, nil
}

// SaveGroundedFields atomically replaces the grounded fields of an
// analysis. The whole value is one JSON payload in one row, so the upsert
// either fully replaces the prior blob or fails leaving it untouched.
func (s *analysisStore) SaveGroundedFields(ctx context.Context, orgID, analysisID string, fields *domain.ClauseGroundedFields) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshalling grounded fields: %w", err)
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO grounded_fields (org_id, analysis_id, analysis_version, payload, updated_at)
		SELECT ?, ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM analyses WHERE org_id = ? AND id = ?)
		ON CONFLICT(org_id, analysis_id) DO UPDATE SET
			analysis_version = excluded.analysis_version,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, orgID, analysisID, fields.AnalysisVersion, string(payload), time.Now().UTC(),
		orgID, analysisID)
	if err != nil {
		return fmt.Errorf("saving grounded fields: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving grounded fields: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetGroundedFields retrieves the grounded fields of an analysis.
func (s *analysisStore) GetGroundedFields(ctx context.Context, orgID, analysisID string) (*domain.ClauseGroundedFields, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT payload FROM grounded_fields WHERE org_id = ? AND analysis_id = ?
	`, orgID, analysisID)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning grounded fields: %w", err)
	}

	var fields domain.ClauseGroundedFields
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, fmt.Errorf("unmarshaling grounded fields: %w", err)
	}
	return &fields, nil
}

// ==================== Ingestion Store ====================

// ingestionStore implements driven.IngestionStore.
type ingestionStore struct {
	store *Store
}

var _ driven.IngestionStore = (*ingestionStore)(nil)

// SaveFormVersion stores a form version with its sections and chunks in
// one transaction. Form versions are immutable: an existing id is
// rejected.
func (s *ingestionStore) SaveFormVersion(ctx context.Context, version domain.FormVersion,
	sections []domain.FormSection, chunks []domain.FormChunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	row := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM form_versions WHERE id = ?", version.ID)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("checking form version: %w", err)
	}
	if exists > 0 {
		return domain.ErrAlreadyExists
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO form_versions (id, label, jurisdiction, ingested_at)
		VALUES (?, ?, ?, ?)
	`, version.ID, version.Label, version.Jurisdiction, version.IngestedAt)
	if err != nil {
		return fmt.Errorf("saving form version: %w", err)
	}

	sectionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO form_sections (id, form_version_id, sort_order, heading, path)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing section statement: %w", err)
	}
	defer sectionStmt.Close()

	for _, sec := range sections {
		if _, err := sectionStmt.ExecContext(ctx, sec.ID, version.ID, sec.Order, sec.Heading, sec.Path); err != nil {
			return fmt.Errorf("saving section %s: %w", sec.ID, err)
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO form_chunks (id, form_version_id, chunk_index, content, section_id, page)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk statement: %w", err)
	}
	defer chunkStmt.Close()

	for _, chunk := range chunks {
		if _, err := chunkStmt.ExecContext(ctx, chunk.ID, version.ID, chunk.Index,
			chunk.Text, nullString(chunk.SectionID), chunk.Page); err != nil {
			return fmt.Errorf("saving chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing form version: %w", err)
	}
	return nil
}

// GetFormVersion retrieves a form version by id.
func (s *ingestionStore) GetFormVersion(ctx context.Context, id string) (*domain.FormVersion, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, label, jurisdiction, ingested_at FROM form_versions WHERE id = ?
	`, id)

	var version domain.FormVersion
	var ingestedAt sql.NullTime
	if err := row.Scan(&version.ID, &version.Label, &version.Jurisdiction, &ingestedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning form version: %w", err)
	}
	if ingestedAt.Valid {
		version.IngestedAt = ingestedAt.Time
	}
	return &version, nil
}

// GetSections returns the sections of a form version in order.
func (s *ingestionStore) GetSections(ctx context.Context, formVersionID string) ([]domain.FormSection, error) {
	if _, err := s.GetFormVersion(ctx, formVersionID); err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, form_version_id, sort_order, heading, path
		FROM form_sections WHERE form_version_id = ? ORDER BY sort_order
	`, formVersionID)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.FormSection //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sec domain.FormSection
		if err := rows.Scan(&sec.ID, &sec.FormVersionID, &sec.Order, &sec.Heading, &sec.Path); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sections = append(sections, sec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}
	return sections, nil
}

// GetChunks returns the chunks of a form version in index order.
func (s *ingestionStore) GetChunks(ctx context.Context, formVersionID string) ([]domain.FormChunk, error) {
	if _, err := s.GetFormVersion(ctx, formVersionID); err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, form_version_id, chunk_index, content, section_id, page
		FROM form_chunks WHERE form_version_id = ? ORDER BY chunk_index
	`, formVersionID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.FormChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.FormChunk
		var sectionID sql.NullString
		if err := rows.Scan(&chunk.ID, &chunk.FormVersionID, &chunk.Index,
			&chunk.Text, &sectionID, &chunk.Page); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.SectionID = sectionID.String
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
