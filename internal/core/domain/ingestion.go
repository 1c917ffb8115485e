package domain

import "time"

// FormVersion is an immutable ingested snapshot of a reference document.
// Re-ingesting a document produces a new version; chunk boundaries of an
// existing version never change.
type FormVersion struct {
	// ID is the unique identifier for the form version.
	ID string `json:"id"`

	// Label is the human-readable form label.
	Label string `json:"label"`

	// Jurisdiction is the declared jurisdiction, empty if none.
	Jurisdiction string `json:"jurisdiction,omitempty"`

	// IngestedAt is when this version was ingested.
	IngestedAt time.Time `json:"ingestedAt"`
}

// FormSection is one heading-delimited region of an ingested form version.
// Ordering is stable and defines the document structure used for
// section-path citations.
type FormSection struct {
	// ID is the unique identifier for the section.
	ID string `json:"id"`

	// FormVersionID links to the owning FormVersion.
	FormVersionID string `json:"formVersionId"`

	// Order is the ordinal position within the form version.
	Order int `json:"order"`

	// Heading is the section heading text.
	Heading string `json:"heading"`

	// Path is the full section path (e.g. "Section I / Coverage A").
	Path string `json:"path"`
}

// FormChunk is one ordered unit of ingested text. Index is a dense 0-based
// sequence per form version, immutable once ingested.
type FormChunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// FormVersionID links to the owning FormVersion.
	FormVersionID string `json:"formVersionId"`

	// Index is the dense 0-based position within the form version.
	Index int `json:"index"`

	// Text is the raw chunk text.
	Text string `json:"text"`

	// SectionID links to the owning FormSection, empty if the chunk
	// precedes any heading.
	SectionID string `json:"sectionId,omitempty"`

	// Page is the source page number, 0 if page metadata is unavailable.
	Page int `json:"page,omitempty"`
}
