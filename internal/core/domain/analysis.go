package domain

import "time"

// Determination is the top-level coverage outcome of an analysis.
type Determination string

// Available determinations.
const (
	// DeterminationCovered means the loss is covered.
	DeterminationCovered Determination = "covered"

	// DeterminationNotCovered means the loss is not covered.
	DeterminationNotCovered Determination = "not_covered"

	// DeterminationPartiallyCovered means some elements are covered.
	DeterminationPartiallyCovered Determination = "partially_covered"

	// DeterminationInsufficientInformation means no determination can be
	// made on the available facts.
	DeterminationInsufficientInformation Determination = "insufficient_information"
)

// IsValid returns true if the determination is recognised.
func (d Determination) IsValid() bool {
	switch d {
	case DeterminationCovered, DeterminationNotCovered,
		DeterminationPartiallyCovered, DeterminationInsufficientInformation:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d Determination) String() string {
	return string(d)
}

// Description returns a human-readable description of the determination.
func (d Determination) Description() string {
	switch d {
	case DeterminationCovered:
		return "Covered"
	case DeterminationNotCovered:
		return "Not Covered"
	case DeterminationPartiallyCovered:
		return "Partially Covered"
	case DeterminationInsufficientInformation:
		return "Insufficient Information"
	default:
		return "Unknown"
	}
}

// StructuredFields are the list-valued fields of a coverage analysis.
// Each non-empty entry becomes one atomic conclusion during grounding.
type StructuredFields struct {
	// Summary is the narrative summary of the analysis.
	Summary string `json:"summary"`

	// ApplicableCoverages lists coverages found to apply.
	ApplicableCoverages []string `json:"applicableCoverages"`

	// RelevantExclusions lists exclusions considered relevant.
	RelevantExclusions []string `json:"relevantExclusions"`

	// ConditionsAndLimitations lists conditions and limitations.
	ConditionsAndLimitations []string `json:"conditionsAndLimitations"`

	// Recommendations lists recommended next actions.
	Recommendations []string `json:"recommendations"`
}

// Scenario captures the facts the analysis was run against.
type Scenario struct {
	// Narrative is the free-text loss description.
	Narrative string `json:"narrative"`

	// Location is the loss location, if known. Drives the jurisdictional
	// open-question check.
	Location string `json:"location,omitempty"`

	// Facts are structured key/value facts (dates, amounts, perils).
	Facts map[string]string `json:"facts,omitempty"`
}

// FormSourceSnapshot identifies one reference form version used by an
// analysis, with its display label and declared jurisdiction.
type FormSourceSnapshot struct {
	// FormVersionID is the immutable ingested form version.
	FormVersionID string `json:"formVersionId"`

	// Label is the human-readable form label (e.g. "CP 00 10 10 12").
	Label string `json:"label"`

	// Jurisdiction is the jurisdiction the form declares coverage for,
	// empty if the form is not jurisdiction-specific.
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// Analysis is a persisted coverage-analysis record. The grounded fields
// produced by the engine are stored alongside it as one owned value.
type Analysis struct {
	// ID is the unique identifier for the analysis.
	ID string `json:"id"`

	// OrgID scopes the analysis to an organisation.
	OrgID string `json:"orgId"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Determination is the top-level coverage outcome.
	Determination Determination `json:"determination"`

	// Scenario holds the loss facts the analysis was run against.
	Scenario Scenario `json:"scenario"`

	// Fields are the structured analysis fields to be grounded.
	Fields StructuredFields `json:"fields"`

	// Sources lists the form versions the analysis references.
	Sources []FormSourceSnapshot `json:"sources"`

	// ExistingCitations are citations attached to the analysis before
	// grounding, carried through untouched.
	ExistingCitations []Citation `json:"existingCitations,omitempty"`

	// PriorAnalysisID links to the analysis this one supersedes, if any.
	PriorAnalysisID string `json:"priorAnalysisId,omitempty"`

	// OutputMarkdown is the rendered analysis text (input to grounding,
	// carried for round-tripping, never parsed by the engine).
	OutputMarkdown string `json:"outputMarkdown,omitempty"`

	// CreatedAt is when the analysis was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the analysis was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}
