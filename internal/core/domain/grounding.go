package domain

// ConclusionType classifies an atomic conclusion by the structured field
// list it was extracted from.
type ConclusionType string

// Available conclusion types.
const (
	// ConclusionCoverageGrant comes from applicableCoverages.
	ConclusionCoverageGrant ConclusionType = "coverage_grant"

	// ConclusionExclusion comes from relevantExclusions.
	ConclusionExclusion ConclusionType = "exclusion"

	// ConclusionCondition comes from conditionsAndLimitations.
	ConclusionCondition ConclusionType = "condition"

	// ConclusionRecommendation comes from recommendations.
	ConclusionRecommendation ConclusionType = "recommendation"
)

// IsValid returns true if the conclusion type is recognised.
func (t ConclusionType) IsValid() bool {
	switch t {
	case ConclusionCoverageGrant, ConclusionExclusion,
		ConclusionCondition, ConclusionRecommendation:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ConclusionType) String() string {
	return string(t)
}

// Relevance classifies how strongly a citation supports its conclusion.
type Relevance string

// Available relevance levels, strongest first.
const (
	// RelevanceDirect means the cited text directly supports the statement.
	RelevanceDirect Relevance = "direct"

	// RelevanceSupporting means the cited text supports the statement
	// indirectly.
	RelevanceSupporting Relevance = "supporting"

	// RelevanceContextual means the cited text provides context only.
	RelevanceContextual Relevance = "contextual"
)

// IsValid returns true if the relevance level is recognised.
func (r Relevance) IsValid() bool {
	switch r {
	case RelevanceDirect, RelevanceSupporting, RelevanceContextual:
		return true
	default:
		return false
	}
}

// Confidence expresses how well a conclusion is grounded.
type Confidence string

// Available confidence levels.
const (
	// ConfidenceHigh requires at least one direct citation.
	ConfidenceHigh Confidence = "high"

	// ConfidenceMedium requires at least one supporting citation.
	ConfidenceMedium Confidence = "medium"

	// ConfidenceLow permits zero citations.
	ConfidenceLow Confidence = "low"
)

// IsValid returns true if the confidence level is recognised.
func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	default:
		return false
	}
}

// AtomicConclusion is one typed statement decomposed from the structured
// analysis fields. It is derived, never persisted standalone. ID is a
// stable deterministic hash of (type, sourceFieldIndex, statement) so
// re-running grounding on unchanged input yields identical ids.
type AtomicConclusion struct {
	ID               string         `json:"id"`
	Type             ConclusionType `json:"type"`
	Statement        string         `json:"statement"`
	SourceFieldIndex int            `json:"sourceFieldIndex"`
}

// Citation anchors a conclusion to a verbatim excerpt of an ingested chunk.
// ExcerptHash is always the excerpt hash of Excerpt; Excerpt is always a
// verbatim substring of a chunk's text, never synthesized.
type Citation struct {
	FormVersionID string    `json:"formVersionId"`
	FormLabel     string    `json:"formLabel"`
	SectionPath   string    `json:"sectionPath"`
	AnchorSlug    string    `json:"anchorSlug"`
	Page          int       `json:"page"`
	Excerpt       string    `json:"excerpt"`
	ExcerptHash   string    `json:"excerptHash"`
	Relevance     Relevance `json:"relevance"`
}

// CitedConclusion is an atomic conclusion with its resolved citations.
// Confidence high requires at least one direct citation; low permits zero
// citations.
type CitedConclusion struct {
	ID         string         `json:"id"`
	Type       ConclusionType `json:"type"`
	Statement  string         `json:"statement"`
	Reasoning  string         `json:"reasoning"`
	Confidence Confidence     `json:"confidence"`
	Citations  []Citation     `json:"citations"`
}

// ClauseGroundedFields is the complete grounded result for one analysis,
// owned exclusively by that analysis record and persisted as one unit.
// AnalysisVersion is monotonically increasing: prior linked analysis's
// version + 1, or 1 if none.
type ClauseGroundedFields struct {
	AnalysisVersion int               `json:"analysisVersion"`
	PriorAnalysisID string            `json:"priorAnalysisId,omitempty"`
	Conclusions     []CitedConclusion `json:"conclusions"`
	OpenQuestions   []OpenQuestion    `json:"openQuestions"`
	DecisionGates   []DecisionGate    `json:"decisionGates"`
}

// Conclusion returns the cited conclusion with the given id, or nil.
func (g *ClauseGroundedFields) Conclusion(id string) *CitedConclusion {
	for i := range g.Conclusions {
		if g.Conclusions[i].ID == id {
			return &g.Conclusions[i]
		}
	}
	return nil
}

// Question returns the open question with the given id, or nil.
func (g *ClauseGroundedFields) Question(id string) *OpenQuestion {
	for i := range g.OpenQuestions {
		if g.OpenQuestions[i].ID == id {
			return &g.OpenQuestions[i]
		}
	}
	return nil
}

// Gate returns the decision gate with the given id, or nil.
func (g *ClauseGroundedFields) Gate(id string) *DecisionGate {
	for i := range g.DecisionGates {
		if g.DecisionGates[i].ID == id {
			return &g.DecisionGates[i]
		}
	}
	return nil
}
