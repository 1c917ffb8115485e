package domain

// GroundingInput is everything the grounding orchestrator needs, already
// loaded. The pure grounding function performs no I/O: ingestion data for
// every referenced form version must be present in the maps, keyed by
// form version id.
type GroundingInput struct {
	// Determination is the analysis's top-level outcome.
	Determination Determination

	// Fields are the structured fields to decompose and ground.
	Fields StructuredFields

	// Scenario holds the loss facts, scanned by the open-question detector.
	Scenario Scenario

	// ExistingCitations are citations already attached to the analysis,
	// carried through untouched.
	ExistingCitations []Citation

	// SectionsByFormVersion maps form version id to its ordered sections.
	SectionsByFormVersion map[string][]FormSection

	// ChunksByFormVersion maps form version id to its ordered chunks.
	ChunksByFormVersion map[string][]FormChunk

	// Sources lists the referenced form versions.
	Sources []FormSourceSnapshot

	// OutputMarkdown is the rendered analysis text. Carried, never parsed.
	OutputMarkdown string
}
