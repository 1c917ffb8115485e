package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
	"github.com/parchment-labs/citeground-cli/internal/excerpt"
)

// chunksPerPageEstimate approximates pagination when a chunk carries no
// page metadata. Roughly three chunks of policy text fit on one page.
const chunksPerPageEstimate = 3

// scoredCandidate is one chunk that cleared the minimum overlap threshold.
type scoredCandidate struct {
	formVersionID string
	position      int // position within the form version's index
	score         float64
}

// citationResolver matches atomic conclusions against the anchor indexes
// of every referenced form version.
type citationResolver struct {
	cfg     domain.GroundingConfig
	indexes map[string]*anchorIndex
	labels  map[string]string // form version id -> display label

	// versionOrder fixes the iteration order over form versions so equal
	// scores always break ties the same way.
	versionOrder []string
}

// newCitationResolver builds a resolver over the given per-version indexes.
func newCitationResolver(cfg domain.GroundingConfig, indexes map[string]*anchorIndex, sources []domain.FormSourceSnapshot) *citationResolver {
	labels := make(map[string]string, len(sources))
	for _, src := range sources {
		labels[src.FormVersionID] = src.Label
	}

	order := make([]string, 0, len(indexes))
	for id := range indexes {
		order = append(order, id)
	}
	sort.Strings(order)

	return &citationResolver{
		cfg:          cfg,
		indexes:      indexes,
		labels:       labels,
		versionOrder: order,
	}
}

// resolve searches every referenced form version for chunks supporting the
// conclusion and returns it with ranked, classified citations. A
// conclusion no chunk supports is a normal outcome: zero citations,
// confidence low.
func (r *citationResolver) resolve(conclusion domain.AtomicConclusion) domain.CitedConclusion {
	statementTokens := tokenize(conclusion.Statement)

	var candidates []scoredCandidate
	if len(statementTokens) > 0 {
		for _, versionID := range r.versionOrder {
			idx := r.indexes[versionID]
			for _, pos := range idx.candidates(statementTokens) {
				score := overlapScore(statementTokens, idx.chunks[pos].tokens)
				if score >= r.cfg.MinThreshold {
					candidates = append(candidates, scoredCandidate{
						formVersionID: versionID,
						position:      pos,
						score:         score,
					})
				}
			}
		}
	}

	// Rank descending by score, then by (formVersionID, chunkIndex) so
	// ties resolve identically on every run.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].formVersionID != candidates[j].formVersionID {
			return candidates[i].formVersionID < candidates[j].formVersionID
		}
		return candidates[i].position < candidates[j].position
	})

	if len(candidates) > r.cfg.MaxCitationsPerConclusion {
		candidates = candidates[:r.cfg.MaxCitationsPerConclusion]
	}

	citations := make([]domain.Citation, 0, len(candidates))
	for _, cand := range candidates {
		citations = append(citations, r.buildCitation(cand))
	}

	return domain.CitedConclusion{
		ID:         conclusion.ID,
		Type:       conclusion.Type,
		Statement:  conclusion.Statement,
		Reasoning:  reasoningFor(citations),
		Confidence: confidenceFor(citations),
		Citations:  citations,
	}
}

// buildCitation materialises one citation from a scored candidate.
func (r *citationResolver) buildCitation(cand scoredCandidate) domain.Citation {
	idx := r.indexes[cand.formVersionID]
	ic := idx.chunks[cand.position]

	text := truncateAtWordBoundary(ic.chunk.Text, r.cfg.MaxExcerptLength)

	page := ic.chunk.Page
	if page <= 0 {
		page = ic.chunk.Index/chunksPerPageEstimate + 1
	}

	return domain.Citation{
		FormVersionID: cand.formVersionID,
		FormLabel:     r.labels[cand.formVersionID],
		SectionPath:   ic.sectionPath,
		AnchorSlug:    anchorSlug(ic.sectionPath),
		Page:          page,
		Excerpt:       text,
		ExcerptHash:   excerpt.Hash(text),
		Relevance:     r.relevanceFor(cand.score),
	}
}

// relevanceFor classifies an overlap score against the configured
// thresholds.
func (r *citationResolver) relevanceFor(score float64) domain.Relevance {
	switch {
	case score >= r.cfg.DirectThreshold:
		return domain.RelevanceDirect
	case score >= r.cfg.SupportingThreshold:
		return domain.RelevanceSupporting
	default:
		return domain.RelevanceContextual
	}
}

// overlapScore is the share of statement tokens present in the chunk.
// Jaccard-like but asymmetric: a short statement fully contained in a
// long chunk scores 1.0.
func overlapScore(statementTokens []string, chunkTokens map[string]struct{}) float64 {
	if len(statementTokens) == 0 {
		return 0
	}
	distinct := make(map[string]struct{}, len(statementTokens))
	shared := 0
	for _, tok := range statementTokens {
		if _, dup := distinct[tok]; dup {
			continue
		}
		distinct[tok] = struct{}{}
		if _, ok := chunkTokens[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(distinct))
}

// confidenceFor derives conclusion confidence from the citation set:
// high iff any citation is direct, medium iff any is supporting,
// low otherwise (including zero citations).
func confidenceFor(citations []domain.Citation) domain.Confidence {
	confidence := domain.ConfidenceLow
	for _, c := range citations {
		switch c.Relevance {
		case domain.RelevanceDirect:
			return domain.ConfidenceHigh
		case domain.RelevanceSupporting:
			confidence = domain.ConfidenceMedium
		case domain.RelevanceContextual:
		}
	}
	return confidence
}

// reasoningFor renders the fixed reasoning template naming the matched
// sections. Deterministic, never free-generated prose.
func reasoningFor(citations []domain.Citation) string {
	if len(citations) == 0 {
		return "No sufficiently similar clause text found in the referenced forms."
	}

	var paths []string
	seen := make(map[string]struct{})
	for _, c := range citations {
		path := c.SectionPath
		if path == "" {
			path = "(untitled section)"
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}

	return fmt.Sprintf("Matched policy text in %s.", strings.Join(paths, "; "))
}

// truncateAtWordBoundary shortens text to at most maxLen bytes, cutting at
// the last space before the limit so no token is split. Falls back to a
// hard cut when the text has no space inside the limit.
func truncateAtWordBoundary(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	cut := text[:maxLen]
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	} else {
		// No space inside the limit: hard cut, but never mid-rune.
		for len(cut) > 0 {
			if r, _ := utf8.DecodeLastRuneInString(cut); r != utf8.RuneError {
				break
			}
			cut = cut[:len(cut)-1]
		}
	}
	return strings.TrimRightFunc(cut, unicode.IsSpace)
}

// anchorSlug derives the stable lower-kebab-case anchor for a section path.
func anchorSlug(sectionPath string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(sectionPath) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
