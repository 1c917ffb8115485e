package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

// stopwords are dropped during tokenisation. Function words carry no
// anchoring signal and inflate overlap scores between unrelated texts.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "does": {}, "for": {}, "from": {},
	"has": {}, "have": {}, "if": {}, "in": {}, "is": {}, "it": {},
	"its": {}, "may": {}, "not": {}, "of": {}, "on": {}, "or": {},
	"shall": {}, "such": {}, "that": {}, "the": {}, "this": {}, "to": {},
	"we": {}, "which": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// stemSuffixes are stripped from long tokens so inflected forms of the
// same clause term match (coverage/covered, building/buildings). Order
// matters: longer suffixes first.
var stemSuffixes = []string{"ing", "age", "ed", "es", "s"}

// normalizeToken lower-cases a token and strips one common suffix when the
// remainder stays at least four characters. A crude stemmer, but the
// overlap formula is a tunable heuristic; only threshold ordering and
// determinism are contractual.
func normalizeToken(tok string) string {
	tok = strings.ToLower(tok)
	if len(tok) <= 5 {
		return tok
	}
	for _, suf := range stemSuffixes {
		if strings.HasSuffix(tok, suf) && len(tok)-len(suf) >= 4 {
			return tok[:len(tok)-len(suf)]
		}
	}
	return tok
}

// tokenize splits text into normalized word tokens: lower-cased,
// punctuation-stripped, stopwords removed, suffix-stemmed. Both the anchor
// index and the resolver use this, so statements and chunks always meet in
// the same token space.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		lower := strings.ToLower(f)
		if _, skip := stopwords[lower]; skip {
			continue
		}
		tokens = append(tokens, normalizeToken(lower))
	}
	return tokens
}

// tokenSet returns the distinct tokens of text.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// indexedChunk is one chunk prepared for matching.
type indexedChunk struct {
	chunk       domain.FormChunk
	sectionPath string
	tokens      map[string]struct{}
}

// anchorIndex is the searchable token index for one form version.
// Rebuilding it from the same chunk list yields identical postings.
type anchorIndex struct {
	formVersionID string
	chunks        []indexedChunk

	// postings maps token to the positions (into chunks) containing it,
	// ascending and distinct.
	postings map[string][]int
}

// buildAnchorIndex indexes the chunks of one form version. Chunks are
// assumed ordered by Index; empty and whitespace-only chunks are indexed
// with no tokens and never match.
func buildAnchorIndex(formVersionID string, sections []domain.FormSection, chunks []domain.FormChunk) *anchorIndex {
	sectionPaths := make(map[string]string, len(sections))
	for _, sec := range sections {
		sectionPaths[sec.ID] = sec.Path
	}

	idx := &anchorIndex{
		formVersionID: formVersionID,
		chunks:        make([]indexedChunk, 0, len(chunks)),
		postings:      make(map[string][]int),
	}

	for _, chunk := range chunks {
		pos := len(idx.chunks)
		tokens := tokenSet(chunk.Text)
		idx.chunks = append(idx.chunks, indexedChunk{
			chunk:       chunk,
			sectionPath: sectionPaths[chunk.SectionID],
			tokens:      tokens,
		})
		for tok := range tokens {
			idx.postings[tok] = append(idx.postings[tok], pos)
		}
	}

	// Map iteration above appends in arbitrary token order but each
	// posting list is appended in ascending chunk position already.
	return idx
}

// candidates returns the distinct chunk positions containing any of the
// given tokens, ascending.
func (idx *anchorIndex) candidates(tokens []string) []int {
	seen := make(map[int]struct{})
	for _, tok := range tokens {
		for _, pos := range idx.postings[tok] {
			seen[pos] = struct{}{}
		}
	}
	positions := make([]int, 0, len(seen))
	for pos := range seen {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions
}
