package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

// conclusionID derives the stable id of an atomic conclusion from its
// identity triple. Re-running extraction on unchanged input yields the
// same ids, so grounded results can be diffed across runs.
func conclusionID(typ domain.ConclusionType, sourceFieldIndex int, statement string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d\x00%s", typ, sourceFieldIndex, statement)))
	return "concl-" + hex.EncodeToString(sum[:8])
}

// extractConclusions decomposes the structured analysis fields into atomic
// typed statements, one per non-empty list entry. Whitespace-only entries
// are skipped; order within a type follows the source list.
func extractConclusions(fields domain.StructuredFields) []domain.AtomicConclusion {
	var conclusions []domain.AtomicConclusion

	appendList := func(typ domain.ConclusionType, entries []string) {
		for i, entry := range entries {
			statement := strings.TrimSpace(entry)
			if statement == "" {
				continue
			}
			conclusions = append(conclusions, domain.AtomicConclusion{
				ID:               conclusionID(typ, i, statement),
				Type:             typ,
				Statement:        statement,
				SourceFieldIndex: i,
			})
		}
	}

	appendList(domain.ConclusionCoverageGrant, fields.ApplicableCoverages)
	appendList(domain.ConclusionExclusion, fields.RelevantExclusions)
	appendList(domain.ConclusionCondition, fields.ConditionsAndLimitations)
	appendList(domain.ConclusionRecommendation, fields.Recommendations)

	return conclusions
}
