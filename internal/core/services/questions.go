package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/parchment-labs/citeground-cli/internal/core/domain"
)

// questionImpacts are the fixed impact templates, keyed by category.
var questionImpacts = map[domain.QuestionCategory]string{
	domain.QuestionMissingFact:           "Affects whether the determination can be confirmed and the dollar exposure of the claim.",
	domain.QuestionAmbiguousClause:       "The conclusion is not anchored to policy language; the coverage outcome may not survive review.",
	domain.QuestionConflictingProvisions: "Conflicting provisions could flip the coverage outcome; requires clause-priority review.",
	domain.QuestionJurisdictional:        "Form applicability in the loss jurisdiction affects whether any coverage attaches.",
}

// Fact-category probes for the missing-fact check. A statement that
// references one of these categories needs the scenario to supply the
// matching fact.
var (
	dollarStatementRe = regexp.MustCompile(`(?i)\$|\b(deductible|sublimit|limit of insurance|policy limit|threshold)\b`)
	dollarScenarioRe  = regexp.MustCompile(`\$\s*[\d,.]+|\b\d+\s*(dollars|usd)\b`)

	dateStatementRe = regexp.MustCompile(`(?i)\b(date|deadline|within \d+ days|policy period|inception|expiration)\b`)
	dateScenarioRe  = regexp.MustCompile(`(?i)\b\d{4}\b|\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)

	perilWords = []string{
		"flood", "earthquake", "windstorm", "hail", "wildfire", "fire",
		"theft", "vandalism", "mold", "collapse", "smoke", "explosion",
	}
)

// questionID derives the stable id of an open question from its dedup key.
func questionID(category domain.QuestionCategory, question string) string {
	sum := sha256.Sum256([]byte(string(category) + "\x00" + question))
	return "oq-" + hex.EncodeToString(sum[:8])
}

// questionDetector accumulates open questions, deduplicated by
// (category, question).
type questionDetector struct {
	questions []domain.OpenQuestion
	seen      map[string]struct{}
}

func (d *questionDetector) add(category domain.QuestionCategory, question string) {
	key := string(category) + "\x00" + question
	if _, dup := d.seen[key]; dup {
		return
	}
	d.seen[key] = struct{}{}
	d.questions = append(d.questions, domain.OpenQuestion{
		ID:       questionID(category, question),
		Category: category,
		Question: question,
		Impact:   questionImpacts[category],
	})
}

// detectOpenQuestions synthesises the checklist of outstanding questions
// from weakly grounded conclusions and missing scenario facts. Output
// order is fixed: missing facts, ambiguous clauses, conflicts, then
// jurisdiction, each following conclusion order.
func detectOpenQuestions(
	conclusions []domain.CitedConclusion,
	scenario domain.Scenario,
	sources []domain.FormSourceSnapshot,
) []domain.OpenQuestion {
	d := &questionDetector{seen: make(map[string]struct{})}

	scenarioText := scenarioText(scenario)

	for _, c := range conclusions {
		detectMissingFacts(d, c, scenarioText)
	}

	for _, c := range conclusions {
		if c.Confidence == domain.ConfidenceLow {
			d.add(domain.QuestionAmbiguousClause,
				fmt.Sprintf("Which policy language supports the statement %q?", c.Statement))
		}
	}

	detectConflicts(d, conclusions)
	detectJurisdictional(d, scenario, sources)

	return d.questions
}

// scenarioText flattens the scenario narrative and facts for keyword
// probing.
func scenarioText(scenario domain.Scenario) string {
	var b strings.Builder
	b.WriteString(scenario.Narrative)
	for key, value := range scenario.Facts {
		b.WriteByte('\n')
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
	}
	return b.String()
}

// detectMissingFacts raises a question for each fact category the
// statement references but the scenario does not supply.
func detectMissingFacts(d *questionDetector, c domain.CitedConclusion, scenarioText string) {
	if dollarStatementRe.MatchString(c.Statement) && !dollarScenarioRe.MatchString(scenarioText) {
		d.add(domain.QuestionMissingFact,
			fmt.Sprintf("What dollar amount applies to the provision referenced by %q?", c.Statement))
	}

	if dateStatementRe.MatchString(c.Statement) && !dateScenarioRe.MatchString(scenarioText) {
		d.add(domain.QuestionMissingFact,
			fmt.Sprintf("What date or period applies to the provision referenced by %q?", c.Statement))
	}

	lowerStatement := strings.ToLower(c.Statement)
	lowerScenario := strings.ToLower(scenarioText)
	for _, peril := range perilWords {
		if strings.Contains(lowerStatement, peril) && !strings.Contains(lowerScenario, peril) {
			d.add(domain.QuestionMissingFact,
				fmt.Sprintf("Did the loss involve %s, as referenced by %q?", peril, c.Statement))
		}
	}
}

// Polarity keywords for the conflicting-provisions check. Checked against
// the raw lower-cased statement, not the token stream, since negations are
// stopwords there.
var (
	negativePolarity = []string{"not ", "no coverage", "excluded", "does not apply", "denie", "bars ", "barred"}
	positivePolarity = []string{"applies", "applicable", "covered", "covers", "will pay", "grants", "extends"}
)

func statementPolarity(statement string) int {
	lower := strings.ToLower(statement)
	for _, kw := range negativePolarity {
		if strings.Contains(lower, kw) {
			return -1
		}
	}
	for _, kw := range positivePolarity {
		if strings.Contains(lower, kw) {
			return 1
		}
	}
	return 0
}

// detectConflicts raises a question when two conclusions of different
// types cite an overlapping section with contradictory polarity.
func detectConflicts(d *questionDetector, conclusions []domain.CitedConclusion) {
	for i := 0; i < len(conclusions); i++ {
		for j := i + 1; j < len(conclusions); j++ {
			left, right := conclusions[i], conclusions[j]
			if left.Type == right.Type {
				continue
			}
			section := sharedSection(left.Citations, right.Citations)
			if section == "" {
				continue
			}
			if statementPolarity(left.Statement)*statementPolarity(right.Statement) != -1 {
				continue
			}
			d.add(domain.QuestionConflictingProvisions,
				fmt.Sprintf("Do %q and %q conflict over %s?", left.Statement, right.Statement, section))
		}
	}
}

// sharedSection returns the first section path cited on both sides,
// or "" when the citation sets do not overlap.
func sharedSection(left, right []domain.Citation) string {
	rightSlugs := make(map[string]string, len(right))
	for _, c := range right {
		if c.AnchorSlug != "" {
			rightSlugs[c.AnchorSlug] = c.SectionPath
		}
	}
	for _, c := range left {
		if path, ok := rightSlugs[c.AnchorSlug]; ok && c.AnchorSlug != "" {
			return path
		}
	}
	return ""
}

// detectJurisdictional raises a question when the scenario names a
// location but every referenced form declares a different jurisdiction.
// A form declaring no jurisdiction is treated as not jurisdiction-specific
// and satisfies any location.
func detectJurisdictional(d *questionDetector, scenario domain.Scenario, sources []domain.FormSourceSnapshot) {
	location := strings.TrimSpace(scenario.Location)
	if location == "" || len(sources) == 0 {
		return
	}

	lowerLocation := strings.ToLower(location)
	for _, src := range sources {
		jurisdiction := strings.ToLower(strings.TrimSpace(src.Jurisdiction))
		if jurisdiction == "" {
			return
		}
		if strings.Contains(lowerLocation, jurisdiction) || strings.Contains(jurisdiction, lowerLocation) {
			return
		}
	}

	d.add(domain.QuestionJurisdictional,
		fmt.Sprintf("Do the referenced forms apply in %s?", location))
}
