package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/consciouscart/brandcheck/internal/model"
)

// sourcesCheckedRe matches the "SOURCES CHECKED: N" marker emitted by the
// multi-source search provider.
var sourcesCheckedRe = regexp.MustCompile(`(?i)SOURCES CHECKED:\s*(\d+)`)

// knownSources are counted as an approximation when the search text has no
// explicit marker.
var knownSources = []string{"peta", "leaping bunny", "cruelty-free", "logical harmony"}

var positiveTerms = []string{"certified", "approved", "cruelty-free"}

var negativeTerms = []string{"not cruelty-free", "tests on animals", "not certified"}

// ParseEvidence reduces a raw search-result text to the two signals the
// evidence confidence model consumes.
func ParseEvidence(text string) model.SearchEvidence {
	lower := strings.ToLower(text)

	count := 0
	if m := sourcesCheckedRe.FindStringSubmatch(text); m != nil {
		count, _ = strconv.Atoi(m[1])
	} else {
		for _, src := range knownSources {
			count += strings.Count(lower, src)
		}
	}

	return model.SearchEvidence{
		SourcesCount: count,
		HasConflicts: containsAny(lower, positiveTerms) && containsAny(lower, negativeTerms),
	}
}

// EvidenceConfidence scores fresh search evidence: more corroborating
// sources raise confidence, detected conflicts subtract a flat penalty.
// The result is clamped to [0.1, 1.0].
func EvidenceConfidence(ev model.SearchEvidence) float64 {
	confidence := 0.50
	switch {
	case ev.SourcesCount >= 4:
		confidence = 0.95
	case ev.SourcesCount >= 3:
		confidence = 0.85
	case ev.SourcesCount >= 2:
		confidence = 0.75
	}

	if ev.HasConflicts {
		confidence -= 0.25
	}

	if confidence < 0.1 {
		confidence = 0.1
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return round2(confidence)
}

// EvidenceLabel maps an evidence-model confidence to its display label.
// The scale differs from the static classifier's; the two models score
// different inputs.
func EvidenceLabel(confidence float64) string {
	switch {
	case confidence >= 0.90:
		return "Very High"
	case confidence >= 0.75:
		return "High"
	case confidence >= 0.50:
		return "Medium"
	default:
		return "Low"
	}
}

// FromEvidence builds a full verification result for a brand from a raw
// search text and the verdict extracted from it.
func FromEvidence(brand string, isCrueltyFree bool, text string) model.VerificationResult {
	ev := ParseEvidence(text)
	confidence := EvidenceConfidence(ev)
	return model.VerificationResult{
		Brand:         brand,
		IsCrueltyFree: isCrueltyFree,
		SourcesCount:  ev.SourcesCount,
		HasConflicts:  ev.HasConflicts,
		Confidence:    confidence,
		Label:         EvidenceLabel(confidence),
	}
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
