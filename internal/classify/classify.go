// Package classify turns brand records and search evidence into verdicts
// with heuristic confidence scores. Both models are pure functions.
package classify

import (
	"fmt"
	"math"

	"github.com/consciouscart/brandcheck/internal/model"
)

// testingParents maps parent companies known to test on animals to a short
// description of their policy. Curated list; used by the static classifier.
var testingParents = map[string]string{
	"L'Oréal":           "tests in China where required by law",
	"Estée Lauder":      "tests in some markets",
	"Procter & Gamble":  "conducts animal testing",
	"Johnson & Johnson": "tests on animals",
	"Coty":              "allows animal testing in some regions",
	"Unilever":          "tests in markets where required",
	"Revlon Inc":        "parent company tests",
	"LVMH":              "some brands test in China",
	"Chanel":            "tests where required by law",
	"Shiseido":          "conducts animal testing in China",
	"Euroitalia":        "tests in some markets",
}

// Record classifies a stored brand record without fresh search evidence.
// Rule cascade: certification first (strongest signal), then parent-company
// analysis, then a cross-check for thinly-sourced claims.
func Record(rec model.BrandRecord) model.Classification {
	confidence := 0.50
	status := rec.IsCrueltyFree

	var reasons, warnings []string
	certification := certificationOf(rec)

	switch {
	case certification == "Leaping Bunny":
		confidence = math.Max(confidence, 0.95)
		reasons = append(reasons, "Leaping Bunny certified - the gold standard for cruelty-free")
	case certification == "PETA":
		confidence = math.Max(confidence, 0.90)
		reasons = append(reasons, "PETA certified cruelty-free")
	case status:
		confidence = 0.65
		reasons = append(reasons, "No third-party certification - based on the brand's own claims")
		warnings = append(warnings, "Consider looking for certified alternatives")
	default:
		confidence = 0.80
		reasons = append(reasons, "Not certified cruelty-free")
	}

	parent := rec.ParentCompany
	if parent == "Independent" {
		confidence = math.Min(confidence+0.05, 1.0)
		reasons = append(reasons, "Independent company, no parent-company complications")
	} else if policy, tests := testingParents[parent]; tests {
		if status {
			// Brand claims cruelty-free while its owner tests.
			confidence = math.Max(0.70, confidence-0.15)
			warnings = append(warnings, fmt.Sprintf("Parent company (%s) %s", parent, policy))
			reasons = append(reasons, fmt.Sprintf("Brand is cruelty-free but parent company %s", policy))
		} else {
			// Owner's testing corroborates the negative verdict.
			confidence = 0.90
			reasons = append(reasons, fmt.Sprintf("Parent company (%s) %s", parent, policy))
		}
	} else if parent != "" && parent != "Unknown" {
		reasons = append(reasons, fmt.Sprintf("Parent company: %s", parent))
	}

	if status && certification == "" && (parent == "" || parent == "Unknown") {
		confidence = 0.50
		warnings = append(warnings, "Limited information available - verify with brand directly")
	}

	if rec.Category == model.CategoryFragrance && !status {
		reasons = append(reasons, "Many fragrance brands test in markets requiring it")
	}

	confidence = round2(confidence)
	return model.Classification{
		Status:        status,
		Confidence:    confidence,
		Label:         ConfidenceLabel(confidence),
		Reasons:       reasons,
		Warnings:      warnings,
		Certification: certification,
		ParentCompany: parent,
	}
}

// ConfidenceLabel maps a static-classifier confidence to its display label.
func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= 0.90:
		return "Very High"
	case confidence >= 0.80:
		return "High"
	case confidence >= 0.70:
		return "Moderate"
	case confidence >= 0.60:
		return "Low"
	default:
		return "Very Low"
	}
}

// certificationOf picks the strongest certification tag carried by the
// record's sources.
func certificationOf(rec model.BrandRecord) string {
	if rec.HasSource("Leaping Bunny") {
		return "Leaping Bunny"
	}
	if rec.HasSource("PETA") {
		return "PETA"
	}
	return ""
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
