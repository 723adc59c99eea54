// Package recommend ranks cruelty-free alternatives for a brand by
// category, price-tier proximity, and certification quality.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/consciouscart/brandcheck/internal/model"
)

// DefaultLimit is the number of alternatives returned when the caller does
// not ask for a specific count.
const DefaultLimit = 3

// Options tunes a recommendation query. The zero value means "top 3, no
// constraint filtering".
type Options struct {
	Limit int

	// MaxTier caps candidate price tiers when the user has a learned
	// budget. Empty means no cap. Candidates with an Unknown tier pass.
	MaxTier model.PriceTier

	// Value flags filter candidates whose record text indicates support.
	RequireVegan         bool
	RequireFragranceFree bool
	RequireParabenFree   bool
}

// Alternatives scores every cruelty-free candidate against the source
// brand and returns the top matches. The source brand itself and any
// non-cruelty-free candidate are always excluded. Ties break ascending by
// name so results are deterministic.
func Alternatives(source model.BrandRecord, candidates []model.BrandRecord, opts Options) []model.Recommendation {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	sourceKey := model.NormalizeName(source.Name)
	sourceRank := model.TierRank(source.PriceTier)

	var recs []model.Recommendation
	for _, cand := range candidates {
		if !cand.IsCrueltyFree || model.NormalizeName(cand.Name) == sourceKey {
			continue
		}
		if !passesConstraints(cand, opts) {
			continue
		}

		score := 0.0
		if cand.Category != "" && cand.Category == source.Category {
			score += 0.6
		}
		distance := math.Abs(float64(model.TierRank(cand.PriceTier) - sourceRank))
		score += 0.3 / (1.0 + distance)
		score += certBonus(cand)

		recs = append(recs, model.Recommendation{
			BrandName:     cand.Name,
			Category:      cand.Category,
			PriceTier:     cand.PriceTier,
			Certification: certificationTag(cand),
			ParentCompany: cand.ParentCompany,
			Score:         math.Round(score*100) / 100,
			MatchReason:   matchReason(cand, source),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].BrandName < recs[j].BrandName
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

func certBonus(rec model.BrandRecord) float64 {
	if rec.HasSource("Leaping Bunny") {
		return 0.1
	}
	if rec.HasSource("PETA") {
		return 0.05
	}
	return 0
}

func certificationTag(rec model.BrandRecord) string {
	if rec.HasSource("Leaping Bunny") {
		return "Leaping Bunny"
	}
	if rec.HasSource("PETA") {
		return "PETA"
	}
	return ""
}

func matchReason(cand, source model.BrandRecord) string {
	var reasons []string
	if cand.Category != "" && cand.Category == source.Category {
		reasons = append(reasons, fmt.Sprintf("Same category (%s)", cand.Category))
	}
	if cand.PriceTier != "" && cand.PriceTier == source.PriceTier {
		reasons = append(reasons, fmt.Sprintf("Similar price (%s)", cand.PriceTier))
	}
	if tag := certificationTag(cand); tag != "" {
		reasons = append(reasons, fmt.Sprintf("Certified %s", tag))
	}
	if len(reasons) == 0 {
		return "Cruelty-free alternative"
	}
	return strings.Join(reasons, " / ")
}

// passesConstraints applies learned user constraints. Filtering is opt-in
// via Options; the chat flow additionally forwards constraints to the
// reasoning model as a text hint.
func passesConstraints(cand model.BrandRecord, opts Options) bool {
	if opts.MaxTier != "" && cand.PriceTier != "" && cand.PriceTier != model.TierUnknown {
		if model.TierRank(cand.PriceTier) > model.TierRank(opts.MaxTier) {
			return false
		}
	}
	if opts.RequireVegan && !recordMentions(cand, "vegan") {
		return false
	}
	if opts.RequireFragranceFree && !recordMentions(cand, "fragrance-free") {
		return false
	}
	if opts.RequireParabenFree && !recordMentions(cand, "paraben-free") {
		return false
	}
	return true
}

// recordMentions checks the record's explanation and sources for a value
// keyword. Records rarely carry structured value data, so this stays a
// plain substring check.
func recordMentions(rec model.BrandRecord, keyword string) bool {
	if strings.Contains(strings.ToLower(rec.Explanation), keyword) {
		return true
	}
	for _, s := range rec.Sources {
		if strings.Contains(strings.ToLower(s), keyword) {
			return true
		}
	}
	return false
}
