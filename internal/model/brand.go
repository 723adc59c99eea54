package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// StaleAfter is the freshness window for brand verdicts. A record older
// than this should trigger re-verification. A record exactly at the
// boundary is still fresh.
const StaleAfter = 30 * 24 * time.Hour

// Category groups brands by product line.
type Category string

const (
	CategoryMakeup    Category = "Makeup"
	CategorySkincare  Category = "Skincare"
	CategoryHaircare  Category = "Haircare"
	CategoryFragrance Category = "Fragrance"
	CategoryUnknown   Category = "Unknown"
)

// PriceTier is an ordinal price band.
type PriceTier string

const (
	TierBudget   PriceTier = "Budget"
	TierMidRange PriceTier = "Mid-range"
	TierLuxury   PriceTier = "Luxury"
	TierUnknown  PriceTier = "Unknown"
)

// TierRank maps price tiers to ordinal ranks for proximity scoring.
// Unknown sits in the middle so it never dominates the distance term.
func TierRank(t PriceTier) int {
	switch t {
	case TierBudget:
		return 1
	case TierLuxury:
		return 3
	default: // Mid-range, Unknown, empty
		return 2
	}
}

// BrandRecord is one verified brand verdict, keyed case-insensitively
// by name. Records are replaced wholesale on re-save; no history is kept.
type BrandRecord struct {
	Name          string    `json:"name"`
	IsCrueltyFree bool      `json:"is_cruelty_free"`
	ParentCompany string    `json:"parent_company,omitempty"`
	Explanation   string    `json:"explanation"`
	Sources       []string  `json:"sources"`
	Confidence    float64   `json:"confidence"`
	LastVerified  time.Time `json:"last_verified"`
	Category      Category  `json:"category,omitempty"`
	PriceTier     PriceTier `json:"price_tier,omitempty"`
}

// IsStale reports whether the record is older than the freshness window
// at the given instant. Exactly StaleAfter old is still fresh.
func (r BrandRecord) IsStale(now time.Time) bool {
	return now.Sub(r.LastVerified) > StaleAfter
}

// HasSource reports whether the record carries the given evidence tag,
// case-insensitively.
func (r BrandRecord) HasSource(tag string) bool {
	for _, s := range r.Sources {
		if strings.EqualFold(strings.TrimSpace(s), tag) {
			return true
		}
	}
	return false
}

var nameFolder = cases.Fold()

// NormalizeName produces the case-insensitive lookup key for a brand name.
func NormalizeName(name string) string {
	return nameFolder.String(strings.TrimSpace(name))
}

// ImportRow is one tabular row from a CSV/XLSX import source.
type ImportRow struct {
	BrandName     string    `json:"brand_name"`
	CrueltyFree   bool      `json:"cruelty_free"`
	ParentCompany string    `json:"parent_company"`
	Certification string    `json:"certification"`
	Category      Category  `json:"category"`
	PriceTier     PriceTier `json:"price_tier"`
}

// ImportResult reports the outcome of a bulk import. A bad row never
// aborts the batch; it is skipped and counted.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// BrandCount pairs a brand name with a search count for stats.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// Stats summarizes the brand table and recent search activity.
type Stats struct {
	TotalBrands           int          `json:"total_brands"`
	CrueltyFreeCount      int          `json:"cruelty_free_count"`
	NotCrueltyFreeCount   int          `json:"not_cruelty_free_count"`
	CrueltyFreePercentage float64      `json:"cruelty_free_percentage"`
	RecentSearches7d      int          `json:"recent_searches_7d"`
	TopSearchedBrands     []BrandCount `json:"top_searched_brands"`
}
