package model

// SearchEvidence holds signals reduced from a raw search-result text.
// It is transient and never persisted.
type SearchEvidence struct {
	SourcesCount int  `json:"sources_count"`
	HasConflicts bool `json:"has_conflicts"`
}

// VerificationResult is the outcome of verifying one brand from fresh
// search evidence.
type VerificationResult struct {
	Brand         string   `json:"brand"`
	IsCrueltyFree bool     `json:"is_cruelty_free"`
	SourcesCount  int      `json:"sources_count"`
	HasConflicts  bool     `json:"has_conflicts"`
	Confidence    float64  `json:"confidence"`
	Label         string   `json:"label"`
	Explanation   string   `json:"explanation,omitempty"`
	Sources       []string `json:"sources,omitempty"`
}

// Classification is the output of the static record classifier: a verdict
// with a heuristic confidence and ordered reasoning.
type Classification struct {
	Status        bool     `json:"status"`
	Confidence    float64  `json:"confidence"`
	Label         string   `json:"confidence_label"`
	Reasons       []string `json:"reasons"`
	Warnings      []string `json:"warning_flags"`
	Certification string   `json:"certification,omitempty"`
	ParentCompany string   `json:"parent_company,omitempty"`
}

// Recommendation is one ranked cruelty-free alternative.
type Recommendation struct {
	BrandName     string    `json:"brand_name"`
	Category      Category  `json:"category"`
	PriceTier     PriceTier `json:"price_tier"`
	Certification string    `json:"certification,omitempty"`
	ParentCompany string    `json:"parent_company,omitempty"`
	Score         float64   `json:"similarity_score"`
	MatchReason   string    `json:"match_reason"`
}
