// Package profile holds per-conversation user preferences learned from
// free-text feedback. A Profile lives for one session, is owned by its
// caller, and is never persisted.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/consciouscart/brandcheck/internal/model"
)

// Values are the product values a user has expressed. CrueltyFree is
// always on; it is the point of the whole system.
type Values struct {
	Vegan         bool `json:"vegan"`
	FragranceFree bool `json:"fragrance_free"`
	ParabenFree   bool `json:"paraben_free"`
	CrueltyFree   bool `json:"cruelty_free"`
}

// HistoryEntry records one brand the user has checked this session.
type HistoryEntry struct {
	Brand         string         `json:"brand"`
	Category      model.Category `json:"category"`
	IsCrueltyFree bool           `json:"is_cruelty_free"`
	Price         float64        `json:"price,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// FeedbackContext carries the recommendation context feedback refers to.
type FeedbackContext struct {
	// LastPrice is the price of the most recent recommendation, if known.
	LastPrice float64
	HasPrice  bool
}

// Profile accumulates a user's constraints over one conversation.
type Profile struct {
	BudgetMax       int // 0 = no learned budget
	Values          Values
	ProductHistory  []HistoryEntry
	preferredBrands map[string]string // normalized -> display
	rejectedBrands  map[string]string
}

// New returns an empty profile. Only feedback learning mutates it.
func New() *Profile {
	return &Profile{
		Values:          Values{CrueltyFree: true},
		preferredBrands: make(map[string]string),
		rejectedBrands:  make(map[string]string),
	}
}

var expensiveWords = []string{"expensive", "too much", "pricey"}

var cheapWords = []string{"cheap", "affordable", "budget"}

// feedbackWords flag a message as feedback on a previous recommendation
// rather than a new query.
var feedbackWords = []string{
	"expensive", "cheap", "too much", "perfect", "good", "bad",
	"affordable", "pricey", "budget", "love", "hate",
}

// IsFeedback reports whether a message reads as feedback on a previous
// recommendation.
func IsFeedback(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range feedbackWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// LearnFromFeedback updates the profile from a free-text message. The
// checks are independent: one message can move the budget and set several
// value flags at once. Flags never reset within a session.
func (p *Profile) LearnFromFeedback(text string, fctx FeedbackContext) {
	lower := strings.ToLower(text)

	if containsAny(lower, expensiveWords) {
		if fctx.HasPrice {
			// Too expensive: cap the budget 30% below the offending price.
			p.BudgetMax = int(math.Floor(fctx.LastPrice * 0.7))
		}
	} else if containsAny(lower, cheapWords) {
		if fctx.HasPrice {
			p.BudgetMax = int(math.Floor(fctx.LastPrice))
		}
	}

	if strings.Contains(lower, "vegan") {
		p.Values.Vegan = true
	}
	if strings.Contains(lower, "fragrance") || strings.Contains(lower, "scent") {
		p.Values.FragranceFree = true
	}
	if strings.Contains(lower, "paraben") {
		p.Values.ParabenFree = true
	}
}

// AddToHistory records a checked brand and sorts it into the preferred or
// rejected set by verdict.
func (p *Profile) AddToHistory(brand string, category model.Category, isCrueltyFree bool, price float64) {
	p.ProductHistory = append(p.ProductHistory, HistoryEntry{
		Brand:         brand,
		Category:      category,
		IsCrueltyFree: isCrueltyFree,
		Price:         price,
		Timestamp:     time.Now(),
	})

	key := model.NormalizeName(brand)
	if isCrueltyFree {
		p.preferredBrands[key] = brand
	} else {
		p.rejectedBrands[key] = brand
	}
}

// PreferredBrands returns the cruelty-free brands the user has checked,
// sorted for stable output.
func (p *Profile) PreferredBrands() []string {
	return sortedValues(p.preferredBrands)
}

// RejectedBrands returns the non-cruelty-free brands the user has checked.
func (p *Profile) RejectedBrands() []string {
	return sortedValues(p.rejectedBrands)
}

// ConstraintsString renders the active constraints for the reasoning
// model. Always starts with "cruelty-free"; flag order is fixed.
func (p *Profile) ConstraintsString() string {
	constraints := []string{"cruelty-free"}
	if p.Values.Vegan {
		constraints = append(constraints, "vegan")
	}
	if p.Values.FragranceFree {
		constraints = append(constraints, "fragrance-free")
	}
	if p.Values.ParabenFree {
		constraints = append(constraints, "paraben-free")
	}
	if p.BudgetMax > 0 {
		constraints = append(constraints, fmt.Sprintf("under $%d", p.BudgetMax))
	}
	return strings.Join(constraints, ", ")
}

// Summary renders a short human-readable profile line for display.
func (p *Profile) Summary() string {
	var parts []string
	if p.BudgetMax > 0 {
		parts = append(parts, fmt.Sprintf("Budget under $%d", p.BudgetMax))
	}
	if p.Values.Vegan {
		parts = append(parts, "Vegan only")
	}
	if p.Values.FragranceFree {
		parts = append(parts, "Fragrance-free")
	}
	if preferred := p.PreferredBrands(); len(preferred) > 0 {
		if len(preferred) > 2 {
			preferred = preferred[:2]
		}
		parts = append(parts, "Likes "+strings.Join(preferred, ", "))
	}
	if len(parts) == 0 {
		return "Learning your preferences..."
	}
	return strings.Join(parts, " | ")
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
