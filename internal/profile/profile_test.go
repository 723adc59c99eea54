package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consciouscart/brandcheck/internal/model"
)

func TestLearnFromFeedback_BudgetFromExpensive(t *testing.T) {
	p := New()

	p.LearnFromFeedback("that's too expensive for me", FeedbackContext{LastPrice: 20, HasPrice: true})
	assert.Equal(t, 14, p.BudgetMax)

	// "affordable" at the current price keeps the budget where it is.
	p.LearnFromFeedback("actually pretty affordable", FeedbackContext{LastPrice: 14, HasPrice: true})
	assert.Equal(t, 14, p.BudgetMax)
}

func TestLearnFromFeedback_NoPriceNoBudget(t *testing.T) {
	p := New()

	p.LearnFromFeedback("way too pricey", FeedbackContext{})
	assert.Equal(t, 0, p.BudgetMax)
}

func TestLearnFromFeedback_Values(t *testing.T) {
	p := New()
	assert.True(t, p.Values.CrueltyFree)

	p.LearnFromFeedback("I only buy vegan products without fragrance", FeedbackContext{})
	assert.True(t, p.Values.Vegan)
	assert.True(t, p.Values.FragranceFree)
	assert.False(t, p.Values.ParabenFree)

	p.LearnFromFeedback("no parabens please", FeedbackContext{})
	assert.True(t, p.Values.ParabenFree)

	// Flags never reset.
	p.LearnFromFeedback("whatever works", FeedbackContext{})
	assert.True(t, p.Values.Vegan)
}

func TestLearnFromFeedback_OneMessageMultipleSignals(t *testing.T) {
	p := New()

	p.LearnFromFeedback("too expensive, and I want vegan and paraben-free", FeedbackContext{LastPrice: 30, HasPrice: true})
	assert.Equal(t, 21, p.BudgetMax)
	assert.True(t, p.Values.Vegan)
	assert.True(t, p.Values.ParabenFree)
}

func TestConstraintsString(t *testing.T) {
	p := New()
	assert.Equal(t, "cruelty-free", p.ConstraintsString())

	p.Values.Vegan = true
	p.Values.FragranceFree = true
	p.Values.ParabenFree = true
	p.BudgetMax = 25
	assert.Equal(t, "cruelty-free, vegan, fragrance-free, paraben-free, under $25", p.ConstraintsString())
}

func TestSummary(t *testing.T) {
	p := New()
	assert.Equal(t, "Learning your preferences...", p.Summary())

	p.BudgetMax = 15
	p.Values.Vegan = true
	p.AddToHistory("Pacifica", model.CategorySkincare, true, 12)

	s := p.Summary()
	assert.Contains(t, s, "Budget under $15")
	assert.Contains(t, s, "Vegan only")
	assert.Contains(t, s, "Likes Pacifica")
}

func TestAddToHistory_SortsBrandsByVerdict(t *testing.T) {
	p := New()

	p.AddToHistory("Pacifica", model.CategorySkincare, true, 12)
	p.AddToHistory("e.l.f. Cosmetics", model.CategoryMakeup, true, 7)
	p.AddToHistory("Maybelline", model.CategoryMakeup, false, 9)

	assert.ElementsMatch(t, []string{"Pacifica", "e.l.f. Cosmetics"}, p.PreferredBrands())
	assert.Equal(t, []string{"Maybelline"}, p.RejectedBrands())
	assert.Len(t, p.ProductHistory, 3)
}

func TestIsFeedback(t *testing.T) {
	assert.True(t, IsFeedback("that's too expensive"))
	assert.True(t, IsFeedback("Perfect, I love it"))
	assert.False(t, IsFeedback("Is Maybelline cruelty-free?"))
}
