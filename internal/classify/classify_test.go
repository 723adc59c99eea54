package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consciouscart/brandcheck/internal/model"
)

func TestRecord_TestingParentCorroboratesNegative(t *testing.T) {
	// Maybelline: not cruelty-free, owned by a testing parent.
	cls := Record(model.BrandRecord{
		Name:          "Maybelline",
		IsCrueltyFree: false,
		ParentCompany: "L'Oréal",
		Sources:       []string{"PETA"},
	})

	assert.False(t, cls.Status)
	assert.Equal(t, 0.90, cls.Confidence)
	assert.Equal(t, "Very High", cls.Label)
	assert.Equal(t, "L'Oréal", cls.ParentCompany)
}

func TestRecord_LeapingBunnyCertified(t *testing.T) {
	cls := Record(model.BrandRecord{
		Name:          "e.l.f. Cosmetics",
		IsCrueltyFree: true,
		ParentCompany: "Independent",
		Sources:       []string{"Leaping Bunny", "PETA"},
	})

	assert.True(t, cls.Status)
	// 0.95 cert + 0.05 independent bonus, capped at 1.0.
	assert.Equal(t, 1.0, cls.Confidence)
	assert.Equal(t, "Very High", cls.Label)
	assert.Equal(t, "Leaping Bunny", cls.Certification)
}

func TestRecord_PETABelowLeapingBunny(t *testing.T) {
	lb := Record(model.BrandRecord{Name: "A", IsCrueltyFree: true, Sources: []string{"Leaping Bunny"}})
	peta := Record(model.BrandRecord{Name: "B", IsCrueltyFree: true, Sources: []string{"PETA"}})
	uncertified := Record(model.BrandRecord{Name: "C", IsCrueltyFree: true, ParentCompany: "Independent"})

	assert.Greater(t, lb.Confidence, peta.Confidence)
	assert.Greater(t, peta.Confidence, uncertified.Confidence)
}

func TestRecord_ClaimedButUncertified(t *testing.T) {
	cls := Record(model.BrandRecord{
		Name:          "Glossier",
		IsCrueltyFree: true,
		ParentCompany: "Independent",
	})

	assert.Equal(t, 0.70, cls.Confidence)
	assert.Equal(t, "Moderate", cls.Label)
	assert.Contains(t, cls.Warnings[0], "certified alternatives")
}

func TestRecord_CrueltyFreeUnderTestingParent(t *testing.T) {
	// Urban Decay: certified cruelty-free, but owned by L'Oréal.
	cls := Record(model.BrandRecord{
		Name:          "Urban Decay",
		IsCrueltyFree: true,
		ParentCompany: "L'Oréal",
		Sources:       []string{"Leaping Bunny"},
	})

	assert.True(t, cls.Status)
	assert.Equal(t, 0.80, cls.Confidence)
	assert.NotEmpty(t, cls.Warnings)
	assert.Contains(t, cls.Warnings[0], "L'Oréal")
}

func TestRecord_LimitedInformation(t *testing.T) {
	cls := Record(model.BrandRecord{Name: "Obscure Brand", IsCrueltyFree: true})

	assert.Equal(t, 0.50, cls.Confidence)
	assert.Equal(t, "Very Low", cls.Label)
	assert.Contains(t, cls.Warnings[len(cls.Warnings)-1], "Limited information")
}

func TestRecord_FragranceNegativeReason(t *testing.T) {
	cls := Record(model.BrandRecord{
		Name:          "Versace Fragrances",
		IsCrueltyFree: false,
		ParentCompany: "Euroitalia",
		Category:      model.CategoryFragrance,
	})

	assert.Contains(t, cls.Reasons[len(cls.Reasons)-1], "fragrance brands")
}

func TestConfidenceLabel(t *testing.T) {
	assert.Equal(t, "Very High", ConfidenceLabel(0.95))
	assert.Equal(t, "Very High", ConfidenceLabel(0.90))
	assert.Equal(t, "High", ConfidenceLabel(0.85))
	assert.Equal(t, "Moderate", ConfidenceLabel(0.72))
	assert.Equal(t, "Low", ConfidenceLabel(0.65))
	assert.Equal(t, "Very Low", ConfidenceLabel(0.50))
}
