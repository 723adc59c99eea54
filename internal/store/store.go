// Package store persists brand verdicts and search history. Two backends
// implement the same interface: SQLite (default, single local file) and
// Postgres (shared deployments).
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/consciouscart/brandcheck/internal/model"
)

// ErrNotFound is returned by Lookup when no brand matches. A miss is a
// valid outcome, not a failure; callers should branch on it with eris.Is.
var ErrNotFound = eris.New("store: brand not found")

// DefaultConfidence is applied when a save request carries no explicit
// confidence score.
const DefaultConfidence = 0.9

// DefaultSearchLimit caps Search results when the caller passes limit <= 0.
const DefaultSearchLimit = 10

// Store is the persistence contract for brand verdicts.
//
// Lookup resolves case-insensitively: exact match first, then substring
// fallback where the shortest stored name wins (documented choice, keeps
// "rose" resolving to "Rose Inc" over "Rosen Apothecary" deterministically).
//
// Upsert is last-write-wins and always stamps LastVerified. Seed is the
// one exception: it inserts-or-ignores so repeated initialization never
// clobbers corrected records.
type Store interface {
	Lookup(ctx context.Context, name string) (*model.BrandRecord, error)
	Upsert(ctx context.Context, rec model.BrandRecord) error
	Search(ctx context.Context, query string, limit int) ([]model.BrandRecord, error)
	ListBrands(ctx context.Context, crueltyFreeOnly bool) ([]model.BrandRecord, error)
	Delete(ctx context.Context, name string) error
	UpdateConfidence(ctx context.Context, name string, confidence float64) error
	Stats(ctx context.Context) (*model.Stats, error)
	LogSearch(ctx context.Context, brandName, userQuery string, found bool) error
	BulkImport(ctx context.Context, rows []model.ImportRow) (*model.ImportResult, error)
	Seed(ctx context.Context, rows []model.ImportRow) (int, error)
	Migrate(ctx context.Context) error
	Close() error
}

// certifiedSources are certifications that raise import confidence.
var certifiedSources = map[string]bool{
	"Leaping Bunny": true,
	"PETA":          true,
}

// RecordFromRow derives a full BrandRecord from a tabular import row:
// explanation text from the verdict and parent, confidence from the
// certification (0.95 certified, 0.85 otherwise).
func RecordFromRow(row model.ImportRow) model.BrandRecord {
	var explanation string
	if row.CrueltyFree {
		explanation = "Certified cruelty-free"
		if row.Certification != "" {
			explanation += fmt.Sprintf(" by %s", row.Certification)
		}
	} else {
		explanation = "Not cruelty-free"
		if p := row.ParentCompany; p != "" && p != "Independent" && p != "Unknown" {
			explanation += fmt.Sprintf(" (Parent: %s)", p)
		}
	}

	confidence := 0.85
	if certifiedSources[row.Certification] {
		confidence = 0.95
	}

	var sources []string
	if row.Certification != "" {
		sources = []string{row.Certification}
	}

	category := row.Category
	if category == "" {
		category = model.CategoryUnknown
	}
	tier := row.PriceTier
	if tier == "" {
		tier = model.TierUnknown
	}

	return model.BrandRecord{
		Name:          row.BrandName,
		IsCrueltyFree: row.CrueltyFree,
		ParentCompany: row.ParentCompany,
		Explanation:   explanation,
		Sources:       sources,
		Confidence:    confidence,
		Category:      category,
		PriceTier:     tier,
	}
}

// Sources are stored as a single comma-joined column, matching the
// import format ("PETA,Leaping Bunny").

func joinSources(sources []string) string {
	return strings.Join(sources, ",")
}

func splitSources(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
