package store

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/consciouscart/brandcheck/internal/importer"
	"github.com/consciouscart/brandcheck/internal/model"
)

// fallbackSeed is the minimal brand set used when no import source is
// available at first initialization.
var fallbackSeed = []model.ImportRow{
	{BrandName: "Maybelline", CrueltyFree: false, ParentCompany: "L'Oréal", Category: model.CategoryMakeup, PriceTier: model.TierBudget},
	{BrandName: "Fenty Beauty", CrueltyFree: true, ParentCompany: "LVMH", Certification: "PETA", Category: model.CategoryMakeup, PriceTier: model.TierMidRange},
	{BrandName: "e.l.f. Cosmetics", CrueltyFree: true, ParentCompany: "Independent", Certification: "Leaping Bunny", Category: model.CategoryMakeup, PriceTier: model.TierBudget},
	{BrandName: "Pacifica", CrueltyFree: true, ParentCompany: "Independent", Certification: "Leaping Bunny", Category: model.CategorySkincare, PriceTier: model.TierBudget},
}

// Initialize migrates the store and seeds it. If seedPath names a readable
// CSV or XLSX file its rows are used, otherwise the fixed fallback set.
// Seeding inserts-or-ignores, so calling Initialize repeatedly never
// overwrites records the user has since corrected.
func Initialize(ctx context.Context, st Store, seedPath string) error {
	if err := st.Migrate(ctx); err != nil {
		return eris.Wrap(err, "store: initialize")
	}

	rows := fallbackSeed
	source := "fallback"
	if seedPath != "" {
		if _, err := os.Stat(seedPath); err == nil {
			parsed, err := importer.ReadFile(seedPath)
			if err != nil {
				zap.L().Warn("store: seed file unreadable, using fallback set",
					zap.String("path", seedPath),
					zap.Error(err),
				)
			} else {
				rows = parsed
				source = seedPath
			}
		}
	}

	inserted, err := st.Seed(ctx, rows)
	if err != nil {
		return eris.Wrap(err, "store: seed")
	}

	zap.L().Info("store: seeded",
		zap.String("source", source),
		zap.Int("inserted", inserted),
		zap.Int("rows", len(rows)),
	)
	return nil
}
