package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consciouscart/brandcheck/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func pgBrandRow(name string, crueltyFree bool) *pgxmock.Rows {
	parent := "L'Oréal"
	return pgxmock.NewRows([]string{"name", "is_cruelty_free", "parent_company", "explanation",
		"sources", "confidence", "category", "price_tier", "last_verified"}).
		AddRow(name, crueltyFree, &parent, "explanation", "PETA,Leaping Bunny", 0.9, "Makeup", "Budget", time.Now().UTC())
}

func TestPostgresStore_Lookup_Exact(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM brands WHERE name_key = \$1`).
		WithArgs("maybelline").
		WillReturnRows(pgBrandRow("Maybelline", false))

	rec, err := s.Lookup(context.Background(), "Maybelline")
	require.NoError(t, err)
	assert.Equal(t, "Maybelline", rec.Name)
	assert.False(t, rec.IsCrueltyFree)
	assert.Equal(t, "L'Oréal", rec.ParentCompany)
	assert.Equal(t, []string{"PETA", "Leaping Bunny"}, rec.Sources)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Lookup_SubstringFallback(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM brands WHERE name_key = \$1`).
		WithArgs("rose").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT .+ FROM brands\s+WHERE name_key LIKE`).
		WithArgs("rose").
		WillReturnRows(pgBrandRow("Rose Inc", true))

	rec, err := s.Lookup(context.Background(), "rose")
	require.NoError(t, err)
	assert.Equal(t, "Rose Inc", rec.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Lookup_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM brands WHERE name_key = \$1`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT .+ FROM brands\s+WHERE name_key LIKE`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Lookup(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO brands .+ ON CONFLICT \(name_key\) DO UPDATE SET`).
		WithArgs("pacifica", "Pacifica", true, nullString(""), "test record",
			"PETA", 0.9, "Unknown", "Unknown", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Upsert(context.Background(), testRecord("Pacifica", true))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM brands WHERE name_key = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.Delete(context.Background(), "Missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Seed_CountsInserted(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO brands .+ ON CONFLICT \(name_key\) DO NOTHING`).
		WithArgs("pacifica", "Pacifica", true, nullString(""), "Certified cruelty-free",
			"", 0.85, "Unknown", "Unknown", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO brands .+ ON CONFLICT \(name_key\) DO NOTHING`).
		WithArgs("revlon", "Revlon", false, nullString(""), "Not cruelty-free",
			"", 0.85, "Unknown", "Unknown", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	n, err := s.Seed(context.Background(), []model.ImportRow{
		{BrandName: "Pacifica", CrueltyFree: true},
		{BrandName: "Revlon", CrueltyFree: false},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Stats(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COUNT\(\*\) FILTER`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "filter"}).AddRow(4, 3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM search_history`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT brand_name, COUNT\(\*\) AS count FROM search_history`).
		WillReturnRows(pgxmock.NewRows([]string{"brand_name", "count"}).
			AddRow("Pacifica", 5).AddRow("MAC", 2))

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalBrands)
	assert.Equal(t, 3, stats.CrueltyFreeCount)
	assert.Equal(t, 1, stats.NotCrueltyFreeCount)
	assert.Equal(t, 75.0, stats.CrueltyFreePercentage)
	assert.Equal(t, 7, stats.RecentSearches7d)
	require.Len(t, stats.TopSearchedBrands, 2)
	assert.Equal(t, "Pacifica", stats.TopSearchedBrands[0].Brand)
	assert.NoError(t, mock.ExpectationsWereMet())
}
