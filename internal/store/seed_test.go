package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_FallbackSeed(t *testing.T) {
	st := newTestSQLiteStore(t)

	require.NoError(t, Initialize(context.Background(), st, ""))

	rec, err := st.Lookup(context.Background(), "maybelline")
	require.NoError(t, err)
	assert.False(t, rec.IsCrueltyFree)
	assert.Equal(t, "L'Oréal", rec.ParentCompany)

	stats, err := st.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(fallbackSeed), stats.TotalBrands)
}

func TestInitialize_SeedFile(t *testing.T) {
	st := newTestSQLiteStore(t)

	path := filepath.Join(t.TempDir(), "brands.csv")
	csv := "brand_name,cruelty_free,parent_company,certification\nTower 28,true,Independent,Leaping Bunny\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	require.NoError(t, Initialize(context.Background(), st, path))

	rec, err := st.Lookup(context.Background(), "tower 28")
	require.NoError(t, err)
	assert.True(t, rec.IsCrueltyFree)
	assert.Equal(t, 0.95, rec.Confidence)

	_, err = st.Lookup(context.Background(), "maybelline")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInitialize_UnreadableSeedFileFallsBack(t *testing.T) {
	st := newTestSQLiteStore(t)

	path := filepath.Join(t.TempDir(), "brands.csv")
	require.NoError(t, os.WriteFile(path, []byte("wrong,header\nx,y\n"), 0o644))

	require.NoError(t, Initialize(context.Background(), st, path))

	stats, err := st.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(fallbackSeed), stats.TotalBrands)
}

func TestInitialize_MissingSeedFileFallsBack(t *testing.T) {
	st := newTestSQLiteStore(t)

	require.NoError(t, Initialize(context.Background(), st, filepath.Join(t.TempDir(), "nope.csv")))

	rec, err := st.Lookup(context.Background(), "pacifica")
	require.NoError(t, err)
	assert.True(t, rec.IsCrueltyFree)
}
