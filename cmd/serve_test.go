package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consciouscart/brandcheck/internal/agent"
	"github.com/consciouscart/brandcheck/internal/model"
	"github.com/consciouscart/brandcheck/internal/store"
	"github.com/consciouscart/brandcheck/pkg/anthropic"
	"github.com/consciouscart/brandcheck/pkg/search"
)

func newTestEnv(t *testing.T) *env {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	sc := search.NewMock()
	return &env{
		Store:  st,
		Search: sc,
		Agent:  agent.New(anthropic.NewClient("test-key"), st, sc),
	}
}

func seedBrand(t *testing.T, e *env, rec model.BrandRecord) {
	t.Helper()
	require.NoError(t, e.Store.Upsert(context.Background(), rec))
}

func TestServe_Health(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServe_GetBrand(t *testing.T) {
	e := newTestEnv(t)
	seedBrand(t, e, model.BrandRecord{Name: "Pacifica", IsCrueltyFree: true, Explanation: "100% vegan"})
	router := newRouter(e)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brands/pacifica", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.BrandRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Pacifica", got.Name)
	assert.True(t, got.IsCrueltyFree)
}

func TestServe_GetBrand_NotFound(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brands/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_SearchBrands(t *testing.T) {
	e := newTestEnv(t)
	seedBrand(t, e, model.BrandRecord{Name: "Urban Decay", IsCrueltyFree: true})
	seedBrand(t, e, model.BrandRecord{Name: "Pacifica", IsCrueltyFree: true})
	router := newRouter(e)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brands?q=urban", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Brands []model.BrandRecord `json:"brands"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Brands, 1)
	assert.Equal(t, "Urban Decay", got.Brands[0].Name)
}

func TestServe_CreateBrand(t *testing.T) {
	e := newTestEnv(t)
	router := newRouter(e)

	body, _ := json.Marshal(map[string]any{
		"name":            "Fenty Beauty",
		"is_cruelty_free": true,
		"parent_company":  "LVMH",
		"explanation":     "Certified cruelty-free",
		"sources":         []string{"PETA"},
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/brands", bytes.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)

	got, err := e.Store.Lookup(context.Background(), "fenty beauty")
	require.NoError(t, err)
	assert.Equal(t, "LVMH", got.ParentCompany)
}

func TestServe_CreateBrand_Invalid(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/brands", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/brands", bytes.NewReader([]byte(`not json`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServe_DeleteBrand(t *testing.T) {
	e := newTestEnv(t)
	seedBrand(t, e, model.BrandRecord{Name: "CoverGirl", IsCrueltyFree: false})
	router := newRouter(e)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/brands/covergirl", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/brands/covergirl", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_Stats(t *testing.T) {
	e := newTestEnv(t)
	seedBrand(t, e, model.BrandRecord{Name: "Pacifica", IsCrueltyFree: true})
	seedBrand(t, e, model.BrandRecord{Name: "Revlon", IsCrueltyFree: false})
	router := newRouter(e)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.TotalBrands)
	assert.Equal(t, 1, got.CrueltyFreeCount)
}

func TestServe_Verify(t *testing.T) {
	e := newTestEnv(t)
	seedBrand(t, e, model.BrandRecord{
		Name:          "Maybelline",
		IsCrueltyFree: false,
		ParentCompany: "L'Oréal",
		Sources:       []string{"PETA"},
	})
	router := newRouter(e)

	body := []byte(`{"brand":"Maybelline"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.VerificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Maybelline", got.Brand)
	assert.False(t, got.IsCrueltyFree)
	assert.Equal(t, 0.90, got.Confidence)
}

func TestServe_Alternatives(t *testing.T) {
	e := newTestEnv(t)
	seedBrand(t, e, model.BrandRecord{Name: "MAC", IsCrueltyFree: false, Category: model.CategoryMakeup, PriceTier: model.TierMidRange})
	seedBrand(t, e, model.BrandRecord{Name: "Too Faced", IsCrueltyFree: true, Category: model.CategoryMakeup, PriceTier: model.TierMidRange, Sources: []string{"Leaping Bunny"}})
	router := newRouter(e)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brands/mac/alternatives", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Alternatives []model.Recommendation `json:"alternatives"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Alternatives, 1)
	assert.Equal(t, "Too Faced", got.Alternatives[0].BrandName)
}
