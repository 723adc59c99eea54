package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/consciouscart/brandcheck/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS brands (
	name_key        TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	is_cruelty_free INTEGER NOT NULL,
	parent_company  TEXT,
	explanation     TEXT NOT NULL DEFAULT '',
	sources         TEXT NOT NULL DEFAULT '',
	confidence      REAL NOT NULL DEFAULT 0.9,
	category        TEXT NOT NULL DEFAULT 'Unknown',
	price_tier      TEXT NOT NULL DEFAULT 'Unknown',
	last_verified   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS search_history (
	id           TEXT PRIMARY KEY,
	brand_name   TEXT NOT NULL,
	user_query   TEXT,
	result_found INTEGER NOT NULL,
	timestamp    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_brands_cruelty_free ON brands(is_cruelty_free);
CREATE INDEX IF NOT EXISTS idx_search_history_brand ON search_history(brand_name);
CREATE INDEX IF NOT EXISTS idx_search_history_timestamp ON search_history(timestamp);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const brandColumns = `name, is_cruelty_free, parent_company, explanation, sources, confidence, category, price_tier, last_verified`

func (s *SQLiteStore) Lookup(ctx context.Context, name string) (*model.BrandRecord, error) {
	key := model.NormalizeName(name)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+brandColumns+` FROM brands WHERE name_key = ?`, key)
	rec, err := scanBrand(row)
	if err == nil {
		return rec, nil
	}
	if !eris.Is(err, ErrNotFound) {
		return nil, err
	}

	// Substring fallback, shortest name first for determinism.
	row = s.db.QueryRowContext(ctx,
		`SELECT `+brandColumns+` FROM brands
		 WHERE name_key LIKE '%' || ? || '%'
		 ORDER BY LENGTH(name), name LIMIT 1`, key)
	return scanBrand(row)
}

func (s *SQLiteStore) Upsert(ctx context.Context, rec model.BrandRecord) error {
	rec.LastVerified = time.Now().UTC()
	rec = withDefaults(rec)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO brands (name_key, `+brandColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name_key) DO UPDATE SET
			name = excluded.name,
			is_cruelty_free = excluded.is_cruelty_free,
			parent_company = excluded.parent_company,
			explanation = excluded.explanation,
			sources = excluded.sources,
			confidence = excluded.confidence,
			category = excluded.category,
			price_tier = excluded.price_tier,
			last_verified = excluded.last_verified`,
		brandArgs(rec)...,
	)
	return eris.Wrapf(err, "sqlite: upsert %s", rec.Name)
}

func (s *SQLiteStore) Search(ctx context.Context, query string, limit int) ([]model.BrandRecord, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+brandColumns+` FROM brands
		 WHERE name_key LIKE '%' || ? || '%'
		 ORDER BY name LIMIT ?`,
		model.NormalizeName(query), limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search brands")
	}
	defer rows.Close()
	return collectBrands(rows)
}

func (s *SQLiteStore) ListBrands(ctx context.Context, crueltyFreeOnly bool) ([]model.BrandRecord, error) {
	query := `SELECT ` + brandColumns + ` FROM brands`
	if crueltyFreeOnly {
		query += ` WHERE is_cruelty_free = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list brands")
	}
	defer rows.Close()
	return collectBrands(rows)
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM brands WHERE name_key = ?`, model.NormalizeName(name))
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete %s", name)
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) UpdateConfidence(ctx context.Context, name string, confidence float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE brands SET confidence = ?, last_verified = ? WHERE name_key = ?`,
		confidence, time.Now().UTC(), model.NormalizeName(name),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update confidence %s", name)
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) Stats(ctx context.Context) (*model.Stats, error) {
	var st model.Stats

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_cruelty_free), 0) FROM brands`)
	if err := row.Scan(&st.TotalBrands, &st.CrueltyFreeCount); err != nil {
		return nil, eris.Wrap(err, "sqlite: count brands")
	}
	st.NotCrueltyFreeCount = st.TotalBrands - st.CrueltyFreeCount
	if st.TotalBrands > 0 {
		pct := float64(st.CrueltyFreeCount) / float64(st.TotalBrands) * 100
		st.CrueltyFreePercentage = roundPct(pct)
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_history WHERE timestamp > datetime('now', '-7 days')`)
	if err := row.Scan(&st.RecentSearches7d); err != nil {
		return nil, eris.Wrap(err, "sqlite: count recent searches")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT brand_name, COUNT(*) AS count FROM search_history
		 GROUP BY brand_name ORDER BY count DESC, brand_name LIMIT 5`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: top searches")
	}
	defer rows.Close()
	for rows.Next() {
		var bc model.BrandCount
		if err := rows.Scan(&bc.Brand, &bc.Count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan top search")
		}
		st.TopSearchedBrands = append(st.TopSearchedBrands, bc)
	}
	return &st, eris.Wrap(rows.Err(), "sqlite: top searches iterate")
}

func (s *SQLiteStore) LogSearch(ctx context.Context, brandName, userQuery string, found bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_history (id, brand_name, user_query, result_found, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), brandName, userQuery, found, time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: log search")
}

func (s *SQLiteStore) BulkImport(ctx context.Context, rows []model.ImportRow) (*model.ImportResult, error) {
	result := &model.ImportResult{Total: len(rows)}
	for _, row := range rows {
		if row.BrandName == "" {
			result.Skipped++
			continue
		}
		if err := s.Upsert(ctx, RecordFromRow(row)); err != nil {
			result.Skipped++
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *SQLiteStore) Seed(ctx context.Context, rows []model.ImportRow) (int, error) {
	inserted := 0
	for _, row := range rows {
		if row.BrandName == "" {
			continue
		}
		rec := withDefaults(RecordFromRow(row))
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO brands (name_key, `+brandColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			brandArgs(rec)...,
		)
		if err != nil {
			return inserted, eris.Wrapf(err, "sqlite: seed %s", rec.Name)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// helpers

func withDefaults(rec model.BrandRecord) model.BrandRecord {
	if rec.Confidence == 0 {
		rec.Confidence = DefaultConfidence
	}
	if rec.Category == "" {
		rec.Category = model.CategoryUnknown
	}
	if rec.PriceTier == "" {
		rec.PriceTier = model.TierUnknown
	}
	if rec.LastVerified.IsZero() {
		rec.LastVerified = time.Now().UTC()
	}
	return rec
}

func brandArgs(rec model.BrandRecord) []any {
	return []any{
		model.NormalizeName(rec.Name),
		rec.Name,
		rec.IsCrueltyFree,
		nullString(rec.ParentCompany),
		rec.Explanation,
		joinSources(rec.Sources),
		rec.Confidence,
		string(rec.Category),
		string(rec.PriceTier),
		rec.LastVerified,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func roundPct(pct float64) float64 {
	return float64(int(pct*10+0.5)) / 10
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBrand(row scannable) (*model.BrandRecord, error) {
	var rec model.BrandRecord
	var parent sql.NullString
	var sources, category, tier string

	err := row.Scan(&rec.Name, &rec.IsCrueltyFree, &parent, &rec.Explanation,
		&sources, &rec.Confidence, &category, &tier, &rec.LastVerified)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan brand")
	}

	rec.ParentCompany = parent.String
	rec.Sources = splitSources(sources)
	rec.Category = model.Category(category)
	rec.PriceTier = model.PriceTier(tier)
	return &rec, nil
}

func collectBrands(rows *sql.Rows) ([]model.BrandRecord, error) {
	var out []model.BrandRecord
	for rows.Next() {
		rec, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate brands")
}
