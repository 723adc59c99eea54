package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/consciouscart/brandcheck/internal/model"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore. pgxmock
// satisfies it, which keeps the Postgres paths testable without a server.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool (tests use pgxmock here).
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS brands (
	name_key        TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	is_cruelty_free BOOLEAN NOT NULL,
	parent_company  TEXT,
	explanation     TEXT NOT NULL DEFAULT '',
	sources         TEXT NOT NULL DEFAULT '',
	confidence      DOUBLE PRECISION NOT NULL DEFAULT 0.9,
	category        TEXT NOT NULL DEFAULT 'Unknown',
	price_tier      TEXT NOT NULL DEFAULT 'Unknown',
	last_verified   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS search_history (
	id           TEXT PRIMARY KEY,
	brand_name   TEXT NOT NULL,
	user_query   TEXT,
	result_found BOOLEAN NOT NULL,
	timestamp    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_brands_cruelty_free ON brands(is_cruelty_free);
CREATE INDEX IF NOT EXISTS idx_search_history_brand ON search_history(brand_name);
CREATE INDEX IF NOT EXISTS idx_search_history_timestamp ON search_history(timestamp);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const pgBrandColumns = `name, is_cruelty_free, parent_company, explanation, sources, confidence, category, price_tier, last_verified`

func (s *PostgresStore) Lookup(ctx context.Context, name string) (*model.BrandRecord, error) {
	key := model.NormalizeName(name)

	row := s.pool.QueryRow(ctx,
		`SELECT `+pgBrandColumns+` FROM brands WHERE name_key = $1`, key)
	rec, err := scanPgBrand(row)
	if err == nil {
		return rec, nil
	}
	if !eris.Is(err, ErrNotFound) {
		return nil, err
	}

	row = s.pool.QueryRow(ctx,
		`SELECT `+pgBrandColumns+` FROM brands
		 WHERE name_key LIKE '%' || $1 || '%'
		 ORDER BY LENGTH(name), name LIMIT 1`, key)
	return scanPgBrand(row)
}

func (s *PostgresStore) Upsert(ctx context.Context, rec model.BrandRecord) error {
	rec.LastVerified = time.Now().UTC()
	rec = withDefaults(rec)
	_, err := s.pool.Exec(ctx,
		`INSERT INTO brands (name_key, `+pgBrandColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (name_key) DO UPDATE SET
			name = EXCLUDED.name,
			is_cruelty_free = EXCLUDED.is_cruelty_free,
			parent_company = EXCLUDED.parent_company,
			explanation = EXCLUDED.explanation,
			sources = EXCLUDED.sources,
			confidence = EXCLUDED.confidence,
			category = EXCLUDED.category,
			price_tier = EXCLUDED.price_tier,
			last_verified = EXCLUDED.last_verified`,
		brandArgs(rec)...,
	)
	return eris.Wrapf(err, "postgres: upsert %s", rec.Name)
}

func (s *PostgresStore) Search(ctx context.Context, query string, limit int) ([]model.BrandRecord, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+pgBrandColumns+` FROM brands
		 WHERE name_key LIKE '%' || $1 || '%'
		 ORDER BY name LIMIT $2`,
		model.NormalizeName(query), limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search brands")
	}
	defer rows.Close()
	return collectPgBrands(rows)
}

func (s *PostgresStore) ListBrands(ctx context.Context, crueltyFreeOnly bool) ([]model.BrandRecord, error) {
	query := `SELECT ` + pgBrandColumns + ` FROM brands`
	if crueltyFreeOnly {
		query += ` WHERE is_cruelty_free`
	}
	query += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list brands")
	}
	defer rows.Close()
	return collectPgBrands(rows)
}

func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM brands WHERE name_key = $1`, model.NormalizeName(name))
	if err != nil {
		return eris.Wrapf(err, "postgres: delete %s", name)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateConfidence(ctx context.Context, name string, confidence float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE brands SET confidence = $1, last_verified = $2 WHERE name_key = $3`,
		confidence, time.Now().UTC(), model.NormalizeName(name),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update confidence %s", name)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*model.Stats, error) {
	var st model.Stats

	row := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_cruelty_free) FROM brands`)
	if err := row.Scan(&st.TotalBrands, &st.CrueltyFreeCount); err != nil {
		return nil, eris.Wrap(err, "postgres: count brands")
	}
	st.NotCrueltyFreeCount = st.TotalBrands - st.CrueltyFreeCount
	if st.TotalBrands > 0 {
		st.CrueltyFreePercentage = roundPct(float64(st.CrueltyFreeCount) / float64(st.TotalBrands) * 100)
	}

	row = s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM search_history WHERE timestamp > now() - interval '7 days'`)
	if err := row.Scan(&st.RecentSearches7d); err != nil {
		return nil, eris.Wrap(err, "postgres: count recent searches")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT brand_name, COUNT(*) AS count FROM search_history
		 GROUP BY brand_name ORDER BY count DESC, brand_name LIMIT 5`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: top searches")
	}
	defer rows.Close()
	for rows.Next() {
		var bc model.BrandCount
		if err := rows.Scan(&bc.Brand, &bc.Count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan top search")
		}
		st.TopSearchedBrands = append(st.TopSearchedBrands, bc)
	}
	return &st, eris.Wrap(rows.Err(), "postgres: top searches iterate")
}

func (s *PostgresStore) LogSearch(ctx context.Context, brandName, userQuery string, found bool) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO search_history (id, brand_name, user_query, result_found, timestamp)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), brandName, userQuery, found, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: log search")
}

func (s *PostgresStore) BulkImport(ctx context.Context, rows []model.ImportRow) (*model.ImportResult, error) {
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

func (s *PostgresStore) Seed(ctx context.Context, rows []model.ImportRow) (int, error) {
	inserted := 0
	for _, row := range rows {
		if row.BrandName == "" {
			continue
		}
		rec := withDefaults(RecordFromRow(row))
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO brands (name_key, `+pgBrandColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (name_key) DO NOTHING`,
			brandArgs(rec)...,
		)
		if err != nil {
			return inserted, eris.Wrapf(err, "postgres: seed %s", rec.Name)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func scanPgBrand(row pgx.Row) (*model.BrandRecord, error) {
	var rec model.BrandRecord
	var parent *string
	var sources, category, tier string

	err := row.Scan(&rec.Name, &rec.IsCrueltyFree, &parent, &rec.Explanation,
		&sources, &rec.Confidence, &category, &tier, &rec.LastVerified)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan brand")
	}

	if parent != nil {
		rec.ParentCompany = *parent
	}
	rec.Sources = splitSources(sources)
	rec.Category = model.Category(category)
	rec.PriceTier = model.PriceTier(tier)
	return &rec, nil
}

func collectPgBrands(rows pgx.Rows) ([]model.BrandRecord, error) {
	var out []model.BrandRecord
	for rows.Next() {
		rec, err := scanPgBrand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate brands")
}
