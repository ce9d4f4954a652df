package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/headline-goat/goatchart/internal/dataset"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// Schema is the layout goatchart reads daily counts from. It is only applied
// by fixtures; the store itself never writes.
const Schema = `
CREATE TABLE IF NOT EXISTS variations (
    position INTEGER PRIMARY KEY,
    id INTEGER,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_counts (
    date TEXT NOT NULL,
    variation_id TEXT NOT NULL,
    visits INTEGER NOT NULL DEFAULT 0,
    conversions INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (date, variation_id)
);
`

// SQLiteStore reads datasets from a SQLite file opened read-only.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens dbPath read-only. The file must already exist.
func Open(dbPath string) (*SQLiteStore, error) {
	dsn := "file:" + (&url.URL{Path: dbPath}).EscapedPath() + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) hasTable(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListVariations(ctx context.Context) ([]VariationRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM variations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list variations: %w", err)
	}
	defer rows.Close()

	var out []VariationRow
	for rows.Next() {
		var v VariationRow
		var id sql.NullInt64
		if err := rows.Scan(&id, &v.Name); err != nil {
			return nil, fmt.Errorf("failed to scan variation: %w", err)
		}
		if id.Valid {
			i := int(id.Int64)
			v.ID = &i
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListCounts(ctx context.Context) ([]CountRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, variation_id, visits, conversions FROM daily_counts ORDER BY date, variation_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily counts: %w", err)
	}
	defer rows.Close()

	var out []CountRow
	for rows.Next() {
		var c CountRow
		if err := rows.Scan(&c.Date, &c.VariationID, &c.Visits, &c.Conversions); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListEventCounts rolls up a headline-goat events table into per-day unique
// viewers and converters for one test.
func (s *SQLiteStore) ListEventCounts(ctx context.Context, testName string) ([]CountRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			date(created_at, 'unixepoch') as day,
			CAST(variant AS TEXT),
			COUNT(DISTINCT CASE WHEN event_type = 'view' THEN visitor_id END) as views,
			COUNT(DISTINCT CASE WHEN event_type = 'convert' THEN visitor_id END) as conversions
		FROM events
		WHERE test_name = ?
		GROUP BY day, variant
		ORDER BY day, variant
	`, testName)
	if err != nil {
		return nil, fmt.Errorf("failed to get event counts: %w", err)
	}
	defer rows.Close()

	var out []CountRow
	for rows.Next() {
		var c CountRow
		if err := rows.Scan(&c.Date, &c.VariationID, &c.Visits, &c.Conversions); err != nil {
			return nil, fmt.Errorf("failed to scan event counts: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TestVariants returns the variant names of a headline-goat test.
func (s *SQLiteStore) TestVariants(ctx context.Context, testName string) ([]string, error) {
	var variantsJSON string
	err := s.db.QueryRowContext(ctx, `SELECT variants FROM tests WHERE name = ?`, testName).Scan(&variantsJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	var variants []string
	if err := json.Unmarshal([]byte(variantsJSON), &variants); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variants: %w", err)
	}
	return variants, nil
}

// Dataset builds a dataset from the daily_counts layout, or from a
// headline-goat events table when testName is set.
func (s *SQLiteStore) Dataset(ctx context.Context, testName string) (*dataset.Dataset, error) {
	if testName != "" {
		return s.eventsDataset(ctx, testName)
	}

	ok, err := s.hasTable(ctx, "daily_counts")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("daily_counts table: %w", ErrNotFound)
	}

	variations, err := s.ListVariations(ctx)
	if err != nil {
		return nil, err
	}
	if len(variations) == 0 {
		return nil, fmt.Errorf("variations: %w", ErrNotFound)
	}

	counts, err := s.ListCounts(ctx)
	if err != nil {
		return nil, err
	}

	ds := &dataset.Dataset{Variations: make([]dataset.Variation, len(variations))}
	for i, v := range variations {
		ds.Variations[i] = dataset.Variation{ID: v.ID, Name: v.Name}
	}
	ds.Data = groupByDate(counts)
	return ds, nil
}

func (s *SQLiteStore) eventsDataset(ctx context.Context, testName string) (*dataset.Dataset, error) {
	variants, err := s.TestVariants(ctx, testName)
	if err != nil {
		return nil, err
	}

	counts, err := s.ListEventCounts(ctx, testName)
	if err != nil {
		return nil, err
	}

	ds := &dataset.Dataset{Variations: make([]dataset.Variation, len(variants))}
	for i, name := range variants {
		id := i
		ds.Variations[i] = dataset.Variation{ID: &id, Name: name}
	}
	ds.Data = groupByDate(counts)
	return ds, nil
}

// groupByDate folds rows ordered by date into one record per date.
func groupByDate(rows []CountRow) []dataset.DailyRecord {
	var records []dataset.DailyRecord
	for _, c := range rows {
		if len(records) == 0 || records[len(records)-1].Date != c.Date {
			records = append(records, dataset.DailyRecord{
				Date:        c.Date,
				Visits:      map[string]int{},
				Conversions: map[string]int{},
			})
		}
		rec := &records[len(records)-1]
		rec.Visits[c.VariationID] += c.Visits
		rec.Conversions[c.VariationID] += c.Conversions
	}
	return records
}

// Reader returns a dataset.DBReader that reads testName (or the daily_counts
// layout when empty) from a database path.
func Reader(testName string) dataset.DBReader {
	return func(ctx context.Context, path string) (*dataset.Dataset, error) {
		s, err := Open(path)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.Dataset(ctx, testName)
	}
}
