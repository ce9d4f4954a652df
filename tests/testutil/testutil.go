package testutil

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/headline-goat/goatchart/internal/dataset"
	"github.com/headline-goat/goatchart/internal/store"
)

// IntPtr returns a pointer to i, for variation ids.
func IntPtr(i int) *int { return &i }

// SampleDataset returns two variations over the given number of consecutive days
// starting 2024-01-01 (a Monday). Control converts at 10%, treatment at 20%.
func SampleDataset(days int) *dataset.Dataset {
	ds := &dataset.Dataset{
		Variations: []dataset.Variation{
			{ID: IntPtr(1), Name: "Control"},
			{ID: IntPtr(2), Name: "Treatment"},
		},
	}
	start, _ := dataset.ParseDate("2024-01-01")
	for i := 0; i < days; i++ {
		ds.Data = append(ds.Data, dataset.DailyRecord{
			Date:        start.AddDate(0, 0, i).Format(dataset.DateLayout),
			Visits:      map[string]int{"1": 100, "2": 100},
			Conversions: map[string]int{"1": 10, "2": 20},
		})
	}
	return ds
}

// WriteJSONDataset writes ds as a JSON document under t.TempDir() and returns its path.
func WriteJSONDataset(t *testing.T, ds *dataset.Dataset) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.json")
	b, err := json.Marshal(ds)
	if err != nil {
		t.Fatalf("failed to marshal dataset: %v", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

// WriteSQLiteDataset creates a SQLite file in the daily_counts layout holding ds.
func WriteSQLiteDataset(t *testing.T, ds *dataset.Dataset) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.db")
	db := openFixtureDB(t, path)

	if _, err := db.Exec(store.Schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	for i, v := range ds.Variations {
		var id sql.NullInt64
		if v.ID != nil {
			id = sql.NullInt64{Int64: int64(*v.ID), Valid: true}
		}
		if _, err := db.Exec(`INSERT INTO variations (position, id, name) VALUES (?, ?, ?)`, i, id, v.Name); err != nil {
			t.Fatalf("failed to insert variation: %v", err)
		}
	}
	for _, rec := range ds.Data {
		for _, id := range recordIDs(rec) {
			if _, err := db.Exec(
				`INSERT INTO daily_counts (date, variation_id, visits, conversions) VALUES (?, ?, ?, ?)`,
				rec.Date, id, rec.Visits[id], rec.Conversions[id],
			); err != nil {
				t.Fatalf("failed to insert daily count: %v", err)
			}
		}
	}
	return path
}

// HeadlineGoatEvent is one row for the events table of a headline-goat database.
type HeadlineGoatEvent struct {
	Variant   int
	EventType string
	VisitorID string
	Unix      int64
}

// WriteHeadlineGoatDB creates a database with headline-goat's tests and events tables.
func WriteHeadlineGoatDB(t *testing.T, testName string, variants []string, events []HeadlineGoatEvent) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hlg.db")
	db := openFixtureDB(t, path)

	const schema = `
CREATE TABLE tests (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    variants TEXT NOT NULL
);
CREATE TABLE events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    test_name TEXT NOT NULL,
    variant INTEGER NOT NULL,
    event_type TEXT NOT NULL,
    visitor_id TEXT NOT NULL,
    created_at INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	variantsJSON, _ := json.Marshal(variants)
	if _, err := db.Exec(`INSERT INTO tests (name, variants) VALUES (?, ?)`, testName, string(variantsJSON)); err != nil {
		t.Fatalf("failed to insert test: %v", err)
	}
	for _, e := range events {
		if _, err := db.Exec(
			`INSERT INTO events (test_name, variant, event_type, visitor_id, created_at) VALUES (?, ?, ?, ?, ?)`,
			testName, e.Variant, e.EventType, e.VisitorID, e.Unix,
		); err != nil {
			t.Fatalf("failed to insert event: %v", err)
		}
	}
	return path
}

func openFixtureDB(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open fixture db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func recordIDs(rec dataset.DailyRecord) []string {
	seen := map[string]bool{}
	for id := range rec.Visits {
		seen[id] = true
	}
	for id := range rec.Conversions {
		seen[id] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
