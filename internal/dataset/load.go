package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnavailable is returned when a dataset cannot be fetched or parsed.
// Callers never receive a partially loaded dataset alongside it.
var ErrUnavailable = errors.New("data unavailable")

// DBReader loads a dataset from a database file. It is satisfied by the
// SQLite source in internal/store.
type DBReader func(ctx context.Context, path string) (*Dataset, error)

// Loader resolves a source string (file path, URL or database file) into a Dataset.
type Loader struct {
	Client  HTTPClient
	Retries int
	Backoff time.Duration
	ReadDB  DBReader
	Log     *slog.Logger
}

// NewLoader returns a Loader with an HTTP client using the given timeout.
func NewLoader(timeout time.Duration, readDB DBReader, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		Client:  NewHTTPClient(timeout),
		Retries: 2,
		Backoff: 200 * time.Millisecond,
		ReadDB:  readDB,
		Log:     log,
	}
}

// Load fetches and validates the dataset at source.
func (l *Loader) Load(ctx context.Context, source string) (*Dataset, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: no data source given", ErrUnavailable)
	}

	var (
		ds  *Dataset
		err error
	)
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		ds, err = l.loadURL(ctx, source)
	case isDBFile(source):
		if l.ReadDB == nil {
			return nil, fmt.Errorf("%w: no database reader configured", ErrUnavailable)
		}
		ds, err = l.ReadDB(ctx, source)
	default:
		ds, err = loadFile(source)
	}
	if err != nil {
		l.Log.Error("failed to load dataset", slog.String("source", source), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := Validate(ds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	l.Log.Debug("dataset loaded",
		slog.String("source", source),
		slog.Int("variations", len(ds.Variations)),
		slog.Int("days", len(ds.Data)),
	)
	return ds, nil
}

func (l *Loader) loadURL(ctx context.Context, url string) (*Dataset, error) {
	var ds Dataset
	b := NewBackoff(l.Backoff, l.Retries)
	err := b.Do(ctx, func(attempt int) error {
		if attempt > 0 {
			l.Log.Warn("retrying dataset fetch", slog.String("url", url), slog.Int("attempt", attempt))
		}
		ds = Dataset{}
		return getJSON(ctx, l.Client, url, &ds)
	})
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func loadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a JSON dataset document.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return &ds, nil
}

func isDBFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Validate checks the preconditions the aggregator relies on: parseable dates,
// non-negative counts and unique resolved variation ids.
func Validate(ds *Dataset) error {
	seen := make(map[string]bool, len(ds.Variations))
	for _, v := range ds.Variations {
		id := v.VariationID()
		if seen[id] {
			return fmt.Errorf("duplicate variation id %q", id)
		}
		seen[id] = true
	}

	for i, rec := range ds.Data {
		if _, err := ParseDate(rec.Date); err != nil {
			return fmt.Errorf("record %d: invalid date %q", i, rec.Date)
		}
		for id, n := range rec.Visits {
			if n < 0 {
				return fmt.Errorf("record %d: negative visits for variation %s", i, id)
			}
		}
		for id, n := range rec.Conversions {
			if n < 0 {
				return fmt.Errorf("record %d: negative conversions for variation %s", i, id)
			}
		}
	}
	return nil
}

// ParseDate parses an ISO calendar date. Full RFC 3339 timestamps are accepted
// and reduced to the calendar date they were written with.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
