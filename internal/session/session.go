// Package session holds the state of one interactive run: the loaded dataset,
// the selected variations, the granularity and the viewport over the
// resulting series.
package session

import (
	"log/slog"
	"sort"

	"github.com/headline-goat/goatchart/internal/aggregate"
	"github.com/headline-goat/goatchart/internal/dataset"
	"github.com/headline-goat/goatchart/internal/viewport"
)

type Session struct {
	data        *dataset.Dataset
	selected    []string
	granularity aggregate.Granularity
	points      []aggregate.Point
	buckets     []aggregate.Bucket
	view        *viewport.Controller
	log         *slog.Logger
}

// New starts a session over ds with every variation selected at day granularity.
func New(ds *dataset.Dataset, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		data:        ds,
		selected:    ds.VariationIDs(),
		granularity: aggregate.Day,
		view:        viewport.NewController(0),
		log:         log,
	}
	s.rebuild(true)
	return s
}

func (s *Session) Dataset() *dataset.Dataset          { return s.data }
func (s *Session) Granularity() aggregate.Granularity { return s.granularity }
func (s *Session) Points() []aggregate.Point          { return s.points }
func (s *Session) Viewport() *viewport.Controller     { return s.view }
func (s *Session) Selected() []string                 { return append([]string(nil), s.selected...) }

// Reload replaces the dataset, keeping granularity and the still-valid part
// of the selection. The viewport resets.
func (s *Session) Reload(ds *dataset.Dataset) {
	s.data = ds
	known := make(map[string]bool)
	for _, id := range ds.VariationIDs() {
		known[id] = true
	}
	var kept []string
	for _, id := range s.selected {
		if known[id] {
			kept = append(kept, id)
		}
	}
	s.selected = kept
	s.rebuild(true)
}

// SetGranularity re-aggregates at g and resets the viewport.
func (s *Session) SetGranularity(g aggregate.Granularity) {
	if g == s.granularity {
		return
	}
	s.granularity = g
	s.rebuild(true)
}

// SetSelection selects ids, kept in dataset order. Unknown ids are dropped.
// The point count does not depend on the selection, so the viewport and pan
// mode are kept.
func (s *Session) SetSelection(ids []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	selected := make([]string, 0, len(ids))
	for _, id := range s.data.VariationIDs() {
		if want[id] {
			selected = append(selected, id)
		}
	}
	s.selected = selected
	s.rebuild(false)
}

// rebuild re-aggregates the series. The viewport resets when resetView is
// set or the number of points changed.
func (s *Session) rebuild(resetView bool) {
	n := len(s.points)
	s.buckets = aggregate.Buckets(s.data.Data, s.selected, s.granularity)
	s.points = aggregate.Points(s.buckets, s.selected)
	if resetView || len(s.points) != n {
		s.view.SetLength(len(s.points))
	}
	s.log.Debug("series rebuilt",
		slog.String("granularity", string(s.granularity)),
		slog.Int("selected", len(s.selected)),
		slog.Int("points", len(s.points)),
	)
}

// Apply runs a viewport action and reports whether it was recognised.
func (s *Session) Apply(a viewport.Action) bool {
	before := s.view.Range()
	ok := s.view.Apply(a)
	s.log.Debug("viewport action",
		slog.String("action", string(a)),
		slog.String("from", before.String()),
		slog.String("to", s.view.Range().String()),
	)
	return ok
}

// Visible returns the points inside the viewport.
func (s *Session) Visible() []aggregate.Point {
	return viewport.VisibleSlice(s.points, s.view.Range())
}

// VisibleBuckets returns the raw counts behind Visible.
func (s *Session) VisibleBuckets() []aggregate.Bucket {
	return viewport.VisibleSlice(s.buckets, s.view.Range())
}

// Offset is the series index of the first visible point.
func (s *Session) Offset() int {
	left, _ := s.view.Bounds()
	return max(0, left)
}

// TooltipRow is one variation's entry when inspecting a point.
type TooltipRow struct {
	ID    string
	Name  string
	Color int // position in the dataset, for palette lookup
	Rate  float64
	Best  bool
}

// Tooltip describes visible point i: rows sorted by rate, highest first,
// with the best variation flagged. ok is false when i is outside the view.
func (s *Session) Tooltip(i int) (date string, rows []TooltipRow, ok bool) {
	visible := s.Visible()
	if i < 0 || i >= len(visible) {
		return "", nil, false
	}
	p := visible[i]

	best, hasBest := viewport.BestVariationAt(&p, s.selected)
	for _, id := range s.selected {
		rate, _ := p.Rate(id)
		rows = append(rows, TooltipRow{
			ID:    id,
			Name:  s.data.VariationName(id),
			Color: s.data.VariationIndex(id),
			Rate:  rate,
			Best:  hasBest && id == best,
		})
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Rate > rows[b].Rate
	})
	return p.Date, rows, true
}
