package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/headline-goat/goatchart/internal/aggregate"
	"github.com/headline-goat/goatchart/internal/dataset"
	"github.com/headline-goat/goatchart/internal/session"
	"github.com/headline-goat/goatchart/internal/store"
	"github.com/headline-goat/goatchart/internal/viewport"
)

// loadDataset fetches and validates the dataset named by --data.
func (o *options) loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	loader := dataset.NewLoader(o.cfg.HTTPTimeout, store.Reader(o.testName), o.logger())
	ds, err := loader.Load(ctx, o.dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return ds, nil
}

// withSession loads the dataset, applies --granularity, --variations and
// --view, and hands the resulting session to fn.
func (o *options) withSession(cmd *cobra.Command, fn func(*session.Session) error) error {
	ds, err := o.loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	s := session.New(ds, o.logger())

	g, err := aggregate.ParseGranularity(o.granularity)
	if err != nil {
		return err
	}
	s.SetGranularity(g)

	if cmd.Flags().Changed("variations") {
		s.SetSelection(o.variations)
	}

	for _, a := range o.view {
		action := viewport.Action(strings.TrimSpace(a))
		if !s.Apply(action) {
			return fmt.Errorf("unknown view action: %q", a)
		}
	}

	return fn(s)
}

// nameOf resolves a variation id to its display name.
func nameOf(s *session.Session) func(string) string {
	return s.Dataset().VariationName
}

func formatPercent(rate float64) string {
	if rate == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", rate)
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}

// printView writes a one-line summary of the current viewport.
func printView(w io.Writer, s *session.Session) {
	left, right := s.Viewport().Bounds()
	visible := len(s.Visible())
	fmt.Fprintf(w, "VIEW: %s (%s, %d of %d points", s.Viewport().Range(), s.Granularity(), visible, len(s.Points()))
	if visible > 0 {
		labels := aggregate.Labels(s.Points())
		fmt.Fprintf(w, ", %s to %s", labels[left], labels[right])
	}
	fmt.Fprintln(w, ")")
}
