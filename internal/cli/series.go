package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/headline-goat/goatchart/internal/chart"
	"github.com/headline-goat/goatchart/internal/session"
	"github.com/headline-goat/goatchart/internal/viewport"
)

const sparkWidth = 32

func newSeriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "Print the visible conversion-rate series",
		Long: `Print one row per visible point with each selected variation's
conversion rate and the best variation at that point.

Examples:
  goatchart series --data ./data.json
  goatchart series -g week --view zoom-in,pan-left`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session.Session) error {
				printSeries(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func printSeries(out io.Writer, s *session.Session) {
	printView(out, s)
	fmt.Fprintln(out)

	selected := s.Selected()
	names := nameOf(s)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"DATE"}
	for _, id := range selected {
		header = append(header, names(id))
	}
	header = append(header, "BEST")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	visible := s.Visible()
	for i := range visible {
		row := []string{visible[i].Date}
		for _, id := range selected {
			rate, _ := visible[i].Rate(id)
			row = append(row, formatPercent(rate))
		}
		best := "-"
		if id, ok := viewport.BestVariationAtIndex(visible, i, selected); ok {
			best = names(id)
		}
		row = append(row, best)
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	if len(visible) == 0 || len(selected) == 0 {
		return
	}

	fmt.Fprintln(out)
	series := make([][]float64, len(selected))
	for j, id := range selected {
		series[j] = make([]float64, len(visible))
		for i, p := range visible {
			series[j][i], _ = p.Rate(id)
		}
	}
	top := chart.MaxValue(series...)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for j, id := range selected {
		fmt.Fprintf(w, "%s\t%s\t%s\n", names(id), chart.Sparkline(series[j], min(sparkWidth, len(visible)), top), formatPercent(top))
	}
	w.Flush()
}
