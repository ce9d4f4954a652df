package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/headline-goat/goatchart/internal/aggregate"
	"github.com/headline-goat/goatchart/internal/session"
)

func newExportCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the visible series",
		Long: `Export the visible aggregated series in CSV or JSON format.

JSON output is the chart-ready form: one object per point with a "date"
label and a "var_<id>" rate per selected variation.

Examples:
  goatchart export --format csv > rates.csv
  goatchart export --format json -g week > weekly.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("invalid format: must be 'csv' or 'json'")
			}
			return opts.withSession(cmd, func(s *session.Session) error {
				if format == "csv" {
					return exportCSV(cmd.OutOrStdout(), s.Visible(), s.Selected())
				}
				return exportJSON(cmd.OutOrStdout(), s.Visible())
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format (csv or json)")
	return cmd
}

func exportCSV(out io.Writer, points []aggregate.Point, ids []string) error {
	w := csv.NewWriter(out)

	header := []string{"date"}
	for _, id := range ids {
		header = append(header, aggregate.SeriesKey(id))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, p := range points {
		row := []string{p.Date}
		for _, id := range ids {
			rate, _ := p.Rate(id)
			row = append(row, strconv.FormatFloat(rate, 'f', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func exportJSON(out io.Writer, points []aggregate.Point) error {
	if points == nil {
		points = []aggregate.Point{}
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(points)
}
