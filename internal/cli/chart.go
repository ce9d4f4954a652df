package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/headline-goat/goatchart/internal/chart"
	"github.com/headline-goat/goatchart/internal/session"
)

type chartFlags struct {
	out    string
	title  string
	style  string
	theme  string
	width  int
	height int
}

func newChartCmd(opts *options) *cobra.Command {
	var f chartFlags

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the visible series as a PNG line chart",
		Long: `Render one line per selected variation across the visible window.

Examples:
  goatchart chart --out rates.png
  goatchart chart -g week --style area --theme dark --out weekly.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session.Session) error {
				if err := writeChart(s, f); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", f.out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&f.out, "out", "o", "goatchart.png", "output file")
	cmd.Flags().StringVar(&f.title, "title", "", "chart title")
	cmd.Flags().StringVar(&f.style, "style", string(chart.StyleLine), "line style (line or area)")
	cmd.Flags().StringVar(&f.theme, "theme", string(chart.ThemeLight), "colour theme (light or dark)")
	cmd.Flags().IntVar(&f.width, "width", 1024, "image width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 400, "image height in pixels")
	return cmd
}

// writeChart renders the session's visible window to f.out.
func writeChart(s *session.Session, f chartFlags) error {
	style, err := chart.ParseLineStyle(f.style)
	if err != nil {
		return err
	}
	theme, err := chart.ParseTheme(f.theme)
	if err != nil {
		return err
	}

	title := f.title
	if title == "" {
		title = fmt.Sprintf("Conversion rate by %s", s.Granularity())
	}

	ds := s.Dataset()
	var series []chart.Series
	for _, id := range s.Selected() {
		series = append(series, chart.Series{ID: id, Name: ds.VariationName(id), Index: ds.VariationIndex(id)})
	}

	file, err := os.Create(f.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.out, err)
	}

	opts := chart.Options{Title: title, Width: f.width, Height: f.height, Style: style, Theme: theme}
	if err := chart.RenderPNG(file, s.Visible(), series, opts); err != nil {
		file.Close()
		os.Remove(f.out)
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return file.Close()
}
