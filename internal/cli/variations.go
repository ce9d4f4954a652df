package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/headline-goat/goatchart/internal/aggregate"
	"github.com/headline-goat/goatchart/internal/chart"
	"github.com/headline-goat/goatchart/internal/session"
)

func newVariationsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "variations",
		Short: "List the variations in the dataset",
		Long:  `List every variation with its id, chart colour, selection state and totals.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session.Session) error {
				ds := s.Dataset()
				if len(ds.Variations) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No variations in dataset.")
					return nil
				}

				selected := make(map[string]bool)
				for _, id := range s.Selected() {
					selected[id] = true
				}
				buckets := aggregate.DailyBuckets(ds.Data, ds.VariationIDs())

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCOLOR\tSELECTED\tVISITS\tCONVERSIONS\tRATE")
				for i, v := range ds.Variations {
					id := v.VariationID()
					total := aggregate.Sum(buckets, id)
					mark := ""
					if selected[id] {
						mark = "yes"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						id,
						v.Name,
						chart.Color(i),
						mark,
						formatNumber(total.Visits),
						formatNumber(total.Conversions),
						formatPercent(total.Rate()),
					)
				}
				return w.Flush()
			})
		},
	}
}
