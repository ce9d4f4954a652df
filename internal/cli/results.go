package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/headline-goat/goatchart/internal/session"
	"github.com/headline-goat/goatchart/internal/stats"
)

func newResultsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Show totals and significance for the visible window",
		Long: `Show visits, conversions, conversion rates and 95% confidence intervals
summed over the visible window. The first selected variation is the control.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session.Session) error {
				out := cmd.OutOrStdout()
				result := stats.Analyze(s.VisibleBuckets(), s.Selected(), nameOf(s))

				printView(out, s)
				fmt.Fprintln(out)

				if len(result.Variants) == 0 {
					fmt.Fprintln(out, "No variations selected.")
					return nil
				}

				fmt.Fprintln(out, "VARIATION         VISITS   CONVERSIONS  RATE     95% CI")
				fmt.Fprintln(out, strings.Repeat("─", 60))

				for _, v := range result.Variants {
					indicator := ""
					if v.Index == result.LeadingVariant && len(result.Variants) > 1 {
						indicator = " ← LEADING"
					}

					ciStr := fmt.Sprintf("[%.1f%%, %.1f%%]", v.CILower, v.CIUpper)
					if v.Views == 0 {
						ciStr = "N/A"
					}

					name := v.Name
					if len(name) > 16 {
						name = name[:13] + "..."
					}

					fmt.Fprintf(out, "%-16s  %-7d  %-11d  %-7s  %s%s\n",
						name,
						v.Views,
						v.Conversions,
						formatPercent(v.Rate),
						ciStr,
						indicator,
					)
				}

				fmt.Fprintln(out)

				if len(result.Variants) > 1 {
					leadingName := result.Variants[result.LeadingVariant].Name
					confPct := result.ConfidenceLevel * 100

					if result.Confident {
						fmt.Fprintf(out, "Statistical significance: %.1f%% confident \"%s\" is the winner\n", confPct, leadingName)
					} else if confPct >= 90 {
						fmt.Fprintf(out, "Statistical significance: %.1f%% confident \"%s\" beats control (not yet significant)\n", confPct, leadingName)
					} else {
						fmt.Fprintln(out, "Statistical significance: Not enough data to determine a winner")
					}
				}
				return nil
			})
		},
	}
}
