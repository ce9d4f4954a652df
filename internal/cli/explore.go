package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/headline-goat/goatchart/internal/aggregate"
	"github.com/headline-goat/goatchart/internal/chart"
	"github.com/headline-goat/goatchart/internal/dataset"
	"github.com/headline-goat/goatchart/internal/session"
	"github.com/headline-goat/goatchart/internal/viewport"
)

func newExploreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Interactively zoom, pan and inspect the series",
		Long: `Start the interactive explorer.

The current window is printed after every step. Pan controls appear once
pan mode is on and the view is zoomed in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd, opts)
		},
	}
}

func runExplore(cmd *cobra.Command, opts *options) error {
	return opts.withSession(cmd, func(s *session.Session) error {
		e := &explorer{
			s:      s,
			out:    cmd.OutOrStdout(),
			chart:  chartFlags{out: "goatchart.png", style: string(chart.StyleLine), theme: string(chart.ThemeLight), width: 1024, height: 400},
			choose: promptSelect,
			ask:    promptInput,
			reload: func() (*dataset.Dataset, error) {
				return opts.loadDataset(cmd.Context())
			},
		}
		return e.run()
	})
}

// explorer drives a session from a menu. choose and ask are swapped out in
// tests.
type explorer struct {
	s      *session.Session
	out    io.Writer
	chart  chartFlags
	choose func(label string, items []string) (int, error)
	ask    func(label, def string, validate promptui.ValidateFunc) (string, error)
	reload func() (*dataset.Dataset, error)
}

type menuItem struct {
	label string
	run   func() error // nil quits
}

func (e *explorer) run() error {
	for {
		printSeries(e.out, e.s)
		fmt.Fprintln(e.out)

		items := e.menu()
		labels := make([]string, len(items))
		for i, it := range items {
			labels[i] = it.label
		}

		idx, err := e.choose("Action", labels)
		if err != nil {
			if isPromptExit(err) {
				return nil
			}
			return err
		}
		if items[idx].run == nil {
			return nil
		}
		if err := items[idx].run(); err != nil {
			if isPromptExit(err) {
				continue
			}
			fmt.Fprintf(e.out, "Error: %v\n\n", err)
		}
	}
}

func (e *explorer) menu() []menuItem {
	view := e.s.Viewport()
	apply := func(a viewport.Action) func() error {
		return func() error {
			e.s.Apply(a)
			return nil
		}
	}

	items := []menuItem{
		{"Zoom in", apply(viewport.ActionZoomIn)},
	}
	if view.IsZoomed() {
		items = append(items, menuItem{"Zoom out", apply(viewport.ActionZoomOut)})
	}
	if view.PanControlsVisible() {
		items = append(items,
			menuItem{"Pan left", apply(viewport.ActionPanLeft)},
			menuItem{"Pan right", apply(viewport.ActionPanRight)},
		)
	}
	if view.Panning() {
		items = append(items, menuItem{"Leave pan mode", apply(viewport.ActionTogglePan)})
	} else {
		items = append(items, menuItem{"Enter pan mode", apply(viewport.ActionTogglePan)})
	}
	if view.IsZoomed() {
		items = append(items, menuItem{"Reset zoom", apply(viewport.ActionReset)})
	}

	next := aggregate.Week
	if e.s.Granularity() == aggregate.Week {
		next = aggregate.Day
	}
	items = append(items,
		menuItem{fmt.Sprintf("Show by %s", next), func() error {
			e.s.SetGranularity(next)
			return nil
		}},
		menuItem{"Choose variations", e.chooseVariations},
		menuItem{"Inspect point", e.inspect},
		menuItem{"Reload data", e.reloadData},
		menuItem{"Save chart PNG", e.saveChart},
		menuItem{"Quit", nil},
	)
	return items
}

// chooseVariations toggles variations one at a time until Done.
func (e *explorer) chooseVariations() error {
	ds := e.s.Dataset()
	for {
		selected := make(map[string]bool)
		for _, id := range e.s.Selected() {
			selected[id] = true
		}

		labels := make([]string, 0, len(ds.Variations)+1)
		for _, v := range ds.Variations {
			mark := "[ ]"
			if selected[v.VariationID()] {
				mark = "[x]"
			}
			labels = append(labels, fmt.Sprintf("%s %s", mark, v.Name))
		}
		labels = append(labels, "Done")

		idx, err := e.choose("Toggle variation", labels)
		if err != nil {
			return err
		}
		if idx == len(ds.Variations) {
			return nil
		}

		id := ds.Variations[idx].VariationID()
		selected[id] = !selected[id]
		var ids []string
		for _, vid := range ds.VariationIDs() {
			if selected[vid] {
				ids = append(ids, vid)
			}
		}
		e.s.SetSelection(ids)
	}
}

// inspect prints the tooltip for a visible point, numbered from 1.
func (e *explorer) inspect() error {
	n := len(e.s.Visible())
	if n == 0 {
		fmt.Fprintln(e.out, "Nothing to inspect.")
		return nil
	}

	input, err := e.ask(fmt.Sprintf("Point (1-%d)", n), "1", func(s string) error {
		i, err := strconv.Atoi(s)
		if err != nil || i < 1 || i > n {
			return fmt.Errorf("enter a number between 1 and %d", n)
		}
		return nil
	})
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("invalid point: %s", input)
	}

	date, rows, ok := e.s.Tooltip(i - 1)
	if !ok {
		return fmt.Errorf("point %d is not visible", i)
	}
	printTooltip(e.out, date, e.s.Offset()+i, len(e.s.Points()), rows)
	return nil
}

// printTooltip writes one point's rows; pos is 1-based in the whole series.
func printTooltip(w io.Writer, date string, pos, total int, rows []session.TooltipRow) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  (point %d of %d)\n", date, pos, total)
	for _, r := range rows {
		best := ""
		if r.Best {
			best = "  ← BEST"
		}
		fmt.Fprintf(w, "  %s %-16s %s%s\n", chart.Color(r.Color), r.Name, formatPercent(r.Rate), best)
	}
	fmt.Fprintln(w)
}

// reloadData fetches the source again. The session only changes when the
// load succeeds.
func (e *explorer) reloadData() error {
	ds, err := e.reload()
	if err != nil {
		return err
	}
	e.s.Reload(ds)
	fmt.Fprintf(e.out, "Reloaded %d days for %d variations.\n\n", len(ds.Data), len(ds.Variations))
	return nil
}

func (e *explorer) saveChart() error {
	path, err := e.ask("Output file", e.chart.out, nil)
	if err != nil {
		return err
	}
	f := e.chart
	f.out = path
	if err := writeChart(e.s, f); err != nil {
		return err
	}
	e.chart.out = path
	fmt.Fprintf(e.out, "Wrote %s\n\n", path)
	return nil
}

func promptSelect(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
	}
	idx, _, err := prompt.Run()
	return idx, err
}

func promptInput(label, def string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	}
	return prompt.Run()
}

func isPromptExit(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort)
}
