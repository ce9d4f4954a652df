// Package chart renders aggregated rate series: PNG images for export and
// unicode sparklines for the terminal.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/headline-goat/goatchart/internal/aggregate"
)

var ErrNothingToRender = errors.New("nothing to render")

// Series is one variation to draw.
type Series struct {
	ID    string
	Name  string
	Index int // position in the dataset's variation list, picks the colour
}

// Options control the rendered image.
type Options struct {
	Title  string
	Width  int
	Height int
	Style  LineStyle
	Theme  Theme
}

const maxTicks = 8

// RenderPNG draws one line per series across points and writes a PNG to w.
func RenderPNG(w io.Writer, points []aggregate.Point, series []Series, opts Options) error {
	if len(points) == 0 || len(series) == 0 {
		return ErrNothingToRender
	}
	if opts.Width == 0 {
		opts.Width = 1200
	}
	if opts.Height == 0 {
		opts.Height = 400
	}

	xs := make([]float64, len(points))
	for i := range points {
		xs[i] = float64(i)
	}
	// a single point has no x range; stretch it into a flat segment
	if len(xs) == 1 {
		xs = []float64{0, 1}
	}

	maxRate := 0.0
	var chartSeries []gochart.Series
	for _, s := range series {
		ys := make([]float64, len(xs))
		for i := range xs {
			p := points[min(i, len(points)-1)]
			ys[i], _ = p.Rate(s.ID)
			maxRate = math.Max(maxRate, ys[i])
		}

		col := drawingColor(Color(s.Index))
		st := gochart.Style{StrokeColor: col, StrokeWidth: 2}
		if opts.Style == StyleArea {
			st.FillColor = col.WithAlpha(77)
		}
		chartSeries = append(chartSeries, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   st,
		})
	}

	yMax := math.Ceil(maxRate * 1.1)
	if yMax == 0 {
		yMax = 1
	}

	text := opts.Theme.text()
	ch := gochart.Chart{
		Title:      opts.Title,
		TitleStyle: gochart.Style{FontColor: text},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{
			FillColor: opts.Theme.background(),
			Padding:   gochart.Box{Top: 40, Left: 16, Right: 30, Bottom: 20},
		},
		Canvas: gochart.Style{FillColor: opts.Theme.background()},
		XAxis: gochart.XAxis{
			Style: gochart.Style{FontColor: text, StrokeColor: text},
			Range: &gochart.ContinuousRange{Min: 0, Max: xs[len(xs)-1]},
			Ticks: dateTicks(points),
		},
		YAxis: gochart.YAxis{
			Style:          gochart.Style{FontColor: text},
			Range:          &gochart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: percentFormatter,
			GridMajorStyle: gochart.Style{StrokeColor: opts.Theme.grid(), StrokeWidth: 1},
		},
		Series: chartSeries,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func percentFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f%%", f)
	}
	return ""
}

// dateTicks labels up to maxTicks evenly spaced points with their short date.
func dateTicks(points []aggregate.Point) []gochart.Tick {
	step := 1
	if len(points) > maxTicks {
		step = int(math.Ceil(float64(len(points)) / maxTicks))
	}
	var ticks []gochart.Tick
	for i := 0; i < len(points); i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: shortDate(points[i].Date)})
	}
	return ticks
}

func shortDate(label string) string {
	t, ok := aggregate.LabelTime(label)
	if !ok {
		return label
	}
	return t.Format("Jan 2")
}
