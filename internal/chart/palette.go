package chart

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var palette = []string{"#5E5D67", "#3838E7", "#FF8346", "#73D13D"}

// Color returns the series colour for the variation at position i.
// Positions wrap around the palette.
func Color(i int) string {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

func drawingColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// Theme picks the background and text colours of a rendered chart.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(s)) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("invalid theme %q: must be 'light' or 'dark'", s)
}

func (t Theme) background() drawing.Color {
	if t == ThemeDark {
		return drawingColor("#13172E")
	}
	return drawingColor("#FFFFFF")
}

func (t Theme) text() drawing.Color {
	if t == ThemeDark {
		return drawingColor("#7C7C8C")
	}
	return drawingColor("#8C8C8C")
}

func (t Theme) grid() drawing.Color {
	if t == ThemeDark {
		return drawingColor("#2A2E45")
	}
	return drawingColor("#F0F0F0")
}

// LineStyle selects plain lines or filled areas.
type LineStyle string

const (
	StyleLine LineStyle = "line"
	StyleArea LineStyle = "area"
)

func ParseLineStyle(s string) (LineStyle, error) {
	switch LineStyle(strings.ToLower(s)) {
	case StyleLine:
		return StyleLine, nil
	case StyleArea:
		return StyleArea, nil
	}
	return "", fmt.Errorf("invalid line style %q: must be 'line' or 'area'", s)
}
