package chart

import (
	"math"
	"strings"
)

// SparklineChars are ordered from lowest to highest.
var SparklineChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a unicode sparkline of the given width, scaled
// to max. Values above max are capped; a zero max renders a flat baseline.
func Sparkline(values []float64, width int, max float64) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 || max <= 0 {
		return strings.Repeat(string(SparklineChars[0]), width)
	}

	result := make([]rune, width)
	for i := 0; i < width; i++ {
		idx := i * len(values) / width
		if idx >= len(values) {
			idx = len(values) - 1
		}

		normalized := math.Min(values[idx]/max, 1)
		level := int(math.Round(normalized * 7))
		if level < 0 {
			level = 0
		}
		result[i] = SparklineChars[level]
	}
	return string(result)
}

// MaxValue returns the largest value across all series, zero when empty.
func MaxValue(series ...[]float64) float64 {
	max := 0.0
	for _, values := range series {
		for _, v := range values {
			if v > max {
				max = v
			}
		}
	}
	return max
}
