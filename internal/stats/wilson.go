package stats

import (
	"math"

	"github.com/headline-goat/goatchart/internal/aggregate"
)

// Interval is the Wilson interval for a bucket total, in percent so it can
// sit next to the conversion rates the charts plot.
func Interval(c aggregate.Counts, confidence float64) (lower, upper float64) {
	lower, upper = WilsonInterval(c.Conversions, c.Visits, confidence)
	return lower * 100, upper * 100
}

// WilsonInterval returns the Wilson score interval for successes out of
// trials as fractions in [0, 1]. Zero trials yields (0, 0).
func WilsonInterval(successes, trials int, confidence float64) (lower, upper float64) {
	if trials == 0 {
		return 0, 0
	}

	z := ZScore(confidence)
	z2 := z * z
	n := float64(trials)
	p := float64(successes) / n

	denom := 1 + z2/n
	mid := (p + z2/(2*n)) / denom
	half := z / denom * math.Sqrt(p*(1-p)/n+z2/(4*n*n))

	return math.Max(0, mid-half), math.Min(1, mid+half)
}

var commonZ = map[float64]float64{
	0.80: 1.2816,
	0.90: 1.6449,
	0.95: 1.9600,
	0.99: 2.5758,
}

// ZScore returns the two-sided critical value for a confidence level.
func ZScore(confidence float64) float64 {
	if z, ok := commonZ[confidence]; ok {
		return z
	}
	return inverseNormal((1 + confidence) / 2)
}

// inverseNormal solves normalCDF(z) = p by bisection.
func inverseNormal(p float64) float64 {
	if p <= 0.5 {
		return 0
	}
	lo, hi := 0.0, 10.0
	for i := 0; i < 64; i++ {
		mid := (lo + hi) / 2
		if normalCDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
