package viewport

import "github.com/headline-goat/goatchart/internal/aggregate"

// BestVariationAt returns the candidate with the strictly highest rate on point.
// Ties go to the candidate listed first. It returns false when point is nil or
// no candidate has a rate on it.
func BestVariationAt(point *aggregate.Point, candidates []string) (string, bool) {
	if point == nil {
		return "", false
	}
	var (
		best  string
		found bool
	)
	maxRate := -1.0
	for _, id := range candidates {
		rate, ok := point.Rate(id)
		if ok && rate > maxRate {
			maxRate = rate
			best = id
			found = true
		}
	}
	return best, found
}

// BestVariationAtIndex looks up points[i] and returns its best variation.
func BestVariationAtIndex(points []aggregate.Point, i int, candidates []string) (string, bool) {
	if i < 0 || i >= len(points) {
		return "", false
	}
	return BestVariationAt(&points[i], candidates)
}
