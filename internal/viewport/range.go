// Package viewport tracks the visible index window over an aggregated series
// and implements zoom and pan navigation across it.
package viewport

import "fmt"

// MinSpan is the narrowest right-left distance ZoomIn will produce (six points).
// A zoom that would go below it is rejected.
const MinSpan = 5

const (
	zoomInFactor  = 0.7
	zoomOutFactor = 1.5
	panFraction   = 0.2
)

// Range is either Unbounded or Bounded.
type Range interface {
	isRange()
	String() string
}

// Unbounded means no zoom is applied: the whole series is visible.
type Unbounded struct{}

// Bounded is an inclusive index window with 0 <= Left <= Right <= length-1.
type Bounded struct {
	Left  int
	Right int
}

func (Unbounded) isRange() {}
func (Bounded) isRange()   {}

func (Unbounded) String() string { return "all" }

func (b Bounded) String() string { return fmt.Sprintf("[%d, %d]", b.Left, b.Right) }

// Resolve returns the inclusive bounds r covers in a series of length n.
// Unbounded resolves to (0, n-1).
func Resolve(r Range, n int) (left, right int) {
	if b, ok := r.(Bounded); ok {
		return b.Left, b.Right
	}
	return 0, n - 1
}

// IsZoomed reports whether r narrows the view.
func IsZoomed(r Range) bool {
	_, ok := r.(Bounded)
	return ok
}

// ZoomIn shrinks the window to 70% of its width around its center.
func ZoomIn(r Range, n int) Range {
	if n == 0 {
		return r
	}
	left, right := Resolve(r, n)
	span := right - left
	if span <= MinSpan {
		return r
	}
	next := int(float64(span) * zoomInFactor)
	if next < MinSpan {
		return r
	}
	return centered(left, right, next, n)
}

// ZoomOut widens the window by half around its center, or returns Unbounded
// when the window already covers the whole series.
func ZoomOut(r Range, n int) Range {
	if n == 0 {
		return r
	}
	left, right := Resolve(r, n)
	span := right - left
	if span >= n-1 {
		return Unbounded{}
	}
	next := centered(left, right, int(float64(span)*zoomOutFactor), n)
	if b := next.(Bounded); b.Left == 0 && b.Right == n-1 {
		return Unbounded{}
	}
	return next
}

func centered(left, right, span, n int) Range {
	center := (left + right) / 2
	newLeft := max(0, center-span/2)
	newRight := min(n-1, newLeft+span)
	return Bounded{Left: newLeft, Right: newRight}
}

// PanLeft shifts the window toward index 0 by a fifth of its width, keeping its width.
func PanLeft(r Range, n int) Range {
	if n == 0 {
		return r
	}
	left, right := Resolve(r, n)
	if left == 0 {
		return r
	}
	span := right - left
	newLeft := max(0, left-panStep(span))
	return Bounded{Left: newLeft, Right: newLeft + span}
}

// PanRight shifts the window toward the end by a fifth of its width, keeping its width.
func PanRight(r Range, n int) Range {
	if n == 0 {
		return r
	}
	left, right := Resolve(r, n)
	if right >= n-1 {
		return r
	}
	span := right - left
	newRight := min(n-1, right+panStep(span))
	return Bounded{Left: newRight - span, Right: newRight}
}

func panStep(span int) int {
	return max(1, int(float64(span)*panFraction))
}

// Reset returns the Unbounded range.
func Reset() Range {
	return Unbounded{}
}

// VisibleSlice returns the part of points r covers. Unbounded returns points as is.
func VisibleSlice[T any](points []T, r Range) []T {
	b, ok := r.(Bounded)
	if !ok {
		return points
	}
	left := max(0, b.Left)
	right := min(len(points)-1, b.Right)
	if left > right {
		return points[:0]
	}
	return points[left : right+1]
}
