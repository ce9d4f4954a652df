package viewport_test

import (
	"math/rand"
	"testing"

	"github.com/headline-goat/goatchart/internal/viewport"
)

func TestZoomIn(t *testing.T) {
	tests := []struct {
		name string
		in   viewport.Range
		n    int
		want viewport.Range
	}{
		{"unbounded", viewport.Unbounded{}, 100, viewport.Bounded{Left: 15, Right: 84}},
		{"bounded", viewport.Bounded{Left: 15, Right: 84}, 100, viewport.Bounded{Left: 25, Right: 73}},
		{"empty series", viewport.Unbounded{}, 0, viewport.Unbounded{}},
		{"at floor", viewport.Unbounded{}, 6, viewport.Unbounded{}},
		{"would go below floor", viewport.Bounded{Left: 10, Right: 17}, 100, viewport.Bounded{Left: 10, Right: 17}},
	}

	for _, tt := range tests {
		got := viewport.ZoomIn(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("%s: ZoomIn(%v, %d) = %v, want %v", tt.name, tt.in, tt.n, got, tt.want)
		}
	}
}

func TestZoomOut(t *testing.T) {
	tests := []struct {
		name string
		in   viewport.Range
		n    int
		want viewport.Range
	}{
		{"unbounded stays unbounded", viewport.Unbounded{}, 100, viewport.Unbounded{}},
		{"widens around center", viewport.Bounded{Left: 40, Right: 50}, 100, viewport.Bounded{Left: 38, Right: 53}},
		{"covers everything", viewport.Bounded{Left: 15, Right: 84}, 100, viewport.Unbounded{}},
		{"full bounded", viewport.Bounded{Left: 0, Right: 9}, 10, viewport.Unbounded{}},
		{"clamped at left edge", viewport.Bounded{Left: 0, Right: 10}, 100, viewport.Bounded{Left: 0, Right: 15}},
		{"empty series", viewport.Bounded{Left: 1, Right: 2}, 0, viewport.Bounded{Left: 1, Right: 2}},
	}

	for _, tt := range tests {
		got := viewport.ZoomOut(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("%s: ZoomOut(%v, %d) = %v, want %v", tt.name, tt.in, tt.n, got, tt.want)
		}
	}
}

func TestZoomInThenOut_ReturnsToUnbounded(t *testing.T) {
	for _, n := range []int{20, 21, 37, 100, 365} {
		r := viewport.ZoomIn(viewport.Unbounded{}, n)
		if !viewport.IsZoomed(r) {
			t.Fatalf("n=%d: expected ZoomIn to bound the view", n)
		}
		if got := viewport.ZoomOut(r, n); got != (viewport.Unbounded{}) {
			t.Errorf("n=%d: ZoomOut(ZoomIn(all)) = %v, want all", n, got)
		}
	}
}

func TestZoomIn_ConvergesAboveFloor(t *testing.T) {
	var r viewport.Range = viewport.Unbounded{}
	for i := 0; i < 50; i++ {
		r = viewport.ZoomIn(r, 100)
	}

	left, right := viewport.Resolve(r, 100)
	if right-left <= viewport.MinSpan {
		t.Fatalf("expected span above %d, got [%d, %d]", viewport.MinSpan, left, right)
	}
	if got := viewport.ZoomIn(r, 100); got != r {
		t.Errorf("expected further ZoomIn to be a no-op, got %v from %v", got, r)
	}
	if r != (viewport.Bounded{Left: 46, Right: 53}) {
		t.Errorf("expected [46, 53], got %v", r)
	}
}

func TestPanLeft(t *testing.T) {
	r := viewport.PanLeft(viewport.Bounded{Left: 15, Right: 84}, 100)
	if r != (viewport.Bounded{Left: 2, Right: 71}) {
		t.Errorf("first pan: got %v, want [2, 71]", r)
	}

	r = viewport.PanLeft(r, 100)
	if r != (viewport.Bounded{Left: 0, Right: 69}) {
		t.Errorf("second pan: got %v, want [0, 69]", r)
	}

	if got := viewport.PanLeft(r, 100); got != r {
		t.Errorf("expected no-op at left edge, got %v", got)
	}
}

func TestPanRight(t *testing.T) {
	r := viewport.PanRight(viewport.Bounded{Left: 15, Right: 84}, 100)
	if r != (viewport.Bounded{Left: 28, Right: 97}) {
		t.Errorf("first pan: got %v, want [28, 97]", r)
	}

	r = viewport.PanRight(r, 100)
	if r != (viewport.Bounded{Left: 30, Right: 99}) {
		t.Errorf("second pan: got %v, want [30, 99]", r)
	}

	if got := viewport.PanRight(r, 100); got != r {
		t.Errorf("expected no-op at right edge, got %v", got)
	}
}

func TestPan_MinimumStep(t *testing.T) {
	got := viewport.PanLeft(viewport.Bounded{Left: 10, Right: 12}, 20)
	if got != (viewport.Bounded{Left: 9, Right: 11}) {
		t.Errorf("PanLeft small window = %v, want [9, 11]", got)
	}
	got = viewport.PanRight(viewport.Bounded{Left: 10, Right: 12}, 20)
	if got != (viewport.Bounded{Left: 11, Right: 13}) {
		t.Errorf("PanRight small window = %v, want [11, 13]", got)
	}
}

func TestPan_UnboundedIsNoop(t *testing.T) {
	if got := viewport.PanLeft(viewport.Unbounded{}, 30); got != (viewport.Unbounded{}) {
		t.Errorf("PanLeft(all) = %v", got)
	}
	if got := viewport.PanRight(viewport.Unbounded{}, 30); got != (viewport.Unbounded{}) {
		t.Errorf("PanRight(all) = %v", got)
	}
	if got := viewport.PanRight(viewport.Unbounded{}, 0); got != (viewport.Unbounded{}) {
		t.Errorf("PanRight on empty series = %v", got)
	}
}

func TestNavigation_KeepsBoundsAndWidth(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(400)
		var r viewport.Range = viewport.Unbounded{}

		for step := 0; step < 40; step++ {
			before := r
			bl, br := viewport.Resolve(before, n)

			switch rng.Intn(4) {
			case 0:
				r = viewport.ZoomIn(r, n)
			case 1:
				r = viewport.ZoomOut(r, n)
			case 2:
				r = viewport.PanLeft(r, n)
				if l, rr := viewport.Resolve(r, n); rr-l != br-bl {
					t.Fatalf("n=%d: PanLeft changed width %v -> %v", n, before, r)
				}
			case 3:
				r = viewport.PanRight(r, n)
				if l, rr := viewport.Resolve(r, n); rr-l != br-bl {
					t.Fatalf("n=%d: PanRight changed width %v -> %v", n, before, r)
				}
			}

			if b, ok := r.(viewport.Bounded); ok {
				if b.Left < 0 || b.Left > b.Right || b.Right > n-1 {
					t.Fatalf("n=%d: invalid range %v after %v", n, b, before)
				}
			}
		}
	}
}

func TestReset(t *testing.T) {
	if got := viewport.Reset(); got != (viewport.Unbounded{}) {
		t.Errorf("Reset() = %v, want all", got)
	}
}

func TestVisibleSlice(t *testing.T) {
	points := []int{0, 1, 2, 3, 4, 5, 6, 7}

	all := viewport.VisibleSlice(points, viewport.Unbounded{})
	if len(all) != len(points) {
		t.Errorf("unbounded: got %d points, want %d", len(all), len(points))
	}

	part := viewport.VisibleSlice(points, viewport.Bounded{Left: 2, Right: 5})
	if len(part) != 4 || part[0] != 2 || part[3] != 5 {
		t.Errorf("bounded: got %v, want [2 3 4 5]", part)
	}

	one := viewport.VisibleSlice(points, viewport.Bounded{Left: 7, Right: 7})
	if len(one) != 1 || one[0] != 7 {
		t.Errorf("single point: got %v", one)
	}
}
