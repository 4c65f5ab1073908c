package vector

import (
	"math"
	"testing"
)

func TestEntityBounds(t *testing.T) {
	tests := []struct {
		name string
		e    Entity
		want Rect
	}{
		{
			"line",
			Line{P0: Point2{X: 3, Y: -1}, P1: Point2{X: -2, Y: 4}},
			Rect{MinX: -2, MinY: -1, MaxX: 3, MaxY: 4},
		},
		{
			"circle",
			Circle{Center: Point2{X: 1, Y: 2}, Radius: 3},
			Rect{MinX: -2, MinY: -1, MaxX: 4, MaxY: 5},
		},
		{
			"arc spans full circle box",
			Arc{Center: Point2{}, Radius: 2, StartAngle: 0, EndAngle: 90},
			Rect{MinX: -2, MinY: -2, MaxX: 2, MaxY: 2},
		},
		{
			"polyline",
			Polyline{Vertices: []Point2{{0, 0}, {5, 1}, {2, -3}}},
			Rect{MinX: 0, MinY: -3, MaxX: 5, MaxY: 1},
		},
		{
			"ellipse",
			Ellipse{Center: Point2{}, Major: Point2{X: 4, Y: 0}, Ratio: 0.5},
			Rect{MinX: -4, MinY: -4, MaxX: 4, MaxY: 4},
		},
		{
			"point",
			Point{Position: Point2{X: 7, Y: 8}},
			Rect{MinX: 7, MinY: 8, MaxX: 7, MaxY: 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Bounds(); got != tt.want {
				t.Errorf("Bounds = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoundsOfEmpty(t *testing.T) {
	if got := BoundsOf(nil); got != DefaultBounds {
		t.Errorf("BoundsOf(nil) = %+v, want DefaultBounds", got)
	}
	if got := BoundsOf([]Entity{}); got != DefaultBounds {
		t.Errorf("BoundsOf(empty) = %+v, want DefaultBounds", got)
	}
}

func TestBoundsOfUnion(t *testing.T) {
	got := BoundsOf([]Entity{
		Line{P0: Point2{}, P1: Point2{X: 10, Y: 0}},
		Circle{Center: Point2{X: 0, Y: 20}, Radius: 5},
	})
	want := Rect{MinX: -5, MinY: 0, MaxX: 10, MaxY: 25}
	if got != want {
		t.Errorf("BoundsOf = %+v, want %+v", got, want)
	}
}

func TestRectExtend(t *testing.T) {
	r := emptyRect()
	if !r.IsEmpty() {
		t.Fatal("fresh rect should be empty")
	}
	r.Extend(Point2{X: 1, Y: 2})
	if r.IsEmpty() {
		t.Fatal("extended rect reported empty")
	}
	if r.Width() != 0 || r.Height() != 0 {
		t.Errorf("single point rect size = %v×%v", r.Width(), r.Height())
	}
	r.Extend(Point2{X: -1, Y: 5})
	if r.Width() != 2 || r.Height() != 3 {
		t.Errorf("rect size = %v×%v, want 2×3", r.Width(), r.Height())
	}
}

func TestHitTest(t *testing.T) {
	entities := []Entity{
		Line{P0: Point2{X: 0, Y: 0}, P1: Point2{X: 100, Y: 0}},
		Circle{Center: Point2{X: 50, Y: 50}, Radius: 10},
	}
	// Identity-ish view, offset so drawing Y=0 is pixel row 200.
	view := ViewTransform{Scale: 1, OffsetX: 0, OffsetY: 200}

	tests := []struct {
		name   string
		px, py float64
		tol    float64
		want   int
	}{
		{"on the line", 50, 200, 5, 0},
		{"near the line", 50, 196, 5, 0},
		{"beyond tolerance", 50, 190, 5, -1},
		{"on the circle rim", 60, 150, 5, 1},
		{"circle center misses rim", 50, 150, 5, -1},
		{"nothing nearby", 400, 400, 5, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitTest(entities, view, tt.px, tt.py, tt.tol); got != tt.want {
				t.Errorf("HitTest(%v,%v) = %d, want %d", tt.px, tt.py, got, tt.want)
			}
		})
	}
}

func TestHitTestZoomIndependentTolerance(t *testing.T) {
	entities := []Entity{Line{P0: Point2{X: 0, Y: 0}, P1: Point2{X: 10, Y: 0}}}

	// At 100× zoom a 4-pixel miss is a 0.04 drawing-unit miss; the
	// screen-space tolerance must still accept it.
	view := ViewTransform{Scale: 100, OffsetX: 0, OffsetY: 500}
	if got := HitTest(entities, view, 500, 496, 5); got != 0 {
		t.Errorf("zoomed hit = %d, want 0", got)
	}
	// Zoomed far out the same pixel distance still misses by the same
	// tolerance.
	view = ViewTransform{Scale: 0.01, OffsetX: 0, OffsetY: 500}
	if got := HitTest(entities, view, 0, 490, 5); got != -1 {
		t.Errorf("zoomed-out miss = %d, want -1", got)
	}
}

func TestSegmentDistance(t *testing.T) {
	view := NewViewTransform()
	// Degenerate segment behaves as a point.
	d := segmentDistance(view, Point2{X: 1, Y: 0}, Point2{X: 1, Y: 0}, 4, 0)
	if math.Abs(d-3) > 1e-12 {
		t.Errorf("degenerate segment distance = %v, want 3", d)
	}
}
