package vector

import "math"

// HitTest returns the index of the entity nearest to the pixel
// position (px,py), or -1 when none lies within tol pixels. Distances
// are measured in screen space so the tolerance stays a constant
// finger/cursor size at any zoom.
func HitTest(entities []Entity, view ViewTransform, px, py, tol float64) int {
	best := -1
	bestDist := tol
	for i, e := range entities {
		if d := screenDistance(e, view, px, py); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func screenDistance(e Entity, view ViewTransform, px, py float64) float64 {
	switch e := e.(type) {
	case Line:
		return segmentDistance(view, e.P0, e.P1, px, py)
	case Circle:
		cx, cy := view.ToScreen(e.Center)
		return math.Abs(math.Hypot(px-cx, py-cy) - e.Radius*view.Scale)
	case Point:
		cx, cy := view.ToScreen(e.Position)
		return math.Hypot(px-cx, py-cy)
	case Polyline:
		pts := e.Vertices
		if e.Closed && len(pts) > 1 {
			pts = append(append([]Point2{}, pts...), pts[0])
		}
		return chainDistance(view, pts, px, py)
	default:
		return chainDistance(view, sampledPoints(e), px, py)
	}
}

func chainDistance(view ViewTransform, pts []Point2, px, py float64) float64 {
	if len(pts) == 0 {
		return math.Inf(1)
	}
	if len(pts) == 1 {
		x, y := view.ToScreen(pts[0])
		return math.Hypot(px-x, py-y)
	}
	d := math.Inf(1)
	for i := 0; i+1 < len(pts); i++ {
		d = math.Min(d, segmentDistance(view, pts[i], pts[i+1], px, py))
	}
	return d
}

// segmentDistance is the screen-space distance from a pixel to the
// projected segment a-b.
func segmentDistance(view ViewTransform, a, b Point2, px, py float64) float64 {
	ax, ay := view.ToScreen(a)
	bx, by := view.ToScreen(b)
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-12 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}
