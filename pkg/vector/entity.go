// Package vector is the 2-D cut-drawing pipeline: it parses drawing
// entities, computes their bounds, and renders them through a pan/zoom
// view transform. It is a sibling of the 3-D pipeline and shares no
// state with it.
package vector

import "math"

// Point2 is a 2-D point in drawing coordinates (Y up, CAD convention).
type Point2 struct {
	X, Y float64
}

// Rect is a 2-D axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// emptyRect returns a rect ready for Extend.
func emptyRect() Rect {
	inf := math.Inf(1)
	return Rect{MinX: inf, MinY: inf, MaxX: -inf, MaxY: -inf}
}

// IsEmpty reports whether the rect has never been extended.
func (r Rect) IsEmpty() bool { return r.MinX > r.MaxX }

// Extend grows the rect to enclose p.
func (r *Rect) Extend(p Point2) {
	r.MinX = math.Min(r.MinX, p.X)
	r.MinY = math.Min(r.MinY, p.Y)
	r.MaxX = math.Max(r.MaxX, p.X)
	r.MaxY = math.Max(r.MaxY, p.Y)
}

// Union grows the rect to enclose another rect.
func (r *Rect) Union(o Rect) {
	if o.IsEmpty() {
		return
	}
	r.Extend(Point2{o.MinX, o.MinY})
	r.Extend(Point2{o.MaxX, o.MaxY})
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Attrs are the source attributes every entity optionally carries.
type Attrs struct {
	Layer      string
	ColorIndex int // AutoCAD color index, 0 = unset
}

// Entity is one immutable drawing element. The concrete types form a
// closed set; the parser only ever produces these.
type Entity interface {
	// Bounds returns the entity's 2-D bounding box using sampling
	// appropriate for its kind.
	Bounds() Rect
	attrs() Attrs
}

// Line is a straight segment.
type Line struct {
	Attrs
	P0, P1 Point2
}

// Circle is a full circle.
type Circle struct {
	Attrs
	Center Point2
	Radius float64
}

// Arc is a circular arc. Angles are degrees, counter-clockwise from +X.
type Arc struct {
	Attrs
	Center     Point2
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// Polyline is a vertex chain, optionally closed.
type Polyline struct {
	Attrs
	Vertices []Point2
	Closed   bool
}

// Ellipse is a full or partial ellipse. Major is the major-axis
// endpoint relative to the center; Ratio scales the minor axis.
// Start/End are parametric angles in radians.
type Ellipse struct {
	Attrs
	Center Point2
	Major  Point2
	Ratio  float64
	Start  float64
	End    float64
}

// Spline carries control vertices; rendering approximates the curve by
// its control polygon, which is sufficient for review framing.
type Spline struct {
	Attrs
	Controls []Point2
}

// Point is a position marker.
type Point struct {
	Attrs
	Position Point2
}

func (e Line) attrs() Attrs     { return e.Attrs }
func (e Circle) attrs() Attrs   { return e.Attrs }
func (e Arc) attrs() Attrs      { return e.Attrs }
func (e Polyline) attrs() Attrs { return e.Attrs }
func (e Ellipse) attrs() Attrs  { return e.Attrs }
func (e Spline) attrs() Attrs   { return e.Attrs }
func (e Point) attrs() Attrs    { return e.Attrs }

// Bounds implementations use entity-appropriate sampling: endpoints for
// linear kinds, center±radius for circular kinds, center±scaled major
// axis for ellipses.

func (e Line) Bounds() Rect {
	r := emptyRect()
	r.Extend(e.P0)
	r.Extend(e.P1)
	return r
}

func (e Circle) Bounds() Rect {
	return Rect{
		MinX: e.Center.X - e.Radius, MinY: e.Center.Y - e.Radius,
		MaxX: e.Center.X + e.Radius, MaxY: e.Center.Y + e.Radius,
	}
}

func (e Arc) Bounds() Rect {
	// Center±radius: the full-circle box. Tight arc bounds are not
	// worth the quadrant bookkeeping for framing purposes.
	return Circle{Center: e.Center, Radius: e.Radius}.Bounds()
}

func (e Polyline) Bounds() Rect {
	r := emptyRect()
	for _, v := range e.Vertices {
		r.Extend(v)
	}
	return r
}

func (e Ellipse) Bounds() Rect {
	major := math.Hypot(e.Major.X, e.Major.Y)
	ext := math.Max(major, major*e.Ratio)
	return Rect{
		MinX: e.Center.X - ext, MinY: e.Center.Y - ext,
		MaxX: e.Center.X + ext, MaxY: e.Center.Y + ext,
	}
}

func (e Spline) Bounds() Rect {
	r := emptyRect()
	for _, v := range e.Controls {
		r.Extend(v)
	}
	return r
}

func (e Point) Bounds() Rect {
	r := emptyRect()
	r.Extend(e.Position)
	return r
}

// DefaultBounds is the fixed box used when a drawing has no entities,
// so fit math never divides by an unbounded or NaN extent.
var DefaultBounds = Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

// BoundsOf returns the union of all entity bounds, or DefaultBounds for
// an empty or fully degenerate set.
func BoundsOf(entities []Entity) Rect {
	r := emptyRect()
	for _, e := range entities {
		r.Union(e.Bounds())
	}
	if r.IsEmpty() {
		return DefaultBounds
	}
	return r
}
