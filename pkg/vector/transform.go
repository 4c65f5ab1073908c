package vector

// FitPadding is the pixel margin kept around a fitted drawing.
const FitPadding = 24.0

// ViewTransform maps drawing coordinates to screen pixels: a uniform
// scale, a pixel offset, and the Y-axis flip between the drawing's
// Y-up convention and the screen's Y-down convention. It is pure
// interaction state, replaced by Fit and mutated by Pan/ZoomAt.
type ViewTransform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// NewViewTransform returns the identity view (scale 1, no offset).
func NewViewTransform() ViewTransform {
	return ViewTransform{Scale: 1}
}

// ToScreen maps a drawing point to pixels.
func (v ViewTransform) ToScreen(p Point2) (x, y float64) {
	return p.X*v.Scale + v.OffsetX, -p.Y*v.Scale + v.OffsetY
}

// ToDrawing maps a pixel position back to drawing coordinates, the
// inverse of ToScreen. Used for hit testing and cursor readouts.
func (v ViewTransform) ToDrawing(x, y float64) Point2 {
	return Point2{
		X: (x - v.OffsetX) / v.Scale,
		Y: -(y - v.OffsetY) / v.Scale,
	}
}

// Fit derives the transform that centers bounds in a w×h pixel canvas
// with FitPadding on every side.
func Fit(bounds Rect, w, h float64) ViewTransform {
	bw, bh := bounds.Width(), bounds.Height()
	if bw <= 0 {
		bw = 1
	}
	if bh <= 0 {
		bh = 1
	}
	scale := (w - 2*FitPadding) / bw
	if s := (h - 2*FitPadding) / bh; s < scale {
		scale = s
	}
	if scale <= 0 {
		scale = 1
	}
	cx := (bounds.MinX + bounds.MaxX) / 2
	cy := (bounds.MinY + bounds.MaxY) / 2
	return ViewTransform{
		Scale:   scale,
		OffsetX: w/2 - cx*scale,
		OffsetY: h/2 + cy*scale, // + because of the Y flip
	}
}

// Pan shifts the view by a 1:1 pixel drag delta.
func (v *ViewTransform) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// ZoomAt scales the view by factor, keeping the drawing point under
// the pointer pixel (px,py) fixed on screen: the offset moves by
// pointer − (pointer − offset) × factor.
func (v *ViewTransform) ZoomAt(px, py, factor float64) {
	v.Scale *= factor
	v.OffsetX = px - (px-v.OffsetX)*factor
	v.OffsetY = py - (py-v.OffsetY)*factor
}
