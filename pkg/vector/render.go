package vector

import (
	"image"
	"image/color"
	"math"

	"github.com/llgcode/draw2d/draw2dimg"
)

// arcSegments controls the polyline approximation of curved entities.
// 64 segments per full turn is visually smooth at review zoom levels.
const arcSegments = 64

// Style controls drawing appearance.
type Style struct {
	Background color.RGBA
	Stroke     color.RGBA
	LineWidth  float64
	// UseEntityColors draws entities in their AutoCAD index color
	// when one is set; otherwise everything uses Stroke.
	UseEntityColors bool
}

// DefaultStyle is a dark review-tool theme.
func DefaultStyle() Style {
	return Style{
		Background:      color.RGBA{0x1E, 0x22, 0x28, 0xFF},
		Stroke:          color.RGBA{0xD8, 0xDE, 0xE9, 0xFF},
		LineWidth:       1.25,
		UseEntityColors: true,
	}
}

// acadPalette maps the low AutoCAD color indices to display colors.
var acadPalette = map[int]color.RGBA{
	1: {0xE7, 0x4C, 0x3C, 0xFF}, // red
	2: {0xF1, 0xC4, 0x0F, 0xFF}, // yellow
	3: {0x2E, 0xCC, 0x71, 0xFF}, // green
	4: {0x1A, 0xBC, 0x9C, 0xFF}, // cyan
	5: {0x34, 0x98, 0xDB, 0xFF}, // blue
	6: {0x9B, 0x59, 0xB6, 0xFF}, // magenta
	7: {0xEC, 0xF0, 0xF1, 0xFF}, // white
}

// Render draws the entity set through the view transform into a w×h
// raster image.
func Render(entities []Entity, view ViewTransform, w, h int, style Style) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	gc := draw2dimg.NewGraphicContext(img)

	gc.SetFillColor(style.Background)
	gc.BeginPath()
	gc.MoveTo(0, 0)
	gc.LineTo(float64(w), 0)
	gc.LineTo(float64(w), float64(h))
	gc.LineTo(0, float64(h))
	gc.Close()
	gc.Fill()

	gc.SetLineWidth(style.LineWidth)
	for _, e := range entities {
		gc.SetStrokeColor(entityColor(e, style))
		strokeEntity(gc, e, view)
	}
	return img
}

func entityColor(e Entity, style Style) color.RGBA {
	if style.UseEntityColors {
		if c, ok := acadPalette[e.attrs().ColorIndex]; ok {
			return c
		}
	}
	return style.Stroke
}

func strokeEntity(gc *draw2dimg.GraphicContext, e Entity, view ViewTransform) {
	switch e := e.(type) {
	case Line:
		strokePath(gc, []Point2{e.P0, e.P1}, false, view)
	case Circle:
		strokePath(gc, sampleArc(e.Center, e.Radius, 0, 360), true, view)
	case Arc:
		end := e.EndAngle
		// DXF arcs run counter-clockwise; an end angle numerically
		// below the start wraps through 360.
		if end <= e.StartAngle {
			end += 360
		}
		strokePath(gc, sampleArc(e.Center, e.Radius, e.StartAngle, end), false, view)
	case Polyline:
		strokePath(gc, e.Vertices, e.Closed, view)
	case Ellipse:
		strokePath(gc, sampleEllipse(e), false, view)
	case Spline:
		strokePath(gc, e.Controls, false, view)
	case Point:
		// Draw a small fixed-size cross so points stay visible at any
		// zoom.
		x, y := view.ToScreen(e.Position)
		const r = 3
		gc.BeginPath()
		gc.MoveTo(x-r, y)
		gc.LineTo(x+r, y)
		gc.MoveTo(x, y-r)
		gc.LineTo(x, y+r)
		gc.Stroke()
	}
}

func strokePath(gc *draw2dimg.GraphicContext, pts []Point2, closed bool, view ViewTransform) {
	if len(pts) < 2 {
		return
	}
	gc.BeginPath()
	x, y := view.ToScreen(pts[0])
	gc.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = view.ToScreen(p)
		gc.LineTo(x, y)
	}
	if closed {
		gc.Close()
	}
	gc.Stroke()
}

// sampleArc approximates a circular arc as drawing-space points.
// Angles are degrees counter-clockwise from +X.
func sampleArc(center Point2, radius, startDeg, endDeg float64) []Point2 {
	sweep := endDeg - startDeg
	n := int(math.Ceil(math.Abs(sweep) / 360 * arcSegments))
	if n < 2 {
		n = 2
	}
	pts := make([]Point2, 0, n+1)
	for i := 0; i <= n; i++ {
		a := (startDeg + sweep*float64(i)/float64(n)) * math.Pi / 180
		pts = append(pts, Point2{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		})
	}
	return pts
}

// sampleEllipse approximates an ellipse span as drawing-space points.
func sampleEllipse(e Ellipse) []Point2 {
	major := math.Hypot(e.Major.X, e.Major.Y)
	minor := major * e.Ratio
	rot := math.Atan2(e.Major.Y, e.Major.X)
	cosR, sinR := math.Cos(rot), math.Sin(rot)

	sweep := e.End - e.Start
	if sweep <= 0 {
		sweep += 2 * math.Pi
	}
	n := int(math.Ceil(sweep / (2 * math.Pi) * arcSegments))
	if n < 2 {
		n = 2
	}
	pts := make([]Point2, 0, n+1)
	for i := 0; i <= n; i++ {
		t := e.Start + sweep*float64(i)/float64(n)
		px := major * math.Cos(t)
		py := minor * math.Sin(t)
		pts = append(pts, Point2{
			X: e.Center.X + px*cosR - py*sinR,
			Y: e.Center.Y + px*sinR + py*cosR,
		})
	}
	return pts
}
