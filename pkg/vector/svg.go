package vector

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo/float"
)

// WriteSVG exports the entity set as an SVG document sized w×h,
// rendered through the same view transform as the raster path so the
// export matches what the operator sees on screen.
func WriteSVG(w io.Writer, entities []Entity, view ViewTransform, width, height float64, style Style) {
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height,
		fmt.Sprintf("fill:%s", rgbaHex(style.Background.R, style.Background.G, style.Background.B)))

	for _, e := range entities {
		c := entityColor(e, style)
		stroke := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f",
			rgbaHex(c.R, c.G, c.B), style.LineWidth)

		switch e := e.(type) {
		case Line:
			x0, y0 := view.ToScreen(e.P0)
			x1, y1 := view.ToScreen(e.P1)
			canvas.Line(x0, y0, x1, y1, stroke)
		case Circle:
			cx, cy := view.ToScreen(e.Center)
			canvas.Circle(cx, cy, e.Radius*view.Scale, stroke)
		case Point:
			cx, cy := view.ToScreen(e.Position)
			canvas.Circle(cx, cy, 2, strings.Replace(stroke, "fill:none", "fill:"+rgbaHex(c.R, c.G, c.B), 1))
		default:
			// Curved and multi-vertex kinds share the raster path's
			// sampling so the two outputs agree.
			writePolyline(canvas, sampledPoints(e), view, stroke)
		}
	}
	canvas.End()
}

func sampledPoints(e Entity) []Point2 {
	switch e := e.(type) {
	case Arc:
		end := e.EndAngle
		if end <= e.StartAngle {
			end += 360
		}
		return sampleArc(e.Center, e.Radius, e.StartAngle, end)
	case Polyline:
		if e.Closed && len(e.Vertices) > 1 {
			return append(append([]Point2{}, e.Vertices...), e.Vertices[0])
		}
		return e.Vertices
	case Ellipse:
		return sampleEllipse(e)
	case Spline:
		return e.Controls
	default:
		return nil
	}
}

func writePolyline(canvas *svg.SVG, pts []Point2, view ViewTransform, style string) {
	if len(pts) < 2 {
		return
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = view.ToScreen(p)
	}
	canvas.Polyline(xs, ys, style)
}

func rgbaHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
