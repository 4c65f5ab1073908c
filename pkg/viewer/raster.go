package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/llgcode/draw2d/draw2dimg"

	"github.com/chazu/partview/pkg/geom"
	"github.com/chazu/partview/pkg/mesh"
	"github.com/chazu/partview/pkg/scene"
)

// fovY is the vertical field of view of the snapshot projection.
const fovY = 40 * math.Pi / 180

// lightDir is the fixed key light, normalized at init.
var lightDir = geom.Vec3{X: 0.4, Y: 0.8, Z: 0.45}.Normalized()

// renderSnapshot draws the scene flat-shaded into a w×h image with a
// z-buffer. This software path exists for thumbnails and tests; the
// interactive frontend renders with the GPU, but both consume the same
// scene description.
func renderSnapshot(s *scene.Scene, section *scene.SectionState, cam CameraPose, prefs scene.Prefs, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := prefColor(prefs.BackgroundColor, mesh.RGB{R: 0.12, G: 0.13, B: 0.16})
	fill(img, toRGBA(bg, 1))

	if prefs.ShowGrid {
		drawGrid(img, cam, w, h)
	}
	if s == nil || len(s.Fragments) == 0 {
		return img
	}

	// View basis (right-handed look-at).
	forward := cam.Target.Sub(cam.Position).Normalized()
	right := forward.Cross(geom.Vec3{Y: 1}).Normalized()
	up := right.Cross(forward)
	focal := float64(h) / (2 * math.Tan(fovY/2))

	zbuf := make([]float64, w*h)
	for i := range zbuf {
		zbuf[i] = math.Inf(1)
	}

	extent := s.Bounds.Size().Scale(s.Pose.Scale)
	offsets := section.PlaneOffsets(extent)
	clipping := section.Enabled()
	doubleSided := section.DoubleSided()
	modelColor := prefColor(prefs.ModelColor, mesh.RGB{R: 0.55, G: 0.6, B: 0.66})

	exposure := prefs.Exposure
	if exposure <= 0 {
		exposure = 1
	}

	project := func(p geom.Vec3) (x, y, depth float64, ok bool) {
		v := p.Sub(cam.Position)
		cx := v.Dot(right)
		cy := v.Dot(up)
		cz := v.Dot(forward)
		if cz < 1e-6 {
			return 0, 0, 0, false
		}
		return float64(w)/2 + cx*focal/cz, float64(h)/2 - cy*focal/cz, cz, true
	}

	var wire [][2][2]float64
	for fi, f := range s.Fragments {
		base := s.Colors[fi]
		if prefs.ModelColor != "" && f.Color == nil && len(s.Fragments) == 1 {
			// Single-fragment models honor the operator's model color;
			// multi-part models keep per-part colors for telling parts
			// apart.
			base = modelColor
		}
		for t := 0; t < f.TriangleCount(); t++ {
			a := s.Pose.Apply(f.Vertex(triIndex(f, t, 0)))
			b := s.Pose.Apply(f.Vertex(triIndex(f, t, 1)))
			c := s.Pose.Apply(f.Vertex(triIndex(f, t, 2)))

			if clipping && triangleClipped(a, b, c, extent, offsets) {
				continue
			}

			ax, ay, az, okA := project(a)
			bx, by, bz, okB := project(b)
			cx, cy, cz, okC := project(c)
			if !okA || !okB || !okC {
				continue
			}

			n := b.Sub(a).Cross(c.Sub(a))
			if n.Length() < 1e-12 {
				continue
			}
			n = n.Normalized()
			// Back-face culling only while single-sided; sectioned
			// views render both faces so cut interiors stay visible.
			facing := n.Dot(cam.Position.Sub(a))
			if !doubleSided && facing < 0 {
				continue
			}

			shade := shadeFlat(n, prefs)
			col := toRGBA(mesh.RGB{R: base.R * shade, G: base.G * shade, B: base.B * shade}, exposure)
			fillTriangle(img, zbuf, w, h, ax, ay, az, bx, by, bz, cx, cy, cz, col)

			if prefs.Wireframe {
				wire = append(wire,
					[2][2]float64{{ax, ay}, {bx, by}},
					[2][2]float64{{bx, by}, {cx, cy}},
					[2][2]float64{{cx, cy}, {ax, ay}})
			}
		}
	}

	if len(wire) > 0 {
		gc := draw2dimg.NewGraphicContext(img)
		gc.SetStrokeColor(color.RGBA{0x10, 0x12, 0x14, 0xFF})
		gc.SetLineWidth(1)
		for _, seg := range wire {
			gc.BeginPath()
			gc.MoveTo(seg[0][0], seg[0][1])
			gc.LineTo(seg[1][0], seg[1][1])
			gc.Stroke()
		}
	}
	return img
}

func triIndex(f *mesh.Fragment, tri, corner int) int {
	if len(f.Indices) > 0 {
		return int(f.Indices[3*tri+corner])
	}
	return 3*tri + corner
}

// triangleClipped discards triangles wholly beyond an active clipping
// plane. Triangle-level clipping is coarse but sufficient for
// snapshots; the interactive renderer clips per-pixel on the GPU. The
// scene is centered at the origin horizontally and grounded at y=0, so
// plane positions are offsets from the extent centers.
func triangleClipped(a, b, c geom.Vec3, extent geom.Vec3, offsets [3]float64) bool {
	centroid := a.Add(b).Add(c).Scale(1.0 / 3.0)
	// Axis X and Z are centered on 0; Y spans [0, extent.Y].
	if centroid.X > offsets[0] {
		return true
	}
	if centroid.Y-extent.Y/2 > offsets[1] {
		return true
	}
	if centroid.Z > offsets[2] {
		return true
	}
	return false
}

// shadeFlat is a lambert term with a hemispheric fill; metalness and
// roughness nudge the specular lobe the same way the frontend material
// does, coarsely.
func shadeFlat(n geom.Vec3, prefs scene.Prefs) float64 {
	diffuse := math.Abs(n.Dot(lightDir))
	hemi := (n.Y + 1) / 2 * 0.25
	specPow := 8 + (1-prefs.Roughness)*56
	spec := math.Pow(math.Max(0, n.Dot(lightDir)), specPow) * (0.1 + prefs.Metalness*0.5)
	s := 0.25 + 0.6*diffuse + hemi + spec
	if s > 1.35 {
		s = 1.35
	}
	return s
}

// fillTriangle rasterizes one triangle with edge functions and a
// z-buffer. Depth is interpolated in screen space, which is adequate
// for opaque flat-shaded snapshots.
func fillTriangle(img *image.RGBA, zbuf []float64, w, h int,
	x0, y0, z0, x1, y1, z1, x2, y2, z2 float64, col color.RGBA) {

	minX := int(math.Max(0, math.Floor(math.Min(x0, math.Min(x1, x2)))))
	maxX := int(math.Min(float64(w-1), math.Ceil(math.Max(x0, math.Max(x1, x2)))))
	minY := int(math.Max(0, math.Floor(math.Min(y0, math.Min(y1, y2)))))
	maxY := int(math.Min(float64(h-1), math.Ceil(math.Max(y0, math.Max(y1, y2)))))
	if minX > maxX || minY > maxY {
		return
	}

	area := (x1-x0)*(y2-y0) - (y1-y0)*(x2-x0)
	if math.Abs(area) < 1e-9 {
		return
	}
	inv := 1 / area

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := ((x1-px)*(y2-py) - (y1-py)*(x2-px)) * inv
			w1 := ((x2-px)*(y0-py) - (y2-py)*(x0-px)) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*z0 + w1*z1 + w2*z2
			idx := y*w + x
			if z >= zbuf[idx] {
				continue
			}
			zbuf[idx] = z
			img.SetRGBA(x, y, col)
		}
	}
}

// drawGrid strokes the ground-plane reference grid.
func drawGrid(img *image.RGBA, cam CameraPose, w, h int) {
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetStrokeColor(color.RGBA{0x3A, 0x40, 0x48, 0xFF})
	gc.SetLineWidth(1)

	forward := cam.Target.Sub(cam.Position).Normalized()
	right := forward.Cross(geom.Vec3{Y: 1}).Normalized()
	up := right.Cross(forward)
	focal := float64(h) / (2 * math.Tan(fovY/2))

	project := func(p geom.Vec3) (float64, float64, bool) {
		v := p.Sub(cam.Position)
		cz := v.Dot(forward)
		if cz < 1e-6 {
			return 0, 0, false
		}
		return float64(w)/2 + v.Dot(right)*focal/cz, float64(h)/2 - v.Dot(up)*focal/cz, true
	}

	const half = 5
	const step = 10.0 / 8
	for i := -half; i <= half; i++ {
		d := float64(i) * step
		strokeSeg := func(a, b geom.Vec3) {
			ax, ay, okA := project(a)
			bx, by, okB := project(b)
			if okA && okB {
				gc.BeginPath()
				gc.MoveTo(ax, ay)
				gc.LineTo(bx, by)
				gc.Stroke()
			}
		}
		limit := float64(half) * step
		strokeSeg(geom.Vec3{X: d, Z: -limit}, geom.Vec3{X: d, Z: limit})
		strokeSeg(geom.Vec3{X: -limit, Z: d}, geom.Vec3{X: limit, Z: d})
	}
}

func prefColor(hex string, fallback mesh.RGB) mesh.RGB {
	if hex == "" {
		return fallback
	}
	c, err := scene.ParseHexColor(hex)
	if err != nil {
		return fallback
	}
	return c
}

func toRGBA(c mesh.RGB, exposure float64) color.RGBA {
	conv := func(v float64) uint8 {
		v *= exposure
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(math.Round(v * 255))
	}
	return color.RGBA{R: conv(c.R), G: conv(c.G), B: conv(c.B), A: 0xFF}
}

func fill(img *image.RGBA, col color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
