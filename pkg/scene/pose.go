package scene

import "github.com/chazu/partview/pkg/geom"

// Pose is the single composed transform that normalizes a model for
// framing: uniform scale to the canonical size, horizontal center at
// the origin, vertical minimum on the ground plane. It is applied at
// the scene-group level; fragment vertex buffers are never rewritten.
type Pose struct {
	// Scale maps the largest native extent to CanonicalSize.
	Scale float64
	// Offset is applied after scaling.
	Offset geom.Vec3
}

// NormalizePose derives the normalization transform for a model with
// the given fragment-space bounds. An empty or degenerate model gets
// the identity pose.
func NormalizePose(bounds geom.AABB) Pose {
	if bounds.IsEmpty() {
		return Pose{Scale: 1}
	}
	scale := 1.0
	if m := bounds.MaxExtent(); m > 1e-12 {
		scale = CanonicalSize / m
	}
	center := bounds.Center()
	return Pose{
		Scale: scale,
		Offset: geom.Vec3{
			X: -center.X * scale,
			Y: -bounds.Min.Y * scale, // bottom rests on y = 0
			Z: -center.Z * scale,
		},
	}
}

// Apply transforms a fragment-space point into normalized scene space.
func (p Pose) Apply(v geom.Vec3) geom.Vec3 {
	return v.Scale(p.Scale).Add(p.Offset)
}
