// Package scene composes imported fragments into the description the
// viewer renders. A Scene is immutable once built: a new file load
// builds a fresh Scene and the viewer swaps it in whole, which keeps
// resource cleanup and stale-load reasoning trivial. Interaction state
// (camera, sectioning) lives outside the Scene.
package scene

import (
	"github.com/chazu/partview/pkg/geom"
	"github.com/chazu/partview/pkg/mesh"
	"github.com/chazu/partview/pkg/obb"
)

// CanonicalSize is the reference length the largest model extent is
// scaled to, chosen so a part fills the viewport regardless of whether
// the file was authored in millimetres or metres.
const CanonicalSize = 10.0

// Scene is one loaded model, normalized and colored, ready to render.
type Scene struct {
	Fragments  []*mesh.Fragment
	Bounds     geom.AABB // fragment-space bounds, before normalization
	Pose       Pose
	Colors     []mesh.RGB // display color per fragment, parallel to Fragments
	Dimensions obb.Extents
}

// Build composes fragments into a renderable scene. Dimensions are
// measured separately (see obb.Measure) so the caller can overlap that
// work with composition; SetDimensions attaches the result.
func Build(fragments []*mesh.Fragment, palette []mesh.RGB) *Scene {
	s := &Scene{
		Fragments: fragments,
		Bounds:    mesh.BoundsOf(fragments),
		Colors:    make([]mesh.RGB, len(fragments)),
	}
	s.Pose = NormalizePose(s.Bounds)
	for i, f := range fragments {
		s.Colors[i] = DisplayColor(f, palette)
	}
	return s
}

// SetDimensions attaches measured oriented dimensions to the scene.
func (s *Scene) SetDimensions(d obb.Extents) {
	s.Dimensions = d
}

// FragmentCount returns the number of drawable fragments.
func (s *Scene) FragmentCount() int {
	return len(s.Fragments)
}
