package scene_test

import (
	"testing"

	"github.com/chazu/partview/pkg/mesh"
	"github.com/chazu/partview/pkg/obb"
	"github.com/chazu/partview/pkg/scene"
)

func TestBuild(t *testing.T) {
	fragments := []*mesh.Fragment{
		{Name: "base", Index: 0, Vertices: []float32{0, 0, 0, 4, 0, 0, 4, 2, 0}},
		{Name: "lid", Index: 1, Vertices: []float32{0, 2, 0, 4, 2, 0, 4, 3, 0}},
	}
	s := scene.Build(fragments, nil)

	if s.FragmentCount() != 2 {
		t.Fatalf("FragmentCount = %d, want 2", s.FragmentCount())
	}
	if len(s.Colors) != 2 {
		t.Fatalf("Colors length = %d, want 2", len(s.Colors))
	}
	if s.Colors[0] != scene.DisplayColor(fragments[0], nil) {
		t.Error("fragment 0 color does not match deterministic assignment")
	}
	if s.Bounds.IsEmpty() {
		t.Fatal("bounds empty")
	}
	// Pose is derived from the composed bounds, not per fragment.
	if s.Pose.Scale*s.Bounds.MaxExtent() != scene.CanonicalSize {
		t.Errorf("pose scale %v does not normalize max extent %v",
			s.Pose.Scale, s.Bounds.MaxExtent())
	}
}

func TestBuildEmpty(t *testing.T) {
	s := scene.Build(nil, nil)
	if s.FragmentCount() != 0 {
		t.Errorf("FragmentCount = %d", s.FragmentCount())
	}
	if s.Pose.Scale != 1 {
		t.Errorf("empty scene pose scale = %v, want identity", s.Pose.Scale)
	}
}

func TestSetDimensions(t *testing.T) {
	s := scene.Build(nil, nil)
	d := obb.Extents{X: 12.5, Y: 4, Z: 2}
	s.SetDimensions(d)
	if s.Dimensions != d {
		t.Errorf("Dimensions = %+v, want %+v", s.Dimensions, d)
	}
}
