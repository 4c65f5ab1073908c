package geom_test

import (
	"math"
	"testing"

	"github.com/chazu/partview/pkg/geom"
)

func TestVecOps(t *testing.T) {
	a := geom.Vec3{X: 1, Y: 2, Z: 3}
	b := geom.Vec3{X: -4, Y: 0, Z: 2}

	if got := a.Add(b); got != (geom.Vec3{X: -3, Y: 2, Z: 5}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (geom.Vec3{X: 5, Y: 2, Z: 1}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (geom.Vec3{X: 2, Y: 4, Z: 6}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != 2 {
		t.Errorf("Dot = %v, want 2", got)
	}
}

func TestCrossOrthogonal(t *testing.T) {
	a := geom.Vec3{X: 1, Y: 0, Z: 0}
	b := geom.Vec3{X: 0, Y: 1, Z: 0}
	got := a.Cross(b)
	if got != (geom.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Errorf("Cross(x,y) = %v, want z", got)
	}
}

func TestNormalized(t *testing.T) {
	v := geom.Vec3{X: 3, Y: 4, Z: 0}.Normalized()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Normalized length = %v, want 1", v.Length())
	}
	// Zero vector must not produce NaN.
	z := geom.Vec3{}.Normalized()
	if math.IsNaN(z.X) || math.IsNaN(z.Y) || math.IsNaN(z.Z) {
		t.Errorf("Normalized zero vector = %v, want finite", z)
	}
}

func TestAABBExtend(t *testing.T) {
	b := geom.NewAABB()
	if !b.IsEmpty() {
		t.Fatal("new AABB should be empty")
	}
	b.Extend(geom.Vec3{X: 1, Y: 2, Z: 3})
	b.Extend(geom.Vec3{X: -1, Y: 0, Z: 5})
	if b.IsEmpty() {
		t.Fatal("extended AABB should not be empty")
	}
	if b.Min != (geom.Vec3{X: -1, Y: 0, Z: 3}) {
		t.Errorf("Min = %v", b.Min)
	}
	if b.Max != (geom.Vec3{X: 1, Y: 2, Z: 5}) {
		t.Errorf("Max = %v", b.Max)
	}
	if got := b.Center(); got != (geom.Vec3{X: 0, Y: 1, Z: 4}) {
		t.Errorf("Center = %v", got)
	}
	if got := b.Size(); got != (geom.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("Size = %v", got)
	}
	if got := b.MaxExtent(); got != 2 {
		t.Errorf("MaxExtent = %v, want 2", got)
	}
}

func TestAABBUnion(t *testing.T) {
	a := geom.NewAABB()
	a.Extend(geom.Vec3{X: 0, Y: 0, Z: 0})
	a.Extend(geom.Vec3{X: 1, Y: 1, Z: 1})

	var empty geom.AABB = geom.NewAABB()
	a.Union(empty)
	if a.Max != (geom.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("union with empty changed bounds: %v", a.Max)
	}

	b := geom.NewAABB()
	b.Extend(geom.Vec3{X: 5, Y: -2, Z: 0})
	a.Union(b)
	if a.Max.X != 5 || a.Min.Y != -2 {
		t.Errorf("union bounds = %v %v", a.Min, a.Max)
	}
}
