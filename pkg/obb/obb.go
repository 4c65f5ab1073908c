// Package obb estimates oriented bounding boxes for displayed part
// dimensions. Exact OBB computation is NP-hard; principal component
// analysis via power iteration is accurate for typical mechanical-part
// geometry, runs in O(n) over the vertices, and needs no external
// linear-algebra dependency. The result is rotation-invariant: rotating
// the input rigidly before measurement yields the same sorted extents
// up to floating-point tolerance.
package obb

import (
	"math"
	"sort"

	"github.com/chazu/partview/pkg/geom"
	"github.com/chazu/partview/pkg/mesh"
)

// powerIterations is the fixed iteration count for eigenvector
// extraction. Covariance matrices of part geometry converge well within
// this budget.
const powerIterations = 30

// Extents are the three oriented box dimensions, sorted descending so
// display is stable regardless of input orientation.
type Extents struct {
	X, Y, Z float64
}

// Rounded returns the extents rounded to two decimals, the precision
// reported to the operator.
func (e Extents) Rounded() Extents {
	round := func(v float64) float64 { return math.Round(v*100) / 100 }
	return Extents{X: round(e.X), Y: round(e.Y), Z: round(e.Z)}
}

// symMat3 is a symmetric 3×3 matrix stored as its six unique entries.
type symMat3 struct {
	xx, xy, xz, yy, yz, zz float64
}

func (m symMat3) mulVec(v geom.Vec3) geom.Vec3 {
	return geom.Vec3{
		X: m.xx*v.X + m.xy*v.Y + m.xz*v.Z,
		Y: m.xy*v.X + m.yy*v.Y + m.yz*v.Z,
		Z: m.xz*v.X + m.yz*v.Y + m.zz*v.Z,
	}
}

// Measure estimates the oriented extents of a fragment set. Fewer than
// 3 vertices degrades to the axis-aligned extent; an OBB is undefined
// below a triangle.
func Measure(fragments []*mesh.Fragment) Extents {
	n := mesh.TotalVertexCount(fragments)
	if n < 3 {
		return aabbFallback(fragments)
	}

	centroid := geom.Vec3{}
	forEachVertex(fragments, func(p geom.Vec3) {
		centroid = centroid.Add(p)
	})
	centroid = centroid.Scale(1 / float64(n))

	var cov symMat3
	forEachVertex(fragments, func(p geom.Vec3) {
		d := p.Sub(centroid)
		cov.xx += d.X * d.X
		cov.xy += d.X * d.Y
		cov.xz += d.X * d.Z
		cov.yy += d.Y * d.Y
		cov.yz += d.Y * d.Z
		cov.zz += d.Z * d.Z
	})
	inv := 1 / float64(n)
	cov.xx *= inv
	cov.xy *= inv
	cov.xz *= inv
	cov.yy *= inv
	cov.yz *= inv
	cov.zz *= inv

	axis1 := powerIterate(cov, geom.Vec3{X: 1, Y: 0.3, Z: 0.7}, geom.Vec3{})
	axis2 := powerIterate(cov, geom.Vec3{X: 0.2, Y: 1, Z: 0.4}, axis1)
	// The third axis is fully determined by orthonormality, no third
	// iteration needed.
	axis3 := axis1.Cross(axis2).Normalized()

	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	axes := [3]geom.Vec3{axis1, axis2, axis3}
	forEachVertex(fragments, func(p geom.Vec3) {
		d := p.Sub(centroid)
		for i, a := range axes {
			proj := d.Dot(a)
			min[i] = math.Min(min[i], proj)
			max[i] = math.Max(max[i], proj)
		}
	})

	dims := []float64{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
	sort.Sort(sort.Reverse(sort.Float64Slice(dims)))
	return Extents{X: dims[0], Y: dims[1], Z: dims[2]}
}

// powerIterate extracts a dominant eigenvector of cov. A non-zero
// deflate vector is projected out at every step, which steers the
// iteration to the next-largest eigenvalue instead.
func powerIterate(cov symMat3, seed, deflate geom.Vec3) geom.Vec3 {
	v := seed.Normalized()
	for i := 0; i < powerIterations; i++ {
		if deflate.Length() > 0 {
			v = v.Sub(deflate.Scale(v.Dot(deflate)))
		}
		next := cov.mulVec(v)
		if next.Length() < 1e-12 {
			// Degenerate covariance (coplanar or collinear points):
			// keep the current direction.
			break
		}
		v = next.Normalized()
	}
	if deflate.Length() > 0 {
		v = v.Sub(deflate.Scale(v.Dot(deflate))).Normalized()
	}
	return v
}

// aabbFallback reports the axis-aligned extent, sorted descending for
// display parity with the oriented path.
func aabbFallback(fragments []*mesh.Fragment) Extents {
	b := mesh.BoundsOf(fragments)
	if b.IsEmpty() {
		return Extents{}
	}
	s := b.Size()
	dims := []float64{s.X, s.Y, s.Z}
	sort.Sort(sort.Reverse(sort.Float64Slice(dims)))
	return Extents{X: dims[0], Y: dims[1], Z: dims[2]}
}

func forEachVertex(fragments []*mesh.Fragment, fn func(geom.Vec3)) {
	for _, f := range fragments {
		for i := 0; i < f.VertexCount(); i++ {
			fn(f.Vertex(i))
		}
	}
}
