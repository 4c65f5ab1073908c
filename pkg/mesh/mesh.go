// Package mesh defines the drawable fragment type produced by the
// importers and consumed by the scene and viewer. All arrays are flat:
// vertices and normals carry 3 floats per vertex, indices 3 uint32s per
// triangle. A fragment set is always replaced wholesale when a new file
// is loaded, never patched incrementally.
package mesh

import (
	"github.com/chewxy/math32"

	"github.com/chazu/partview/pkg/geom"
)

// RGB is an authored fragment color with components in [0,1].
type RGB struct {
	R, G, B float64
}

// Fragment is one drawable unit of an imported model.
type Fragment struct {
	Name     string    `json:"name"`
	Index    int       `json:"index"`
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Color    *RGB      `json:"color,omitempty"`
}

// VertexCount returns the number of vertices.
func (f *Fragment) VertexCount() int {
	return len(f.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (f *Fragment) TriangleCount() int {
	if len(f.Indices) > 0 {
		return len(f.Indices) / 3
	}
	return f.VertexCount() / 3
}

// IsEmpty returns true if the fragment has no geometry.
func (f *Fragment) IsEmpty() bool {
	return len(f.Vertices) == 0
}

// Vertex returns vertex i widened to float64.
func (f *Fragment) Vertex(i int) geom.Vec3 {
	return geom.Vec3{
		X: float64(f.Vertices[3*i]),
		Y: float64(f.Vertices[3*i+1]),
		Z: float64(f.Vertices[3*i+2]),
	}
}

// Bounds returns the axis-aligned bounding box of the fragment.
func (f *Fragment) Bounds() geom.AABB {
	b := geom.NewAABB()
	for i := 0; i < f.VertexCount(); i++ {
		b.Extend(f.Vertex(i))
	}
	return b
}

// HasNormals reports whether the fragment carries a usable normal array.
// A normal array of the wrong length, or one that is entirely zero, is
// treated as absent; some exporters write zero-filled normals.
func (f *Fragment) HasNormals() bool {
	if len(f.Normals) != len(f.Vertices) || len(f.Normals) == 0 {
		return false
	}
	for _, n := range f.Normals {
		if n != 0 {
			return true
		}
	}
	return false
}

// ComputeNormals derives per-vertex normals from triangle connectivity
// and stores them on the fragment, replacing whatever was there. Shared
// vertices accumulate area-weighted face normals, which smooths shading
// across welded surfaces.
func (f *Fragment) ComputeNormals() {
	n := make([]float32, len(f.Vertices))
	each := func(i0, i1, i2 uint32) {
		ax, ay, az := f.Vertices[3*i0], f.Vertices[3*i0+1], f.Vertices[3*i0+2]
		e1x, e1y, e1z := f.Vertices[3*i1]-ax, f.Vertices[3*i1+1]-ay, f.Vertices[3*i1+2]-az
		e2x, e2y, e2z := f.Vertices[3*i2]-ax, f.Vertices[3*i2+1]-ay, f.Vertices[3*i2+2]-az
		// Cross product magnitude carries triangle area, which acts as
		// the accumulation weight.
		fx := e1y*e2z - e1z*e2y
		fy := e1z*e2x - e1x*e2z
		fz := e1x*e2y - e1y*e2x
		for _, i := range [3]uint32{i0, i1, i2} {
			n[3*i] += fx
			n[3*i+1] += fy
			n[3*i+2] += fz
		}
	}
	if len(f.Indices) > 0 {
		for t := 0; t+2 < len(f.Indices); t += 3 {
			each(f.Indices[t], f.Indices[t+1], f.Indices[t+2])
		}
	} else {
		for v := uint32(0); v+2 < uint32(f.VertexCount()); v += 3 {
			each(v, v+1, v+2)
		}
	}
	for i := 0; i+2 < len(n); i += 3 {
		l := math32.Sqrt(n[i]*n[i] + n[i+1]*n[i+1] + n[i+2]*n[i+2])
		if l > 1e-12 {
			n[i] /= l
			n[i+1] /= l
			n[i+2] /= l
		}
	}
	f.Normals = n
}

// BoundsOf returns the union of the bounding boxes of all fragments.
func BoundsOf(fragments []*Fragment) geom.AABB {
	b := geom.NewAABB()
	for _, f := range fragments {
		b.Union(f.Bounds())
	}
	return b
}

// TotalVertexCount returns the vertex count summed over all fragments.
func TotalVertexCount(fragments []*Fragment) int {
	total := 0
	for _, f := range fragments {
		total += f.VertexCount()
	}
	return total
}
