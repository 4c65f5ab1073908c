// Package partgen generates sample mechanical parts through a solid
// modeling kernel. The example program uses it to produce files the
// viewer can open, and the tests use it as a source of realistic part
// geometry instead of hand-typed vertex tables.
package partgen

import (
	"fmt"

	"github.com/chazu/partview/pkg/importer"
	"github.com/chazu/partview/pkg/kernel"
	"github.com/chazu/partview/pkg/mesh"
)

// Placement positions one named solid in the part's coordinate frame.
type Placement struct {
	Name   string
	Solid  kernel.Solid
	At     [3]float64
	Rotate [3]float64 // Euler angles in degrees
}

// Generate tessellates each placement into a named fragment. The
// generator is read-only with respect to the placements.
func Generate(k kernel.Kernel, placements []Placement) ([]*mesh.Fragment, error) {
	fragments := make([]*mesh.Fragment, 0, len(placements))
	for i, p := range placements {
		s := p.Solid
		if p.Rotate != [3]float64{} {
			s = k.Rotate(s, p.Rotate[0], p.Rotate[1], p.Rotate[2])
		}
		if p.At != [3]float64{} {
			s = k.Translate(s, p.At[0], p.At[1], p.At[2])
		}
		f, err := k.ToMesh(s)
		if err != nil {
			return nil, fmt.Errorf("partgen: tessellate %q: %w", p.Name, err)
		}
		f.Name = p.Name
		f.Index = i
		fragments = append(fragments, f)
	}
	return fragments, nil
}

// MountingBracket builds an L-bracket with two bolt holes, a small
// part with clearly unequal principal dimensions. Dimensions in mm.
func MountingBracket(k kernel.Kernel) []Placement {
	base := k.Box(80, 8, 50)
	hole := k.Cylinder(20, 4, 32)
	base = k.Difference(base, k.Translate(hole, 20, 4, 25))
	base = k.Difference(base, k.Translate(hole, 60, 4, 25))

	wall := k.Box(80, 50, 8)

	return []Placement{
		{Name: "base", Solid: base},
		{Name: "wall", Solid: wall, At: [3]float64{0, 8, 0}},
	}
}

// DrilledPlate builds a single flat plate with a centered bore.
func DrilledPlate(k kernel.Kernel) []Placement {
	plate := k.Box(120, 10, 60)
	bore := k.Cylinder(30, 12, 48)
	return []Placement{
		{Name: "plate", Solid: k.Difference(plate, k.Translate(bore, 60, 5, 30))},
	}
}

// STLBytes generates the placements and encodes them as one binary STL
// body, the common interchange fixture for importer tests.
func STLBytes(k kernel.Kernel, placements []Placement) ([]byte, error) {
	fragments, err := Generate(k, placements)
	if err != nil {
		return nil, err
	}
	return importer.EncodeSTL(merge(fragments)), nil
}

// merge concatenates fragments into one, rebasing indices.
func merge(fragments []*mesh.Fragment) *mesh.Fragment {
	out := &mesh.Fragment{Name: "merged"}
	for _, f := range fragments {
		base := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, f.Vertices...)
		if len(f.Indices) > 0 {
			for _, idx := range f.Indices {
				out.Indices = append(out.Indices, base+idx)
			}
		} else {
			for i := uint32(0); i < uint32(f.VertexCount()); i++ {
				out.Indices = append(out.Indices, base+i)
			}
		}
	}
	return out
}
