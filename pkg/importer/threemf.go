package importer

import (
	"bytes"

	"github.com/hpinc/go3mf"

	"github.com/chazu/partview/pkg/mesh"
)

// Parse3MF parses a 3MF package into one fragment per referenced leaf
// mesh. Build-item and component transforms are flattened into
// world-space vertex positions here, so downstream stages never need
// hierarchy awareness. Authored object names and base-material colors
// are read through for the color-assignment stage.
func Parse3MF(data []byte) ([]*mesh.Fragment, error) {
	var model go3mf.Model
	dec := go3mf.NewDecoder(bytes.NewReader(data), int64(len(data)))
	if err := dec.Decode(&model); err != nil {
		return nil, &FormatError{Format: "3mf", Message: "decode failed", Err: err}
	}

	var fragments []*mesh.Fragment
	if len(model.Build.Items) > 0 {
		for _, item := range model.Build.Items {
			path := item.ObjectPath()
			obj, ok := model.FindObject(path, item.ObjectID)
			if !ok {
				continue
			}
			fragments = flattenObject(&model, obj, path, item.Transform, fragments)
		}
	} else {
		// No build section: import every mesh object as authored.
		for _, obj := range model.Resources.Objects {
			fragments = flattenObject(&model, obj, "", go3mf.Identity(), fragments)
		}
	}

	if len(fragments) == 0 {
		return nil, &FormatError{Format: "3mf", Message: "package contains no mesh objects"}
	}
	return fragments, nil
}

// flattenObject appends one fragment per leaf mesh reachable from obj,
// accumulating component transforms along the way. path is the part
// path obj was resolved from; components without an explicit path
// reference objects in the same part.
func flattenObject(model *go3mf.Model, obj *go3mf.Object, path string, m go3mf.Matrix, out []*mesh.Fragment) []*mesh.Fragment {
	if obj.Mesh != nil {
		out = append(out, meshToFragment(model, obj, m))
	}
	if obj.Components != nil {
		for _, comp := range obj.Components.Component {
			childPath := comp.ObjectPath(path)
			child, ok := model.FindObject(childPath, comp.ObjectID)
			if !ok {
				continue
			}
			out = flattenObject(model, child, childPath, m.Mul(comp.Transform), out)
		}
	}
	return out
}

func meshToFragment(model *go3mf.Model, obj *go3mf.Object, m go3mf.Matrix) *mesh.Fragment {
	src := obj.Mesh
	f := &mesh.Fragment{
		Name:     obj.Name,
		Vertices: make([]float32, 0, len(src.Vertices.Vertex)*3),
		Indices:  make([]uint32, 0, len(src.Triangles.Triangle)*3),
	}
	for _, v := range src.Vertices.Vertex {
		x, y, z := transformPoint(m, v)
		f.Vertices = append(f.Vertices, x, y, z)
	}
	for _, t := range src.Triangles.Triangle {
		f.Indices = append(f.Indices, t.V1, t.V2, t.V3)
	}
	if c, ok := baseMaterialColor(model, obj.PID); ok {
		f.Color = c
	}
	return f
}

// transformPoint applies a 3MF transform. 3MF uses the row-vector
// convention: p' = [x y z 1] · M, with the translation in the fourth
// row.
func transformPoint(m go3mf.Matrix, p go3mf.Point3D) (x, y, z float32) {
	x = p[0]*m[0] + p[1]*m[4] + p[2]*m[8] + m[12]
	y = p[0]*m[1] + p[1]*m[5] + p[2]*m[9] + m[13]
	z = p[0]*m[2] + p[1]*m[6] + p[2]*m[10] + m[14]
	return x, y, z
}

// baseMaterialColor resolves an object's property group reference to an
// authored color, when the group is a base-materials asset.
func baseMaterialColor(model *go3mf.Model, pid uint32) (*mesh.RGB, bool) {
	if pid == 0 {
		return nil, false
	}
	for _, asset := range model.Resources.Assets {
		bm, ok := asset.(*go3mf.BaseMaterials)
		if !ok || bm.ID != pid || len(bm.Materials) == 0 {
			continue
		}
		c := bm.Materials[0].Color
		return &mesh.RGB{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}, true
	}
	return nil, false
}
