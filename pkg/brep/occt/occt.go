//go:build occt

// Package occt provides a cgo-based B-rep tessellation kernel backed by
// Open CASCADE Technology through the pvocct C shim. The shim library
// (libpvocct) must be built against an OCCT installation and available
// on the linker path.
//
// Build with: go build -tags=occt
package occt

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lpvocct

#include <stdlib.h>
#include <pvocct.h>
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/chazu/partview/pkg/brep"
	"github.com/chazu/partview/pkg/mesh"
)

// Compile-time interface check.
var _ brep.Kernel = (*Kernel)(nil)

// deflection controls the chordal tolerance of surface tessellation.
// Smaller values produce denser meshes.
const deflection = 0.1

// Kernel implements brep.Kernel using OCCT.
type Kernel struct{}

// New returns a new OCCT-backed kernel.
func New() (brep.Kernel, error) {
	return &Kernel{}, nil
}

// Tessellate parses STEP data and tessellates every solid it contains.
func (k *Kernel) Tessellate(ctx context.Context, data []byte) ([]*mesh.Fragment, error) {
	if len(data) == 0 {
		return nil, &brep.ParseError{Message: "empty input"}
	}

	cdata := C.CBytes(data)
	defer C.free(cdata)

	doc := C.pvocct_read_step((*C.char)(cdata), C.size_t(len(data)), C.double(deflection))
	if doc == nil {
		return nil, &brep.ParseError{Message: "step reader rejected input"}
	}
	defer C.pvocct_free_document(doc)

	nbodies := int(C.pvocct_body_count(doc))
	fragments := make([]*mesh.Fragment, 0, nbodies)

	for i := 0; i < nbodies; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		nverts := int(C.pvocct_body_vertex_count(doc, C.int(i)))
		ntris := int(C.pvocct_body_triangle_count(doc, C.int(i)))
		if nverts == 0 || ntris == 0 {
			continue
		}

		f := &mesh.Fragment{
			Index:    i,
			Vertices: make([]float32, nverts*3),
			Indices:  make([]uint32, ntris*3),
		}

		C.pvocct_body_vertices(doc, C.int(i), (*C.float)(unsafe.Pointer(&f.Vertices[0])))
		C.pvocct_body_triangles(doc, C.int(i), (*C.uint32_t)(unsafe.Pointer(&f.Indices[0])))

		name := C.pvocct_body_name(doc, C.int(i))
		if name != nil {
			f.Name = C.GoString(name)
		}
		if f.Name == "" {
			f.Name = fmt.Sprintf("body_%d", i)
		}

		var r, g, b C.double
		if C.pvocct_body_color(doc, C.int(i), &r, &g, &b) != 0 {
			f.Color = &mesh.RGB{R: float64(r), G: float64(g), B: float64(b)}
		}

		f.ComputeNormals()
		fragments = append(fragments, f)
	}

	return fragments, nil
}
