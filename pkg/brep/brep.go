// Package brep defines the abstract boundary-representation kernel
// interface. Precise CAD formats (STEP) are not parsed by this module
// directly; they are delegated to a kernel implementation that
// tessellates surfaces into triangle meshes. The abstraction keeps the
// importer independent of which kernel (if any) the binary was built
// with, and makes "kernel missing" distinguishable from "file corrupt".
package brep

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/partview/pkg/mesh"
)

// ErrKernelUnavailable indicates that no tessellation kernel was built
// into this binary. It is a distinct condition from a malformed input
// file and callers surface it as such.
var ErrKernelUnavailable = errors.New("tessellation kernel not available")

// Kernel tessellates B-rep CAD data into renderable triangle meshes.
// One fragment is produced per solid/body. Implementations read any
// authored per-body color through to the fragment when the source
// carries one, and leave Color nil otherwise.
type Kernel interface {
	// Tessellate parses data and tessellates every solid it contains.
	// It returns a *ParseError if the data is malformed.
	Tessellate(ctx context.Context, data []byte) ([]*mesh.Fragment, error)
}

// ParseError reports malformed B-rep input, as opposed to a missing or
// broken kernel.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("brep parse: %s", e.Message)
}
