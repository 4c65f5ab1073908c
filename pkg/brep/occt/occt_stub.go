//go:build !occt

// Package occt provides a cgo-based B-rep tessellation kernel backed by
// Open CASCADE Technology. When the "occt" build tag is not set, this
// stub package is compiled instead and New() reports that no kernel is
// available. The viewer then surfaces STEP loads as a kernel-unavailable
// condition rather than a parse failure.
//
// Build with: go build -tags=occt
package occt

import (
	"fmt"

	"github.com/chazu/partview/pkg/brep"
)

// New returns an error indicating the OCCT kernel is not available.
// Build with -tags=occt to enable.
func New() (brep.Kernel, error) {
	return nil, fmt.Errorf("occt: %w (build with -tags=occt)", brep.ErrKernelUnavailable)
}
