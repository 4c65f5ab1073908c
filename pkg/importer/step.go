package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/partview/pkg/brep"
	"github.com/chazu/partview/pkg/mesh"
)

// importSTEP delegates B-rep data to the attached tessellation kernel.
// The two failure modes stay distinguishable for the caller: a missing
// kernel surfaces as brep.ErrKernelUnavailable, a corrupt file as a
// *FormatError wrapping the kernel's parse error.
func (im *Importer) importSTEP(ctx context.Context, data []byte) ([]*mesh.Fragment, error) {
	if im.kernel == nil {
		return nil, fmt.Errorf("step import: %w", brep.ErrKernelUnavailable)
	}
	fragments, err := im.kernel.Tessellate(ctx, data)
	if err != nil {
		var pe *brep.ParseError
		if errors.As(err, &pe) {
			return nil, &FormatError{Format: "step", Message: "kernel rejected input", Err: err}
		}
		return nil, fmt.Errorf("step import: %w", err)
	}
	return fragments, nil
}
