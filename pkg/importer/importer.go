// Package importer turns heterogeneous CAD and mesh file formats into
// fragment lists. Dispatch is a closed enumeration over the supported
// format tags with an explicit unsupported variant, so an unrecognized
// tag can never silently fall through to the wrong parser.
package importer

import (
	"context"
	"strconv"
	"strings"

	"github.com/chazu/partview/pkg/brep"
	"github.com/chazu/partview/pkg/logging"
	"github.com/chazu/partview/pkg/mesh"
)

// Format identifies one supported input format.
type Format int

const (
	// FormatUnknown is the explicit unsupported variant.
	FormatUnknown Format = iota
	// FormatSTL is binary or ASCII triangle soup.
	FormatSTL
	// Format3MF is the 3MF scene format (multiple parts, transforms).
	Format3MF
	// FormatSTEP is B-rep CAD data, delegated to a brep.Kernel.
	FormatSTEP
	// FormatNative is a vendor-proprietary CAD format that is
	// recognized but never parsed.
	FormatNative
)

// String returns the display name of the format.
func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "stl"
	case Format3MF:
		return "3mf"
	case FormatSTEP:
		return "step"
	case FormatNative:
		return "native"
	default:
		return "unknown"
	}
}

// Detect maps a declared file-type tag (usually the file extension,
// with or without a leading dot, any case) to a Format.
func Detect(tag string) Format {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), ".")) {
	case "stl":
		return FormatSTL
	case "3mf":
		return Format3MF
	case "step", "stp":
		return FormatSTEP
	case "sldprt", "sldasm", "ipt", "iam", "prt", "catpart":
		return FormatNative
	default:
		return FormatUnknown
	}
}

// Importer dispatches file bytes to the parser for their declared
// format. The zero Importer handles STL and 3MF; a brep kernel must be
// attached for STEP.
type Importer struct {
	kernel brep.Kernel
}

// New returns an Importer. kernel may be nil, in which case STEP loads
// report brep.ErrKernelUnavailable.
func New(kernel brep.Kernel) *Importer {
	return &Importer{kernel: kernel}
}

// Import parses data according to its declared type tag and returns the
// resulting fragments. Fragment indices are assigned in parse order and
// every fragment is guaranteed a normal array.
//
// Error kinds: *FormatError for corrupt content, *UnsupportedError for
// an unrecognized tag, *NativeFormatError for recognized-but-unparseable
// vendor formats, and brep.ErrKernelUnavailable (wrapped) when STEP is
// requested without a kernel.
func (im *Importer) Import(ctx context.Context, data []byte, tag string) ([]*mesh.Fragment, error) {
	format := Detect(tag)

	var (
		fragments []*mesh.Fragment
		err       error
	)
	switch format {
	case FormatSTL:
		var f *mesh.Fragment
		f, err = ParseSTL(data)
		if f != nil {
			fragments = []*mesh.Fragment{f}
		}
	case Format3MF:
		fragments, err = Parse3MF(data)
	case FormatSTEP:
		fragments, err = im.importSTEP(ctx, data)
	case FormatNative:
		return nil, &NativeFormatError{Extension: strings.ToLower(strings.TrimPrefix(tag, "."))}
	default:
		return nil, &UnsupportedError{Extension: tag}
	}
	if err != nil {
		return nil, err
	}

	for i, f := range fragments {
		f.Index = i
		if f.Name == "" {
			f.Name = "mesh_" + strconv.Itoa(i)
		}
		if !f.HasNormals() {
			f.ComputeNormals()
		}
	}
	logging.Debug("import complete", "format", format.String(),
		"fragments", len(fragments), "vertices", mesh.TotalVertexCount(fragments))
	return fragments, nil
}
