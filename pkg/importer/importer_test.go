package importer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chazu/partview/pkg/brep"
	"github.com/chazu/partview/pkg/importer"
	"github.com/chazu/partview/pkg/mesh"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		tag  string
		want importer.Format
	}{
		{"stl", importer.FormatSTL},
		{".stl", importer.FormatSTL},
		{"STL", importer.FormatSTL},
		{"3mf", importer.Format3MF},
		{"step", importer.FormatSTEP},
		{"stp", importer.FormatSTEP},
		{".STEP", importer.FormatSTEP},
		{"sldprt", importer.FormatNative},
		{"sldasm", importer.FormatNative},
		{"ipt", importer.FormatNative},
		{"iam", importer.FormatNative},
		{"prt", importer.FormatNative},
		{"catpart", importer.FormatNative},
		{"obj", importer.FormatUnknown},
		{"", importer.FormatUnknown},
		{"stl ", importer.FormatSTL},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := importer.Detect(tt.tag); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestImportUnknownTag(t *testing.T) {
	im := importer.New(nil)
	_, err := im.Import(context.Background(), []byte("x"), "obj")
	var ue *importer.UnsupportedError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v (%T), want *UnsupportedError", err, err)
	}
}

func TestImportNativeFormat(t *testing.T) {
	im := importer.New(nil)
	_, err := im.Import(context.Background(), []byte("x"), ".SLDPRT")
	var ne *importer.NativeFormatError
	if !errors.As(err, &ne) {
		t.Fatalf("error = %v (%T), want *NativeFormatError", err, err)
	}
	if ne.Extension != "sldprt" {
		t.Errorf("Extension = %q, want lowercased without dot", ne.Extension)
	}
}

func TestImportSTEPWithoutKernel(t *testing.T) {
	im := importer.New(nil)
	_, err := im.Import(context.Background(), []byte("ISO-10303-21;"), "step")
	if !errors.Is(err, brep.ErrKernelUnavailable) {
		t.Fatalf("error = %v, want ErrKernelUnavailable", err)
	}
}

// fakeKernel is a brep.Kernel test double.
type fakeKernel struct {
	fragments []*mesh.Fragment
	err       error
}

func (k *fakeKernel) Tessellate(ctx context.Context, data []byte) ([]*mesh.Fragment, error) {
	return k.fragments, k.err
}

func TestImportSTEP(t *testing.T) {
	k := &fakeKernel{fragments: []*mesh.Fragment{
		{Name: "body", Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}},
		{Vertices: []float32{0, 0, 1, 1, 0, 1, 0, 1, 1}},
	}}
	im := importer.New(k)
	fragments, err := im.Import(context.Background(), []byte("ISO-10303-21;"), "step")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(fragments) != 2 {
		t.Fatalf("fragments = %d, want 2", len(fragments))
	}
	if fragments[0].Index != 0 || fragments[1].Index != 1 {
		t.Errorf("indices = %d, %d; want parse order", fragments[0].Index, fragments[1].Index)
	}
	if fragments[1].Name != "mesh_1" {
		t.Errorf("default name = %q, want mesh_1", fragments[1].Name)
	}
	for i, f := range fragments {
		if !f.HasNormals() {
			t.Errorf("fragment %d missing normals after import", i)
		}
	}
}

func TestImportSTEPParseError(t *testing.T) {
	k := &fakeKernel{err: &brep.ParseError{Message: "truncated data section"}}
	im := importer.New(k)
	_, err := im.Import(context.Background(), []byte("garbage"), "step")
	var fe *importer.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v (%T), want *FormatError", err, err)
	}
	if fe.Format != "step" {
		t.Errorf("Format = %q, want step", fe.Format)
	}
}

func TestImportSTL(t *testing.T) {
	stl := []byte("solid s\nfacet\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendfacet\nendsolid s\n")
	im := importer.New(nil)
	fragments, err := im.Import(context.Background(), stl, "stl")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("fragments = %d, want 1", len(fragments))
	}
	f := fragments[0]
	if f.Name != "mesh_0" {
		t.Errorf("Name = %q, want mesh_0", f.Name)
	}
	if f.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", f.TriangleCount())
	}
	if !f.HasNormals() {
		t.Error("normals not derived")
	}
}

func TestImport3MFCorrupt(t *testing.T) {
	im := importer.New(nil)
	_, err := im.Import(context.Background(), []byte("not a zip archive"), "3mf")
	var fe *importer.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v (%T), want *FormatError", err, err)
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		f    importer.Format
		want string
	}{
		{importer.FormatSTL, "stl"},
		{importer.Format3MF, "3mf"},
		{importer.FormatSTEP, "step"},
		{importer.FormatNative, "native"},
		{importer.FormatUnknown, "unknown"},
		{importer.Format(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.f, got, tt.want)
		}
	}
}
