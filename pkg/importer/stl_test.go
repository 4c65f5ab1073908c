package importer

import (
	"testing"

	"github.com/chazu/partview/pkg/mesh"
)

const asciiTetra = `solid tetra
facet normal 0 0 -1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
facet normal 0 -1 0
  outer loop
    vertex 0 0 0
    vertex 0 0 1
    vertex 1 0 0
  endloop
endfacet
facet normal -1 0 0
  outer loop
    vertex 0 0 0
    vertex 0 1 0
    vertex 0 0 1
  endloop
endfacet
facet normal 1 1 1
  outer loop
    vertex 1 0 0
    vertex 0 0 1
    vertex 0 1 0
  endloop
endfacet
endsolid tetra
`

func tetraFragment(t *testing.T) *mesh.Fragment {
	t.Helper()
	f, err := ParseSTL([]byte(asciiTetra))
	if err != nil {
		t.Fatalf("ParseSTL: %v", err)
	}
	return f
}

func TestParseASCIISTL(t *testing.T) {
	f := tetraFragment(t)
	if got := f.TriangleCount(); got != 4 {
		t.Errorf("TriangleCount = %d, want 4", got)
	}
	// A tetrahedron has 4 distinct vertices; welding must collapse the
	// 12 occurrences.
	if got := f.VertexCount(); got != 4 {
		t.Errorf("VertexCount = %d, want 4 welded", got)
	}
}

func TestParseASCIISTLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short vertex", "solid s\nfacet\nvertex 1 2\nendfacet\nendsolid"},
		{"bad coordinate", "solid s\nfacet\nvertex 1 2 x\nendfacet\nendsolid"},
		{"dangling vertices", "solid s\nfacet\nvertex 0 0 0\nvertex 1 0 0\nendfacet\nendsolid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSTL([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*FormatError); !ok {
				t.Errorf("error type %T, want *FormatError", err)
			}
		})
	}
}

func TestBinarySTLRoundTrip(t *testing.T) {
	orig := tetraFragment(t)
	data := EncodeSTL(orig)

	back, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL(encoded): %v", err)
	}
	if back.TriangleCount() != orig.TriangleCount() {
		t.Errorf("triangle count %d, want %d", back.TriangleCount(), orig.TriangleCount())
	}
	if back.VertexCount() != orig.VertexCount() {
		t.Errorf("vertex count %d, want %d", back.VertexCount(), orig.VertexCount())
	}
	if got, want := back.Bounds(), orig.Bounds(); got != want {
		t.Errorf("bounds %v, want %v", got, want)
	}
}

func TestBinarySTLStaleCount(t *testing.T) {
	data := EncodeSTL(tetraFragment(t))
	// Inflate the declared triangle count past the payload; parsers
	// must trust the payload.
	data[80] = 200
	f, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL: %v", err)
	}
	if got := f.TriangleCount(); got != 4 {
		t.Errorf("TriangleCount = %d, want 4 from payload", got)
	}
}

func TestBinarySTLTruncated(t *testing.T) {
	_, err := ParseSTL([]byte("not nearly enough"))
	if err == nil {
		t.Fatal("expected error for truncated input")
	}
}

func TestBinarySTLZeroTriangles(t *testing.T) {
	data := EncodeSTL(&mesh.Fragment{})
	f, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("zero-triangle file should parse: %v", err)
	}
	if !f.IsEmpty() {
		t.Errorf("expected empty fragment, got %d vertices", f.VertexCount())
	}
}

func TestIsASCIISniff(t *testing.T) {
	// "solid" in the header alone must not classify a file as ASCII;
	// some binary exporters write it there.
	data := EncodeSTL(tetraFragment(t))
	copy(data, "solid binary export")
	f, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL: %v", err)
	}
	if got := f.TriangleCount(); got != 4 {
		t.Errorf("TriangleCount = %d, want 4", got)
	}
}
