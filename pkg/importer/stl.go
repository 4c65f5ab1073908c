package importer

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/partview/pkg/mesh"
)

// binarySTLHeaderSize is the fixed 80-byte header plus the uint32
// triangle count.
const binarySTLHeaderSize = 80 + 4

// binarySTLTriangleSize is 12 floats (normal + 3 vertices) plus the
// attribute byte count.
const binarySTLTriangleSize = 12*4 + 2

// ParseSTL parses STL data, sniffing binary versus ASCII, into a single
// fragment. Duplicate vertices are welded by exact position so the
// normal derivation sees real connectivity.
func ParseSTL(data []byte) (*mesh.Fragment, error) {
	if isASCIISTL(data) {
		return parseASCIISTL(data)
	}
	return parseBinarySTL(data)
}

// isASCIISTL reports whether data looks like ASCII STL. The "solid"
// prefix alone is not enough; some binary exporters put it in the
// 80-byte header, so we also require a "facet" keyword early on.
func isASCIISTL(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("solid")) {
		return false
	}
	return bytes.Contains(head, []byte("facet"))
}

func parseBinarySTL(data []byte) (*mesh.Fragment, error) {
	if len(data) < binarySTLHeaderSize {
		return nil, &FormatError{Format: "stl", Message: "file shorter than binary header"}
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	body := data[binarySTLHeaderSize:]

	// Trust the actual payload over the declared count; files in the
	// wild carry stale counts. Zero triangles is not an error here,
	// the measurement stage has a degenerate-geometry fallback.
	avail := uint32(len(body) / binarySTLTriangleSize)
	if count > avail {
		count = avail
	}

	f := &mesh.Fragment{
		Vertices: make([]float32, 0, count*9),
		Indices:  make([]uint32, 0, count*3),
	}
	weld := make(map[[3]float32]uint32, count*2)

	for i := uint32(0); i < count; i++ {
		tri := body[i*binarySTLTriangleSize:]
		// Skip the stored facet normal; normals are recomputed from
		// connectivity after welding.
		for v := 0; v < 3; v++ {
			at := 12 + v*12
			p := [3]float32{
				math.Float32frombits(binary.LittleEndian.Uint32(tri[at:])),
				math.Float32frombits(binary.LittleEndian.Uint32(tri[at+4:])),
				math.Float32frombits(binary.LittleEndian.Uint32(tri[at+8:])),
			}
			f.Indices = append(f.Indices, weldVertex(f, weld, p))
		}
	}
	return f, nil
}

func parseASCIISTL(data []byte) (*mesh.Fragment, error) {
	f := &mesh.Fragment{}
	weld := make(map[[3]float32]uint32)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) < 4 {
			return nil, &FormatError{Format: "stl",
				Message: fmt.Sprintf("line %d: vertex needs 3 coordinates", line)}
		}
		var p [3]float32
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i+1], 32)
			if err != nil {
				return nil, &FormatError{Format: "stl",
					Message: fmt.Sprintf("line %d: bad coordinate %q", line, fields[i+1]), Err: err}
			}
			p[i] = float32(v)
		}
		f.Indices = append(f.Indices, weldVertex(f, weld, p))
	}
	if err := sc.Err(); err != nil {
		return nil, &FormatError{Format: "stl", Message: "read failure", Err: err}
	}
	if len(f.Indices)%3 != 0 {
		return nil, &FormatError{Format: "stl",
			Message: fmt.Sprintf("vertex count %d is not a multiple of 3", len(f.Indices))}
	}
	return f, nil
}

// weldVertex returns the index for p, appending it if unseen.
func weldVertex(f *mesh.Fragment, weld map[[3]float32]uint32, p [3]float32) uint32 {
	if idx, ok := weld[p]; ok {
		return idx
	}
	idx := uint32(len(f.Vertices) / 3)
	f.Vertices = append(f.Vertices, p[0], p[1], p[2])
	weld[p] = idx
	return idx
}

// EncodeSTL writes a fragment as binary STL. Round-trip partner of
// ParseSTL, used by the sample-part generator and tests.
func EncodeSTL(f *mesh.Fragment) []byte {
	ntri := f.TriangleCount()
	out := make([]byte, binarySTLHeaderSize+ntri*binarySTLTriangleSize)
	copy(out, "partview binary stl")
	binary.LittleEndian.PutUint32(out[80:], uint32(ntri))

	vertexAt := func(i uint32) (x, y, z float32) {
		return f.Vertices[3*i], f.Vertices[3*i+1], f.Vertices[3*i+2]
	}
	index := func(t, corner int) uint32 {
		if len(f.Indices) > 0 {
			return f.Indices[3*t+corner]
		}
		return uint32(3*t + corner)
	}

	for t := 0; t < ntri; t++ {
		tri := out[binarySTLHeaderSize+t*binarySTLTriangleSize:]
		ax, ay, az := vertexAt(index(t, 0))
		bx, by, bz := vertexAt(index(t, 1))
		cx, cy, cz := vertexAt(index(t, 2))

		// Face normal from the two edges.
		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az
		nx := e1y*e2z - e1z*e2y
		ny := e1z*e2x - e1x*e2z
		nz := e1x*e2y - e1y*e2x
		l := float32(math.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
		if l > 1e-12 {
			nx, ny, nz = nx/l, ny/l, nz/l
		}

		put := func(at int, v float32) {
			binary.LittleEndian.PutUint32(tri[at:], math.Float32bits(v))
		}
		put(0, nx)
		put(4, ny)
		put(8, nz)
		for c, v := range [][3]float32{{ax, ay, az}, {bx, by, bz}, {cx, cy, cz}} {
			put(12+c*12, v[0])
			put(16+c*12, v[1])
			put(20+c*12, v[2])
		}
	}
	return out
}
