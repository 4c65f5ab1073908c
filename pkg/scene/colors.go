package scene

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"

	"github.com/chazu/partview/pkg/mesh"
)

// DefaultPalette is the fixed set of part colors. Assignment is by
// name hash, so a part's sub-components keep their colors across
// reloads and revisions.
var DefaultPalette = mustParsePalette([]string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
})

// grayTolerance is the channel spread below which an authored color is
// considered neutral filler (exporter defaults are typically mid-gray)
// and overridden by deterministic assignment.
const grayTolerance = 0.09

// DisplayColor resolves the color a fragment renders with: the authored
// color when it is clearly intentional, otherwise a deterministic pick
// from the palette keyed on the fragment name. Identical names map to
// identical colors across sessions.
func DisplayColor(f *mesh.Fragment, palette []mesh.RGB) mesh.RGB {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if f.Color != nil && !isNearGray(*f.Color) {
		return *f.Color
	}
	name := f.Name
	if name == "" {
		name = "mesh_" + strconv.Itoa(f.Index)
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return palette[h.Sum32()%uint32(len(palette))]
}

// isNearGray reports whether a color sits in the neutral band: all
// channels within grayTolerance of each other.
func isNearGray(c mesh.RGB) bool {
	max := math.Max(c.R, math.Max(c.G, c.B))
	min := math.Min(c.R, math.Min(c.G, c.B))
	return max-min < grayTolerance
}

// ParseHexColor parses "#RRGGBB" into an RGB with [0,1] channels.
func ParseHexColor(s string) (mesh.RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return mesh.RGB{}, fmt.Errorf("color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return mesh.RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return mesh.RGB{
		R: float64(v>>16&0xFF) / 255,
		G: float64(v>>8&0xFF) / 255,
		B: float64(v&0xFF) / 255,
	}, nil
}

// HexColor formats an RGB as "#RRGGBB".
func HexColor(c mesh.RGB) string {
	clamp := func(v float64) uint32 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 255
		}
		return uint32(math.Round(v * 255))
	}
	return fmt.Sprintf("#%02X%02X%02X", clamp(c.R), clamp(c.G), clamp(c.B))
}

func mustParsePalette(hex []string) []mesh.RGB {
	out := make([]mesh.RGB, len(hex))
	for i, s := range hex {
		c, err := ParseHexColor(s)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}
