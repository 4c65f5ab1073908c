package vector

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// tag is one DXF group-code/value pair.
type tag struct {
	code  int
	value string
}

func (t tag) float() float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(t.value), 64)
	return v
}

func (t tag) int() int {
	v, _ := strconv.Atoi(strings.TrimSpace(t.value))
	return v
}

// ParseDXF parses the ENTITIES section of an ASCII DXF file into the
// supported entity set. Unsupported entity kinds are skipped, not
// errors; a drawing is reviewable even when it carries dimensions or
// text this renderer does not draw.
func ParseDXF(data []byte) ([]Entity, error) {
	tags, err := scanTags(data)
	if err != nil {
		return nil, err
	}

	// Seek the ENTITIES section.
	start := -1
	for i := 0; i+1 < len(tags); i++ {
		if tags[i].code == 0 && tags[i].value == "SECTION" &&
			tags[i+1].code == 2 && tags[i+1].value == "ENTITIES" {
			start = i + 2
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("dxf: no ENTITIES section")
	}

	var entities []Entity
	i := start
	for i < len(tags) {
		t := tags[i]
		if t.code != 0 {
			i++
			continue
		}
		if t.value == "ENDSEC" || t.value == "EOF" {
			break
		}
		// Collect this entity's tags: everything up to the next code 0.
		j := i + 1
		for j < len(tags) && tags[j].code != 0 {
			j++
		}
		body := tags[i+1 : j]

		switch t.value {
		case "LINE":
			entities = append(entities, parseLine(body))
		case "CIRCLE":
			entities = append(entities, parseCircle(body))
		case "ARC":
			entities = append(entities, parseArc(body))
		case "LWPOLYLINE":
			entities = append(entities, parseLWPolyline(body))
		case "POLYLINE":
			pl, next := parsePolyline(tags, i, j)
			entities = append(entities, pl)
			j = next
		case "ELLIPSE":
			entities = append(entities, parseEllipse(body))
		case "SPLINE":
			entities = append(entities, parseSpline(body))
		case "POINT":
			entities = append(entities, parsePoint(body))
		}
		i = j
	}
	return entities, nil
}

// scanTags reads the code/value line pairs of an ASCII DXF stream.
func scanTags(data []byte) ([]tag, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var tags []tag
	line := 0
	for sc.Scan() {
		line++
		codeStr := strings.TrimSpace(sc.Text())
		if !sc.Scan() {
			return nil, fmt.Errorf("dxf: line %d: group code without value", line)
		}
		line++
		code, err := strconv.Atoi(codeStr)
		if err != nil {
			return nil, fmt.Errorf("dxf: line %d: bad group code %q", line-1, codeStr)
		}
		tags = append(tags, tag{code: code, value: strings.TrimSpace(sc.Text())})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dxf: read: %w", err)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("dxf: empty input")
	}
	return tags, nil
}

func parseAttrs(body []tag) Attrs {
	var a Attrs
	for _, t := range body {
		switch t.code {
		case 8:
			a.Layer = t.value
		case 62:
			a.ColorIndex = t.int()
		}
	}
	return a
}

func parseLine(body []tag) Line {
	e := Line{Attrs: parseAttrs(body)}
	for _, t := range body {
		switch t.code {
		case 10:
			e.P0.X = t.float()
		case 20:
			e.P0.Y = t.float()
		case 11:
			e.P1.X = t.float()
		case 21:
			e.P1.Y = t.float()
		}
	}
	return e
}

func parseCircle(body []tag) Circle {
	e := Circle{Attrs: parseAttrs(body)}
	for _, t := range body {
		switch t.code {
		case 10:
			e.Center.X = t.float()
		case 20:
			e.Center.Y = t.float()
		case 40:
			e.Radius = t.float()
		}
	}
	return e
}

func parseArc(body []tag) Arc {
	e := Arc{Attrs: parseAttrs(body)}
	for _, t := range body {
		switch t.code {
		case 10:
			e.Center.X = t.float()
		case 20:
			e.Center.Y = t.float()
		case 40:
			e.Radius = t.float()
		case 50:
			e.StartAngle = t.float()
		case 51:
			e.EndAngle = t.float()
		}
	}
	return e
}

func parseLWPolyline(body []tag) Polyline {
	e := Polyline{Attrs: parseAttrs(body)}
	var x float64
	for _, t := range body {
		switch t.code {
		case 70:
			e.Closed = t.int()&1 != 0
		case 10:
			x = t.float()
		case 20:
			e.Vertices = append(e.Vertices, Point2{X: x, Y: t.float()})
		}
	}
	return e
}

// parsePolyline handles the legacy POLYLINE/VERTEX/SEQEND form, whose
// vertices arrive as separate entities. Returns the tag index just
// past SEQEND.
func parsePolyline(tags []tag, start, bodyEnd int) (Polyline, int) {
	e := Polyline{Attrs: parseAttrs(tags[start+1 : bodyEnd])}
	for _, t := range tags[start+1 : bodyEnd] {
		if t.code == 70 {
			e.Closed = t.int()&1 != 0
		}
	}

	i := bodyEnd
	for i < len(tags) {
		if tags[i].code != 0 {
			i++
			continue
		}
		if tags[i].value != "VERTEX" {
			if tags[i].value == "SEQEND" {
				// Skip SEQEND's own body.
				i++
				for i < len(tags) && tags[i].code != 0 {
					i++
				}
			}
			break
		}
		var v Point2
		i++
		for i < len(tags) && tags[i].code != 0 {
			switch tags[i].code {
			case 10:
				v.X = tags[i].float()
			case 20:
				v.Y = tags[i].float()
			}
			i++
		}
		e.Vertices = append(e.Vertices, v)
	}
	return e, i
}

func parseEllipse(body []tag) Ellipse {
	e := Ellipse{Attrs: parseAttrs(body), End: 2 * math.Pi}
	for _, t := range body {
		switch t.code {
		case 10:
			e.Center.X = t.float()
		case 20:
			e.Center.Y = t.float()
		case 11:
			e.Major.X = t.float()
		case 21:
			e.Major.Y = t.float()
		case 40:
			e.Ratio = t.float()
		case 41:
			e.Start = t.float()
		case 42:
			e.End = t.float()
		}
	}
	return e
}

func parseSpline(body []tag) Spline {
	e := Spline{Attrs: parseAttrs(body)}
	var x float64
	for _, t := range body {
		switch t.code {
		case 10:
			x = t.float()
		case 20:
			e.Controls = append(e.Controls, Point2{X: x, Y: t.float()})
		}
	}
	return e
}

func parsePoint(body []tag) Point {
	e := Point{Attrs: parseAttrs(body)}
	for _, t := range body {
		switch t.code {
		case 10:
			e.Position.X = t.float()
		case 20:
			e.Position.Y = t.float()
		}
	}
	return e
}
