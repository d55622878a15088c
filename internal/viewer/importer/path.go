package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// Path Parser
// ============================================================

type point struct {
	X, Y float64
}

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// parsePath reads the straight-line subset of SVG path data (M, L, H, V, Z
// and their relative forms) into a point list. Implicit repeated pairs after
// M/L are honoured.
func parsePath(d string) ([]point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []point
	var cur point

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "L":
			for i := 0; i+1 < len(coords); i += 2 {
				cur = point{coords[i], coords[i+1]}
				points = append(points, cur)
			}

		case "m", "l":
			for i := 0; i+1 < len(coords); i += 2 {
				cur = point{cur.X + coords[i], cur.Y + coords[i+1]}
				points = append(points, cur)
			}

		case "H", "h", "V", "v":
			for _, c := range coords {
				switch cmd {
				case "H":
					cur.X = c
				case "h":
					cur.X += c
				case "V":
					cur.Y = c
				case "v":
					cur.Y += c
				}
				points = append(points, cur)
			}

		case "Z", "z":
			// close back to the first point
			if len(points) > 0 {
				points = append(points, points[0])
				cur = points[0]
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no points", d)
	}
	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// separators: comma or whitespace
	s = strings.ReplaceAll(s, ",", " ")

	var coords []float64
	for _, part := range strings.Fields(s) {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
