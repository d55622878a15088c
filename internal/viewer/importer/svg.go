package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
)

// ============================================================
// XML Structures
// ============================================================

type svgDoc struct {
	XMLName xml.Name  `xml:"svg"`
	Width   string    `xml:"width,attr"`
	Height  string    `xml:"height,attr"`
	ViewBox string    `xml:"viewBox,attr"`
	Rects   []svgRect `xml:"rect"`
	Paths   []svgPath `xml:"path"`
	Groups  []svgDoc  `xml:"g"`
}

type svgRect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type svgPath struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// ============================================================
// Shapes
// ============================================================

type shapeKind string

const (
	shapeWall    shapeKind = "wall"
	shapeDoor    shapeKind = "door"
	shapeWindow  shapeKind = "window"
	shapeRoom    shapeKind = "room"
	shapeBalcony shapeKind = "balcony"
)

// shape is a classified SVG element reduced to its outline.
type shape struct {
	ID     string
	Kind   shapeKind
	Points []point
}

func (s shape) bbox() (minX, minY, maxX, maxY float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64
	for _, p := range s.Points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

func (s shape) center() point {
	minX, minY, maxX, maxY := s.bbox()
	return point{(minX + maxX) / 2, (minY + maxY) / 2}
}

// canvas is the drawing size declared by the root element, if any.
type canvas struct {
	Width, Height float64
}

// ============================================================
// Parser
// ============================================================

func parseSVG(r io.Reader) ([]shape, canvas, error) {
	var doc svgDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, canvas{}, fmt.Errorf("decode svg: %w", err)
	}

	var shapes []shape
	collectShapes(doc, &shapes)
	return shapes, doc.canvas(), nil
}

func collectShapes(doc svgDoc, out *[]shape) {
	for _, rect := range doc.Rects {
		kind := classifyElementByID(rect.ID)
		if kind == "" || rect.Width <= 0 || rect.Height <= 0 {
			continue
		}
		*out = append(*out, shape{
			ID:   rect.ID,
			Kind: kind,
			Points: []point{
				{rect.X, rect.Y},
				{rect.X + rect.Width, rect.Y},
				{rect.X + rect.Width, rect.Y + rect.Height},
				{rect.X, rect.Y + rect.Height},
			},
		})
	}

	for _, path := range doc.Paths {
		kind := classifyElementByID(path.ID)
		if kind == "" {
			continue
		}
		points, err := parsePath(path.D)
		if err != nil {
			continue
		}
		// drop the closing duplicate
		if n := len(points); n > 1 && points[0] == points[n-1] {
			points = points[:n-1]
		}
		*out = append(*out, shape{ID: path.ID, Kind: kind, Points: points})
	}

	for _, g := range doc.Groups {
		collectShapes(g, out)
	}
}

var leadingNumber = regexp.MustCompile(`^\s*([0-9.]+)`)

func (d svgDoc) canvas() canvas {
	if fields := strings.Fields(strings.ReplaceAll(d.ViewBox, ",", " ")); len(fields) == 4 {
		w, h := parseCoords(fields[2]), parseCoords(fields[3])
		if len(w) == 1 && len(h) == 1 && w[0] > 0 && h[0] > 0 {
			return canvas{w[0], h[0]}
		}
	}
	// width="800px" and the like
	w := leadingNumber.FindStringSubmatch(d.Width)
	h := leadingNumber.FindStringSubmatch(d.Height)
	if w != nil && h != nil {
		wv, hv := parseCoords(w[1]), parseCoords(h[1])
		if len(wv) == 1 && len(hv) == 1 {
			return canvas{wv[0], hv[0]}
		}
	}
	return canvas{}
}

func classifyElementByID(id string) shapeKind {
	switch {
	case strings.HasPrefix(id, "Wall_"), strings.HasPrefix(id, "Hui_Wall_"):
		return shapeWall
	case strings.HasPrefix(id, "Door_"):
		return shapeDoor
	case strings.HasPrefix(id, "Window_"):
		return shapeWindow
	case strings.HasPrefix(id, "Balcony"):
		return shapeBalcony
	case strings.HasPrefix(id, "Room_"),
		strings.HasSuffix(id, "_room"), // Hall_room, Toilet_room
		strings.HasSuffix(id, "_Room"):
		return shapeRoom
	}
	return ""
}
