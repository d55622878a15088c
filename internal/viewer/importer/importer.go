// Package importer turns annotated SVG floor plans into plan documents.
// Shapes are classified by id prefix (Wall_, Door_, Window_, Room_, *_room,
// Balcony); everything else in the drawing is ignored.
package importer

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"

	"planviewer/internal/viewer/geometry"
	"planviewer/internal/viewer/models"
)

// ============================================================
// Importer
// ============================================================

// Standard opening heights in meters.
const (
	doorTop      = 2.15
	windowBottom = 0.9
	windowTop    = 1.9
)

type Importer struct {
	pxPerMeter float64
	ceiling    float64
	joinTol    float64
}

type Option func(*Importer)

// WithScale sets how many drawing units make one meter.
func WithScale(pxPerMeter float64) Option {
	return func(i *Importer) {
		i.pxPerMeter = pxPerMeter
	}
}

// WithCeilingHeight records a ceiling height in the produced meta.
func WithCeilingHeight(m float64) Option {
	return func(i *Importer) {
		i.ceiling = m
	}
}

// WithWallJoin merges wall ends closer than tol drawing units into shared
// corners. Zero leaves walls as drawn.
func WithWallJoin(tol float64) Option {
	return func(i *Importer) {
		i.joinTol = tol
	}
}

func New(opts ...Option) *Importer {
	i := &Importer{pxPerMeter: geometry.DefaultPxPerMeter}
	for _, opt := range opts {
		opt(i)
	}
	i.pxPerMeter = geometry.NormalizeScale(i.pxPerMeter)
	return i
}

// Import reads an SVG drawing and builds a plan document with no placed
// objects.
func (i *Importer) Import(r io.Reader) (models.PlanDocument, error) {
	shapes, cv, err := parseSVG(r)
	if err != nil {
		return models.PlanDocument{}, fmt.Errorf("parse SVG: %w", err)
	}

	var walls, openings, zones []shape
	for _, s := range shapes {
		switch s.Kind {
		case shapeWall:
			walls = append(walls, s)
		case shapeDoor, shapeWindow:
			openings = append(openings, s)
		case shapeRoom, shapeBalcony:
			zones = append(zones, s)
		}
	}

	elements := make([]models.Element, 0, len(shapes))
	for _, w := range walls {
		if elem, ok := wallElement(w); ok {
			elements = append(elements, elem)
		}
	}
	joinWalls(elements, i.joinTol)

	// doors and windows attach to the nearest wall
	for _, o := range openings {
		elem := openingElement(o)
		if idx, offset := findNearestWall(o.center(), elements); idx >= 0 {
			wall := &elements[idx]
			elem.RelatedTo = []string{wall.ID}
			if opening, ok := i.resolveOpening(o, wall.Geometry.Points, offset); ok {
				wall.Geometry.Openings = append(wall.Geometry.Openings, opening)
			}
		}
		elements = append(elements, elem)
	}

	for _, z := range zones {
		if len(z.Points) < 3 {
			continue
		}
		elements = append(elements, zoneElement(z))
	}

	meta := models.Meta{
		Width:  cv.Width,
		Height: cv.Height,
		Unit:   "px",
		Scale:  &models.Scale{PxPerMeter: i.pxPerMeter},
	}
	if meta.Width <= 0 || meta.Height <= 0 {
		meta.Width, meta.Height = extent(shapes)
	}
	if i.ceiling > 0 {
		c := i.ceiling
		meta.CeilingHeightM = &c
	}

	return models.PlanDocument{
		Meta:      meta,
		Elements:  elements,
		Objects3D: []models.PlacedObject{},
	}, nil
}

// ============================================================
// Element builders
// ============================================================

// wallElement reduces a wall outline to its centre line along the long side
// of the bounding box; the short side becomes the thickness.
func wallElement(s shape) (models.Element, bool) {
	minX, minY, maxX, maxY := s.bbox()
	width := maxX - minX
	height := maxY - minY

	var p1, p2 point
	switch {
	case width == 0 && height == 0:
		return models.Element{}, false
	case width >= height:
		midY := minY + height/2
		p1, p2 = point{minX, midY}, point{maxX, midY}
	default:
		midX := minX + width/2
		p1, p2 = point{midX, minY}, point{midX, maxY}
	}

	elem := models.Element{
		ID:   s.ID,
		Type: models.ElementWall,
		Role: models.RoleExisting,
		Geometry: models.Geometry{
			Kind:   models.GeometrySegment,
			Points: []float64{p1.X, p1.Y, p2.X, p2.Y},
		},
	}
	if t := math.Min(width, height); t > 0 {
		elem.Thickness = &t
	}
	return elem, true
}

func openingElement(s shape) models.Element {
	typ := models.ElementDoor
	if s.Kind == shapeWindow {
		typ = models.ElementWindow
	}
	return models.Element{
		ID:       s.ID,
		Type:     typ,
		Geometry: models.Geometry{Kind: models.GeometryPolygon, Points: flatten(s.Points)},
	}
}

func zoneElement(s shape) models.Element {
	zoneType := "balcony"
	if s.Kind == shapeRoom {
		zoneType = zoneTypeFromID(s.ID)
	}
	return models.Element{
		ID:       s.ID,
		Type:     models.ElementZone,
		ZoneType: zoneType,
		Geometry: models.Geometry{Kind: models.GeometryPolygon, Points: flatten(s.Points)},
	}
}

// resolveOpening places an opening along a wall. offset is the projection of
// the opening centre on the wall as a fraction of its length.
func (i *Importer) resolveOpening(s shape, wallPts []float64, offset float64) (models.Opening, bool) {
	wallLen := math.Hypot(wallPts[2]-wallPts[0], wallPts[3]-wallPts[1]) / i.pxPerMeter
	minX, minY, maxX, maxY := s.bbox()
	span := math.Max(maxX-minX, maxY-minY) / i.pxPerMeter
	if span <= geometry.Epsilon || wallLen <= geometry.Epsilon {
		return models.Opening{}, false
	}

	mid := offset * wallLen
	o := models.Opening{
		ID:    s.ID,
		Type:  string(s.Kind),
		FromM: math.Max(0, mid-span/2),
		ToM:   math.Min(wallLen, mid+span/2),
	}
	if s.Kind == shapeWindow {
		o.BottomM, o.TopM = windowBottom, windowTop
	} else {
		o.TopM = doorTop
	}
	return o, true
}

// ============================================================
// Geometry helpers
// ============================================================

// findNearestWall returns the index of the wall element closest to p and the
// projection offset along it, or -1 when there are no walls.
func findNearestWall(p point, elements []models.Element) (int, float64) {
	nearest, offset := -1, 0.0
	minDist := math.MaxFloat64

	for idx, elem := range elements {
		if elem.Type != models.ElementWall || len(elem.Geometry.Points) != 4 {
			continue
		}
		pts := elem.Geometry.Points
		dist, t := pointToLineDistance(p, point{pts[0], pts[1]}, point{pts[2], pts[3]})
		if dist < minDist {
			minDist = dist
			nearest = idx
			offset = t
		}
	}
	return nearest, offset
}

func pointToLineDistance(p, v1, v2 point) (float64, float64) {
	dx := v2.X - v1.X
	dy := v2.Y - v1.Y
	lineLen := math.Hypot(dx, dy)

	if lineLen == 0 {
		return math.Hypot(p.X-v1.X, p.Y-v1.Y), 0
	}

	// project p onto the segment
	t := ((p.X-v1.X)*dx + (p.Y-v1.Y)*dy) / (lineLen * lineLen)
	t = math.Max(0, math.Min(1, t))

	projX := v1.X + t*dx
	projY := v1.Y + t*dy
	return math.Hypot(p.X-projX, p.Y-projY), t
}

func extent(shapes []shape) (float64, float64) {
	var w, h float64
	for _, s := range shapes {
		_, _, maxX, maxY := s.bbox()
		w = math.Max(w, maxX)
		h = math.Max(h, maxY)
	}
	return w, h
}

func flatten(points []point) []float64 {
	out := make([]float64, 0, len(points)*2)
	for _, p := range points {
		out = append(out, p.X, p.Y)
	}
	return out
}

// ============================================================
// Zone types
// ============================================================

var (
	roomAffix   = regexp.MustCompile(`(?i)^room_|_room$`)
	trailingNum = regexp.MustCompile(`_?\d+$`)
)

var zoneKeywords = []struct {
	keyword  string
	zoneType string
}{
	{"kitchen", "kitchen"},
	{"dining", "dining_room"},
	{"living", "living_room"},
	{"bedroom", "bedroom"},
	{"kids", "kids_room"},
	{"bath", "bathroom"},
	{"toilet", "bathroom"},
	{"wc", "bathroom"},
	{"hall", "entrance_hall"},
	{"corridor", "entrance_hall"},
	{"entrance", "entrance_hall"},
	{"laundry", "laundry_room"},
	{"wardrobe", "wardrobe"},
	{"office", "home_office"},
	{"loggia", "loggia"},
	{"veranda", "veranda"},
}

// zoneTypeFromID derives a zone type from ids like "Kitchen_room",
// "Room_bedroom_2" or "Toilet_room". Unrecognised names become "room".
func zoneTypeFromID(id string) string {
	name := strings.ToLower(roomAffix.ReplaceAllString(id, ""))
	name = trailingNum.ReplaceAllString(name, "")
	for _, k := range zoneKeywords {
		if strings.Contains(name, k.keyword) {
			return k.zoneType
		}
	}
	return "room"
}
