package geometry

import (
	"math"

	"planviewer/internal/viewer/models"
)

// ============================================================
// Derived geometry
// ============================================================

// WallSegment is a renderable wall in meters.
type WallSegment struct {
	ID          string          `json:"id"`
	Start       GroundPoint     `json:"start"`
	End         GroundPoint     `json:"end"`
	Center      GroundPoint     `json:"center"`
	Length      float64         `json:"length"`
	Thickness   float64         `json:"thickness"`
	Yaw         float64         `json:"yaw"`
	LoadBearing bool            `json:"loadBearing"`
	Role        models.WallRole `json:"role,omitempty"`
	Style       *models.Style   `json:"style,omitempty"`
	Openings    []OpeningSpan   `json:"openings,omitempty"`
}

// OpeningSpan is a hole in a wall: [From, To] along the wall, [Bottom, Top] in height.
type OpeningSpan struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
}

// ZonePolygon is a room outline on the ground plane, winding preserved.
type ZonePolygon struct {
	ID       string        `json:"id"`
	ZoneType string        `json:"zoneType"`
	Points   []GroundPoint `json:"points"`
	Style    *models.Style `json:"style,omitempty"`
}

// Extraction holds everything derived from the plan layout.
type Extraction struct {
	Walls   []WallSegment `json:"walls"`
	Zones   []ZonePolygon `json:"zones"`
	Scale   float64       `json:"scale"`
	Width   float64       `json:"width"`  // meters
	Height  float64       `json:"height"` // meters
	Ceiling float64       `json:"ceiling"`
}

// ============================================================
// Extractor
// ============================================================

// Extract derives walls and zones from the plan. Malformed or degenerate
// elements are skipped, never reported.
func Extract(plan models.PlanDocument) Extraction {
	scale := ResolveScale(plan.Meta)
	ceiling := ResolveCeilingHeight(plan.Meta)
	size := ToGround(plan.Meta.Width, plan.Meta.Height, scale)

	return Extraction{
		Walls:   extractWalls(plan.Elements, scale, ceiling),
		Zones:   ExtractZones(plan.Elements, scale),
		Scale:   scale,
		Width:   math.Max(size.X, 0),
		Height:  math.Max(size.Z, 0),
		Ceiling: ceiling,
	}
}

// ExtractWalls returns one segment per valid wall element.
func ExtractWalls(elements []models.Element, scale float64) []WallSegment {
	return extractWalls(elements, scale, DefaultCeilingHeight)
}

func extractWalls(elements []models.Element, scale, ceiling float64) []WallSegment {
	scale = NormalizeScale(scale)

	var walls []WallSegment
	for _, elem := range elements {
		if elem.Type != models.ElementWall {
			continue
		}
		if elem.Geometry.Kind != "" && elem.Geometry.Kind != models.GeometrySegment {
			continue
		}
		pts := elem.Geometry.Points
		if len(pts) != 4 || !allFinite(pts) {
			continue
		}

		start := ToGround(pts[0], pts[1], scale)
		end := ToGround(pts[2], pts[3], scale)

		length := start.Distance(end)
		if length <= Epsilon {
			continue
		}

		thickness := DefaultWallThickness
		if elem.Thickness != nil && finite(*elem.Thickness) && *elem.Thickness > 0 {
			thickness = *elem.Thickness / scale
		}

		walls = append(walls, WallSegment{
			ID:          elem.ID,
			Start:       start,
			End:         end,
			Center:      GroundPoint{X: (start.X + end.X) / 2, Z: (start.Z + end.Z) / 2},
			Length:      length,
			Thickness:   thickness,
			Yaw:         math.Atan2(end.Z-start.Z, end.X-start.X),
			LoadBearing: elem.LoadBearing,
			Role:        elem.Role,
			Style:       elem.Style,
			Openings:    resolveOpenings(elem.Geometry.Openings, length, ceiling),
		})
	}
	return walls
}

// ExtractZones returns one polygon per valid zone element.
func ExtractZones(elements []models.Element, scale float64) []ZonePolygon {
	scale = NormalizeScale(scale)

	var zones []ZonePolygon
	for _, elem := range elements {
		if elem.Type != models.ElementZone {
			continue
		}
		if elem.Geometry.Kind != "" && elem.Geometry.Kind != models.GeometryPolygon {
			continue
		}
		pts := elem.Geometry.Points
		if len(pts) < 6 || !allFinite(pts) {
			continue
		}

		points := make([]GroundPoint, 0, len(pts)/2)
		for i := 0; i+1 < len(pts); i += 2 {
			points = append(points, ToGround(pts[i], pts[i+1], scale))
		}

		// drop the closing duplicate
		if n := len(points); n > 1 && points[0] == points[n-1] {
			points = points[:n-1]
		}
		if len(points) < 3 {
			continue
		}

		zones = append(zones, ZonePolygon{
			ID:       elem.ID,
			ZoneType: elem.ZoneType,
			Points:   points,
			Style:    elem.Style,
		})
	}
	return zones
}

func resolveOpenings(openings []models.Opening, length, ceiling float64) []OpeningSpan {
	if len(openings) == 0 {
		return nil
	}

	var spans []OpeningSpan
	for _, o := range openings {
		from := clamp(SafeNumber(math.Min(o.FromM, o.ToM), 0), 0, length)
		to := clamp(SafeNumber(math.Max(o.FromM, o.ToM), 0), 0, length)
		bottom := clamp(SafeNumber(math.Min(o.BottomM, o.TopM), 0), 0, ceiling)
		top := clamp(SafeNumber(math.Max(o.BottomM, o.TopM), 0), 0, ceiling)
		if to-from <= Epsilon || top-bottom <= Epsilon {
			continue
		}
		spans = append(spans, OpeningSpan{
			ID:     o.ID,
			Type:   o.Type,
			From:   from,
			To:     to,
			Bottom: bottom,
			Top:    top,
		})
	}
	return spans
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if !finite(v) {
			return false
		}
	}
	return true
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
