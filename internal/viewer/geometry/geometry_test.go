package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"planviewer/internal/viewer/models"
)

const tol = 1e-9

func wall(id string, pts ...float64) models.Element {
	return models.Element{
		ID:       id,
		Type:     models.ElementWall,
		Role:     models.RoleExisting,
		Geometry: models.Geometry{Kind: models.GeometrySegment, Points: pts},
	}
}

func zone(id, zoneType string, pts ...float64) models.Element {
	return models.Element{
		ID:       id,
		Type:     models.ElementZone,
		ZoneType: zoneType,
		Geometry: models.Geometry{Kind: models.GeometryPolygon, Points: pts},
	}
}

func TestToGroundRoundTrip(t *testing.T) {
	t.Parallel()

	points := [][2]float64{{0, 0}, {250, 500}, {-13.5, 7.25}, {1e6, -3e5}}
	scales := []float64{1, 40, 100, 333.3}

	for _, s := range scales {
		for _, p := range points {
			g := ToGround(p[0], p[1], s)
			x, y := ToPixel(g, s)
			assert.InDelta(t, p[0], x, 1e-6)
			assert.InDelta(t, p[1], y, 1e-6)
		}
	}
}

func TestToGroundScaleFallback(t *testing.T) {
	t.Parallel()

	want := ToGround(250, 500, 100)
	for _, s := range []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, want, ToGround(250, 500, s), "scale %v", s)
	}
	assert.Equal(t, GroundPoint{X: 2.5, Z: 5}, want)
}

func TestToGroundNonFiniteInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GroundPoint{X: 0, Z: 1}, ToGround(math.NaN(), 100, 100))
	assert.Equal(t, GroundPoint{X: 1, Z: 0}, ToGround(100, math.Inf(-1), 100))
}

func TestResolveScaleAndCeiling(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultPxPerMeter, ResolveScale(models.Meta{}))
	assert.Equal(t, DefaultPxPerMeter, ResolveScale(models.Meta{Scale: &models.Scale{PxPerMeter: -1}}))
	assert.Equal(t, 40.0, ResolveScale(models.Meta{Scale: &models.Scale{PxPerMeter: 40}}))

	h := 3.1
	zero := 0.0
	assert.Equal(t, DefaultCeilingHeight, ResolveCeilingHeight(models.Meta{}))
	assert.Equal(t, DefaultCeilingHeight, ResolveCeilingHeight(models.Meta{CeilingHeightM: &zero}))
	assert.Equal(t, 3.1, ResolveCeilingHeight(models.Meta{CeilingHeightM: &h}))
}

func TestNormalizeYaw(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, -math.Pi/2, NormalizeYaw(-math.Pi/2), tol)
	assert.InDelta(t, -math.Pi/2, NormalizeYaw(3*math.Pi/2), tol)
	assert.InDelta(t, math.Pi, NormalizeYaw(-math.Pi), tol)
	assert.InDelta(t, 0, NormalizeYaw(4*math.Pi), tol)
	assert.Zero(t, NormalizeYaw(math.NaN()))
}

func TestExtractWallScenario(t *testing.T) {
	t.Parallel()

	plan := models.PlanDocument{
		Meta:     models.Meta{Width: 500, Height: 1000, Scale: &models.Scale{PxPerMeter: 100}},
		Elements: []models.Element{wall("w1", 0, 0, 500, 0)},
	}

	ex := Extract(plan)
	require.Len(t, ex.Walls, 1)
	w := ex.Walls[0]
	assert.InDelta(t, 5.0, w.Length, tol)
	assert.InDelta(t, 2.5, w.Center.X, tol)
	assert.InDelta(t, 0.0, w.Center.Z, tol)
	assert.InDelta(t, 0.0, w.Yaw, tol)
	assert.InDelta(t, DefaultWallThickness, w.Thickness, tol)
	assert.Equal(t, 5.0, ex.Width)
	assert.Equal(t, 10.0, ex.Height)
}

func TestExtractWallsExclusion(t *testing.T) {
	t.Parallel()

	thick := 20.0
	withThickness := wall("thick", 0, 0, 0, 300)
	withThickness.Thickness = &thick
	withThickness.LoadBearing = true

	elements := []models.Element{
		wall("zero", 10, 10, 10, 10),
		wall("short", 0, 0, 500),
		wall("nan", 0, 0, math.NaN(), 5),
		{ID: "polyWall", Type: models.ElementWall, Geometry: models.Geometry{Kind: models.GeometryPolygon, Points: []float64{0, 0, 1, 1}}},
		{ID: "door", Type: models.ElementDoor, Geometry: models.Geometry{Kind: models.GeometrySegment, Points: []float64{0, 0, 100, 0}}},
		withThickness,
		wall("diag", 0, 0, 300, 400),
	}

	walls := ExtractWalls(elements, 100)
	require.Len(t, walls, 2)

	assert.Equal(t, "thick", walls[0].ID)
	assert.InDelta(t, 3.0, walls[0].Length, tol)
	assert.InDelta(t, 0.2, walls[0].Thickness, tol)
	assert.InDelta(t, math.Pi/2, walls[0].Yaw, tol)
	assert.True(t, walls[0].LoadBearing)

	assert.Equal(t, "diag", walls[1].ID)
	assert.InDelta(t, 5.0, walls[1].Length, tol)
	assert.InDelta(t, math.Atan2(4, 3), walls[1].Yaw, tol)
}

func TestExtractZones(t *testing.T) {
	t.Parallel()

	elements := []models.Element{
		zone("two", "kitchen", 0, 0, 100, 0),
		zone("collinear", "bedroom", 0, 0, 100, 0, 200, 0),
		zone("closed", "bathroom", 0, 0, 100, 0, 0, 0),
		zone("closedTriangle", "bathroom", 0, 0, 100, 0, 100, 100, 0, 100, 0, 0),
		zone("inf", "kitchen", 0, 0, math.Inf(1), 0, 1, 1),
		zone("odd", "living_room", 0, 0, 100, 0, 100, 100, 7),
	}

	zones := ExtractZones(elements, 100)
	require.Len(t, zones, 3)

	assert.Equal(t, "collinear", zones[0].ID)
	assert.Equal(t, []GroundPoint{{0, 0}, {1, 0}, {2, 0}}, zones[0].Points)

	assert.Equal(t, "closedTriangle", zones[1].ID)
	assert.Len(t, zones[1].Points, 4)

	assert.Equal(t, "odd", zones[2].ID)
	assert.Len(t, zones[2].Points, 3)
	assert.Equal(t, "living_room", zones[2].ZoneType)
}

func TestExtractIsDeterministic(t *testing.T) {
	t.Parallel()

	plan := models.PlanDocument{
		Meta: models.Meta{Width: 800, Height: 600, Scale: &models.Scale{PxPerMeter: 100}},
		Elements: []models.Element{
			wall("a", 100, 100, 700, 100),
			zone("z", "kitchen", 110, 110, 390, 110, 390, 390),
		},
	}
	assert.Equal(t, Extract(plan), Extract(plan))
}

func TestExtractOpenings(t *testing.T) {
	t.Parallel()

	w := wall("w", 100, 100, 700, 100)
	w.Geometry.Openings = []models.Opening{
		{ID: "win", Type: "window", FromM: 3.9, ToM: 5.1, BottomM: 0.9, TopM: 2.1},
		{ID: "past", Type: "door", FromM: 5.5, ToM: 9, BottomM: 0, TopM: 9},
		{ID: "empty", Type: "door", FromM: 1, ToM: 1, BottomM: 0, TopM: 2},
	}
	plan := models.PlanDocument{
		Meta:     models.Meta{Width: 800, Height: 600},
		Elements: []models.Element{w},
	}

	ex := Extract(plan)
	require.Len(t, ex.Walls, 1)
	spans := ex.Walls[0].Openings
	require.Len(t, spans, 2)
	assert.Equal(t, OpeningSpan{ID: "win", Type: "window", From: 3.9, To: 5.1, Bottom: 0.9, Top: 2.1}, spans[0])
	assert.InDelta(t, 6.0, spans[1].To, tol)
	assert.InDelta(t, DefaultCeilingHeight, spans[1].Top, tol)
}

func TestBounds(t *testing.T) {
	t.Parallel()

	var b Bounds
	assert.True(t, b.Empty())
	assert.True(t, b.Degenerate())

	b.Extend(r3.Vec{X: 1, Y: 2, Z: 3})
	assert.True(t, b.Degenerate())

	b.Extend(r3.Vec{X: 4, Y: 5, Z: 6})
	b.Extend(r3.Vec{X: -1, Y: 0, Z: 2})
	assert.Equal(t, r3.Vec{X: -1, Y: 0, Z: 2}, b.Min)
	assert.Equal(t, r3.Vec{X: 4, Y: 5, Z: 6}, b.Max)
	assert.Equal(t, r3.Vec{X: 1.5, Y: 2.5, Z: 4}, b.Center())
	assert.False(t, b.Degenerate())

	var other Bounds
	other.Extend(r3.Vec{X: 10})
	b.Union(other)
	assert.Equal(t, 10.0, b.Max.X)
}

func TestIntersectGround(t *testing.T) {
	t.Parallel()

	ray := Ray{Origin: r3.Vec{X: 1, Y: 10, Z: 1}, Direction: r3.Vec{X: 1, Y: -1, Z: 0}}
	p, ok := IntersectGround(ray, 0)
	require.True(t, ok)
	assert.InDelta(t, 11, p.X, tol)
	assert.InDelta(t, 1, p.Z, tol)

	_, ok = IntersectGround(Ray{Origin: r3.Vec{Y: 10}, Direction: r3.Vec{X: 1}}, 0)
	assert.False(t, ok)

	_, ok = IntersectGround(Ray{Origin: r3.Vec{Y: 10}, Direction: r3.Vec{Y: 1}}, 0)
	assert.False(t, ok)
}
