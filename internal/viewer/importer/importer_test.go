package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planviewer/internal/viewer/geometry"
	"planviewer/internal/viewer/models"
)

const floorSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="600px" height="400px" viewBox="0 0 600 400">
  <rect id="Wall_top" x="0" y="0" width="600" height="20" />
  <g id="layer1">
    <path id="Hui_Wall_left" d="M 0 0 L 20 0 L 20 400 L 0 400 Z" />
  </g>
  <rect id="Door_1" x="250" y="0" width="100" height="20" />
  <rect id="Window_1" x="0" y="150" width="20" height="100" />
  <path id="Kitchen_room" d="M 20 20 H 300 V 400 H 20 Z" />
  <path id="Room_bedroom_2" d="M 300 20 L 600 20 L 600 400 L 300 400 Z" />
  <rect id="Balcony_1" x="600" y="0" width="100" height="400" />
  <rect id="decoration" x="0" y="0" width="10" height="10" />
</svg>`

func find(t *testing.T, plan models.PlanDocument, id string) models.Element {
	t.Helper()
	for _, e := range plan.Elements {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("element %q not found", id)
	return models.Element{}
}

func TestImportFloorPlan(t *testing.T) {
	t.Parallel()

	plan, err := New(WithCeilingHeight(2.8)).Import(strings.NewReader(floorSVG))
	require.NoError(t, err)

	assert.Equal(t, 600.0, plan.Meta.Width)
	assert.Equal(t, 400.0, plan.Meta.Height)
	require.NotNil(t, plan.Meta.Scale)
	assert.Equal(t, 100.0, plan.Meta.Scale.PxPerMeter)
	require.NotNil(t, plan.Meta.CeilingHeightM)
	assert.Equal(t, 2.8, *plan.Meta.CeilingHeightM)
	assert.NotNil(t, plan.Objects3D)
	assert.Len(t, plan.Elements, 7, "decoration is ignored")

	top := find(t, plan, "Wall_top")
	assert.Equal(t, models.ElementWall, top.Type)
	assert.Equal(t, []float64{0, 10, 600, 10}, top.Geometry.Points)
	require.NotNil(t, top.Thickness)
	assert.Equal(t, 20.0, *top.Thickness)

	left := find(t, plan, "Hui_Wall_left")
	assert.Equal(t, []float64{10, 0, 10, 400}, left.Geometry.Points)

	// door centre (300, 10) lies on the top wall, half way along its 6 m
	require.Len(t, top.Geometry.Openings, 1)
	door := top.Geometry.Openings[0]
	assert.Equal(t, "Door_1", door.ID)
	assert.InDelta(t, 2.5, door.FromM, 1e-9)
	assert.InDelta(t, 3.5, door.ToM, 1e-9)
	assert.Zero(t, door.BottomM)
	assert.Equal(t, doorTop, door.TopM)
	assert.Equal(t, []string{"Wall_top"}, find(t, plan, "Door_1").RelatedTo)

	require.Len(t, left.Geometry.Openings, 1)
	window := left.Geometry.Openings[0]
	assert.InDelta(t, 1.5, window.FromM, 1e-9)
	assert.InDelta(t, 2.5, window.ToM, 1e-9)
	assert.Equal(t, windowBottom, window.BottomM)

	assert.Equal(t, "kitchen", find(t, plan, "Kitchen_room").ZoneType)
	assert.Equal(t, "bedroom", find(t, plan, "Room_bedroom_2").ZoneType)
	assert.Equal(t, "balcony", find(t, plan, "Balcony_1").ZoneType)
}

func TestImportedPlanExtracts(t *testing.T) {
	t.Parallel()

	plan, err := New().Import(strings.NewReader(floorSVG))
	require.NoError(t, err)

	ex := geometry.Extract(plan)
	require.Len(t, ex.Walls, 2)
	assert.InDelta(t, 6.0, ex.Walls[0].Length, 1e-9)
	assert.InDelta(t, 0.2, ex.Walls[0].Thickness, 1e-9)
	assert.Len(t, ex.Walls[0].Openings, 1)
	assert.Len(t, ex.Zones, 3)
}

func TestImportScaleAndExtent(t *testing.T) {
	t.Parallel()

	svg := `<svg xmlns="http://www.w3.org/2000/svg"><rect id="Wall_1" x="0" y="0" width="500" height="25"/></svg>`
	plan, err := New(WithScale(50)).Import(strings.NewReader(svg))
	require.NoError(t, err)

	assert.Equal(t, 50.0, plan.Meta.Scale.PxPerMeter)
	assert.Equal(t, 500.0, plan.Meta.Width)
	assert.Equal(t, 25.0, plan.Meta.Height)
	assert.Nil(t, plan.Meta.CeilingHeightM)
}

func TestImportOpeningWithoutWalls(t *testing.T) {
	t.Parallel()

	svg := `<svg xmlns="http://www.w3.org/2000/svg"><rect id="Door_9" x="0" y="0" width="80" height="10"/></svg>`
	plan, err := New().Import(strings.NewReader(svg))
	require.NoError(t, err)
	require.Len(t, plan.Elements, 1)
	assert.Equal(t, models.ElementDoor, plan.Elements[0].Type)
	assert.Empty(t, plan.Elements[0].RelatedTo)
}

func TestImportRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := New().Import(strings.NewReader("not xml at all"))
	assert.Error(t, err)
}

func TestParsePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    string
		want []point
	}{
		{"absolute", "M 0 0 L 10 0 L 10 5", []point{{0, 0}, {10, 0}, {10, 5}}},
		{"relative", "m 1,1 l 4,0 l 0,4", []point{{1, 1}, {5, 1}, {5, 5}}},
		{"hv", "M 0 0 H 10 V 10 h -10 v -10", []point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}},
		{"implicit pairs", "M 0 0 10 0 10 10", []point{{0, 0}, {10, 0}, {10, 10}}},
		{"closed", "M 0 0 L 4 0 L 4 4 Z", []point{{0, 0}, {4, 0}, {4, 4}, {0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePath(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parsePath("  ")
	assert.Error(t, err)
}

func TestZoneTypeFromID(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Kitchen_room":     "kitchen",
		"Toilet_room":      "bathroom",
		"Hall_room":        "entrance_hall",
		"Room_living_1":    "living_room",
		"Bedroom_Room":     "bedroom",
		"Room_3":           "room",
		"Storage_room":     "room",
		"Room_home_office": "home_office",
	}
	for id, want := range cases {
		assert.Equal(t, want, zoneTypeFromID(id), id)
	}
}
