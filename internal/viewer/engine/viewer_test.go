package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planviewer/internal/viewer/controller"
	"planviewer/internal/viewer/geometry"
	"planviewer/internal/viewer/models"
)

func scenarioPlan() models.PlanDocument {
	return models.PlanDocument{
		Meta: models.Meta{Width: 500, Height: 1000, Scale: &models.Scale{PxPerMeter: 100}},
		Elements: []models.Element{
			{ID: "w1", Type: models.ElementWall, Geometry: models.Geometry{Kind: models.GeometrySegment, Points: []float64{0, 0, 500, 0}}},
			{ID: "z1", Type: models.ElementZone, ZoneType: "living_room", Geometry: models.Geometry{Kind: models.GeometryPolygon, Points: []float64{0, 0, 500, 0, 500, 1000, 0, 1000}}},
		},
	}
}

type recorder struct {
	plans []models.PlanDocument
}

func (r *recorder) update(p models.PlanDocument) {
	r.plans = append(r.plans, p)
}

func (r *recorder) last() models.PlanDocument {
	return r.plans[len(r.plans)-1]
}

func newViewer(t *testing.T, plan models.PlanDocument) (*Viewer, *recorder) {
	t.Helper()
	rec := &recorder{}
	v := New(plan, rec.update, WithIDGenerator(func(objectType string) string { return objectType + "_1" }))
	return v, rec
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	v, rec := newViewer(t, scenarioPlan())

	frame := v.Render()
	require.Len(t, frame.Scene.Walls, 1)
	wall := frame.Scene.Walls[0]
	assert.InDelta(t, 5.0, wall.Size.X, 1e-9)
	assert.InDelta(t, 2.5, wall.Center.X, 1e-9)
	assert.InDelta(t, 0.0, wall.Center.Z, 1e-9)
	assert.InDelta(t, 0.0, wall.Yaw, 1e-12)
	assert.True(t, frame.Reframed)

	committed, err := v.Dispatch(Intent{Kind: IntentAddObject, ObjectType: "chair"})
	require.NoError(t, err)
	require.True(t, committed)
	require.Len(t, rec.plans, 1)

	chair := rec.last().Objects3D[0]
	assert.Equal(t, "chair_1", chair.ID)
	assert.InDelta(t, 2.5, chair.Position.X, 1e-9)
	assert.InDelta(t, 5.0, chair.Position.Z, 1e-9)
	assert.Equal(t, controller.Selected, v.Snapshot().State)

	committed, err = v.Dispatch(Intent{Kind: IntentRotateStep, Direction: controller.RotateLeft})
	require.NoError(t, err)
	require.True(t, committed)

	rotated := rec.last().Objects3D[0]
	assert.InDelta(t, -math.Pi/2, rotated.Yaw(), 1e-12)
	assert.Equal(t, chair.Position, rotated.Position)
	assert.Equal(t, chair.ResolvedSize(), rotated.ResolvedSize())

	// only objects3d changes between committed plans
	assert.Equal(t, scenarioPlan().Meta, rec.last().Meta)
	assert.Empty(t, cmp.Diff(scenarioPlan().Elements, rec.last().Elements))
}

func TestDragThroughIntents(t *testing.T) {
	t.Parallel()

	plan := scenarioPlan()
	plan.Objects3D = []models.PlacedObject{{ID: "sofa", Type: "sofa", Position: models.Position{X: 1, Z: 1}}}
	v, rec := newViewer(t, plan)

	// picking by point selects the object under it
	_, err := v.Dispatch(Intent{Kind: IntentPointerDown, Point: &geometry.GroundPoint{X: 1.2, Z: 1.1}})
	require.NoError(t, err)
	require.Equal(t, "sofa", v.Snapshot().Selected)

	_, err = v.Dispatch(Intent{Kind: IntentPointerDown, ObjectID: "sofa", Handle: true, Point: &geometry.GroundPoint{X: 1, Z: 1}})
	require.NoError(t, err)
	require.Equal(t, controller.Dragging, v.Snapshot().State)

	committed, err := v.Dispatch(Intent{Kind: IntentPointerMove, Point: &geometry.GroundPoint{X: 2, Z: 3}})
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Empty(t, rec.plans, "intermediate moves stay local")

	// the optimistic pose is rendered
	node, ok := v.Render().Scene.Object("sofa")
	require.True(t, ok)
	assert.InDelta(t, 2.0, node.Center.X, 1e-9)
	assert.InDelta(t, 3.0, node.Center.Z, 1e-9)

	committed, err = v.Dispatch(Intent{Kind: IntentPointerUp})
	require.NoError(t, err)
	require.True(t, committed)
	assert.Equal(t, 2.0, rec.last().Objects3D[0].Position.X)
	assert.Equal(t, 3.0, rec.last().Objects3D[0].Position.Z)
	assert.Equal(t, rec.last(), v.Plan())
}

func TestCameraStableUnderObjectEdits(t *testing.T) {
	t.Parallel()

	v, _ := newViewer(t, scenarioPlan())
	first := v.Render()
	require.True(t, first.Reframed)

	_, err := v.Dispatch(Intent{Kind: IntentAddObject, ObjectType: "table"})
	require.NoError(t, err)
	_, err = v.Dispatch(Intent{Kind: IntentRotateStep, Direction: controller.RotateRight})
	require.NoError(t, err)

	next := v.Render()
	assert.False(t, next.Reframed)
	assert.Equal(t, first.Camera, next.Camera)

	_, err = v.Dispatch(Intent{Kind: IntentRemoveObject})
	require.NoError(t, err)
	assert.Equal(t, first.Camera, v.Render().Camera)

	wider := v.Plan()
	wider.Meta.Width = 800
	v.SetPlan(wider)
	changed := v.Render()
	assert.True(t, changed.Reframed)
	assert.NotEqual(t, first.Camera.Target, changed.Camera.Target)
}

func TestOrbitSurvivesRender(t *testing.T) {
	t.Parallel()

	v, _ := newViewer(t, scenarioPlan())
	v.Render()

	_, err := v.Dispatch(Intent{Kind: IntentOrbit, DAzimuth: 0.4})
	require.NoError(t, err)
	_, err = v.Dispatch(Intent{Kind: IntentZoom, Delta: 0.5})
	require.NoError(t, err)

	orbited := v.Render()
	assert.False(t, orbited.Reframed)
	assert.InDelta(t, 0.4, orbited.Camera.Azimuth, 1e-12)
}

func TestSetPlanWithEqualCopyKeepsView(t *testing.T) {
	t.Parallel()

	broken := func() models.PlanDocument {
		plan := scenarioPlan()
		thickness := 0.25
		plan.Elements = append(plan.Elements, models.Element{ID: "w_nan", Type: models.ElementWall,
			Thickness: &thickness, Geometry: models.Geometry{Points: []float64{math.NaN(), 0, 100, 0}}})
		return plan
	}

	v, _ := newViewer(t, broken())
	require.True(t, v.Render().Reframed)
	_, err := v.Dispatch(Intent{Kind: IntentOrbit, DAzimuth: 1})
	require.NoError(t, err)

	v.SetPlan(broken())
	frame := v.Render()
	assert.False(t, frame.Reframed)
	assert.InDelta(t, 1.0, frame.Camera.Azimuth, 1e-12)
}

func TestScreenPointerPicksObject(t *testing.T) {
	t.Parallel()

	plan := scenarioPlan()
	v, _ := newViewer(t, plan)
	frame := v.Render()

	// drop an object where the screen center meets the floor, then click there
	under, ok := geometry.IntersectGround(frame.Camera.Unproject(400, 300, 800, 600), 0)
	require.True(t, ok)
	plan.Objects3D = []models.PlacedObject{{ID: "rug", Type: "rug", Position: models.Position{X: under.X, Z: under.Z}}}
	v.SetPlan(plan)

	_, err := v.Dispatch(Intent{Kind: IntentPointerDown, Screen: &Screen{X: 400, Y: 300, Width: 800, Height: 600}})
	require.NoError(t, err)
	assert.Equal(t, "rug", v.Snapshot().Selected)
}

func TestDispatchErrors(t *testing.T) {
	t.Parallel()

	v, rec := newViewer(t, scenarioPlan())

	_, err := v.Dispatch(Intent{Kind: "teleport"})
	assert.True(t, errors.Is(err, ErrUnknownIntent))

	_, err = v.Dispatch(Intent{Kind: IntentPointerMove})
	assert.ErrorIs(t, err, ErrMissingPoint)

	_, err = v.Dispatch(Intent{Kind: IntentPointerDown, ObjectID: "x", Handle: true})
	assert.ErrorIs(t, err, ErrMissingPoint)

	_, err = v.Dispatch(Intent{Kind: IntentSetMode, Mode: "scale"})
	assert.Error(t, err)

	_, err = v.Dispatch(Intent{Kind: IntentAddObject})
	assert.Error(t, err)

	_, err = v.Dispatch(Intent{Kind: IntentRotateStep, Direction: "up"})
	assert.Error(t, err)

	assert.Empty(t, rec.plans)
}

func TestSetPlanDropsStaleSelection(t *testing.T) {
	t.Parallel()

	v, _ := newViewer(t, scenarioPlan())
	_, err := v.Dispatch(Intent{Kind: IntentAddObject, ObjectType: "lamp"})
	require.NoError(t, err)
	require.Equal(t, controller.Selected, v.Snapshot().State)

	v.SetPlan(scenarioPlan())
	assert.Equal(t, controller.Idle, v.Snapshot().State)
}

func TestRenderWithBrokenPlan(t *testing.T) {
	t.Parallel()

	plan := models.PlanDocument{
		Meta: models.Meta{Width: math.NaN(), Scale: &models.Scale{PxPerMeter: 0}},
		Elements: []models.Element{
			{ID: "bad", Type: models.ElementWall, Geometry: models.Geometry{Points: []float64{1, math.Inf(1), 3, 4}}},
			{ID: "dot", Type: models.ElementWall, Geometry: models.Geometry{Points: []float64{1, 1, 1, 1}}},
		},
	}
	v, _ := newViewer(t, plan)

	frame := v.Render()
	assert.Empty(t, frame.Scene.Walls)
	assert.False(t, frame.Reframed)
}
