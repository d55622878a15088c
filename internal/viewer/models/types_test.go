package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaAcceptsBothScaleSpellings(t *testing.T) {
	t.Parallel()

	var snake, camel PlanDocument
	require.NoError(t, json.Unmarshal([]byte(`{"meta":{"width":10,"height":20,"scale":{"px_per_meter":80},"ceiling_height_m":3}}`), &snake))
	require.NoError(t, json.Unmarshal([]byte(`{"meta":{"width":10,"height":20,"scale":{"pxPerMeter":80},"ceilingHeightMeters":3}}`), &camel))

	require.NotNil(t, snake.Meta.Scale)
	require.NotNil(t, camel.Meta.Scale)
	assert.Equal(t, 80.0, snake.Meta.Scale.PxPerMeter)
	assert.Equal(t, 80.0, camel.Meta.Scale.PxPerMeter)
	require.NotNil(t, camel.Meta.CeilingHeightM)
	assert.Equal(t, 3.0, *camel.Meta.CeilingHeightM)
	assert.Equal(t, 10.0, camel.Meta.Width)
}

func TestPlacedObjectDefaultsAndClone(t *testing.T) {
	t.Parallel()

	obj := PlacedObject{ID: "chair_1", Type: "chair"}
	assert.Equal(t, DefaultObjectSize, obj.ResolvedSize())
	assert.Zero(t, obj.Yaw())

	y := 0.45
	obj.Position.Y = &y
	obj.Rotation = &Vec3{Y: 1.2}
	obj.Meta = map[string]any{"note": "x"}

	clone := obj.Clone()
	*clone.Position.Y = 9
	clone.Rotation.Y = 0
	clone.Meta["note"] = "y"

	assert.Equal(t, 0.45, *obj.Position.Y)
	assert.Equal(t, 1.2, obj.Yaw())
	assert.Equal(t, "x", obj.Meta["note"])
}

func TestResolvedSizeFallsBackPerComponent(t *testing.T) {
	t.Parallel()

	obj := PlacedObject{Size: &Vec3{X: math.Inf(1), Y: 1.2, Z: -3}}
	assert.Equal(t, Vec3{X: DefaultObjectSize.X, Y: 1.2, Z: DefaultObjectSize.Z}, obj.ResolvedSize())

	obj.Size = &Vec3{X: 0, Y: math.NaN(), Z: 0.4}
	assert.Equal(t, Vec3{X: DefaultObjectSize.X, Y: DefaultObjectSize.Y, Z: 0.4}, obj.ResolvedSize())
}

func TestFindObject(t *testing.T) {
	t.Parallel()

	plan := PlanDocument{Objects3D: []PlacedObject{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, 1, plan.FindObject("b"))
	assert.Equal(t, -1, plan.FindObject("zzz"))
}
