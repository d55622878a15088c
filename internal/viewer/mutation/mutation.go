// Package mutation builds new plan documents from edits. Every function
// returns a fresh document and leaves its input untouched; meta and elements
// are shared read-only, objects3d is copied.
package mutation

import (
	"planviewer/internal/viewer/geometry"
	"planviewer/internal/viewer/models"
)

// AddObject appends obj to objects3d.
func AddObject(plan models.PlanDocument, obj models.PlacedObject) models.PlanDocument {
	objects := copyObjects(plan.Objects3D, 1)
	objects = append(objects, obj.Clone())
	return withObjects(plan, objects)
}

// UpdateObject replaces the object with the same id, or appends it when the
// id is unknown.
func UpdateObject(plan models.PlanDocument, updated models.PlacedObject) models.PlanDocument {
	idx := plan.FindObject(updated.ID)
	if idx < 0 {
		return AddObject(plan, updated)
	}
	objects := copyObjects(plan.Objects3D, 0)
	objects[idx] = updated.Clone()
	return withObjects(plan, objects)
}

// RotateObject adds delta to the yaw of the object with id. Position and
// size are left as they are. Unknown ids return an unchanged copy.
func RotateObject(plan models.PlanDocument, id string, delta float64) models.PlanDocument {
	idx := plan.FindObject(id)
	objects := copyObjects(plan.Objects3D, 0)
	if idx < 0 {
		return withObjects(plan, objects)
	}

	obj := objects[idx]
	rot := models.Vec3{}
	if obj.Rotation != nil {
		rot = *obj.Rotation
	}
	rot.Y = geometry.NormalizeYaw(rot.Y + geometry.SafeNumber(delta, 0))
	obj.Rotation = &rot
	objects[idx] = obj
	return withObjects(plan, objects)
}

// RemoveObject drops the object with id. Unknown ids return an unchanged copy.
func RemoveObject(plan models.PlanDocument, id string) models.PlanDocument {
	objects := make([]models.PlacedObject, 0, len(plan.Objects3D))
	for _, obj := range plan.Objects3D {
		if obj.ID == id {
			continue
		}
		objects = append(objects, obj.Clone())
	}
	return withObjects(plan, objects)
}

func copyObjects(src []models.PlacedObject, extra int) []models.PlacedObject {
	out := make([]models.PlacedObject, len(src), len(src)+extra)
	for i, obj := range src {
		out[i] = obj.Clone()
	}
	return out
}

func withObjects(plan models.PlanDocument, objects []models.PlacedObject) models.PlanDocument {
	return models.PlanDocument{
		Meta:      plan.Meta,
		Elements:  plan.Elements,
		Objects3D: objects,
	}
}
