package controller

import (
	"math"

	"github.com/google/uuid"

	"planviewer/internal/viewer/geometry"
	"planviewer/internal/viewer/models"
	"planviewer/internal/viewer/mutation"
)

// ============================================================
// Interactive Object Controller
// ============================================================

// Hit describes a pointer-down: the object under the pointer (empty for
// background), whether a manipulation handle was engaged, and the ground point.
type Hit struct {
	ObjectID string
	Handle   bool
	Point    geometry.GroundPoint
}

// Result reports the outcome of an event. Plan is set only when an edit was
// committed.
type Result struct {
	Plan      models.PlanDocument
	Committed bool
}

type drag struct {
	id     string
	start  geometry.GroundPoint
	origin models.PlacedObject
	pose   models.PlacedObject
	moved  bool
}

// Controller owns selection and drag state for one viewing session. It never
// keeps the plan: each event receives the current document and returns the
// next one when an edit commits.
type Controller struct {
	state    State
	selected string
	mode     Mode
	drag     *drag
	newID    func(objectType string) string
}

type Option func(*Controller)

// WithIDGenerator overrides how ids of created objects are minted.
func WithIDGenerator(fn func(objectType string) string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

func New(opts ...Option) *Controller {
	c := &Controller{
		state: Idle,
		mode:  ModeTranslate,
		newID: func(objectType string) string {
			return objectType + "_" + uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{State: c.state, Selected: c.selected, Mode: c.mode}
}

func (c *Controller) State() State      { return c.state }
func (c *Controller) SelectedID() string { return c.selected }
func (c *Controller) Mode() Mode         { return c.mode }

// SetMode switches between translate and rotate. It is refused mid-drag.
func (c *Controller) SetMode(m Mode) bool {
	if c.state == Dragging {
		return false
	}
	c.mode = m
	return true
}

func (c *Controller) ToggleMode() bool {
	if c.mode == ModeTranslate {
		return c.SetMode(ModeRotate)
	}
	return c.SetMode(ModeTranslate)
}

// PointerDown selects, deselects or starts a drag. A drag still in progress
// is committed first.
func (c *Controller) PointerDown(plan models.PlanDocument, hit Hit) Result {
	res := c.endDrag(plan)
	if res.Committed {
		plan = res.Plan
	}

	if hit.ObjectID == "" || plan.FindObject(hit.ObjectID) < 0 {
		c.clear()
		return res
	}

	if hit.Handle && c.state == Selected && c.selected == hit.ObjectID {
		obj := plan.Objects3D[plan.FindObject(hit.ObjectID)]
		c.drag = &drag{
			id:     obj.ID,
			start:  safePoint(hit.Point),
			origin: obj.Clone(),
			pose:   obj.Clone(),
		}
		c.state = Dragging
		return res
	}

	c.state = Selected
	c.selected = hit.ObjectID
	return res
}

// PointerMove updates the optimistic pose of the dragged object.
func (c *Controller) PointerMove(p geometry.GroundPoint) bool {
	if c.state != Dragging || c.drag == nil {
		return false
	}
	p = safePoint(p)
	d := c.drag

	pose := d.origin.Clone()
	switch c.mode {
	case ModeTranslate:
		pose.Position.X = d.origin.Position.X + (p.X - d.start.X)
		pose.Position.Z = d.origin.Position.Z + (p.Z - d.start.Z)
	case ModeRotate:
		center := geometry.GroundPoint{X: d.origin.Position.X, Z: d.origin.Position.Z}
		if center.Distance(d.start) <= geometry.Epsilon || center.Distance(p) <= geometry.Epsilon {
			return false
		}
		swept := math.Atan2(p.Z-center.Z, p.X-center.X) - math.Atan2(d.start.Z-center.Z, d.start.X-center.X)
		rot := models.Vec3{}
		if d.origin.Rotation != nil {
			rot = *d.origin.Rotation
		}
		rot.Y = geometry.NormalizeYaw(rot.Y + swept)
		pose.Rotation = &rot
	}

	d.pose = pose
	d.moved = true
	return true
}

// PointerUp ends a drag and commits the last computed pose.
func (c *Controller) PointerUp(plan models.PlanDocument) Result {
	return c.endDrag(plan)
}

// RotateStep turns the selected object a quarter turn and commits it. A drag
// in progress is committed first and the step applies to its final pose.
func (c *Controller) RotateStep(plan models.PlanDocument, dir Direction) (Result, error) {
	delta, err := dir.delta()
	if err != nil {
		return Result{}, err
	}
	res := c.endDrag(plan)
	if res.Committed {
		plan = res.Plan
	}
	if c.state != Selected || plan.FindObject(c.selected) < 0 {
		return res, nil
	}
	return Result{Plan: mutation.RotateObject(plan, c.selected, delta), Committed: true}, nil
}

// Add places a new object of objectType at the plan center and selects it.
func (c *Controller) Add(plan models.PlanDocument, objectType string) Result {
	res := c.endDrag(plan)
	if res.Committed {
		plan = res.Plan
	}

	obj := NewObject(plan, c.newID(objectType), objectType)
	c.state = Selected
	c.selected = obj.ID
	return Result{Plan: mutation.AddObject(plan, obj), Committed: true}
}

// RemoveSelected deletes the selected object and returns to Idle.
func (c *Controller) RemoveSelected(plan models.PlanDocument) Result {
	if c.state != Selected || plan.FindObject(c.selected) < 0 {
		return Result{}
	}
	id := c.selected
	c.clear()
	return Result{Plan: mutation.RemoveObject(plan, id), Committed: true}
}

// Deselect ends any drag and clears the selection.
func (c *Controller) Deselect(plan models.PlanDocument) Result {
	res := c.endDrag(plan)
	c.clear()
	return res
}

// Reconcile drops selection and drag state that refer to objects missing
// from a replaced plan.
func (c *Controller) Reconcile(plan models.PlanDocument) {
	if c.selected != "" && plan.FindObject(c.selected) < 0 {
		c.clear()
	}
}

// Apply returns objects with the in-progress drag pose substituted. The
// input slice is not modified.
func (c *Controller) Apply(objects []models.PlacedObject) []models.PlacedObject {
	if c.state != Dragging || c.drag == nil || !c.drag.moved {
		return objects
	}
	poses := map[string]models.PlacedObject{c.drag.id: c.drag.pose}

	out := make([]models.PlacedObject, len(objects))
	for i, obj := range objects {
		if pose, ok := poses[obj.ID]; ok {
			out[i] = pose.Clone()
			continue
		}
		out[i] = obj
	}
	return out
}

func (c *Controller) endDrag(plan models.PlanDocument) Result {
	if c.state != Dragging || c.drag == nil {
		return Result{}
	}
	d := c.drag
	c.drag = nil
	c.state = Selected
	c.selected = d.id
	if !d.moved {
		return Result{}
	}
	return Result{Plan: mutation.UpdateObject(plan, d.pose), Committed: true}
}

func (c *Controller) clear() {
	c.state = Idle
	c.selected = ""
	c.drag = nil
}

// NewObject builds a default object at the plan center.
func NewObject(plan models.PlanDocument, id, objectType string) models.PlacedObject {
	scale := geometry.ResolveScale(plan.Meta)
	center := geometry.ToGround(plan.Meta.Width/2, plan.Meta.Height/2, scale)
	size := models.DefaultObjectSize

	return models.PlacedObject{
		ID:       id,
		Type:     objectType,
		Position: models.Position{X: center.X, Z: center.Z},
		Size:     &size,
		Rotation: &models.Vec3{},
	}
}

func safePoint(p geometry.GroundPoint) geometry.GroundPoint {
	return geometry.GroundPoint{X: geometry.SafeNumber(p.X, 0), Z: geometry.SafeNumber(p.Z, 0)}
}
