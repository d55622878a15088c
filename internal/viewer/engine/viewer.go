// Package engine ties the floor-plan pipeline together behind an explicit
// contract: Render turns the current plan into a drawable frame, Dispatch
// applies one user intent and reports the next plan through the update
// callback.
package engine

import (
	"fmt"

	"planviewer/internal/viewer/camera"
	"planviewer/internal/viewer/controller"
	"planviewer/internal/viewer/geometry"
	"planviewer/internal/viewer/models"
	"planviewer/internal/viewer/scene"
)

// UpdateFunc receives every committed plan.
type UpdateFunc func(models.PlanDocument)

// Frame is everything a backend needs to draw one pass.
type Frame struct {
	Scene      *scene.Graph        `json:"scene"`
	Camera     camera.Camera       `json:"camera"`
	Reframed   bool                `json:"reframed"`
	Controller controller.Snapshot `json:"controller"`
	Width      float64             `json:"width"`
	Height     float64             `json:"height"`
}

type config struct {
	sceneOpts []scene.Option
	ctrlOpts  []controller.Option
}

type Option func(*config)

// WithTextures resolves style texture handles while building scenes.
func WithTextures(r scene.TextureResolver) Option {
	return func(c *config) {
		c.sceneOpts = append(c.sceneOpts, scene.WithTextures(r))
	}
}

// WithIDGenerator overrides ids minted for added objects.
func WithIDGenerator(fn func(objectType string) string) Option {
	return func(c *config) {
		c.ctrlOpts = append(c.ctrlOpts, controller.WithIDGenerator(fn))
	}
}

// Viewer is one viewing session. It is not safe for concurrent use.
type Viewer struct {
	plan     models.PlanDocument
	onUpdate UpdateFunc
	builder  *scene.Builder
	ctrl     *controller.Controller
	framer   *camera.Framer
}

func New(plan models.PlanDocument, onUpdate UpdateFunc, opts ...Option) *Viewer {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Viewer{
		plan:     plan,
		onUpdate: onUpdate,
		builder:  scene.NewBuilder(cfg.sceneOpts...),
		ctrl:     controller.New(cfg.ctrlOpts...),
		framer:   camera.NewFramer(),
	}
}

// Plan returns the last plan handed in or committed.
func (v *Viewer) Plan() models.PlanDocument {
	return v.plan
}

// SetPlan replaces the plan wholesale, e.g. after the host applied an update.
func (v *Viewer) SetPlan(plan models.PlanDocument) {
	v.plan = plan
	v.ctrl.Reconcile(plan)
}

func (v *Viewer) Snapshot() controller.Snapshot {
	return v.ctrl.Snapshot()
}

// Render extracts geometry, builds the scene with any in-progress drag pose
// applied, and re-aims the camera when the layout changed.
func (v *Viewer) Render() Frame {
	graph := v.graph()
	reframed := v.framer.Update(camera.LayoutKey(v.plan), graph.LayoutBounds())

	return Frame{
		Scene:      graph,
		Camera:     v.framer.Camera(),
		Reframed:   reframed,
		Controller: v.ctrl.Snapshot(),
		Width:      geometry.SafeNumber(v.plan.Meta.Width, 0),
		Height:     geometry.SafeNumber(v.plan.Meta.Height, 0),
	}
}

func (v *Viewer) graph() *scene.Graph {
	ex := geometry.Extract(v.plan)
	objects := v.ctrl.Apply(v.plan.Objects3D)
	return v.builder.Build(ex, objects, v.ctrl.SelectedID())
}

// Dispatch applies one intent. It reports whether a new plan was committed
// (and passed to the update callback).
func (v *Viewer) Dispatch(in Intent) (bool, error) {
	var res controller.Result

	switch in.Kind {
	case IntentPointerDown:
		hit, err := v.hit(in)
		if err != nil {
			return false, err
		}
		res = v.ctrl.PointerDown(v.plan, hit)

	case IntentPointerMove:
		p, ok, err := v.point(in)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, ErrMissingPoint
		}
		v.ctrl.PointerMove(p)

	case IntentPointerUp:
		res = v.ctrl.PointerUp(v.plan)

	case IntentRotateStep:
		var err error
		res, err = v.ctrl.RotateStep(v.plan, in.Direction)
		if err != nil {
			return false, err
		}

	case IntentAddObject:
		if in.ObjectType == "" {
			return false, fmt.Errorf("add_object: object type is required")
		}
		res = v.ctrl.Add(v.plan, in.ObjectType)

	case IntentRemoveObject:
		res = v.ctrl.RemoveSelected(v.plan)

	case IntentSetMode:
		mode, err := controller.ParseMode(in.Mode)
		if err != nil {
			return false, err
		}
		v.ctrl.SetMode(mode)

	case IntentToggleMode:
		v.ctrl.ToggleMode()

	case IntentDeselect:
		res = v.ctrl.Deselect(v.plan)

	case IntentOrbit:
		v.framer.Orbit(in.DAzimuth, in.DElevation)

	case IntentZoom:
		v.framer.Zoom(in.Delta)

	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownIntent, in.Kind)
	}

	if !res.Committed {
		return false, nil
	}
	v.plan = res.Plan
	if v.onUpdate != nil {
		v.onUpdate(res.Plan)
	}
	return true, nil
}

// hit resolves a pointer-down. Without an explicit object id the topmost
// object under the point is picked.
func (v *Viewer) hit(in Intent) (controller.Hit, error) {
	p, ok, err := v.point(in)
	if err != nil {
		return controller.Hit{}, err
	}
	if in.Handle && !ok {
		return controller.Hit{}, ErrMissingPoint
	}

	hit := controller.Hit{ObjectID: in.ObjectID, Handle: in.Handle, Point: p}
	if hit.ObjectID == "" && ok {
		if id, found := v.graph().Pick(p); found {
			hit.ObjectID = id
		}
	}
	return hit, nil
}

// point returns the ground point of a pointer intent, if it carries one.
func (v *Viewer) point(in Intent) (geometry.GroundPoint, bool, error) {
	if in.Point != nil {
		return *in.Point, true, nil
	}
	if in.Screen == nil {
		return geometry.GroundPoint{}, false, nil
	}
	ray := v.framer.Camera().Unproject(in.Screen.X, in.Screen.Y, in.Screen.Width, in.Screen.Height)
	p, ok := geometry.IntersectGround(ray, 0)
	if !ok {
		return geometry.GroundPoint{}, false, fmt.Errorf("%w: screen ray misses the ground", ErrMissingPoint)
	}
	return p, true, nil
}
