package engine

import (
	"errors"

	"planviewer/internal/viewer/controller"
	"planviewer/internal/viewer/geometry"
)

var (
	ErrUnknownIntent = errors.New("unknown intent")
	ErrMissingPoint  = errors.New("pointer intent without point or screen position")
)

type IntentKind string

const (
	IntentPointerDown  IntentKind = "pointer_down"
	IntentPointerMove  IntentKind = "pointer_move"
	IntentPointerUp    IntentKind = "pointer_up"
	IntentRotateStep   IntentKind = "rotate_step"
	IntentAddObject    IntentKind = "add_object"
	IntentRemoveObject IntentKind = "remove_object"
	IntentSetMode      IntentKind = "set_mode"
	IntentToggleMode   IntentKind = "toggle_mode"
	IntentDeselect     IntentKind = "deselect"
	IntentOrbit        IntentKind = "orbit"
	IntentZoom         IntentKind = "zoom"
)

// Screen is a pointer position in viewport pixels.
type Screen struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Intent is one user action. Pointer intents carry either a ground Point
// (meters) or a Screen position that is unprojected through the camera.
type Intent struct {
	Kind       IntentKind            `json:"kind"`
	ObjectID   string                `json:"objectId,omitempty"`
	Handle     bool                  `json:"handle,omitempty"`
	Point      *geometry.GroundPoint `json:"point,omitempty"`
	Screen     *Screen               `json:"screen,omitempty"`
	Direction  controller.Direction  `json:"direction,omitempty"`
	ObjectType string                `json:"objectType,omitempty"`
	Mode       string                `json:"mode,omitempty"`
	DAzimuth   float64               `json:"dAzimuth,omitempty"`
	DElevation float64               `json:"dElevation,omitempty"`
	Delta      float64               `json:"delta,omitempty"`
}
