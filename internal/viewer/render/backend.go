package render

import (
	"encoding/json"
	"fmt"

	"planviewer/internal/viewer/engine"
)

// Backend draws one engine frame into an output document.
type Backend interface {
	ContentType() string
	Render(frame engine.Frame) ([]byte, error)
}

// ForFormat picks a backend by name: "svg" or "json".
func ForFormat(format string) (Backend, error) {
	switch format {
	case "svg":
		return NewSVG(), nil
	case "json", "":
		return JSON{}, nil
	}
	return nil, fmt.Errorf("unknown render format %q", format)
}

// ============================================================
// Retained backend
// ============================================================

// JSON emits the scene graph and camera as a document a client-side scene
// graph can mount.
type JSON struct {
	Indent bool
}

func (JSON) ContentType() string {
	return "application/json"
}

func (j JSON) Render(frame engine.Frame) ([]byte, error) {
	if frame.Scene == nil {
		return nil, fmt.Errorf("frame has no scene")
	}
	if j.Indent {
		return json.MarshalIndent(frame, "", "  ")
	}
	return json.Marshal(frame)
}
