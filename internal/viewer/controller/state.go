package controller

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// States & modes
// ============================================================

type State int

const (
	Idle State = iota
	Selected
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Mode picks what a drag does: translate on the ground plane or rotate about
// the vertical axis.
type Mode int

const (
	ModeTranslate Mode = iota
	ModeRotate
)

func (m Mode) String() string {
	if m == ModeRotate {
		return "rotate"
	}
	return "translate"
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "translate":
		return ModeTranslate, nil
	case "rotate":
		return ModeRotate, nil
	}
	return ModeTranslate, fmt.Errorf("unknown mode %q", s)
}

// Direction of a discrete quarter-turn.
type Direction string

const (
	RotateLeft  Direction = "left"
	RotateRight Direction = "right"
)

const quarterTurn = math.Pi / 2

func (d Direction) delta() (float64, error) {
	switch d {
	case RotateLeft:
		return -quarterTurn, nil
	case RotateRight:
		return quarterTurn, nil
	}
	return 0, fmt.Errorf("unknown direction %q", string(d))
}

// Snapshot is the controller state exposed to renderers and clients.
type Snapshot struct {
	State    State  `json:"state"`
	Selected string `json:"selected,omitempty"`
	Mode     Mode   `json:"mode"`
}
