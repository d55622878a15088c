package models

import (
	"encoding/json"
	"math"
)

// ============================================================
// Plan document
// ============================================================

// PlanDocument is the floor plan exchanged with the surrounding application.
// Elements are in pixel space, objects3d in meters.
type PlanDocument struct {
	Meta      Meta           `json:"meta"`
	Elements  []Element      `json:"elements"`
	Objects3D []PlacedObject `json:"objects3d"`
}

type Meta struct {
	Width          float64     `json:"width"`
	Height         float64     `json:"height"`
	Unit           string      `json:"unit,omitempty"`
	Scale          *Scale      `json:"scale,omitempty"`
	CeilingHeightM *float64    `json:"ceiling_height_m,omitempty"`
	Background     *Background `json:"background,omitempty"`
}

// UnmarshalJSON accepts both ceiling_height_m and ceilingHeightMeters.
func (m *Meta) UnmarshalJSON(data []byte) error {
	type plain Meta
	var aux struct {
		plain
		CeilingCamel *float64 `json:"ceilingHeightMeters"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Meta(aux.plain)
	if m.CeilingHeightM == nil && aux.CeilingCamel != nil {
		m.CeilingHeightM = aux.CeilingCamel
	}
	return nil
}

type Scale struct {
	PxPerMeter float64 `json:"px_per_meter"`
}

// UnmarshalJSON accepts both px_per_meter and pxPerMeter.
func (s *Scale) UnmarshalJSON(data []byte) error {
	var aux struct {
		Snake *float64 `json:"px_per_meter"`
		Camel *float64 `json:"pxPerMeter"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.Snake != nil:
		s.PxPerMeter = *aux.Snake
	case aux.Camel != nil:
		s.PxPerMeter = *aux.Camel
	default:
		s.PxPerMeter = 0
	}
	return nil
}

type Background struct {
	FileID  string  `json:"file_id"`
	Opacity float64 `json:"opacity"`
}

// ============================================================
// Elements
// ============================================================

type ElementType string

const (
	ElementWall   ElementType = "wall"
	ElementZone   ElementType = "zone"
	ElementDoor   ElementType = "door"
	ElementWindow ElementType = "window"
	ElementLabel  ElementType = "label"
)

type WallRole string

const (
	RoleExisting WallRole = "EXISTING"
	RoleToDelete WallRole = "TO_DELETE"
	RoleNew      WallRole = "NEW"
	RoleModified WallRole = "MODIFIED"
)

type GeometryKind string

const (
	GeometrySegment GeometryKind = "segment"
	GeometryPolygon GeometryKind = "polygon"
	GeometryPoint   GeometryKind = "point"
)

// Element is a wall, zone or any other 2D primitive of the plan.
// Fields that do not apply to the element type stay empty.
type Element struct {
	ID          string      `json:"id"`
	Type        ElementType `json:"type"`
	Role        WallRole    `json:"role,omitempty"`
	LoadBearing bool        `json:"loadBearing,omitempty"`
	Thickness   *float64    `json:"thickness,omitempty"`
	ZoneType    string      `json:"zoneType,omitempty"`
	RelatedTo   []string    `json:"relatedTo,omitempty"`
	Text        string      `json:"text,omitempty"`
	Style       *Style      `json:"style,omitempty"`
	Geometry    Geometry    `json:"geometry"`
}

type Geometry struct {
	Kind     GeometryKind `json:"kind,omitempty"`
	Points   []float64    `json:"points,omitempty"`
	X        *float64     `json:"x,omitempty"`
	Y        *float64     `json:"y,omitempty"`
	Openings []Opening    `json:"openings,omitempty"`
}

// Opening is a door or window cut into a wall, measured in meters along the wall.
type Opening struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	FromM   float64 `json:"from_m"`
	ToM     float64 `json:"to_m"`
	BottomM float64 `json:"bottom_m"`
	TopM    float64 `json:"top_m"`
}

type Style struct {
	Color      string `json:"color,omitempty"`
	TextureURL string `json:"textureUrl,omitempty"`
	Texture    string `json:"texture,omitempty"` // handle in the texture catalog
}

// ============================================================
// Placed objects
// ============================================================

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Position keeps Y optional: an unset height means "stand on the floor".
type Position struct {
	X float64  `json:"x"`
	Y *float64 `json:"y,omitempty"`
	Z float64  `json:"z"`
}

type PlacedObject struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position Position       `json:"position"`
	Size     *Vec3          `json:"size,omitempty"`
	Rotation *Vec3          `json:"rotation,omitempty"`
	WallID   string         `json:"wallId,omitempty"`
	ZoneID   string         `json:"zoneId,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

var DefaultObjectSize = Vec3{X: 2, Y: 0.8, Z: 1}

// ResolvedSize returns the object extents. Missing, non-finite or non-positive
// components fall back to DefaultObjectSize one by one.
func (o PlacedObject) ResolvedSize() Vec3 {
	if o.Size == nil {
		return DefaultObjectSize
	}
	return Vec3{
		X: positiveOr(o.Size.X, DefaultObjectSize.X),
		Y: positiveOr(o.Size.Y, DefaultObjectSize.Y),
		Z: positiveOr(o.Size.Z, DefaultObjectSize.Z),
	}
}

func positiveOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}

// Yaw returns rotation about the vertical axis.
func (o PlacedObject) Yaw() float64 {
	if o.Rotation == nil {
		return 0
	}
	return o.Rotation.Y
}

// Clone returns a deep copy that shares no pointers with o.
func (o PlacedObject) Clone() PlacedObject {
	out := o
	if o.Position.Y != nil {
		y := *o.Position.Y
		out.Position.Y = &y
	}
	if o.Size != nil {
		s := *o.Size
		out.Size = &s
	}
	if o.Rotation != nil {
		r := *o.Rotation
		out.Rotation = &r
	}
	if o.Meta != nil {
		out.Meta = make(map[string]any, len(o.Meta))
		for k, v := range o.Meta {
			out.Meta[k] = v
		}
	}
	return out
}

// FindObject returns the index of the object with id, or -1.
func (p PlanDocument) FindObject(id string) int {
	for i, obj := range p.Objects3D {
		if obj.ID == id {
			return i
		}
	}
	return -1
}
