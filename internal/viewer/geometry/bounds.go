package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds is an axis-aligned bounding box. The zero value is empty.
type Bounds struct {
	Min r3.Vec
	Max r3.Vec
	set bool
}

// Extend expands the box to include a point.
func (b *Bounds) Extend(p r3.Vec) {
	if !b.set {
		b.Min, b.Max, b.set = p, p, true
		return
	}
	b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
	b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
}

// Union expands the box to include other.
func (b *Bounds) Union(other Bounds) {
	if !other.set {
		return
	}
	b.Extend(other.Min)
	b.Extend(other.Max)
}

func (b Bounds) Empty() bool {
	return !b.set
}

func (b Bounds) Size() r3.Vec {
	if !b.set {
		return r3.Vec{}
	}
	return r3.Sub(b.Max, b.Min)
}

func (b Bounds) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Diagonal returns the length of the box diagonal.
func (b Bounds) Diagonal() float64 {
	return r3.Norm(b.Size())
}

// Degenerate reports an empty box or one that collapsed to a point.
func (b Bounds) Degenerate() bool {
	return !b.set || b.Diagonal() <= Epsilon
}

// ============================================================
// Rays
// ============================================================

type Ray struct {
	Origin    r3.Vec
	Direction r3.Vec
}

// IntersectGround intersects the ray with the horizontal plane at height y.
func IntersectGround(ray Ray, y float64) (GroundPoint, bool) {
	if math.Abs(ray.Direction.Y) < Epsilon {
		return GroundPoint{}, false
	}
	t := (y - ray.Origin.Y) / ray.Direction.Y
	if t < 0 {
		return GroundPoint{}, false
	}
	hit := r3.Add(ray.Origin, r3.Scale(t, ray.Direction))
	return GroundPoint{X: hit.X, Z: hit.Z}, true
}
