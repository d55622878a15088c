package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ============================================================
// Coordinate transform
// ============================================================

// GroundPoint is a point on the floor plane in meters.
// Pixel X maps to X, pixel Y maps to depth Z.
type GroundPoint struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Vec lifts the point to 3D at height y.
func (p GroundPoint) Vec(y float64) r3.Vec {
	return r3.Vec{X: p.X, Y: y, Z: p.Z}
}

func (p GroundPoint) Distance(q GroundPoint) float64 {
	return math.Hypot(q.X-p.X, q.Z-p.Z)
}

// ToGround maps a pixel point to the ground plane. Non-finite coordinates
// become 0 and an unusable scale becomes DefaultPxPerMeter; it never fails.
func ToGround(x, y, scale float64) GroundPoint {
	s := NormalizeScale(scale)
	return GroundPoint{
		X: SafeNumber(x, 0) / s,
		Z: SafeNumber(y, 0) / s,
	}
}

// ToPixel is the inverse of ToGround.
func ToPixel(p GroundPoint, scale float64) (float64, float64) {
	s := NormalizeScale(scale)
	return p.X * s, p.Z * s
}
