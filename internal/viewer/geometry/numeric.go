package geometry

import (
	"math"

	"planviewer/internal/viewer/models"
)

const (
	DefaultPxPerMeter    = 100.0
	DefaultCeilingHeight = 2.7
	DefaultWallThickness = 0.2 // meters
	Epsilon              = 1e-6
)

// SafeNumber replaces NaN and ±Inf with fallback.
func SafeNumber(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NormalizeScale returns s when it is a usable pixels-per-meter factor,
// otherwise DefaultPxPerMeter.
func NormalizeScale(s float64) float64 {
	if !finite(s) || s <= 0 {
		return DefaultPxPerMeter
	}
	return s
}

// ResolveScale reads meta.scale.px_per_meter.
func ResolveScale(meta models.Meta) float64 {
	if meta.Scale == nil {
		return DefaultPxPerMeter
	}
	return NormalizeScale(meta.Scale.PxPerMeter)
}

// ResolveCeilingHeight reads meta.ceiling_height_m in meters.
func ResolveCeilingHeight(meta models.Meta) float64 {
	if meta.CeilingHeightM == nil {
		return DefaultCeilingHeight
	}
	h := *meta.CeilingHeightM
	if !finite(h) || h <= 0 {
		return DefaultCeilingHeight
	}
	return h
}

// NormalizeYaw wraps an angle into (-π, π].
func NormalizeYaw(rad float64) float64 {
	if !finite(rad) {
		return 0
	}
	rad = math.Mod(rad, 2*math.Pi)
	if rad <= -math.Pi {
		rad += 2 * math.Pi
	} else if rad > math.Pi {
		rad -= 2 * math.Pi
	}
	return rad
}
