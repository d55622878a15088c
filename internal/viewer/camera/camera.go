package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"planviewer/internal/viewer/geometry"
)

const (
	DefaultFOV       = math.Pi / 4 // 45 degrees
	defaultElevation = math.Pi / 4
	fitMargin        = 1.2
	minDistance      = 0.1
	minElevation     = 0.05
	maxElevation     = math.Pi/2 - 0.05
)

// Camera is an orbit camera: Position circles Target at Distance, steered by
// Azimuth (around the vertical axis) and Elevation (above the ground plane).
type Camera struct {
	Position  r3.Vec  `json:"position"`
	Target    r3.Vec  `json:"target"`
	Up        r3.Vec  `json:"up"`
	FOV       float64 `json:"fov"`
	Distance  float64 `json:"distance"`
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
}

// Default is the camera used before any content has been framed.
func Default() Camera {
	c := Camera{
		Up:        r3.Vec{Y: 1},
		FOV:       DefaultFOV,
		Distance:  10,
		Elevation: defaultElevation,
	}
	c.updatePosition()
	return c
}

// Fit positions a camera so that the whole box is visible, aiming at its
// center. It returns false for empty or collapsed boxes.
func Fit(b geometry.Bounds, fov float64) (Camera, bool) {
	if b.Degenerate() {
		return Camera{}, false
	}
	if fov <= 0 || fov >= math.Pi {
		fov = DefaultFOV
	}

	radius := b.Diagonal() / 2
	c := Camera{
		Target:    b.Center(),
		Up:        r3.Vec{Y: 1},
		FOV:       fov,
		Distance:  math.Max(radius/math.Sin(fov/2)*fitMargin, minDistance),
		Elevation: defaultElevation,
	}
	c.updatePosition()
	return c, true
}

func (c *Camera) updatePosition() {
	x := c.Distance * math.Cos(c.Elevation) * math.Sin(c.Azimuth)
	y := c.Distance * math.Sin(c.Elevation)
	z := c.Distance * math.Cos(c.Elevation) * math.Cos(c.Azimuth)

	c.Position = r3.Add(c.Target, r3.Vec{X: x, Y: y, Z: z})
}

// Orbit rotates the camera around its target.
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	c.Azimuth = geometry.NormalizeYaw(c.Azimuth + geometry.SafeNumber(dAzimuth, 0))
	c.Elevation += geometry.SafeNumber(dElevation, 0)
	c.Elevation = math.Max(minElevation, math.Min(maxElevation, c.Elevation))
	c.updatePosition()
}

// Zoom scales the distance to the target by (1 + delta).
func (c *Camera) Zoom(delta float64) {
	c.Distance *= 1.0 + geometry.SafeNumber(delta, 0)
	if c.Distance < minDistance {
		c.Distance = minDistance
	}
	c.updatePosition()
}

// Unproject converts screen coordinates into a world-space ray.
func (c Camera) Unproject(screenX, screenY, width, height float64) geometry.Ray {
	if width <= 0 || height <= 0 {
		return geometry.Ray{Origin: c.Position, Direction: r3.Unit(r3.Sub(c.Target, c.Position))}
	}

	ndcX := (2.0 * screenX / width) - 1.0
	ndcY := 1.0 - (2.0 * screenY / height)

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	forward := r3.Unit(r3.Sub(c.Target, c.Position))
	right := r3.Unit(r3.Cross(forward, c.Up))
	up := r3.Unit(r3.Cross(right, forward))

	dir := r3.Add(forward, r3.Add(r3.Scale(ndcX*fovScale*aspect, right), r3.Scale(ndcY*fovScale, up)))
	return geometry.Ray{Origin: c.Position, Direction: r3.Unit(dir)}
}
