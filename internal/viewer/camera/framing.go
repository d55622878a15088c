package camera

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"

	"planviewer/internal/viewer/geometry"
	"planviewer/internal/viewer/models"
)

// ============================================================
// Layout-keyed framing
// ============================================================

// LayoutKey fingerprints the parts of a plan that decide its layout: overall
// size, scale, ceiling and the wall/zone elements. objects3d is not part of it.
// Equal plans always get equal keys, NaN coordinates included.
func LayoutKey(plan models.PlanDocument) string {
	k := keyHasher{h: fnv.New64a()}

	k.floats(
		plan.Meta.Width,
		plan.Meta.Height,
		geometry.ResolveScale(plan.Meta),
		geometry.ResolveCeilingHeight(plan.Meta),
	)
	for _, elem := range plan.Elements {
		if elem.Type != models.ElementWall && elem.Type != models.ElementZone {
			continue
		}
		k.element(elem)
	}
	return fmt.Sprintf("%016x", k.h.Sum64())
}

type keyHasher struct {
	h   hash.Hash64
	buf [8]byte
}

func (k *keyHasher) uint(v uint64) {
	binary.LittleEndian.PutUint64(k.buf[:], v)
	k.h.Write(k.buf[:])
}

func (k *keyHasher) floats(vals ...float64) {
	k.uint(uint64(len(vals)))
	for _, v := range vals {
		// every NaN hashes the same
		if math.IsNaN(v) {
			v = math.NaN()
		}
		k.uint(math.Float64bits(v))
	}
}

func (k *keyHasher) optFloat(v *float64) {
	if v == nil {
		k.uint(0)
		return
	}
	k.uint(1)
	k.floats(*v)
}

func (k *keyHasher) strings(vals ...string) {
	k.uint(uint64(len(vals)))
	for _, v := range vals {
		k.uint(uint64(len(v)))
		k.h.Write([]byte(v))
	}
}

func (k *keyHasher) element(e models.Element) {
	k.strings(e.ID, string(e.Type), string(e.Role), e.ZoneType, e.Text)
	if e.LoadBearing {
		k.uint(1)
	} else {
		k.uint(0)
	}
	k.optFloat(e.Thickness)
	k.strings(e.RelatedTo...)
	if e.Style == nil {
		k.uint(0)
	} else {
		k.uint(1)
		k.strings(e.Style.Color, e.Style.TextureURL, e.Style.Texture)
	}

	g := e.Geometry
	k.strings(string(g.Kind))
	k.floats(g.Points...)
	k.optFloat(g.X)
	k.optFloat(g.Y)
	k.uint(uint64(len(g.Openings)))
	for _, o := range g.Openings {
		k.strings(o.ID, o.Type)
		k.floats(o.FromM, o.ToM, o.BottomM, o.TopM)
	}
}

// Framer re-aims the camera only when the layout key changes. User orbit and
// zoom survive until then.
type Framer struct {
	fov    float64
	key    string
	framed bool
	camera Camera
}

func NewFramer() *Framer {
	return &Framer{fov: DefaultFOV, camera: Default()}
}

// Update frames b when key differs from the last framed layout. Degenerate
// boxes leave the camera as it is and keep the key pending.
func (f *Framer) Update(key string, b geometry.Bounds) bool {
	if f.framed && key == f.key {
		return false
	}
	cam, ok := Fit(b, f.fov)
	if !ok {
		return false
	}
	f.camera = cam
	f.key = key
	f.framed = true
	return true
}

func (f *Framer) Camera() Camera {
	return f.camera
}

func (f *Framer) Orbit(dAzimuth, dElevation float64) {
	f.camera.Orbit(dAzimuth, dElevation)
}

func (f *Framer) Zoom(delta float64) {
	f.camera.Zoom(delta)
}
