package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"planviewer/internal/viewer/geometry"
)

// ============================================================
// Render graph
// ============================================================

type Kind string

const (
	KindGround Kind = "ground"
	KindWall   Kind = "wall"
	KindZone   Kind = "zone"
	KindObject Kind = "object"
)

type Material struct {
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
	Texture  string  `json:"texture,omitempty"`
	Emissive float64 `json:"emissive,omitempty"`
}

// Node is one drawable primitive. Boxes are described by Center, Size
// (length along local X, height, depth along local Z) and Yaw, measured in the
// ground plane from +X towards +Z. Zones carry their Outline instead.
type Node struct {
	ID       string                 `json:"id"`
	Kind     Kind                   `json:"kind"`
	Center   r3.Vec                 `json:"center"`
	Size     r3.Vec                 `json:"size"`
	Yaw      float64                `json:"yaw"`
	Outline  []geometry.GroundPoint `json:"outline,omitempty"`
	Material Material               `json:"material"`
	Selected bool                   `json:"selected,omitempty"`
	Tag      string                 `json:"tag,omitempty"` // zone type, object type or wall role
}

// Footprint returns the four ground corners of a box node.
func (n Node) Footprint() []geometry.GroundPoint {
	hx, hz := n.Size.X/2, n.Size.Z/2
	cos, sin := math.Cos(n.Yaw), math.Sin(n.Yaw)

	local := [4][2]float64{{-hx, -hz}, {hx, -hz}, {hx, hz}, {-hx, hz}}
	out := make([]geometry.GroundPoint, 0, 4)
	for _, l := range local {
		out = append(out, geometry.GroundPoint{
			X: n.Center.X + l[0]*cos - l[1]*sin,
			Z: n.Center.Z + l[0]*sin + l[1]*cos,
		})
	}
	return out
}

// Contains reports whether p lies inside the node's footprint.
func (n Node) Contains(p geometry.GroundPoint) bool {
	if n.Kind == KindZone {
		return pointInPolygon(p, n.Outline)
	}
	dx, dz := p.X-n.Center.X, p.Z-n.Center.Z
	cos, sin := math.Cos(n.Yaw), math.Sin(n.Yaw)
	lx := dx*cos + dz*sin
	lz := -dx*sin + dz*cos
	return math.Abs(lx) <= n.Size.X/2 && math.Abs(lz) <= n.Size.Z/2
}

func (n Node) bounds() geometry.Bounds {
	var b geometry.Bounds
	if n.Kind == KindZone {
		for _, p := range n.Outline {
			b.Extend(p.Vec(n.Center.Y))
		}
		return b
	}
	bottom := n.Center.Y - n.Size.Y/2
	top := n.Center.Y + n.Size.Y/2
	for _, p := range n.Footprint() {
		b.Extend(p.Vec(bottom))
		b.Extend(p.Vec(top))
	}
	return b
}

// Graph is the full drawable scene for one frame.
type Graph struct {
	Ground   *Node   `json:"ground,omitempty"`
	Walls    []Node  `json:"walls"`
	Zones    []Node  `json:"zones"`
	Objects  []Node  `json:"objects"`
	Scale    float64 `json:"scale"`
	Ceiling  float64 `json:"ceiling"`
	Selected string  `json:"selected,omitempty"`
}

// Nodes returns every node in draw order: ground, zones, walls, objects.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, 1+len(g.Zones)+len(g.Walls)+len(g.Objects))
	if g.Ground != nil {
		out = append(out, *g.Ground)
	}
	out = append(out, g.Zones...)
	out = append(out, g.Walls...)
	out = append(out, g.Objects...)
	return out
}

// LayoutBounds covers the ground, walls and zones. Placed objects are left
// out so that moving furniture never changes it.
func (g *Graph) LayoutBounds() geometry.Bounds {
	var b geometry.Bounds
	if g.Ground != nil {
		b.Union(g.Ground.bounds())
	}
	for _, n := range g.Walls {
		b.Union(n.bounds())
	}
	for _, n := range g.Zones {
		b.Union(n.bounds())
	}
	return b
}

// Bounds covers everything in the graph.
func (g *Graph) Bounds() geometry.Bounds {
	b := g.LayoutBounds()
	for _, n := range g.Objects {
		b.Union(n.bounds())
	}
	return b
}

// Pick returns the topmost object whose footprint contains p.
func (g *Graph) Pick(p geometry.GroundPoint) (string, bool) {
	for i := len(g.Objects) - 1; i >= 0; i-- {
		if g.Objects[i].Contains(p) {
			return g.Objects[i].ID, true
		}
	}
	return "", false
}

// Object returns the node of a placed object.
func (g *Graph) Object(id string) (Node, bool) {
	for _, n := range g.Objects {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

func pointInPolygon(p geometry.GroundPoint, poly []geometry.GroundPoint) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Z > p.Z) != (b.Z > p.Z) {
			x := (b.X-a.X)*(p.Z-a.Z)/(b.Z-a.Z) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
