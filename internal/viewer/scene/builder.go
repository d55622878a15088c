package scene

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"planviewer/internal/viewer/geometry"
	"planviewer/internal/viewer/models"
)

// ============================================================
// Scene Builder
// ============================================================

const zoneLift = 0.01

// TextureResolver maps a texture handle from an element style to a URL.
type TextureResolver interface {
	ResolveTexture(handle string) (string, bool)
}

type Option func(*Builder)

// WithTextures sets the resolver used for style texture handles.
func WithTextures(r TextureResolver) Option {
	return func(b *Builder) {
		b.textures = r
	}
}

type Builder struct {
	textures TextureResolver
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build turns extracted geometry and placed objects into a render graph.
func (b *Builder) Build(ex geometry.Extraction, objects []models.PlacedObject, selected string) *Graph {
	g := &Graph{
		Walls:    []Node{},
		Zones:    []Node{},
		Objects:  []Node{},
		Scale:    ex.Scale,
		Ceiling:  ex.Ceiling,
		Selected: selected,
	}

	if ex.Width > geometry.Epsilon && ex.Height > geometry.Epsilon {
		g.Ground = &Node{
			ID:       "ground",
			Kind:     KindGround,
			Center:   r3.Vec{X: ex.Width / 2, Y: 0, Z: ex.Height / 2},
			Size:     r3.Vec{X: ex.Width, Y: 0, Z: ex.Height},
			Material: Material{Color: groundColor, Opacity: 1},
		}
	}

	for _, zone := range ex.Zones {
		g.Zones = append(g.Zones, b.zoneNode(zone))
	}
	for _, wall := range ex.Walls {
		g.Walls = append(g.Walls, b.wallNodes(wall, ex.Ceiling)...)
	}
	for _, obj := range objects {
		g.Objects = append(g.Objects, objectNode(obj, obj.ID == selected))
	}

	return g
}

func (b *Builder) zoneNode(zone geometry.ZonePolygon) Node {
	var bb geometry.Bounds
	for _, p := range zone.Points {
		bb.Extend(p.Vec(zoneLift))
	}

	mat := Material{Color: ZoneColor(zone.ZoneType), Opacity: zoneOpacity}
	b.applyStyle(&mat, zone.Style)

	return Node{
		ID:       zone.ID,
		Kind:     KindZone,
		Center:   bb.Center(),
		Size:     bb.Size(),
		Outline:  zone.Points,
		Material: mat,
		Tag:      zone.ZoneType,
	}
}

// wallNodes emits one box per wall, or several when openings cut through it.
func (b *Builder) wallNodes(wall geometry.WallSegment, ceiling float64) []Node {
	mat := Material{Color: WallColor(wall.Role, wall.LoadBearing), Opacity: 1}
	if wall.Role == models.RoleToDelete {
		mat.Opacity = toDeleteOpacity
	}
	b.applyStyle(&mat, wall.Style)

	var nodes []Node
	for _, p := range wallPieces(wall, ceiling) {
		nodes = append(nodes, wallPiece(wall, p, mat))
	}
	return nodes
}

func (b *Builder) applyStyle(mat *Material, style *models.Style) {
	if style == nil {
		return
	}
	if style.Color != "" {
		mat.Color = style.Color
	}
	switch {
	case style.TextureURL != "":
		mat.Texture = style.TextureURL
	case style.Texture != "" && b.textures != nil:
		if url, ok := b.textures.ResolveTexture(style.Texture); ok {
			mat.Texture = url
		}
	}
}

// piece is a part of a wall: [from, to] along it, [bottom, top] in height.
type piece struct {
	from, to, bottom, top float64
}

func wallPieces(wall geometry.WallSegment, ceiling float64) []piece {
	if len(wall.Openings) == 0 {
		return []piece{{0, wall.Length, 0, ceiling}}
	}

	openings := append([]geometry.OpeningSpan(nil), wall.Openings...)
	sort.Slice(openings, func(i, j int) bool { return openings[i].From < openings[j].From })

	var out []piece
	cursor := 0.0
	for _, o := range openings {
		if o.From-cursor > geometry.Epsilon {
			out = append(out, piece{cursor, o.From, 0, ceiling})
		}
		from := max(o.From, cursor)
		if o.To-from <= geometry.Epsilon {
			continue
		}
		if o.Bottom > geometry.Epsilon {
			out = append(out, piece{from, o.To, 0, o.Bottom})
		}
		if ceiling-o.Top > geometry.Epsilon {
			out = append(out, piece{from, o.To, o.Top, ceiling})
		}
		cursor = max(cursor, o.To)
	}
	if wall.Length-cursor > geometry.Epsilon {
		out = append(out, piece{cursor, wall.Length, 0, ceiling})
	}
	return out
}

func wallPiece(wall geometry.WallSegment, p piece, mat Material) Node {
	dir := r3.Unit(r3.Sub(wall.End.Vec(0), wall.Start.Vec(0)))
	mid := (p.from + p.to) / 2
	center := r3.Add(wall.Start.Vec(0), r3.Scale(mid, dir))
	center.Y = (p.bottom + p.top) / 2

	return Node{
		ID:       wall.ID,
		Kind:     KindWall,
		Center:   center,
		Size:     r3.Vec{X: p.to - p.from, Y: p.top - p.bottom, Z: wall.Thickness},
		Yaw:      wall.Yaw,
		Material: mat,
		Tag:      string(wall.Role),
	}
}

func objectNode(obj models.PlacedObject, selected bool) Node {
	size := obj.ResolvedSize()

	y := size.Y / 2
	if obj.Position.Y != nil {
		y = geometry.SafeNumber(*obj.Position.Y, y)
	}

	mat := Material{Color: objectColor, Opacity: 1, Emissive: unselectedEmissive}
	if selected {
		mat.Color = objectSelectColor
		mat.Emissive = selectedEmissive
	}

	return Node{
		ID:   obj.ID,
		Kind: KindObject,
		Center: r3.Vec{
			X: geometry.SafeNumber(obj.Position.X, 0),
			Y: y,
			Z: geometry.SafeNumber(obj.Position.Z, 0),
		},
		Size:     r3.Vec{X: size.X, Y: size.Y, Z: size.Z},
		Yaw:      geometry.SafeNumber(obj.Yaw(), 0),
		Material: mat,
		Selected: selected,
		Tag:      obj.Type,
	}
}
