package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"planviewer/internal/viewer/engine"
	"planviewer/internal/viewer/geometry"
	"planviewer/internal/viewer/scene"
)

// ============================================================
// Immediate-mode backend
// ============================================================

const (
	fallbackSize   = 1000
	selectedStroke = "#ff5722"
	outlineStroke  = "#333"
	openingOpacity = 0.3
)

// SVG draws the scene top-down, back in plan pixel space.
type SVG struct{}

func NewSVG() *SVG {
	return &SVG{}
}

func (r *SVG) ContentType() string {
	return "image/svg+xml"
}

// Render draws the frame as a top-down SVG document.
func (r *SVG) Render(frame engine.Frame) ([]byte, error) {
	g := frame.Scene
	if g == nil {
		return nil, fmt.Errorf("frame has no scene")
	}

	scale := geometry.NormalizeScale(g.Scale)
	width, height := r.canvasSize(frame, scale)

	var elements []string
	if g.Ground != nil {
		elements = append(elements, r.renderGround(*g.Ground, scale))
	}
	elements = append(elements, r.renderZones(g.Zones, scale)...)
	elements = append(elements, r.renderWalls(g.Walls, scale)...)
	elements = append(elements, r.renderObjects(g.Objects, scale)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return []byte(builder.String()), nil
}

// ============================================================
// Sizing
// ============================================================

func (r *SVG) canvasSize(frame engine.Frame, scale float64) (float64, float64) {
	if frame.Width > 0 && frame.Height > 0 {
		return frame.Width, frame.Height
	}

	b := frame.Scene.Bounds()
	if b.Empty() {
		return fallbackSize, fallbackSize
	}

	width := b.Max.X * scale
	height := b.Max.Z * scale
	if width <= 0 {
		width = fallbackSize
	}
	if height <= 0 {
		height = fallbackSize
	}
	return width, height
}

// ============================================================
// Node renderers
// ============================================================

func (r *SVG) renderZones(zones []scene.Node, scale float64) []string {
	var out []string
	for _, zone := range zones {
		if len(zone.Outline) < 3 {
			continue
		}
		out = append(out, pathElement(zone, zone.Outline, scale, outlineStroke, zone.Material.Opacity))
	}
	return out
}

// renderWalls draws every wall piece. Pieces that do not reach the floor sit
// over an opening and are drawn faint.
func (r *SVG) renderWalls(walls []scene.Node, scale float64) []string {
	var out []string
	for _, wall := range walls {
		opacity := wall.Material.Opacity
		if wall.Center.Y-wall.Size.Y/2 > geometry.Epsilon {
			opacity *= openingOpacity
		}
		out = append(out, pathElement(wall, wall.Footprint(), scale, outlineStroke, opacity))
	}
	return out
}

func (r *SVG) renderObjects(objects []scene.Node, scale float64) []string {
	var out []string
	for _, obj := range objects {
		stroke := outlineStroke
		if obj.Selected {
			stroke = selectedStroke
		}
		out = append(out, pathElement(obj, obj.Footprint(), scale, stroke, obj.Material.Opacity))
	}
	return out
}

func (r *SVG) renderGround(n scene.Node, scale float64) string {
	x, y := geometry.ToPixel(geometry.GroundPoint{X: n.Center.X - n.Size.X/2, Z: n.Center.Z - n.Size.Z/2}, scale)
	return fmt.Sprintf(`<rect id="%s" class="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="none" />`,
		attr(n.ID), n.Kind, formatFloat(x), formatFloat(y),
		formatFloat(n.Size.X*scale), formatFloat(n.Size.Z*scale), attr(n.Material.Color))
}

func pathElement(n scene.Node, points []geometry.GroundPoint, scale float64, stroke string, opacity float64) string {
	var path strings.Builder
	path.WriteString(`<path id="`)
	path.WriteString(attr(n.ID))
	path.WriteString(`" class="`)
	path.WriteString(string(n.Kind))
	path.WriteString(`" d="M `)
	path.WriteString(formatPoint(points[0], scale))
	for _, p := range points[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(p, scale))
	}
	path.WriteString(fmt.Sprintf(` Z" fill="%s" fill-opacity="%s" stroke="%s"`,
		attr(n.Material.Color), formatFloat(opacity), stroke))
	if n.Tag != "" {
		path.WriteString(fmt.Sprintf(` data-tag="%s"`, attr(n.Tag)))
	}
	if n.Material.Texture != "" {
		path.WriteString(fmt.Sprintf(` data-texture="%s"`, attr(n.Material.Texture)))
	}
	path.WriteString(" />")
	return path.String()
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p geometry.GroundPoint, scale float64) string {
	x, y := geometry.ToPixel(p, scale)
	return formatFloat(x) + " " + formatFloat(y)
}

func attr(s string) string {
	return html.EscapeString(s)
}
