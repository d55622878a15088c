// Package summary describes a plan document in a few human-readable lines.
package summary

import (
	"fmt"
	"strconv"
	"strings"

	"planviewer/internal/viewer/models"
)

// Count is one tally entry. Entries keep first-seen order.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Summary struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Unit        string  `json:"unit"`
	PxPerMeter  float64 `json:"pxPerMeter,omitempty"`
	Elements    []Count `json:"elements"`
	LoadBearing int     `json:"loadBearing"`
	Zones       []Count `json:"zones"`
	Roles       []Count `json:"roles"`
	Objects     []Count `json:"objects"`
}

type tally struct {
	order []string
	n     map[string]int
}

func (t *tally) add(name string) {
	if t.n == nil {
		t.n = map[string]int{}
	}
	if _, ok := t.n[name]; !ok {
		t.order = append(t.order, name)
	}
	t.n[name]++
}

func (t *tally) counts() []Count {
	out := make([]Count, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, Count{Name: name, Count: t.n[name]})
	}
	return out
}

// Build tallies element types, zone types, wall roles and placed objects.
func Build(plan models.PlanDocument) Summary {
	var types, zones, roles, objects tally
	s := Summary{
		Width:  plan.Meta.Width,
		Height: plan.Meta.Height,
		Unit:   plan.Meta.Unit,
	}
	if s.Unit == "" {
		s.Unit = "px"
	}
	if plan.Meta.Scale != nil {
		s.PxPerMeter = plan.Meta.Scale.PxPerMeter
	}

	for _, elem := range plan.Elements {
		typ := string(elem.Type)
		if typ == "" {
			typ = "unknown"
		}
		types.add(typ)
		if elem.Role != "" {
			roles.add(string(elem.Role))
		}
		if elem.Type == models.ElementWall && elem.LoadBearing {
			s.LoadBearing++
		}
		if elem.Type == models.ElementZone {
			zt := elem.ZoneType
			if zt == "" {
				zt = "zone"
			}
			zones.add(zt)
		}
	}
	for _, obj := range plan.Objects3D {
		typ := obj.Type
		if typ == "" {
			typ = "object"
		}
		objects.add(typ)
	}

	s.Elements = types.counts()
	s.Zones = zones.counts()
	s.Roles = roles.counts()
	s.Objects = objects.counts()
	return s
}

// String renders the summary one fact per line.
func (s Summary) String() string {
	var lines []string
	if s.Width > 0 && s.Height > 0 {
		lines = append(lines, fmt.Sprintf("Size: %s x %s %s", formatFloat(s.Width), formatFloat(s.Height), s.Unit))
	}
	if s.PxPerMeter > 0 {
		lines = append(lines, fmt.Sprintf("Scale: %s px per meter", formatFloat(s.PxPerMeter)))
	}
	if len(s.Elements) > 0 {
		lines = append(lines, "Elements: "+join(s.Elements))
	}
	if s.LoadBearing > 0 {
		lines = append(lines, fmt.Sprintf("Load-bearing walls: %d", s.LoadBearing))
	}
	if len(s.Zones) > 0 {
		lines = append(lines, "Zones: "+join(s.Zones))
	}
	if len(s.Roles) > 0 {
		lines = append(lines, "Element roles: "+join(s.Roles))
	}
	if len(s.Objects) > 0 {
		lines = append(lines, "Objects: "+join(s.Objects))
	}
	if len(lines) == 0 {
		return "No plan data."
	}
	return strings.Join(lines, "\n")
}

// Summarize is Build followed by String.
func Summarize(plan models.PlanDocument) string {
	return Build(plan).String()
}

func join(counts []Count) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s: %d", c.Name, c.Count))
	}
	return strings.Join(parts, ", ")
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
