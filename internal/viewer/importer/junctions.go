package importer

import (
	"math"

	"planviewer/internal/viewer/models"
)

// ============================================================
// Wall junctions
// ============================================================

// axisSnapTolerance is how far (drawing units) a wall end may drift off the
// horizontal or vertical before it is straightened.
const axisSnapTolerance = 1.0

type wallEnd struct {
	wall int // index into the wall slice
	end  int // 0 = start, 1 = end
	p    point
}

// joinWalls straightens nearly axis-aligned walls, then pulls wall ends that
// lie within tol of each other onto one shared corner. Two crossing walls meet
// at the intersection of their centre lines; any other group meets at the mean.
// Walls must carry a 4-number segment.
func joinWalls(walls []models.Element, tol float64) {
	if tol <= 0 || len(walls) < 2 {
		return
	}
	snapAxisAligned(walls)

	ends := make([]wallEnd, 0, len(walls)*2)
	for i, w := range walls {
		pts := w.Geometry.Points
		if len(pts) != 4 {
			continue
		}
		ends = append(ends,
			wallEnd{wall: i, end: 0, p: point{pts[0], pts[1]}},
			wallEnd{wall: i, end: 1, p: point{pts[2], pts[3]}},
		)
	}

	assigned := make([]bool, len(ends))
	for i := range ends {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		group := []wallEnd{ends[i]}

		for j := i + 1; j < len(ends); j++ {
			if assigned[j] || ends[j].wall == ends[i].wall {
				continue
			}
			if distance(ends[i].p, ends[j].p) <= tol {
				assigned[j] = true
				group = append(group, ends[j])
			}
		}
		if len(group) < 2 {
			continue
		}

		corner := groupCorner(walls, group)
		for _, e := range group {
			pts := walls[e.wall].Geometry.Points
			pts[e.end*2] = corner.X
			pts[e.end*2+1] = corner.Y
		}
	}
}

func groupCorner(walls []models.Element, group []wallEnd) point {
	if len(group) == 2 {
		a := walls[group[0].wall].Geometry.Points
		b := walls[group[1].wall].Geometry.Points
		if p, ok := lineIntersection(point{a[0], a[1]}, point{a[2], a[3]}, point{b[0], b[1]}, point{b[2], b[3]}); ok {
			return p
		}
	}

	var sum point
	for _, e := range group {
		sum.X += e.p.X
		sum.Y += e.p.Y
	}
	n := float64(len(group))
	return point{sum.X / n, sum.Y / n}
}

// snapAxisAligned straightens nearly horizontal and vertical walls.
func snapAxisAligned(walls []models.Element) {
	for _, w := range walls {
		pts := w.Geometry.Points
		if len(pts) != 4 {
			continue
		}
		dx := pts[2] - pts[0]
		dy := pts[3] - pts[1]
		switch {
		case dx != 0 && math.Abs(dy) <= axisSnapTolerance:
			y := (pts[1] + pts[3]) / 2
			pts[1], pts[3] = y, y
		case dy != 0 && math.Abs(dx) <= axisSnapTolerance:
			x := (pts[0] + pts[2]) / 2
			pts[0], pts[2] = x, x
		}
	}
}

// lineIntersection intersects the infinite lines a1-a2 and b1-b2.
func lineIntersection(a1, a2, b1, b2 point) (point, bool) {
	d1x, d1y := a2.X-a1.X, a2.Y-a1.Y
	d2x, d2y := b2.X-b1.X, b2.Y-b1.Y

	den := d1x*d2y - d1y*d2x
	if math.Abs(den) < 1e-9 {
		return point{}, false
	}
	t := ((b1.X-a1.X)*d2y - (b1.Y-a1.Y)*d2x) / den
	return point{a1.X + t*d1x, a1.Y + t*d1y}, true
}

func distance(p1, p2 point) float64 {
	return math.Hypot(p1.X-p2.X, p1.Y-p2.Y)
}
