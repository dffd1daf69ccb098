package collision

import "github.com/tomz197/ricochet/internal/geom"

// CircleLineSegment tests a circle moving from c.Center to end against a
// static segment.
//
// The circle is classified against the two lines parallel to the segment at
// distance ±radius. A circle starting on the back face (d <= -r) can only hit
// the -r parallel and one on the front face (d >= r) only the +r parallel;
// anything in between is Straddling. The comparisons are strict against the
// radius with no tolerance, so d == r is the front face.
func CircleLineSegment(c geom.Circle, end geom.Vec2, seg geom.LineSegment) (Intersection, Outcome) {
	vel := end.Sub(c.Center)
	n := seg.Normal()
	r := c.Radius

	nDotP0 := n.Dot(seg.P0())
	nDotC := n.Dot(c.Center)
	d := nDotC - nDotP0

	var sign, offset float64
	switch {
	case d <= -r:
		sign, offset = -1, -r
	case d >= r:
		sign, offset = 1, r
	default:
		return Intersection{}, Straddling
	}

	// Edge points of the imaginary parallel segment the circle center runs into.
	p0 := seg.P0().Add(n.Scale(offset))
	p1 := seg.P1().Add(n.Scale(offset))

	// The path must pass between the two edge points.
	velNormal := vel.Perp()
	if velNormal.Dot(p0.Sub(c.Center))*velNormal.Dot(p1.Sub(c.Center)) >= 0 {
		return Intersection{}, NoEdgeCheck
	}

	// ti = (n·p0 - n·Bs ± r) / (n·v); n·v != 0 here because the path crosses
	// between two distinct points on a line parallel to the segment.
	t := (nDotP0 - nDotC + offset) / n.Dot(vel)
	if t < 0 || t > 1 {
		return Intersection{Time: t}, NoHit
	}

	return Intersection{
		Point:  c.Center.Add(vel.Scale(t)),
		Normal: n.Scale(sign),
		Time:   t,
	}, Hit
}
