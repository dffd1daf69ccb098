package geom

// Static (non-swept) overlap checks. The collision kernel never uses these;
// they validate scene placement before the first tick.

// PointInCircle checks if a point is within the circle.
func PointInCircle(p Vec2, c Circle) bool {
	return p.Sub(c.Center).LengthSq() <= c.Radius*c.Radius
}

// CirclesOverlap checks if two circles overlap. Touching circles do not.
func CirclesOverlap(a, b Circle) bool {
	minDist := a.Radius + b.Radius
	return a.Center.Sub(b.Center).LengthSq() < minDist*minDist
}

// ClosestPointOnSegment returns the point of s nearest to p.
func ClosestPointOnSegment(p Vec2, s LineSegment) Vec2 {
	dir := s.Direction()
	lenSq := dir.LengthSq()
	if lenSq == 0 {
		return s.p0
	}
	t := p.Sub(s.p0).Dot(dir) / lenSq
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return s.p0.Add(dir.Scale(t))
}

// SegmentDistance returns the distance from p to the nearest point of s.
func SegmentDistance(p Vec2, s LineSegment) float64 {
	return p.Distance(ClosestPointOnSegment(p, s))
}

// CircleTouchesSegment checks if the circle overlaps the segment.
func CircleTouchesSegment(c Circle, s LineSegment) bool {
	return SegmentDistance(c.Center, s) < c.Radius
}
