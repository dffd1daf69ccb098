package geom

import "fmt"

// Circle is a disc-shaped body. Mass is carried for callers but not used by
// the collision response.
type Circle struct {
	Center Vec2
	Radius float64
	Mass   float64
}

// Valid reports whether the circle has a positive radius.
func (c Circle) Valid() bool {
	return c.Radius > 0
}

// Ray is a moving point. Dir is not normalized: its magnitude is the distance
// travelled over one tick.
type Ray struct {
	Origin Vec2
	Dir    Vec2
}

// At returns the point reached after fraction t of the ray.
func (r Ray) At(t float64) Vec2 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// LineSegment is a static wall. The normal is always derived from the
// endpoints, so the fields are only reachable through the constructors.
type LineSegment struct {
	p0, p1 Vec2
	normal Vec2
}

// NewLineSegment builds a segment of the given length centered on center and
// rotated by angle radians. The segment is laid out along the X axis at the
// origin, rotated, then translated.
func NewLineSegment(center Vec2, length, angle float64) (LineSegment, error) {
	half := Vec2{X: length / 2}
	p0 := half.Neg().Rotate(angle).Add(center)
	p1 := half.Rotate(angle).Add(center)
	seg, err := NewLineSegmentFromPoints(p0, p1)
	if err != nil {
		return LineSegment{}, fmt.Errorf("segment at %v length %g: %w", center, length, err)
	}
	return seg, nil
}

// NewLineSegmentFromPoints builds a segment between two endpoints.
// The normal is (p1-p0).Perp(), normalized.
func NewLineSegmentFromPoints(p0, p1 Vec2) (LineSegment, error) {
	n, err := p1.Sub(p0).Perp().Normalize()
	if err != nil {
		return LineSegment{}, err
	}
	return LineSegment{p0: p0, p1: p1, normal: n}, nil
}

// P0 returns the first endpoint.
func (s LineSegment) P0() Vec2 { return s.p0 }

// P1 returns the second endpoint.
func (s LineSegment) P1() Vec2 { return s.p1 }

// Normal returns the unit normal.
func (s LineSegment) Normal() Vec2 { return s.normal }

// Center returns the midpoint of the segment.
func (s LineSegment) Center() Vec2 { return s.p0.Add(s.p1).Scale(0.5) }

// Length returns the distance between the endpoints.
func (s LineSegment) Length() float64 { return s.p0.Distance(s.p1) }

// Direction returns p1 - p0.
func (s LineSegment) Direction() Vec2 { return s.p1.Sub(s.p0) }
