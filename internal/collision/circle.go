package collision

import (
	"math"

	"github.com/tomz197/ricochet/internal/geom"
)

// RayCircle tests a point moving along ray against a static circle and returns
// the time the point enters it. Time 1 is the end of ray.Dir.
//
// A ray starting inside the circle yields a negative entry time and NoHit.
// When the entry time was computed it is returned even on NoHit.
func RayCircle(ray geom.Ray, c geom.Circle) (float64, Outcome) {
	dir, err := ray.Dir.Normalize()
	if err != nil {
		return 0, DegenerateInput
	}

	toCenter := c.Center.Sub(ray.Origin)
	m := dir.Dot(toCenter)
	rSq := c.Radius * c.Radius
	distSq := toCenter.LengthSq()

	// Pointing away and starting outside.
	if m < 0 && distSq > rSq {
		return 0, NoHit
	}

	// n² = |BsC|² - m²: squared distance from the center to the ray's line.
	nSq := distSq - m*m
	if nSq > rSq {
		return 0, NoHit
	}

	// s² = r² - n²; ti = (m - s) / |v|
	s := math.Sqrt(rSq - nSq)
	t := (m - s) / ray.Dir.Length()

	if t < 0 || t > 1 {
		return t, NoHit
	}
	return t, Hit
}

// CircleCircle tests two moving circles against each other. A moving circle
// against a static pillar passes a zero velB.
//
// The problem is reduced to a point moving with the relative velocity
// velA - velB against b inflated by a's radius. Contact points are each
// circle's own center advanced to the contact time.
func CircleCircle(a geom.Circle, velA geom.Vec2, b geom.Circle, velB geom.Vec2) (Contact, Outcome) {
	ray := geom.Ray{
		Origin: a.Center,
		Dir:    velA.Sub(velB),
	}
	inflated := geom.Circle{
		Center: b.Center,
		Radius: b.Radius + a.Radius,
	}

	t, outcome := RayCircle(ray, inflated)
	if outcome != Hit {
		return Contact{Time: t}, outcome
	}

	return Contact{
		PointA: a.Center.Add(velA.Scale(t)),
		PointB: b.Center.Add(velB.Scale(t)),
		Time:   t,
	}, Hit
}
