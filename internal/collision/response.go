package collision

import (
	"fmt"

	"github.com/tomz197/ricochet/internal/geom"
)

// Body is a circle together with its velocity over one tick.
type Body struct {
	Circle geom.Circle
	Vel    geom.Vec2
}

// ReflectVector mirrors d across the surface with unit normal n:
// d' = d - 2(d·n)n.
func ReflectVector(d, n geom.Vec2) geom.Vec2 {
	return d.Sub(n.Scale(2 * d.Dot(n)))
}

// Reflect bounces the part of the motion that would have happened past the
// surface. inter is the contact point, normal the unit surface normal and
// end the originally intended end position.
//
// It returns the corrected end position and the unit direction of travel
// after the bounce. If the contact happened exactly at the end of the tick
// there is no remaining travel to take a direction from: newEnd is inter and
// the error wraps ErrDegenerateInput.
func Reflect(inter, normal, end geom.Vec2) (newEnd, reflected geom.Vec2, err error) {
	penetration := end.Sub(inter)
	newEnd = inter.Add(ReflectVector(penetration, normal))

	reflected, err = newEnd.Sub(inter).Normalize()
	if err != nil {
		return newEnd, geom.Zero, fmt.Errorf("reflect at %v: no remaining travel: %w", inter, ErrDegenerateInput)
	}
	return newEnd, reflected, nil
}

// CircleLineSegmentResponse applies Reflect to a hit reported by
// CircleLineSegment.
func CircleLineSegmentResponse(hit Intersection, end geom.Vec2) (newEnd, reflected geom.Vec2, err error) {
	return Reflect(hit.Point, hit.Normal, end)
}

// PillarNormal returns the outward normal of a pillar at the point where a
// circle touching it has its center.
func PillarNormal(inter, pillarCenter geom.Vec2) (geom.Vec2, error) {
	n, err := inter.Sub(pillarCenter).Normalize()
	if err != nil {
		return geom.Zero, fmt.Errorf("pillar normal at %v: %w", inter, ErrDegenerateInput)
	}
	return n, nil
}

// CirclePillarResponse bounces a circle off a static pillar, using the
// pillar's outward normal at the contact point as the reflecting surface.
// It returns the normal used alongside the corrected end and direction.
func CirclePillarResponse(contact Contact, pillarCenter, end geom.Vec2) (newEnd, reflected, normal geom.Vec2, err error) {
	normal, err = PillarNormal(contact.PointA, pillarCenter)
	if err != nil {
		return end, geom.Zero, geom.Zero, err
	}
	newEnd, reflected, err = Reflect(contact.PointA, normal, end)
	return newEnd, reflected, normal, err
}

// CircleCircleResponse is the hook for resolving contact between two moving
// circles. It returns both bodies unchanged: circles that touch pass through
// each other until a mass-aware solver is written here.
func CircleCircleResponse(a, b Body, _ Contact) (Body, Body) {
	return a, b
}
