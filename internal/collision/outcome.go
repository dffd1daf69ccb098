// Package collision implements swept (continuous) collision detection between
// moving circles and static geometry, and the reflection response applied on
// a hit.
//
// All times are fractions of one tick's motion: 0 is the start position, 1 is
// the intended end position. Every function is pure and safe for concurrent use.
package collision

import (
	"errors"

	"github.com/tomz197/ricochet/internal/geom"
)

// ErrDegenerateInput is returned when an input vector is too short to
// normalize or divide by.
var ErrDegenerateInput = errors.New("collision: degenerate input")

// Outcome classifies the result of a swept test.
type Outcome int

const (
	// NoHit means the body definitely does not reach the obstacle this tick.
	NoHit Outcome = iota
	// Hit means the body touches the obstacle at the reported time.
	Hit
	// Straddling means the circle starts within one radius of the segment's
	// line, so neither face can be chosen. Not handled.
	Straddling
	// NoEdgeCheck means the path crosses the segment's line outside the
	// segment's extent, where an endpoint collision may occur. Not handled.
	NoEdgeCheck
	// DegenerateInput means a direction had zero length.
	DegenerateInput
)

var outcomeNames = [...]string{
	NoHit:           "no-hit",
	Hit:             "hit",
	Straddling:      "straddling",
	NoEdgeCheck:     "no-edge-check",
	DegenerateInput: "degenerate-input",
}

// String returns the outcome name.
func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Unhandled reports whether the outcome is a known configuration the kernel
// deliberately does not resolve.
func (o Outcome) Unhandled() bool {
	return o == Straddling || o == NoEdgeCheck
}

// Err returns ErrDegenerateInput for DegenerateInput and nil otherwise.
func (o Outcome) Err() error {
	if o == DegenerateInput {
		return ErrDegenerateInput
	}
	return nil
}

// Intersection describes where and when a moving circle meets a surface.
// Normal faces the approaching body.
type Intersection struct {
	Point  geom.Vec2
	Normal geom.Vec2
	Time   float64
}

// Contact describes where two moving circles are when they first touch.
type Contact struct {
	PointA geom.Vec2
	PointB geom.Vec2
	Time   float64
}
