// Package geom provides the 2D value types shared by the collision kernel:
// vectors, circles, rays and line segments.
package geom

import (
	"errors"
	"math"
)

// Epsilon is the tolerance used for approximate equality and for guarding
// divisions by a vector length.
const Epsilon = 0.0001

// ErrZeroLength is returned when a vector is too short to be normalized.
var ErrZeroLength = errors.New("geom: zero-length vector")

// Vec2 is a 2D vector. It is used interchangeably as a position and as a
// displacement.
type Vec2 struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vec2{}

// FromRadians returns the unit vector pointing at angle rad.
func FromRadians(rad float64) Vec2 {
	return Vec2{X: math.Cos(rad), Y: math.Sin(rad)}
}

// FromDegrees returns the unit vector pointing at angle deg.
func FromDegrees(deg float64) Vec2 {
	return FromRadians(deg * math.Pi / 180)
}

// Add returns v + u.
func (v Vec2) Add(u Vec2) Vec2 { return Vec2{v.X + u.X, v.Y + u.Y} }

// Sub returns v - u.
func (v Vec2) Sub(u Vec2) Vec2 { return Vec2{v.X - u.X, v.Y - u.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Neg returns -v.
func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

// Dot returns the dot product of v and u.
func (v Vec2) Dot(u Vec2) float64 { return v.X*u.X + v.Y*u.Y }

// Cross returns the z component of the 3D cross product of v and u.
func (v Vec2) Cross(u Vec2) float64 { return v.X*u.Y - v.Y*u.X }

// LengthSq returns the squared length of v.
// Use this when comparing lengths to avoid the sqrt cost.
func (v Vec2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 { return math.Sqrt(v.LengthSq()) }

// Distance returns the Euclidean distance between v and u.
func (v Vec2) Distance(u Vec2) float64 { return v.Sub(u).Length() }

// Perp returns v rotated 90° clockwise in a y-up frame: (y, -x).
func (v Vec2) Perp() Vec2 { return Vec2{v.Y, -v.X} }

// Rotate returns v rotated counter-clockwise by rad.
func (v Vec2) Rotate(rad float64) Vec2 {
	sin, cos := math.Sincos(rad)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Normalize returns the unit vector in the direction of v.
// Returns ErrZeroLength if |v| is within Epsilon of zero.
func (v Vec2) Normalize() (Vec2, error) {
	mag := v.Length()
	if mag <= Epsilon {
		return Zero, ErrZeroLength
	}
	return Vec2{v.X / mag, v.Y / mag}, nil
}

// ApproxEqual reports whether each component of v is within Epsilon of u.
func (v Vec2) ApproxEqual(u Vec2) bool {
	return math.Abs(v.X-u.X) <= Epsilon && math.Abs(v.Y-u.Y) <= Epsilon
}

// Components returns the vector as an array, for code that iterates axes.
func (v Vec2) Components() [2]float64 { return [2]float64{v.X, v.Y} }
