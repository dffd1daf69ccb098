// Package scene loads level geometry (walls, pillars) and the initial balls
// from YAML.
package scene

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/ricochet/internal/geom"
)

//go:embed default.yaml
var defaultScene []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid scene")

// DefaultMass is used for balls that do not set a mass.
const DefaultMass = 1.0

// Point is an [x, y] pair.
type Point [2]float64

// Vec converts the point to a vector.
func (p Point) Vec() geom.Vec2 {
	return geom.Vec2{X: p[0], Y: p[1]}
}

// Wall is either center/length/angle (degrees) or from/to.
type Wall struct {
	Center *Point  `yaml:"center,omitempty"`
	Length float64 `yaml:"length,omitempty"`
	Angle  float64 `yaml:"angle,omitempty"`
	From   *Point  `yaml:"from,omitempty"`
	To     *Point  `yaml:"to,omitempty"`
}

// Pillar is a static circular obstacle.
type Pillar struct {
	Center Point   `yaml:"center"`
	Radius float64 `yaml:"radius"`
}

// Ball is a moving body. Velocity is in units per second.
type Ball struct {
	Center   Point   `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Velocity Point   `yaml:"velocity"`
	Mass     float64 `yaml:"mass,omitempty"`
}

// Scene is the file format.
type Scene struct {
	Name    string   `yaml:"name"`
	Width   float64  `yaml:"width"`
	Height  float64  `yaml:"height"`
	Walls   []Wall   `yaml:"walls"`
	Pillars []Pillar `yaml:"pillars"`
	Balls   []Ball   `yaml:"balls"`
}

// Body is a ball ready for simulation.
type Body struct {
	Circle   geom.Circle
	Velocity geom.Vec2
}

// Layout is a validated scene converted to geometry.
type Layout struct {
	Name    string
	Width   float64
	Height  float64
	Walls   []geom.LineSegment
	Pillars []geom.Circle
	Balls   []Body
}

// Parse decodes a scene. Unknown fields are rejected.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Default returns the built-in arena.
func Default() *Scene {
	s, err := Parse(defaultScene)
	if err != nil {
		panic(fmt.Sprintf("embedded scene: %v", err))
	}
	return s
}

// LoadLayout loads and builds the scene at path, or the built-in arena when
// path is empty.
func LoadLayout(path string) (*Layout, error) {
	s := Default()
	if path != "" {
		var err error
		if s, err = Load(path); err != nil {
			return nil, err
		}
	}
	layout, err := s.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	return layout, nil
}

// Validate reports the first problem that would prevent Build.
func (s *Scene) Validate() error {
	_, err := s.Build()
	return err
}

// Build converts the scene to geometry and validates placement: every ball
// must start inside the bounds, clear of walls, pillars and other balls.
func (s *Scene) Build() (*Layout, error) {
	if !finite(s.Width, s.Height) || s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: size %gx%g", ErrInvalid, s.Width, s.Height)
	}

	layout := &Layout{
		Name:    s.Name,
		Width:   s.Width,
		Height:  s.Height,
		Walls:   make([]geom.LineSegment, 0, len(s.Walls)),
		Pillars: make([]geom.Circle, 0, len(s.Pillars)),
		Balls:   make([]Body, 0, len(s.Balls)),
	}

	for i, w := range s.Walls {
		seg, err := w.segment()
		if err != nil {
			return nil, fmt.Errorf("%w: wall %d: %w", ErrInvalid, i, err)
		}
		layout.Walls = append(layout.Walls, seg)
	}

	for i, p := range s.Pillars {
		if !finite(p.Center[0], p.Center[1], p.Radius) {
			return nil, fmt.Errorf("%w: pillar %d: non-finite value", ErrInvalid, i)
		}
		if p.Radius <= 0 {
			return nil, fmt.Errorf("%w: pillar %d: radius %g", ErrInvalid, i, p.Radius)
		}
		layout.Pillars = append(layout.Pillars, geom.Circle{Center: p.Center.Vec(), Radius: p.Radius})
	}

	for i, b := range s.Balls {
		body, err := b.body()
		if err != nil {
			return nil, fmt.Errorf("%w: ball %d: %w", ErrInvalid, i, err)
		}
		if err := layout.checkPlacement(body.Circle); err != nil {
			return nil, fmt.Errorf("%w: ball %d: %w", ErrInvalid, i, err)
		}
		layout.Balls = append(layout.Balls, body)
	}

	return layout, nil
}

// CheckPlacement reports why a new ball could not be added at c.
func (l *Layout) CheckPlacement(c geom.Circle) error {
	if !finite(c.Center.X, c.Center.Y, c.Radius, c.Mass) {
		return fmt.Errorf("%w: non-finite circle %v", ErrInvalid, c)
	}
	if !c.Valid() {
		return fmt.Errorf("%w: radius %g", ErrInvalid, c.Radius)
	}
	if err := l.checkPlacement(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (l *Layout) checkPlacement(c geom.Circle) error {
	p := c.Center
	if p.X < c.Radius || p.X > l.Width-c.Radius || p.Y < c.Radius || p.Y > l.Height-c.Radius {
		return fmt.Errorf("center %v outside %gx%g", p, l.Width, l.Height)
	}
	for i, w := range l.Walls {
		if geom.CircleTouchesSegment(c, w) {
			return fmt.Errorf("overlaps wall %d", i)
		}
	}
	for i, pillar := range l.Pillars {
		if geom.CirclesOverlap(c, pillar) {
			return fmt.Errorf("overlaps pillar %d", i)
		}
	}
	for i, other := range l.Balls {
		if geom.CirclesOverlap(c, other.Circle) {
			return fmt.Errorf("overlaps ball %d", i)
		}
	}
	return nil
}

func (w Wall) segment() (geom.LineSegment, error) {
	for _, p := range []*Point{w.Center, w.From, w.To} {
		if p != nil && !finite(p[0], p[1]) {
			return geom.LineSegment{}, fmt.Errorf("non-finite point %v", *p)
		}
	}
	if !finite(w.Length, w.Angle) {
		return geom.LineSegment{}, fmt.Errorf("non-finite length %g or angle %g", w.Length, w.Angle)
	}
	switch {
	case w.From != nil && w.To != nil:
		if w.Center != nil {
			return geom.LineSegment{}, errors.New("set either center or from/to, not both")
		}
		return geom.NewLineSegmentFromPoints(w.From.Vec(), w.To.Vec())
	case w.Center != nil:
		if w.Length <= 0 {
			return geom.LineSegment{}, fmt.Errorf("length %g", w.Length)
		}
		return geom.NewLineSegment(w.Center.Vec(), w.Length, w.Angle*math.Pi/180)
	default:
		return geom.LineSegment{}, errors.New("needs center/length or from/to")
	}
}

func (b Ball) body() (Body, error) {
	if !finite(b.Center[0], b.Center[1], b.Velocity[0], b.Velocity[1], b.Radius, b.Mass) {
		return Body{}, errors.New("non-finite value")
	}
	if b.Radius <= 0 {
		return Body{}, fmt.Errorf("radius %g", b.Radius)
	}
	mass := b.Mass
	if mass == 0 {
		mass = DefaultMass
	}
	if mass < 0 {
		return Body{}, fmt.Errorf("mass %g", b.Mass)
	}
	return Body{
		Circle:   geom.Circle{Center: b.Center.Vec(), Radius: b.Radius, Mass: mass},
		Velocity: b.Velocity.Vec(),
	}, nil
}

// finite reports whether none of vals is NaN or infinite.
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
