// Package sim advances balls through a scene in fixed ticks, resolving every
// bounce with the swept tests in the collision package.
package sim

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/ricochet/internal/collision"
	"github.com/tomz197/ricochet/internal/geom"
	"github.com/tomz197/ricochet/internal/scene"
)

// DefaultMaxBounces limits how many responses one ball gets per tick.
const DefaultMaxBounces = 4

// Ball is a moving circle. Vel is in units per second.
type Ball struct {
	Circle geom.Circle
	Vel    geom.Vec2
}

// World holds one scene's state. It is not safe for concurrent use; run
// separate worlds in separate goroutines instead.
type World struct {
	layout     *scene.Layout
	balls      []Ball
	tick       uint64
	stats      Stats
	maxBounces int
	logger     *log.Logger
	pending    []Event
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithMaxBounces sets the per-tick bounce limit. Values below 1 become 1.
func WithMaxBounces(n int) Option {
	return func(w *World) {
		w.maxBounces = max(n, 1)
	}
}

// New creates a world from a validated layout.
func New(layout *scene.Layout, opts ...Option) *World {
	w := &World{
		layout:     layout,
		maxBounces: DefaultMaxBounces,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.Reset()
	return w
}

// Reset puts every ball back where the layout started it and clears stats.
func (w *World) Reset() {
	w.balls = w.balls[:0]
	for _, b := range w.layout.Balls {
		w.balls = append(w.balls, Ball{Circle: b.Circle, Vel: b.Velocity})
	}
	w.tick = 0
	w.stats = newStats()
}

// AddBall places a new ball, rejecting positions that overlap anything.
func (w *World) AddBall(c geom.Circle, vel geom.Vec2) error {
	if math.IsNaN(vel.X) || math.IsNaN(vel.Y) || math.IsInf(vel.X, 0) || math.IsInf(vel.Y, 0) {
		return fmt.Errorf("%w: non-finite velocity %v", scene.ErrInvalid, vel)
	}
	static := *w.layout
	static.Balls = nil
	if err := static.CheckPlacement(c); err != nil {
		return err
	}
	for i, b := range w.balls {
		if geom.CirclesOverlap(c, b.Circle) {
			return fmt.Errorf("%w: overlaps ball %d", scene.ErrInvalid, i)
		}
	}
	if c.Mass == 0 {
		c.Mass = scene.DefaultMass
	}
	w.balls = append(w.balls, Ball{Circle: c, Vel: vel})
	return nil
}

// Layout returns the scene the world was built from.
func (w *World) Layout() *scene.Layout { return w.layout }

// Balls returns the current balls. The slice is owned by the world.
func (w *World) Balls() []Ball { return w.balls }

// Tick returns the number of steps taken since the last reset.
func (w *World) Tick() uint64 { return w.tick }

// Stats returns a copy of the counters.
func (w *World) Stats() Stats { return w.stats.clone() }

// Step advances the world by dt and returns what happened.
func (w *World) Step(dt time.Duration) []Event {
	secs := dt.Seconds()
	if secs <= 0 {
		return nil
	}

	w.tick++
	w.stats.Ticks++
	w.pending = nil

	w.touchBalls(secs)
	for i := range w.balls {
		w.sweep(i, secs)
	}
	return w.pending
}

// touchBalls tests every ball pair over this tick's displacements.
func (w *World) touchBalls(secs float64) {
	for i := 0; i < len(w.balls); i++ {
		for j := i + 1; j < len(w.balls); j++ {
			a, b := &w.balls[i], &w.balls[j]
			velA, velB := a.Vel.Scale(secs), b.Vel.Scale(secs)

			contact, outcome := collision.CircleCircle(a.Circle, velA, b.Circle, velB)
			w.stats.record(outcome)
			if outcome != collision.Hit {
				continue
			}

			bodyA, bodyB := collision.CircleCircleResponse(
				collision.Body{Circle: a.Circle, Vel: velA},
				collision.Body{Circle: b.Circle, Vel: velB},
				contact,
			)
			a.Circle, a.Vel = bodyA.Circle, bodyA.Vel.Scale(1/secs)
			b.Circle, b.Vel = bodyB.Circle, bodyB.Vel.Scale(1/secs)

			w.emit(Event{
				Kind:    EventBallContact,
				Ball:    i,
				Target:  j,
				Outcome: outcome,
				Point:   contact.PointA,
				Time:    contact.Time,
			})
		}
	}
}

// obstacle identifies a wall or pillar.
type obstacle struct {
	kind  EventKind
	index int
}

var noObstacle = obstacle{index: -1}

type impact struct {
	obstacle
	time    float64
	hit     collision.Intersection
	contact collision.Contact
}

// sweep moves ball i to the end of the tick, bouncing off walls and pillars.
func (w *World) sweep(i int, secs float64) {
	ball := &w.balls[i]
	disp := ball.Vel.Scale(secs)
	if disp.LengthSq() <= geom.Epsilon*geom.Epsilon {
		return
	}

	end := ball.Circle.Center.Add(disp)
	skip := noObstacle

	for bounces := 0; ; bounces++ {
		imp, ok := w.earliest(i, ball.Circle, end, skip)
		if !ok {
			ball.Circle.Center = end
			return
		}
		if bounces == w.maxBounces {
			// Stay at the last contact point rather than an unchecked end.
			w.stats.Capped++
			w.logger.Debug("bounce limit reached", "tick", w.tick, "ball", i, "bounces", bounces)
			return
		}

		var (
			newEnd, point, normal geom.Vec2
			err                   error
		)
		switch imp.kind {
		case EventWallHit:
			point, normal = imp.hit.Point, imp.hit.Normal
			newEnd, _, err = collision.CircleLineSegmentResponse(imp.hit, end)
		case EventPillarHit:
			point = imp.contact.PointA
			newEnd, _, normal, err = collision.CirclePillarResponse(imp.contact, w.layout.Pillars[imp.index].Center, end)
		}

		w.emit(Event{
			Kind:    imp.kind,
			Ball:    i,
			Target:  imp.index,
			Outcome: collision.Hit,
			Point:   point,
			Normal:  normal,
			Time:    imp.time,
		})

		ball.Vel = collision.ReflectVector(ball.Vel, normal)
		ball.Circle.Center = point

		if err != nil {
			w.logger.Debug("response fallback", "tick", w.tick, "ball", i, "err", err)
			w.emit(Event{
				Kind:    EventDegenerate,
				Ball:    i,
				Target:  imp.index,
				Outcome: collision.DegenerateInput,
				Point:   point,
				Normal:  normal,
				Time:    imp.time,
			})
			return
		}

		end = newEnd
		skip = imp.obstacle
		if end.Sub(point).LengthSq() <= geom.Epsilon*geom.Epsilon {
			return
		}
	}
}

// earliest finds the first wall or pillar ball i reaches moving from c.Center
// to end, ignoring skip.
func (w *World) earliest(i int, c geom.Circle, end geom.Vec2, skip obstacle) (impact, bool) {
	var (
		best  impact
		found bool
	)
	disp := end.Sub(c.Center)

	for j, seg := range w.layout.Walls {
		if skip.kind == EventWallHit && skip.index == j {
			continue
		}

		hit, outcome := collision.CircleLineSegment(c, end, seg)
		w.stats.record(outcome)

		switch {
		case outcome == collision.Hit:
			// A ball resting on the wall and moving away can round to a hit at t=0.
			if hit.Normal.Dot(disp) >= 0 {
				continue
			}
			if !found || hit.Time < best.time {
				best = impact{obstacle: obstacle{EventWallHit, j}, time: hit.Time, hit: hit}
				found = true
			}
		case outcome.Unhandled():
			if !geom.CircleTouchesSegment(geom.Circle{Center: end, Radius: c.Radius}, seg) {
				continue
			}
			w.logger.Debug("unhandled wall configuration",
				"tick", w.tick, "ball", i, "wall", j, "outcome", outcome)
			w.emit(Event{
				Kind:    EventUnhandled,
				Ball:    i,
				Target:  j,
				Outcome: outcome,
				Point:   end,
				Normal:  seg.Normal(),
			})
		}
	}

	for j, pillar := range w.layout.Pillars {
		if skip.kind == EventPillarHit && skip.index == j {
			continue
		}

		contact, outcome := collision.CircleCircle(c, disp, pillar, geom.Zero)
		w.stats.record(outcome)
		if outcome != collision.Hit {
			continue
		}
		if !found || contact.Time < best.time {
			best = impact{obstacle: obstacle{EventPillarHit, j}, time: contact.Time, contact: contact}
			found = true
		}
	}

	return best, found
}

func (w *World) emit(e Event) {
	e.Tick = w.tick
	w.stats.count(e.Kind)
	w.pending = append(w.pending, e)
}
