package sim

import (
	"fmt"
	"maps"

	"github.com/tomz197/ricochet/internal/collision"
	"github.com/tomz197/ricochet/internal/geom"
)

// EventKind identifies what happened to a ball during a step.
type EventKind int

const (
	EventWallHit EventKind = iota
	EventPillarHit
	EventBallContact
	EventUnhandled
	EventDegenerate
)

var eventKindNames = [...]string{
	EventWallHit:     "wall-hit",
	EventPillarHit:   "pillar-hit",
	EventBallContact: "ball-contact",
	EventUnhandled:   "unhandled",
	EventDegenerate:  "degenerate",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event records one collision outcome worth reporting.
// Target is the wall, pillar or other ball index depending on Kind.
type Event struct {
	Tick    uint64
	Kind    EventKind
	Ball    int
	Target  int
	Outcome collision.Outcome
	Point   geom.Vec2
	Normal  geom.Vec2
	Time    float64 // fraction of the sub-step
}

func (e Event) String() string {
	return fmt.Sprintf("tick=%d %s ball=%d target=%d outcome=%s t=%.3f point=(%.2f, %.2f)",
		e.Tick, e.Kind, e.Ball, e.Target, e.Outcome, e.Time, e.Point.X, e.Point.Y)
}

// Stats aggregates what a world has seen since the last reset.
type Stats struct {
	Ticks        uint64
	Outcomes     map[collision.Outcome]int // every swept test, by outcome
	WallHits     int
	PillarHits   int
	BallContacts int
	Unhandled    int
	Degenerate   int
	Capped       int // sweeps stopped by the bounce limit
}

func newStats() Stats {
	return Stats{Outcomes: make(map[collision.Outcome]int)}
}

func (s *Stats) record(o collision.Outcome) {
	s.Outcomes[o]++
}

func (s *Stats) count(kind EventKind) {
	switch kind {
	case EventWallHit:
		s.WallHits++
	case EventPillarHit:
		s.PillarHits++
	case EventBallContact:
		s.BallContacts++
	case EventUnhandled:
		s.Unhandled++
	case EventDegenerate:
		s.Degenerate++
	}
}

func (s Stats) clone() Stats {
	s.Outcomes = maps.Clone(s.Outcomes)
	return s
}
