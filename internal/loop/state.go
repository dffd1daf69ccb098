package loop

import (
	"time"

	"github.com/tomz197/ricochet/internal/input"
	"github.com/tomz197/ricochet/internal/loop/config"
	"github.com/tomz197/ricochet/internal/sim"
)

// State holds per-session view and control state. The simulation itself
// lives in sim.World.
type State struct {
	Input       input.Input
	Running     bool
	Paused      bool
	ShowVectors bool
	TimeScale   float64
	LastEvent   *sim.Event
	Message     string // one-line notice, cleared on the next command

	accumulator time.Duration
	delta       time.Duration
	isInactive  bool

	// Previous-frame values; a change forces a full redraw.
	wasPaused   bool
	wasInactive bool
}

// NewState creates the state for a fresh session.
func NewState() *State {
	return &State{
		Running:   true,
		TimeScale: 1,
	}
}

// SetSpeed applies a digit key: n runs at n/DefaultSpeed real time.
func (s *State) SetSpeed(n int) {
	if n < 1 || n > 9 {
		return
	}
	s.TimeScale = float64(n) / config.DefaultSpeed
}
