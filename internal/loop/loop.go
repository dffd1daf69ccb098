// Package loop runs one interactive sandbox session: input, fixed-step
// simulation and drawing.
package loop

import (
	"bufio"
	"context"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/ricochet/internal/draw"
	"github.com/tomz197/ricochet/internal/geom"
	"github.com/tomz197/ricochet/internal/input"
	"github.com/tomz197/ricochet/internal/loop/config"
	"github.com/tomz197/ricochet/internal/scene"
	"github.com/tomz197/ricochet/internal/sim"
)

// Options configures a session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
	MaxBounces   int
	// IdleTimeout disconnects a session without input. Zero disables it.
	IdleTimeout time.Duration
	// IdleWarn is when the inactivity warning appears. Zero uses
	// config.InactivityWarnUser, or 3/4 of IdleTimeout if that is later.
	IdleWarn time.Duration
}

// Session handles simulation, rendering and input for a single terminal.
type Session struct {
	world        *sim.World
	state        *State
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	idleTimeout  time.Duration
	idleWarn     time.Duration
	sparks       []*Spark
}

// NewSession creates a session over the given layout.
func NewSession(layout *scene.Layout, r *bufio.Reader, w io.Writer, opts Options) *Session {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	simOpts := []sim.Option{sim.WithLogger(logger)}
	if opts.MaxBounces > 0 {
		simOpts = append(simOpts, sim.WithMaxBounces(opts.MaxBounces))
	}

	idleWarn := opts.IdleWarn
	if idleWarn <= 0 {
		idleWarn = config.InactivityWarnUser
		if idleWarn >= opts.IdleTimeout {
			idleWarn = opts.IdleTimeout * 3 / 4
		}
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, layout.Width, layout.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Session{
		world:        sim.New(layout, simOpts...),
		state:        NewState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		logger:       logger,
		idleTimeout:  opts.IdleTimeout,
		idleWarn:     idleWarn,
	}
}

// Run starts the session loop. It blocks until the user quits, the input
// ends, the session idles out or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	draw.ClearScreen(s.writer)

	lastTime := time.Now()

	for s.state.Running && ctx.Err() == nil {
		frameStart := time.Now()
		s.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		s.processInput()
		s.updateScreen()
		s.update()

		if err := s.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	s.releaseSparks()
	draw.ClearScreen(s.writer)
	s.logger.Info("session ended", "ticks", s.world.Tick(), "balls", len(s.world.Balls()))
	return nil
}

// processInput reads pending keys and applies session commands.
func (s *Session) processInput() {
	in := input.ReadInput(s.inputStream)
	s.state.Input = in

	idle := time.Since(s.lastInput)
	switch {
	case len(in.Pressed) > 0:
		s.lastInput = time.Now()
		s.state.isInactive = false
	case s.idleTimeout > 0 && idle > s.idleTimeout:
		s.logger.Info("disconnecting idle session", "idle", idle.Round(time.Second))
		s.state.Running = false
	case s.idleTimeout > 0 && idle > s.idleWarn:
		s.state.isInactive = true
	}

	if in.Quit {
		s.state.Running = false
		return
	}
	if len(in.Pressed) > 0 {
		s.state.Message = ""
	}

	if in.Pause {
		s.state.Paused = !s.state.Paused
		input.ResetKeyInput(s.inputStream)
	}
	if in.Vectors {
		s.state.ShowVectors = !s.state.ShowVectors
	}
	if in.Number > 0 {
		s.state.SetSpeed(in.Number)
	}
	if in.Reset {
		s.reset()
	}
	if in.Spawn {
		s.spawnBall()
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != s.canvas.TerminalWidth() || renderHeight != s.canvas.TerminalHeight() ||
		offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		draw.ClearScreen(s.writer)
		s.canvas.ForceRedraw()
	}

	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and
// computes the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// update advances the simulation on a fixed tick and ages the sparks.
func (s *Session) update() {
	if s.state.Paused {
		if s.state.Input.Step {
			s.step()
		}
	} else {
		s.state.accumulator += time.Duration(float64(s.state.delta) * s.state.TimeScale)
		for n := 0; s.state.accumulator >= config.TickTime; n++ {
			if n == config.MaxTicksPerFrame {
				s.state.accumulator = 0
				break
			}
			s.step()
			s.state.accumulator -= config.TickTime
		}
	}

	s.sparks = updateSparks(s.sparks, s.state.delta.Seconds())
}

// step runs one simulation tick and reacts to its events.
func (s *Session) step() {
	for _, e := range s.world.Step(config.TickTime) {
		e := e
		switch e.Kind {
		case sim.EventWallHit, sim.EventPillarHit:
			s.sparks = spawnSparks(s.sparks, e.Point, e.Normal, config.SparksPerHit)
		case sim.EventUnhandled, sim.EventDegenerate:
			s.logger.Debug("collision event", "event", e.String())
		}
		s.state.LastEvent = &e
	}
}

// reset restores the scene's starting balls.
func (s *Session) reset() {
	input.ResetKeyInput(s.inputStream)
	s.world.Reset()
	s.releaseSparks()
	s.state.accumulator = 0
	s.state.LastEvent = nil
	s.state.Message = "scene reset"
}

// spawnBall drops a ball with a random velocity at a random free spot.
func (s *Session) spawnBall() {
	if len(s.world.Balls()) >= config.MaxBalls {
		s.state.Message = "ball limit reached"
		return
	}

	layout := s.world.Layout()
	for n := 0; n < config.SpawnAttempts; n++ {
		c := geom.Circle{
			Center: geom.Vec2{X: rand.Float64() * layout.Width, Y: rand.Float64() * layout.Height},
			Radius: config.SpawnRadius,
		}
		speed := config.SpawnSpeedMin + rand.Float64()*(config.SpawnSpeedMax-config.SpawnSpeedMin)
		vel := geom.FromRadians(rand.Float64() * 2 * math.Pi).Scale(speed)

		if err := s.world.AddBall(c, vel); err == nil {
			s.logger.Debug("spawned ball", "center", c.Center, "vel", vel)
			return
		}
	}
	s.state.Message = "no free spot for a new ball"
}

func (s *Session) releaseSparks() {
	for _, p := range s.sparks {
		p.Release()
	}
	s.sparks = s.sparks[:0]
}
