package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/ricochet/internal/draw"
	"github.com/tomz197/ricochet/internal/geom"
	"github.com/tomz197/ricochet/internal/loop/config"
)

func toPoint(v geom.Vec2) draw.Point {
	return draw.Point{X: v.X, Y: v.Y}
}

// drawFrame draws the scene, then the text overlay, and flushes the frame.
func (s *Session) drawFrame() error {
	// Overlay screens come and go as a whole, so start from a clean terminal.
	if s.state.Paused != s.state.wasPaused || s.state.isInactive != s.state.wasInactive {
		s.chunkWriter.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		s.state.wasPaused = s.state.Paused
		s.state.wasInactive = s.state.isInactive
	}

	s.canvas.Clear()

	layout := s.world.Layout()
	for _, wall := range layout.Walls {
		s.canvas.DrawLine(toPoint(wall.P0()), toPoint(wall.P1()))
	}
	for _, pillar := range layout.Pillars {
		s.canvas.DrawCircle(toPoint(pillar.Center), pillar.Radius, false)
	}
	for _, ball := range s.world.Balls() {
		center := ball.Circle.Center
		s.canvas.DrawCircle(toPoint(center), ball.Circle.Radius, true)
		if s.state.ShowVectors {
			tip := center.Add(ball.Vel.Scale(config.VectorSeconds))
			s.canvas.DrawLine(toPoint(center), toPoint(tip))
		}
	}
	for _, p := range s.sparks {
		p.Draw(s.canvas)
	}

	s.canvas.Render(s.chunkWriter)
	s.canvas.RenderBorder(s.chunkWriter)

	s.drawUI()

	return s.chunkWriter.Flush()
}

// drawUI draws the text overlay.
func (s *Session) drawUI() {
	termWidth := s.canvas.TerminalWidth()
	termHeight := s.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if s.state.isInactive {
		s.drawInactivityScreen(centerX, centerY)
		return
	}

	s.drawHUD(termWidth, termHeight)
	if s.state.Paused {
		s.drawPausedScreen(centerX, centerY)
	}
}

// writeText writes a HUD line and marks its cells so the canvas repaints
// them once the text is gone.
func (s *Session) writeText(col, row int, text string) {
	s.writeColorText(col, row, text, "")
}

// writeColorText is writeText wrapped in an ANSI color.
func (s *Session) writeColorText(col, row int, text, color string) {
	if row < 1 || row > s.canvas.TerminalHeight() || col < 1 {
		return
	}
	if room := s.canvas.TerminalWidth() - col + 1; len(text) > room {
		if room <= 0 {
			return
		}
		text = text[:room]
	}
	if color != "" {
		s.chunkWriter.WriteAt(col, row, color+text+draw.ColorReset)
	} else {
		s.chunkWriter.WriteAt(col, row, text)
	}
	s.canvas.MarkTextDirty(col, row, len(text))
}

// drawHUD draws counters along the top and the last event along the bottom.
// Fields are fixed width so shrinking values leave no residue.
func (s *Session) drawHUD(termWidth, termHeight int) {
	stats := s.world.Stats()

	left := fmt.Sprintf("tick %-8d balls %-3d speed x%-5.2f", s.world.Tick(), len(s.world.Balls()), s.state.TimeScale)
	s.writeText(2, 1, left)

	right := fmt.Sprintf("walls %-6d pillars %-6d contacts %-5d unhandled %-5d",
		stats.WallHits, stats.PillarHits, stats.BallContacts, stats.Unhandled)
	if col := termWidth - len(right); col > len(left)+3 {
		s.writeColorText(col, 1, right, draw.ColorDim)
	}

	bottom, color := s.state.Message, draw.ColorYellow
	if bottom == "" && s.state.LastEvent != nil {
		bottom, color = s.state.LastEvent.String(), draw.ColorBrightCyan
	}
	s.writeColorText(2, termHeight, fmt.Sprintf("%-*s", max(termWidth-3, 0), bottom), color)
}

// drawPausedScreen draws the controls while the simulation is paused.
func (s *Session) drawPausedScreen(centerX, centerY int) {
	lines := []string{
		"PAUSED",
		"",
		"SPACE  . . . . . . Resume",
		".  . . . . . . . . Step",
		"N  . . . . . .  Add ball",
		"R  . . . . . . . . Reset",
		"V  . . . . .  Velocities",
		"1-9  . . . . . . . Speed",
		"Q  . . . . . . . .  Quit",
	}
	top := centerY - len(lines)/2
	s.writeColorText(centerX-len(lines[0])/2, top, lines[0], draw.ColorYellow)
	for i, line := range lines[1:] {
		s.writeText(centerX-len(line)/2, top+i+1, line)
	}
}

// drawInactivityScreen warns before an idle session is disconnected.
func (s *Session) drawInactivityScreen(centerX, centerY int) {
	title := "INACTIVITY WARNING"
	s.writeColorText(centerX-len(title)/2, centerY-2, title, draw.ColorYellow)

	remaining := (s.idleTimeout - time.Since(s.lastInput)).Round(time.Second)
	msg := fmt.Sprintf("You will be disconnected in %v.", max(remaining, 0))
	s.writeText(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	s.writeColorText(centerX-len(hint)/2, centerY+2, hint, draw.ColorDim)
}
