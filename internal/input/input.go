// Package input turns raw terminal bytes into per-frame sandbox commands.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state. Everything except Step is
// set only on the frame the key arrives; Step stays set while the key is held.
type Input struct {
	Quit    bool
	Pause   bool
	Spawn   bool
	Reset   bool
	Vectors bool
	Step    bool
	Number  int // 1-9, or -1
	Pressed []byte
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	step time.Time
}

// Stream delivers input bytes via a channel and tracks held keys.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the reader behind the stream has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{Number: -1, Pressed: buf}
	for i := 0; i < len(buf); i++ {
		// Skip CSI sequences (arrow keys and friends) so their final byte is
		// not read as a command letter.
		if buf[i] == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			i = csiEnd(buf, i+2)
			continue
		}
		applyByteToState(&s.state, &in, buf[i], now)
	}

	in.Step = in.Step || now.Sub(s.state.step) < keyHoldDuration
	if s.closed {
		in.Quit = true
	}
	return in
}

// csiEnd returns the index of the final byte of a CSI sequence whose
// parameters start at i: parameter and intermediate bytes (0x20-0x3F) run up
// to a final byte in 0x40-0x7E. A truncated sequence ends at the buffer end.
func csiEnd(buf []byte, i int) int {
	for ; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			return i
		}
	}
	return len(buf) - 1
}

// ResetKeyInput forgets held keys, e.g. after a reset so a held step key does
// not carry over.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// applyByteToState updates the frame input and held key timestamps for one byte.
func applyByteToState(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case ' ', 'p', 'P':
		in.Pause = true
	case 'n', 'N':
		in.Spawn = true
	case 'r', 'R':
		in.Reset = true
	case 'v', 'V':
		in.Vectors = true
	case '.':
		in.Step = true
		state.step = now
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Number = int(b - '0')
	}
}
