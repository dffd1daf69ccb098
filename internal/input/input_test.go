package input

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyByteToState(t *testing.T) {
	tests := []struct {
		b    byte
		want Input
	}{
		{'q', Input{Quit: true, Number: -1}},
		{'\x03', Input{Quit: true, Number: -1}},
		{' ', Input{Pause: true, Number: -1}},
		{'N', Input{Spawn: true, Number: -1}},
		{'r', Input{Reset: true, Number: -1}},
		{'v', Input{Vectors: true, Number: -1}},
		{'.', Input{Step: true, Number: -1}},
		{'7', Input{Number: 7}},
		{'0', Input{Number: -1}},
		{'x', Input{Number: -1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.b), func(t *testing.T) {
			var state keyState
			in := Input{Number: -1}
			applyByteToState(&state, &in, tt.b, time.Now())
			assert.Equal(t, tt.want, in)
		})
	}
}

func TestStepIsHeld(t *testing.T) {
	now := time.Now()
	var state keyState
	in := Input{Number: -1}
	applyByteToState(&state, &in, '.', now)
	assert.Equal(t, now, state.step)
}

func TestReadInputSkipsEscapeSequences(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	go pw.Write([]byte("\x1b[Dn"))
	s := StartStream(bufio.NewReader(pr))

	var got Input
	assert.Eventually(t, func() bool {
		got = ReadInput(s)
		return got.Spawn || got.Quit
	}, time.Second, time.Millisecond)

	assert.True(t, got.Spawn)
	assert.False(t, got.Quit, "'D' of the arrow key is not a command")
}

func TestReadInputSkipsWholeCSISequence(t *testing.T) {
	tests := []struct {
		name   string
		keys   string
		number int
		spawn  bool
	}{
		{name: "ctrl up", keys: "\x1b[1;5A", number: -1},
		{name: "page down", keys: "\x1b[6~", number: -1},
		{name: "modified arrow then key", keys: "\x1b[1;2Cn", number: -1, spawn: true},
		{name: "digit after sequence", keys: "\x1b[1;5B3", number: 3},
		{name: "truncated", keys: "\x1b[1;5", number: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{ch: make(chan byte, len(tt.keys))}
			for i := 0; i < len(tt.keys); i++ {
				s.ch <- tt.keys[i]
			}

			got := ReadInput(s)
			assert.Equal(t, tt.number, got.Number)
			assert.Equal(t, tt.spawn, got.Spawn)
			assert.False(t, got.Quit)
		})
	}
}

func TestReadInputQuitsWhenReaderEnds(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("")))

	assert.Eventually(t, func() bool {
		return ReadInput(s).Quit
	}, time.Second, time.Millisecond)
	assert.True(t, s.Closed())
}

func TestResetKeyInput(t *testing.T) {
	s := &Stream{ch: make(chan byte, 1)}
	s.state.step = time.Now()
	ResetKeyInput(s)
	assert.False(t, ReadInput(s).Step)
}
