package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/ricochet/internal/scene"
	"github.com/tomz197/ricochet/internal/sim"
)

func TestReport(t *testing.T) {
	layout, err := scene.LoadLayout("")
	require.NoError(t, err)

	results, err := sim.RunBatch(context.Background(), []*scene.Layout{layout}, 240, time.Second/120, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report(&buf, results, true))

	lines := strings.Split(buf.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "scene"), "header first")
	assert.Contains(t, lines[0], "no-edge-check")
	assert.True(t, strings.HasPrefix(lines[1], "arena"))
	assert.Contains(t, buf.String(), "# arena")
	assert.Contains(t, buf.String(), "ball 5 at")
}

func TestTickDuration(t *testing.T) {
	dt, err := tickDuration(120)
	require.NoError(t, err)
	assert.Equal(t, time.Second/120, dt)

	dt, err = tickDuration(1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, time.Nanosecond, dt)

	for _, hz := range []int{0, -5, 1_000_000_001, 4_000_000_000} {
		_, err := tickDuration(hz)
		assert.Error(t, err, "hz %d", hz)
	}
}
