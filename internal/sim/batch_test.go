package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/ricochet/internal/scene"
)

func TestRunBatch(t *testing.T) {
	a, err := scene.Default().Build()
	require.NoError(t, err)
	b, err := scene.Default().Build()
	require.NoError(t, err)
	b.Name = "copy"

	results, err := RunBatch(context.Background(), []*scene.Layout{a, b}, 300, time.Second/60, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "arena", results[0].Name)
	assert.Equal(t, "copy", results[1].Name)
	assert.Equal(t, uint64(300), results[0].Stats.Ticks)

	// Worlds are independent, so identical scenes give identical runs.
	assert.Equal(t, results[0].Stats, results[1].Stats)
	assert.Equal(t, results[0].Balls, results[1].Balls)

	// A single world gives the same answer as the batch.
	w := New(a)
	for n := 0; n < 300; n++ {
		w.Step(time.Second / 60)
	}
	assert.Equal(t, w.Stats(), results[0].Stats)
}

func TestRunBatchCancelled(t *testing.T) {
	layout, err := scene.Default().Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = RunBatch(ctx, []*scene.Layout{layout}, 10, time.Second/60, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
