package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/ricochet/internal/geom"
)

// horizontalSegment returns the segment (-5,0)..(5,0), whose normal is (0,-1).
func horizontalSegment(t *testing.T) geom.LineSegment {
	t.Helper()
	seg, err := geom.NewLineSegment(geom.Vec2{}, 10, 0)
	require.NoError(t, err)
	require.True(t, seg.Normal().ApproxEqual(geom.Vec2{X: 0, Y: -1}))
	return seg
}

func TestCircleLineSegmentHitFromBackFace(t *testing.T) {
	seg := horizontalSegment(t)
	c := geom.Circle{Center: geom.Vec2{X: 0, Y: 5}, Radius: 1}

	hit, outcome := CircleLineSegment(c, geom.Vec2{X: 0, Y: 0}, seg)

	require.Equal(t, Hit, outcome)
	assert.InDelta(t, 0.8, hit.Time, 1e-12)
	assert.True(t, hit.Point.ApproxEqual(geom.Vec2{X: 0, Y: 1}), "point = %v", hit.Point)
	// The body is on the side opposite the segment normal, so the collision
	// normal is flipped to face it.
	assert.True(t, hit.Normal.ApproxEqual(geom.Vec2{X: 0, Y: 1}), "normal = %v", hit.Normal)
}

func TestCircleLineSegmentHitFromFrontFace(t *testing.T) {
	seg := horizontalSegment(t)
	c := geom.Circle{Center: geom.Vec2{X: 1, Y: -4}, Radius: 2}

	hit, outcome := CircleLineSegment(c, geom.Vec2{X: 1, Y: 0}, seg)

	require.Equal(t, Hit, outcome)
	assert.InDelta(t, 0.5, hit.Time, 1e-12)
	assert.True(t, hit.Point.ApproxEqual(geom.Vec2{X: 1, Y: -2}), "point = %v", hit.Point)
	assert.True(t, hit.Normal.ApproxEqual(seg.Normal()))
}

func TestCircleLineSegmentMovingAway(t *testing.T) {
	seg := horizontalSegment(t)
	c := geom.Circle{Center: geom.Vec2{X: 0, Y: 5}, Radius: 1}

	_, outcome := CircleLineSegment(c, geom.Vec2{X: 0, Y: 10}, seg)
	assert.Equal(t, NoHit, outcome)
}

func TestCircleLineSegmentTooShort(t *testing.T) {
	seg := horizontalSegment(t)
	c := geom.Circle{Center: geom.Vec2{X: 0, Y: 5}, Radius: 1}

	hit, outcome := CircleLineSegment(c, geom.Vec2{X: 0, Y: 3}, seg)
	assert.Equal(t, NoHit, outcome)
	assert.InDelta(t, 2.0, hit.Time, 1e-12, "time beyond the tick is still reported")
}

func TestCircleLineSegmentBoundaryIsFrontFace(t *testing.T) {
	seg := horizontalSegment(t)
	// n·c - n·p0 == r exactly.
	c := geom.Circle{Center: geom.Vec2{X: 0, Y: -1}, Radius: 1}

	hit, outcome := CircleLineSegment(c, geom.Vec2{X: 0, Y: 1}, seg)

	require.Equal(t, Hit, outcome)
	assert.Zero(t, hit.Time)
	assert.True(t, hit.Point.ApproxEqual(c.Center))
	assert.True(t, hit.Normal.ApproxEqual(seg.Normal()), "front face keeps the segment normal")
}

func TestCircleLineSegmentBackBoundary(t *testing.T) {
	seg := horizontalSegment(t)
	c := geom.Circle{Center: geom.Vec2{X: 0, Y: 1}, Radius: 1}

	hit, outcome := CircleLineSegment(c, geom.Vec2{X: 0, Y: -1}, seg)

	require.Equal(t, Hit, outcome)
	assert.Zero(t, hit.Time)
	assert.True(t, hit.Normal.ApproxEqual(seg.Normal().Neg()))
}

func TestCircleLineSegmentStraddling(t *testing.T) {
	seg := horizontalSegment(t)

	for _, y := range []float64{0.999, 0, -0.5} {
		c := geom.Circle{Center: geom.Vec2{X: 0, Y: y}, Radius: 1}
		_, outcome := CircleLineSegment(c, geom.Vec2{X: 0, Y: y - 3}, seg)
		assert.Equal(t, Straddling, outcome, "y=%v", y)
		assert.True(t, outcome.Unhandled())
	}
}

func TestCircleLineSegmentPassesOutsideExtent(t *testing.T) {
	seg := horizontalSegment(t)
	// Crosses y=0 at x=8, beyond the endpoint at x=5.
	c := geom.Circle{Center: geom.Vec2{X: 8, Y: 5}, Radius: 1}

	_, outcome := CircleLineSegment(c, geom.Vec2{X: 8, Y: -5}, seg)
	assert.Equal(t, NoEdgeCheck, outcome)
	assert.True(t, outcome.Unhandled())
}

func TestCircleLineSegmentParallelMotion(t *testing.T) {
	seg := horizontalSegment(t)
	c := geom.Circle{Center: geom.Vec2{X: -3, Y: 4}, Radius: 1}

	_, outcome := CircleLineSegment(c, geom.Vec2{X: 3, Y: 4}, seg)
	assert.Equal(t, NoEdgeCheck, outcome, "a path parallel to the wall never crosses between its edge points")
}

func TestCircleLineSegmentStationary(t *testing.T) {
	seg := horizontalSegment(t)
	c := geom.Circle{Center: geom.Vec2{X: 0, Y: 4}, Radius: 1}

	_, outcome := CircleLineSegment(c, c.Center, seg)
	assert.Equal(t, NoEdgeCheck, outcome)
}

func TestCircleLineSegmentReconstructsPoint(t *testing.T) {
	seg, err := geom.NewLineSegment(geom.Vec2{X: 3, Y: -2}, 20, 0.7)
	require.NoError(t, err)

	starts := []geom.Vec2{{X: -4, Y: 6}, {X: 8, Y: -9}, {X: 1, Y: 7}, {X: 10, Y: -6}}
	for _, start := range starts {
		c := geom.Circle{Center: start, Radius: 1.5}
		end := seg.Center().Sub(start).Scale(1.6).Add(start)

		hit, outcome := CircleLineSegment(c, end, seg)
		require.Equal(t, Hit, outcome, "start %v", start)
		require.GreaterOrEqual(t, hit.Time, 0.0)
		require.LessOrEqual(t, hit.Time, 1.0)

		want := start.Add(end.Sub(start).Scale(hit.Time))
		assert.True(t, want.ApproxEqual(hit.Point), "start %v: %v != %v", start, want, hit.Point)

		// The center sits one radius from the segment's line at contact.
		dist := hit.Point.Sub(seg.P0()).Dot(seg.Normal())
		assert.InDelta(t, c.Radius, abs(dist), 1e-9)
		// The normal faces the side the body came from.
		assert.Greater(t, start.Sub(hit.Point).Dot(hit.Normal), 0.0)
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "hit", Hit.String())
	assert.Equal(t, "straddling", Straddling.String())
	assert.Equal(t, "no-edge-check", NoEdgeCheck.String())
	assert.Equal(t, "unknown", Outcome(42).String())
	assert.ErrorIs(t, DegenerateInput.Err(), ErrDegenerateInput)
	assert.NoError(t, NoHit.Err())
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
