package collision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/ricochet/internal/geom"
)

func TestReflect(t *testing.T) {
	tests := []struct {
		name      string
		inter     geom.Vec2
		normal    geom.Vec2
		end       geom.Vec2
		newEnd    geom.Vec2
		reflected geom.Vec2
	}{
		{
			name:      "head on",
			inter:     geom.Vec2{X: 0, Y: 1},
			normal:    geom.Vec2{X: 0, Y: 1},
			end:       geom.Vec2{X: 0, Y: 0},
			newEnd:    geom.Vec2{X: 0, Y: 2},
			reflected: geom.Vec2{X: 0, Y: 1},
		},
		{
			name:      "glancing",
			inter:     geom.Vec2{X: 2, Y: 1},
			normal:    geom.Vec2{X: 0, Y: 1},
			end:       geom.Vec2{X: 4, Y: -1},
			newEnd:    geom.Vec2{X: 4, Y: 3},
			reflected: geom.Vec2{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2},
		},
		{
			name:      "vertical wall",
			inter:     geom.Vec2{X: 9, Y: 4},
			normal:    geom.Vec2{X: -1, Y: 0},
			end:       geom.Vec2{X: 12, Y: 8},
			newEnd:    geom.Vec2{X: 6, Y: 8},
			reflected: geom.Vec2{X: -0.6, Y: 0.8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newEnd, reflected, err := Reflect(tt.inter, tt.normal, tt.end)
			require.NoError(t, err)
			assert.True(t, newEnd.ApproxEqual(tt.newEnd), "newEnd = %v", newEnd)
			assert.True(t, reflected.ApproxEqual(tt.reflected), "reflected = %v", reflected)

			// Reflection preserves the remaining travel distance.
			assert.InDelta(t, tt.end.Distance(tt.inter), newEnd.Distance(tt.inter), 1e-9)
		})
	}
}

func TestReflectNoRemainingTravel(t *testing.T) {
	inter := geom.Vec2{X: 3, Y: 3}

	newEnd, _, err := Reflect(inter, geom.Vec2{X: 0, Y: 1}, inter)
	assert.ErrorIs(t, err, ErrDegenerateInput)
	assert.Equal(t, inter, newEnd)
}

func TestReflectVectorIsInvolution(t *testing.T) {
	normals := []geom.Vec2{
		{X: 0, Y: 1},
		{X: -1, Y: 0},
		geom.FromDegrees(33),
		geom.FromDegrees(-147),
	}
	dirs := []geom.Vec2{{X: 1, Y: 2}, {X: -3, Y: 0.5}, {X: 0, Y: -7}}

	for _, n := range normals {
		for _, d := range dirs {
			once := ReflectVector(d, n)
			twice := ReflectVector(once, n)
			assert.True(t, twice.ApproxEqual(d), "n=%v d=%v got %v", n, d, twice)
			assert.InDelta(t, d.Length(), once.Length(), 1e-9)
		}
	}
}

func TestCircleLineSegmentResponse(t *testing.T) {
	seg, err := geom.NewLineSegment(geom.Vec2{}, 10, 0)
	require.NoError(t, err)
	c := geom.Circle{Center: geom.Vec2{X: 0, Y: 5}, Radius: 1}
	end := geom.Vec2{X: 0, Y: 0}

	hit, outcome := CircleLineSegment(c, end, seg)
	require.Equal(t, Hit, outcome)

	newEnd, reflected, err := CircleLineSegmentResponse(hit, end)
	require.NoError(t, err)
	assert.True(t, newEnd.ApproxEqual(geom.Vec2{X: 0, Y: 2}), "newEnd = %v", newEnd)
	assert.True(t, reflected.ApproxEqual(geom.Vec2{X: 0, Y: 1}))

	// The bounced circle ends up clear of the wall band.
	assert.GreaterOrEqual(t, newEnd.Sub(seg.P0()).Dot(hit.Normal), c.Radius)
}

func TestCirclePillarResponse(t *testing.T) {
	a := geom.Circle{Center: geom.Vec2{}, Radius: 1}
	pillar := geom.Circle{Center: geom.Vec2{X: 5}, Radius: 1}
	vel := geom.Vec2{X: 10}

	contact, outcome := CircleCircle(a, vel, pillar, geom.Vec2{})
	require.Equal(t, Hit, outcome)

	newEnd, reflected, normal, err := CirclePillarResponse(contact, pillar.Center, a.Center.Add(vel))
	require.NoError(t, err)
	assert.True(t, normal.ApproxEqual(geom.Vec2{X: -1}), "normal = %v", normal)
	assert.True(t, newEnd.ApproxEqual(geom.Vec2{X: -4}), "newEnd = %v", newEnd)
	assert.True(t, reflected.ApproxEqual(geom.Vec2{X: -1}))
}

func TestPillarNormalDegenerate(t *testing.T) {
	_, err := PillarNormal(geom.Vec2{X: 1, Y: 1}, geom.Vec2{X: 1, Y: 1})
	assert.ErrorIs(t, err, ErrDegenerateInput)
}

func TestCircleCircleResponseLeavesBodiesUnchanged(t *testing.T) {
	a := Body{Circle: geom.Circle{Center: geom.Vec2{}, Radius: 1, Mass: 2}, Vel: geom.Vec2{X: 3}}
	b := Body{Circle: geom.Circle{Center: geom.Vec2{X: 4}, Radius: 1, Mass: 1}, Vel: geom.Vec2{X: -3}}

	gotA, gotB := CircleCircleResponse(a, b, Contact{Time: 0.33})
	assert.Equal(t, a, gotA)
	assert.Equal(t, b, gotB)
}
