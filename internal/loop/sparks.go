package loop

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/ricochet/internal/draw"
	"github.com/tomz197/ricochet/internal/geom"
	"github.com/tomz197/ricochet/internal/loop/config"
)

// sparkPool is a sync.Pool for reusing Spark objects to reduce allocations.
var sparkPool = sync.Pool{
	New: func() any {
		return &Spark{}
	},
}

// Spark is a short-lived impact effect.
type Spark struct {
	X, Y        float64
	VX, VY      float64
	Lifetime    float64 // seconds remaining
	MaxLifetime float64
	Drag        float64 // velocity kept per 1/60 s
}

// NewSpark takes a spark from the pool.
func NewSpark(x, y, vx, vy, lifetime float64) *Spark {
	p := sparkPool.Get().(*Spark)
	*p = Spark{
		X:           x,
		Y:           y,
		VX:          vx,
		VY:          vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.9,
	}
	return p
}

// Release returns the spark to the pool.
func (p *Spark) Release() {
	sparkPool.Put(p)
}

// spawnSparks sprays count sparks from point into the half-plane normal faces.
func spawnSparks(dst []*Spark, point, normal geom.Vec2, count int) []*Spark {
	if normal.LengthSq() == 0 {
		return dst
	}
	base := math.Atan2(normal.Y, normal.X)

	for n := 0; n < count; n++ {
		angle := base + (rand.Float64()-0.5)*math.Pi*0.8
		speed := config.SparkSpeed * (0.5 + rand.Float64())
		life := config.SparkLifetime * (0.5 + rand.Float64()*0.5)

		dir := geom.FromRadians(angle)
		dst = append(dst, NewSpark(point.X, point.Y, dir.X*speed, dir.Y*speed, life))
	}
	return dst
}

// Update moves the spark and reports whether it has burnt out.
func (p *Spark) Update(dt float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	drag := math.Pow(p.Drag, dt*60)
	p.VX *= drag
	p.VY *= drag
	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// Draw plots the spark until the last quarter of its life.
func (p *Spark) Draw(c *draw.Canvas) {
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return
	}
	c.SetFloat(p.X, p.Y)
}

// updateSparks ages every spark, releasing the expired ones in place.
func updateSparks(sparks []*Spark, dt float64) []*Spark {
	kept := sparks[:0]
	for _, p := range sparks {
		if p.Update(dt) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(sparks[len(kept):])
	return kept
}
