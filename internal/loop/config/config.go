// Package config centralizes the sandbox's tunable parameters.
package config

import "time"

// Rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Render area cap; larger terminals get a centered, bordered canvas.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Simulation clock
const (
	TickRate         = 120
	TickTime         = time.Second / TickRate
	MaxTicksPerFrame = 8 // backlog beyond this is dropped
	DefaultSpeed     = 4 // digit n runs at n/DefaultSpeed real time
)

// Spawning
const (
	SpawnRadius   = 1.5
	SpawnSpeedMin = 10.0
	SpawnSpeedMax = 35.0
	SpawnAttempts = 20
	MaxBalls      = 64
)

// Impact sparks
const (
	SparksPerHit  = 6
	SparkSpeed    = 20.0
	SparkLifetime = 0.4 // seconds
)

// VectorSeconds is how far ahead the velocity overlay reaches.
const VectorSeconds = 0.5

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)
