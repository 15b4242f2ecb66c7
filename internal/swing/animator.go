// Package swing animates a scripted blade arc for keyboard-driven attacks.
// It publishes the same weapon-segment contract as the pose-tracking path,
// so the collision session cannot tell the two input sources apart.
package swing

import (
	"math"
	"time"

	"saberarena/server/internal/combat"
	"saberarena/server/internal/geom"
)

// Config tunes the authored swing arc.
type Config struct {
	// Duration is the full arc time from windup to follow-through.
	Duration time.Duration
	// BladeLength is hilt-to-tip distance in meters.
	BladeLength float64
	// ArcStart and ArcEnd are blade pitch angles in radians measured from
	// straight ahead: the arc sweeps from raised to lowered.
	ArcStart float64
	ArcEnd   float64
	// RestPitch is the idle blade angle.
	RestPitch float64
	// HiltOffset places the hilt relative to the camera position.
	HiltOffset geom.Vec3
}

// DefaultConfig returns the authored swing tuning.
func DefaultConfig() Config {
	return Config{
		Duration:    280 * time.Millisecond,
		BladeLength: 1.05,
		ArcStart:    70 * math.Pi / 180,
		ArcEnd:      -35 * math.Pi / 180,
		RestPitch:   40 * math.Pi / 180,
		HiltOffset:  geom.Vec3{X: 0.25, Y: -0.35, Z: 0.3},
	}
}

// Animator drives one combatant's weapon transform through scripted swings.
// Single-threaded: the host frame loop calls Trigger and Publish in order.
type Animator struct {
	cfg       Config
	swinging  bool
	startedAt time.Time
}

func NewAnimator(cfg Config) *Animator {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultConfig().Duration
	}
	if cfg.BladeLength <= 0 {
		cfg.BladeLength = DefaultConfig().BladeLength
	}
	return &Animator{cfg: cfg}
}

// Trigger starts a swing. Returns false without restarting when a swing is
// already in flight.
func (a *Animator) Trigger(now time.Time) bool {
	if a.swinging && now.Sub(a.startedAt) < a.cfg.Duration {
		return false
	}
	a.swinging = true
	a.startedAt = now
	return true
}

// Swinging reports whether an arc is in flight at the given time.
func (a *Animator) Swinging(now time.Time) bool {
	if !a.swinging {
		return false
	}
	if now.Sub(a.startedAt) >= a.cfg.Duration {
		a.swinging = false
	}
	return a.swinging
}

// Pose computes the blade segment for this frame: hilt anchored near the
// owner's position, tip swept through the arc while swinging or held at the
// rest angle otherwise. Yaw orients the arc plane toward the facing
// direction.
func (a *Animator) Pose(now time.Time, origin geom.Vec3, yaw float64) combat.WeaponState {
	active := a.Swinging(now)

	pitch := a.cfg.RestPitch
	if active {
		t := float64(now.Sub(a.startedAt)) / float64(a.cfg.Duration)
		pitch = a.cfg.ArcStart + (a.cfg.ArcEnd-a.cfg.ArcStart)*easeOutQuad(t)
	}

	sinYaw, cosYaw := math.Sin(yaw), math.Cos(yaw)
	hilt := geom.Vec3{
		X: origin.X + a.cfg.HiltOffset.X*cosYaw + a.cfg.HiltOffset.Z*sinYaw,
		Y: origin.Y + a.cfg.HiltOffset.Y,
		Z: origin.Z - a.cfg.HiltOffset.X*sinYaw + a.cfg.HiltOffset.Z*cosYaw,
	}

	// Blade direction: pitch above the horizontal, rotated into the yaw
	// plane.
	forward := math.Cos(pitch)
	dir := geom.Vec3{
		X: forward * sinYaw,
		Y: math.Sin(pitch),
		Z: forward * cosYaw,
	}
	tip := hilt.Add(dir.Scale(a.cfg.BladeLength))

	return combat.WeaponState{Hilt: hilt, Tip: tip, Active: active}
}

// easeOutQuad front-loads blade speed so the arc reads as a strike rather
// than a sweep.
func easeOutQuad(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t * (2 - t)
}
