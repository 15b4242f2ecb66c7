// Package bot drives a practice-mode opponent: it closes distance to the
// player, winds up, and commits scripted swings through the same weapon
// transform contract every other driver uses.
package bot

import (
	"math"
	"math/rand"
	"time"

	"saberarena/server/internal/combat"
	"saberarena/server/internal/geom"
	"saberarena/server/internal/swing"
)

// Config tunes bot behavior.
type Config struct {
	// MoveSpeed is approach speed in m/s.
	MoveSpeed float64
	// AttackRange is how close the bot gets before it starts swinging.
	AttackRange float64
	// StandOff keeps the bot from walking into the player.
	StandOff float64
	// DecisionDelayMin/Max bound the randomized pause between attack
	// decisions, so the bot's cadence does not read as metronomic.
	DecisionDelayMin time.Duration
	DecisionDelayMax time.Duration
	// EyeHeight anchors the bot's blade near its head.
	EyeHeight float64
}

// DefaultConfig returns the authored bot tuning.
func DefaultConfig() Config {
	return Config{
		MoveSpeed:        1.1,
		AttackRange:      2.2,
		StandOff:         1.3,
		DecisionDelayMin: 700 * time.Millisecond,
		DecisionDelayMax: 1600 * time.Millisecond,
		EyeHeight:        1.65,
	}
}

// Bot owns one opponent slot for the duration of a practice match.
type Bot struct {
	cfg       Config
	opponent  *combat.Opponent
	animator  *swing.Animator
	nextSwing time.Time
	rng       *rand.Rand
}

// New attaches a bot driver to an opponent slot. The seed makes replays
// reproducible; pass a clock-derived seed for live play.
func New(cfg Config, opponent *combat.Opponent, seed int64) *Bot {
	if cfg.MoveSpeed <= 0 {
		cfg = DefaultConfig()
	}
	return &Bot{
		cfg:      cfg,
		opponent: opponent,
		animator: swing.NewAnimator(swing.DefaultConfig()),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Advance runs one frame of bot behavior: steer toward the player, decide
// whether to swing, and publish the resulting blade pose. Must run before
// the session's collision pass each frame.
func (b *Bot) Advance(now time.Time, dt float64, playerPos geom.Vec3) {
	if b.opponent == nil || dt <= 0 {
		return
	}

	toPlayer := geom.Vec3{
		X: playerPos.X - b.opponent.Position.X,
		Z: playerPos.Z - b.opponent.Position.Z,
	}
	planar := math.Hypot(toPlayer.X, toPlayer.Z)

	if planar > b.cfg.StandOff {
		step := b.cfg.MoveSpeed * dt
		if step > planar-b.cfg.StandOff {
			step = planar - b.cfg.StandOff
		}
		b.opponent.Position.X += toPlayer.X / planar * step
		b.opponent.Position.Z += toPlayer.Z / planar * step
	}

	if planar <= b.cfg.AttackRange && now.After(b.nextSwing) {
		if b.animator.Trigger(now) {
			b.nextSwing = now.Add(b.decisionDelay())
		}
	}

	yaw := math.Atan2(toPlayer.X, toPlayer.Z)
	anchor := geom.Vec3{
		X: b.opponent.Position.X,
		Y: b.opponent.Position.Y + b.cfg.EyeHeight,
		Z: b.opponent.Position.Z,
	}
	b.opponent.Weapon.Publish(b.animator.Pose(now, anchor, yaw))
}

func (b *Bot) decisionDelay() time.Duration {
	min := b.cfg.DecisionDelayMin
	max := b.cfg.DecisionDelayMax
	if max <= min {
		return min
	}
	return min + time.Duration(b.rng.Int63n(int64(max-min)))
}
