package combat

import "time"

// Config carries the collision tunables. Defaults are the authored arena
// values; the host config layer overrides from file.
type Config struct {
	// Opponent body capsule: vertical axis offsets from the ground
	// position plus the radius.
	CapsuleBottom float64
	CapsuleTop    float64
	CapsuleRadius float64

	// PlayerHitRadius is the capsule radius used when a bot attacks the
	// player. Deliberately larger than the geometric body size to
	// compensate for tracking noise; a gameplay-feel tunable, not a
	// measurement.
	PlayerHitRadius     float64
	PlayerCapsuleBottom float64
	PlayerCapsuleTop    float64

	// MinTipSpeed gates continuous-tracking attacks: the blade tip must
	// move at least this fast (m/s) to count as swinging.
	MinTipSpeed float64

	// MaxEngagementDistance culls opponents before any segment math runs.
	MaxEngagementDistance float64

	SlashDamage    float64
	BlockReduction float64

	PlayerHitCooldown   time.Duration
	OpponentHitCooldown time.Duration

	ClashRadius   float64
	ClashCooldown time.Duration
}

// DefaultConfig returns the authored combat tuning.
func DefaultConfig() Config {
	return Config{
		CapsuleBottom:         0.2,
		CapsuleTop:            2.1,
		CapsuleRadius:         0.45,
		PlayerHitRadius:       0.7,
		PlayerCapsuleBottom:   -1.4,
		PlayerCapsuleTop:      0.3,
		MinTipSpeed:           2.5,
		MaxEngagementDistance: 4.0,
		SlashDamage:           12,
		BlockReduction:        0.7,
		PlayerHitCooldown:     600 * time.Millisecond,
		OpponentHitCooldown:   900 * time.Millisecond,
		ClashRadius:           0.6,
		ClashCooldown:         800 * time.Millisecond,
	}
}
