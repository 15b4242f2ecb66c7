package combat

import "saberarena/server/internal/geom"

// HitEvent is emitted when a blade connects with a body capsule. Events are
// transient: the host loop routes them to audio/VFX/network consumers the
// same frame and discards them, nothing is queued.
type HitEvent struct {
	Attacker CombatantID
	Target   CombatantID
	// Point is the world-space impact location, the midpoint of the two
	// closest points from the segment test.
	Point geom.Vec3
	// RawAmount is the damage before block reduction; Amount is what was
	// actually applied.
	RawAmount float64
	Amount    float64
	Blocked   bool
	// NewHealth is the target's health after the damage was applied, as
	// reported by the game state. Carried so the network layer can build
	// an authoritative damage notification without a second lookup.
	NewHealth float64
}

// ClashEvent is emitted when two active blades meet. A clash carries no
// damage, only the stun it already triggered.
type ClashEvent struct {
	Point geom.Vec3
}

// FrameEvents is everything one Advance call resolved. The session returns
// events as plain values rather than invoking subscriber callbacks, so the
// host loop fully controls routing order.
type FrameEvents struct {
	Hits  []HitEvent
	Clash *ClashEvent
}
