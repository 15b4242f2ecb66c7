package combat

import "saberarena/server/internal/geom"

// WeaponState is one published blade pose: the world-space hilt and tip
// endpoints plus whether the blade is currently swinging and eligible to
// deal damage.
type WeaponState struct {
	Hilt   geom.Vec3
	Tip    geom.Vec3
	Active bool
}

// Segment returns the blade as a collision segment.
func (w WeaponState) Segment() geom.Segment {
	return geom.Segment{A: w.Hilt, B: w.Tip}
}

// WeaponTransform is the continuously overwritten blade pose shared between
// a presentation driver and the collision session. Exactly one driver
// writes it and the session reads it within each frame, in that order, so
// no locking is needed; the value is never absent, merely stale if the
// driver stalls.
type WeaponTransform struct {
	state WeaponState
}

// Publish overwrites the current blade pose. Called once per frame by
// whichever driver (pose mapper host, scripted swing animator, bot, or
// network mirror) currently owns this combatant's weapon.
func (t *WeaponTransform) Publish(state WeaponState) {
	t.state = state
}

// Current returns the last published pose.
func (t *WeaponTransform) Current() WeaponState {
	return t.state
}
