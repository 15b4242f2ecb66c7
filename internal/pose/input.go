package pose

// GameInput is the mapper's per-frame output. It is recomputed whole every
// processed sample; when tracking drops the entire record reverts to the
// neutral default rather than carrying partially stale fields.
type GameInput struct {
	// LookYaw and LookPitch are view offsets in radians, clamped to the
	// configured cones.
	LookYaw   float64
	LookPitch float64

	// MoveX and MoveZ are planar body-position offsets in meters relative
	// to the calibrated neutral stance. Unsmoothed: this path trades jitter
	// for zero latency and callers smooth downstream if they need to.
	MoveX float64
	MoveZ float64

	// WeaponOffsetX and WeaponOffsetY translate the weapon in the screen
	// plane, clamped to the configured range.
	WeaponOffsetX float64
	WeaponOffsetY float64

	// WeaponRoll is the blade roll in radians around its rest axis. Pitch
	// and yaw of the held weapon stay at authored constants; only roll
	// follows the forearm.
	WeaponRoll float64

	// Swing is true only on the frame a wrist-velocity spike is accepted,
	// at most once per swing cooldown window.
	Swing bool

	// ArmRaised and FistClosed are the off-hand gesture flags.
	ArmRaised  bool
	FistClosed bool

	// Tracking is false whenever this record is the neutral fallback.
	Tracking bool
}

// NeutralInput is the defined default returned for invalid or sub-minimum
// samples: all offsets zero, no gestures, tracking off.
func NeutralInput() GameInput {
	return GameInput{}
}
