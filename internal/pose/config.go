package pose

import "math"

// Config carries every tunable the mapper consumes. Zero-value fields are
// filled in by DefaultConfig; the host config layer overrides from file.
type Config struct {
	// LookSensitivity scales both head-look axes.
	LookSensitivity float64
	// YawGain and PitchGain convert head-tilt radians / nose displacement
	// into look radians before sensitivity is applied.
	YawGain   float64
	PitchGain float64
	// MaxYaw and MaxPitch clamp the raw look cone before smoothing.
	MaxYaw   float64
	MaxPitch float64

	// MoveGainX and MoveGainZ scale hip displacement into position offsets.
	MoveGainX float64
	MoveGainZ float64

	// WeaponOffsetGain scales the wrist-relative-to-shoulder offset;
	// WeaponOffsetRange clamps the result on both axes.
	WeaponOffsetGain  float64
	WeaponOffsetRange float64

	// LookSmoothing and WeaponSmoothing are per-reference-frame blend
	// bases (see BlendFactor).
	LookSmoothing   float64
	WeaponSmoothing float64

	// SwingSpeed is the wrist screen-space speed (normalized units per
	// second) that fires a swing; SwingCooldownMs gates refiring.
	SwingSpeed      float64
	SwingCooldownMs int64

	// MaxFrameGapMs rejects velocity estimates across stale or teleported
	// samples.
	MaxFrameGapMs int64

	// ArmRaiseMargin is how far (normalized image units) the off-hand
	// wrist must sit above the shoulder to count as raised.
	ArmRaiseMargin float64

	// FistClose and FistOpen are the hysteresis thresholds on the mean
	// fingertip-to-wrist image distance. Close must be below open.
	FistClose float64
	FistOpen  float64
}

// DefaultConfig returns the authored mapper tuning.
func DefaultConfig() Config {
	return Config{
		LookSensitivity:   1.0,
		YawGain:           3.0,
		PitchGain:         6.0,
		MaxYaw:            135 * math.Pi / 180,
		MaxPitch:          72 * math.Pi / 180,
		MoveGainX:         1.6,
		MoveGainZ:         1.2,
		WeaponOffsetGain:  1.4,
		WeaponOffsetRange: 0.6,
		LookSmoothing:     0.25,
		WeaponSmoothing:   0.35,
		SwingSpeed:        1.8,
		SwingCooldownMs:   450,
		MaxFrameGapMs:     250,
		ArmRaiseMargin:    0.05,
		FistClose:         0.09,
		FistOpen:          0.13,
	}
}
