package pose

import "math"

// referenceRate is the frame rate at which smoothing base factors are
// authored. BlendFactor rescales a base factor to the actual elapsed frame
// time so filters behave identically at 30, 60, or 144 Hz.
const referenceRate = 60.0

// BlendFactor converts a per-reference-frame blend base into the effective
// alpha for a frame that took dt seconds: 1 - (1-base)^(dt*refRate).
// Degenerate dt collapses to no blending rather than a snap.
func BlendFactor(base, dt float64) float64 {
	if base <= 0 || dt <= 0 {
		return 0
	}
	if base >= 1 {
		return 1
	}
	return 1 - math.Pow(1-base, dt*referenceRate)
}

// smoothScalar advances an exponentially smoothed value toward target.
func smoothScalar(current, target, base, dt float64) float64 {
	alpha := BlendFactor(base, dt)
	return current + (target-current)*alpha
}
