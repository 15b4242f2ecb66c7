// Package pose converts raw body-landmark samples into the smoothed,
// calibrated weapon-and-look input that drives the combat session. The
// detector itself (camera, inference) lives behind the Frame type; this
// package only maps its output.
package pose

import "math"

// Body landmark indices following the MediaPipe pose convention. Only a
// subset is read, but samples must carry at least MinLandmarks entries so
// every index below is addressable.
const (
	Nose          = 0
	LeftEyeInner  = 1
	LeftEye       = 2
	LeftEyeOuter  = 3
	RightEyeInner = 4
	RightEye      = 5
	RightEyeOuter = 6
	LeftEar       = 7
	RightEar      = 8
	MouthLeft     = 9
	MouthRight    = 10
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftPinky     = 17
	RightPinky    = 18
	LeftIndex     = 19
	RightIndex    = 20
	LeftThumb     = 21
	RightThumb    = 22
	LeftHip       = 23
	RightHip      = 24

	// MinLandmarks is the smallest sample the mapper will accept.
	MinLandmarks = 25
)

// ImagePoint is a landmark in normalized image space: x and y in 0..1 with
// y growing downward, z a unitless relative depth. Head and gesture mapping
// work in this space.
type ImagePoint struct {
	X float64
	Y float64
	Z float64
}

// WorldPoint is a landmark in detector world space, in meters relative to
// the hip center. Arm and weapon mapping work in this space.
//
// ImagePoint and WorldPoint are deliberately distinct types: the two spaces
// share indexing but not units, and a mixed-up argument should fail to
// compile rather than produce a subtly wrong offset.
type WorldPoint struct {
	X float64
	Y float64
	Z float64
}

// Frame is one detector sample: parallel image-space and world-space
// landmark arrays with identical indexing plus the detector timestamp.
// A nil *Frame means "no new sample this frame", which is distinct from a
// present-but-invalid sample.
type Frame struct {
	Image       []ImagePoint
	World       []WorldPoint
	TimestampMs int64
}

func (p ImagePoint) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

func (p WorldPoint) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

func imageDistance(a, b ImagePoint) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Hypot(dx, dy)
}

// usable reports whether the frame carries enough finite landmarks for the
// mapper to run. Only the indices the mapper actually reads are validated.
func (f *Frame) usable() bool {
	if f == nil || len(f.Image) < MinLandmarks || len(f.World) < MinLandmarks {
		return false
	}
	imageIdx := [...]int{
		Nose, LeftEye, RightEye, LeftShoulder, RightShoulder,
		LeftWrist, RightWrist, LeftIndex, LeftPinky, LeftHip, RightHip,
	}
	for _, i := range imageIdx {
		if !f.Image[i].finite() {
			return false
		}
	}
	worldIdx := [...]int{
		LeftShoulder, RightShoulder, RightElbow, RightWrist, LeftHip, RightHip,
	}
	for _, i := range worldIdx {
		if !f.World[i].finite() {
			return false
		}
	}
	return true
}
