package pose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// neutralFrame builds a frame describing a centered, upright pose that the
// mapper can calibrate against.
func neutralFrame(ts int64) *Frame {
	image := make([]ImagePoint, MinLandmarks)
	world := make([]WorldPoint, MinLandmarks)

	image[Nose] = ImagePoint{X: 0.5, Y: 0.3}
	image[LeftEye] = ImagePoint{X: 0.46, Y: 0.28}
	image[RightEye] = ImagePoint{X: 0.54, Y: 0.28}
	image[LeftShoulder] = ImagePoint{X: 0.4, Y: 0.45}
	image[RightShoulder] = ImagePoint{X: 0.6, Y: 0.45}
	image[LeftWrist] = ImagePoint{X: 0.35, Y: 0.65}
	image[RightWrist] = ImagePoint{X: 0.65, Y: 0.65}
	image[LeftIndex] = ImagePoint{X: 0.28, Y: 0.78}
	image[LeftPinky] = ImagePoint{X: 0.29, Y: 0.79}
	image[LeftHip] = ImagePoint{X: 0.44, Y: 0.75}
	image[RightHip] = ImagePoint{X: 0.56, Y: 0.75}

	world[LeftShoulder] = WorldPoint{X: -0.2, Y: -0.4}
	world[RightShoulder] = WorldPoint{X: 0.2, Y: -0.4}
	world[RightElbow] = WorldPoint{X: 0.3, Y: -0.2}
	world[RightWrist] = WorldPoint{X: 0.35, Y: 0}
	world[LeftHip] = WorldPoint{X: -0.12, Y: 0}
	world[RightHip] = WorldPoint{X: 0.12, Y: 0}

	return &Frame{Image: image, World: world, TimestampMs: ts}
}

func TestProcessNilFrameKeepsLastInput(t *testing.T) {
	m := NewMapper(DefaultConfig())
	first := m.Process(neutralFrame(0))
	require.True(t, first.Tracking)

	again := m.Process(nil)
	require.Equal(t, first, again)
}

func TestProcessShortSampleYieldsNeutral(t *testing.T) {
	m := NewMapper(DefaultConfig())
	m.Process(neutralFrame(0))

	short := &Frame{
		Image:       make([]ImagePoint, 10),
		World:       make([]WorldPoint, 10),
		TimestampMs: 33,
	}
	got := m.Process(short)
	require.Equal(t, NeutralInput(), got)
	require.False(t, got.Tracking)

	// Valid samples resume from retained smoothing state, not from zero.
	resumed := m.Process(neutralFrame(66))
	require.True(t, resumed.Tracking)
}

func TestProcessNaNLandmarkYieldsNeutral(t *testing.T) {
	m := NewMapper(DefaultConfig())
	frame := neutralFrame(0)
	frame.World[RightWrist] = WorldPoint{X: math.NaN()}
	require.Equal(t, NeutralInput(), m.Process(frame))
}

func TestProcessDeduplicatesTimestamps(t *testing.T) {
	m := NewMapper(DefaultConfig())
	first := m.Process(neutralFrame(100))

	frame := neutralFrame(100)
	frame.Image[Nose].Y = 0.1 // would change pitch if processed
	require.Equal(t, first, m.Process(frame))
}

func TestCalibrationIdempotent(t *testing.T) {
	m := NewMapper(DefaultConfig())
	m.Process(neutralFrame(0))

	m.Recalibrate()
	m.Recalibrate()
	m.Process(neutralFrame(33))
	first := m.neutral

	m.Recalibrate()
	m.Process(neutralFrame(66))
	require.Equal(t, first, m.neutral)
}

func TestHeadTiltDrivesYaw(t *testing.T) {
	m := NewMapper(DefaultConfig())
	m.Process(neutralFrame(0))

	// Tilt head right: right eye drops relative to the left in image space.
	frame := neutralFrame(33)
	frame.Image[LeftEye] = ImagePoint{X: 0.46, Y: 0.26}
	frame.Image[RightEye] = ImagePoint{X: 0.54, Y: 0.30}

	got := m.Process(frame)
	require.InDelta(t, 0, got.LookPitch, 1e-9, "eye tilt alone must not move pitch")
	require.Less(t, got.LookYaw, 0.0, "clockwise image tilt should yaw negative after sign flip")
}

func TestLookClampedBeforeSmoothing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LookSmoothing = 1 // no filtering: output equals the clamped raw value
	m := NewMapper(cfg)
	m.Process(neutralFrame(0))

	frame := neutralFrame(33)
	// Extreme tilt far beyond the yaw cone.
	frame.Image[LeftEye] = ImagePoint{X: 0.46, Y: 0.1}
	frame.Image[RightEye] = ImagePoint{X: 0.54, Y: 0.5}

	got := m.Process(frame)
	require.LessOrEqual(t, math.Abs(got.LookYaw), cfg.MaxYaw+1e-9)
}

func TestFrameGapFallsBackToNominalInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LookSmoothing = 0.3
	m := NewMapper(cfg)
	m.Process(neutralFrame(0))

	// A ten-second detector stall, far beyond the accepted frame gap. The
	// mapper must treat the sample as one nominal-rate frame instead of
	// blending with an alpha computed over the whole stall.
	frame := neutralFrame(10_000)
	frame.Image[LeftEye] = ImagePoint{X: 0.46, Y: 0.26}
	frame.Image[RightEye] = ImagePoint{X: 0.54, Y: 0.30}

	got := m.Process(frame)

	rawYaw := -math.Atan2(0.30-0.26, 0.54-0.46) * cfg.YawGain * cfg.LookSensitivity
	want := rawYaw * BlendFactor(cfg.LookSmoothing, 0.016)
	require.InDelta(t, want, got.LookYaw, 1e-9,
		"post-stall blend must use the nominal frame interval")
	require.False(t, got.Swing, "a post-stall sample has no usable wrist velocity")
}

func TestBodyOffsetUnsmoothed(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMapper(cfg)
	m.Process(neutralFrame(0))

	frame := neutralFrame(33)
	frame.World[LeftHip] = WorldPoint{X: -0.02, Y: 0, Z: 0.1}
	frame.World[RightHip] = WorldPoint{X: 0.22, Y: 0, Z: 0.1}

	got := m.Process(frame)
	// Hip center moved +0.1 on x and +0.1 on z; x is mirror-flipped.
	require.InDelta(t, -0.1*cfg.MoveGainX, got.MoveX, 1e-9)
	require.InDelta(t, 0.1*cfg.MoveGainZ, got.MoveZ, 1e-9)
}

func TestSwingEdgeTriggered(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMapper(cfg)
	m.Process(neutralFrame(0))

	swings := 0
	x := 0.65
	for i := 1; i <= 10; i++ {
		frame := neutralFrame(int64(i) * 33)
		x += 0.15 // sustained fast wrist travel every frame
		frame.Image[RightWrist] = ImagePoint{X: x, Y: 0.65}
		if m.Process(frame).Swing {
			swings++
		}
	}
	// 10 frames * 33ms = 330ms, inside one 450ms cooldown window.
	require.Equal(t, 1, swings, "sustained fast motion must produce one swing per cooldown window")
}

func TestSwingRefiresAfterCooldown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SwingCooldownMs = 100
	m := NewMapper(cfg)
	m.Process(neutralFrame(0))

	swings := 0
	x := 0.65
	for i := 1; i <= 10; i++ {
		frame := neutralFrame(int64(i) * 50)
		x += 0.2
		frame.Image[RightWrist] = ImagePoint{X: x, Y: 0.65}
		if m.Process(frame).Swing {
			swings++
		}
	}
	require.Equal(t, 5, swings)
}

func TestSwingRejectsStaleGap(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMapper(cfg)
	m.Process(neutralFrame(0))

	// A huge timestamp gap with a teleported wrist must not read as speed.
	frame := neutralFrame(5000)
	frame.Image[RightWrist] = ImagePoint{X: 0.1, Y: 0.1}
	require.False(t, m.Process(frame).Swing)
}

func TestFistHysteresis(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMapper(cfg)
	m.Process(neutralFrame(0))
	require.False(t, m.fistClosed)

	setGrip := func(frame *Frame, d float64) {
		frame.Image[LeftWrist] = ImagePoint{X: 0.35, Y: 0.65}
		frame.Image[LeftIndex] = ImagePoint{X: 0.35 + d, Y: 0.65}
		frame.Image[LeftPinky] = ImagePoint{X: 0.35 + d, Y: 0.65}
	}

	// Oscillate strictly between the close and open thresholds: no flips.
	between := (cfg.FistClose + cfg.FistOpen) / 2
	for i := 1; i <= 6; i++ {
		frame := neutralFrame(int64(i) * 33)
		setGrip(frame, between+0.001*float64(i%2))
		require.False(t, m.Process(frame).FistClosed)
	}

	// Clearly cross the close threshold.
	frame := neutralFrame(300)
	setGrip(frame, cfg.FistClose-0.02)
	require.True(t, m.Process(frame).FistClosed)

	// Hovering between thresholds keeps it closed.
	frame = neutralFrame(333)
	setGrip(frame, between)
	require.True(t, m.Process(frame).FistClosed)

	// Clearly cross the open threshold.
	frame = neutralFrame(366)
	setGrip(frame, cfg.FistOpen+0.02)
	require.False(t, m.Process(frame).FistClosed)
}

func TestArmRaised(t *testing.T) {
	m := NewMapper(DefaultConfig())
	m.Process(neutralFrame(0))

	frame := neutralFrame(33)
	frame.Image[LeftWrist] = ImagePoint{X: 0.35, Y: 0.3}
	require.True(t, m.Process(frame).ArmRaised)

	frame = neutralFrame(66)
	frame.Image[LeftWrist] = ImagePoint{X: 0.35, Y: 0.44}
	require.False(t, m.Process(frame).ArmRaised, "wrist inside the margin should not count as raised")
}

func TestBlendFactorFrameRateIndependence(t *testing.T) {
	// One 33ms step must blend exactly as far as two 16.5ms steps.
	base := 0.25
	single := 1 - math.Pow(1-BlendFactor(base, 0.033), 1)
	double := 1 - (1-BlendFactor(base, 0.0165))*(1-BlendFactor(base, 0.0165))
	require.InDelta(t, single, double, 1e-12)

	require.Equal(t, 0.0, BlendFactor(base, 0))
	require.Equal(t, 1.0, BlendFactor(1, 0.016))
}
