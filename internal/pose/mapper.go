package pose

import "math"

// calibration is the neutral reference snapshot taken on the first valid
// sample after a (re)calibration request. Every later offset is measured
// against it; Recalibrate atomically replaces it.
type calibration struct {
	hipX     float64
	hipZ     float64
	noseRelY float64
	headTilt float64
}

// Mapper turns detector frames into GameInput records. It is a plain
// single-threaded state machine driven from the host frame loop; Process
// never blocks and never panics on missing data.
type Mapper struct {
	cfg Config

	needsCalibration bool
	neutral          calibration

	lastTimestampMs int64
	lastInput       GameInput

	lookYaw   float64
	lookPitch float64

	weaponOffX float64
	weaponOffY float64
	weaponRoll float64

	prevWrist     ImagePoint
	havePrevWrist bool
	lastSwingMs   int64

	fistClosed bool
}

// NewMapper builds a mapper that will calibrate on its first valid sample.
func NewMapper(cfg Config) *Mapper {
	return &Mapper{
		cfg:              cfg,
		needsCalibration: true,
		lastTimestampMs:  -1,
		lastSwingMs:      math.MinInt64 / 2,
	}
}

// Recalibrate requests a fresh neutral snapshot. Safe to call at any point
// in the frame loop; it takes effect on the next valid processed sample and
// is idempotent; repeated calls before that sample are a single request.
func (m *Mapper) Recalibrate() {
	m.needsCalibration = true
}

// LastInput returns the most recent output without processing anything.
func (m *Mapper) LastInput() GameInput {
	return m.lastInput
}

// Process maps one detector sample to a GameInput. A nil frame means the
// detector produced nothing new, so the previous output stands. A frame
// with too few or non-finite landmarks yields the neutral default for this
// frame only; smoothing and calibration state stay untouched so tracking
// resumes without a snap when valid samples return.
func (m *Mapper) Process(frame *Frame) GameInput {
	if frame == nil {
		return m.lastInput
	}
	if frame.TimestampMs == m.lastTimestampMs {
		// Detector is slower than the render rate; nothing new to map.
		return m.lastInput
	}
	if !frame.usable() {
		m.lastInput = NeutralInput()
		return m.lastInput
	}

	dtMs := frame.TimestampMs - m.lastTimestampMs
	if m.lastTimestampMs < 0 || dtMs <= 0 || dtMs > m.cfg.MaxFrameGapMs {
		// First sample, or a gap too large for velocity to mean anything.
		dtMs = 1000 / int64(referenceRate)
		m.havePrevWrist = false
	}
	dt := float64(dtMs) / 1000.0

	if m.needsCalibration {
		m.calibrate(frame)
	}

	input := GameInput{Tracking: true}
	m.mapLook(frame, dt, &input)
	m.mapBody(frame, &input)
	m.mapWeapon(frame, dt, &input)
	m.detectSwing(frame, dt, &input)
	m.detectGestures(frame, &input)

	m.lastTimestampMs = frame.TimestampMs
	m.lastInput = input
	return input
}

// calibrate snapshots the neutral pose and seeds all smoothing state from
// the live sample, so the first smoothed outputs start at the current pose
// instead of lerping in from a stale zero.
func (m *Mapper) calibrate(frame *Frame) {
	hipL := frame.World[LeftHip]
	hipR := frame.World[RightHip]
	m.neutral = calibration{
		hipX:     (hipL.X + hipR.X) * 0.5,
		hipZ:     (hipL.Z + hipR.Z) * 0.5,
		noseRelY: noseRelativeY(frame),
		headTilt: headTilt(frame),
	}

	m.lookYaw = 0
	m.lookPitch = 0
	rawX, rawY := m.rawWeaponOffset(frame)
	m.weaponOffX = rawX
	m.weaponOffY = rawY
	m.weaponRoll = m.rawWeaponRoll(frame)
	m.prevWrist = frame.Image[RightWrist]
	m.havePrevWrist = true

	m.needsCalibration = false
}

// headTilt is the angle of the eye line in image space. Tilting the head
// right rotates the line clockwise on screen.
func headTilt(frame *Frame) float64 {
	l := frame.Image[LeftEye]
	r := frame.Image[RightEye]
	return math.Atan2(r.Y-l.Y, r.X-l.X)
}

// noseRelativeY measures the nose against the shoulder midpoint so torso
// motion does not read as head pitch.
func noseRelativeY(frame *Frame) float64 {
	shoulderMidY := (frame.Image[LeftShoulder].Y + frame.Image[RightShoulder].Y) * 0.5
	return frame.Image[Nose].Y - shoulderMidY
}

func (m *Mapper) mapLook(frame *Frame, dt float64, input *GameInput) {
	// Tilt right turns the view right, hence the sign flip: image-space
	// clockwise tilt is a positive angle delta.
	tiltDelta := headTilt(frame) - m.neutral.headTilt
	rawYaw := -tiltDelta * m.cfg.YawGain * m.cfg.LookSensitivity
	rawYaw = clampAbs(rawYaw, m.cfg.MaxYaw)

	// Image y grows downward, so a nose above neutral is a negative delta.
	noseDelta := noseRelativeY(frame) - m.neutral.noseRelY
	rawPitch := -noseDelta * m.cfg.PitchGain * m.cfg.LookSensitivity
	rawPitch = clampAbs(rawPitch, m.cfg.MaxPitch)

	// Clamp first, then smooth: the filter can then never overshoot the
	// cone no matter how hard the raw signal spikes.
	m.lookYaw = smoothScalar(m.lookYaw, rawYaw, m.cfg.LookSmoothing, dt)
	m.lookPitch = smoothScalar(m.lookPitch, rawPitch, m.cfg.LookSmoothing, dt)

	input.LookYaw = m.lookYaw
	input.LookPitch = m.lookPitch
}

// mapBody is intentionally unsmoothed: hip offsets feed direct positional
// control where latency is worse than jitter.
func (m *Mapper) mapBody(frame *Frame, input *GameInput) {
	hipL := frame.World[LeftHip]
	hipR := frame.World[RightHip]
	hipX := (hipL.X + hipR.X) * 0.5
	hipZ := (hipL.Z + hipR.Z) * 0.5

	// Camera feed is mirrored; flip the lateral axis back.
	input.MoveX = -(hipX - m.neutral.hipX) * m.cfg.MoveGainX
	input.MoveZ = (hipZ - m.neutral.hipZ) * m.cfg.MoveGainZ
}

func (m *Mapper) rawWeaponOffset(frame *Frame) (x, y float64) {
	shoulder := frame.World[RightShoulder]
	wrist := frame.World[RightWrist]
	// Mirror flip on x; world y grows downward like the image feed.
	x = -(wrist.X - shoulder.X) * m.cfg.WeaponOffsetGain
	y = -(wrist.Y - shoulder.Y) * m.cfg.WeaponOffsetGain
	x = clampAbs(x, m.cfg.WeaponOffsetRange)
	y = clampAbs(y, m.cfg.WeaponOffsetRange)
	return x, y
}

// rawWeaponRoll aligns the blade rest axis (straight up) with the forearm
// direction projected into the camera plane. Only roll follows the forearm;
// blade pitch and yaw stay at authored constants on this offset path.
func (m *Mapper) rawWeaponRoll(frame *Frame) float64 {
	elbow := frame.World[RightElbow]
	wrist := frame.World[RightWrist]
	dx := wrist.X - elbow.X
	dy := wrist.Y - elbow.Y
	// Angle measured from the upward rest axis; mirror flip on x.
	return math.Atan2(-dx, -dy)
}

func (m *Mapper) mapWeapon(frame *Frame, dt float64, input *GameInput) {
	rawX, rawY := m.rawWeaponOffset(frame)
	m.weaponOffX = smoothScalar(m.weaponOffX, rawX, m.cfg.WeaponSmoothing, dt)
	m.weaponOffY = smoothScalar(m.weaponOffY, rawY, m.cfg.WeaponSmoothing, dt)

	m.weaponRoll = smoothScalar(m.weaponRoll, m.rawWeaponRoll(frame), m.cfg.WeaponSmoothing, dt)

	input.WeaponOffsetX = m.weaponOffX
	input.WeaponOffsetY = m.weaponOffY
	input.WeaponRoll = m.weaponRoll
}

func (m *Mapper) detectSwing(frame *Frame, dt float64, input *GameInput) {
	wrist := frame.Image[RightWrist]
	if !m.havePrevWrist {
		m.prevWrist = wrist
		m.havePrevWrist = true
		return
	}

	speed := imageDistance(wrist, m.prevWrist) / dt
	m.prevWrist = wrist

	if speed < m.cfg.SwingSpeed {
		return
	}
	if frame.TimestampMs-m.lastSwingMs < m.cfg.SwingCooldownMs {
		// Still inside the cooldown window: a sustained fast gesture is
		// one swing, not a stream.
		return
	}
	m.lastSwingMs = frame.TimestampMs
	input.Swing = true
}

func (m *Mapper) detectGestures(frame *Frame, input *GameInput) {
	wrist := frame.Image[LeftWrist]
	shoulder := frame.Image[LeftShoulder]

	// Stateless: image y grows downward, so "above" is a smaller y.
	input.ArmRaised = wrist.Y < shoulder.Y-m.cfg.ArmRaiseMargin

	// Two-sided hysteresis keeps the flag stable while the hand hovers
	// between the thresholds.
	grip := (imageDistance(frame.Image[LeftIndex], wrist) +
		imageDistance(frame.Image[LeftPinky], wrist)) * 0.5
	if m.fistClosed {
		if grip > m.cfg.FistOpen {
			m.fistClosed = false
		}
	} else if grip < m.cfg.FistClose {
		m.fistClosed = true
	}
	input.FistClosed = m.fistClosed
}

func clampAbs(value, limit float64) float64 {
	if value > limit {
		return limit
	}
	if value < -limit {
		return -limit
	}
	return value
}
