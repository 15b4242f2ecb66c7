// Package tracking defines pose-tracking lifecycle events. Sensor gaps are
// normal operation and log at debug severity at most.
package tracking

import (
	"context"

	"saberarena/server/logging"
)

const (
	// EventCalibrated is emitted when the mapper snapshots a new neutral
	// pose.
	EventCalibrated logging.EventType = "tracking.calibrated"
	// EventLost is emitted when valid samples stop arriving.
	EventLost logging.EventType = "tracking.lost"
	// EventAcquired is emitted when valid samples resume.
	EventAcquired logging.EventType = "tracking.acquired"
)

// Calibrated publishes a calibration snapshot event.
func Calibrated(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	publish(ctx, pub, EventCalibrated, tick, actor, logging.SeverityInfo)
}

// Lost publishes a tracking dropout. Debug severity: dropouts are expected
// and recovered locally, never surfaced as errors.
func Lost(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	publish(ctx, pub, EventLost, tick, actor, logging.SeverityDebug)
}

// Acquired publishes a tracking resume.
func Acquired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	publish(ctx, pub, EventAcquired, tick, actor, logging.SeverityDebug)
}

func publish(ctx context.Context, pub logging.Publisher, t logging.EventType, tick uint64, actor logging.EntityRef, sev logging.Severity) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     t,
		Tick:     tick,
		Actor:    actor,
		Severity: sev,
		Category: logging.CategoryTracking,
	})
}
