// Package combat defines the combat-domain event vocabulary: blade hits,
// clashes, stuns, and malformed-geometry faults.
package combat

import (
	"context"

	"saberarena/server/logging"
)

const (
	// EventHit is emitted when a blade connects with a body capsule.
	EventHit logging.EventType = "combat.hit"
	// EventClash is emitted when two active blades meet.
	EventClash logging.EventType = "combat.clash"
	// EventStun is emitted when a stun is applied to a combatant.
	EventStun logging.EventType = "combat.stun"
	// EventInvalidSegment flags malformed blade geometry from an upstream
	// bug. These are programming errors, not gameplay outcomes.
	EventInvalidSegment logging.EventType = "combat.invalid_segment"
)

// HitPayload captures where a hit landed and what it cost.
type HitPayload struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Amount  float64 `json:"amount"`
	Blocked bool    `json:"blocked"`
}

// ClashPayload captures where two blades met.
type ClashPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hit publishes a blade-hit event.
func Hit(ctx context.Context, pub logging.Publisher, tick uint64, attacker, target logging.EntityRef, payload HitPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHit,
		Tick:     tick,
		Actor:    attacker,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// Clash publishes a blade-clash event.
func Clash(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload ClashPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventClash,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// Stun publishes a stun application.
func Stun(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, durationMs int64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStun,
		Tick:     tick,
		Actor:    target,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  map[string]any{"durationMs": durationMs},
	})
}

// InvalidSegment publishes a malformed-geometry fault at error severity.
func InvalidSegment(ctx context.Context, pub logging.Publisher, tick uint64, owner logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventInvalidSegment,
		Tick:     tick,
		Actor:    owner,
		Severity: logging.SeverityError,
		Category: logging.CategoryCombat,
	})
}
