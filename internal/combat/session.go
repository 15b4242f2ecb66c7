package combat

import (
	"context"
	"time"

	"saberarena/server/internal/geom"
	"saberarena/server/logging"
	logcombat "saberarena/server/logging/combat"
)

// Opponent is one non-player combatant tracked by a session: a practice bot
// or a remote peer's avatar. Position and weapon are updated each frame by
// whichever driver owns the slot.
type Opponent struct {
	ID       CombatantID
	Position geom.Vec3
	Weapon   *WeaponTransform
}

// Session is the per-match collision arbiter. Weapon transforms, cooldown
// timers, and swing latches all live here explicitly, so multiple matches
// or replays can coexist and tests never bleed into each other.
//
// Session is single-threaded by contract: the host frame callback drives
// every method, and within a frame all weapon transforms are written before
// Advance reads them.
type Session struct {
	cfg   Config
	state GameState

	playerID     CombatantID
	playerWeapon *WeaponTransform
	playerPos    geom.Vec3

	opponents []*Opponent

	cooldowns cooldownSet

	// swingPending latches a discrete swing event from the input mapper
	// until the next Advance consumes it.
	swingPending bool
	// continuous marks camera-tracking mode, where attack activation is
	// measured tip speed instead of discrete swing events.
	continuous bool

	prevTip     geom.Vec3
	havePrevTip bool
	lastAdvance time.Time

	networked bool
	tick      uint64
	publisher logging.Publisher
}

// NewSession builds a session for the given player slot. The publisher may
// be nil; events are then resolved but not logged.
func NewSession(cfg Config, state GameState, playerID CombatantID, publisher logging.Publisher) *Session {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Session{
		cfg:          cfg,
		state:        state,
		playerID:     playerID,
		playerWeapon: &WeaponTransform{},
		publisher:    publisher,
	}
}

// PlayerWeapon exposes the player's weapon transform for the presentation
// driver to publish into.
func (s *Session) PlayerWeapon() *WeaponTransform {
	return s.playerWeapon
}

// SetPlayerPosition records the player's camera position for this frame;
// the bot-attack check builds the player capsule around it.
func (s *Session) SetPlayerPosition(pos geom.Vec3) {
	s.playerPos = pos
}

// AddOpponent registers a combatant slot and returns it so the owning
// driver can update position and weapon each frame.
func (s *Session) AddOpponent(id CombatantID) *Opponent {
	opp := &Opponent{ID: id, Weapon: &WeaponTransform{}}
	s.opponents = append(s.opponents, opp)
	return opp
}

// RemoveOpponent drops a combatant slot, keeping registration order for the
// remaining opponents.
func (s *Session) RemoveOpponent(id CombatantID) {
	for i, opp := range s.opponents {
		if opp.ID == id {
			s.opponents = append(s.opponents[:i], s.opponents[i+1:]...)
			return
		}
	}
}

// QueueSwing latches a discrete swing event (keyboard attack or a mapper
// swing detection) to activate the next frame's attack check.
func (s *Session) QueueSwing() {
	s.swingPending = true
}

// SetContinuousTracking switches between discrete swing-event activation
// and tip-speed activation.
func (s *Session) SetContinuousTracking(enabled bool) {
	s.continuous = enabled
}

// SetNetworked marks the match as peer-synchronized. Bot-attack resolution
// is suppressed entirely: the remote peer is authoritative for its own
// attacks.
func (s *Session) SetNetworked(enabled bool) {
	s.networked = enabled
}

// Advance resolves one frame of combat. It must be called after every
// weapon transform has been published for the frame. The returned events
// are valid until the next call.
func (s *Session) Advance(now time.Time) FrameEvents {
	var events FrameEvents

	tipSpeed := s.measureTipSpeed(now)
	s.tick++

	if s.state == nil || s.state.Phase() != PhaseActive {
		s.swingPending = false
		return events
	}

	playerActive := s.playerAttackActive(tipSpeed)

	// Clash resolution runs first: a clash pre-empts and absorbs any hit
	// that would otherwise land this frame, because resetting all three
	// cooldowns to now closes their gates before the hit checks run.
	if clash := s.checkClash(playerActive, now); clash != nil {
		events.Clash = clash
	}

	events.Hits = s.checkPlayerHits(playerActive, now, events.Hits)
	if !s.networked {
		events.Hits = s.checkOpponentHits(now, events.Hits)
	}

	s.swingPending = false
	return events
}

// measureTipSpeed tracks blade tip velocity across frames for the
// continuous-tracking activation gate.
func (s *Session) measureTipSpeed(now time.Time) float64 {
	tip := s.playerWeapon.Current().Tip
	defer func() {
		s.prevTip = tip
		s.havePrevTip = true
		s.lastAdvance = now
	}()

	if !s.havePrevTip {
		return 0
	}
	dt := now.Sub(s.lastAdvance).Seconds()
	if dt <= 0 {
		return 0
	}
	return s.prevTip.Distance(tip) / dt
}

func (s *Session) playerAttackActive(tipSpeed float64) bool {
	if s.swingPending || s.playerWeapon.Current().Active {
		return true
	}
	return s.continuous && tipSpeed >= s.cfg.MinTipSpeed
}

func (s *Session) checkClash(playerActive bool, now time.Time) *ClashEvent {
	if !playerActive || s.state.Stunned(s.playerID) {
		return nil
	}
	if !s.cooldowns.ready(interactionClash, s.cfg.ClashCooldown, now) {
		return nil
	}

	playerSeg := s.playerWeapon.Current().Segment()
	if !s.validSegment(playerSeg) {
		return nil
	}

	for _, opp := range s.opponents {
		oppState := opp.Weapon.Current()
		if !oppState.Active {
			continue
		}
		oppSeg := oppState.Segment()
		if !s.validSegment(oppSeg) {
			continue
		}
		dist, c1, c2 := geom.ClosestPointsSegmentSegment(playerSeg.A, playerSeg.B, oppSeg.A, oppSeg.B)
		if dist > s.cfg.ClashRadius {
			continue
		}

		s.cooldowns.trigger(interactionClash, now)
		s.cooldowns.trigger(interactionPlayerHit, now)
		s.cooldowns.trigger(interactionOpponentHit, now)
		s.state.ApplyStun(s.playerID)

		point := c1.Mid(c2)
		logcombat.Clash(context.Background(), s.publisher, s.tick,
			s.entityRef(s.playerID), s.entityRef(opp.ID),
			logcombat.ClashPayload{X: point.X, Y: point.Y, Z: point.Z})
		return &ClashEvent{Point: point}
	}
	return nil
}

func (s *Session) checkPlayerHits(playerActive bool, now time.Time, hits []HitEvent) []HitEvent {
	if !playerActive {
		return hits
	}
	if !s.cooldowns.ready(interactionPlayerHit, s.cfg.PlayerHitCooldown, now) {
		return hits
	}

	seg := s.playerWeapon.Current().Segment()
	if !s.validSegment(seg) {
		return hits
	}

	for _, opp := range s.opponents {
		if s.playerPos.Distance(opp.Position) > s.cfg.MaxEngagementDistance {
			// Cheap rejection: no geometry test for far-away opponents.
			continue
		}
		capsule := geom.CapsuleAround(opp.Position, s.cfg.CapsuleBottom, s.cfg.CapsuleTop, s.cfg.CapsuleRadius)
		hit, point := geom.SegmentHitsCapsule(seg, capsule)
		if !hit {
			continue
		}

		s.cooldowns.trigger(interactionPlayerHit, now)
		hits = append(hits, s.resolveDamage(s.playerID, opp.ID, point, 1))
		// At most one hit per attacker per frame, even against several
		// overlapping candidates.
		break
	}
	return hits
}

func (s *Session) checkOpponentHits(now time.Time, hits []HitEvent) []HitEvent {
	if !s.cooldowns.ready(interactionOpponentHit, s.cfg.OpponentHitCooldown, now) {
		return hits
	}

	capsule := geom.CapsuleAround(s.playerPos, s.cfg.PlayerCapsuleBottom, s.cfg.PlayerCapsuleTop, s.cfg.PlayerHitRadius)
	for _, opp := range s.opponents {
		oppState := opp.Weapon.Current()
		if !oppState.Active {
			continue
		}
		if opp.Position.Distance(s.playerPos) > s.cfg.MaxEngagementDistance {
			continue
		}
		seg := oppState.Segment()
		if !s.validSegment(seg) {
			continue
		}
		hit, point := geom.SegmentHitsCapsule(seg, capsule)
		if !hit {
			continue
		}

		s.cooldowns.trigger(interactionOpponentHit, now)
		hits = append(hits, s.resolveDamage(opp.ID, s.playerID, point, s.state.DamageMultiplier()))
		break
	}
	return hits
}

// resolveDamage applies block reduction, requests the mutation from game
// state, logs, and builds the event record.
func (s *Session) resolveDamage(attacker, target CombatantID, point geom.Vec3, multiplier float64) HitEvent {
	raw := s.cfg.SlashDamage * multiplier
	amount := raw
	blocked := s.state.Blocking(target)
	if blocked {
		amount = raw * (1 - s.cfg.BlockReduction)
	}
	newHealth := s.state.ApplyDamage(target, amount)

	logcombat.Hit(context.Background(), s.publisher, s.tick,
		s.entityRef(attacker), s.entityRef(target),
		logcombat.HitPayload{
			X:       point.X,
			Y:       point.Y,
			Z:       point.Z,
			Amount:  amount,
			Blocked: blocked,
		})

	return HitEvent{
		Attacker:  attacker,
		Target:    target,
		Point:     point,
		RawAmount: raw,
		Amount:    amount,
		Blocked:   blocked,
		NewHealth: newHealth,
	}
}

// validSegment rejects malformed blade data before it reaches the
// closest-point solver. Malformed segments are an upstream programming
// error, so they are logged loudly instead of silently producing a wrong
// hit or miss.
func (s *Session) validSegment(seg geom.Segment) bool {
	if seg.A.IsFinite() && seg.B.IsFinite() {
		return true
	}
	logcombat.InvalidSegment(context.Background(), s.publisher, s.tick, s.entityRef(s.playerID))
	return false
}

func (s *Session) entityRef(id CombatantID) logging.EntityRef {
	kind := logging.EntityKindOpponent
	if id == s.playerID {
		kind = logging.EntityKindPlayer
	}
	return logging.EntityRef{ID: string(id), Kind: kind}
}
