package main

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"saberarena/server/internal/arena"
	"saberarena/server/internal/bot"
	"saberarena/server/internal/combat"
	"saberarena/server/internal/config"
	"saberarena/server/internal/geom"
	"saberarena/server/internal/pose"
	"saberarena/server/internal/swing"
	"saberarena/server/logging"
	logtracking "saberarena/server/logging/tracking"
)

const (
	writeWait         = 10 * time.Second
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval

	playerEyeHeight = 1.7
	botSpawnZ       = 3.0
	botID           = "bot"
)

// Hub owns the live match: the player seat, remote peer slots, the combat
// session, and every subscriber connection. All game state behind mu is
// mutated only by the simulation tick and the websocket read loops.
type Hub struct {
	mu  sync.Mutex
	cfg config.Config

	subscribers map[string]*subscriber
	peers       map[string]*combat.Opponent

	playerID  combat.CombatantID
	playerPos geom.Vec3

	gameState *arena.Arena
	session   *combat.Session
	mapper    *pose.Mapper
	animator  *swing.Animator
	sparBot   *bot.Bot
	botSlot   *combat.Opponent
	botActive bool

	pending  pendingCommands
	tracking bool
	tick     uint64

	publisher logging.Publisher
}

// subscriber pairs a websocket connection with its write mutex; gorilla
// connections allow one concurrent writer only.
type subscriber struct {
	conn          *websocket.Conn
	mu            sync.Mutex
	lastHeartbeat time.Time
}

// pendingCommands buffers client messages between ticks. Pose frames keep
// only the newest sample; the mapper's timestamp dedupe handles the rest.
type pendingCommands struct {
	frame       *pose.Frame
	swing       bool
	recalibrate bool
	blocking    *bool
	start       *startCommand
}

type startCommand struct {
	difficulty arena.Difficulty
	networked  bool
}

// newHub wires a match from the loaded config. The publisher may be nil.
func newHub(cfg config.Config, publisher logging.Publisher) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	playerID := combat.CombatantID("player-" + uuid.NewString())
	state := arena.New(cfg.ArenaRuntime(), publisher)
	state.AddCombatant(playerID)
	state.SetPlayer(playerID)
	session := combat.NewSession(cfg.CombatRuntime(), state, playerID, publisher)

	h := &Hub{
		cfg:         cfg,
		subscribers: make(map[string]*subscriber),
		peers:       make(map[string]*combat.Opponent),
		playerID:    playerID,
		playerPos:   geom.Vec3{Y: playerEyeHeight},
		gameState:   state,
		session:     session,
		mapper:      pose.NewMapper(cfg.PoseRuntime()),
		animator:    swing.NewAnimator(cfg.SwingRuntime()),
		publisher:   publisher,
	}

	state.AddCombatant(botID)
	h.botSlot = session.AddOpponent(botID)
	h.botSlot.Position = geom.Vec3{Z: botSpawnZ}
	h.sparBot = bot.New(bot.DefaultConfig(), h.botSlot, time.Now().UnixNano())
	h.botActive = true
	return h
}

// Join assigns a subscriber slot and returns the current match snapshot.
// The player seat is fixed at construction; joiners are viewers or remote
// peers until they subscribe and send weapon_state.
func (h *Hub) Join() joinResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return joinResponse{
		Ver:        protocolVersion,
		ID:         string(h.playerID),
		Combatants: h.snapshotLocked(),
		TickRate:   h.cfg.Server.TickRate,
	}
}

// Subscribe associates a websocket connection with a viewer slot.
func (h *Hub) Subscribe(conn *websocket.Conn) (string, *subscriber) {
	id := uuid.NewString()
	sub := &subscriber{conn: conn, lastHeartbeat: time.Now()}

	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()
	return id, sub
}

// Disconnect drops a subscriber and, if it owned a peer slot, retires the
// peer combatant.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.dropPeerLocked(id)
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}

func (h *Hub) dropPeerLocked(id string) {
	peer, ok := h.peers[id]
	if !ok {
		return
	}
	delete(h.peers, id)
	h.session.RemoveOpponent(peer.ID)
	h.gameState.RemoveCombatant(peer.ID)
	if len(h.peers) == 0 {
		h.session.SetNetworked(false)
	}
}

// Start arms the match: difficulty, networked flag, active phase.
func (h *Hub) Start(cmd startCommand) {
	h.mu.Lock()
	h.pending.start = &cmd
	h.mu.Unlock()
}

// SubmitFrame queues the newest detector sample for the next tick.
func (h *Hub) SubmitFrame(frame *pose.Frame) {
	h.mu.Lock()
	h.pending.frame = frame
	h.mu.Unlock()
}

// QueueSwing latches a keyboard-mode attack for the next tick.
func (h *Hub) QueueSwing() {
	h.mu.Lock()
	h.pending.swing = true
	h.mu.Unlock()
}

// Recalibrate re-arms the mapper's neutral-stance capture.
func (h *Hub) Recalibrate() {
	h.mu.Lock()
	h.pending.recalibrate = true
	h.mu.Unlock()
}

// SetBlocking records a manual block toggle for the next tick.
func (h *Hub) SetBlocking(blocking bool) {
	h.mu.Lock()
	h.pending.blocking = &blocking
	h.mu.Unlock()
}

// UpdatePeerWeapon publishes a remote peer's authoritative blade pose. The
// first weapon_state from a subscriber promotes it to a peer combatant and
// switches the session to networked resolution.
func (h *Hub) UpdatePeerWeapon(subID string, msg clientMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	peer, ok := h.peers[subID]
	if !ok {
		id := combat.CombatantID("peer-" + subID)
		h.gameState.AddCombatant(id)
		peer = h.session.AddOpponent(id)
		h.peers[subID] = peer
		h.session.SetNetworked(true)
		h.retireBotLocked()
	}

	peer.Position = geom.Vec3{X: msg.X, Z: msg.Z}
	peer.Weapon.Publish(combat.WeaponState{
		Hilt:   geom.Vec3{X: msg.HiltX, Y: msg.HiltY, Z: msg.HiltZ},
		Tip:    geom.Vec3{X: msg.TipX, Y: msg.TipY, Z: msg.TipZ},
		Active: msg.Active,
	})
}

// retireBotLocked removes the practice bot from the match entirely. Peer
// duels never see it: a stale bot slot would soak up the one-hit-per-frame
// budget and emit damage events naming a combatant peers don't know.
func (h *Hub) retireBotLocked() {
	if !h.botActive {
		return
	}
	h.session.RemoveOpponent(botID)
	h.gameState.RemoveCombatant(botID)
	h.botActive = false
}

// UpdateHeartbeat refreshes a subscriber's liveness stamp.
func (h *Hub) UpdateHeartbeat(id string, receivedAt time.Time) {
	h.mu.Lock()
	if sub, ok := h.subscribers[id]; ok {
		sub.lastHeartbeat = receivedAt
	}
	h.mu.Unlock()
}

// advance runs one simulation tick: consume buffered commands, drive the
// weapon from whichever input path is live, run the bot, resolve combat.
func (h *Hub) advance(now time.Time, dt float64) ([]byte, [][]byte, []*subscriber) {
	h.mu.Lock()

	pending := h.pending
	h.pending = pendingCommands{}
	h.tick++

	if pending.start != nil {
		h.gameState.SetDifficulty(pending.start.difficulty)
		networked := pending.start.networked || len(h.peers) > 0
		h.session.SetNetworked(networked)
		if networked {
			h.retireBotLocked()
		}
		h.gameState.SetPhase(combat.PhaseActive)
	}
	if pending.recalibrate {
		h.mapper.Recalibrate()
		logtracking.Calibrated(context.Background(), h.publisher, h.tick,
			logging.EntityRef{ID: string(h.playerID), Kind: logging.EntityKindPlayer})
	}
	if pending.blocking != nil {
		h.gameState.SetBlocking(h.playerID, *pending.blocking)
	}

	input := h.mapper.LastInput()
	if pending.frame != nil {
		input = h.mapper.Process(pending.frame)
		h.noteTrackingLocked(input.Tracking)
	}

	h.driveWeaponLocked(now, input, pending.swing)

	networked := len(h.peers) > 0
	if h.botActive {
		h.sparBot.Advance(now, dt, h.playerPos)
	}

	h.gameState.AdvanceTick()
	events := h.session.Advance(now)

	state, _ := json.Marshal(stateMessage{
		Ver:        protocolVersion,
		Type:       "state",
		Tick:       h.tick,
		Combatants: h.snapshotLocked(),
		ServerTime: now.UnixMilli(),
	})
	cues := h.encodeEventsLocked(events, networked)
	toClose := h.pruneStaleLocked(now)

	h.mu.Unlock()
	return state, cues, toClose
}

// driveWeaponLocked publishes the player's blade for this frame: the pose
// path when tracking is live, the keyboard swing animator otherwise.
func (h *Hub) driveWeaponLocked(now time.Time, input pose.GameInput, keySwing bool) {
	if input.Tracking {
		h.playerPos = geom.Vec3{X: input.MoveX, Y: playerEyeHeight, Z: input.MoveZ}
		h.session.SetPlayerPosition(h.playerPos)
		h.session.SetContinuousTracking(true)
		h.session.PlayerWeapon().Publish(trackedWeaponPose(h.cfg.SwingRuntime(), input, h.playerPos))
		if input.Swing {
			h.session.QueueSwing()
		}
		h.gameState.SetBlocking(h.playerID, input.FistClosed)
		return
	}

	h.session.SetPlayerPosition(h.playerPos)
	h.session.SetContinuousTracking(false)
	if keySwing && h.animator.Trigger(now) {
		h.session.QueueSwing()
	}
	h.session.PlayerWeapon().Publish(h.animator.Pose(now, h.playerPos, input.LookYaw))
}

// trackedWeaponPose builds a blade segment from the mapper's weapon offset
// and roll: hilt at the configured grip offset from the eye, tip one blade
// length along the rolled up axis. Active stays false; in tracked mode the
// session activates attacks from tip speed or a latched swing.
func trackedWeaponPose(cfg swing.Config, input pose.GameInput, eye geom.Vec3) combat.WeaponState {
	hilt := geom.Vec3{
		X: eye.X + cfg.HiltOffset.X + input.WeaponOffsetX,
		Y: eye.Y + cfg.HiltOffset.Y + input.WeaponOffsetY,
		Z: eye.Z + cfg.HiltOffset.Z,
	}
	dir := geom.Vec3{
		X: math.Sin(input.WeaponRoll),
		Y: math.Cos(input.WeaponRoll),
	}
	return combat.WeaponState{
		Hilt: hilt,
		Tip:  hilt.Add(dir.Scale(cfg.BladeLength)),
	}
}

func (h *Hub) noteTrackingLocked(tracking bool) {
	if tracking == h.tracking {
		return
	}
	h.tracking = tracking
	ref := logging.EntityRef{ID: string(h.playerID), Kind: logging.EntityKindPlayer}
	if tracking {
		logtracking.Acquired(context.Background(), h.publisher, h.tick, ref)
	} else {
		logtracking.Lost(context.Background(), h.publisher, h.tick, ref)
	}
}

// encodeEventsLocked turns the frame's combat events into wire payloads.
// Damage events go out only for the local player's own hits; a remote
// peer's hits on us arrive as that peer's damage_event.
func (h *Hub) encodeEventsLocked(events combat.FrameEvents, networked bool) [][]byte {
	var cues [][]byte
	for _, hit := range events.Hits {
		cue, _ := json.Marshal(hitCueMessage{
			Ver:     protocolVersion,
			Type:    "hit_event",
			X:       hit.Point.X,
			Y:       hit.Point.Y,
			Z:       hit.Point.Z,
			Amount:  hit.Amount,
			Blocked: hit.Blocked,
		})
		cues = append(cues, cue)

		if networked && hit.Attacker == h.playerID {
			dmg, _ := json.Marshal(damageEventMessage{
				Ver:       protocolVersion,
				Type:      "damage_event",
				Target:    string(hit.Target),
				Amount:    hit.Amount,
				NewHealth: hit.NewHealth,
			})
			cues = append(cues, dmg)
		}
	}
	if events.Clash != nil {
		cue, _ := json.Marshal(clashCueMessage{
			Ver:  protocolVersion,
			Type: "clash_event",
			X:    events.Clash.Point.X,
			Y:    events.Clash.Point.Y,
			Z:    events.Clash.Point.Z,
		})
		cues = append(cues, cue)
	}
	return cues
}

func (h *Hub) pruneStaleLocked(now time.Time) []*subscriber {
	var toClose []*subscriber
	for id, sub := range h.subscribers {
		if now.Sub(sub.lastHeartbeat) > disconnectAfter {
			toClose = append(toClose, sub)
			delete(h.subscribers, id)
			h.dropPeerLocked(id)
			log.Printf("disconnecting %s after heartbeat timeout", id)
		}
	}
	return toClose
}

func (h *Hub) snapshotLocked() []combatantSnapshot {
	snaps := []combatantSnapshot{
		snapshotOf(h.playerID,
			h.gameState.Health(h.playerID),
			h.gameState.Blocking(h.playerID),
			h.gameState.Stunned(h.playerID),
			h.playerPos.X, h.playerPos.Y, h.playerPos.Z),
	}
	if h.botActive {
		snaps = append(snaps, h.opponentSnapshotLocked(h.botSlot))
	}
	for _, peer := range h.peers {
		snaps = append(snaps, h.opponentSnapshotLocked(peer))
	}
	return snaps
}

func (h *Hub) opponentSnapshotLocked(opp *combat.Opponent) combatantSnapshot {
	return snapshotOf(opp.ID,
		h.gameState.Health(opp.ID),
		h.gameState.Blocking(opp.ID),
		h.gameState.Stunned(opp.ID),
		opp.Position.X, opp.Position.Y, opp.Position.Z)
}

// RunSimulation drives the fixed-rate tick loop until the context ends.
func (h *Hub) RunSimulation(ctx context.Context) error {
	tickRate := h.cfg.Server.TickRate
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(tickRate)
			}
			last = now

			state, cues, toClose := h.advance(now, dt)
			for _, sub := range toClose {
				sub.conn.Close()
			}
			h.broadcast(state)
			for _, cue := range cues {
				h.broadcast(cue)
			}
		}
	}
}

// broadcast sends one payload to every subscriber. Failed writes close the
// connection; the read loop notices and disconnects the slot.
func (h *Hub) broadcast(payload []byte) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			sub.conn.Close()
		}
		sub.mu.Unlock()
	}
}
