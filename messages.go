package main

import "saberarena/server/internal/combat"

const protocolVersion = 1

// combatantSnapshot is the wire view of one combatant.
type combatantSnapshot struct {
	ID       string  `json:"id"`
	Health   float64 `json:"health"`
	Blocking bool    `json:"blocking"`
	Stunned  bool    `json:"stunned"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
}

type joinResponse struct {
	Ver        int                 `json:"ver"`
	ID         string              `json:"id"`
	Combatants []combatantSnapshot `json:"combatants"`
	TickRate   int                 `json:"tickRate"`
}

type stateMessage struct {
	Ver        int                 `json:"ver"`
	Type       string              `json:"type"`
	Tick       uint64              `json:"t"`
	Combatants []combatantSnapshot `json:"combatants"`
	ServerTime int64               `json:"serverTime"`
}

// damageEventMessage is the authoritative damage notification for peer
// replication. Sent only for the local player's own successful hits; hits
// a remote peer lands on us arrive as their damage_event, never ours.
type damageEventMessage struct {
	Ver       int     `json:"ver"`
	Type      string  `json:"type"`
	Target    string  `json:"target"`
	Amount    float64 `json:"amount"`
	NewHealth float64 `json:"newHealth"`
}

// hitCueMessage is the fire-and-forget presentation cue for a landed hit.
type hitCueMessage struct {
	Ver     int     `json:"ver"`
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Amount  float64 `json:"amount"`
	Blocked bool    `json:"isBlocked"`
}

// clashCueMessage is the fire-and-forget presentation cue for a clash.
type clashCueMessage struct {
	Ver  int     `json:"ver"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// wireLandmark is one landmark triple on the wire.
type wireLandmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// clientMessage is everything a presentation client can send. Type selects
// which optional fields are read.
type clientMessage struct {
	Type string `json:"type"`

	// type == "pose_frame": one detector sample.
	Landmarks      []wireLandmark `json:"landmarks,omitempty"`
	WorldLandmarks []wireLandmark `json:"worldLandmarks,omitempty"`
	TimestampMs    int64          `json:"timestampMs,omitempty"`

	// type == "blocking".
	Blocking bool `json:"blocking,omitempty"`

	// type == "weapon_state": a remote peer's authoritative blade pose and
	// planar position.
	HiltX  float64 `json:"hiltX,omitempty"`
	HiltY  float64 `json:"hiltY,omitempty"`
	HiltZ  float64 `json:"hiltZ,omitempty"`
	TipX   float64 `json:"tipX,omitempty"`
	TipY   float64 `json:"tipY,omitempty"`
	TipZ   float64 `json:"tipZ,omitempty"`
	Active bool    `json:"active,omitempty"`
	X      float64 `json:"x,omitempty"`
	Z      float64 `json:"z,omitempty"`

	// type == "start".
	Difficulty string `json:"difficulty,omitempty"`
	Networked  bool   `json:"networked,omitempty"`

	// type == "heartbeat".
	ClientTime int64 `json:"clientTime,omitempty"`
}

type heartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
}

func snapshotOf(id combat.CombatantID, health float64, blocking, stunned bool, x, y, z float64) combatantSnapshot {
	return combatantSnapshot{
		ID:       string(id),
		Health:   health,
		Blocking: blocking,
		Stunned:  stunned,
		X:        x,
		Y:        y,
		Z:        z,
	}
}
