package main

import (
	"testing"
	"time"

	"saberarena/server/internal/arena"
	"saberarena/server/internal/config"
)

func snapshotIDs(h *Hub) map[string]bool {
	ids := make(map[string]bool)
	for _, c := range h.Join().Combatants {
		ids[c.ID] = true
	}
	return ids
}

func TestPeerPromotionRetiresBot(t *testing.T) {
	h := newHub(config.Default(), nil)

	h.UpdatePeerWeapon("sub-1", clientMessage{
		Type:   "weapon_state",
		HiltY:  1,
		HiltZ:  2,
		TipY:   1,
		TipZ:   3,
		Active: true,
		Z:      2,
	})

	if h.botActive {
		t.Fatal("practice bot must retire when a subscriber is promoted to a peer")
	}
	ids := snapshotIDs(h)
	if ids[botID] {
		t.Fatal("retired bot still present in match snapshot")
	}
	if !ids["peer-sub-1"] {
		t.Fatal("promoted peer missing from match snapshot")
	}
	if got := h.gameState.Health(botID); got != 0 {
		t.Fatalf("expected bot slot removed from game state, health reported %.1f", got)
	}
}

func TestNetworkedStartRetiresBot(t *testing.T) {
	h := newHub(config.Default(), nil)
	h.Start(startCommand{difficulty: arena.DifficultyNormal, networked: true})

	h.advance(time.Now(), 1.0/60)

	if h.botActive {
		t.Fatal("practice bot must retire when a networked match starts")
	}
	if ids := snapshotIDs(h); ids[botID] {
		t.Fatal("retired bot still present in match snapshot")
	}
}

func TestPracticeStartKeepsBot(t *testing.T) {
	h := newHub(config.Default(), nil)
	h.Start(startCommand{difficulty: arena.DifficultyHard})

	h.advance(time.Now(), 1.0/60)

	if !h.botActive {
		t.Fatal("practice matches keep the sparring bot")
	}
	if ids := snapshotIDs(h); !ids[botID] {
		t.Fatal("bot missing from practice match snapshot")
	}
}
