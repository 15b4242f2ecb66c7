// Package arena owns the match state the collision engine collaborates
// with: combatant health, blocking and stun flags, phase, and difficulty.
// The engine requests mutations through the combat.GameState interface and
// never writes totals directly.
package arena

import (
	"context"
	"time"

	"saberarena/server/internal/combat"
	"saberarena/server/logging"
	logcombat "saberarena/server/logging/combat"
)

// Difficulty selects the practice-mode bot damage multiplier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Config carries arena tunables.
type Config struct {
	MaxHealth    float64
	StunDuration time.Duration
	// DamageMultipliers maps difficulty to the bot damage scale.
	DamageMultipliers map[Difficulty]float64
}

// DefaultConfig returns the authored arena tuning.
func DefaultConfig() Config {
	return Config{
		MaxHealth:    100,
		StunDuration: 1200 * time.Millisecond,
		DamageMultipliers: map[Difficulty]float64{
			DifficultyEasy:   0.5,
			DifficultyNormal: 1.0,
			DifficultyHard:   1.5,
		},
	}
}

type combatantState struct {
	id         combat.CombatantID
	health     float64
	maxHealth  float64
	blocking   bool
	stunnedTil time.Time
}

// Arena implements combat.GameState for a single match.
type Arena struct {
	cfg        Config
	phase      combat.Phase
	difficulty Difficulty
	player     combat.CombatantID
	combatants map[combat.CombatantID]*combatantState
	now        func() time.Time
	tick       uint64
	publisher  logging.Publisher
}

// New builds an arena in the lobby phase. The publisher may be nil.
func New(cfg Config, publisher logging.Publisher) *Arena {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	if cfg.MaxHealth <= 0 {
		cfg.MaxHealth = 100
	}
	return &Arena{
		cfg:        cfg,
		phase:      combat.PhaseLobby,
		difficulty: DifficultyNormal,
		combatants: make(map[combat.CombatantID]*combatantState),
		now:        time.Now,
		publisher:  publisher,
	}
}

// AddCombatant registers a slot at full health. Re-adding an existing slot
// resets it.
func (a *Arena) AddCombatant(id combat.CombatantID) {
	a.combatants[id] = &combatantState{
		id:        id,
		health:    a.cfg.MaxHealth,
		maxHealth: a.cfg.MaxHealth,
	}
}

// RemoveCombatant drops a slot.
func (a *Arena) RemoveCombatant(id combat.CombatantID) {
	delete(a.combatants, id)
}

// SetPlayer marks which slot is the local player. Match-end detection
// distinguishes the player falling from one opponent among several falling.
func (a *Arena) SetPlayer(id combat.CombatantID) {
	a.player = id
}

// SetPhase moves the match phase.
func (a *Arena) SetPhase(phase combat.Phase) {
	a.phase = phase
}

// SetDifficulty selects the practice-mode damage scale.
func (a *Arena) SetDifficulty(d Difficulty) {
	a.difficulty = d
}

// SetBlocking updates a combatant's blocking flag for the current frame.
func (a *Arena) SetBlocking(id combat.CombatantID, blocking bool) {
	if c, ok := a.combatants[id]; ok {
		c.blocking = blocking
	}
}

// AdvanceTick moves the arena's frame counter forward; stun flags expire
// lazily against the clock, so nothing else needs stepping.
func (a *Arena) AdvanceTick() {
	a.tick++
}

// Health returns the slot's current health, or 0 for unknown slots.
func (a *Arena) Health(id combat.CombatantID) float64 {
	if c, ok := a.combatants[id]; ok {
		return c.health
	}
	return 0
}

// Phase implements combat.GameState.
func (a *Arena) Phase() combat.Phase {
	return a.phase
}

// Blocking implements combat.GameState.
func (a *Arena) Blocking(id combat.CombatantID) bool {
	if c, ok := a.combatants[id]; ok {
		return c.blocking
	}
	return false
}

// Stunned implements combat.GameState. Stun is a timed condition; the flag
// clears itself once the duration elapses.
func (a *Arena) Stunned(id combat.CombatantID) bool {
	c, ok := a.combatants[id]
	if !ok {
		return false
	}
	return a.now().Before(c.stunnedTil)
}

// DamageMultiplier implements combat.GameState.
func (a *Arena) DamageMultiplier() float64 {
	if m, ok := a.cfg.DamageMultipliers[a.difficulty]; ok {
		return m
	}
	return 1
}

// ApplyDamage implements combat.GameState: subtracts the amount, clamps at
// zero, ends the match when the player or last opponent falls.
func (a *Arena) ApplyDamage(id combat.CombatantID, amount float64) float64 {
	c, ok := a.combatants[id]
	if !ok || amount <= 0 {
		return a.Health(id)
	}
	c.health -= amount
	if c.health < 0 {
		c.health = 0
	}
	if c.health == 0 && a.matchOver(id) {
		a.phase = combat.PhaseEnded
	}
	return c.health
}

// matchOver reports whether the given combatant falling ends the match: the
// player falling always does, an opponent only when no opponent remains
// standing. With no player registered any fall ends the match.
func (a *Arena) matchOver(fallen combat.CombatantID) bool {
	if a.player == "" || fallen == a.player {
		return true
	}
	for id, c := range a.combatants {
		if id != a.player && c.health > 0 {
			return false
		}
	}
	return true
}

// ApplyStun implements combat.GameState.
func (a *Arena) ApplyStun(id combat.CombatantID) {
	c, ok := a.combatants[id]
	if !ok {
		return
	}
	c.stunnedTil = a.now().Add(a.cfg.StunDuration)
	logcombat.Stun(context.Background(), a.publisher, a.tick,
		logging.EntityRef{ID: string(id), Kind: logging.EntityKindPlayer},
		a.cfg.StunDuration.Milliseconds())
}
