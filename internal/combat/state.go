// Package combat resolves weapon-versus-body and weapon-versus-weapon
// interactions once per rendered frame. It owns no health or stun totals;
// those live with the GameState collaborator and are only mutated through
// it.
package combat

// CombatantID identifies a combatant slot within a session: the local
// player, a practice bot, or a remote peer's avatar.
type CombatantID string

// Phase is the coarse game phase the host reports. Collision checks only
// run during PhaseActive.
type Phase string

const (
	PhaseLobby  Phase = "lobby"
	PhaseActive Phase = "active"
	PhaseEnded  Phase = "ended"
)

// GameState is the collaborator owning combat totals and status flags. The
// session reads phase/blocking/stun and requests mutations; it never writes
// health fields itself.
type GameState interface {
	Phase() Phase
	Blocking(id CombatantID) bool
	Stunned(id CombatantID) bool
	// DamageMultiplier scales bot damage for the selected difficulty.
	DamageMultiplier() float64
	// ApplyDamage subtracts the (already block-reduced) amount and returns
	// the target's new health total.
	ApplyDamage(id CombatantID, amount float64) float64
	ApplyStun(id CombatantID)
}
