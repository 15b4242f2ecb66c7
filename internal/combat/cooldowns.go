package combat

import "time"

// Interaction names for the three independent cooldown timers. Keeping the
// timers separate means a fast player attack cadence is never blocked by
// the bot's own recent attack, and vice versa.
const (
	interactionPlayerHit   = "player_hit"
	interactionOpponentHit = "opponent_hit"
	interactionClash       = "clash"
)

// cooldownSet tracks the last firing time per interaction. An interaction
// may only re-fire once its configured interval has elapsed since its own
// last firing.
type cooldownSet struct {
	last map[string]time.Time
}

// ready reports whether the interaction's cooldown has elapsed. It does not
// record anything: a check that later misses must leave the timer alone.
func (c *cooldownSet) ready(interaction string, cooldown time.Duration, now time.Time) bool {
	if cooldown <= 0 {
		return true
	}
	last, ok := c.last[interaction]
	if !ok {
		return true
	}
	return now.Sub(last) >= cooldown
}

// trigger records a firing timestamp, lazily allocating the registry.
func (c *cooldownSet) trigger(interaction string, now time.Time) {
	if c.last == nil {
		c.last = make(map[string]time.Time)
	}
	c.last[interaction] = now
}
