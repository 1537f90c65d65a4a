package room

import (
	"time"
)

// Player occupies a seat. A player with a nil client but a registered token
// is "held": the seat cannot be claimed by another token until the hold
// window elapses.
type Player struct {
	Seat       int
	Name       string
	Token      string
	Ready      bool
	LastActive time.Time

	client *Client

	// holdTimer fires the deferred seat cleanup after a disconnect.
	// holdEpoch identifies the disconnect instance the timer belongs to, so a
	// stale timer can never evict a seat reclaimed in the meantime.
	holdTimer *time.Timer
	holdEpoch int
}

// Connected returns true if a live connection is bound to the seat
func (p *Player) Connected() bool {
	return p.client != nil
}

// Spectator watches a room. Spectators have no durable identity and are
// dropped immediately on disconnect.
type Spectator struct {
	Name string

	client *Client
}
