package room

import (
	"time"

	"github.com/sirupsen/logrus"

	"familyties-server/pkg/snapshot"
	"familyties-server/pkg/spades"
)

// noSeat is reported to clients that joined as spectators
const noSeat = -1

// Room is the aggregate root for one table of Spades: the game, the seats,
// the durable token-to-seat table, spectators, and chat.
// Rooms are only ever touched from their dealer's run loop.
type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time

	game *spades.Game

	players map[int]*Player

	// tokenSeat is append-only for the room's lifetime; entries are removed
	// only by hold-window expiry, never overwritten
	tokenSeat map[string]int

	spectators map[*Client]*Spectator
	chat       []*ChatMessage
}

// NewRoom returns a room in the lobby phase
func NewRoom(id, name string, logger logrus.FieldLogger) *Room {
	if name == "" {
		name = id
	}

	return &Room{
		ID:         id,
		Name:       name,
		CreatedAt:  time.Now(),
		game:       spades.NewGame(logger),
		players:    make(map[int]*Player),
		tokenSeat:  make(map[string]int),
		spectators: make(map[*Client]*Spectator),
	}
}

// Game exposes the room's game. Callers must go through the dealer's run loop.
func (r *Room) Game() *spades.Game {
	return r.game
}

// claimSeat resolves a token to a seat.
// A token already recorded in the room keeps its seat for the room's
// lifetime, even across hand resets; an unknown token gets the first seat
// with no occupant record, or noSeat when the table is full.
func (r *Room) claimSeat(token string) int {
	if token != "" {
		if seat, ok := r.tokenSeat[token]; ok {
			return seat
		}
	}

	for seat := 0; seat <= 3; seat++ {
		if _, occupied := r.players[seat]; !occupied {
			return seat
		}
	}

	return noSeat
}

// playerForClient returns the seated player bound to the client, if any
func (r *Room) playerForClient(c *Client) *Player {
	for _, p := range r.players {
		if p.client == c {
			return p
		}
	}

	return nil
}

// seatTokens returns the token for each seat. ok is false unless all four
// seats are occupied.
func (r *Room) seatTokens() (tokens [4]string, ok bool) {
	for seat := 0; seat <= 3; seat++ {
		p, occupied := r.players[seat]
		if !occupied {
			return tokens, false
		}

		tokens[seat] = p.Token
	}

	return tokens, true
}

// allReady returns true if all four seats are occupied and ready
func (r *Room) allReady() bool {
	if len(r.players) != 4 {
		return false
	}

	for _, p := range r.players {
		if !p.Ready {
			return false
		}
	}

	return true
}

// playerState is the public view of a seat occupant
type playerState struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
}

// spectatorState is the public view of a spectator
type spectatorState struct {
	Name string `json:"name"`
}

// roomState is the full room view broadcast on every accepted mutation
type roomState struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	CreatedAt  time.Time         `json:"createdAt"`
	Players    []*playerState    `json:"players"`
	Spectators []*spectatorState `json:"spectators"`
	Game       *spades.State     `json:"game"`
	Chat       []*ChatMessage    `json:"chat"`
}

// state builds the broadcastable room view
func (r *Room) state() *roomState {
	players := make([]*playerState, 0, len(r.players))
	for seat := 0; seat <= 3; seat++ {
		p, ok := r.players[seat]
		if !ok {
			continue
		}

		players = append(players, &playerState{
			Seat:      p.Seat,
			Name:      p.Name,
			Ready:     p.Ready,
			Connected: p.Connected(),
		})
	}

	spectators := make([]*spectatorState, 0, len(r.spectators))
	for _, s := range r.spectators {
		spectators = append(spectators, &spectatorState{Name: s.Name})
	}

	return &roomState{
		ID:         r.ID,
		Name:       r.Name,
		CreatedAt:  r.CreatedAt,
		Players:    players,
		Spectators: spectators,
		Game:       r.game.State(),
		Chat:       r.recentChat(chatBroadcastLimit),
	}
}

// snapshotData exports the room's recoverable metadata.
// Hands, bids, and occupancy are deliberately excluded; a restored room
// always resumes at the lobby phase.
func (r *Room) snapshotData() snapshot.Room {
	state := r.game.State()

	chat := r.recentChat(snapshot.ChatLimit)
	messages := make([]snapshot.Message, len(chat))
	for i, m := range chat {
		messages[i] = snapshot.Message{
			Name:    m.Name,
			Message: m.Message,
			At:      m.At,
		}
	}

	return snapshot.Room{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		Scores:    state.Scores,
		Chat:      messages,
	}
}

// Restore seeds a freshly created room from a snapshot
func (r *Room) Restore(data snapshot.Room) {
	r.CreatedAt = data.CreatedAt
	r.game.RestoreScores(data.Scores)

	for _, m := range data.Chat {
		r.chat = append(r.chat, &ChatMessage{
			Name:    m.Name,
			Message: m.Message,
			At:      m.At,
		})
	}
}
