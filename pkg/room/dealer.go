package room

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"familyties-server/internal/util"
	"familyties-server/pkg/spades"
	"familyties-server/pkg/token"
)

// defaultHoldWindow is how long a disconnected player's seat is held
const defaultHoldWindow = 5 * time.Minute

// tokenLength is the length of a generated player token
const tokenLength = 24

var errNotSeated = errors.New("you are not seated at this table")
var errNeedFourPlayers = errors.New("four seated players are required")
var errExpectedOneCard = errors.New("expected exactly one card")
var errUnknownAction = errors.New("unknown action")

// Dealer runs one room. Every action against the room executes on the
// dealer's run loop, so no two actions ever touch the room concurrently.
type Dealer struct {
	pitBoss    *PitBoss
	room       *Room
	logger     logrus.FieldLogger
	holdWindow time.Duration

	// clients is owned by the run loop
	clients map[*Client]bool

	execInRunLoop chan func()
	close         chan bool

	lock sync.RWMutex
	info Info
}

// Info is the read-only directory entry for a room
type Info struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	CreatedAt  time.Time    `json:"createdAt"`
	Phase      spades.Phase `json:"phase"`
	Players    int          `json:"players"`
	Spectators int          `json:"spectators"`
}

type joinedData struct {
	RoomID    string `json:"roomId"`
	Seat      int    `json:"seat"`
	Spectator bool   `json:"spectator"`
	Token     string `json:"token,omitempty"`
}

// NewDealer creates a new dealer for the room
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, room *Room, holdWindow time.Duration) *Dealer {
	if holdWindow <= 0 {
		holdWindow = defaultHoldWindow
	}

	d := &Dealer{
		pitBoss:    pitBoss,
		room:       room,
		holdWindow: holdWindow,
		logger: logrus.WithFields(logrus.Fields{
			"room": room.ID,
			"name": room.Name,
		}),
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}

	d.info = Info{
		ID:        room.ID,
		Name:      room.Name,
		CreatedAt: room.CreatedAt,
		Phase:     room.game.Phase(),
	}

	return d
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// EndShift terminates the run loop. Only used at process shutdown; rooms are
// never removed while the server runs.
func (d *Dealer) EndShift() {
	close(d.close)
}

// Info returns the current directory entry
func (d *Dealer) Info() Info {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.info
}

// AddClient seats (or spectates) a connected client
// This method must return quickly
func (d *Dealer) AddClient(c *Client) {
	c.dealer = d
	d.execInRunLoop <- func() {
		d.handleConnect(c)
	}
}

// RemoveClient handles a dropped connection
// This method must return quickly
func (d *Dealer) RemoveClient(c *Client) {
	d.execInRunLoop <- func() {
		d.handleDisconnect(c)
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	d.execInRunLoop <- func() {
		d.handleMessage(c, msg)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleConnect(c *Client) {
	d.clients[c] = true

	if c.name == "" {
		c.name = util.GetRandomName()
	}

	if c.asSpectator {
		d.spectate(c)
		return
	}

	seat := d.room.claimSeat(c.token)
	if seat == noSeat {
		// table is full; the client watches instead
		d.spectate(c)
		return
	}

	if p, ok := d.room.players[seat]; ok && p.Token == c.token {
		d.reclaimSeat(c, p)
	} else if err := d.claimNewSeat(c, seat); err != nil {
		d.logger.WithError(err).Error("could not issue player token")
		c.Send(newErrorResponse("", err))
		return
	}

	c.Send(&Response{Key: "joined", Data: &joinedData{
		RoomID: d.room.ID,
		Seat:   seat,
		Token:  c.token,
	}})

	d.broadcast()
	d.persist()
}

// NOTE: must only be called from the run loop
func (d *Dealer) spectate(c *Client) {
	d.room.spectators[c] = &Spectator{Name: c.name, client: c}

	c.Send(&Response{Key: "joined", Data: &joinedData{
		RoomID:    d.room.ID,
		Seat:      noSeat,
		Spectator: true,
	}})

	d.broadcast()
}

// reclaimSeat rebinds a reconnecting token to the seat it already holds.
// The pending hold timer is canceled and its epoch invalidated so a stale
// fire can never evict the seat.
// NOTE: must only be called from the run loop
func (d *Dealer) reclaimSeat(c *Client, p *Player) {
	if p.holdTimer != nil {
		p.holdTimer.Stop()
		p.holdTimer = nil
	}
	p.holdEpoch++

	if p.client != nil {
		// at most one live connection per token
		delete(d.clients, p.client)
		select {
		case p.client.Close <- "connected elsewhere":
		default:
		}
	}

	p.client = c
	p.Name = c.name
	p.LastActive = time.Now()
	d.room.game.RebindToken(p.Seat, p.Token)

	d.logger.WithField("seat", p.Seat).Debug("seat reclaimed")
}

// NOTE: must only be called from the run loop
func (d *Dealer) claimNewSeat(c *Client, seat int) error {
	tok := c.token
	if tok == "" {
		generated, err := token.Generate(tokenLength)
		if err != nil {
			return err
		}

		tok = generated
		c.token = tok
	}

	d.room.players[seat] = &Player{
		Seat:       seat,
		Name:       c.name,
		Token:      tok,
		LastActive: time.Now(),
		client:     c,
	}
	d.room.tokenSeat[tok] = seat

	d.logger.WithField("seat", seat).Debug("seat claimed")
	return nil
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleDisconnect(c *Client) {
	delete(d.clients, c)

	if _, ok := d.room.spectators[c]; ok {
		delete(d.room.spectators, c)
		d.broadcast()
		return
	}

	p := d.room.playerForClient(c)
	if p == nil {
		return
	}

	// the seat is now held: only the live-connection reference is cleared;
	// token, hand, bid state, and ready flag are untouched
	p.client = nil
	p.LastActive = time.Now()
	p.holdEpoch++

	seat := p.Seat
	epoch := p.holdEpoch
	p.holdTimer = time.AfterFunc(d.holdWindow, func() {
		d.execInRunLoop <- func() {
			d.expireSeat(seat, epoch)
		}
	})

	d.logger.WithField("seat", seat).Debug("seat held for disconnected player")
	d.broadcast()
}

// expireSeat permanently removes a seat whose hold window lapsed with no
// reclaim. A reconnect bumps the epoch, making a stale timer a no-op.
// NOTE: must only be called from the run loop
func (d *Dealer) expireSeat(seat, epoch int) {
	p, ok := d.room.players[seat]
	if !ok || p.Connected() || p.holdEpoch != epoch {
		return
	}

	delete(d.room.players, seat)
	delete(d.room.tokenSeat, p.Token)
	d.room.game.DropToken(p.Token)

	d.logger.WithField("seat", seat).Debug("seat hold expired")
	d.broadcast()
	d.persist()
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleMessage(c *Client, msg *PayloadIn) {
	switch msg.Action {
	case "ready":
		d.handleReady(c, msg)
	case "bid":
		d.handleBid(c, msg)
	case "playCard":
		d.handlePlayCard(c, msg)
	case "nextHand":
		d.handleNextHand(c, msg)
	case "chat":
		d.handleChat(c, msg)
	default:
		d.logger.WithField("action", msg.Action).Warn("unknown message")
		c.Send(newErrorResponse(msg.Context, errUnknownAction))
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleReady(c *Client, msg *PayloadIn) {
	p := d.room.playerForClient(c)
	if p == nil {
		c.Send(newErrorResponse(msg.Context, errNotSeated))
		return
	}

	p.Ready = true
	p.LastActive = time.Now()

	// a deal only ever fires from the lobby; a ready during a hand just
	// records the flag
	if d.room.game.Phase() == spades.PhaseLobby && d.room.allReady() {
		tokens, ok := d.room.seatTokens()
		if ok {
			if err := d.room.game.Deal(tokens); err != nil {
				d.logger.WithError(err).Error("could not deal")
			}
		}
	}

	c.Send(OK(msg.Context))
	d.broadcast()
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleBid(c *Client, msg *PayloadIn) {
	p := d.room.playerForClient(c)
	if p == nil {
		c.Send(newErrorResponse(msg.Context, errNotSeated))
		return
	}

	bid, err := spades.ParseBid(msg.AdditionalData["bid"])
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	if err := d.room.game.Bid(p.Seat, bid); err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	p.LastActive = time.Now()
	c.Send(OK(msg.Context))
	d.broadcast()
}

// NOTE: must only be called from the run loop
func (d *Dealer) handlePlayCard(c *Client, msg *PayloadIn) {
	p := d.room.playerForClient(c)
	if p == nil {
		c.Send(newErrorResponse(msg.Context, errNotSeated))
		return
	}

	if len(msg.Cards) != 1 {
		c.Send(newErrorResponse(msg.Context, errExpectedOneCard))
		return
	}

	if err := d.room.game.PlayCard(p.Seat, msg.Cards[0]); err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	p.LastActive = time.Now()
	c.Send(OK(msg.Context))
	d.broadcast()

	// scoring changes the partnership totals, which are part of the snapshot
	if d.room.game.Phase() == spades.PhaseScoring {
		d.persist()
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleNextHand(c *Client, msg *PayloadIn) {
	p := d.room.playerForClient(c)
	if p == nil {
		c.Send(newErrorResponse(msg.Context, errNotSeated))
		return
	}

	tokens, ok := d.room.seatTokens()
	if !ok {
		c.Send(newErrorResponse(msg.Context, errNeedFourPlayers))
		return
	}

	if err := d.room.game.NextHand(tokens); err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	for _, player := range d.room.players {
		player.Ready = true
	}
	p.LastActive = time.Now()

	c.Send(OK(msg.Context))
	d.broadcast()
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleChat(c *Client, msg *PayloadIn) {
	message, ok := msg.AdditionalData.GetString("message")
	if !ok || message == "" {
		return
	}

	name := "Guest"
	if p := d.room.playerForClient(c); p != nil {
		name = p.Name
	} else if s, found := d.room.spectators[c]; found {
		name = s.Name
	}

	d.room.addChat(name, message)
	d.broadcast()
	d.persist()
}

// broadcast pushes the authoritative room view to every connection, and the
// private hand view to each seated connection.
// NOTE: must only be called from the run loop
func (d *Dealer) broadcast() {
	state := d.room.state()
	for client := range d.clients {
		client.Send(&Response{Key: "roomState", Data: state})
	}

	for _, p := range d.room.players {
		if p.client != nil {
			p.client.Send(&Response{Key: "hand", Data: d.room.game.HandForToken(p.Token)})
		}
	}

	d.publishInfo()
}

// NOTE: must only be called from the run loop
func (d *Dealer) publishInfo() {
	info := Info{
		ID:         d.room.ID,
		Name:       d.room.Name,
		CreatedAt:  d.room.CreatedAt,
		Phase:      d.room.game.Phase(),
		Players:    len(d.room.players),
		Spectators: len(d.room.spectators),
	}

	d.lock.Lock()
	d.info = info
	d.lock.Unlock()
}

// NOTE: must only be called from the run loop
func (d *Dealer) persist() {
	if d.pitBoss != nil {
		d.pitBoss.roomChanged(d.room.snapshotData())
	}
}
