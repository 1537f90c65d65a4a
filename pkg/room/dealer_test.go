package room

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"familyties-server/pkg/deck"
	"familyties-server/pkg/spades"
)

// flushDealer blocks until the run loop has drained everything posted before it
func flushDealer(d *Dealer) {
	done := make(chan bool)
	d.execInRunLoop <- func() {
		done <- true
	}
	<-done
}

// nextResponse pops buffered messages off the client until one matches the key
func nextResponse(t *testing.T, c *Client, key string) *Response {
	t.Helper()

	for {
		select {
		case msg := <-c.SendChan():
			if res, ok := msg.(*Response); ok && res.Key == key {
				return res
			}
		default:
			t.Fatalf("no %q response buffered", key)
			return nil
		}
	}
}

func drainClient(c *Client) {
	for {
		select {
		case <-c.SendChan():
		default:
			return
		}
	}
}

// seatFourPlayers joins four named clients and returns them with their tokens
func seatFourPlayers(t *testing.T, d *Dealer) ([]*Client, []string) {
	t.Helper()

	clients := make([]*Client, 4)
	tokens := make([]string, 4)
	for i := range clients {
		clients[i] = NewClient(nil, fmt.Sprintf("player-%d", i), "", false)
		d.AddClient(clients[i])
	}
	flushDealer(d)

	for i, c := range clients {
		res := nextResponse(t, c, "joined")
		data := res.Data.(*joinedData)
		assert.Equal(t, i, data.Seat)
		assert.NotEqual(t, "", data.Token)
		tokens[i] = data.Token
	}

	return clients, tokens
}

// readyUp marks every client ready, which triggers the first deal. Buffers are
// drained right before the deal so the next "hand" each client sees is a real
// 13-card hand.
func readyUp(t *testing.T, d *Dealer, clients []*Client) {
	t.Helper()

	for _, c := range clients[:3] {
		d.ReceivedMessage(c, &PayloadIn{Action: "ready"})
	}
	flushDealer(d)

	for _, c := range clients {
		drainClient(c)
	}

	d.ReceivedMessage(clients[3], &PayloadIn{Action: "ready"})
	flushDealer(d)
}

func TestDealer_seating(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	clients, tokens := seatFourPlayers(t, d)

	seen := make(map[string]bool)
	for _, token := range tokens {
		seen[token] = true
	}
	assert.Equal(t, 4, len(seen))

	// a fifth player watches instead
	c5 := NewClient(nil, "", "", false)
	d.AddClient(c5)
	flushDealer(d)

	res := nextResponse(t, c5, "joined")
	data := res.Data.(*joinedData)
	assert.Equal(t, noSeat, data.Seat)
	assert.True(t, data.Spectator)

	// a client with no name gets one assigned
	assert.NotEqual(t, "", c5.name)

	info := d.Info()
	assert.Equal(t, "ROOM", info.ID)
	assert.Equal(t, 4, info.Players)
	assert.Equal(t, 1, info.Spectators)
	assert.Equal(t, spades.PhaseLobby, info.Phase)

	assert.Equal(t, "player-2", d.room.players[2].Name)
	assert.True(t, d.room.players[0].client == clients[0])
}

func TestDealer_readyDealsFirstHand(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	clients, _ := seatFourPlayers(t, d)

	for _, c := range clients[:3] {
		d.ReceivedMessage(c, &PayloadIn{Action: "ready"})
	}
	flushDealer(d)
	assert.Equal(t, spades.PhaseLobby, d.Info().Phase)

	for _, c := range clients {
		drainClient(c)
	}

	d.ReceivedMessage(clients[3], &PayloadIn{Action: "ready", Context: "r4"})
	flushDealer(d)
	assert.Equal(t, spades.PhaseBidding, d.Info().Phase)

	res := nextResponse(t, clients[3], "status")
	assert.Equal(t, "OK", res.Value)
	assert.Equal(t, "r4", res.Context)

	for _, c := range clients {
		res := nextResponse(t, c, "hand")
		hand := res.Data.(deck.Hand)
		assert.Equal(t, 13, hand.Len())
	}

	// a ready after the deal never re-deals
	d.ReceivedMessage(clients[0], &PayloadIn{Action: "ready"})
	flushDealer(d)
	assert.Equal(t, spades.PhaseBidding, d.Info().Phase)
}

func TestDealer_readyRequiresSeat(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	c := NewClient(nil, "watcher", "", true)
	d.AddClient(c)
	d.ReceivedMessage(c, &PayloadIn{Action: "ready", Context: "ctx"})
	flushDealer(d)

	res := nextResponse(t, c, "error")
	assert.Equal(t, errNotSeated.Error(), res.Value)
	assert.Equal(t, "ctx", res.Context)
}

func TestDealer_bidding(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	clients, _ := seatFourPlayers(t, d)
	readyUp(t, d, clients)

	// seat 1 bids first
	d.ReceivedMessage(clients[0], &PayloadIn{Action: "bid", AdditionalData: AdditionalData{"bid": float64(3)}})
	flushDealer(d)
	res := nextResponse(t, clients[0], "error")
	assert.Equal(t, spades.ErrIsNotPlayersTurn.Error(), res.Value)

	d.ReceivedMessage(clients[1], &PayloadIn{Action: "bid", AdditionalData: AdditionalData{"bid": "bogus"}})
	flushDealer(d)
	res = nextResponse(t, clients[1], "error")
	assert.Equal(t, spades.ErrInvalidBid.Error(), res.Value)

	d.ReceivedMessage(clients[1], &PayloadIn{Action: "bid", AdditionalData: AdditionalData{"bid": float64(3)}, Context: "b1"})
	flushDealer(d)
	res = nextResponse(t, clients[1], "status")
	assert.Equal(t, "OK", res.Value)
	assert.Equal(t, "b1", res.Context)

	remaining := []struct {
		seat int
		bid  interface{}
	}{
		{2, "nil"},
		{3, float64(4)},
		{0, float64(3)},
	}
	for _, b := range remaining {
		d.ReceivedMessage(clients[b.seat], &PayloadIn{Action: "bid", AdditionalData: AdditionalData{"bid": b.bid}})
	}
	flushDealer(d)

	assert.Equal(t, spades.PhasePlaying, d.Info().Phase)
}

func TestDealer_playCardValidation(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	clients, _ := seatFourPlayers(t, d)
	readyUp(t, d, clients)

	d.ReceivedMessage(clients[1], &PayloadIn{Action: "playCard"})
	flushDealer(d)
	res := nextResponse(t, clients[1], "error")
	assert.Equal(t, errExpectedOneCard.Error(), res.Value)

	d.ReceivedMessage(clients[1], &PayloadIn{Action: "playCard", Cards: deck.CardsFromString("2c")})
	flushDealer(d)
	res = nextResponse(t, clients[1], "error")
	assert.Equal(t, spades.ErrNotPlayingPhase.Error(), res.Value)

	d.ReceivedMessage(clients[1], &PayloadIn{Action: "nextHand"})
	flushDealer(d)
	res = nextResponse(t, clients[1], "error")
	assert.Equal(t, spades.ErrHandNotScored.Error(), res.Value)

	d.ReceivedMessage(clients[1], &PayloadIn{Action: "bogus"})
	flushDealer(d)
	res = nextResponse(t, clients[1], "error")
	assert.Equal(t, errUnknownAction.Error(), res.Value)
}

func TestDealer_playCardNullElement(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	clients, _ := seatFourPlayers(t, d)
	readyUp(t, d, clients)

	// complete bidding so play is live
	for _, seat := range []int{1, 2, 3, 0} {
		d.ReceivedMessage(clients[seat], &PayloadIn{Action: "bid", AdditionalData: AdditionalData{"bid": float64(3)}})
	}
	flushDealer(d)
	assert.Equal(t, spades.PhasePlaying, d.Info().Phase)

	for _, c := range clients {
		drainClient(c)
	}

	// a JSON null in the cards array decodes to a nil card
	d.ReceivedMessage(clients[1], &PayloadIn{Action: "playCard", Cards: []*deck.Card{nil}, Context: "ctx"})
	flushDealer(d)

	res := nextResponse(t, clients[1], "error")
	assert.Equal(t, spades.ErrCardNotInPlayersHand.Error(), res.Value)
	assert.Equal(t, "ctx", res.Context)

	state := d.room.game.State()
	assert.Equal(t, spades.PhasePlaying, state.Phase)
	assert.Equal(t, 1, state.TurnSeat)
	assert.Equal(t, 0, len(state.CurrentTrick))
}

func TestDealer_reconnectReclaimsSeat(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	c1 := NewClient(nil, "alice", "", false)
	d.AddClient(c1)
	flushDealer(d)

	res := nextResponse(t, c1, "joined")
	token := res.Data.(*joinedData).Token

	d.RemoveClient(c1)
	flushDealer(d)

	// the seat is held, not freed
	assert.Equal(t, 1, d.Info().Players)
	assert.False(t, d.room.players[0].Connected())

	c2 := NewClient(nil, "alice", token, false)
	d.AddClient(c2)
	flushDealer(d)

	res = nextResponse(t, c2, "joined")
	data := res.Data.(*joinedData)
	assert.Equal(t, 0, data.Seat)
	assert.Equal(t, token, data.Token)
	assert.True(t, d.room.players[0].Connected())
	assert.Nil(t, d.room.players[0].holdTimer)
}

func TestDealer_reconnectRecoversHand(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	clients, tokens := seatFourPlayers(t, d)
	readyUp(t, d, clients)

	res := nextResponse(t, clients[0], "hand")
	before := res.Data.(deck.Hand).String()

	d.RemoveClient(clients[0])
	flushDealer(d)

	c := NewClient(nil, "player-0", tokens[0], false)
	d.AddClient(c)
	flushDealer(d)

	res = nextResponse(t, c, "hand")
	assert.Equal(t, before, res.Data.(deck.Hand).String())
	assert.Equal(t, spades.PhaseBidding, d.Info().Phase)
}

func TestDealer_holdExpiryFreesSeat(t *testing.T) {
	pb := NewPitBoss(nil, time.Millisecond*25)
	d := pb.CreateRoom("ROOM", "")

	clients, tokens := seatFourPlayers(t, d)
	readyUp(t, d, clients)
	assert.Equal(t, spades.PhaseBidding, d.Info().Phase)

	d.RemoveClient(clients[0])
	flushDealer(d)

	assert.Eventually(t, func() bool {
		return d.Info().Players == 3
	}, time.Second*2, time.Millisecond*10)
	flushDealer(d)

	// the hand is discarded with the seat
	assert.Equal(t, 0, d.room.game.HandForToken(tokens[0]).Len())

	// the freed seat goes to the next newcomer, under a fresh token
	c := NewClient(nil, "dave", "", false)
	d.AddClient(c)
	flushDealer(d)

	res := nextResponse(t, c, "joined")
	data := res.Data.(*joinedData)
	assert.Equal(t, 0, data.Seat)
	assert.NotEqual(t, tokens[0], data.Token)
}

func TestDealer_reconnectCancelsHold(t *testing.T) {
	pb := NewPitBoss(nil, time.Millisecond*50)
	d := pb.CreateRoom("ROOM", "")

	c1 := NewClient(nil, "alice", "", false)
	d.AddClient(c1)
	flushDealer(d)
	token := nextResponse(t, c1, "joined").Data.(*joinedData).Token

	d.RemoveClient(c1)
	flushDealer(d)

	c2 := NewClient(nil, "alice", token, false)
	d.AddClient(c2)
	flushDealer(d)

	// well past the hold window; the reclaimed seat must survive
	time.Sleep(time.Millisecond * 120)
	flushDealer(d)

	assert.Equal(t, 1, d.Info().Players)
	assert.True(t, d.room.players[0].Connected())
}

func TestDealer_secondConnectionKicksFirst(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	c1 := NewClient(nil, "alice", "", false)
	d.AddClient(c1)
	flushDealer(d)
	token := nextResponse(t, c1, "joined").Data.(*joinedData).Token

	reason := make(chan string, 1)
	go func() {
		reason <- <-c1.Close
	}()
	time.Sleep(time.Millisecond * 10)

	c2 := NewClient(nil, "alice", token, false)
	d.AddClient(c2)
	flushDealer(d)

	select {
	case r := <-reason:
		assert.Equal(t, "connected elsewhere", r)
	case <-time.After(time.Second):
		t.Fatal("first connection was not closed")
	}

	assert.Equal(t, 1, d.Info().Players)
	assert.True(t, d.room.players[0].client == c2)
}

func TestDealer_chat(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	c1 := NewClient(nil, "alice", "", false)
	spectator := NewClient(nil, "bob", "", true)
	d.AddClient(c1)
	d.AddClient(spectator)
	flushDealer(d)
	drainClient(c1)

	d.ReceivedMessage(c1, &PayloadIn{Action: "chat", AdditionalData: AdditionalData{"message": "hello"}})
	flushDealer(d)

	res := nextResponse(t, c1, "roomState")
	chat := res.Data.(*roomState).Chat
	assert.Equal(t, 1, len(chat))
	assert.Equal(t, "alice", chat[0].Name)
	assert.Equal(t, "hello", chat[0].Message)

	d.ReceivedMessage(spectator, &PayloadIn{Action: "chat", AdditionalData: AdditionalData{"message": "hi there"}})
	flushDealer(d)
	assert.Equal(t, "bob", d.room.chat[1].Name)

	// a sender with no identity in the room falls back to Guest
	ghost := NewClient(nil, "", "", false)
	d.ReceivedMessage(ghost, &PayloadIn{Action: "chat", AdditionalData: AdditionalData{"message": "boo"}})
	flushDealer(d)
	assert.Equal(t, "Guest", d.room.chat[2].Name)

	// empty messages are dropped
	d.ReceivedMessage(c1, &PayloadIn{Action: "chat", AdditionalData: AdditionalData{"message": ""}})
	flushDealer(d)
	assert.Equal(t, 3, len(d.room.chat))
}

func TestDealer_spectatorDisconnect(t *testing.T) {
	pb := NewPitBoss(nil, time.Minute)
	d := pb.CreateRoom("ROOM", "")

	c := NewClient(nil, "bob", "", true)
	d.AddClient(c)
	flushDealer(d)
	assert.Equal(t, 1, d.Info().Spectators)

	d.RemoveClient(c)
	flushDealer(d)
	assert.Equal(t, 0, d.Info().Spectators)
}
