package spades

import (
	"github.com/sirupsen/logrus"

	"familyties-server/pkg/deck"
)

// Phase is the stage of play a game is in
type Phase string

// game phases
const (
	PhaseLobby   Phase = "lobby"
	PhaseBidding Phase = "bidding"
	PhasePlaying Phase = "playing"
	PhaseScoring Phase = "scoring"
)

// Team returns the partnership for the seat (0 = N/S, 1 = E/W)
func Team(seat int) int {
	return seat % 2
}

// PlayedCard is a card played into the current trick
type PlayedCard struct {
	Seat int        `json:"seat"`
	Card *deck.Card `json:"card"`
}

// TeamScore is a partnership's running score
type TeamScore struct {
	Points int `json:"points"`
	Bags   int `json:"bags"`
}

// Game is a single room's game of Spades.
// Methods are not safe for concurrent use; the caller must serialize access.
type Game struct {
	logger     logrus.FieldLogger
	phase      Phase
	dealerSeat int
	scores     map[int]*TeamScore
	hand       *handState

	// seed forces a deterministic shuffle in tests
	seed int64
}

// handState holds the fields that only exist while a hand is dealt.
// A nil handState means the game is in the lobby phase.
type handState struct {
	// hands are keyed by the durable player token, not by seat, so a
	// reconnecting token recovers exactly the cards it held
	hands     map[string]*deck.Hand
	seatToken [4]string

	bids      map[int]int
	nilCalls  map[int]bool
	blindNil  map[int]bool
	tricksWon map[int]int

	turnSeat     int
	leaderSeat   int
	spadesBroken bool
	trick        []*PlayedCard
}

// NewGame returns a game in the lobby phase
func NewGame(logger logrus.FieldLogger) *Game {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Game{
		logger: logger,
		phase:  PhaseLobby,
		scores: map[int]*TeamScore{
			0: {},
			1: {},
		},
	}
}

// SetSeed forces a deterministic shuffle. Tests only.
func (g *Game) SetSeed(seed int64) {
	g.seed = seed
}

// RestoreScores seeds the partnership scores from a snapshot.
// Only meaningful in the lobby phase, before any hand is dealt.
func (g *Game) RestoreScores(scores map[int]*TeamScore) {
	if g.phase != PhaseLobby {
		return
	}

	for team := 0; team <= 1; team++ {
		if score, ok := scores[team]; ok && score != nil {
			g.scores[team] = &TeamScore{Points: score.Points, Bags: score.Bags}
		}
	}
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// DealerSeat returns the current dealer seat
func (g *Game) DealerSeat() int {
	return g.dealerSeat
}

// Deal starts the first hand: lobby -> bidding.
// seatTokens maps each seat to the durable token of its occupant.
func (g *Game) Deal(seatTokens [4]string) error {
	if g.phase != PhaseLobby {
		return ErrHandInProgress
	}

	return g.deal(seatTokens)
}

// NextHand starts the next hand: scoring -> bidding.
// The dealer seat advances by one before the deal.
func (g *Game) NextHand(seatTokens [4]string) error {
	if g.phase != PhaseScoring {
		return ErrHandNotScored
	}

	g.dealerSeat = (g.dealerSeat + 1) % 4
	return g.deal(seatTokens)
}

func (g *Game) deal(seatTokens [4]string) error {
	for _, token := range seatTokens {
		if token == "" {
			return ErrMissingToken
		}
	}

	d := deck.New()
	if g.seed != 0 {
		d.SetSeed(g.seed)
	}
	d.Shuffle()

	hands, err := d.Deal(4, 13)
	if err != nil {
		return err
	}

	hs := &handState{
		hands:     make(map[string]*deck.Hand),
		seatToken: seatTokens,
		bids:      make(map[int]int),
		nilCalls:  make(map[int]bool),
		blindNil:  make(map[int]bool),
		tricksWon: map[int]int{0: 0, 1: 0, 2: 0, 3: 0},
	}

	for seat, token := range seatTokens {
		hand := hands[seat]
		hand.Sort()
		hs.hands[token] = &hand
	}

	hs.turnSeat = (g.dealerSeat + 1) % 4
	hs.leaderSeat = hs.turnSeat

	g.hand = hs
	g.phase = PhaseBidding

	g.logger.WithFields(logrus.Fields{
		"dealerSeat": g.dealerSeat,
		"turnSeat":   hs.turnSeat,
	}).Debug("dealt a new hand")

	return nil
}

// Bid records a bid for the seat.
// A rejected bid returns an error and leaves the game untouched.
func (g *Game) Bid(seat int, bid Bid) error {
	if g.phase != PhaseBidding {
		return ErrNotBiddingPhase
	}

	if seat < 0 || seat > 3 {
		return ErrInvalidSeat
	}

	hs := g.hand
	if hs.turnSeat != seat {
		return ErrIsNotPlayersTurn
	}

	if _, bade := hs.bids[seat]; bade {
		return ErrAlreadyBid
	}

	if !bid.valid() {
		return ErrInvalidBid
	}

	hs.bids[seat] = bid.Value
	if bid.Nil {
		hs.nilCalls[seat] = true
	}
	if bid.BlindNil {
		hs.blindNil[seat] = true
	}

	hs.turnSeat = (hs.turnSeat + 1) % 4

	if len(hs.bids) == 4 {
		g.phase = PhasePlaying
		hs.turnSeat = hs.leaderSeat
	}

	g.logger.WithFields(logrus.Fields{
		"seat": seat,
		"bid":  bid,
	}).Debug("bid accepted")

	return nil
}

// PlayCard plays a card from the seat's hand into the current trick.
// A rejected play returns an error and leaves the game untouched.
func (g *Game) PlayCard(seat int, card *deck.Card) error {
	if g.phase != PhasePlaying {
		return ErrNotPlayingPhase
	}

	if seat < 0 || seat > 3 {
		return ErrInvalidSeat
	}

	hs := g.hand
	if hs.turnSeat != seat {
		return ErrIsNotPlayersTurn
	}

	// a nil card can arrive straight off the wire as a JSON null
	hand, ok := hs.hands[hs.seatToken[seat]]
	if card == nil || !ok || !hand.HasCard(card) {
		return ErrCardNotInPlayersHand
	}

	if err := canPlayCard(hs, hand, card); err != nil {
		return err
	}

	hand.Discard(card)
	hs.trick = append(hs.trick, &PlayedCard{Seat: seat, Card: card})
	if card.Suit == deck.Spades {
		hs.spadesBroken = true
	}
	hs.turnSeat = (hs.turnSeat + 1) % 4

	g.logger.WithFields(logrus.Fields{
		"seat": seat,
		"card": card.String(),
	}).Debug("card played")

	if len(hs.trick) == 4 {
		winner := resolveTrick(hs.trick)
		hs.tricksWon[winner]++
		hs.leaderSeat = winner
		hs.turnSeat = winner
		hs.trick = nil

		g.logger.WithField("seat", winner).Debug("trick won")

		if g.cardsLeft() == 0 {
			g.scoreHand()
		}
	}

	return nil
}

// canPlayCard is the legality chain for a card already known to be in the hand.
// It never mutates state.
func canPlayCard(hs *handState, hand *deck.Hand, card *deck.Card) error {
	if len(hs.trick) == 0 {
		// spades cannot be led until broken, unless the hand is all spades
		if card.Suit == deck.Spades && !hs.spadesBroken {
			for _, c := range *hand {
				if c.Suit != deck.Spades {
					return ErrSpadesNotBroken
				}
			}
		}

		return nil
	}

	leadSuit := hs.trick[0].Card.Suit
	if card.Suit != leadSuit && hand.HasSuit(leadSuit) {
		return ErrMustFollowSuit
	}

	return nil
}

func (g *Game) cardsLeft() int {
	left := 0
	for _, token := range g.hand.seatToken {
		if hand, ok := g.hand.hands[token]; ok {
			left += hand.Len()
		}
	}

	return left
}

// DropToken discards the hand and seat binding for a token whose seat hold
// expired. The turn pointer is left alone; an abandoned seat stalls the hand
// rather than being skipped.
func (g *Game) DropToken(token string) {
	if g.hand == nil {
		return
	}

	delete(g.hand.hands, token)
	for seat, t := range g.hand.seatToken {
		if t == token {
			g.hand.seatToken[seat] = ""
		}
	}
}

// RebindToken records that a reconnecting token still owns its seat.
// The hand keyed by the token is untouched.
func (g *Game) RebindToken(seat int, token string) {
	if g.hand == nil || seat < 0 || seat > 3 {
		return
	}

	g.hand.seatToken[seat] = token
}

// HandForToken returns the token's remaining cards in display order.
// While the token's seat holds an undisclosed blind nil during bidding, the
// hand is suppressed (empty).
func (g *Game) HandForToken(token string) deck.Hand {
	if g.hand == nil {
		return deck.Hand{}
	}

	hand, ok := g.hand.hands[token]
	if !ok {
		return deck.Hand{}
	}

	if g.phase == PhaseBidding {
		for seat, t := range g.hand.seatToken {
			if t == token && g.hand.blindNil[seat] {
				return deck.Hand{}
			}
		}
	}

	return hand.Clone()
}
