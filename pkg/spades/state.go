package spades

// State is the broadcastable view of a game. It never includes hands; those
// are delivered privately per seat.
type State struct {
	Phase        Phase              `json:"phase"`
	DealerSeat   int                `json:"dealerSeat"`
	TurnSeat     int                `json:"turnSeat"`
	LeaderSeat   int                `json:"leaderSeat"`
	SpadesBroken bool               `json:"spadesBroken"`
	Bids         map[int]int        `json:"bids"`
	NilCalls     map[int]bool       `json:"nilCalls"`
	BlindNil     map[int]bool       `json:"blindNil"`
	TricksWon    map[int]int        `json:"tricksWon"`
	CurrentTrick []*PlayedCard      `json:"currentTrick"`
	Scores       map[int]*TeamScore `json:"scores"`
}

// State returns a copy of the game's public state
func (g *Game) State() *State {
	state := &State{
		Phase:        g.phase,
		DealerSeat:   g.dealerSeat,
		Bids:         make(map[int]int),
		NilCalls:     make(map[int]bool),
		BlindNil:     make(map[int]bool),
		TricksWon:    make(map[int]int),
		CurrentTrick: []*PlayedCard{},
		Scores: map[int]*TeamScore{
			0: {Points: g.scores[0].Points, Bags: g.scores[0].Bags},
			1: {Points: g.scores[1].Points, Bags: g.scores[1].Bags},
		},
	}

	hs := g.hand
	if hs == nil {
		return state
	}

	state.TurnSeat = hs.turnSeat
	state.LeaderSeat = hs.leaderSeat
	state.SpadesBroken = hs.spadesBroken

	for seat, bid := range hs.bids {
		state.Bids[seat] = bid
	}
	for seat, isNil := range hs.nilCalls {
		state.NilCalls[seat] = isNil
	}
	for seat, isBlind := range hs.blindNil {
		state.BlindNil[seat] = isBlind
	}
	for seat, won := range hs.tricksWon {
		state.TricksWon[seat] = won
	}

	state.CurrentTrick = append(state.CurrentTrick, hs.trick...)

	return state
}
