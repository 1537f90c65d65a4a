package spades

import "familyties-server/pkg/deck"

// resolveTrick returns the winning seat of a completed trick.
// The highest spade wins if any were played; otherwise the highest card of
// the lead suit wins. Ranks are unique per trick, so there are no ties.
func resolveTrick(trick []*PlayedCard) int {
	winner := trick[0]
	for _, played := range trick[1:] {
		if beats(played.Card, winner.Card) {
			winner = played
		}
	}

	return winner.Seat
}

// beats returns true if the challenger takes the trick from the current winner
func beats(challenger, winning *deck.Card) bool {
	if challenger.Suit == deck.Spades && winning.Suit != deck.Spades {
		return true
	}

	return challenger.Suit == winning.Suit && challenger.Rank > winning.Rank
}
