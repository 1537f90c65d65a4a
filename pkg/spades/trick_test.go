package spades

import (
	"github.com/stretchr/testify/assert"
	"testing"

	"familyties-server/pkg/deck"
)

func trick(cards ...string) []*PlayedCard {
	played := make([]*PlayedCard, len(cards))
	for seat, card := range cards {
		played[seat] = &PlayedCard{Seat: seat, Card: deck.CardFromString(card)}
	}

	return played
}

func TestResolveTrick(t *testing.T) {
	// highest card of the lead suit wins
	assert.Equal(t, 3, resolveTrick(trick("10c", "5c", "2c", "14c")))

	// off-suit cards never win, regardless of rank
	assert.Equal(t, 0, resolveTrick(trick("2c", "14h", "13d", "12h")))

	// any spade beats any non-spade
	assert.Equal(t, 2, resolveTrick(trick("14c", "5h", "2s", "13c")))

	// the highest spade wins when several are played
	assert.Equal(t, 3, resolveTrick(trick("14c", "2s", "5s", "9s")))

	// spades led: plain highest-of-lead-suit
	assert.Equal(t, 1, resolveTrick(trick("5s", "14s", "2s", "13s")))
}

func TestBeats(t *testing.T) {
	assert.True(t, beats(deck.CardFromString("2s"), deck.CardFromString("14h")))
	assert.False(t, beats(deck.CardFromString("14h"), deck.CardFromString("2s")))
	assert.True(t, beats(deck.CardFromString("10h"), deck.CardFromString("9h")))
	assert.False(t, beats(deck.CardFromString("9h"), deck.CardFromString("10h")))
	assert.False(t, beats(deck.CardFromString("14d"), deck.CardFromString("2h")))
}
