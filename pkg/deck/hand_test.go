package deck

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestHand_Sort(t *testing.T) {
	hand := Hand(CardsFromString("14s,2c,13h,3c,5d"))
	hand.Sort()

	assert.Equal(t, "2c,3c,5d,13h,14s", hand.String())
}

func TestHand_HasCard(t *testing.T) {
	hand := Hand(CardsFromString("2c,3c,5d"))

	assert.True(t, hand.HasCard(CardFromString("3c")))
	assert.False(t, hand.HasCard(CardFromString("3d")))
}

func TestHand_HasSuit(t *testing.T) {
	hand := Hand(CardsFromString("2c,3c,5d"))

	assert.True(t, hand.HasSuit(Clubs))
	assert.True(t, hand.HasSuit(Diamonds))
	assert.False(t, hand.HasSuit(Spades))
	assert.False(t, hand.HasSuit(Hearts))
}

func TestHand_Discard(t *testing.T) {
	hand := Hand(CardsFromString("2c,3c,5d"))

	assert.True(t, hand.Discard(CardFromString("3c")))
	assert.Equal(t, "2c,5d", hand.String())

	assert.False(t, hand.Discard(CardFromString("3c")))
	assert.Equal(t, "2c,5d", hand.String())
}

func TestHand_Clone(t *testing.T) {
	hand := Hand(CardsFromString("2c,3c,5d"))
	clone := hand.Clone()

	assert.Equal(t, hand.String(), clone.String())

	clone.Discard(CardFromString("2c"))
	assert.Equal(t, "2c,3c,5d", hand.String())
	assert.Equal(t, "3c,5d", clone.String())
}
