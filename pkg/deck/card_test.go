package deck

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCardFromString(t *testing.T) {
	a := assert.New(t)

	card := CardFromString("14s")
	a.Equal(Ace, card.Rank)
	a.Equal(Spades, card.Suit)

	card = CardFromString("2c")
	a.Equal(2, card.Rank)
	a.Equal(Clubs, card.Suit)

	a.Nil(CardFromString(""))

	a.PanicsWithValue("could not parse card: 15s", func() {
		CardFromString("15s")
	})
}

func TestCard_String(t *testing.T) {
	a := assert.New(t)
	a.Equal("A♠", CardFromString("14s").String())
	a.Equal("J♡", CardFromString("11h").String())
	a.Equal("10♢", CardFromString("10d").String())
	a.Equal("2♣", CardFromString("2c").String())
}

func TestCardsRoundTrip(t *testing.T) {
	a := assert.New(t)

	cards := CardsFromString("2c,13h,14s")
	a.Len(cards, 3)
	a.Equal("2c,13h,14s", CardsToString(cards))
}

func TestCard_AceLowRank(t *testing.T) {
	a := assert.New(t)
	a.Equal(1, CardFromString("14s").AceLowRank())
	a.Equal(13, CardFromString("13s").AceLowRank())
}

func TestHand(t *testing.T) {
	a := assert.New(t)

	h := Hand(CardsFromString("2c,3d"))
	h.AddCard(CardFromString("14s"))
	a.Len(h, 3)
	a.True(h.HasCard(CardFromString("3d")))
	a.False(h.HasCard(CardFromString("3c")))
	a.Equal("2c", CardToString(h.FirstCard()))

	clone := h.Clone()
	clone[0] = CardFromString("9h")
	a.Equal("2c", CardToString(h.FirstCard()))
}
