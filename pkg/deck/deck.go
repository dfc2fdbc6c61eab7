package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"
	"math/rand"
)

// ErrEndOfDeck is an error when a deal is attempted past the last card
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck is a shuffled deck of 52 cards addressed by offset.
//
// The shuffle is a pure function of the seed, so two processes holding
// the same seed will deal identical cards. The deck is never consumed;
// callers address cards by absolute offset, which keeps every deal
// replayable from the seed alone.
type Deck struct {
	Cards []*Card `json:"cards"`
	seed  int64
}

// FromSeed returns the deck produced by shuffling with the given seed
func FromSeed(seed int64) *Deck {
	d := &Deck{seed: seed}
	d.buildDeck()
	d.shuffle()

	return d
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, 52)
	for _, suit := range Suits {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

func (d *Deck) shuffle() {
	rng := rand.New(rand.NewSource(d.seed))
	for j := len(d.Cards) - 1; j > 0; j-- {
		i := rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Seed returns the seed used to shuffle the deck
func (d *Deck) Seed() int64 {
	return d.seed
}

// Deal returns count cards starting at the given offset
func (d *Deck) Deal(offset, count int) (Hand, error) {
	if offset < 0 || offset+count > len(d.Cards) {
		return nil, ErrEndOfDeck
	}

	cards := make(Hand, count)
	copy(cards, d.Cards[offset:offset+count])

	return cards, nil
}

// CanDeal returns true if there are {want} cards at or after the offset
func (d *Deck) CanDeal(offset, want int) bool {
	return offset >= 0 && offset+want <= len(d.Cards)
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}
