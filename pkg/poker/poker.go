// Package poker ranks poker hands.
package poker

import (
	"errors"
	"fmt"
)

// ErrInsufficientCards is an error when fewer than five cards are available to evaluate
var ErrInsufficientCards = errors.New("at least five cards are required to evaluate a hand")

// Category is a class of poker hand, i.e., straight flush
type Category int

// Constants for Category, ordered weakest to strongest
const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the string representation of a category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	default:
		panic(fmt.Sprintf("unknown category: %d", c))
	}
}

var rankNames = map[int]string{
	2:  "Two",
	3:  "Three",
	4:  "Four",
	5:  "Five",
	6:  "Six",
	7:  "Seven",
	8:  "Eight",
	9:  "Nine",
	10: "Ten",
	11: "Jack",
	12: "Queen",
	13: "King",
	14: "Ace",
}

func rankName(rank int) string {
	name, ok := rankNames[rank]
	if !ok {
		panic(fmt.Sprintf("unknown rank: %d", rank))
	}

	return name
}

func rankPlural(rank int) string {
	if rank == 6 {
		return "Sixes"
	}

	return rankName(rank) + "s"
}
