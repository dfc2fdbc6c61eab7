package poker

import (
	"fmt"
	"sort"
	"strings"

	"homegame-server/pkg/deck"
)

// Result is the best five-card hand a set of cards can make
type Result struct {
	Category    Category  `json:"category"`
	Strength    int       `json:"strength"`
	BestFive    deck.Hand `json:"bestFive"`
	Description string    `json:"description"`
}

// Evaluate returns the best five-card hand from the hole and community cards.
// Every five-card combination is considered; ties in strength are exact,
// so two results with equal Strength values split a pot.
func Evaluate(hole, community []*deck.Card) (*Result, error) {
	cards := make(deck.Hand, 0, len(hole)+len(community))
	cards = append(cards, hole...)
	cards = append(cards, community...)

	if len(cards) < 5 {
		return nil, ErrInsufficientCards
	}

	var best *Result
	forEachCombination(len(cards), 5, func(indexes []int) {
		five := make(deck.Hand, 5)
		for i, idx := range indexes {
			five[i] = cards[idx]
		}

		result := rateFive(five)
		if best == nil || result.Strength > best.Strength {
			best = result
		}
	})

	return best, nil
}

// Compare returns a positive number if a beats b, negative if b beats a,
// and zero on an exact tie
func Compare(a, b *Result) int {
	return a.Strength - b.Strength
}

// forEachCombination calls fn once per k-combination of n indexes
func forEachCombination(n, k int, fn func(indexes []int)) {
	indexes := make([]int, k)
	for i := range indexes {
		indexes[i] = i
	}

	for {
		fn(indexes)

		// advance the rightmost index that can still move
		i := k - 1
		for i >= 0 && indexes[i] == n-k+i {
			i--
		}

		if i < 0 {
			return
		}

		indexes[i]++
		for j := i + 1; j < k; j++ {
			indexes[j] = indexes[j-1] + 1
		}
	}
}

// rateFive scores exactly five cards
func rateFive(five deck.Hand) *Result {
	cards := five.Clone()
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Rank > cards[j].Rank
	})

	flush := true
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straightHigh := straightHighCard(cards)

	// group ranks: quads, trips, pairs, singles, strongest first
	var quads, trips, pairs, singles []int
	for i := 0; i < len(cards); {
		j := i
		for j < len(cards) && cards[j].Rank == cards[i].Rank {
			j++
		}

		switch j - i {
		case 4:
			quads = append(quads, cards[i].Rank)
		case 3:
			trips = append(trips, cards[i].Rank)
		case 2:
			pairs = append(pairs, cards[i].Rank)
		default:
			singles = append(singles, cards[i].Rank)
		}

		i = j
	}

	var category Category
	var tuple []int

	switch {
	case flush && straightHigh > 0:
		category = StraightFlush
		tuple = []int{straightHigh}
	case len(quads) == 1:
		category = FourOfAKind
		tuple = []int{quads[0], singles[0]}
	case len(trips) == 1 && len(pairs) == 1:
		category = FullHouse
		tuple = []int{trips[0], pairs[0]}
	case flush:
		category = Flush
		tuple = ranksOf(cards)
	case straightHigh > 0:
		category = Straight
		tuple = []int{straightHigh}
	case len(trips) == 1:
		category = ThreeOfAKind
		tuple = append([]int{trips[0]}, singles...)
	case len(pairs) == 2:
		category = TwoPair
		tuple = []int{pairs[0], pairs[1], singles[0]}
	case len(pairs) == 1:
		category = OnePair
		tuple = append([]int{pairs[0]}, singles...)
	default:
		category = HighCard
		tuple = ranksOf(cards)
	}

	return &Result{
		Category:    category,
		Strength:    encodeStrength(category, tuple),
		BestFive:    cards,
		Description: describe(category, tuple),
	}
}

// straightHighCard returns the high card of a straight, or 0.
// The wheel (A-2-3-4-5) is a five-high straight.
func straightHighCard(sorted deck.Hand) int {
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Rank != sorted[i].Rank+1 {
			// A-5-4-3-2 with the ace counted low
			if i == 1 && sorted[0].Rank == deck.Ace && sorted[1].Rank == 5 {
				continue
			}

			return 0
		}
	}

	if sorted[0].Rank == deck.Ace && sorted[1].Rank == 5 {
		return 5
	}

	return sorted[0].Rank
}

func ranksOf(cards deck.Hand) []int {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}

	return ranks
}

// encodeStrength packs the category and up to five tie-break ranks into
// a single comparable integer
func encodeStrength(category Category, tuple []int) int {
	strength := int(category)
	for i := 0; i < 5; i++ {
		strength <<= 4
		if i < len(tuple) {
			strength |= tuple[i]
		}
	}

	return strength
}

func describe(category Category, tuple []int) string {
	switch category {
	case StraightFlush:
		return fmt.Sprintf("%s-high straight flush", rankName(tuple[0]))
	case FourOfAKind:
		return fmt.Sprintf("Four of a kind, %s", strings.ToLower(rankPlural(tuple[0])))
	case FullHouse:
		return fmt.Sprintf("Full house, %s full of %s",
			strings.ToLower(rankPlural(tuple[0])), strings.ToLower(rankPlural(tuple[1])))
	case Flush:
		return fmt.Sprintf("%s-high flush", rankName(tuple[0]))
	case Straight:
		return fmt.Sprintf("%s-high straight", rankName(tuple[0]))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a kind, %s", strings.ToLower(rankPlural(tuple[0])))
	case TwoPair:
		return fmt.Sprintf("Two pair, %s and %s",
			strings.ToLower(rankPlural(tuple[0])), strings.ToLower(rankPlural(tuple[1])))
	case OnePair:
		return fmt.Sprintf("Pair of %s", strings.ToLower(rankPlural(tuple[0])))
	default:
		return fmt.Sprintf("%s high", rankName(tuple[0]))
	}
}
