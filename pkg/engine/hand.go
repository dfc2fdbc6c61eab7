package engine

import (
	"time"

	"homegame-server/pkg/deck"
)

// RoundType identifies a betting street
type RoundType string

// RoundType constants
const (
	RoundPreFlop RoundType = "preFlop"
	RoundFlop    RoundType = "flop"
	RoundTurn    RoundType = "turn"
	RoundRiver   RoundType = "river"
)

// communityCardCount is how many community cards each street reveals
var communityCardCount = map[RoundType]int{
	RoundPreFlop: 0,
	RoundFlop:    3,
	RoundTurn:    1,
	RoundRiver:   1,
}

func (t RoundType) next() (RoundType, bool) {
	switch t {
	case RoundPreFlop:
		return RoundFlop, true
	case RoundFlop:
		return RoundTurn, true
	case RoundTurn:
		return RoundRiver, true
	}

	return "", false
}

// ActionType identifies a player decision
type ActionType string

// ActionType constants
const (
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "allIn"
	ActionFold  ActionType = "fold"
)

// Action is one recorded player decision within a round
type Action struct {
	UID          string     `json:"uid"`
	Type         ActionType `json:"action"`
	Contribution int        `json:"contribution"`
	Total        int        `json:"total"`
	Voluntary    bool       `json:"voluntary"`
	AllIn        bool       `json:"allIn,omitempty"`
	Conforming   bool       `json:"conforming"`
	Raise        int        `json:"raise,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// Round is one betting street
type Round struct {
	Type             RoundType `json:"type"`
	Actions          []*Action `json:"actions"`
	Cards            deck.Hand `json:"cards"`
	FirstToActOffset int       `json:"firstToActOffset"`
	Active           bool      `json:"active"`
	Timestamp        time.Time `json:"timestamp"`
}

// Payout is one player's settlement for a finished hand
type Payout struct {
	UID             string    `json:"uid"`
	Amount          int       `json:"amount"`
	Total           int       `json:"total"`
	Cards           deck.Hand `json:"cards,omitempty"`
	HandCards       deck.Hand `json:"handCards,omitempty"`
	HandDescription string    `json:"handDescription,omitempty"`
	SoleWinner      bool      `json:"soleWinner,omitempty"`
}

// ShownCards is a voluntary reveal after the hand is decided
type ShownCards struct {
	UID   string    `json:"uid"`
	Cards deck.Hand `json:"cards"`
}

// Hand is one dealt hand. Once PayoutsApplied is true the hand is
// immutable history, except for late ShownCards appends.
type Hand struct {
	ID int64 `json:"id"`

	// DeckSeed determines every card in the hand and must never reach a
	// client while the hand is live
	DeckSeed       int64         `json:"-"`
	SmallBlind     int           `json:"smallBlind"`
	BigBlind       int           `json:"bigBlind"`
	DealerID       string        `json:"dealerId"`
	SmallBlindID   string        `json:"smallBlindId"`
	BigBlindID     string        `json:"bigBlindId"`
	PlayerIDs      []string      `json:"playerIds"`
	Rounds         []*Round      `json:"rounds"`
	ActiveRound    RoundType     `json:"activeRound,omitempty"`
	ActingPlayerID string        `json:"actingPlayerId,omitempty"`
	Payouts        []*Payout     `json:"payouts,omitempty"`
	PayoutsApplied bool          `json:"payoutsApplied"`
	ShownCards     []*ShownCards `json:"shownCards,omitempty"`
}

// CurrentRound returns the active round, or nil if none is live
func (h *Hand) CurrentRound() *Round {
	for _, r := range h.Rounds {
		if r.Active {
			return r
		}
	}

	return nil
}

// seatIndex returns the player's index in the deal order, or -1
func (h *Hand) seatIndex(uid string) int {
	for i, id := range h.PlayerIDs {
		if id == uid {
			return i
		}
	}

	return -1
}

// PlayerTotal returns the player's cumulative contribution in the round
func (r *Round) PlayerTotal(uid string) int {
	total := 0
	for _, a := range r.Actions {
		if a.UID == uid {
			total = a.Total
		}
	}

	return total
}

// MaxTotal returns the round's current call requirement
func (r *Round) MaxTotal() int {
	max := 0
	for _, a := range r.Actions {
		if a.Total > max {
			max = a.Total
		}
	}

	return max
}

// LastRaise returns the size of the most recent raise increment this round
func (r *Round) LastRaise() int {
	raise := 0
	for _, a := range r.Actions {
		if a.Raise > 0 {
			raise = a.Raise
		}
	}

	return raise
}

// hasVoluntaryAction returns true if the player has acted this round.
// Posted blinds do not count; the big blind keeps their option.
func (r *Round) hasVoluntaryAction(uid string) bool {
	for _, a := range r.Actions {
		if a.UID == uid && a.Voluntary {
			return true
		}
	}

	return false
}

// Folded returns true if the player has folded this hand
func (h *Hand) Folded(uid string) bool {
	for _, r := range h.Rounds {
		for _, a := range r.Actions {
			if a.UID == uid && a.Type == ActionFold {
				return true
			}
		}
	}

	return false
}

// IsAllIn returns true if the player has committed their whole stack
func (h *Hand) IsAllIn(uid string) bool {
	for _, r := range h.Rounds {
		for _, a := range r.Actions {
			if a.UID == uid && a.AllIn {
				return true
			}
		}
	}

	return false
}

// Contribution returns the player's total contribution across all rounds
func (h *Hand) Contribution(uid string) int {
	total := 0
	for _, r := range h.Rounds {
		total += r.PlayerTotal(uid)
	}

	return total
}

// TotalContributions returns the sum of every player's hand contribution
func (h *Hand) TotalContributions() int {
	total := 0
	for _, uid := range h.PlayerIDs {
		total += h.Contribution(uid)
	}

	return total
}

// liveCount returns the number of players who have not folded
func (h *Hand) liveCount() int {
	count := 0
	for _, uid := range h.PlayerIDs {
		if !h.Folded(uid) {
			count++
		}
	}

	return count
}

// remainingStack returns the chips the player can still commit this hand.
// Player.Stack is only adjusted at settlement, so the in-flight remainder
// is the stack minus what the hand has already collected.
func (h *Hand) remainingStack(game *Game, uid string) int {
	p, ok := game.Players[uid]
	if !ok {
		return 0
	}

	return p.Stack - h.Contribution(uid)
}

// CommunityCards returns all community cards revealed so far
func (h *Hand) CommunityCards() deck.Hand {
	cards := make(deck.Hand, 0, 5)
	for _, r := range h.Rounds {
		cards = append(cards, r.Cards...)
	}

	return cards
}

// HoleCards returns the player's two hole cards, dealt pass-wise from the
// committed deck seed
func (h *Hand) HoleCards(uid string) (deck.Hand, error) {
	seat := h.seatIndex(uid)
	if seat < 0 {
		return nil, ErrPlayerNotFound
	}

	d := deck.FromSeed(h.DeckSeed)
	n := len(h.PlayerIDs)

	first, err := d.Deal(seat, 1)
	if err != nil {
		return nil, err
	}

	second, err := d.Deal(n+seat, 1)
	if err != nil {
		return nil, err
	}

	return deck.Hand{first[0], second[0]}, nil
}

// communityOffset is where the next community card lives in the deck:
// after both hole-card passes and any already-revealed streets
func (h *Hand) communityOffset() int {
	return 2*len(h.PlayerIDs) + len(h.CommunityCards())
}

// Settled returns true once payouts have been applied
func (h *Hand) Settled() bool {
	return h.PayoutsApplied
}

func (h *Hand) clone() *Hand {
	clone := *h
	clone.PlayerIDs = append([]string(nil), h.PlayerIDs...)

	clone.Rounds = make([]*Round, len(h.Rounds))
	for i, r := range h.Rounds {
		clone.Rounds[i] = r.clone()
	}

	clone.Payouts = make([]*Payout, len(h.Payouts))
	for i, p := range h.Payouts {
		cp := *p
		cp.Cards = p.Cards.Clone()
		cp.HandCards = p.HandCards.Clone()
		clone.Payouts[i] = &cp
	}

	clone.ShownCards = make([]*ShownCards, len(h.ShownCards))
	for i, s := range h.ShownCards {
		cs := *s
		cs.Cards = s.Cards.Clone()
		clone.ShownCards[i] = &cs
	}

	return &clone
}

func (r *Round) clone() *Round {
	clone := *r
	clone.Cards = r.Cards.Clone()

	clone.Actions = make([]*Action, len(r.Actions))
	for i, a := range r.Actions {
		ca := *a
		clone.Actions[i] = &ca
	}

	return &clone
}
