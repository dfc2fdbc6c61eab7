package engine

import (
	"fmt"
	"time"

	"homegame-server/pkg/deck"
)

// Intent is a submitted player decision. Total is the desired round total
// and only applies to bets and raises.
type Intent struct {
	Type  ActionType `json:"action"`
	Total int        `json:"total,omitempty"`
}

// NewHand deals a new hand, rotating the dealer and blinds among the
// currently seated, non-away players. The seed is the server-committed
// deck reference; cards are a pure function of it. The input game is
// untouched; the returned snapshot has the new hand live.
func NewHand(game *Game, seed int64, now time.Time) (*Game, error) {
	if active := game.ActiveHand(); active != nil && !active.Settled() {
		return nil, ErrHandInProgress
	}

	game = game.Clone()

	eligible := game.eligibleForDeal()
	if len(eligible) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	// blinds double every BlindDoublingInterval hands
	bigBlind := game.StartingBigBlind
	if game.BlindDoublingInterval > 0 {
		for i := len(game.Hands) / game.BlindDoublingInterval; i > 0; i-- {
			bigBlind *= 2
		}
	}
	game.CurrentBigBlind = bigBlind

	smallBlind := (bigBlind / 2 / game.Increment) * game.Increment
	if smallBlind == 0 {
		smallBlind = game.Increment
	}

	// rotate the dealer to the next eligible seat
	dealerIndex := 0
	if prev := lastHand(game); prev != nil {
		if prevDealer, ok := game.Players[prev.DealerID]; ok {
			for i, p := range eligible {
				if p.Position > prevDealer.Position {
					dealerIndex = i
					break
				}
			}
		}
	}

	n := len(eligible)
	playerIDs := make([]string, n)
	for i := 0; i < n; i++ {
		playerIDs[i] = eligible[(dealerIndex+i)%n].UID
	}

	id := now.UnixMilli()
	if prev := lastHand(game); prev != nil && id <= prev.ID {
		id = prev.ID + 1
	}

	// heads-up: the dealer posts the small blind and acts first preflop
	smallBlindIndex, bigBlindIndex, firstToAct := 1, 2, 3%n
	if n == 2 {
		smallBlindIndex, bigBlindIndex, firstToAct = 0, 1, 0
	}

	hand := &Hand{
		ID:           id,
		DeckSeed:     seed,
		SmallBlind:   smallBlind,
		BigBlind:     bigBlind,
		DealerID:     playerIDs[0],
		SmallBlindID: playerIDs[smallBlindIndex],
		BigBlindID:   playerIDs[bigBlindIndex],
		PlayerIDs:    playerIDs,
		Rounds: []*Round{{
			Type:             RoundPreFlop,
			Actions:          make([]*Action, 0),
			Cards:            deck.Hand{},
			FirstToActOffset: firstToAct,
			Active:           true,
			Timestamp:        now,
		}},
		ActiveRound: RoundPreFlop,
	}

	game.Hands = append(game.Hands, hand)
	game.ActiveHandID = hand.ID

	postBlind(game, hand, hand.SmallBlindID, smallBlind, now)
	postBlind(game, hand, hand.BigBlindID, bigBlind, now)

	if err := advance(game, hand, now); err != nil {
		return nil, err
	}

	return game, nil
}

func lastHand(game *Game) *Hand {
	if len(game.Hands) == 0 {
		return nil
	}

	return game.Hands[len(game.Hands)-1]
}

// postBlind records a forced blind, capped at the player's stack
func postBlind(game *Game, h *Hand, uid string, amount int, now time.Time) {
	r := h.CurrentRound()
	prevMax := r.MaxTotal()

	remaining := h.remainingStack(game, uid)
	allIn := false
	if amount >= remaining {
		amount = remaining
		allIn = true
	}

	raise := 0
	if amount > prevMax {
		raise = amount - prevMax
	}

	r.Actions = append(r.Actions, &Action{
		UID:          uid,
		Type:         ActionBet,
		Contribution: amount,
		Total:        amount,
		Voluntary:    false,
		AllIn:        allIn,
		Conforming:   amount >= prevMax,
		Raise:        raise,
		Timestamp:    now,
	})
}

// ApplyAction validates and applies a player's decision, returning the
// next snapshot. The input game is never mutated: on error the caller's
// state is exactly as it was.
func ApplyAction(game *Game, uid string, intent Intent, now time.Time) (*Game, error) {
	hand := game.ActiveHand()
	if hand == nil || hand.Settled() {
		return nil, ErrNoActiveHand
	}

	acting, ok := ActingPlayer(game, hand)
	if !ok || acting != uid {
		return nil, ErrStaleActor
	}

	action, err := buildAction(game, hand, uid, intent, now)
	if err != nil {
		return nil, err
	}

	game = game.Clone()
	hand = game.ActiveHand()

	r := hand.CurrentRound()
	r.Actions = append(r.Actions, action)

	if err := advance(game, hand, now); err != nil {
		return nil, err
	}

	return game, nil
}

// buildAction matches the intent against the legal options and produces
// the action record to append
func buildAction(game *Game, h *Hand, uid string, intent Intent, now time.Time) (*Action, error) {
	r := h.CurrentRound()
	max := r.MaxTotal()
	total := r.PlayerTotal(uid)

	var match *Option
	for _, option := range LegalActions(game, h, uid) {
		if option.Type == intent.Type {
			o := option
			match = &o
			break
		}
	}

	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrIllegalAction, intent.Type)
	}

	switch match.Type {
	case ActionCheck, ActionCall, ActionFold, ActionAllIn:
		contribution := match.Contribution
		newTotal := match.Total

		raise := 0
		if newTotal > max {
			raise = newTotal - max
		}

		return &Action{
			UID:          uid,
			Type:         match.Type,
			Contribution: contribution,
			Total:        newTotal,
			Voluntary:    true,
			AllIn:        match.AllIn,
			Conforming:   newTotal >= max && match.Type != ActionFold,
			Raise:        raise,
			Timestamp:    now,
		}, nil

	case ActionBet, ActionRaise:
		if intent.Total < match.Min || intent.Total > match.Max {
			return nil, fmt.Errorf("%w: %s total must be between %d and %d",
				ErrIllegalAction, match.Type, match.Min, match.Max)
		}

		if intent.Total%game.Increment > 0 {
			return nil, fmt.Errorf("%w: amount must be in increments of %d",
				ErrIllegalAction, game.Increment)
		}

		return &Action{
			UID:          uid,
			Type:         match.Type,
			Contribution: intent.Total - total,
			Total:        intent.Total,
			Voluntary:    true,
			AllIn:        intent.Total == match.Max,
			Conforming:   true,
			Raise:        intent.Total - max,
			Timestamp:    now,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrIllegalAction, intent.Type)
}

// advance moves the hand forward after an appended action: away players
// are auto-acted, completed rounds transition to the next street, and the
// hand settles the moment it is decided
func advance(game *Game, h *Hand, now time.Time) error {
	for {
		if h.liveCount() <= 1 {
			return settle(game, h, now)
		}

		// an away player on turn never waits for a timeout
		if uid, ok := h.nextToAct(game, false); ok {
			if p := game.Players[uid]; p != nil && p.Away {
				autoAct(game, h, uid, now)
				continue
			}

			h.ActingPlayerID = uid
			return nil
		}

		// round complete
		r := h.CurrentRound()
		r.Active = false

		next, ok := r.Type.next()
		if !ok {
			return settle(game, h, now)
		}

		d := deck.FromSeed(h.DeckSeed)
		cards, err := d.Deal(h.communityOffset(), communityCardCount[next])
		if err != nil {
			return err
		}

		h.Rounds = append(h.Rounds, &Round{
			Type:             next,
			Actions:          make([]*Action, 0),
			Cards:            cards,
			FirstToActOffset: 1,
			Active:           true,
			Timestamp:        now,
		})
		h.ActiveRound = next
	}
}

// autoAct applies the forced fallback on a player's behalf
func autoAct(game *Game, h *Hand, uid string, now time.Time) {
	option := BestAction(game, h, uid)
	r := h.CurrentRound()

	r.Actions = append(r.Actions, &Action{
		UID:          uid,
		Type:         option.Type,
		Contribution: option.Contribution,
		Total:        option.Total,
		Voluntary:    true,
		Conforming:   option.Type == ActionCheck,
		Timestamp:    now,
	})
}

// ForceAction applies the timeout fallback for the acting player
func ForceAction(game *Game, now time.Time) (*Game, error) {
	hand := game.ActiveHand()
	if hand == nil || hand.Settled() {
		return nil, ErrNoActiveHand
	}

	uid, ok := ActingPlayer(game, hand)
	if !ok {
		return nil, ErrStaleActor
	}

	option := BestAction(game, hand, uid)
	return ApplyAction(game, uid, Intent{Type: option.Type}, now)
}

// settle resolves payouts exactly once and applies them to the stacks.
// If the zero-sum check fails, the hand is left unsettled and the error
// surfaces: payouts must never be published corrupt.
func settle(game *Game, h *Hand, now time.Time) error {
	if h.Settled() {
		return nil
	}

	payouts, err := resolvePayouts(game, h)
	if err != nil {
		return err
	}

	h.Payouts = payouts
	h.PayoutsApplied = true
	h.ActingPlayerID = ""
	h.ActiveRound = ""
	for _, r := range h.Rounds {
		r.Active = false
	}

	for _, payout := range payouts {
		p, ok := game.Players[payout.UID]
		if !ok {
			continue
		}

		p.Stack += payout.Amount

		// a busted (or nearly busted) stack opens a rebuy window
		if p.Stack < game.CurrentBigBlind && p.RebuyWindowOpenedAt == nil {
			at := now
			p.RebuyWindowOpenedAt = &at
		}
	}

	return nil
}

// SetAway toggles a player's away flag, returning the next snapshot
func SetAway(game *Game, uid string, away bool) (*Game, error) {
	if _, ok := game.Players[uid]; !ok {
		return nil, ErrPlayerNotFound
	}

	game = game.Clone()
	game.Players[uid].Away = away

	return game, nil
}

// card reveal selectors
const (
	ShowFirst  = "first"
	ShowSecond = "second"
	ShowBoth   = "both"
)

// ShowCards voluntarily reveals hole cards after the hand is decided
func ShowCards(game *Game, uid, which string) (*Game, error) {
	hand := lastHand(game)
	if hand == nil || !hand.Settled() {
		return nil, ErrNoActiveHand
	}

	if hand.seatIndex(uid) < 0 {
		return nil, ErrPlayerNotFound
	}

	hole, err := hand.HoleCards(uid)
	if err != nil {
		return nil, err
	}

	var cards deck.Hand
	switch which {
	case ShowFirst:
		cards = deck.Hand{hole[0]}
	case ShowSecond:
		cards = deck.Hand{hole[1]}
	case ShowBoth:
		cards = hole
	default:
		return nil, fmt.Errorf("%w: cannot show %q", ErrIllegalAction, which)
	}

	game = game.Clone()
	hand = lastHand(game)

	// replace any prior reveal by the same player
	shown := make([]*ShownCards, 0, len(hand.ShownCards)+1)
	for _, s := range hand.ShownCards {
		if s.UID != uid {
			shown = append(shown, s)
		}
	}
	hand.ShownCards = append(shown, &ShownCards{UID: uid, Cards: cards})

	return game, nil
}

// RebuyPercentageRemaining reports how much of the player's rebuy window
// is left, decaying linearly from 1 to 0
func RebuyPercentageRemaining(game *Game, uid string, now time.Time) float64 {
	p, ok := game.Players[uid]
	if !ok || p.RebuyWindowOpenedAt == nil {
		return 0
	}

	window := game.RebuyWindowDuration()
	elapsed := now.Sub(*p.RebuyWindowOpenedAt)
	if elapsed >= window {
		return 0
	}

	if elapsed <= 0 {
		return 1
	}

	return 1 - float64(elapsed)/float64(window)
}

// ApplyRebuy replenishes a player's stack while their window is open
func ApplyRebuy(game *Game, uid string, now time.Time) (*Game, error) {
	if _, ok := game.Players[uid]; !ok {
		return nil, ErrPlayerNotFound
	}

	if RebuyPercentageRemaining(game, uid, now) <= 0 {
		return nil, fmt.Errorf("%w: rebuy window is closed", ErrIllegalAction)
	}

	game = game.Clone()
	p := game.Players[uid]
	p.Stack += game.BuyIn
	p.Contributed += game.BuyIn
	p.Rebuys = append(p.Rebuys, Rebuy{Amount: game.BuyIn, Timestamp: now})
	p.RebuyWindowOpenedAt = nil

	return game, nil
}

// PlayerStateFor builds the player's private view of the current snapshot
func PlayerStateFor(game *Game, uid string) *PlayerState {
	p, ok := game.Players[uid]
	if !ok {
		return nil
	}

	state := &PlayerState{
		UID:   uid,
		Stack: p.Stack,
	}

	hand := game.ActiveHand()
	if hand == nil {
		return state
	}

	if cards, err := hand.HoleCards(uid); err == nil {
		state.Cards = cards
	}

	if acting, ok := ActingPlayer(game, hand); ok && acting == uid {
		state.Actions = LegalActions(game, hand, uid)
	}

	return state
}
