package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homegame-server/pkg/deck"
	"homegame-server/pkg/poker"
)

// potTestHand builds a settled-ready hand with explicit wagers and an
// explicit board. A royal-flush board makes every live player tie, which
// pins down split and side-pot arithmetic without caring what the seed
// dealt.
func potTestHand(playerIDs []string, board string, wagers map[string]int, folds ...string) *Hand {
	betting := &Round{
		Type:      RoundPreFlop,
		Actions:   make([]*Action, 0),
		Cards:     deck.Hand{},
		Timestamp: t0,
	}

	for _, uid := range playerIDs {
		betting.Actions = append(betting.Actions, &Action{
			UID:          uid,
			Type:         ActionBet,
			Contribution: wagers[uid],
			Total:        wagers[uid],
			Voluntary:    true,
			Timestamp:    t0,
		})
	}

	for _, uid := range folds {
		betting.Actions = append(betting.Actions, &Action{
			UID:       uid,
			Type:      ActionFold,
			Total:     wagers[uid],
			Voluntary: true,
			Timestamp: t0,
		})
	}

	return &Hand{
		ID:        1,
		DeckSeed:  7,
		DealerID:  playerIDs[0],
		PlayerIDs: playerIDs,
		Rounds: []*Round{
			betting,
			{
				Type:      RoundRiver,
				Actions:   make([]*Action, 0),
				Cards:     deck.Hand(deck.CardsFromString(board)),
				Timestamp: t0,
			},
		},
	}
}

func potTestGame(playerIDs []string) *Game {
	game := &Game{
		Players:   make(map[string]*Player),
		Increment: 25,
	}

	for i, uid := range playerIDs {
		game.Players[uid] = &Player{UID: uid, Position: i, Stack: 10000, Active: true}
	}

	return game
}

const royalBoard = "14h,13h,12h,11h,10h"

func payoutsByUID(t *testing.T, payouts []*Payout) map[string]*Payout {
	t.Helper()

	byUID := make(map[string]*Payout, len(payouts))
	for _, payout := range payouts {
		byUID[payout.UID] = payout
	}

	return byUID
}

func TestResolvePayouts_boardPlays(t *testing.T) {
	a := assert.New(t)

	players := []string{"dealer", "alice", "bob"}
	hand := potTestHand(players, royalBoard, map[string]int{
		"dealer": 100, "alice": 100, "bob": 100,
	})

	payouts, err := resolvePayouts(potTestGame(players), hand)
	require.NoError(t, err)
	require.Len(t, payouts, 3)

	for _, payout := range payouts {
		a.Equal(100, payout.Total, payout.UID)
		a.Zero(payout.Amount, payout.UID)
		a.False(payout.SoleWinner)
		a.Len(payout.Cards, 2)
		a.Len(payout.HandCards, 5)
		a.Equal("Ace-high straight flush", payout.HandDescription)
	}
}

func TestResolvePayouts_sidePots(t *testing.T) {
	a := assert.New(t)

	// the short stack is all in for 100; bob folds after 150
	players := []string{"dealer", "alice", "bob"}
	hand := potTestHand(players, royalBoard, map[string]int{
		"dealer": 100, "alice": 300, "bob": 150,
	}, "bob")

	payouts, err := resolvePayouts(potTestGame(players), hand)
	require.NoError(t, err)

	byUID := payoutsByUID(t, payouts)

	// main pot (3x100) splits between the tied live players; everything
	// above the short stack's level, including bob's folded chips, is
	// alice's alone
	a.Equal(150, byUID["dealer"].Total)
	a.Equal(50, byUID["dealer"].Amount)
	a.Equal(400, byUID["alice"].Total)
	a.Equal(100, byUID["alice"].Amount)
	a.Zero(byUID["bob"].Total)
	a.Equal(-150, byUID["bob"].Amount)

	// folded players never show a hand
	a.Empty(byUID["bob"].Cards)
	a.Empty(byUID["bob"].HandDescription)
}

func TestResolvePayouts_shortStackCappedAtMainPot(t *testing.T) {
	a := assert.New(t)

	// the dealer is all in for 100 against two full contributions: the
	// 300-wide main pot includes everyone, the 400-wide side pot only the
	// full stacks
	players := []string{"dealer", "alice", "bob"}
	hand := potTestHand(players, royalBoard, map[string]int{
		"dealer": 100, "alice": 300, "bob": 300,
	})

	payouts, err := resolvePayouts(potTestGame(players), hand)
	require.NoError(t, err)

	byUID := payoutsByUID(t, payouts)

	// everyone ties, so the dealer's winnings are exactly their main pot
	// share; the side pot splits between alice and bob
	a.Equal(100, byUID["dealer"].Total)
	a.Equal(300, byUID["alice"].Total)
	a.Equal(300, byUID["bob"].Total)

	for _, payout := range payouts {
		a.Zero(payout.Amount, payout.UID)
	}
}

func TestResolvePayouts_oddChipGoesLeftOfDealer(t *testing.T) {
	a := assert.New(t)

	// dealer folds 75 into the pot; alice and bob split 275 at a 25-chip
	// increment, so one 25 chip cannot divide
	players := []string{"dealer", "alice", "bob"}
	hand := potTestHand(players, royalBoard, map[string]int{
		"dealer": 75, "alice": 100, "bob": 100,
	}, "dealer")

	payouts, err := resolvePayouts(potTestGame(players), hand)
	require.NoError(t, err)

	byUID := payoutsByUID(t, payouts)

	// alice sits closest to the dealer's left and takes the odd chip
	a.Equal(150, byUID["alice"].Total)
	a.Equal(50, byUID["alice"].Amount)
	a.Equal(125, byUID["bob"].Total)
	a.Equal(25, byUID["bob"].Amount)
	a.Equal(-75, byUID["dealer"].Amount)
}

func TestResolvePayouts_dealerTakesOddChipLast(t *testing.T) {
	a := assert.New(t)

	// the dealer ties with alice; bob's folded 25 doesn't divide evenly
	players := []string{"dealer", "alice", "bob"}
	hand := potTestHand(players, royalBoard, map[string]int{
		"dealer": 100, "alice": 100, "bob": 25,
	}, "bob")

	payouts, err := resolvePayouts(potTestGame(players), hand)
	require.NoError(t, err)

	byUID := payoutsByUID(t, payouts)

	a.Equal(125, byUID["alice"].Total)
	a.Equal(100, byUID["dealer"].Total)
	a.Equal(-25, byUID["bob"].Amount)
}

func TestResolvePayouts_abandonedTierGoesToLivePlayers(t *testing.T) {
	a := assert.New(t)

	// the largest contributor folded, so nobody is eligible for the top
	// tier at full eligibility; the chips fall to the live players
	players := []string{"dealer", "alice", "bob"}
	hand := potTestHand(players, royalBoard, map[string]int{
		"dealer": 50, "alice": 50, "bob": 200,
	}, "bob")

	payouts, err := resolvePayouts(potTestGame(players), hand)
	require.NoError(t, err)

	byUID := payoutsByUID(t, payouts)

	a.Equal(150, byUID["dealer"].Total)
	a.Equal(150, byUID["alice"].Total)
	a.Equal(-200, byUID["bob"].Amount)

	sum := 0
	for _, payout := range payouts {
		sum += payout.Amount
	}
	a.Zero(sum)
}

func TestResolvePayouts_winnersHaveBestHands(t *testing.T) {
	a := assert.New(t)

	// a dry board: the winners are whoever the seed favors, but they must
	// agree with a direct evaluation of every live hand
	players := []string{"p1", "p2", "p3", "p4"}
	hand := potTestHand(players, "2c,7d,9h,11s,13d", map[string]int{
		"p1": 100, "p2": 100, "p3": 100, "p4": 100,
	})

	payouts, err := resolvePayouts(potTestGame(players), hand)
	require.NoError(t, err)

	best := 0
	for _, uid := range players {
		hole, err := hand.HoleCards(uid)
		require.NoError(t, err)

		result, err := poker.Evaluate(hole, hand.CommunityCards())
		require.NoError(t, err)

		if result.Strength > best {
			best = result.Strength
		}
	}

	sumTotal := 0
	for _, payout := range payouts {
		sumTotal += payout.Total

		hole, err := hand.HoleCards(payout.UID)
		require.NoError(t, err)

		result, err := poker.Evaluate(hole, hand.CommunityCards())
		require.NoError(t, err)

		if payout.Total > 0 {
			a.Equal(best, result.Strength, "winner %s must hold the best hand", payout.UID)
			a.Equal(result.Description, payout.HandDescription)
		} else {
			a.Less(result.Strength, best, "loser %s must not hold the best hand", payout.UID)
		}
	}

	a.Equal(400, sumTotal)
}

func TestSettle_opensRebuyWindow(t *testing.T) {
	a := assert.New(t)

	players := []string{"dealer", "alice", "bob"}
	hand := potTestHand(players, royalBoard, map[string]int{
		"dealer": 100, "alice": 300, "bob": 150,
	}, "bob")

	game := potTestGame(players)
	game.CurrentBigBlind = 100
	game.Players["bob"].Stack = 150
	game.Hands = []*Hand{hand}
	game.ActiveHandID = hand.ID

	require.NoError(t, settle(game, hand, t0))
	a.True(hand.Settled())
	a.Empty(hand.ActingPlayerID)

	// bob lost their last chips and may now rebuy
	a.Zero(game.Players["bob"].Stack)
	require.NotNil(t, game.Players["bob"].RebuyWindowOpenedAt)
	a.Equal(t0, *game.Players["bob"].RebuyWindowOpenedAt)
	a.Equal(1.0, RebuyPercentageRemaining(game, "bob", t0))

	a.Equal(10050, game.Players["dealer"].Stack)
	a.Nil(game.Players["dealer"].RebuyWindowOpenedAt)

	// settlement is idempotent
	require.NoError(t, settle(game, hand, t0))
	a.Equal(10050, game.Players["dealer"].Stack)
}
