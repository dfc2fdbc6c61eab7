package engine

import (
	"fmt"
	"sort"

	"homegame-server/pkg/currency"
	"homegame-server/pkg/poker"
)

// resolvePayouts partitions the hand's contributions into pot tiers and
// distributes them. Each distinct contribution level bounds a tier; a
// tier is won by the best hand among the non-folded players who
// contributed at least that level. Exact ties split the tier evenly,
// with any odd remainder awarded walking clockwise from the seat after
// the dealer.
func resolvePayouts(game *Game, h *Hand) ([]*Payout, error) {
	contributions := make(map[string]int, len(h.PlayerIDs))
	for _, uid := range h.PlayerIDs {
		contributions[uid] = h.Contribution(uid)
	}

	live := make([]string, 0, len(h.PlayerIDs))
	for _, uid := range h.PlayerIDs {
		if !h.Folded(uid) {
			live = append(live, uid)
		}
	}

	totals := make(map[string]int, len(h.PlayerIDs))
	descriptions := make(map[string]*poker.Result)
	soleWinner := ""

	if len(live) == 1 {
		// everyone else folded; no evaluation, no reveal
		soleWinner = live[0]
		totals[soleWinner] = h.TotalContributions()
	} else {
		if err := resolveTiers(game, h, contributions, live, totals, descriptions); err != nil {
			return nil, err
		}
	}

	payouts := make([]*Payout, len(h.PlayerIDs))
	for i, uid := range h.PlayerIDs {
		payout := &Payout{
			UID:    uid,
			Total:  totals[uid],
			Amount: totals[uid] - contributions[uid],
		}

		if uid == soleWinner {
			payout.SoleWinner = true
		}

		if result, ok := descriptions[uid]; ok && totals[uid] > 0 {
			hole, err := h.HoleCards(uid)
			if err != nil {
				return nil, err
			}

			payout.Cards = hole
			payout.HandCards = result.BestFive
			payout.HandDescription = result.Description
		}

		payouts[i] = payout
	}

	// the pot must be conserved exactly; a violation means the accounting
	// is corrupt and settlement must not publish
	sumAmount, sumTotal := 0, 0
	for _, payout := range payouts {
		sumAmount += payout.Amount
		sumTotal += payout.Total
	}

	if sumAmount != 0 || sumTotal != h.TotalContributions() {
		return nil, fmt.Errorf("%w: amounts sum to %d, totals %d of %d",
			ErrPotIntegrity, sumAmount, sumTotal, h.TotalContributions())
	}

	return payouts, nil
}

// resolveTiers evaluates every live player once and distributes each pot
// tier to its best eligible hand
func resolveTiers(game *Game, h *Hand, contributions map[string]int, live []string,
	totals map[string]int, results map[string]*poker.Result) error {
	community := h.CommunityCards()

	for _, uid := range live {
		hole, err := h.HoleCards(uid)
		if err != nil {
			return err
		}

		result, err := poker.Evaluate(hole, community)
		if err != nil {
			return err
		}

		results[uid] = result
	}

	// distinct contribution levels, ascending, bound the tiers
	seen := make(map[int]bool)
	levels := make([]int, 0, len(h.PlayerIDs))
	for _, uid := range h.PlayerIDs {
		if c := contributions[uid]; c > 0 && !seen[c] {
			seen[c] = true
			levels = append(levels, c)
		}
	}
	sort.Ints(levels)

	previous := 0
	for _, level := range levels {
		tierPot := 0
		for _, uid := range h.PlayerIDs {
			c := contributions[uid]
			if c > level {
				c = level
			}

			if c > previous {
				tierPot += c - previous
			}
		}

		eligible := make([]string, 0, len(live))
		for _, uid := range live {
			if contributions[uid] >= level {
				eligible = append(eligible, uid)
			}
		}

		if len(eligible) == 0 {
			// all contributors at this level folded; the chips go to the
			// last live player standing below it
			eligible = live
		}

		best := 0
		winners := make([]string, 0, len(eligible))
		for _, uid := range eligible {
			strength := results[uid].Strength
			if len(winners) == 0 || strength > best {
				best = strength
				winners = winners[:0]
				winners = append(winners, uid)
			} else if strength == best {
				winners = append(winners, uid)
			}
		}

		// odd chips go to the winner closest to the dealer's left
		sort.Slice(winners, func(i, j int) bool {
			n := len(h.PlayerIDs)
			return (h.seatIndex(winners[i])+n-1)%n < (h.seatIndex(winners[j])+n-1)%n
		})

		for i, share := range currency.SplitEvenly(tierPot, len(winners), game.Increment) {
			totals[winners[i]] += share
		}

		previous = level
	}

	return nil
}
