package engine

import (
	"time"

	"homegame-server/pkg/deck"
)

// Option is one legal action offered to a player. Check, call, fold, and
// all-in carry exact amounts; bet and raise carry a [Min, Max] range of
// allowed round totals.
type Option struct {
	Type         ActionType `json:"action"`
	Contribution int        `json:"contribution,omitempty"`
	Total        int        `json:"total,omitempty"`
	Min          int        `json:"min,omitempty"`
	Max          int        `json:"max,omitempty"`
	AllIn        bool       `json:"allIn,omitempty"`
}

// PlayerState is a single player's private, per-snapshot view
type PlayerState struct {
	UID     string    `json:"uid"`
	Cards   deck.Hand `json:"cards,omitempty"`
	Actions []Option  `json:"actions,omitempty"`
	Stack   int       `json:"stack"`
}

// startingMax is the round's call requirement before any aggression: the
// big blind preflop, zero after
func (h *Hand) startingMax(r *Round) int {
	if r.Type == RoundPreFlop {
		return h.BigBlind
	}

	return 0
}

// canAct returns true if the player is still able to make decisions in
// this hand
func (h *Hand) canAct(uid string) bool {
	return h.seatIndex(uid) >= 0 && !h.Folded(uid) && !h.IsAllIn(uid)
}

// nextToAct walks the seats and returns the first player still owed a
// turn, wrapping once. The walk resumes one seat past the most recent
// voluntary actor so a raise passes the turn leftward rather than back
// to the street's first seat; before anyone has acted it starts at
// firstToActOffset. Players who folded or are all-in are skipped; away
// players are skipped when skipAway is set.
func (h *Hand) nextToAct(game *Game, skipAway bool) (string, bool) {
	r := h.CurrentRound()
	if r == nil || h.liveCount() <= 1 {
		return "", false
	}

	max := r.MaxTotal()
	n := len(h.PlayerIDs)

	start := r.FirstToActOffset
	for _, a := range r.Actions {
		if a.Voluntary {
			start = h.seatIndex(a.UID) + 1
		}
	}

	for i := 0; i < n; i++ {
		uid := h.PlayerIDs[(start+i)%n]
		if !h.canAct(uid) {
			continue
		}

		if skipAway {
			if p, ok := game.Players[uid]; ok && p.Away {
				continue
			}
		}

		if r.PlayerTotal(uid) < max || !r.hasVoluntaryAction(uid) {
			return uid, true
		}
	}

	return "", false
}

// ActingPlayer returns the player currently on turn, if any
func ActingPlayer(game *Game, h *Hand) (string, bool) {
	return h.nextToAct(game, true)
}

// LegalActions returns the actions currently legal for the player. The
// same computation serves the authoritative writer and speculative
// clients; it depends only on the snapshot.
func LegalActions(game *Game, h *Hand, uid string) []Option {
	r := h.CurrentRound()
	if r == nil || h.Settled() || !h.canAct(uid) {
		return nil
	}

	if _, ok := game.Players[uid]; !ok {
		return nil
	}

	max := r.MaxTotal()
	total := r.PlayerTotal(uid)
	owed := max - total
	remaining := h.remainingStack(game, uid)
	if remaining <= 0 {
		return nil
	}

	options := make([]Option, 0, 4)

	if owed == 0 {
		options = append(options, Option{Type: ActionCheck, Total: total})
	} else {
		contribution := owed
		allIn := false
		if remaining <= owed {
			contribution = remaining
			allIn = true
		}

		options = append(options, Option{
			Type:         ActionCall,
			Contribution: contribution,
			Total:        total + contribution,
			AllIn:        allIn,
		})
	}

	// aggression: min raise increment is the bigger of the big blind and
	// the last raise this round; max is the player's whole stack
	allInTotal := total + remaining
	if allInTotal > max {
		minRaise := h.BigBlind
		if lastRaise := r.LastRaise(); lastRaise > minRaise {
			minRaise = lastRaise
		}

		minTotal := max + minRaise
		if minTotal < allInTotal {
			aggression := ActionRaise
			if max <= h.startingMax(r) {
				aggression = ActionBet
			}

			options = append(options, Option{
				Type: aggression,
				Min:  minTotal,
				Max:  allInTotal,
			})
		}

		options = append(options, Option{
			Type:         ActionAllIn,
			Contribution: remaining,
			Total:        allInTotal,
			AllIn:        true,
		})
	}

	// fold is always offered, even when checking is free
	return append(options, Option{Type: ActionFold, Total: total})
}

// FutureOptions speculatively computes the legal actions for a player not
// yet on turn, assuming every intervening player checks or calls. The
// result is stale the moment any intervening player deviates; callers
// must recompute from the latest snapshot rather than patch.
func FutureOptions(game *Game, h *Hand, uid string) []Option {
	acting, ok := ActingPlayer(game, h)
	if !ok {
		return nil
	}

	if acting == uid {
		return LegalActions(game, h, uid)
	}

	r := h.CurrentRound()
	if r == nil || !h.canAct(uid) {
		return nil
	}

	// yet to act this round?
	if r.PlayerTotal(uid) >= r.MaxTotal() && r.hasVoluntaryAction(uid) {
		return nil
	}

	return LegalActions(game, h, uid)
}

// BestAction is the forced fallback applied on timeout: check when the
// player owes nothing, fold otherwise. Never a costed call or a raise.
func BestAction(game *Game, h *Hand, uid string) Option {
	r := h.CurrentRound()
	if r == nil {
		return Option{Type: ActionFold}
	}

	total := r.PlayerTotal(uid)
	if total >= r.MaxTotal() {
		return Option{Type: ActionCheck, Total: total}
	}

	return Option{Type: ActionFold, Total: total}
}

// TimeOfLastAction returns the rolling action clock's start: the most
// recent action in the active round, or the street start
func TimeOfLastAction(h *Hand) time.Time {
	r := h.CurrentRound()
	if r == nil {
		return time.Time{}
	}

	if n := len(r.Actions); n > 0 {
		return r.Actions[n-1].Timestamp
	}

	return r.Timestamp
}

// TimedOut returns true if the acting player's clock has expired. The
// engine never schedules timers; the caller polls and forces the action.
func TimedOut(game *Game, h *Hand, now time.Time) bool {
	if _, ok := ActingPlayer(game, h); !ok {
		return false
	}

	return now.Sub(TimeOfLastAction(h)) >= game.TimeoutDuration()
}
