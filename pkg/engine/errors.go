package engine

import "errors"

// ErrStaleActor is an error when an action is submitted for a player who is
// not currently on turn. The caller should refresh its snapshot and only
// resubmit if the action is still warranted.
var ErrStaleActor = errors.New("player is not on turn")

// ErrIllegalAction is an error when a submitted action does not match any
// currently legal option. The hand state is left untouched.
var ErrIllegalAction = errors.New("action is not legal")

// ErrPotIntegrity is an error when payout resolution fails the zero-sum
// check. Settlement must halt rather than publish corrupt payouts.
var ErrPotIntegrity = errors.New("pot accounting is corrupt")

// ErrNoActiveHand is an error when an action is submitted and no hand is live
var ErrNoActiveHand = errors.New("no active hand")

// ErrHandInProgress is an error when a new hand is dealt before the active
// hand has settled
var ErrHandInProgress = errors.New("the active hand has not settled")

// ErrNotEnoughPlayers is an error when fewer than two eligible players remain
var ErrNotEnoughPlayers = errors.New("at least two eligible players are required")

// ErrPlayerNotFound is an error when a uid is not seated at the table
var ErrPlayerNotFound = errors.New("player not found")
