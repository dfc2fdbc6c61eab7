// Package engine is the deterministic Texas Hold'em rules machine. It
// tracks a hand's lifecycle from blinds through showdown, validates
// player actions, and computes final payouts.
//
// The engine is a pure state transformer: every mutating operation takes
// a *Game snapshot and returns a new one, leaving the input untouched.
// Concurrency control (the single-writer-per-hand discipline) belongs to
// the caller; the engine's job is to reject stale or illegal submissions.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// GameType determines how a table is run
type GameType string

// GameType constants
const (
	GameTypeCash       GameType = "cash"
	GameTypeTournament GameType = "tournament"
)

// GameStage is the lifecycle stage of a table
type GameStage string

// GameStage constants
const (
	GameStageActive   GameStage = "active"
	GameStageFinished GameStage = "finished"
)

// fallbacks when the table supplies no tournament details
const (
	DefaultTimeoutSeconds     = 45
	DefaultRebuyWindowSeconds = 120
)

// TournamentDetails carries tournament-scoped configuration
type TournamentDetails struct {
	TimeoutInSeconds   int      `json:"timeoutInSeconds"`
	RebuyWindowSeconds int      `json:"rebuyWindowSeconds"`
	Branding           string   `json:"branding,omitempty"`
	PlayerIDs          []string `json:"playerIds,omitempty"`
}

// Game is a single table: its roster, configuration, and hand history
type Game struct {
	ID                    string             `json:"id"`
	Players               map[string]*Player `json:"players"`
	Hands                 []*Hand            `json:"hands"`
	ActiveHandID          int64              `json:"activeHandId,omitempty"`
	BuyIn                 int                `json:"buyIn"`
	StartingBigBlind      int                `json:"startingBigBlind"`
	CurrentBigBlind       int                `json:"currentBigBlind"`
	BlindDoublingInterval int                `json:"blindDoublingInterval,omitempty"`
	Increment             int                `json:"increment"`
	Type                  GameType           `json:"type"`
	Stage                 GameStage          `json:"stage"`
	TournamentDetails     *TournamentDetails `json:"tournamentDetails,omitempty"`
}

// Player is a seat occupant at the table
type Player struct {
	UID         string  `json:"uid"`
	Position    int     `json:"position"`
	DisplayName string  `json:"displayName"`
	Stack       int     `json:"stack"`
	Contributed int     `json:"contributed"`
	Active      bool    `json:"active"`
	Away        bool    `json:"away"`
	Rebuys      []Rebuy `json:"rebuys,omitempty"`

	// RebuyWindowOpenedAt is set when the player's stack drops low enough
	// to qualify for a rebuy; nil when no window is open
	RebuyWindowOpenedAt *time.Time `json:"rebuyWindowOpenedAt,omitempty"`
}

// Rebuy is one completed rebuy event
type Rebuy struct {
	Amount    int       `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Options configures a new table
type Options struct {
	BuyIn                 int
	StartingBigBlind      int
	BlindDoublingInterval int
	Increment             int
	Type                  GameType
	TournamentDetails     *TournamentDetails
}

// NewGame creates a new table with no players seated
func NewGame(opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	gameType := opts.Type
	if gameType == "" {
		gameType = GameTypeCash
	}

	return &Game{
		ID:                    uuid.New().String(),
		Players:               make(map[string]*Player),
		Hands:                 make([]*Hand, 0),
		BuyIn:                 opts.BuyIn,
		StartingBigBlind:      opts.StartingBigBlind,
		CurrentBigBlind:       opts.StartingBigBlind,
		BlindDoublingInterval: opts.BlindDoublingInterval,
		Increment:             opts.Increment,
		Type:                  gameType,
		Stage:                 GameStageActive,
		TournamentDetails:     opts.TournamentDetails,
	}, nil
}

func validateOptions(opts Options) error {
	if opts.Increment <= 0 {
		return errors.New("increment must be > 0")
	}

	if opts.StartingBigBlind <= 0 || opts.StartingBigBlind%opts.Increment > 0 {
		return fmt.Errorf("starting big blind must be a positive multiple of %d", opts.Increment)
	}

	if opts.BuyIn < opts.StartingBigBlind {
		return errors.New("buy-in must cover the big blind")
	}

	if opts.BuyIn%opts.Increment > 0 {
		return fmt.Errorf("buy-in must be a multiple of %d", opts.Increment)
	}

	return nil
}

// AddPlayer seats a player at the next open position
func (g *Game) AddPlayer(uid, displayName string) (*Player, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}

	if _, ok := g.Players[uid]; ok {
		return nil, fmt.Errorf("player %s is already seated", uid)
	}

	position := 0
	for _, p := range g.Players {
		if p.Position >= position {
			position = p.Position + 1
		}
	}

	player := &Player{
		UID:         uid,
		Position:    position,
		DisplayName: displayName,
		Stack:       g.BuyIn,
		Contributed: g.BuyIn,
		Active:      true,
	}
	g.Players[uid] = player

	return player, nil
}

// ActiveHand returns the hand referenced by ActiveHandID, or nil
func (g *Game) ActiveHand() *Hand {
	if g.ActiveHandID == 0 {
		return nil
	}

	for _, h := range g.Hands {
		if h.ID == g.ActiveHandID {
			return h
		}
	}

	return nil
}

// TimeoutDuration returns how long the acting player has before the caller
// is expected to force an action on their behalf
func (g *Game) TimeoutDuration() time.Duration {
	seconds := DefaultTimeoutSeconds
	if g.TournamentDetails != nil && g.TournamentDetails.TimeoutInSeconds > 0 {
		seconds = g.TournamentDetails.TimeoutInSeconds
	}

	return time.Duration(seconds) * time.Second
}

// RebuyWindowDuration returns how long a rebuy window stays open
func (g *Game) RebuyWindowDuration() time.Duration {
	seconds := DefaultRebuyWindowSeconds
	if g.TournamentDetails != nil && g.TournamentDetails.RebuyWindowSeconds > 0 {
		seconds = g.TournamentDetails.RebuyWindowSeconds
	}

	return time.Duration(seconds) * time.Second
}

// seatedInOrder returns the players sorted by table position
func (g *Game) seatedInOrder() []*Player {
	players := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, p)
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].Position < players[j].Position
	})

	return players
}

// eligibleForDeal returns players who can be dealt into a new hand,
// sorted by position
func (g *Game) eligibleForDeal() []*Player {
	eligible := make([]*Player, 0, len(g.Players))
	for _, p := range g.seatedInOrder() {
		if p.Active && !p.Away && p.Stack > 0 {
			eligible = append(eligible, p)
		}
	}

	return eligible
}

// Clone returns a deep copy of the game document
func (g *Game) Clone() *Game {
	clone := *g

	clone.Players = make(map[string]*Player, len(g.Players))
	for uid, p := range g.Players {
		clone.Players[uid] = p.clone()
	}

	clone.Hands = make([]*Hand, len(g.Hands))
	for i, h := range g.Hands {
		clone.Hands[i] = h.clone()
	}

	if g.TournamentDetails != nil {
		td := *g.TournamentDetails
		td.PlayerIDs = append([]string(nil), g.TournamentDetails.PlayerIDs...)
		clone.TournamentDetails = &td
	}

	return &clone
}

func (p *Player) clone() *Player {
	clone := *p
	clone.Rebuys = append([]Rebuy(nil), p.Rebuys...)

	if p.RebuyWindowOpenedAt != nil {
		at := *p.RebuyWindowOpenedAt
		clone.RebuyWindowOpenedAt = &at
	}

	return &clone
}
