package room

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"homegame-server/internal/rng"
	"homegame-server/pkg/engine"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
	stateHandEnded
)

// tickInterval is how often the table checks the acting player's clock
const tickInterval = time.Second

// Table owns a single game. All game mutations happen on the table's run
// loop, which makes it the sole authoritative writer: stale or concurrent
// submissions are rejected by the engine, never interleaved.
type Table struct {
	// ID is the game's public identifier
	ID string

	game    *engine.Game
	clients map[*Client]bool
	lock    sync.RWMutex

	seeder rng.Generator
	now    func() time.Time

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
}

// NewTable creates a table around a freshly created game
// This is called from a blocking state, so it needs to return quickly
func NewTable(game *engine.Game) *Table {
	return &Table{
		ID:            game.ID,
		game:          game,
		clients:       make(map[*Client]bool),
		seeder:        rng.Crypto{},
		now:           time.Now,
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}
}

// StartShift starts the run loop
func (t *Table) StartShift() {
	go t.runLoop()
}

// EndShift is called when the table is no longer needed
func (t *Table) EndShift() {
	close(t.close)
}

func (t *Table) runLoop() {
	log := logrus.WithField("table", t.ID)
	log.Debug("creating table run loop")

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case s := <-t.stateChanged:
			switch s {
			case stateClientEvent:
				t.sendClientState()
			case stateGameEvent:
				t.sendGameData()
			case stateHandEnded:
				t.sendHandEnded()
				t.sendGameData()
			}
		case fn := <-t.execInRunLoop:
			fn()
		case <-ticker.C:
			t.tick()
		case <-t.close:
			log.Debug("terminating table run loop")
			return
		}
	}
}

// Clients will return a slice of connected (at the time) clients
func (t *Table) Clients() []*Client {
	t.lock.RLock()
	defer t.lock.RUnlock()

	clients := make([]*Client, 0, len(t.clients))
	for client := range t.clients {
		clients = append(clients, client)
	}

	return clients
}

// AddClient adds a client
// This method must return quickly
func (t *Table) AddClient(client *Client) {
	t.lock.Lock()
	client.table = t
	t.clients[client] = true
	t.lock.Unlock()

	t.stateChanged <- stateClientEvent
	t.execInRunLoop <- func() {
		client.Send(&Response{
			Key: "game",
			Data: gameState{
				Game:   t.game,
				Player: engine.PlayerStateFor(t.game, client.uid),
			},
		})
	}
}

// RemoveClient removes a client
// This method must return quickly
func (t *Table) RemoveClient(client *Client) (lastClient bool) {
	t.lock.Lock()
	delete(t.clients, client)
	nClients := len(t.clients)
	t.lock.Unlock()

	if nClients > 0 {
		t.stateChanged <- stateClientEvent
		return false
	}

	// the table keeps running: a live hand must still settle, and the
	// timeout clock must keep closing abandoned turns
	return true
}

// Seat adds a player to the game's roster and waits for the result
func (t *Table) Seat(uid, displayName string) error {
	errCh := make(chan error, 1)
	t.execInRunLoop <- func() {
		_, err := t.game.AddPlayer(uid, displayName)
		errCh <- err

		if err == nil {
			t.stateChanged <- stateClientEvent
		}
	}

	return <-errCh
}

// Snapshot returns a deep copy of the game's current state
func (t *Table) Snapshot() *engine.Game {
	ch := make(chan *engine.Game, 1)
	t.execInRunLoop <- func() {
		ch <- t.game.Clone()
	}

	return <-ch
}

// ReceivedMessage is called when a client sends a message to the server
func (t *Table) ReceivedMessage(c *Client, msg *PayloadIn) {
	switch msg.Action {
	case "deal":
		t.execInRunLoop <- func() {
			next, err := engine.NewHand(t.game, t.seeder.Int63(), t.now())
			t.finish(c, msg, next, err)
		}
	case "setAway":
		t.execInRunLoop <- func() {
			next, err := engine.SetAway(t.game, c.uid, msg.Away)
			t.finish(c, msg, next, err)
		}
	case "showCards":
		t.execInRunLoop <- func() {
			next, err := engine.ShowCards(t.game, c.uid, msg.Which)
			t.finish(c, msg, next, err)
		}
	case "rebuy":
		t.execInRunLoop <- func() {
			next, err := engine.ApplyRebuy(t.game, c.uid, t.now())
			t.finish(c, msg, next, err)
		}
	default:
		// everything else is a betting decision; the engine rejects
		// unknown or illegal actions
		t.execInRunLoop <- func() {
			intent := engine.Intent{Type: engine.ActionType(msg.Action), Total: msg.Total}
			next, err := engine.ApplyAction(t.game, c.uid, intent, t.now())
			t.finish(c, msg, next, err)
		}
	}
}

// finish applies the outcome of a game mutation: on error the client is
// told and the state is untouched, on success the new snapshot is
// adopted and broadcast
// NOTE: must only be called from the run loop
func (t *Table) finish(c *Client, msg *PayloadIn, next *engine.Game, err error) {
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	wasSettled := t.handSettled()
	t.game = next
	c.Send(OK(msg.Context))

	if !wasSettled && t.handSettled() {
		t.stateChanged <- stateHandEnded
		return
	}

	t.stateChanged <- stateGameEvent
}

func (t *Table) handSettled() bool {
	hand := t.game.ActiveHand()
	return hand != nil && hand.Settled()
}

// tick forces the fallback action on a player whose clock has expired
// NOTE: must only be called from the run loop
func (t *Table) tick() {
	hand := t.game.ActiveHand()
	if hand == nil || hand.Settled() {
		return
	}

	if !engine.TimedOut(t.game, hand, t.now()) {
		return
	}

	uid, _ := engine.ActingPlayer(t.game, hand)
	next, err := engine.ForceAction(t.game, t.now())
	if err != nil {
		logrus.WithError(err).WithField("table", t.ID).Error("could not force action")
		return
	}

	logrus.WithFields(logrus.Fields{
		"table":  t.ID,
		"player": uid,
	}).Info("player timed out; action forced")

	wasSettled := t.handSettled()
	t.game = next

	if !wasSettled && t.handSettled() {
		t.stateChanged <- stateHandEnded
		return
	}

	t.stateChanged <- stateGameEvent
}

// NOTE: must only be called from the run loop
func (t *Table) sendGameData() {
	for _, client := range t.Clients() {
		client.Send(&Response{
			Key: "game",
			Data: gameState{
				Game:   t.game,
				Player: engine.PlayerStateFor(t.game, client.uid),
			},
		})
	}
}

// NOTE: must only be called from the run loop
func (t *Table) sendHandEnded() {
	hand := t.game.ActiveHand()
	if hand == nil {
		return
	}

	for _, client := range t.Clients() {
		client.Send(&Response{
			Key:  "handEnded",
			Data: hand.Payouts,
		})
	}
}

// NOTE: must only be called from the run loop
func (t *Table) sendClientState() {
	connected := make(map[string]*Client)
	for _, client := range t.Clients() {
		connected[client.uid] = client
	}

	players := make(map[string]*clientStatePlayer)
	for uid, p := range t.game.Players {
		_, isConnected := connected[uid]
		delete(connected, uid)

		players[uid] = &clientStatePlayer{
			UID:         uid,
			DisplayName: p.DisplayName,
			Stack:       p.Stack,
			Away:        p.Away,
			IsConnected: isConnected,
			IsSeated:    true,
		}
	}

	for uid, client := range connected {
		players[uid] = &clientStatePlayer{
			UID:         uid,
			DisplayName: client.displayName,
			IsConnected: true,
			IsSeated:    false,
		}
	}

	for _, client := range t.Clients() {
		client.Send(&Response{
			Key:  "clientState",
			Data: players,
		})
	}
}
