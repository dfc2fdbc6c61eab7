package room

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homegame-server/pkg/engine"
)

type fixedSeed int64

func (f fixedSeed) Int63() int64 {
	return int64(f)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestTable(t *testing.T) (*Table, *testClock) {
	t.Helper()

	game, err := engine.NewGame(engine.Options{
		BuyIn:            10000,
		StartingBigBlind: 100,
		Increment:        25,
	})
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2022, time.March, 7, 20, 0, 0, 0, time.UTC)}

	table := NewTable(game)
	table.seeder = fixedSeed(42)
	table.now = clock.Now
	table.StartShift()
	t.Cleanup(table.EndShift)

	return table, clock
}

// awaitKey reads from the client's send channel until a message with the
// given key arrives
func awaitKey(t *testing.T, c *Client, key string) *Response {
	t.Helper()

	deadline := time.After(time.Second * 2)
	for {
		select {
		case msg := <-c.SendChan():
			if res, ok := msg.(*Response); ok && res.Key == key {
				return res
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", key)
			return nil
		}
	}
}

func TestTable_Seat(t *testing.T) {
	a := assert.New(t)

	table, _ := newTestTable(t)
	a.NoError(table.Seat("p1", "Player 1"))
	a.NoError(table.Seat("p2", "Player 2"))
	a.EqualError(table.Seat("p1", "Player 1"), "player p1 is already seated")

	game := table.Snapshot()
	a.Len(game.Players, 2)
	a.Equal(10000, game.Players["p1"].Stack)
}

func TestTable_AddClient(t *testing.T) {
	a := assert.New(t)

	table, _ := newTestTable(t)
	require.NoError(t, table.Seat("p1", "Player 1"))

	client := NewClient(nil, table, "p1", "Player 1")
	table.AddClient(client)

	res := awaitKey(t, client, "clientState")
	players, ok := res.Data.(map[string]*clientStatePlayer)
	require.True(t, ok)
	a.True(players["p1"].IsConnected)
	a.True(players["p1"].IsSeated)

	awaitKey(t, client, "game")

	// an unseated spectator still shows up in the roster
	spectator := NewClient(nil, table, "lurker", "Lurker")
	table.AddClient(spectator)

	res = awaitKey(t, spectator, "clientState")
	players, ok = res.Data.(map[string]*clientStatePlayer)
	require.True(t, ok)
	a.True(players["lurker"].IsConnected)
	a.False(players["lurker"].IsSeated)
}

func TestTable_playsHand(t *testing.T) {
	a := assert.New(t)

	table, clock := newTestTable(t)
	require.NoError(t, table.Seat("p1", "Player 1"))
	require.NoError(t, table.Seat("p2", "Player 2"))

	c1 := NewClient(nil, table, "p1", "Player 1")
	c2 := NewClient(nil, table, "p2", "Player 2")
	table.AddClient(c1)
	table.AddClient(c2)

	c1.ReceivedMessage(&PayloadIn{Action: "deal", Context: "deal-1"})

	res := awaitKey(t, c1, "status")
	a.Equal("deal-1", res.Context)

	res = awaitKey(t, c1, "game")
	state, ok := res.Data.(gameState)
	require.True(t, ok)
	require.NotNil(t, state.Game.ActiveHand())

	// heads-up: the dealer acts first
	a.Equal("p1", state.Game.ActiveHand().ActingPlayerID)

	// acting out of turn is rejected
	c2.ReceivedMessage(&PayloadIn{Action: "check", Context: "oops"})
	res = awaitKey(t, c2, "error")
	a.Equal("oops", res.Context)

	c1.ReceivedMessage(&PayloadIn{Action: "call"})
	awaitKey(t, c1, "status")

	c2.ReceivedMessage(&PayloadIn{Action: "check"})
	awaitKey(t, c2, "status")

	game := table.Snapshot()
	hand := game.ActiveHand()
	a.Equal(engine.RoundFlop, hand.ActiveRound)
	a.Len(hand.CommunityCards(), 3)

	// postflop the big blind acts first; let their clock run out
	a.Equal("p2", hand.ActingPlayerID)
	clock.Advance(time.Minute)

	table.execInRunLoop <- func() {
		table.tick()
	}

	require.Eventually(t, func() bool {
		return table.Snapshot().ActiveHand().ActingPlayerID == "p1"
	}, time.Second*2, time.Millisecond*10)

	hand = table.Snapshot().ActiveHand()

	// owed nothing, so the fallback checks rather than folds
	a.False(hand.Folded("p2"))
}

func TestFloor(t *testing.T) {
	a := assert.New(t)

	floor := NewFloor()
	floor.StartShift()

	table, err := floor.CreateTable(engine.Options{
		BuyIn:            10000,
		StartingBigBlind: 100,
		Increment:        25,
	})
	require.NoError(t, err)
	t.Cleanup(table.EndShift)

	found, ok := floor.Table(table.ID)
	a.True(ok)
	a.Equal(table, found)

	_, ok = floor.Table("unknown")
	a.False(ok)

	_, err = floor.CreateTable(engine.Options{})
	a.Error(err)

	require.NoError(t, table.Seat("p1", "Player 1"))

	client := NewClient(nil, table, "p1", "Player 1")
	floor.ClientConnected(client)
	awaitKey(t, client, "clientState")

	floor.ClientDisconnected(client)
}
