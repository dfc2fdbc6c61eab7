package room

import (
	"sync"

	"github.com/sirupsen/logrus"

	"homegame-server/pkg/engine"
)

// Floor is responsible for dispatching players to tables
type Floor struct {
	tables     map[string]*Table
	lock       sync.RWMutex
	connect    chan *Client
	disconnect chan *Client
}

// NewFloor returns a new dispatch object
func NewFloor() *Floor {
	return &Floor{
		tables:     make(map[string]*Table),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
	}
}

// StartShift starts the floor run loop
func (f *Floor) StartShift() {
	go f.runLoop()
}

func (f *Floor) runLoop() {
	for {
		select {
		case client := <-f.connect:
			logrus.WithField("player", client.String()).Debug("client connected")
			client.table.AddClient(client)
		case client := <-f.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			client.table.RemoveClient(client)
		}
	}
}

// CreateTable creates a new game, starts its run loop, and registers it
func (f *Floor) CreateTable(opts engine.Options) (*Table, error) {
	game, err := engine.NewGame(opts)
	if err != nil {
		return nil, err
	}

	table := NewTable(game)
	table.StartShift()

	f.lock.Lock()
	f.tables[table.ID] = table
	f.lock.Unlock()

	return table, nil
}

// Table returns the table with the given ID
func (f *Floor) Table(id string) (*Table, bool) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	table, ok := f.tables[id]
	return table, ok
}

// ClientConnected is called when a client connects to the server
func (f *Floor) ClientConnected(client *Client) {
	f.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (f *Floor) ClientDisconnected(client *Client) {
	f.disconnect <- client
}
