package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a player connected to a table via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	table *Table

	uid         string
	displayName string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, table *Table, uid, displayName string) *Client {
	return &Client{
		send:        make(chan interface{}, 256),
		Close:       make(chan string),
		Conn:        conn,
		table:       table,
		uid:         uid,
		displayName: displayName,
	}
}

// Send sends a message to the web client, dropping it if the client's
// buffer is full
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outgoing messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player and table
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.uid, c.table.ID)
}

// ReceivedMessage is called when the server receives a message from a
// connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.table == nil {
		logrus.WithField("msg", msg).Warn("received message, but table not found")
		return
	}

	c.table.ReceivedMessage(c, msg)
}
