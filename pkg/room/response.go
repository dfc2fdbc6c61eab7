package room

import (
	"homegame-server/pkg/engine"
)

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action string `json:"action"`
	Total  int    `json:"total"`
	Which  string `json:"which"`
	Away   bool   `json:"away"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// Response is a message sent to one or more connected clients
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

func newErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

// gameState is the per-client view of the table: the shared snapshot plus
// the recipient's private cards and legal actions
type gameState struct {
	Game   *engine.Game        `json:"game"`
	Player *engine.PlayerState `json:"player,omitempty"`
}

type clientStatePlayer struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Stack       int    `json:"stack"`
	Away        bool   `json:"away"`
	IsConnected bool   `json:"isConnected"`
	IsSeated    bool   `json:"isSeated"`
}
