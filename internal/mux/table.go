package mux

import (
	"net/http"

	"homegame-server/internal/config"
	"homegame-server/internal/util"
	"homegame-server/pkg/engine"
	"homegame-server/pkg/room"
)

type createTableRequest struct {
	BuyIn                 int `json:"buyIn"`
	BigBlind              int `json:"bigBlind"`
	Increment             int `json:"increment"`
	BlindDoublingInterval int `json:"blindDoublingInterval"`
}

type createTableResponse struct {
	ID string `json:"id"`
}

func (m *Mux) postTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createTableRequest
		if !decodeRequest(w, r, &payload) {
			return
		}

		defaults := config.Instance().Table
		if payload.BuyIn == 0 {
			payload.BuyIn = defaults.DefaultBuyIn
		}
		if payload.BigBlind == 0 {
			payload.BigBlind = defaults.DefaultBigBlind
		}
		if payload.Increment == 0 {
			payload.Increment = defaults.DefaultIncrement
		}
		if payload.BlindDoublingInterval == 0 {
			payload.BlindDoublingInterval = defaults.BlindDoublingInterval
		}

		table, err := m.floor.CreateTable(engine.Options{
			BuyIn:                 payload.BuyIn,
			StartingBigBlind:      payload.BigBlind,
			Increment:             payload.Increment,
			BlindDoublingInterval: payload.BlindDoublingInterval,
			TournamentDetails: &engine.TournamentDetails{
				TimeoutInSeconds:   defaults.TimeoutInSeconds,
				RebuyWindowSeconds: defaults.RebuyWindowSeconds,
			},
		})
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusCreated, createTableResponse{ID: table.ID})
	}
}

func (m *Mux) getTableUUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := r.Context().Value(ctxTableKey).(*room.Table)
		writeJSON(w, http.StatusOK, table.Snapshot())
	}
}

type joinTableRequest struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
}

func (m *Mux) postTableUUIDJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload joinTableRequest
		if !decodeRequest(w, r, &payload) {
			return
		}

		if payload.DisplayName == "" {
			payload.DisplayName = util.GetRandomName()
		}

		table := r.Context().Value(ctxTableKey).(*room.Table)
		if err := table.Seat(payload.UID, payload.DisplayName); err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusCreated, OKResponse{Status: "OK"})
	}
}

// OKResponse is a generic success body
type OKResponse struct {
	Status string `json:"status"`
}
