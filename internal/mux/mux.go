package mux

import (
	"context"
	"net/http"
	"strings"

	gmux "github.com/gorilla/mux"

	"homegame-server/pkg/room"
)

type ctxKey int

const ctxTableKey ctxKey = iota

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	floor   *room.Floor
}

// NewMux returns a new HTTP mux
func NewMux(version string) *Mux {
	floor := room.NewFloor()
	floor.StartShift()

	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		floor:   floor,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodPost).Path("/table").Handler(this.postTable())

	tr := r.PathPrefix("/table/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
	tr.Use(this.tableMiddleware)

	tr.Methods(http.MethodGet).Path("").Handler(this.getTableUUID())
	tr.Methods(http.MethodPost).Path("/join").Handler(this.postTableUUIDJoin())
	tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableUUIDWS())

	return this
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table, ok := m.floor.Table(strings.ToLower(gmux.Vars(r)["uuid"]))
		if !ok {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxTableKey, table)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
