package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"familyties-server/pkg/room"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/room").Handler(this.getRoom())
	r.Methods(http.MethodPost).Path("/room").Handler(this.postRoom())
	r.Methods(http.MethodGet).Path("/room/{id:[A-Za-z0-9-]+}/ws").Handler(this.getRoomIDWS())

	return this
}
