package mux

import (
	"errors"
	"net/http"
)

var errRoomNameTooLong = errors.New("room name cannot exceed 50 characters")

// getRoom returns the read-only room directory
func (m *Mux) getRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.pitBoss.Directory())
	}
}

type postRoomPayload struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

// postRoom creates a room, or returns the existing room when the requested
// ID is already taken
func (m *Mux) postRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postRoomPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		if len(payload.RoomName) > 50 {
			writeJSONError(w, http.StatusBadRequest, errRoomNameTooLong)
			return
		}

		dealer := m.pitBoss.CreateRoom(payload.RoomID, payload.RoomName)
		writeJSON(w, http.StatusCreated, dealer.Info())
	}
}
