// Package snapshot persists a best-effort copy of each room's lobby metadata
// so scores and chat survive a process restart. It is recovery-only: hands,
// bids, and seat occupancy are never written, and a restored room always
// resumes at the lobby phase with no cards dealt.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"familyties-server/pkg/spades"
)

// ChatLimit is how many recent chat messages are persisted per room
const ChatLimit = 50

// version identifies the snapshot file format
const version = 1

// Message is a persisted chat entry
type Message struct {
	Name    string    `json:"name"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Room is the recoverable subset of a room's state
type Room struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	CreatedAt time.Time                 `json:"createdAt"`
	Scores    map[int]*spades.TeamScore `json:"scores"`
	Chat      []Message                 `json:"chat"`
}

type fileFormat struct {
	Version int    `json:"version"`
	Rooms   []Room `json:"rooms"`
}

// Store reads and writes the snapshot file
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the rooms to disk. The write is atomic: the file is written to
// a temp file in the same directory and renamed into place.
func (s *Store) Save(rooms []Room) error {
	data, err := json.MarshalIndent(fileFormat{Version: version, Rooms: rooms}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

// Load reads the rooms from disk. A missing file is not an error; it simply
// means there is nothing to restore.
func (s *Store) Load() ([]Room, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	var file fileFormat
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return file.Rooms, nil
}
