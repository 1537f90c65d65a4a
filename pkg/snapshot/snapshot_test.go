package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"familyties-server/pkg/spades"
)

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.json")
	store := NewStore(path)

	// nothing on disk yet
	rooms, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, rooms)

	createdAt := time.Now().Truncate(time.Second)
	saved := []Room{
		{
			ID:        "GAME",
			Name:      "The Game",
			CreatedAt: createdAt,
			Scores: map[int]*spades.TeamScore{
				0: {Points: 120, Bags: 3},
				1: {Points: -50},
			},
			Chat: []Message{
				{Name: "alice", Message: "hello", At: createdAt},
			},
		},
	}

	assert.NoError(t, store.Save(saved))

	rooms, err = store.Load()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rooms))
	assert.Equal(t, "GAME", rooms[0].ID)
	assert.Equal(t, "The Game", rooms[0].Name)
	assert.True(t, createdAt.Equal(rooms[0].CreatedAt))
	assert.Equal(t, &spades.TeamScore{Points: 120, Bags: 3}, rooms[0].Scores[0])
	assert.Equal(t, 1, len(rooms[0].Chat))
	assert.Equal(t, "hello", rooms[0].Chat[0].Message)

	// saving again replaces the file
	assert.NoError(t, store.Save(nil))
	rooms, err = store.Load()
	assert.NoError(t, err)
	assert.Equal(t, 0, len(rooms))
}

func TestStore_LoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStore(path).Load()
	assert.Error(t, err)
}
