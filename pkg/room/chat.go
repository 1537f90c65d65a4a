package room

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// chatMessageLimit caps a single message's length
	chatMessageLimit = 300

	// chatHistoryLimit is how many messages the room retains
	chatHistoryLimit = 300

	// chatBroadcastLimit is how many recent messages go out with the room state
	chatBroadcastLimit = 100
)

// ChatMessage is a single chat log entry
type ChatMessage struct {
	UUID    string    `json:"uuid"`
	Name    string    `json:"name"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// addChat appends a message to the room's bounded chat log
func (r *Room) addChat(name, message string) *ChatMessage {
	if len(message) > chatMessageLimit {
		// back up to a rune boundary so the cut never produces invalid UTF-8
		cut := chatMessageLimit
		for cut > 0 && !utf8.RuneStart(message[cut]) {
			cut--
		}

		message = message[:cut]
	}

	entry := &ChatMessage{
		UUID:    uuid.New().String(),
		Name:    name,
		Message: message,
		At:      time.Now(),
	}

	r.chat = append(r.chat, entry)
	if n := len(r.chat); n > chatHistoryLimit {
		r.chat = r.chat[n-chatHistoryLimit:]
	}

	return entry
}

// recentChat returns the most recent n chat messages
func (r *Room) recentChat(n int) []*ChatMessage {
	if len(r.chat) <= n {
		return append([]*ChatMessage{}, r.chat...)
	}

	return append([]*ChatMessage{}, r.chat[len(r.chat)-n:]...)
}
