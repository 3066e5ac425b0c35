package domain

import (
	"github.com/google/uuid"
	"time"
)

type Message struct {
	Id             uuid.UUID `json:"id"`
	ConversationId string    `json:"conversationId"`
	SenderId       uuid.UUID `json:"senderId"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"timestamp"`
}

type Conversation struct {
	Id            string      `json:"id"`
	Participants  []uuid.UUID `json:"participants"`
	Messages      []Message   `json:"messages"`
	LastMessage   string      `json:"lastMessage,omitempty"`
	LastMessageAt time.Time   `json:"lastMessageTime,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// ConversationKeyFor derives the conversation id for a two-party thread.
// The ids are sorted before joining, so the key is independent of who
// initiates.
func ConversationKeyFor(a, b uuid.UUID) string {
	first, second := a.String(), b.String()
	if second < first {
		first, second = second, first
	}
	return first + "-" + second
}

// HasParticipant reports whether the user is one of the two parties.
func (c *Conversation) HasParticipant(id uuid.UUID) bool {
	for _, p := range c.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// OtherParticipant returns the peer of the given user, or uuid.Nil.
func (c *Conversation) OtherParticipant(id uuid.UUID) uuid.UUID {
	for _, p := range c.Participants {
		if p != id {
			return p
		}
	}
	return uuid.Nil
}
