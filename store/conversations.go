package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minglehq/mingle/db"
	"github.com/minglehq/mingle/domain"
)

// Conversations owns two-party message threads, keyed by the
// deterministic conversation id. Mutations mirror the full collection to
// the persistence adapter.
type Conversations struct {
	mu            sync.RWMutex
	database      *db.DB
	conversations []domain.Conversation
}

func NewConversations(database *db.DB) *Conversations {
	c := &Conversations{database: database}
	c.conversations = loadCollection[domain.Conversation](database, db.BlobConversations)
	return c
}

func (c *Conversations) persist() error {
	return persistCollection(c.database, db.BlobConversations, c.conversations)
}

// GetOrCreateConversation returns the thread for the pair, creating an
// empty one on first contact. Both orders of the pair resolve to the
// same conversation.
func (c *Conversations) GetOrCreateConversation(a, b uuid.UUID) (error, *domain.Conversation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := domain.ConversationKeyFor(a, b)
	if conv := c.findConversation(key); conv != nil {
		copied := *conv
		return nil, &copied
	}

	conv := domain.Conversation{
		Id:           key,
		Participants: []uuid.UUID{a, b},
		Messages:     []domain.Message{},
		CreatedAt:    time.Now(),
	}
	c.conversations = append(c.conversations, conv)
	if err := c.persist(); err != nil {
		return err, nil
	}
	saved := conv
	return nil, &saved
}

// SendMessage appends to the thread and refreshes the last-message cache.
// Empty text and unknown conversations are no-ops.
func (c *Conversations) SendMessage(conversationId string, senderId uuid.UUID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil
	}
	conv := c.findConversation(conversationId)
	if conv == nil {
		return nil
	}

	now := time.Now()
	conv.Messages = append(conv.Messages, domain.Message{
		Id:             uuid.New(),
		ConversationId: conversationId,
		SenderId:       senderId,
		Text:           text,
		CreatedAt:      now,
	})
	conv.LastMessage = text
	conv.LastMessageAt = now
	return c.persist()
}

func (c *Conversations) ReadConversation(id string) (error, *domain.Conversation) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if conv := c.findConversation(id); conv != nil {
		copied := *conv
		return nil, &copied
	}
	return nil, nil
}

// ReadConversationsFor lists the threads a user takes part in, most
// recently active first.
func (c *Conversations) ReadConversationsFor(userId uuid.UUID) []domain.Conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.Conversation
	for _, conv := range c.conversations {
		if conv.HasParticipant(userId) {
			out = append(out, conv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out
}

func (c *Conversations) findConversation(id string) *domain.Conversation {
	for i := range c.conversations {
		if c.conversations[i].Id == id {
			return &c.conversations[i]
		}
	}
	return nil
}
