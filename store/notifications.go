package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minglehq/mingle/domain"
)

// Notifications is an append-only event list, partitioned by recipient.
// The original client held one list per signed-in session; serving many
// sessions from one process means keying by the user the event is for.
// Like the feed, it is in-memory only and retention is caller-controlled.
type Notifications struct {
	mu    sync.RWMutex
	items map[uuid.UUID][]domain.Notification // recipient -> newest first
}

func NewNotifications() *Notifications {
	return &Notifications{items: make(map[uuid.UUID][]domain.Notification)}
}

// Notify records an unread event for the recipient. Self-notifications
// are dropped; nobody needs to hear about their own likes.
func (n *Notifications) Notify(recipient uuid.UUID, ntype domain.NotificationType, actor domain.User, message string, postId *uuid.UUID) {
	if recipient == actor.Id || recipient == uuid.Nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	notification := domain.Notification{
		Id:          uuid.New(),
		Type:        ntype,
		ActorId:     actor.Id,
		ActorName:   actor.Name,
		ActorAvatar: actor.Avatar,
		Message:     message,
		PostId:      postId,
		CreatedAt:   time.Now(),
	}
	n.items[recipient] = append([]domain.Notification{notification}, n.items[recipient]...)
}

// MarkRead transitions unread -> read. The reverse never happens here.
func (n *Notifications) MarkRead(recipient, id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	list := n.items[recipient]
	for i := range list {
		if list[i].Id == id {
			list[i].Read = true
			return
		}
	}
}

func (n *Notifications) MarkAllRead(recipient uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	list := n.items[recipient]
	for i := range list {
		list[i].Read = true
	}
}

// Remove deletes one notification, read or not.
func (n *Notifications) Remove(recipient, id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	list := n.items[recipient]
	for i := range list {
		if list[i].Id == id {
			n.items[recipient] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// ClearAll is the only bulk-removal path.
func (n *Notifications) ClearAll(recipient uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.items, recipient)
}

func (n *Notifications) UnreadCount(recipient uuid.UUID) int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	count := 0
	for _, notification := range n.items[recipient] {
		if !notification.Read {
			count++
		}
	}
	return count
}

func (n *Notifications) ReadAll(recipient uuid.UUID) []domain.Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()

	list := n.items[recipient]
	out := make([]domain.Notification, len(list))
	copy(out, list)
	return out
}

// ReadFiltered returns the list, optionally narrowed to unread entries.
func (n *Notifications) ReadFiltered(recipient uuid.UUID, onlyUnread bool) []domain.Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var out []domain.Notification
	for _, notification := range n.items[recipient] {
		if onlyUnread && notification.Read {
			continue
		}
		out = append(out, notification)
	}
	return out
}
