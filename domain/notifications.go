package domain

import (
	"github.com/google/uuid"
	"time"
)

type NotificationType string

const (
	NotifyLike          NotificationType = "like"
	NotifyComment       NotificationType = "comment"
	NotifyFriendRequest NotificationType = "friend-request"
	NotifyReaction      NotificationType = "reaction"
	NotifyReply         NotificationType = "reply"
)

// Notification is an append-only event with a one-way unread -> read
// transition. Removal is terminal.
type Notification struct {
	Id          uuid.UUID        `json:"id"`
	Type        NotificationType `json:"type"`
	ActorId     uuid.UUID        `json:"actorId"`
	ActorName   string           `json:"actorName"`
	ActorAvatar string           `json:"actorAvatar"`
	Message     string           `json:"message"`
	PostId      *uuid.UUID       `json:"postId,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"timestamp"`
}
