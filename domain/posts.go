package domain

import (
	"fmt"
	"github.com/google/uuid"
	"time"
)

type ReactionKind string

const (
	ReactionNone  ReactionKind = ""
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionHaha  ReactionKind = "haha"
	ReactionWow   ReactionKind = "wow"
	ReactionSad   ReactionKind = "sad"
	ReactionAngry ReactionKind = "angry"
)

// ReactionKinds lists the fixed set of reactions in display order.
var ReactionKinds = []ReactionKind{
	ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry,
}

func ValidReaction(kind ReactionKind) bool {
	for _, k := range ReactionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

type MediaAttachment struct {
	Kind   MediaKind `json:"kind"`
	Source string    `json:"source"`
}

type Post struct {
	Id        uuid.UUID                  `json:"id"`
	AuthorId  uuid.UUID                  `json:"authorId"`
	Content   string                     `json:"content"`
	Media     []MediaAttachment          `json:"media,omitempty"`
	Reactions map[uuid.UUID]ReactionKind `json:"reactions"`
	Comments  []Comment                  `json:"comments"`
	CreatedAt time.Time                  `json:"timestamp"`
}

// ReactionCounts returns the per-kind tally, computed on read.
func (p *Post) ReactionCounts() map[ReactionKind]int {
	counts := make(map[ReactionKind]int)
	for _, kind := range p.Reactions {
		counts[kind]++
	}
	return counts
}

func (p *Post) TotalReactions() int {
	return len(p.Reactions)
}

// CommentCount counts top-level comments only, matching the feed display.
func (p *Post) CommentCount() int {
	return len(p.Comments)
}

// Clone returns a post whose Reactions, Media and comment tree share no
// memory with the receiver. Store reads hand out clones so callers can
// range over the maps while writers mutate the originals under the lock.
func (p *Post) Clone() Post {
	out := *p
	if p.Media != nil {
		out.Media = make([]MediaAttachment, len(p.Media))
		copy(out.Media, p.Media)
	}
	if p.Reactions != nil {
		out.Reactions = make(map[uuid.UUID]ReactionKind, len(p.Reactions))
		for id, kind := range p.Reactions {
			out.Reactions[id] = kind
		}
	}
	out.Comments = cloneComments(p.Comments)
	return out
}

func (p *Post) ToString() string {
	return fmt.Sprintf("\n\tId: %s \n\tAuthorId: %s \n\tContent: %s \n\tCreatedAt: %s)", p.Id, p.AuthorId, p.Content, p.CreatedAt)
}

// Comment is a self-similar reply tree. Depth is unbounded in the type;
// the presentation renders a single reply level.
type Comment struct {
	Id        uuid.UUID          `json:"id"`
	AuthorId  uuid.UUID          `json:"authorId"`
	Text      string             `json:"text"`
	Likes     int                `json:"likes"`
	LikedBy   map[uuid.UUID]bool `json:"likedBy,omitempty"`
	Replies   []Comment          `json:"replies"`
	CreatedAt time.Time          `json:"timestamp"`
}

// Clone deep-copies the comment, LikedBy map and reply subtree included.
func (c *Comment) Clone() Comment {
	out := *c
	if c.LikedBy != nil {
		out.LikedBy = make(map[uuid.UUID]bool, len(c.LikedBy))
		for id, liked := range c.LikedBy {
			out.LikedBy[id] = liked
		}
	}
	out.Replies = cloneComments(c.Replies)
	return out
}

func cloneComments(comments []Comment) []Comment {
	if comments == nil {
		return nil
	}
	out := make([]Comment, len(comments))
	for i := range comments {
		out[i] = comments[i].Clone()
	}
	return out
}

// ReplyCount counts the full reply subtree under this comment.
func (c *Comment) ReplyCount() int {
	n := len(c.Replies)
	for i := range c.Replies {
		n += c.Replies[i].ReplyCount()
	}
	return n
}
