package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minglehq/mingle/domain"
)

// Feed owns posts, their reactions and their comment trees. The feed is
// session-scoped state in the original client and is deliberately not
// persisted; it lives for the life of the process.
type Feed struct {
	mu    sync.RWMutex
	posts []domain.Post // newest first
}

func NewFeed() *Feed {
	return &Feed{}
}

// CreatePost inserts a post at the top of the feed. A post needs text or
// at least one resolved media attachment; anything else is a no-op. The
// caller resolves attachments first, all-or-nothing, so a post never
// appears with pending media.
func (f *Feed) CreatePost(authorId uuid.UUID, content string, media []domain.MediaAttachment) (error, *domain.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.TrimSpace(content) == "" && len(media) == 0 {
		return nil, nil
	}

	post := domain.Post{
		Id:        uuid.New(),
		AuthorId:  authorId,
		Content:   content,
		Media:     media,
		Reactions: make(map[uuid.UUID]domain.ReactionKind),
		CreatedAt: time.Now(),
	}
	f.posts = append([]domain.Post{post}, f.posts...)

	saved := post.Clone()
	return nil, &saved
}

// ReadPosts returns the feed, newest first.
func (f *Feed) ReadPosts() []domain.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Post, len(f.posts))
	for i := range f.posts {
		out[i] = f.posts[i].Clone()
	}
	return out
}

func (f *Feed) ReadPostsByAuthor(authorId uuid.UUID) []domain.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []domain.Post
	for _, p := range f.posts {
		if p.AuthorId == authorId {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (f *Feed) ReadPostById(id uuid.UUID) (error, *domain.Post) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if p := f.findPost(id); p != nil {
		copied := p.Clone()
		return nil, &copied
	}
	return nil, nil
}

// SetReaction applies the one-reaction-per-user rule: picking the current
// kind again clears it, a different kind replaces it, ReactionNone clears
// explicitly. Unknown kinds and unknown posts are no-ops.
func (f *Feed) SetReaction(postId, userId uuid.UUID, kind domain.ReactionKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post := f.findPost(postId)
	if post == nil {
		return nil
	}
	if kind != domain.ReactionNone && !domain.ValidReaction(kind) {
		return nil
	}

	current, has := post.Reactions[userId]
	switch {
	case kind == domain.ReactionNone:
		delete(post.Reactions, userId)
	case has && current == kind:
		// toggle off
		delete(post.Reactions, userId)
	default:
		post.Reactions[userId] = kind
	}
	return nil
}

// AddComment appends a top-level comment. Empty text or a missing post is
// a no-op.
func (f *Feed) AddComment(postId, authorId uuid.UUID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil
	}
	post := f.findPost(postId)
	if post == nil {
		return nil
	}
	post.Comments = append(post.Comments, newComment(authorId, text))
	return nil
}

// AddReply appends a reply under the target comment, anywhere in the
// tree. A missing target is a no-op.
func (f *Feed) AddReply(postId, commentId, authorId uuid.UUID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil
	}
	post := f.findPost(postId)
	if post == nil {
		return nil
	}
	target := findComment(post.Comments, commentId)
	if target == nil {
		return nil
	}
	target.Replies = append(target.Replies, newComment(authorId, text))
	return nil
}

// ToggleCommentLike flips one user's like on a comment.
func (f *Feed) ToggleCommentLike(postId, commentId, userId uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post := f.findPost(postId)
	if post == nil {
		return nil
	}
	comment := findComment(post.Comments, commentId)
	if comment == nil {
		return nil
	}
	if comment.LikedBy == nil {
		comment.LikedBy = make(map[uuid.UUID]bool)
	}
	if comment.LikedBy[userId] {
		delete(comment.LikedBy, userId)
		comment.Likes--
	} else {
		comment.LikedBy[userId] = true
		comment.Likes++
	}
	return nil
}

// DeleteComment removes a comment and its entire reply subtree.
func (f *Feed) DeleteComment(postId, commentId uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post := f.findPost(postId)
	if post == nil {
		return nil
	}
	post.Comments = removeComment(post.Comments, commentId)
	return nil
}

// DeletePost removes a post; only its author may do so.
func (f *Feed) DeletePost(postId, authorId uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.posts {
		if f.posts[i].Id == postId {
			if f.posts[i].AuthorId != authorId {
				return nil
			}
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

func newComment(authorId uuid.UUID, text string) domain.Comment {
	return domain.Comment{
		Id:        uuid.New(),
		AuthorId:  authorId,
		Text:      text,
		LikedBy:   make(map[uuid.UUID]bool),
		CreatedAt: time.Now(),
	}
}

func (f *Feed) findPost(id uuid.UUID) *domain.Post {
	for i := range f.posts {
		if f.posts[i].Id == id {
			return &f.posts[i]
		}
	}
	return nil
}

// findComment walks the reply tree depth-first.
func findComment(comments []domain.Comment, id uuid.UUID) *domain.Comment {
	for i := range comments {
		if comments[i].Id == id {
			return &comments[i]
		}
		if found := findComment(comments[i].Replies, id); found != nil {
			return found
		}
	}
	return nil
}

// removeComment drops the comment with the given id, subtree included,
// from wherever it sits in the tree. It rebuilds the slice rather than
// shifting in place so snapshots handed out earlier stay intact.
func removeComment(comments []domain.Comment, id uuid.UUID) []domain.Comment {
	for i := range comments {
		if comments[i].Id == id {
			out := make([]domain.Comment, 0, len(comments)-1)
			out = append(out, comments[:i]...)
			out = append(out, comments[i+1:]...)
			return out
		}
		comments[i].Replies = removeComment(comments[i].Replies, id)
	}
	return comments
}
