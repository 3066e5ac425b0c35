package store

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/minglehq/mingle/domain"
)

func TestCreatePostRequiresContentOrMedia(t *testing.T) {
	feed := NewFeed()
	author := uuid.New()

	err, post := feed.CreatePost(author, "   ", nil)
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post != nil {
		t.Error("Blank post without media must be a no-op")
	}

	err, post = feed.CreatePost(author, "", []domain.MediaAttachment{
		{Kind: domain.MediaImage, Source: "data:image/png;base64,AAAA"},
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post == nil {
		t.Fatal("Media-only post should be created")
	}
}

func TestCreatePostPrependsToFeed(t *testing.T) {
	feed := NewFeed()
	author := uuid.New()

	feed.CreatePost(author, "first", nil)
	feed.CreatePost(author, "second", nil)

	posts := feed.ReadPosts()
	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}
	if posts[0].Content != "second" {
		t.Errorf("Expected newest first, got '%s'", posts[0].Content)
	}
}

func TestSetReactionToggleIdempotence(t *testing.T) {
	feed := NewFeed()
	author, reader := uuid.New(), uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)

	// Same reaction twice in succession nets to zero
	if err := feed.SetReaction(post.Id, reader, domain.ReactionLove); err != nil {
		t.Fatalf("SetReaction failed: %v", err)
	}
	if err := feed.SetReaction(post.Id, reader, domain.ReactionLove); err != nil {
		t.Fatalf("SetReaction failed: %v", err)
	}

	_, got := feed.ReadPostById(post.Id)
	if got.TotalReactions() != 0 {
		t.Errorf("Expected zero net reactions, got %d", got.TotalReactions())
	}
}

func TestSetReactionReplacesDifferentKind(t *testing.T) {
	feed := NewFeed()
	author, reader := uuid.New(), uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)

	feed.SetReaction(post.Id, reader, domain.ReactionLike)
	feed.SetReaction(post.Id, reader, domain.ReactionWow)

	_, got := feed.ReadPostById(post.Id)
	if got.TotalReactions() != 1 {
		t.Fatalf("Expected exactly one reaction, got %d", got.TotalReactions())
	}
	if got.Reactions[reader] != domain.ReactionWow {
		t.Errorf("Expected wow, got %s", got.Reactions[reader])
	}
}

func TestSetReactionExplicitClear(t *testing.T) {
	feed := NewFeed()
	author, reader := uuid.New(), uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)

	feed.SetReaction(post.Id, reader, domain.ReactionHaha)
	feed.SetReaction(post.Id, reader, domain.ReactionNone)

	_, got := feed.ReadPostById(post.Id)
	if got.TotalReactions() != 0 {
		t.Error("ReactionNone must clear the user's reaction")
	}
}

func TestSetReactionUnknownKindIsNoop(t *testing.T) {
	feed := NewFeed()
	author, reader := uuid.New(), uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)

	feed.SetReaction(post.Id, reader, "meh")

	_, got := feed.ReadPostById(post.Id)
	if got.TotalReactions() != 0 {
		t.Error("Unknown kinds must be ignored")
	}
}

func TestAddCommentAndReply(t *testing.T) {
	feed := NewFeed()
	author, commenter := uuid.New(), uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)

	if err := feed.AddComment(post.Id, commenter, "nice"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	_, got := feed.ReadPostById(post.Id)
	if got.CommentCount() != 1 {
		t.Fatalf("Expected 1 comment, got %d", got.CommentCount())
	}

	commentId := got.Comments[0].Id
	if err := feed.AddReply(post.Id, commentId, author, "thanks"); err != nil {
		t.Fatalf("AddReply failed: %v", err)
	}

	_, got = feed.ReadPostById(post.Id)
	if len(got.Comments[0].Replies) != 1 {
		t.Errorf("Expected 1 reply, got %d", len(got.Comments[0].Replies))
	}
	// Top-level count is unaffected by replies
	if got.CommentCount() != 1 {
		t.Errorf("Expected top-level count 1, got %d", got.CommentCount())
	}
}

func TestAddReplyToMissingCommentIsNoop(t *testing.T) {
	feed := NewFeed()
	author := uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)

	if err := feed.AddReply(post.Id, uuid.New(), author, "into the void"); err != nil {
		t.Fatalf("AddReply failed: %v", err)
	}

	_, got := feed.ReadPostById(post.Id)
	if got.CommentCount() != 0 {
		t.Error("Reply to a missing target must change nothing")
	}
}

func TestReplyNestingBeyondOneLevel(t *testing.T) {
	feed := NewFeed()
	author := uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)

	feed.AddComment(post.Id, author, "top")
	_, got := feed.ReadPostById(post.Id)
	top := got.Comments[0].Id

	feed.AddReply(post.Id, top, author, "level one")
	_, got = feed.ReadPostById(post.Id)
	levelOne := got.Comments[0].Replies[0].Id

	// The tree is unbounded even though the UI shows one level
	feed.AddReply(post.Id, levelOne, author, "level two")
	_, got = feed.ReadPostById(post.Id)
	if len(got.Comments[0].Replies[0].Replies) != 1 {
		t.Error("Replies should nest beyond one level")
	}
}

func TestToggleCommentLike(t *testing.T) {
	feed := NewFeed()
	author, liker := uuid.New(), uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)
	feed.AddComment(post.Id, author, "top")
	_, got := feed.ReadPostById(post.Id)
	commentId := got.Comments[0].Id

	feed.ToggleCommentLike(post.Id, commentId, liker)
	_, got = feed.ReadPostById(post.Id)
	if got.Comments[0].Likes != 1 || !got.Comments[0].LikedBy[liker] {
		t.Error("First toggle should like the comment")
	}

	feed.ToggleCommentLike(post.Id, commentId, liker)
	_, got = feed.ReadPostById(post.Id)
	if got.Comments[0].Likes != 0 || got.Comments[0].LikedBy[liker] {
		t.Error("Second toggle should unlike the comment")
	}
}

func TestDeleteCommentRemovesSubtree(t *testing.T) {
	feed := NewFeed()
	author := uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)

	feed.AddComment(post.Id, author, "keep me")
	feed.AddComment(post.Id, author, "delete me")

	_, got := feed.ReadPostById(post.Id)
	doomed := got.Comments[1].Id
	feed.AddReply(post.Id, doomed, author, "reply one")
	feed.AddReply(post.Id, doomed, author, "reply two")

	if err := feed.DeleteComment(post.Id, doomed); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}

	_, got = feed.ReadPostById(post.Id)
	if got.CommentCount() != 1 {
		t.Errorf("Expected 1 comment left, got %d", got.CommentCount())
	}
	if got.Comments[0].Text != "keep me" {
		t.Error("The wrong comment was deleted")
	}
	total := 0
	for i := range got.Comments {
		total += got.Comments[i].ReplyCount()
	}
	if total != 0 {
		t.Errorf("Reply subtree should be gone, found %d replies", total)
	}
}

func TestDeleteNestedCommentRemovesOnlyItsSubtree(t *testing.T) {
	feed := NewFeed()
	author := uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)

	feed.AddComment(post.Id, author, "top")
	_, got := feed.ReadPostById(post.Id)
	top := got.Comments[0].Id

	feed.AddReply(post.Id, top, author, "reply")
	_, got = feed.ReadPostById(post.Id)
	reply := got.Comments[0].Replies[0].Id
	feed.AddReply(post.Id, reply, author, "nested")

	feed.DeleteComment(post.Id, reply)

	_, got = feed.ReadPostById(post.Id)
	if got.CommentCount() != 1 {
		t.Error("Top-level comment should survive")
	}
	if got.Comments[0].ReplyCount() != 0 {
		t.Errorf("Expected empty subtree, got %d", got.Comments[0].ReplyCount())
	}
}

func TestReadPostByIdReturnsDetachedSnapshot(t *testing.T) {
	feed := NewFeed()
	author, reader := uuid.New(), uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)
	feed.AddComment(post.Id, author, "first")
	feed.AddComment(post.Id, author, "second")
	feed.SetReaction(post.Id, reader, domain.ReactionLike)

	_, snapshot := feed.ReadPostById(post.Id)
	commentId := snapshot.Comments[0].Id

	// Mutations after the read must not show through the snapshot
	feed.SetReaction(post.Id, reader, domain.ReactionLove)
	feed.ToggleCommentLike(post.Id, commentId, reader)
	feed.DeleteComment(post.Id, snapshot.Comments[1].Id)

	if snapshot.Reactions[reader] != domain.ReactionLike {
		t.Errorf("Snapshot reaction changed to %s", snapshot.Reactions[reader])
	}
	if snapshot.Comments[0].Likes != 0 || snapshot.Comments[0].LikedBy[reader] {
		t.Error("Snapshot comment picked up a later like")
	}
	if snapshot.CommentCount() != 2 || snapshot.Comments[1].Text != "second" {
		t.Error("Snapshot comments changed after a later delete")
	}

	_, got := feed.ReadPostById(post.Id)
	if got.Reactions[reader] != domain.ReactionLove || got.CommentCount() != 1 {
		t.Error("Store state should carry the mutations")
	}
}

func TestReadPostsReturnsDetachedSnapshots(t *testing.T) {
	feed := NewFeed()
	author, reader := uuid.New(), uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)

	posts := feed.ReadPosts()
	feed.SetReaction(post.Id, reader, domain.ReactionWow)

	if posts[0].TotalReactions() != 0 {
		t.Error("Snapshot from ReadPosts picked up a later reaction")
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	feed := NewFeed()
	author := uuid.New()
	_, post := feed.CreatePost(author, "hello", nil)
	feed.AddComment(post.Id, author, "top")
	_, got := feed.ReadPostById(post.Id)
	commentId := got.Comments[0].Id

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				user := uuid.New()
				feed.SetReaction(post.Id, user, domain.ReactionLike)
				feed.ToggleCommentLike(post.Id, commentId, user)
				feed.AddReply(post.Id, commentId, user, "pile-on")
			}
		}()
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				for _, p := range feed.ReadPosts() {
					p.ReactionCounts()
					p.CommentCount()
				}
				if _, p := feed.ReadPostById(post.Id); p != nil {
					for j := range p.Comments {
						p.Comments[j].ReplyCount()
					}
				}
			}
		}()
	}
	wg.Wait()

	_, final := feed.ReadPostById(post.Id)
	if final.TotalReactions() != 800 {
		t.Errorf("Expected 800 reactions, got %d", final.TotalReactions())
	}
	if final.Comments[0].ReplyCount() != 800 {
		t.Errorf("Expected 800 replies, got %d", final.Comments[0].ReplyCount())
	}
}

func TestDeletePostOnlyByAuthor(t *testing.T) {
	feed := NewFeed()
	author, stranger := uuid.New(), uuid.New()
	_, post := feed.CreatePost(author, "mine", nil)

	feed.DeletePost(post.Id, stranger)
	if len(feed.ReadPosts()) != 1 {
		t.Error("A stranger must not delete the post")
	}

	feed.DeletePost(post.Id, author)
	if len(feed.ReadPosts()) != 0 {
		t.Error("The author should be able to delete the post")
	}
}
