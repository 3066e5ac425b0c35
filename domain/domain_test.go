package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestConversationKeyForIsOrderIndependent(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	keyAB := ConversationKeyFor(a, b)
	keyBA := ConversationKeyFor(b, a)

	if keyAB != keyBA {
		t.Errorf("Expected same key for both orders, got %s and %s", keyAB, keyBA)
	}

	if keyAB == ConversationKeyFor(a, uuid.New()) {
		t.Error("Different pairs should get different keys")
	}
}

func TestAddFriendSkipsDuplicatesAndSelf(t *testing.T) {
	u := User{Id: uuid.New()}
	friend := uuid.New()

	u.AddFriend(friend)
	u.AddFriend(friend)
	if len(u.Friends) != 1 {
		t.Errorf("Expected 1 friend after duplicate add, got %d", len(u.Friends))
	}

	u.AddFriend(u.Id)
	if len(u.Friends) != 1 {
		t.Error("A user must never be their own friend")
	}

	if !u.HasFriend(friend) {
		t.Error("Expected HasFriend to report the added friend")
	}
}

func TestFriendRequestSamePair(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	r := FriendRequest{FromId: a, ToId: b}

	if !r.SamePair(a, b) {
		t.Error("Expected SamePair(a, b) to be true")
	}
	if !r.SamePair(b, a) {
		t.Error("SamePair must be order independent")
	}
	if r.SamePair(a, c) {
		t.Error("Expected SamePair(a, c) to be false")
	}
}

func TestPostDerivedValues(t *testing.T) {
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	p := Post{
		Reactions: map[uuid.UUID]ReactionKind{
			u1: ReactionLike,
			u2: ReactionLike,
			u3: ReactionLove,
		},
		Comments: []Comment{
			{Text: "top", Replies: []Comment{{Text: "reply"}}},
			{Text: "another"},
		},
	}

	counts := p.ReactionCounts()
	if counts[ReactionLike] != 2 || counts[ReactionLove] != 1 {
		t.Errorf("Unexpected reaction counts: %v", counts)
	}

	if p.TotalReactions() != 3 {
		t.Errorf("Expected 3 total reactions, got %d", p.TotalReactions())
	}

	// Comment count is top-level only
	if p.CommentCount() != 2 {
		t.Errorf("Expected comment count 2, got %d", p.CommentCount())
	}
}

func TestCommentReplyCountIsRecursive(t *testing.T) {
	c := Comment{
		Replies: []Comment{
			{Replies: []Comment{{}, {}}},
			{},
		},
	}

	if c.ReplyCount() != 4 {
		t.Errorf("Expected reply subtree of 4, got %d", c.ReplyCount())
	}
}

func TestValidReaction(t *testing.T) {
	for _, k := range ReactionKinds {
		if !ValidReaction(k) {
			t.Errorf("Expected %s to be valid", k)
		}
	}
	if ValidReaction("meh") {
		t.Error("Unknown kinds must be invalid")
	}
	if ValidReaction(ReactionNone) {
		t.Error("The empty kind is a clear, not a reaction")
	}
}

func TestConversationParticipantHelpers(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	c := Conversation{Id: ConversationKeyFor(a, b), Participants: []uuid.UUID{a, b}}

	if !c.HasParticipant(a) || !c.HasParticipant(b) {
		t.Error("Both parties should be participants")
	}
	if c.HasParticipant(uuid.New()) {
		t.Error("Strangers are not participants")
	}
	if c.OtherParticipant(a) != b {
		t.Error("Expected OtherParticipant(a) == b")
	}
}
