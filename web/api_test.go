package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minglehq/mingle/auth"
	"github.com/minglehq/mingle/db"
	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/util"
)

func setupRouter(t *testing.T) (*gin.Engine, *Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("could not open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	conf := &util.AppConfig{}
	conf.Conf.Host = "localhost"
	conf.Conf.HttpPort = 9999

	graph := store.NewSocialGraph(database)
	server := NewServer(conf,
		auth.NewService(database, graph),
		graph,
		store.NewFeed(),
		store.NewConversations(database),
		store.NewNotifications())
	return Routes(conf, server), server
}

func newTestUser(email, name string) domain.User {
	return domain.User{Email: email, Name: name}
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("could not marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func signUpUser(t *testing.T, router *gin.Engine, email, name string) sessionResponse {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/signup", "", gin.H{
		"email": email, "password": "hunter2", "name": name,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("sign up failed with %d: %s", w.Code, w.Body.String())
	}
	var resp sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("could not parse sign up response: %v", err)
	}
	return resp
}

func TestSignUpSignInSignOut(t *testing.T) {
	router, _ := setupRouter(t)

	session := signUpUser(t, router, "ada@example.com", "Ada")
	if session.Token == "" {
		t.Fatal("expected a session token")
	}

	w := doJSON(t, router, "GET", "/api/me", session.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me failed with %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/api/signin", "", gin.H{
		"email": "ada@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/api/signout", session.Token, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("sign out failed with %d", w.Code)
	}

	w = doJSON(t, router, "GET", "/api/me", session.Token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after sign out, got %d", w.Code)
	}
}

func TestSignUpClosed(t *testing.T) {
	router, server := setupRouter(t)
	server.conf.Conf.Closed = true

	w := doJSON(t, router, "POST", "/api/signup", "", gin.H{
		"email": "ada@example.com", "password": "hunter2", "name": "Ada",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 when sign ups are closed, got %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, "GET", "/api/posts", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a session, got %d", w.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	router, _ := setupRouter(t)
	session := signUpUser(t, router, "ada@example.com", "Ada")

	w := doJSON(t, router, "PUT", "/api/me", session.Token, gin.H{
		"bio": "mathematician", "interests": []string{"engines", "notes"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("profile update failed with %d: %s", w.Code, w.Body.String())
	}

	var updated domain.User
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Bio != "mathematician" {
		t.Errorf("bio not updated: %q", updated.Bio)
	}
	if len(updated.Interests) != 2 {
		t.Errorf("interests not updated: %v", updated.Interests)
	}
	if updated.Name != "Ada" {
		t.Errorf("untouched field changed: %q", updated.Name)
	}
}

func TestPostLifecycle(t *testing.T) {
	router, _ := setupRouter(t)
	ada := signUpUser(t, router, "ada@example.com", "Ada")
	grace := signUpUser(t, router, "grace@example.com", "Grace")

	// empty post is rejected
	w := doJSON(t, router, "POST", "/api/posts", ada.Token, gin.H{"content": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty post, got %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/api/posts", ada.Token, gin.H{"content": "hello world"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create post failed with %d: %s", w.Code, w.Body.String())
	}
	var post domain.Post
	json.Unmarshal(w.Body.Bytes(), &post)

	// someone else cannot delete it
	w = doJSON(t, router, "DELETE", "/api/posts/"+post.Id.String(), grace.Token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign delete, got %d", w.Code)
	}

	w = doJSON(t, router, "DELETE", "/api/posts/"+post.Id.String(), ada.Token, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("author delete failed with %d", w.Code)
	}

	w = doJSON(t, router, "GET", "/api/posts/"+post.Id.String(), ada.Token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestReactionEndpoint(t *testing.T) {
	router, server := setupRouter(t)
	ada := signUpUser(t, router, "ada@example.com", "Ada")
	grace := signUpUser(t, router, "grace@example.com", "Grace")

	w := doJSON(t, router, "POST", "/api/posts", ada.Token, gin.H{"content": "react to me"})
	var post domain.Post
	json.Unmarshal(w.Body.Bytes(), &post)

	w = doJSON(t, router, "POST", "/api/posts/"+post.Id.String()+"/reaction", grace.Token, gin.H{"kind": "love"})
	if w.Code != http.StatusOK {
		t.Fatalf("reaction failed with %d: %s", w.Code, w.Body.String())
	}
	var updated domain.Post
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Reactions[grace.User.Id] != domain.ReactionLove {
		t.Errorf("reaction not recorded")
	}

	// the author hears about it
	if server.notifications.UnreadCount(ada.User.Id) != 1 {
		t.Errorf("expected one notification for the author")
	}

	// same kind again toggles off
	w = doJSON(t, router, "POST", "/api/posts/"+post.Id.String()+"/reaction", grace.Token, gin.H{"kind": "love"})
	// Unmarshal into a fresh value: decoding into the reused struct would
	// merge into its existing Reactions map and keep the stale entry.
	updated = domain.Post{}
	json.Unmarshal(w.Body.Bytes(), &updated)
	if _, has := updated.Reactions[grace.User.Id]; has {
		t.Errorf("expected reaction toggled off")
	}

	w = doJSON(t, router, "POST", "/api/posts/"+post.Id.String()+"/reaction", grace.Token, gin.H{"kind": "sparkle"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown reaction, got %d", w.Code)
	}
}

func TestCommentEndpoints(t *testing.T) {
	router, _ := setupRouter(t)
	ada := signUpUser(t, router, "ada@example.com", "Ada")
	grace := signUpUser(t, router, "grace@example.com", "Grace")

	w := doJSON(t, router, "POST", "/api/posts", ada.Token, gin.H{"content": "discuss"})
	var post domain.Post
	json.Unmarshal(w.Body.Bytes(), &post)
	base := "/api/posts/" + post.Id.String()

	w = doJSON(t, router, "POST", base+"/comments", grace.Token, gin.H{"text": "first!"})
	if w.Code != http.StatusCreated {
		t.Fatalf("comment failed with %d: %s", w.Code, w.Body.String())
	}
	var updated domain.Post
	json.Unmarshal(w.Body.Bytes(), &updated)
	if len(updated.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(updated.Comments))
	}
	commentId := updated.Comments[0].Id

	// nested reply
	w = doJSON(t, router, "POST", base+"/comments", ada.Token, gin.H{
		"text": "thanks", "parentId": commentId,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("reply failed with %d: %s", w.Code, w.Body.String())
	}
	json.Unmarshal(w.Body.Bytes(), &updated)
	if len(updated.Comments[0].Replies) != 1 {
		t.Errorf("expected nested reply")
	}

	// reply to unknown parent
	missing := uuid.New()
	w = doJSON(t, router, "POST", base+"/comments", ada.Token, gin.H{
		"text": "lost", "parentId": missing,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown parent, got %d", w.Code)
	}

	// like toggle
	w = doJSON(t, router, "POST", base+"/comments/"+commentId.String()+"/like", ada.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("like failed with %d", w.Code)
	}
	var comment domain.Comment
	json.Unmarshal(w.Body.Bytes(), &comment)
	if comment.Likes != 1 {
		t.Errorf("expected 1 like, got %d", comment.Likes)
	}

	// only the comment's author may delete it
	w = doJSON(t, router, "DELETE", base+"/comments/"+commentId.String(), ada.Token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign comment delete, got %d", w.Code)
	}
	w = doJSON(t, router, "GET", base, ada.Token, nil)
	json.Unmarshal(w.Body.Bytes(), &updated)
	if len(updated.Comments) != 1 {
		t.Fatalf("comment should survive a foreign delete")
	}

	// deleting the comment drops the reply too
	w = doJSON(t, router, "DELETE", base+"/comments/"+commentId.String(), grace.Token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete comment failed with %d", w.Code)
	}
	w = doJSON(t, router, "GET", base, ada.Token, nil)
	json.Unmarshal(w.Body.Bytes(), &updated)
	if len(updated.Comments) != 0 {
		t.Errorf("expected empty comment tree, got %d", len(updated.Comments))
	}
}

func TestFriendRequestFlow(t *testing.T) {
	router, server := setupRouter(t)
	ada := signUpUser(t, router, "ada@example.com", "Ada")
	grace := signUpUser(t, router, "grace@example.com", "Grace")

	w := doJSON(t, router, "POST", "/api/friends/requests", ada.Token, gin.H{"toId": grace.User.Id})
	if w.Code != http.StatusCreated {
		t.Fatalf("send request failed with %d: %s", w.Code, w.Body.String())
	}
	var request domain.FriendRequest
	json.Unmarshal(w.Body.Bytes(), &request)

	// duplicate in the other direction is rejected
	w = doJSON(t, router, "POST", "/api/friends/requests", grace.Token, gin.H{"toId": ada.User.Id})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for reverse duplicate, got %d", w.Code)
	}

	// recipient got notified
	if server.notifications.UnreadCount(grace.User.Id) != 1 {
		t.Errorf("expected a friend request notification")
	}

	// only the recipient may accept
	w = doJSON(t, router, "POST", "/api/friends/requests/"+request.Id.String()+"/accept", ada.Token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 when the sender accepts, got %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/api/friends/requests/"+request.Id.String()+"/accept", grace.Token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("accept failed with %d", w.Code)
	}

	// both sides now list each other
	w = doJSON(t, router, "GET", "/api/friends", ada.Token, nil)
	var friends []domain.User
	json.Unmarshal(w.Body.Bytes(), &friends)
	if len(friends) != 1 || friends[0].Id != grace.User.Id {
		t.Errorf("ada should have grace as friend: %v", friends)
	}

	w = doJSON(t, router, "GET", "/api/friends", grace.Token, nil)
	friends = nil
	json.Unmarshal(w.Body.Bytes(), &friends)
	if len(friends) != 1 || friends[0].Id != ada.User.Id {
		t.Errorf("grace should have ada as friend: %v", friends)
	}
}

func TestConversationEndpoints(t *testing.T) {
	router, _ := setupRouter(t)
	ada := signUpUser(t, router, "ada@example.com", "Ada")
	grace := signUpUser(t, router, "grace@example.com", "Grace")

	w := doJSON(t, router, "POST", "/api/conversations/"+grace.User.Id.String()+"/messages",
		ada.Token, gin.H{"text": "hi"})
	if w.Code != http.StatusCreated {
		t.Fatalf("send message failed with %d: %s", w.Code, w.Body.String())
	}
	var conversation domain.Conversation
	json.Unmarshal(w.Body.Bytes(), &conversation)

	// the reply lands in the same conversation
	w = doJSON(t, router, "POST", "/api/conversations/"+ada.User.Id.String()+"/messages",
		grace.Token, gin.H{"text": "hello"})
	var replied domain.Conversation
	json.Unmarshal(w.Body.Bytes(), &replied)
	if replied.Id != conversation.Id {
		t.Errorf("expected one conversation for the pair")
	}
	if len(replied.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(replied.Messages))
	}
	if replied.LastMessage != "hello" {
		t.Errorf("unexpected last message: %q", replied.LastMessage)
	}

	w = doJSON(t, router, "GET", "/api/conversations", ada.Token, nil)
	var conversations []domain.Conversation
	json.Unmarshal(w.Body.Bytes(), &conversations)
	if len(conversations) != 1 {
		t.Errorf("expected 1 conversation, got %d", len(conversations))
	}

	// empty message is rejected
	w = doJSON(t, router, "POST", "/api/conversations/"+grace.User.Id.String()+"/messages",
		ada.Token, gin.H{"text": "  "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty message, got %d", w.Code)
	}

	// no conversation with yourself
	w = doJSON(t, router, "POST", "/api/conversations/"+ada.User.Id.String()+"/messages",
		ada.Token, gin.H{"text": "dear diary"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for self message, got %d", w.Code)
	}
	w = doJSON(t, router, "GET", "/api/conversations/"+ada.User.Id.String(), ada.Token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for self conversation, got %d", w.Code)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	router, server := setupRouter(t)
	ada := signUpUser(t, router, "ada@example.com", "Ada")
	grace := signUpUser(t, router, "grace@example.com", "Grace")

	w := doJSON(t, router, "POST", "/api/posts", ada.Token, gin.H{"content": "notify me"})
	var post domain.Post
	json.Unmarshal(w.Body.Bytes(), &post)
	doJSON(t, router, "POST", "/api/posts/"+post.Id.String()+"/reaction", grace.Token, gin.H{"kind": "wow"})
	doJSON(t, router, "POST", "/api/posts/"+post.Id.String()+"/comments", grace.Token, gin.H{"text": "nice"})

	w = doJSON(t, router, "GET", "/api/notifications", ada.Token, nil)
	var listing struct {
		Notifications []domain.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unreadCount"`
	}
	json.Unmarshal(w.Body.Bytes(), &listing)
	if listing.UnreadCount != 2 || len(listing.Notifications) != 2 {
		t.Fatalf("expected 2 unread notifications, got %+v", listing)
	}

	w = doJSON(t, router, "POST", "/api/notifications/"+listing.Notifications[0].Id.String()+"/read", ada.Token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("mark read failed with %d", w.Code)
	}
	if server.notifications.UnreadCount(ada.User.Id) != 1 {
		t.Errorf("expected 1 unread after mark read")
	}

	doJSON(t, router, "POST", "/api/notifications/read-all", ada.Token, nil)
	if server.notifications.UnreadCount(ada.User.Id) != 0 {
		t.Errorf("expected 0 unread after read-all")
	}

	doJSON(t, router, "DELETE", "/api/notifications", ada.Token, nil)
	w = doJSON(t, router, "GET", "/api/notifications", ada.Token, nil)
	json.Unmarshal(w.Body.Bytes(), &listing)
	if len(listing.Notifications) != 0 {
		t.Errorf("expected empty notifications after clear")
	}
}
