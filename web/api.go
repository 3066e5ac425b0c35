package web

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minglehq/mingle/auth"
	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/media"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/util"
)

// Server bundles the stores behind the HTTP surface.
type Server struct {
	conf          *util.AppConfig
	auth          *auth.Service
	graph         *store.SocialGraph
	feed          *store.Feed
	conversations *store.Conversations
	notifications *store.Notifications
}

func NewServer(conf *util.AppConfig, authSvc *auth.Service, graph *store.SocialGraph,
	feed *store.Feed, conversations *store.Conversations, notifications *store.Notifications) *Server {
	return &Server{
		conf:          conf,
		auth:          authSvc,
		graph:         graph,
		feed:          feed,
		conversations: conversations,
		notifications: notifications,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) handleSignUp(c *gin.Context) {
	if s.conf.Conf.Closed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Sign ups are closed"})
		return
	}

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err, user := s.auth.SignUp(req.Email, req.Password, req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := s.auth.CreateSession(user.Id)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (s *Server) handleSignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err, user := s.auth.SignIn(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	token := s.auth.CreateSession(user.Id)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (s *Server) handleSignOut(c *gin.Context) {
	if token := c.GetString("token"); token != "" {
		s.auth.SignOut(token)
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

type profileRequest struct {
	Name      *string   `json:"name"`
	Avatar    *string   `json:"avatar"`
	Bio       *string   `json:"bio"`
	Location  *string   `json:"location"`
	Website   *string   `json:"website"`
	Interests *[]string `json:"interests"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	user := currentUser(c)

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := s.graph.UpdateProfile(user.Id, store.ProfileUpdate{
		Name:      req.Name,
		Avatar:    req.Avatar,
		Bio:       req.Bio,
		Location:  req.Location,
		Website:   req.Website,
		Interests: req.Interests,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save profile"})
		return
	}

	_, updated := s.graph.ReadUserById(user.Id)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.graph.ReadAllUsers())
}

func (s *Server) handleGetUser(c *gin.Context) {
	userId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	_, user := s.graph.ReadUserById(userId)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type mediaUpload struct {
	Filename string `json:"filename"`
	Data     string `json:"data"` // base64
}

type postRequest struct {
	Content string        `json:"content"`
	Media   []mediaUpload `json:"media"`
}

func (s *Server) handleCreatePost(c *gin.Context) {
	user := currentUser(c)

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	uploads := make([]media.Upload, 0, len(req.Media))
	for _, m := range req.Media {
		data, err := base64.StdEncoding.DecodeString(m.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media encoding"})
			return
		}
		uploads = append(uploads, media.Upload{Filename: m.Filename, Data: data})
	}

	err, attachments := media.ResolveAll(uploads)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err, post := s.feed.CreatePost(user.Id, req.Content, attachments)
	if err != nil || post == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A post needs text or media"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (s *Server) handleListPosts(c *gin.Context) {
	if author := c.Query("author"); author != "" {
		authorId, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author id"})
			return
		}
		c.JSON(http.StatusOK, s.feed.ReadPostsByAuthor(authorId))
		return
	}
	c.JSON(http.StatusOK, s.feed.ReadPosts())
}

func (s *Server) handleGetPost(c *gin.Context) {
	post := s.postFromPath(c)
	if post == nil {
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) handleDeletePost(c *gin.Context) {
	user := currentUser(c)
	post := s.postFromPath(c)
	if post == nil {
		return
	}
	if post.AuthorId != user.Id {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete a post"})
		return
	}
	if err := s.feed.DeletePost(post.Id, user.Id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete post"})
		return
	}
	c.Status(http.StatusNoContent)
}

type reactionRequest struct {
	Kind domain.ReactionKind `json:"kind"`
}

func (s *Server) handleReaction(c *gin.Context) {
	user := currentUser(c)
	post := s.postFromPath(c)
	if post == nil {
		return
	}

	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Kind != domain.ReactionNone && !domain.ValidReaction(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown reaction"})
		return
	}

	if err := s.feed.SetReaction(post.Id, user.Id, req.Kind); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save reaction"})
		return
	}

	_, updated := s.feed.ReadPostById(post.Id)
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if _, nowSet := updated.Reactions[user.Id]; nowSet {
		s.notifyPost(user, updated, domain.NotifyReaction, "reacted to your post")
	}
	c.JSON(http.StatusOK, updated)
}

type commentRequest struct {
	Text     string     `json:"text"`
	ParentId *uuid.UUID `json:"parentId"`
}

func (s *Server) handleAddComment(c *gin.Context) {
	user := currentUser(c)
	post := s.postFromPath(c)
	if post == nil {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty"})
		return
	}
	if req.ParentId != nil && findCommentIn(post.Comments, *req.ParentId) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var err error
	if req.ParentId != nil {
		err = s.feed.AddReply(post.Id, *req.ParentId, user.Id, req.Text)
	} else {
		err = s.feed.AddComment(post.Id, user.Id, req.Text)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save comment"})
		return
	}

	if req.ParentId != nil {
		s.notifyPost(user, post, domain.NotifyReply, "replied to a comment on your post")
	} else {
		s.notifyPost(user, post, domain.NotifyComment, "commented on your post")
	}
	_, updated := s.feed.ReadPostById(post.Id)
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusCreated, updated)
}

func (s *Server) handleToggleCommentLike(c *gin.Context) {
	user := currentUser(c)
	post := s.postFromPath(c)
	if post == nil {
		return
	}
	comment := s.commentFromPath(c, post)
	if comment == nil {
		return
	}

	if err := s.feed.ToggleCommentLike(post.Id, comment.Id, user.Id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save like"})
		return
	}
	_, updated := s.feed.ReadPostById(post.Id)
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, findCommentIn(updated.Comments, comment.Id))
}

func (s *Server) handleDeleteComment(c *gin.Context) {
	user := currentUser(c)
	post := s.postFromPath(c)
	if post == nil {
		return
	}
	comment := s.commentFromPath(c, post)
	if comment == nil {
		return
	}
	if comment.AuthorId != user.Id {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete a comment"})
		return
	}

	if err := s.feed.DeleteComment(post.Id, comment.Id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete comment"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) postFromPath(c *gin.Context) *domain.Post {
	postId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return nil
	}
	_, post := s.feed.ReadPostById(postId)
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return nil
	}
	return post
}

func (s *Server) commentFromPath(c *gin.Context, post *domain.Post) *domain.Comment {
	commentId, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return nil
	}
	comment := findCommentIn(post.Comments, commentId)
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return nil
	}
	return comment
}

// findCommentIn walks the comment tree depth-first.
func findCommentIn(comments []domain.Comment, id uuid.UUID) *domain.Comment {
	for i := range comments {
		if comments[i].Id == id {
			return &comments[i]
		}
		if found := findCommentIn(comments[i].Replies, id); found != nil {
			return found
		}
	}
	return nil
}

func (s *Server) handleListFriends(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, s.graph.ReadFriends(user.Id))
}

func (s *Server) handleListFriendRequests(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"incoming": s.graph.ReadIncomingRequests(user.Id),
		"outgoing": s.graph.ReadOutgoingRequests(user.Id),
	})
}

type friendRequestRequest struct {
	ToId uuid.UUID `json:"toId"`
}

func (s *Server) handleSendFriendRequest(c *gin.Context) {
	user := currentUser(c)

	var req friendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	before := len(s.graph.ReadOutgoingRequests(user.Id))
	if err := s.graph.SendFriendRequest(user.Id, req.ToId); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not send request"})
		return
	}
	outgoing := s.graph.ReadOutgoingRequests(user.Id)
	if len(outgoing) == before {
		// self, unknown user, already friends, or already pending
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request not possible"})
		return
	}

	s.notifications.Notify(req.ToId, domain.NotifyFriendRequest, *user, "sent you a friend request", nil)
	c.JSON(http.StatusCreated, outgoing[len(outgoing)-1])
}

func (s *Server) handleAcceptFriendRequest(c *gin.Context) {
	user := currentUser(c)
	request := s.incomingRequestFromPath(c, user)
	if request == nil {
		return
	}

	if err := s.graph.AcceptFriendRequest(request.Id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not accept request"})
		return
	}

	s.notifications.Notify(request.FromId, domain.NotifyFriendRequest, *user, "accepted your friend request", nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRejectFriendRequest(c *gin.Context) {
	user := currentUser(c)
	request := s.incomingRequestFromPath(c, user)
	if request == nil {
		return
	}

	if err := s.graph.RejectFriendRequest(request.Id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not reject request"})
		return
	}
	c.Status(http.StatusNoContent)
}

// incomingRequestFromPath resolves the request id and checks it is
// addressed to the signed-in user. Requests sent by others to others
// look like 404s here on purpose.
func (s *Server) incomingRequestFromPath(c *gin.Context, user *domain.User) *domain.FriendRequest {
	requestId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return nil
	}
	for _, r := range s.graph.ReadIncomingRequests(user.Id) {
		if r.Id == requestId {
			request := r
			return &request
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
	return nil
}

func (s *Server) handleListConversations(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, s.conversations.ReadConversationsFor(user.Id))
}

func (s *Server) handleGetConversation(c *gin.Context) {
	user := currentUser(c)
	otherId, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if otherId == user.Id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}
	if _, other := s.graph.ReadUserById(otherId); other == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	err, conversation := s.conversations.GetOrCreateConversation(user.Id, otherId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load conversation"})
		return
	}
	c.JSON(http.StatusOK, conversation)
}

type messageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSendMessage(c *gin.Context) {
	user := currentUser(c)
	otherId, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if otherId == user.Id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}
	if _, other := s.graph.ReadUserById(otherId); other == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	err, conversation := s.conversations.GetOrCreateConversation(user.Id, otherId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load conversation"})
		return
	}
	if err := s.conversations.SendMessage(conversation.Id, user.Id, req.Text); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not send message"})
		return
	}

	err, updated := s.conversations.ReadConversation(conversation.Id)
	if err != nil || updated == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load conversation"})
		return
	}
	c.JSON(http.StatusCreated, updated)
}

func (s *Server) handleListNotifications(c *gin.Context) {
	user := currentUser(c)
	onlyUnread := c.Query("unread") == "true"
	c.JSON(http.StatusOK, gin.H{
		"notifications": s.notifications.ReadFiltered(user.Id, onlyUnread),
		"unreadCount":   s.notifications.UnreadCount(user.Id),
	})
}

func (s *Server) handleMarkNotificationRead(c *gin.Context) {
	user := currentUser(c)
	notificationId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	s.notifications.MarkRead(user.Id, notificationId)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMarkAllNotificationsRead(c *gin.Context) {
	s.notifications.MarkAllRead(currentUser(c).Id)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRemoveNotification(c *gin.Context) {
	user := currentUser(c)
	notificationId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	s.notifications.Remove(user.Id, notificationId)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClearNotifications(c *gin.Context) {
	s.notifications.ClearAll(currentUser(c).Id)
	c.Status(http.StatusNoContent)
}

func (s *Server) notifyPost(actor *domain.User, post *domain.Post, ntype domain.NotificationType, message string) {
	postId := post.Id
	s.notifications.Notify(post.AuthorId, ntype, *actor, message, &postId)
}
