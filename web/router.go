package web

import (
	"fmt"
	"log"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/minglehq/mingle/util"
)

// Router wires the JSON API and the public RSS feed onto a gin engine
// and serves it on the configured http port.
func Router(conf *util.AppConfig, server *Server) error {
	g := Routes(conf, server)

	log.Printf("Starting HTTP server on %s:%d", conf.Conf.Host, conf.Conf.HttpPort)
	err := g.Run(fmt.Sprintf(":%d", conf.Conf.HttpPort))
	if err != nil {
		return err
	}
	return nil
}

// Routes builds the engine without binding a port, so tests can drive
// it through httptest.
func Routes(conf *util.AppConfig, server *Server) *gin.Engine {
	g := gin.Default()
	g.Use(gzip.Gzip(gzip.DefaultCompression))

	// Global rate limiter: 10 requests per second per IP, burst of 20
	globalLimiter := NewRateLimiter(rate.Limit(10), 20)
	g.Use(RateLimitMiddleware(globalLimiter))

	// Max 1MB request body on everything that writes
	maxBodySize := MaxBytesMiddleware(1 * 1024 * 1024)

	// RSS feed, public
	g.GET("/feed", func(c *gin.Context) {
		c.Header("Content-Type", "application/xml; charset=utf-8")

		var authorId *uuid.UUID
		if author := c.Query("author"); author != "" {
			parsed, err := uuid.Parse(author)
			if err != nil {
				c.Render(404, render.String{Format: ""})
				return
			}
			authorId = &parsed
		}

		rss, err := GetRSS(conf, server.graph, server.feed, authorId)
		if err != nil {
			c.Render(404, render.String{Format: ""})
		} else {
			c.Render(200, render.String{Format: rss})
		}
	})

	g.GET("/feed/:id", func(c *gin.Context) {
		c.Header("Content-Type", "application/xml; charset=utf-8")
		feedId, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.Render(404, render.String{Format: ""})
			return
		}

		rssItem, err := GetRSSItem(conf, server.graph, server.feed, feedId)
		if err != nil {
			c.Render(404, render.String{Format: ""})
		} else {
			c.Render(200, render.String{Format: rssItem})
		}
	})

	api := g.Group("/api")

	api.POST("/signup", maxBodySize, server.handleSignUp)
	api.POST("/signin", maxBodySize, server.handleSignIn)

	authed := api.Group("", SessionAuth(server.auth))

	authed.POST("/signout", server.handleSignOut)
	authed.GET("/me", server.handleMe)
	authed.PUT("/me", maxBodySize, server.handleUpdateProfile)

	authed.GET("/users", server.handleListUsers)
	authed.GET("/users/:id", server.handleGetUser)

	authed.GET("/posts", server.handleListPosts)
	authed.POST("/posts", maxBodySize, server.handleCreatePost)
	authed.GET("/posts/:id", server.handleGetPost)
	authed.DELETE("/posts/:id", server.handleDeletePost)
	authed.POST("/posts/:id/reaction", maxBodySize, server.handleReaction)
	authed.POST("/posts/:id/comments", maxBodySize, server.handleAddComment)
	authed.POST("/posts/:id/comments/:commentId/like", server.handleToggleCommentLike)
	authed.DELETE("/posts/:id/comments/:commentId", server.handleDeleteComment)

	authed.GET("/friends", server.handleListFriends)
	authed.GET("/friends/requests", server.handleListFriendRequests)
	authed.POST("/friends/requests", maxBodySize, server.handleSendFriendRequest)
	authed.POST("/friends/requests/:id/accept", server.handleAcceptFriendRequest)
	authed.POST("/friends/requests/:id/reject", server.handleRejectFriendRequest)

	authed.GET("/conversations", server.handleListConversations)
	authed.GET("/conversations/:userId", server.handleGetConversation)
	authed.POST("/conversations/:userId/messages", maxBodySize, server.handleSendMessage)

	authed.GET("/notifications", server.handleListNotifications)
	authed.POST("/notifications/read-all", server.handleMarkAllNotificationsRead)
	authed.POST("/notifications/:id/read", server.handleMarkNotificationRead)
	authed.DELETE("/notifications/:id", server.handleRemoveNotification)
	authed.DELETE("/notifications", server.handleClearNotifications)

	return g
}
