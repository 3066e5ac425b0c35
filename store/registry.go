package store

import (
	"sync"

	"github.com/minglehq/mingle/db"
)

// App bundles the four stores over the shared database. The ssh and
// http surfaces must see the same instances, the feed and the
// notifications live in memory only.
type App struct {
	Graph         *SocialGraph
	Feed          *Feed
	Conversations *Conversations
	Notifications *Notifications
}

var (
	appOnce sync.Once
	app     *App
)

func Get() *App {
	appOnce.Do(func() {
		database := db.GetDB()
		app = &App{
			Graph:         NewSocialGraph(database),
			Feed:          NewFeed(),
			Conversations: NewConversations(database),
			Notifications: NewNotifications(),
		}
	})
	return app
}
