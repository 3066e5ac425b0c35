package common

type SessionState uint

const (
	WritePostView SessionState = iota
	FeedView
	CreateUserView
	UpdateFeed
	MembersView
	RequestsView
	FriendsView
	MessagesView
	NotificationsView
)
