package domain

import (
	"fmt"
	"github.com/google/uuid"
	"time"
)

const (
	FALSE dbBool = iota
	TRUE
)

type dbBool uint

type User struct {
	Id             uuid.UUID   `json:"id"`
	Email          string      `json:"email"`
	Name           string      `json:"name"`
	Avatar         string      `json:"avatar"`
	Bio            string      `json:"bio"`
	Location       string      `json:"location"`
	Website        string      `json:"website"`
	Interests      []string    `json:"interests"`
	Friends        []uuid.UUID `json:"friends"`
	AuthProvider   string      `json:"authProvider"`
	PkHash         string      `json:"pkHash,omitempty"`
	FirstTimeLogin dbBool      `json:"firstTimeLogin"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// AddFriend appends a friend id, skipping duplicates and the user's own id.
func (u *User) AddFriend(id uuid.UUID) {
	if id == u.Id {
		return
	}
	for _, f := range u.Friends {
		if f == id {
			return
		}
	}
	u.Friends = append(u.Friends, id)
}

func (u *User) HasFriend(id uuid.UUID) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

func (u *User) ToString() string {
	return fmt.Sprintf("\n\tId: %s \n\tName: %s \n\tEmail: %s \n\tCREATED_AT: %s)", u.Id, u.Name, u.Email, u.CreatedAt)
}

type FriendRequest struct {
	Id        uuid.UUID `json:"id"`
	FromId    uuid.UUID `json:"fromId"`
	ToId      uuid.UUID `json:"toId"`
	CreatedAt time.Time `json:"timestamp"`
}

// SamePair reports whether the request connects the given unordered pair.
func (r *FriendRequest) SamePair(a, b uuid.UUID) bool {
	return (r.FromId == a && r.ToId == b) || (r.FromId == b && r.ToId == a)
}
