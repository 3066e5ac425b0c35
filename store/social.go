package store

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minglehq/mingle/db"
	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/util"
)

// SocialGraph owns the User and FriendRequest lifecycles. It is the
// in-memory source of truth; every mutation mirrors the full collection
// to the persistence adapter before returning.
type SocialGraph struct {
	mu       sync.RWMutex
	database *db.DB
	users    []domain.User
	requests []domain.FriendRequest
}

func NewSocialGraph(database *db.DB) *SocialGraph {
	g := &SocialGraph{database: database}
	g.users = loadCollection[domain.User](database, db.BlobUsers)
	g.requests = loadCollection[domain.FriendRequest](database, db.BlobFriendRequests)
	return g
}

// loadCollection reads a blob into a slice. A missing or malformed blob
// reads as an empty collection.
func loadCollection[T any](database *db.DB, key string) []T {
	err, raw := database.ReadBlob(key)
	if err != nil || raw == nil {
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("Malformed %s blob, starting empty: %v", key, err)
		return nil
	}
	return items
}

func persistCollection[T any](database *db.DB, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return database.WriteBlob(key, raw)
}

func (g *SocialGraph) persistUsers() error {
	return persistCollection(g.database, db.BlobUsers, g.users)
}

func (g *SocialGraph) persistRequests() error {
	return persistCollection(g.database, db.BlobFriendRequests, g.requests)
}

// CreateUser registers a new user. An empty name or a taken email is
// rejected; the id is assigned here when the caller left it unset.
func (g *SocialGraph) CreateUser(user domain.User) (error, *domain.User) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if strings.TrimSpace(user.Name) == "" {
		return nil, nil
	}
	if user.Email != "" {
		for i := range g.users {
			if strings.EqualFold(g.users[i].Email, user.Email) {
				return nil, nil
			}
		}
	}
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	if user.Avatar == "" {
		user.Avatar = util.AvatarURL(user.Email)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	g.users = append(g.users, user)
	if err := g.persistUsers(); err != nil {
		return err, nil
	}
	saved := user
	return nil, &saved
}

func (g *SocialGraph) ReadUserById(id uuid.UUID) (error, *domain.User) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return nil, g.findUser(id)
}

func (g *SocialGraph) ReadUserByEmail(email string) (error, *domain.User) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for i := range g.users {
		if strings.EqualFold(g.users[i].Email, email) {
			u := g.users[i]
			return nil, &u
		}
	}
	return nil, nil
}

func (g *SocialGraph) ReadUserByPkHash(pkHash string) (error, *domain.User) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for i := range g.users {
		if g.users[i].PkHash == pkHash {
			u := g.users[i]
			return nil, &u
		}
	}
	return nil, nil
}

func (g *SocialGraph) ReadAllUsers() []domain.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.User, len(g.users))
	copy(out, g.users)
	return out
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Name      *string
	Avatar    *string
	Bio       *string
	Location  *string
	Website   *string
	Interests *[]string
}

func (g *SocialGraph) UpdateProfile(userId uuid.UUID, update ProfileUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	user := g.findUserRef(userId)
	if user == nil {
		return nil
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
		user.Name = *update.Name
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	if update.Website != nil {
		user.Website = *update.Website
	}
	if update.Interests != nil {
		user.Interests = *update.Interests
	}
	return g.persistUsers()
}

// UpdateLoginById completes a first-time ssh login by setting the chosen
// display name.
func (g *SocialGraph) UpdateLoginById(name string, id uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	user := g.findUserRef(id)
	if user == nil {
		return nil
	}
	if strings.TrimSpace(name) != "" {
		user.Name = name
	}
	user.FirstTimeLogin = domain.FALSE
	return g.persistUsers()
}

// SendFriendRequest appends a pending request. It no-ops when the pair is
// already connected, already has a pending request in either direction,
// or when a user asks to befriend themselves.
func (g *SocialGraph) SendFriendRequest(fromId, toId uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if fromId == toId {
		return nil
	}
	from := g.findUserRef(fromId)
	to := g.findUserRef(toId)
	if from == nil || to == nil {
		return nil
	}
	if from.HasFriend(toId) {
		return nil
	}
	for i := range g.requests {
		if g.requests[i].SamePair(fromId, toId) {
			return nil
		}
	}

	g.requests = append(g.requests, domain.FriendRequest{
		Id:        uuid.New(),
		FromId:    fromId,
		ToId:      toId,
		CreatedAt: time.Now(),
	})
	return g.persistRequests()
}

// AcceptFriendRequest adds each party to the other's friend list and
// removes the request. Both sides are updated before anything persists,
// so the caller observes both or neither.
func (g *SocialGraph) AcceptFriendRequest(requestId uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := -1
	for i := range g.requests {
		if g.requests[i].Id == requestId {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	request := g.requests[idx]

	from := g.findUserRef(request.FromId)
	to := g.findUserRef(request.ToId)
	if from != nil && to != nil {
		from.AddFriend(to.Id)
		to.AddFriend(from.Id)
	}
	g.requests = append(g.requests[:idx], g.requests[idx+1:]...)

	if err := g.persistUsers(); err != nil {
		return err
	}
	return g.persistRequests()
}

// RejectFriendRequest removes the request unconditionally if present.
func (g *SocialGraph) RejectFriendRequest(requestId uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.requests {
		if g.requests[i].Id == requestId {
			g.requests = append(g.requests[:i], g.requests[i+1:]...)
			return g.persistRequests()
		}
	}
	return nil
}

// ReadFriends resolves a user's friend ids to users, skipping dangling ids.
func (g *SocialGraph) ReadFriends(userId uuid.UUID) []domain.User {
	g.mu.RLock()
	defer g.mu.RUnlock()

	user := g.findUser(userId)
	if user == nil {
		return nil
	}
	var friends []domain.User
	for _, id := range user.Friends {
		if friend := g.findUser(id); friend != nil {
			friends = append(friends, *friend)
		}
	}
	return friends
}

func (g *SocialGraph) ReadIncomingRequests(userId uuid.UUID) []domain.FriendRequest {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var incoming []domain.FriendRequest
	for _, r := range g.requests {
		if r.ToId == userId {
			incoming = append(incoming, r)
		}
	}
	return incoming
}

func (g *SocialGraph) ReadOutgoingRequests(userId uuid.UUID) []domain.FriendRequest {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var outgoing []domain.FriendRequest
	for _, r := range g.requests {
		if r.FromId == userId {
			outgoing = append(outgoing, r)
		}
	}
	return outgoing
}

// findUser returns a copy, findUserRef the live entry. Callers of
// findUserRef hold the write lock.
func (g *SocialGraph) findUser(id uuid.UUID) *domain.User {
	for i := range g.users {
		if g.users[i].Id == id {
			u := g.users[i]
			return &u
		}
	}
	return nil
}

func (g *SocialGraph) findUserRef(id uuid.UUID) *domain.User {
	for i := range g.users {
		if g.users[i].Id == id {
			return &g.users[i]
		}
	}
	return nil
}
