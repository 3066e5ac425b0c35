package auth

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/minglehq/mingle/db"
	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/util"
)

// ExternalProfile is what a third-party identity provider hands back.
type ExternalProfile struct {
	Email  string
	Name   string
	Avatar string
}

// ExternalProvider is the black-box side of provider sign-in. The caller
// never sees provider internals, only a profile or one error message.
type ExternalProvider interface {
	Name() string
	Profile() (error, *ExternalProfile)
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrMissingFields      = errors.New("email, password and name are required")
	ErrProfileNotFound    = errors.New("user profile not found")
)

// Service wraps sign-up/sign-in/sign-out around the social graph.
// Password hashes live in their own blob; sessions are process-local.
type Service struct {
	mu          sync.Mutex
	database    *db.DB
	graph       *store.SocialGraph
	credentials map[string]string    // lowercased email -> bcrypt hash
	sessions    map[string]uuid.UUID // token -> user id
}

func NewService(database *db.DB, graph *store.SocialGraph) *Service {
	s := &Service{
		database:    database,
		graph:       graph,
		credentials: make(map[string]string),
		sessions:    make(map[string]uuid.UUID),
	}

	err, raw := database.ReadBlob(db.BlobCredentials)
	if err == nil && raw != nil {
		if err := json.Unmarshal(raw, &s.credentials); err != nil {
			log.Printf("Malformed credentials blob, starting empty: %v", err)
			s.credentials = make(map[string]string)
		}
	}
	return s
}

func (s *Service) persistCredentials() error {
	raw, err := json.Marshal(s.credentials)
	if err != nil {
		return err
	}
	return s.database.WriteBlob(db.BlobCredentials, raw)
}

// SignUp registers an email/password account and creates the profile.
func (s *Service) SignUp(email, password, name string) (error, *domain.User) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || strings.TrimSpace(name) == "" {
		return ErrMissingFields, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.credentials[email]; taken {
		return ErrEmailTaken, nil
	}
	if _, existing := s.graph.ReadUserByEmail(email); existing != nil {
		return ErrEmailTaken, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err, nil
	}

	err, user := s.graph.CreateUser(domain.User{
		Email:        email,
		Name:         name,
		Avatar:       util.AvatarURL(email),
		AuthProvider: "email",
	})
	if err != nil {
		return err, nil
	}
	if user == nil {
		return ErrEmailTaken, nil
	}

	s.credentials[email] = string(hash)
	if err := s.persistCredentials(); err != nil {
		return err, nil
	}
	return nil, user
}

// SignIn checks the password and returns the stored profile.
func (s *Service) SignIn(email, password string) (error, *domain.User) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	hash, ok := s.credentials[email]
	s.mu.Unlock()
	if !ok {
		return ErrInvalidCredentials, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials, nil
	}

	_, user := s.graph.ReadUserByEmail(email)
	if user == nil {
		return ErrProfileNotFound, nil
	}
	return nil, user
}

// SignInWithProvider runs the external flow: an existing profile is
// returned as-is, a first-time sign-in creates one from the provider's
// profile.
func (s *Service) SignInWithProvider(provider ExternalProvider) (error, *domain.User) {
	err, profile := provider.Profile()
	if err != nil {
		return err, nil
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	_, user := s.graph.ReadUserByEmail(email)
	if user != nil {
		return nil, user
	}

	name := profile.Name
	if name == "" {
		name = "User"
	}
	avatar := profile.Avatar
	if avatar == "" {
		avatar = util.AvatarURL(email)
	}

	err, user = s.graph.CreateUser(domain.User{
		Email:        email,
		Name:         name,
		Avatar:       avatar,
		AuthProvider: provider.Name(),
	})
	if err != nil {
		return err, nil
	}
	if user == nil {
		return ErrEmailTaken, nil
	}
	return nil, user
}

// CreateSession hands out an opaque token for a signed-in user.
func (s *Service) CreateSession(userId uuid.UUID) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = userId
	s.mu.Unlock()
	return token
}

// ResolveSession maps a token back to its user, or nil.
func (s *Service) ResolveSession(token string) (error, *domain.User) {
	s.mu.Lock()
	userId, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return s.graph.ReadUserById(userId)
}

// SignOut drops the session. Unknown tokens are a no-op.
func (s *Service) SignOut(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
