// Package accounts implements player registration and login on top of the
// score store's users table. Passwords are stored as bcrypt hashes.
package accounts

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// Roles.
const (
	RoleAdmin     = "admin"
	RolePlayer    = "player"
	RoleAnonymous = "anonymous"
)

// GuestName is the identity used when nobody logs in.
const GuestName = "guest"

// Seeded administrator credentials, created on first open.
const (
	defaultAdminName     = "admin"
	defaultAdminPassword = "admin"
)

// Domain errors.
var (
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("username must not be empty")
	ErrInvalidPassword    = errors.New("password must not be empty")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrReservedUsername   = errors.New("username is reserved")
)

// Identity is the logged-in player shown in the UI and recorded with results.
type Identity struct {
	Username string
	Role     string
}

// IsAdmin reports whether the identity may open the level editor.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// IsGuest reports whether the identity is the anonymous guest.
func (id Identity) IsGuest() bool {
	return id.Role == RoleAnonymous
}

// UserStore is the persistence the service needs.
type UserStore interface {
	CreateUser(username, passwordHash, role string) error
	User(username string) (*storage.User, error)
	TouchLogin(username string) error
	CountUsers() (int, error)
}

// Service registers and authenticates players.
type Service struct {
	store UserStore
	cost  int
}

// NewService creates a service and seeds the admin account into an empty store.
func NewService(store UserStore) (*Service, error) {
	return newService(store, bcrypt.DefaultCost)
}

func newService(store UserStore, cost int) (*Service, error) {
	s := &Service{store: store, cost: cost}

	n, err := store.CountUsers()
	if err != nil {
		return nil, fmt.Errorf("accounts: %w", err)
	}
	if n == 0 {
		hash, err := s.hash(defaultAdminPassword)
		if err != nil {
			return nil, err
		}
		err = store.CreateUser(defaultAdminName, hash, RoleAdmin)
		if err != nil && !errors.Is(err, storage.ErrDuplicateUser) {
			return nil, fmt.Errorf("accounts: seeding admin: %w", err)
		}
	}
	return s, nil
}

// Register creates a player account. The username is trimmed; the password
// is kept exactly as typed.
func (s *Service) Register(username, password string) (Identity, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return Identity{}, ErrInvalidUsername
	}
	if strings.TrimSpace(password) == "" {
		return Identity{}, ErrInvalidPassword
	}
	if strings.EqualFold(username, GuestName) {
		return Identity{}, ErrReservedUsername
	}

	hash, err := s.hash(password)
	if err != nil {
		return Identity{}, err
	}

	if err := s.store.CreateUser(username, hash, RolePlayer); err != nil {
		if errors.Is(err, storage.ErrDuplicateUser) {
			return Identity{}, ErrUserExists
		}
		return Identity{}, fmt.Errorf("accounts: %w", err)
	}
	return Identity{Username: username, Role: RolePlayer}, nil
}

// Authenticate checks credentials and records the login.
func (s *Service) Authenticate(username, password string) (Identity, error) {
	username = strings.TrimSpace(username)

	u, err := s.store.User(username)
	if errors.Is(err, storage.ErrNoUser) {
		return Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, fmt.Errorf("accounts: %w", err)
	}

	if !CheckPassword(u.PasswordHash, password) {
		return Identity{}, ErrInvalidCredentials
	}

	if err := s.store.TouchLogin(u.Username); err != nil {
		return Identity{}, fmt.Errorf("accounts: %w", err)
	}
	return Identity{Username: u.Username, Role: u.Role}, nil
}

// Guest returns the anonymous identity.
func Guest() Identity {
	return Identity{Username: GuestName, Role: RoleAnonymous}
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("accounts: hashing password: %w", err)
	}
	return string(b), nil
}

// CheckPassword compares a bcrypt hash with its possible plaintext.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
