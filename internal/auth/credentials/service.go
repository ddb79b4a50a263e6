package credentials

import (
	"context"
	"errors"

	"task-service/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
)

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, username, email, passwordHash string) (*user.User, error)
}

type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

func (s *Service) Register(
	ctx context.Context,
	username string,
	email string,
	password string,
) (*user.User, error) {

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, username, email, hash)
}

func (s *Service) Authenticate(
	ctx context.Context,
	username string,
	password string,
) (*user.User, error) {

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	// Same error whether the user is missing or the password is wrong.
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
