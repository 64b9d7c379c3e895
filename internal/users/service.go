// Package users handles registration, login, and identity lookup.
package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lucasnneto/book-api/internal/auth"
	"github.com/lucasnneto/book-api/internal/entities"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUserExists       = errors.New("username already taken")
	ErrUserNotFound     = errors.New("user not found")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so a login failure never discloses whether the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Store is the user persistence contract. Create returns ErrUserExists when
// the username is taken; lookups return ErrUserNotFound when absent.
type Store interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entities.User, error)
}

// Service handles account registration and stateless login.
type Service struct {
	store      Store
	tokens     *auth.Tokens
	bcryptCost int
}

// NewService creates a user service.
func NewService(store Store, tokens *auth.Tokens, bcryptCost int) *Service {
	return &Service{store: store, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a new account. The raw password is hashed before it ever
// reaches the store and is cleared from the returned record.
func (s *Service) Register(ctx context.Context, username, password string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	created, err := s.store.Create(ctx, &entities.User{Username: username, Password: hash})
	if err != nil {
		return nil, err
	}
	created.Password = ""
	return created, nil
}

// Login verifies the credentials and issues a bearer token carrying the
// user id as subject.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" {
		return "", ErrUsernameRequired
	}
	if password == "" {
		return "", ErrPasswordRequired
	}

	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := auth.CheckPassword(password, user.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("verifying password: %w", err)
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}
	return token, nil
}

// Me returns the account behind an authenticated user id.
func (s *Service) Me(ctx context.Context, userID string) (*entities.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}
