package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redmonkez12/taskflow/internal/user"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Service handles account business logic
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenService
}

func NewService(users UserRepository, hasher PasswordHasher, tokens TokenService) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// SignUp stores a new account. A taken email yields user.ErrDuplicateEmail.
func (s *Service) SignUp(ctx context.Context, fullName, email, password string) (*user.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, fullName, email, digest)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// SignIn checks the credentials and issues a token for the matching user.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *user.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Compare(existing.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create token: %w", err)
	}

	return token, existing, nil
}

// Profile returns the public columns of the user.
func (s *Service) Profile(ctx context.Context, userID int64) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile overwrites name, email and bio and returns the new profile.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, fullName, email, bio string) (*user.User, error) {
	if err := s.users.UpdateProfile(ctx, userID, fullName, email, bio); err != nil {
		return nil, err
	}

	return &user.User{
		ID:       userID,
		FullName: fullName,
		Email:    email,
		Bio:      &bio,
	}, nil
}
