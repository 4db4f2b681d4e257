package auth

import (
	"context"

	"github.com/redmonkez12/taskflow/internal/user"
)

// TokenService defines the interface for token creation and validation.
// Implementations: PlainTokenService (default), PasetoService (v4.local) and
// JWTService (HS256).
type TokenService interface {
	CreateToken(userID int64) (string, error)
	VerifyToken(tokenStr string) (int64, error)
}

// PasswordHasher turns plaintext passwords into stored digests and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) bool
}

// UserRepository is the subset of user persistence the auth flows need.
type UserRepository interface {
	Create(ctx context.Context, fullName, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	UpdateProfile(ctx context.Context, id int64, fullName, email, bio string) error
}
