package auth

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redmonkez12/taskflow/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// NewTokenService builds the token service selected by cfg.TokenFormat.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenFormat {
	case config.TokenFormatPlain:
		return NewPlainTokenService(cfg.TokenTTL), nil
	case config.TokenFormatPaseto:
		return NewPasetoService(cfg.PasetoKey, cfg.TokenTTL)
	case config.TokenFormatJWT:
		return NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	default:
		return nil, fmt.Errorf("unsupported token format %q", cfg.TokenFormat)
	}
}

// PlainTokenService issues "<user_id>:<unix_seconds>" tokens.
//
// The token carries no signature. Anyone who can write a well-formed value can
// act as any user id until it expires. It is kept as the default because the
// browser client stores and replays this exact format; set
// AUTH_TOKEN_FORMAT=paseto or jwt for signed tokens.
type PlainTokenService struct {
	ttl time.Duration
	now func() time.Time
}

func NewPlainTokenService(ttl time.Duration) *PlainTokenService {
	return &PlainTokenService{ttl: ttl, now: time.Now}
}

// CreateToken never fails.
func (s *PlainTokenService) CreateToken(userID int64) (string, error) {
	return fmt.Sprintf("%d:%d", userID, s.now().Unix()), nil
}

// VerifyToken returns the embedded user id. The token is expired only when
// issued_at + ttl is strictly before now.
func (s *PlainTokenService) VerifyToken(tokenStr string) (int64, error) {
	if tokenStr == "" {
		return 0, ErrInvalidToken
	}

	parts := strings.Split(tokenStr, ":")
	if len(parts) != 2 {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}

	issuedAt, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	ttl := int64(s.ttl / time.Second)
	if issuedAt <= math.MaxInt64-ttl && issuedAt+ttl < s.now().Unix() {
		return 0, ErrExpiredToken
	}

	return userID, nil
}
