package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/redmonkez12/taskflow/internal/httputil"
	"github.com/redmonkez12/taskflow/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const UserIDContextKey ContextKey = "user_id"

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// RequireAuth verifies the raw token in the Authorization header. Any failure
// ends the request with 401; on success the user id is put in the context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		userID, err := m.tokenService.VerifyToken(r.Header.Get("Authorization"))
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				logger.Debug("rejected expired token")
			} else {
				logger.Debug("rejected token", "error", err.Error())
			}
			httputil.RespondError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		logging.AddFields(r.Context(), map[string]any{"user_id": userID})

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(int64)
	return userID, ok
}

// WithUserID returns ctx carrying userID as RequireAuth would.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}
