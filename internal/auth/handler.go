package auth

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/taskflow/internal/httputil"
	"github.com/redmonkez12/taskflow/internal/logging"
	"github.com/redmonkez12/taskflow/internal/user"
)

// Handler contains HTTP handlers for account endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SignUpRequest represents the signup request body
type SignUpRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req SignUpRequest) Validate() error {
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return httputil.Invalid("Full name, email, and password are required")
	}
	return nil
}

// SignInRequest represents the signin request body
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req SignInRequest) Validate() error {
	if req.Email == "" || req.Password == "" {
		return httputil.Invalid("Email and password are required")
	}
	return nil
}

// UpdateProfileRequest represents the profile update body. Bio is optional.
type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}

func (req UpdateProfileRequest) Validate() error {
	if req.FullName == "" || req.Email == "" {
		return httputil.Invalid("Full name and email are required")
	}
	return nil
}

// AccountResponse is the user summary returned on signin
type AccountResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// SignInResponse carries the bearer token for subsequent requests
type SignInResponse struct {
	Token string          `json:"token"`
	User  AccountResponse `json:"user"`
}

// ProfileResponse represents the current user's profile
type ProfileResponse struct {
	ID       int64   `json:"id"`
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Bio      *string `json:"bio"`
}

// SignUp handles account creation
// @Summary      Sign up
// @Description  Create a new account with full name, email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignUpRequest true "Account details"
// @Success      201 {object} httputil.CreatedResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid JSON, missing fields or email already exists"
// @Failure      500 {object} httputil.ErrorResponse "Database error"
// @Router       /api/signup [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignUpRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.SignUp(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			logger.Warn("signup failed: email already exists", "email", req.Email)
			httputil.RespondError(w, "Email already exists", http.StatusBadRequest)
			return
		}
		logger.Error("signup failed: internal error", "error", err.Error())
		httputil.RespondStorageError(w, err)
		return
	}

	logger.Info("user signed up", "user_id", created.ID)

	httputil.RespondJSON(w, httputil.CreatedResponse{ID: created.ID, Message: "User created"}, http.StatusCreated)
}

// SignIn handles login
// @Summary      Sign in
// @Description  Check credentials and return a bearer token for the Authorization header
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignInRequest true "Credentials"
// @Success      200 {object} SignInResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid JSON or missing fields"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorResponse "Database error"
// @Router       /api/signin [post]
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid signin request body", "error", err.Error())
		httputil.RespondError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, account, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("signin failed: invalid credentials", "email", req.Email)
			httputil.RespondError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		logger.Error("signin failed: internal error", "error", err.Error())
		httputil.RespondStorageError(w, err)
		return
	}

	logger.Info("user signed in", "user_id", account.ID)

	httputil.RespondJSON(w, SignInResponse{
		Token: token,
		User: AccountResponse{
			ID:       account.ID,
			FullName: account.FullName,
			Email:    account.Email,
		},
	}, http.StatusOK)
}

// GetProfile returns the authenticated user's profile
// @Summary      Current user
// @Tags         user
// @Produce      json
// @Security     TokenAuth
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Database error"
// @Router       /api/user [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, _ := GetUserIDFromContext(r.Context())

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondError(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to load profile", "error", err.Error())
		httputil.RespondStorageError(w, err)
		return
	}

	httputil.RespondJSON(w, toProfileResponse(profile), http.StatusOK)
}

// UpdateProfile replaces the authenticated user's name, email and bio
// @Summary      Update current user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body UpdateProfileRequest true "Profile"
// @Success      200 {object} ProfileResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid JSON, missing fields or email already exists"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Database error"
// @Router       /api/user [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, _ := GetUserIDFromContext(r.Context())

	var req UpdateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid profile request body", "error", err.Error())
		httputil.RespondError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), userID, req.FullName, req.Email, req.Bio)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			httputil.RespondError(w, "Email already exists", http.StatusBadRequest)
		case errors.Is(err, user.ErrNotFound):
			httputil.RespondError(w, "User not found", http.StatusNotFound)
		default:
			logger.Error("failed to update profile", "error", err.Error())
			httputil.RespondStorageError(w, err)
		}
		return
	}

	logger.Info("profile updated")

	httputil.RespondJSON(w, toProfileResponse(updated), http.StatusOK)
}

func toProfileResponse(u *user.User) ProfileResponse {
	return ProfileResponse{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Bio:      u.Bio,
	}
}
