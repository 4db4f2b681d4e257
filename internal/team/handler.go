package team

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/taskflow/internal/httputil"
	"github.com/redmonkez12/taskflow/internal/logging"
)

// Handler serves the shared team directory
type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// AddMemberRequest is the body of POST /api/team
type AddMemberRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (req AddMemberRequest) Validate() error {
	if req.FullName == "" || req.Email == "" {
		return httputil.Invalid("Full name and email are required")
	}
	return nil
}

// List returns every team member
// @Summary      List team members
// @Tags         team
// @Produce      json
// @Security     TokenAuth
// @Success      200 {array}  Member
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Database error"
// @Router       /api/team [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.repo.List(r.Context())
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to list team", "error", err.Error())
		httputil.RespondStorageError(w, err)
		return
	}

	httputil.RespondJSON(w, members, http.StatusOK)
}

// Create adds a member to the directory
// @Summary      Add team member
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body AddMemberRequest true "Member"
// @Success      201 {object} httputil.CreatedResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid JSON, missing fields or email already exists"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Database error"
// @Router       /api/team [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req AddMemberRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid team request body", "error", err.Error())
		httputil.RespondError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	member, err := h.repo.Create(r.Context(), req.FullName, req.Email)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			httputil.RespondError(w, "Email already exists", http.StatusBadRequest)
			return
		}
		logger.Error("failed to add team member", "error", err.Error())
		httputil.RespondStorageError(w, err)
		return
	}

	logger.Info("team member added", "member_id", member.ID)

	httputil.RespondJSON(w, httputil.CreatedResponse{ID: member.ID, Message: "Team member added"}, http.StatusCreated)
}
