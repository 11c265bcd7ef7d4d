package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"basecamp/internal/platform/middleware"
	"basecamp/internal/transport/http/shared"
	respond "basecamp/internal/transport/http/shared/json"
	dErrors "basecamp/pkg/domain-errors"
	"basecamp/pkg/validation"
)

// Service defines the interface for operator authentication.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Handler handles the operator login endpoint.
type Handler struct {
	logger   *slog.Logger
	operator Service
}

// New creates a new operator Handler.
func New(operator Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		operator: operator,
	}
}

// Register registers the operator auth routes. The caller mounts these under
// the admin prefix, outside the session gate.
func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

type loginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}

	token, err := h.operator.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", requestID,
			"username", req.Username,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "operator logged in",
		"request_id", requestID,
		"username", req.Username,
	)
	respond.WriteJSON(w, http.StatusOK, map[string]string{
		"token":      token,
		"token_type": "Bearer",
	})
}
