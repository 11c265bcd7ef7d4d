package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"basecamp/internal/platform/middleware"
	regmodels "basecamp/internal/registration/models"
	"basecamp/internal/settings/models"
	"basecamp/internal/transport/http/shared"
	respond "basecamp/internal/transport/http/shared/json"
	dErrors "basecamp/pkg/domain-errors"
	"basecamp/pkg/validation"
)

// Service defines the interface for settings operations.
type Service interface {
	Load(ctx context.Context) (models.AdminSettings, error)
	Save(ctx context.Context, settings models.AdminSettings) error
	IsDirty(ctx context.Context, candidate models.AdminSettings) (bool, error)
	SetPassword(ctx context.Context, plaintext string) error
}

// Handler handles operator settings endpoints.
type Handler struct {
	logger   *slog.Logger
	settings Service
}

// New creates a new settings Handler.
func New(settings Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		settings: settings,
	}
}

// RegisterAdmin registers the settings routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/settings", h.handleGet)
	r.Put("/settings", h.handleUpdate)
	r.Post("/settings/dirty", h.handleDirtyCheck)
}

// RegisterPublic registers the routes the participant form reads.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/form-config", h.handleFormConfig)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Load(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, settings)
}

// handleFormConfig exposes the trip catalog and payment details the public
// form needs, nothing operator-private.
func (h *Handler) handleFormConfig(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Load(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"formConfig":  settings.FormConfig,
		"bankAccount": settings.BankAccount,
	})
}

type updateRequest struct {
	AdminEmail        string                   `json:"adminEmail" validate:"required,email"`
	AdminUsername     string                   `json:"adminUsername" validate:"required,notblank"`
	ScriptURL         string                   `json:"scriptUrl"`
	NotificationPrefs models.NotificationPrefs `json:"notificationPrefs"`
	FormConfig        models.FormConfig        `json:"formConfig"`
	BankAccount       models.BankAccount       `json:"bankAccount"`
	EnableAISummary   bool                     `json:"enableAiSummary"`

	// NewPassword, when present, rotates the operator password. The current
	// hash is kept otherwise.
	NewPassword string `json:"newPassword,omitempty"`
}

func (r updateRequest) toSettings(currentHash string) models.AdminSettings {
	return models.AdminSettings{
		AdminEmail:        r.AdminEmail,
		AdminUsername:     r.AdminUsername,
		AdminPasswordHash: currentHash,
		ScriptURL:         r.ScriptURL,
		NotificationPrefs: r.NotificationPrefs,
		FormConfig:        r.FormConfig,
		BankAccount:       r.BankAccount,
		EnableAISummary:   r.EnableAISummary,
	}
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := validateTriggers(req.NotificationPrefs.StatusTriggers); err != nil {
		shared.WriteError(w, err)
		return
	}

	current, err := h.settings.Load(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.settings.Save(ctx, req.toSettings(current.AdminPasswordHash)); err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.NewPassword != "" {
		if err := h.settings.SetPassword(ctx, req.NewPassword); err != nil {
			shared.WriteError(w, err)
			return
		}
	}

	h.logger.InfoContext(ctx, "settings saved",
		"request_id", requestID,
		"operator", middleware.GetOperator(ctx),
		"password_rotated", req.NewPassword != "",
	)

	saved, err := h.settings.Load(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) handleDirtyCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	current, err := h.settings.Load(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	dirty, err := h.settings.IsDirty(ctx, req.toSettings(current.AdminPasswordHash))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"dirty": dirty})
}

func validateTriggers(triggers map[regmodels.Status]bool) error {
	for status := range triggers {
		if !status.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "unknown status in notification triggers")
		}
	}
	return nil
}
