package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"basecamp/internal/platform/middleware"
	"basecamp/internal/registration/models"
	"basecamp/internal/registration/service"
	"basecamp/internal/transport/http/shared"
	respond "basecamp/internal/transport/http/shared/json"
	dErrors "basecamp/pkg/domain-errors"
	"basecamp/pkg/validation"
)

// Service defines the interface for registration lifecycle operations.
type Service interface {
	Register(ctx context.Context, input service.Input) (*models.Registration, error)
	List(ctx context.Context) ([]*models.Registration, error)
	Get(ctx context.Context, id int64) (*models.Registration, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (service.Stats, error)
}

// Handler handles registration endpoints.
type Handler struct {
	logger       *slog.Logger
	registration Service
}

// New creates a new registration Handler.
func New(registration Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:       logger,
		registration: registration,
	}
}

// Register registers the public participant-facing routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registrations", h.handleCreate)
}

// RegisterAdmin registers the operator routes. The caller mounts these behind
// the operator auth middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/registrations", h.handleList)
	r.Get("/registrations/stats", h.handleStats)
	r.Get("/registrations/{id}", h.handleGet)
	r.Patch("/registrations/{id}/status", h.handleUpdateStatus)
	r.Delete("/registrations", h.handleClear)
}

type createRequest struct {
	FullName     string `json:"fullName" validate:"required,notblank"`
	Email        string `json:"email" validate:"required,email"`
	WhatsApp     string `json:"whatsapp" validate:"required,notblank"`
	Gender       string `json:"gender" validate:"omitempty,oneof=Laki-laki Perempuan"`
	ClimberCode  string `json:"climberCode"`
	Address      string `json:"address"`
	MedicalNotes string `json:"medicalNotes"`

	Mountain        string `json:"mountain" validate:"required,notblank"`
	StartDate       string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	TripType        string `json:"tripType" validate:"required,notblank"`
	PackageCategory string `json:"packageCategory" validate:"required,notblank"`

	IdentityFile string `json:"identityFile"`
}

type createResponse struct {
	Registration *models.Registration `json:"registration"`
	BookingID    string               `json:"bookingId"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode registration request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid registration request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	reg, err := h.registration.Register(ctx, service.Input{
		FullName:        req.FullName,
		Email:           req.Email,
		WhatsApp:        req.WhatsApp,
		Gender:          req.Gender,
		ClimberCode:     req.ClimberCode,
		Address:         req.Address,
		MedicalNotes:    req.MedicalNotes,
		Mountain:        req.Mountain,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TripType:        req.TripType,
		PackageCategory: req.PackageCategory,
		IdentityFile:    req.IdentityFile,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration rejected",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "registration accepted",
		"request_id", requestID,
		"id", reg.ID,
		"booking_id", reg.BookingID(),
		"mountain", reg.Mountain,
	)
	respond.WriteJSON(w, http.StatusCreated, createResponse{
		Registration: reg,
		BookingID:    reg.BookingID(),
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regs, err := h.registration.List(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// Newest first for the operator dashboard; storage keeps insertion order.
	reversed := make([]*models.Registration, len(regs))
	for i, reg := range regs {
		reversed[len(regs)-1-i] = reg
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"registrations": reversed})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	reg, err := h.registration.Get(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, reg)
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required,notblank"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}
	status, ok := models.ParseStatus(req.Status)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "unknown status value"))
		return
	}

	if err := h.registration.UpdateStatus(ctx, id, status); err != nil {
		h.logger.WarnContext(ctx, "status update failed",
			"request_id", requestID,
			"id", id,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "status updated",
		"request_id", requestID,
		"id", id,
		"status", status,
		"operator", middleware.GetOperator(ctx),
	)
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.registration.Clear(ctx); err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "all registrations cleared",
		"request_id", middleware.GetRequestID(ctx),
		"operator", middleware.GetOperator(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.registration.Stats(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid registration id")
	}
	return id, nil
}
