package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"basecamp/internal/cloudsync"
	"basecamp/internal/platform/middleware"
	"basecamp/internal/transport/http/shared"
	respond "basecamp/internal/transport/http/shared/json"
	dErrors "basecamp/pkg/domain-errors"
)

// Coordinator defines the interface for sync operations.
type Coordinator interface {
	PushOne(ctx context.Context, id int64) error
	PushAll(ctx context.Context) (cloudsync.Result, error)
	TestConnection(ctx context.Context) error
	Progress() int
	UnsyncedCount(ctx context.Context) (int, error)
}

// Handler handles sync endpoints. All of them sit behind the operator gate.
type Handler struct {
	logger *slog.Logger
	sync   Coordinator
}

// New creates a new sync Handler.
func New(sync Coordinator, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		sync:   sync,
	}
}

// RegisterAdmin registers the sync routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/sync", h.handlePushAll)
	r.Get("/sync/progress", h.handleProgress)
	r.Post("/sync/test", h.handleTestConnection)
	r.Post("/registrations/{id}/sync", h.handlePushOne)
}

func (h *Handler) handlePushAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.sync.PushAll(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "bulk sync requested",
		"request_id", middleware.GetRequestID(ctx),
		"operator", middleware.GetOperator(ctx),
		"attempted", result.Attempted,
		"dispatched", result.Dispatched,
		"failed", result.Failed,
	)
	respond.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handlePushOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid registration id"))
		return
	}

	if err := h.sync.PushOne(ctx, id); err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"synced": true})
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	count, err := h.sync.UnsyncedCount(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]int{
		"progress": h.sync.Progress(),
		"unsynced": count,
	})
}

func (h *Handler) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.sync.TestConnection(ctx); err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "test connection dispatched",
		"request_id", middleware.GetRequestID(ctx),
		"operator", middleware.GetOperator(ctx),
	)
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "dispatched"})
}
