package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"basecamp/internal/registration/metrics"
	"basecamp/internal/registration/models"
	"basecamp/internal/registration/store"
	"basecamp/internal/sentinel"
	setmodels "basecamp/internal/settings/models"
	dErrors "basecamp/pkg/domain-errors"
)

// Pusher is the slice of the sync coordinator the lifecycle needs. Every call
// is best-effort: errors are logged and never affect local state.
type Pusher interface {
	PushOne(ctx context.Context, id int64) error
	NotifyStatusChange(ctx context.Context, reg *models.Registration, shouldNotify bool) error
}

// SettingsSource supplies the operator configuration the policy checks read.
type SettingsSource interface {
	Load(ctx context.Context) (setmodels.AdminSettings, error)
}

// Input is a participant's submitted application before it becomes a record.
type Input struct {
	FullName     string
	Email        string
	WhatsApp     string
	Gender       string
	ClimberCode  string
	Address      string
	MedicalNotes string

	Mountain        string
	StartDate       string
	EndDate         string
	TripType        string
	PackageCategory string

	IdentityFile string
}

// Stats summarizes the local dataset for the operator dashboard.
type Stats struct {
	Total    int `json:"total"`
	Unsynced int `json:"unsynced"`
}

// Service implements the registration lifecycle: accept locally first, then
// mirror outward. The local store is the single copy of truth; the pusher is
// a lagging, possibly-failing side effect.
type Service struct {
	store         store.Store
	settings      SettingsSource
	pusher        Pusher
	logger        *slog.Logger
	metrics       *metrics.Metrics
	retainHistory bool
	now           func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a registration service. retainHistory false keeps only
// the most recent registration on each accept.
func NewService(store store.Store, settings SettingsSource, pusher Pusher, logger *slog.Logger, retainHistory bool, opts ...Option) *Service {
	s := &Service{
		store:         store,
		settings:      settings,
		pusher:        pusher,
		logger:        logger,
		retainHistory: retainHistory,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register accepts a new application. The record is persisted locally with
// Pending status before any network attempt; the outward push may fail without
// affecting the returned registration.
func (s *Service) Register(ctx context.Context, input Input) (*models.Registration, error) {
	if err := s.validateCatalog(ctx, input); err != nil {
		return nil, err
	}

	now := s.now()
	reg := &models.Registration{
		ID:              models.NewID(now),
		Timestamp:       models.FormatTimestamp(now),
		FullName:        input.FullName,
		Email:           input.Email,
		WhatsApp:        input.WhatsApp,
		Gender:          input.Gender,
		ClimberCode:     input.ClimberCode,
		Address:         input.Address,
		MedicalNotes:    input.MedicalNotes,
		Mountain:        input.Mountain,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		TripType:        input.TripType,
		PackageCategory: input.PackageCategory,
		IdentityFile:    input.IdentityFile,
		Status:          models.StatusPending,
		IsSynced:        false,
	}

	if err := s.store.Create(ctx, reg, s.retainHistory); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist registration")
	}
	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}

	if err := s.pusher.PushOne(ctx, reg.ID); err != nil {
		s.logger.WarnContext(ctx, "initial push failed, registration stays local",
			"id", reg.ID,
			"booking_id", reg.BookingID(),
			"error", err,
		)
	}

	// Return the stored record so the caller sees the post-push sync flag.
	stored, err := s.store.FindByID(ctx, reg.ID)
	if err != nil {
		return reg, nil
	}
	return stored, nil
}

// validateCatalog checks the trip selections against the operator's form
// catalog. Free-text participant fields are validated at the transport
// boundary.
func (s *Service) validateCatalog(ctx context.Context, input Input) error {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "load settings")
	}
	catalog := settings.FormConfig
	if !slices.Contains(catalog.Mountains, input.Mountain) {
		return dErrors.New(dErrors.CodeValidation, "unknown mountain selection")
	}
	if !slices.Contains(catalog.TripTypes, input.TripType) {
		return dErrors.New(dErrors.CodeValidation, "unknown trip type selection")
	}
	if !slices.Contains(catalog.PackageCategories, input.PackageCategory) {
		return dErrors.New(dErrors.CodeValidation, "unknown package category selection")
	}
	return nil
}

// UpdateStatus moves a registration to the given status. Unknown ids are a
// silent no-op. When the operator's triggers enable notifications for the
// target status, a STATUS_UPDATE push follows; its failure never rolls the
// local change back.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown status value")
	}

	_, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.DebugContext(ctx, "status update for unknown registration ignored", "id", id)
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "read registration")
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "update registration status")
	}
	if s.metrics != nil {
		s.metrics.IncrementTransition(string(status))
	}

	s.notifyStatusChange(ctx, id, status)
	return nil
}

// notifyStatusChange consults the trigger map independently of the local
// mutation and dispatches when the target status is enabled.
func (s *Service) notifyStatusChange(ctx context.Context, id int64, status models.Status) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping status notification, settings unavailable", "id", id, "error", err)
		return
	}
	if !settings.NotificationPrefs.StatusTriggers[status] {
		return
	}

	reg, err := s.store.FindByID(ctx, id)
	if err != nil {
		return
	}
	if err := s.pusher.NotifyStatusChange(ctx, reg, true); err != nil {
		s.logger.WarnContext(ctx, "status notification failed",
			"id", id,
			"status", status,
			"error", err,
		)
	}
}

// List returns every registration in insertion order.
func (s *Service) List(ctx context.Context) ([]*models.Registration, error) {
	regs, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list registrations")
	}
	return regs, nil
}

// Get returns one registration by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Registration, error) {
	reg, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read registration")
	}
	return reg, nil
}

// Clear deletes every registration. Settings are untouched.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "clear registrations")
	}
	if s.metrics != nil {
		s.metrics.IncrementCleared()
	}
	return nil
}

// Stats reports dataset totals for the operator dashboard.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	regs, err := s.store.List(ctx)
	if err != nil {
		return Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "list registrations")
	}
	stats := Stats{Total: len(regs)}
	for _, reg := range regs {
		if !reg.IsSynced {
			stats.Unsynced++
		}
	}
	return stats, nil
}
