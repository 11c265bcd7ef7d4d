package service

import (
	"context"
	"log/slog"
	"sync"

	"basecamp/internal/settings/models"
	"basecamp/internal/settings/store"
	dErrors "basecamp/pkg/domain-errors"
	"basecamp/pkg/secrets"
)

// Service owns the singleton operator configuration. It merges whatever was
// persisted over the typed defaults, keeps an in-memory snapshot of the last
// saved state, and answers dirty checks against that snapshot instead of a
// change-tracking flag.
type Service struct {
	store  store.Store
	logger *slog.Logger

	mu       sync.RWMutex
	loaded   bool
	snapshot models.AdminSettings
}

// NewService creates a settings service.
func NewService(store store.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Load returns the effective settings: persisted values merged over defaults.
// A missing or corrupt persisted payload degrades to pure defaults rather
// than failing the caller.
func (s *Service) Load(ctx context.Context) (models.AdminSettings, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.snapshot, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.snapshot, nil
	}

	payload, err := s.store.Read(ctx)
	if err != nil {
		return models.AdminSettings{}, dErrors.Wrap(err, dErrors.CodeInternal, "read settings")
	}

	settings, err := models.Decode(payload)
	if err != nil {
		s.logger.WarnContext(ctx, "persisted settings unreadable, falling back to defaults", "error", err)
		settings = models.Defaults()
	}

	s.snapshot = settings
	s.loaded = true
	return settings, nil
}

// Save persists the full settings object and refreshes the dirty-check
// snapshot. Persist-then-snapshot order keeps a failed write dirty.
func (s *Service) Save(ctx context.Context, settings models.AdminSettings) error {
	payload, err := models.Encode(settings)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode settings")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Write(ctx, payload); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write settings")
	}
	s.snapshot = settings
	s.loaded = true
	return nil
}

// IsDirty reports whether candidate differs structurally from the last saved
// settings. It is a pure comparison; saving and reloading resets it.
func (s *Service) IsDirty(ctx context.Context, candidate models.AdminSettings) (bool, error) {
	saved, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	return !models.Equal(candidate, saved), nil
}

// SetPassword hashes and stores a new operator password. The plaintext is
// never persisted.
func (s *Service) SetPassword(ctx context.Context, plaintext string) error {
	if plaintext == "" {
		return dErrors.New(dErrors.CodeValidation, "password must not be empty")
	}
	hash, err := secrets.Hash(plaintext)
	if err != nil {
		return err
	}

	settings, err := s.Load(ctx)
	if err != nil {
		return err
	}
	settings.AdminPasswordHash = hash
	return s.Save(ctx, settings)
}
