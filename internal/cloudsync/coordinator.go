package cloudsync

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"basecamp/internal/cloudsync/metrics"
	regmodels "basecamp/internal/registration/models"
	"basecamp/internal/sentinel"
	setmodels "basecamp/internal/settings/models"
	dErrors "basecamp/pkg/domain-errors"
)

// Store is the slice of the registration store the coordinator needs.
// Error Contract:
// - FindByID returns sentinel.ErrNotFound (wrapped) when the id is unknown
type Store interface {
	List(ctx context.Context) ([]*regmodels.Registration, error)
	FindByID(ctx context.Context, id int64) (*regmodels.Registration, error)
	MarkSynced(ctx context.Context, ids []int64) error
}

// SettingsSource supplies the current operator configuration. It is injected
// so the coordinator never re-reads storage ad hoc.
type SettingsSource interface {
	Load(ctx context.Context) (setmodels.AdminSettings, error)
}

// Result summarizes a bulk sync run.
type Result struct {
	Attempted  int `json:"attempted"`
	Dispatched int `json:"dispatched"`
	Failed     int `json:"failed"`
}

// Coordinator pushes registrations to the remote service one at a time,
// sequentially, and tracks per-record sync state through the store. A record
// is Local until a dispatch succeeds and Synced forever after; failed pushes
// leave it Local and eligible for retry.
type Coordinator struct {
	store    Store
	settings SettingsSource
	client   *Client
	logger   *slog.Logger
	metrics  *metrics.Metrics

	group    singleflight.Group
	progress atomic.Int64
}

// CoordinatorOption configures the Coordinator.
type CoordinatorOption func(*Coordinator)

// WithMetrics sets the metrics instance for the coordinator.
func WithMetrics(m *metrics.Metrics) CoordinatorOption {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// NewCoordinator constructs a sync coordinator.
func NewCoordinator(store Store, settings SettingsSource, client *Client, logger *slog.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:    store,
		settings: settings,
		client:   client,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// endpoint loads settings and validates the webhook endpoint. All push paths
// go through this guard so a missing or malformed endpoint surfaces as a
// configuration error before any network attempt.
func (c *Coordinator) endpoint(ctx context.Context) (string, setmodels.AdminSettings, error) {
	settings, err := c.settings.Load(ctx)
	if err != nil {
		return "", setmodels.AdminSettings{}, dErrors.Wrap(err, dErrors.CodeInternal, "load settings")
	}
	if err := ValidateEndpoint(settings.ScriptURL); err != nil {
		return "", setmodels.AdminSettings{}, err
	}
	return settings.ScriptURL, settings, nil
}

// PushOne dispatches a NEW_REGISTRATION event for the registration with the
// given id, resolving the record at push time. It is idempotent: re-pushing
// an already-synced record is harmless because the remote service dedups by
// booking id.
func (c *Coordinator) PushOne(ctx context.Context, id int64) error {
	endpoint, settings, err := c.endpoint(ctx)
	if err != nil {
		return err
	}

	reg, err := c.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "read registration")
	}

	if err := c.dispatchNew(ctx, endpoint, reg, settings); err != nil {
		return err
	}
	if err := c.store.MarkSynced(ctx, []int64{id}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "mark registration synced")
	}
	return nil
}

// PushAll pushes every unsynced registration in list order, sequentially, and
// reports how many dispatched. Partial failure is expected and non-fatal:
// failed records stay Local for the next run. Concurrent invocations coalesce
// into a single run.
func (c *Coordinator) PushAll(ctx context.Context) (Result, error) {
	v, err, _ := c.group.Do("push-all", func() (any, error) {
		return c.pushAll(ctx)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (c *Coordinator) pushAll(ctx context.Context) (Result, error) {
	endpoint, settings, err := c.endpoint(ctx)
	if err != nil {
		return Result{}, err
	}

	regs, err := c.store.List(ctx)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "list registrations")
	}
	var ids []int64
	for _, reg := range regs {
		if !reg.IsSynced {
			ids = append(ids, reg.ID)
		}
	}

	c.setProgress(0)
	if len(ids) == 0 {
		c.setProgress(100)
		c.refreshUnsynced(ctx)
		return Result{}, nil
	}

	result := Result{Attempted: len(ids)}
	for i, id := range ids {
		// Resolve by id at push time: the list may have changed since the
		// batch started.
		reg, err := c.store.FindByID(ctx, id)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping registration removed mid-batch", "id", id)
			result.Failed++
			c.setProgress((i + 1) * 100 / len(ids))
			continue
		}
		if err := c.dispatchNew(ctx, endpoint, reg, settings); err != nil {
			c.logger.WarnContext(ctx, "push failed, record stays local",
				"id", id,
				"booking_id", reg.BookingID(),
				"error", err,
			)
			result.Failed++
		} else if err := c.store.MarkSynced(ctx, []int64{id}); err != nil {
			return result, dErrors.Wrap(err, dErrors.CodeInternal, "mark registration synced")
		} else {
			result.Dispatched++
		}
		c.setProgress((i + 1) * 100 / len(ids))
	}

	c.refreshUnsynced(ctx)
	c.logger.InfoContext(ctx, "bulk sync finished",
		"attempted", result.Attempted,
		"dispatched", result.Dispatched,
		"failed", result.Failed,
	)
	return result, nil
}

func (c *Coordinator) dispatchNew(ctx context.Context, endpoint string, reg *regmodels.Registration, settings setmodels.AdminSettings) error {
	prefs := settings.NotificationPrefs
	err := c.client.Dispatch(ctx, endpoint, Payload{
		Action:       ActionNewRegistration,
		Registration: reg,
		AdminEmail:   settings.AdminEmail,
		Prefs:        &prefs,
	})
	c.count(ActionNewRegistration, err)
	return err
}

// NotifyStatusChange emits a STATUS_UPDATE event carrying the updated record
// and the trigger decision. Callers treat failures as a lagging side effect,
// never as a reason to roll back the local status change.
func (c *Coordinator) NotifyStatusChange(ctx context.Context, reg *regmodels.Registration, shouldNotify bool) error {
	endpoint, settings, err := c.endpoint(ctx)
	if err != nil {
		return err
	}
	err = c.client.Dispatch(ctx, endpoint, Payload{
		Action:       ActionStatusUpdate,
		Registration: reg,
		AdminEmail:   settings.AdminEmail,
		ShouldNotify: &shouldNotify,
	})
	c.count(ActionStatusUpdate, err)
	return err
}

// TestConnection asks the remote service to email the operator a confirmation.
func (c *Coordinator) TestConnection(ctx context.Context) error {
	endpoint, settings, err := c.endpoint(ctx)
	if err != nil {
		return err
	}
	err = c.client.Dispatch(ctx, endpoint, Payload{
		Action:     ActionTestConnection,
		AdminEmail: settings.AdminEmail,
		Timestamp:  time.Now().Format("02/01/2006, 15.04.05"),
	})
	c.count(ActionTestConnection, err)
	return err
}

// Progress reports the 0-100 counter of the most recent bulk sync.
func (c *Coordinator) Progress() int {
	return int(c.progress.Load())
}

// UnsyncedCount returns how many registrations are still Local.
func (c *Coordinator) UnsyncedCount(ctx context.Context) (int, error) {
	regs, err := c.store.List(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "list registrations")
	}
	count := 0
	for _, reg := range regs {
		if !reg.IsSynced {
			count++
		}
	}
	return count, nil
}

func (c *Coordinator) setProgress(percent int) {
	c.progress.Store(int64(percent))
	if c.metrics != nil {
		c.metrics.SetProgress(percent)
	}
}

func (c *Coordinator) refreshUnsynced(ctx context.Context) {
	if c.metrics == nil {
		return
	}
	if count, err := c.UnsyncedCount(ctx); err == nil {
		c.metrics.SetUnsynced(count)
	}
}

func (c *Coordinator) count(action string, err error) {
	if c.metrics == nil {
		return
	}
	if err != nil {
		c.metrics.IncrementFailed(action)
	} else {
		c.metrics.IncrementDispatched(action)
	}
}
