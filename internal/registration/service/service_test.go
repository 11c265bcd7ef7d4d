package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"basecamp/internal/registration/models"
	"basecamp/internal/registration/store"
	setmodels "basecamp/internal/settings/models"
	dErrors "basecamp/pkg/domain-errors"
)

type notifyCall struct {
	id           int64
	status       models.Status
	shouldNotify bool
}

// fakePusher stands in for the sync coordinator. On success it marks the
// pushed record synced, like the real one.
type fakePusher struct {
	store    *store.InMemoryStore
	failPush bool

	pushCalls   []int64
	notifyCalls []notifyCall
}

func (p *fakePusher) PushOne(ctx context.Context, id int64) error {
	p.pushCalls = append(p.pushCalls, id)
	if p.failPush {
		return dErrors.New(dErrors.CodeDispatchFailed, "dispatch push event")
	}
	return p.store.MarkSynced(ctx, []int64{id})
}

func (p *fakePusher) NotifyStatusChange(_ context.Context, reg *models.Registration, shouldNotify bool) error {
	p.notifyCalls = append(p.notifyCalls, notifyCall{id: reg.ID, status: reg.Status, shouldNotify: shouldNotify})
	if p.failPush {
		return dErrors.New(dErrors.CodeDispatchFailed, "dispatch push event")
	}
	return nil
}

type fakeSettings struct {
	settings setmodels.AdminSettings
	err      error
}

func (f *fakeSettings) Load(context.Context) (setmodels.AdminSettings, error) {
	if f.err != nil {
		return setmodels.AdminSettings{}, f.err
	}
	return f.settings, nil
}

type ServiceTestSuite struct {
	suite.Suite

	store    *store.InMemoryStore
	pusher   *fakePusher
	settings *fakeSettings
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.store = store.NewInMemoryStore()
	s.pusher = &fakePusher{store: s.store}
	s.settings = &fakeSettings{settings: setmodels.Defaults()}
}

func (s *ServiceTestSuite) newService(retainHistory bool) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fixed := time.Date(2025, time.January, 1, 8, 30, 0, 123e6, time.UTC)
	return NewService(s.store, s.settings, s.pusher, logger, retainHistory,
		WithClock(func() time.Time { return fixed }),
	)
}

func validInput() Input {
	return Input{
		FullName:        "Sari Dewi",
		Email:           "sari@example.com",
		WhatsApp:        "+6281234567890",
		Mountain:        "Gunung Rinjani",
		StartDate:       "2025-02-10",
		TripType:        "Open Trip",
		PackageCategory: "Paket A",
	}
}

func (s *ServiceTestSuite) TestRegisterPersistsThenPushes() {
	svc := s.newService(true)

	reg, err := svc.Register(context.Background(), validInput())
	s.Require().NoError(err)

	s.Equal(models.StatusPending, reg.Status)
	s.NotZero(reg.ID)
	s.Equal("01/01/2025, 08.30.00", reg.Timestamp)
	s.True(reg.IsSynced, "successful push marks the record synced")
	s.Equal([]int64{reg.ID}, s.pusher.pushCalls)
}

func (s *ServiceTestSuite) TestRegisterSurvivesPushFailure() {
	s.pusher.failPush = true
	svc := s.newService(true)

	reg, err := svc.Register(context.Background(), validInput())
	s.Require().NoError(err, "a failed push never fails the registration")

	s.False(reg.IsSynced)
	stored, err := s.store.FindByID(context.Background(), reg.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, stored.Status)
}

func (s *ServiceTestSuite) TestRegisterRejectsUnknownCatalogSelections() {
	svc := s.newService(true)

	for _, mutate := range []func(*Input){
		func(in *Input) { in.Mountain = "Gunung Fiktif" },
		func(in *Input) { in.TripType = "Teleportasi" },
		func(in *Input) { in.PackageCategory = "Paket Misterius" },
	} {
		input := validInput()
		mutate(&input)
		_, err := svc.Register(context.Background(), input)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	}
	s.Empty(s.pusher.pushCalls, "rejected input never reaches the network")
}

func (s *ServiceTestSuite) TestRegisterWithoutHistoryKeepsOnlyLatest() {
	svc := s.newService(false)
	ctx := context.Background()

	// Same fixed clock means same id, so seed the earlier record directly.
	s.Require().NoError(s.store.Create(ctx, &models.Registration{ID: 1, FullName: "Lama"}, false))
	reg, err := svc.Register(ctx, validInput())
	s.Require().NoError(err)

	regs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 1)
	s.Equal(reg.ID, regs[0].ID)
}

func (s *ServiceTestSuite) TestUpdateStatusNotifiesWhenTriggerEnabled() {
	svc := s.newService(true)
	ctx := context.Background()
	reg, err := svc.Register(ctx, validInput())
	s.Require().NoError(err)

	// Defaults enable the trigger for Terverifikasi.
	s.Require().NoError(svc.UpdateStatus(ctx, reg.ID, models.StatusVerified))

	stored, err := s.store.FindByID(ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusVerified, stored.Status)

	s.Require().Len(s.pusher.notifyCalls, 1)
	s.Equal(notifyCall{id: reg.ID, status: models.StatusVerified, shouldNotify: true}, s.pusher.notifyCalls[0])
}

func (s *ServiceTestSuite) TestUpdateStatusSkipsNotificationWhenTriggerDisabled() {
	svc := s.newService(true)
	ctx := context.Background()
	reg, err := svc.Register(ctx, validInput())
	s.Require().NoError(err)

	// Defaults leave the Diproses trigger off.
	s.Require().NoError(svc.UpdateStatus(ctx, reg.ID, models.StatusProcessing))

	stored, err := s.store.FindByID(ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusProcessing, stored.Status, "the local change applies regardless of the trigger")
	s.Empty(s.pusher.notifyCalls)
}

func (s *ServiceTestSuite) TestUpdateStatusSurvivesNotifyFailure() {
	svc := s.newService(true)
	ctx := context.Background()
	reg, err := svc.Register(ctx, validInput())
	s.Require().NoError(err)

	s.pusher.failPush = true
	s.Require().NoError(svc.UpdateStatus(ctx, reg.ID, models.StatusRejected))

	stored, err := s.store.FindByID(ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, stored.Status, "notification failure never rolls the status back")
}

func (s *ServiceTestSuite) TestUpdateStatusUnknownIDIsSilent() {
	svc := s.newService(true)

	s.Require().NoError(svc.UpdateStatus(context.Background(), 424242, models.StatusVerified))
	s.Empty(s.pusher.notifyCalls)
}

func (s *ServiceTestSuite) TestUpdateStatusRejectsUnknownValue() {
	svc := s.newService(true)

	err := svc.UpdateStatus(context.Background(), 1, models.Status("Hilang"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceTestSuite) TestClearAndStats() {
	svc := s.newService(true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.store.Create(ctx, &models.Registration{
			ID:       int64(i + 1),
			FullName: fmt.Sprintf("Pendaki %d", i+1),
			IsSynced: i == 0,
		}, true))
	}

	stats, err := svc.Stats(ctx)
	s.Require().NoError(err)
	s.Equal(Stats{Total: 3, Unsynced: 2}, stats)

	s.Require().NoError(svc.Clear(ctx))
	stats, err = svc.Stats(ctx)
	s.Require().NoError(err)
	s.Equal(Stats{}, stats)
}
