package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"basecamp/internal/registration/models"
	"basecamp/internal/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func newTestRegistration(id int64) *models.Registration {
	return &models.Registration{
		ID:              id,
		Timestamp:       "01/06/2026, 08.15.00",
		FullName:        "Sari Dewi",
		Email:           "sari.dewi@example.com",
		WhatsApp:        "081234567890",
		Mountain:        "Gunung Rinjani",
		StartDate:       "2026-07-10",
		TripType:        "Open Trip",
		PackageCategory: "REGULER",
		Status:          models.StatusPending,
	}
}

func (s *InMemoryStoreSuite) TestCreateRetainsHistory() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(1), true))
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(2), true))

	regs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 2)
	s.Equal(int64(1), regs[0].ID)
	s.Equal(int64(2), regs[1].ID)
}

func (s *InMemoryStoreSuite) TestCreateTruncatesWithoutHistory() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(1), true))
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(2), false))

	regs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 1)
	s.Equal(int64(2), regs[0].ID)
}

func (s *InMemoryStoreSuite) TestFindByID() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(7), true))

	found, err := s.store.FindByID(ctx, 7)
	s.Require().NoError(err)
	s.Equal("Sari Dewi", found.FullName)

	_, err = s.store.FindByID(ctx, 99)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestUpdateStatus() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(1), true))

	s.Require().NoError(s.store.UpdateStatus(ctx, 1, models.StatusVerified))
	found, err := s.store.FindByID(ctx, 1)
	s.Require().NoError(err)
	s.Equal(models.StatusVerified, found.Status)
}

func (s *InMemoryStoreSuite) TestUpdateStatusUnknownIDIsNoOp() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(1), true))

	s.Require().NoError(s.store.UpdateStatus(ctx, 42, models.StatusRejected))

	regs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 1)
	s.Equal(models.StatusPending, regs[0].Status)
}

func (s *InMemoryStoreSuite) TestMarkSynced() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(1), true))
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(2), true))
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(3), true))

	s.Require().NoError(s.store.MarkSynced(ctx, []int64{1, 3}))

	regs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.True(regs[0].IsSynced)
	s.False(regs[1].IsSynced)
	s.True(regs[2].IsSynced)
}

func (s *InMemoryStoreSuite) TestClear() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(1), true))
	s.Require().NoError(s.store.Clear(ctx))

	regs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Empty(regs)
}

func (s *InMemoryStoreSuite) TestListReturnsCopies() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRegistration(1), true))

	regs, err := s.store.List(ctx)
	s.Require().NoError(err)
	regs[0].Status = models.StatusRejected

	found, err := s.store.FindByID(ctx, 1)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, found.Status)
}
