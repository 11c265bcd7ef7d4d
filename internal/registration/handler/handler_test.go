package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"basecamp/internal/registration/models"
	"basecamp/internal/registration/service"
	dErrors "basecamp/pkg/domain-errors"
)

type fakeService struct {
	registerErr error
	lastInput   service.Input
	regs        []*models.Registration
	updates     map[int64]models.Status
	cleared     bool
}

func (f *fakeService) Register(_ context.Context, input service.Input) (*models.Registration, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.lastInput = input
	return &models.Registration{
		ID:       1735689600123,
		FullName: input.FullName,
		Mountain: input.Mountain,
		Status:   models.StatusPending,
	}, nil
}

func (f *fakeService) List(context.Context) ([]*models.Registration, error) {
	return f.regs, nil
}

func (f *fakeService) Get(_ context.Context, id int64) (*models.Registration, error) {
	for _, reg := range f.regs {
		if reg.ID == id {
			return reg, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
}

func (f *fakeService) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	if f.updates == nil {
		f.updates = map[int64]models.Status{}
	}
	f.updates[id] = status
	return nil
}

func (f *fakeService) Clear(context.Context) error {
	f.cleared = true
	return nil
}

func (f *fakeService) Stats(context.Context) (service.Stats, error) {
	return service.Stats{Total: len(f.regs)}, nil
}

type HandlerTestSuite struct {
	suite.Suite

	service *fakeService
	router  chi.Router
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.service = &fakeService{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.service, logger)

	s.router = chi.NewRouter()
	h.Register(s.router)
	s.router.Route("/admin", func(r chi.Router) {
		h.RegisterAdmin(r)
	})
}

func validBody() string {
	return `{
		"fullName": "Sari Dewi",
		"email": "sari@example.com",
		"whatsapp": "+6281234567890",
		"mountain": "Gunung Rinjani",
		"startDate": "2025-02-10",
		"tripType": "Open Trip",
		"packageCategory": "Paket A"
	}`
}

func (s *HandlerTestSuite) TestCreateRegistration() {
	req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(validBody()))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Registration models.Registration `json:"registration"`
		BookingID    string              `json:"bookingId"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("JL-600123", resp.BookingID)
	s.Equal("Sari Dewi", resp.Registration.FullName)
	s.Equal(models.StatusPending, resp.Registration.Status)
	s.Equal("Gunung Rinjani", s.service.lastInput.Mountain)
}

func (s *HandlerTestSuite) TestCreateRejectsBadInput() {
	testCases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"fullName":`},
		{name: "missing fields", body: `{"fullName": "Sari Dewi"}`},
		{name: "blank name", body: strings.Replace(validBody(), "Sari Dewi", "   ", 1)},
		{name: "bad email", body: strings.Replace(validBody(), "sari@example.com", "bukan-email", 1)},
		{name: "bad date", body: strings.Replace(validBody(), "2025-02-10", "10 Februari", 1)},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func (s *HandlerTestSuite) TestCreateMapsValidationErrors() {
	s.service.registerErr = dErrors.New(dErrors.CodeValidation, "unknown mountain selection")

	req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(validBody()))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "unknown mountain selection")
}

func (s *HandlerTestSuite) TestListNewestFirst() {
	s.service.regs = []*models.Registration{
		{ID: 1, FullName: "Pertama"},
		{ID: 2, FullName: "Kedua"},
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/registrations", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Registrations []*models.Registration `json:"registrations"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Registrations, 2)
	s.Equal(int64(2), resp.Registrations[0].ID)
	s.Equal(int64(1), resp.Registrations[1].ID)
}

func (s *HandlerTestSuite) TestGetUnknownID() {
	req := httptest.NewRequest(http.MethodGet, "/admin/registrations/999", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerTestSuite) TestUpdateStatus() {
	req := httptest.NewRequest(http.MethodPatch, "/admin/registrations/42/status",
		strings.NewReader(`{"status": "Terverifikasi"}`))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal(models.StatusVerified, s.service.updates[42])
}

func (s *HandlerTestSuite) TestUpdateStatusRejectsUnknownValue() {
	req := httptest.NewRequest(http.MethodPatch, "/admin/registrations/42/status",
		strings.NewReader(`{"status": "Naik Gunung"}`))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Empty(s.service.updates)
}

func (s *HandlerTestSuite) TestUpdateStatusRejectsBadID() {
	req := httptest.NewRequest(http.MethodPatch, "/admin/registrations/abc/status",
		strings.NewReader(`{"status": "Terverifikasi"}`))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestClear() {
	req := httptest.NewRequest(http.MethodDelete, "/admin/registrations", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusNoContent, rec.Code)
	s.True(s.service.cleared)
}
