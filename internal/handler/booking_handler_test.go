package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusbook/booking-service/internal/dto"
	"github.com/campusbook/booking-service/internal/models"
	"github.com/campusbook/booking-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// --- Mock BookingService ---

type mockBookingService struct {
	submitFn         func(ctx context.Context, req service.SubmitRequest) (*models.Booking, error)
	submitRecurFn    func(ctx context.Context, req service.SubmitRequest, rec service.Recurrence) (*service.RecurringResult, error)
	changeStatusFn   func(ctx context.Context, bookingID uint, action service.Action, actor models.Actor, reason string) (*models.Booking, error)
	rescheduleFn     func(ctx context.Context, bookingID uint, iv models.Interval, actor models.Actor) (*models.Booking, error)
	sweepFn          func(ctx context.Context, now time.Time) (int64, error)
	getFn            func(ctx context.Context, id uint) (*models.Booking, error)
	listResourceFn   func(ctx context.Context, resourceID uint, status *models.BookingStatus) ([]models.Booking, error)
	listRequesterFn  func(ctx context.Context, requesterID string, status *models.BookingStatus) ([]models.Booking, error)
	pendingOwnerFn   func(ctx context.Context, ownerID string) ([]models.Booking, error)
	availabilityFn   func(ctx context.Context, resourceID uint, iv models.Interval) (bool, []models.Booking, error)
	upcomingFn func(ctx context.Context, requesterID string, limit int) ([]models.Booking, error)
}

func (m *mockBookingService) SubmitBooking(ctx context.Context, req service.SubmitRequest) (*models.Booking, error) {
	return m.submitFn(ctx, req)
}
func (m *mockBookingService) SubmitRecurring(ctx context.Context, req service.SubmitRequest, rec service.Recurrence) (*service.RecurringResult, error) {
	return m.submitRecurFn(ctx, req, rec)
}
func (m *mockBookingService) ChangeStatus(ctx context.Context, bookingID uint, action service.Action, actor models.Actor, reason string) (*models.Booking, error) {
	return m.changeStatusFn(ctx, bookingID, action, actor, reason)
}
func (m *mockBookingService) RescheduleBooking(ctx context.Context, bookingID uint, iv models.Interval, actor models.Actor) (*models.Booking, error) {
	return m.rescheduleFn(ctx, bookingID, iv, actor)
}
func (m *mockBookingService) SweepCompleted(ctx context.Context, now time.Time) (int64, error) {
	return m.sweepFn(ctx, now)
}
func (m *mockBookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) ListByResource(ctx context.Context, resourceID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listResourceFn(ctx, resourceID, status)
}
func (m *mockBookingService) ListByRequester(ctx context.Context, requesterID string, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listRequesterFn(ctx, requesterID, status)
}
func (m *mockBookingService) PendingForOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	return m.pendingOwnerFn(ctx, ownerID)
}
func (m *mockBookingService) UpcomingForUser(ctx context.Context, requesterID string, limit int) ([]models.Booking, error) {
	return m.upcomingFn(ctx, requesterID, limit)
}
func (m *mockBookingService) CheckAvailability(ctx context.Context, resourceID uint, iv models.Interval) (bool, []models.Booking, error) {
	return m.availabilityFn(ctx, resourceID, iv)
}

func newContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

var slotStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// --- Tests ---

func TestCreateBooking_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		submitFn: func(ctx context.Context, req service.SubmitRequest) (*models.Booking, error) {
			return &models.Booking{
				ID:          1,
				ResourceID:  req.ResourceID,
				RequesterID: req.RequesterID,
				StartAt:     req.Start,
				EndAt:       req.End,
				Status:      models.StatusApproved,
				CreatedAt:   time.Now(),
			}, nil
		},
	}

	e := echo.New()
	body := `{"requester_id":"user-1","start_at":"2026-03-02T09:00:00Z","end_at":"2026-03-02T10:00:00Z"}`
	c, rec := newContext(e, http.MethodPost, "/api/v1/resources/1/bookings", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.ID)
	assert.Equal(t, models.StatusApproved, resp.Status)
	assert.Equal(t, "user-1", resp.RequesterID)
}

func TestCreateBooking_Handler_EmptyRequesterID(t *testing.T) {
	e := echo.New()
	body := `{"requester_id":"","start_at":"2026-03-02T09:00:00Z","end_at":"2026-03-02T10:00:00Z"}`
	c, _ := newContext(e, http.MethodPost, "/api/v1/resources/1/bookings", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(nil)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateBooking_Handler_InvalidResourceID(t *testing.T) {
	e := echo.New()
	body := `{"requester_id":"user-1"}`
	c, _ := newContext(e, http.MethodPost, "/api/v1/resources/abc/bookings", body)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	h := NewBookingHandler(nil)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateBooking_Handler_Conflict(t *testing.T) {
	svc := &mockBookingService{
		submitFn: func(ctx context.Context, req service.SubmitRequest) (*models.Booking, error) {
			return nil, service.ErrBookingConflict
		},
	}

	e := echo.New()
	body := `{"requester_id":"user-1","start_at":"2026-03-02T09:00:00Z","end_at":"2026-03-02T10:00:00Z"}`
	c, _ := newContext(e, http.MethodPost, "/api/v1/resources/1/bookings", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestCreateBooking_Handler_ValidationFailure(t *testing.T) {
	svc := &mockBookingService{
		submitFn: func(ctx context.Context, req service.SubmitRequest) (*models.Booking, error) {
			return nil, service.ErrDurationTooLong
		},
	}

	e := echo.New()
	body := `{"requester_id":"user-1","start_at":"2026-03-02T09:00:00Z","end_at":"2026-03-04T10:00:00Z"}`
	c, _ := newContext(e, http.MethodPost, "/api/v1/resources/1/bookings", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateBooking_Handler_ResourceNotFound(t *testing.T) {
	svc := &mockBookingService{
		submitFn: func(ctx context.Context, req service.SubmitRequest) (*models.Booking, error) {
			return nil, service.ErrResourceNotFound
		},
	}

	e := echo.New()
	body := `{"requester_id":"user-1","start_at":"2026-03-02T09:00:00Z","end_at":"2026-03-02T10:00:00Z"}`
	c, _ := newContext(e, http.MethodPost, "/api/v1/resources/999/bookings", body)
	c.SetParamNames("id")
	c.SetParamValues("999")

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateBooking_Handler_Recurring(t *testing.T) {
	var captured service.Recurrence
	svc := &mockBookingService{
		submitRecurFn: func(ctx context.Context, req service.SubmitRequest, rec service.Recurrence) (*service.RecurringResult, error) {
			captured = rec
			return &service.RecurringResult{
				Created: []models.Booking{
					{ID: 1, ResourceID: 1, RequesterID: "user-1", Status: models.StatusApproved},
					{ID: 2, ResourceID: 1, RequesterID: "user-1", Status: models.StatusApproved},
				},
				FailedSlots: []models.Interval{
					{Start: slotStart.AddDate(0, 0, 7), End: slotStart.AddDate(0, 0, 7).Add(time.Hour)},
				},
			}, nil
		},
	}

	e := echo.New()
	body := `{"requester_id":"user-1","start_at":"2026-03-02T09:00:00Z","end_at":"2026-03-02T10:00:00Z","recurrence":{"pattern":"weekly","count":3}}`
	c, rec := newContext(e, http.MethodPost, "/api/v1/resources/1/bookings", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, service.CadenceWeekly, captured.Cadence)
	assert.Equal(t, 3, captured.Count)

	var resp dto.RecurringBookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Created, 2)
	assert.Len(t, resp.FailedSlots, 1)
}

func TestCreateBooking_Handler_RecurringAllConflict(t *testing.T) {
	svc := &mockBookingService{
		submitRecurFn: func(ctx context.Context, req service.SubmitRequest, rec service.Recurrence) (*service.RecurringResult, error) {
			return nil, service.ErrAllSlotsConflict
		},
	}

	e := echo.New()
	body := `{"requester_id":"user-1","start_at":"2026-03-02T09:00:00Z","end_at":"2026-03-02T10:00:00Z","recurrence":{"pattern":"daily","count":2}}`
	c, _ := newContext(e, http.MethodPost, "/api/v1/resources/1/bookings", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestStatusChange_Handler_Approve(t *testing.T) {
	var capturedAction service.Action
	var capturedActor models.Actor
	svc := &mockBookingService{
		changeStatusFn: func(ctx context.Context, bookingID uint, action service.Action, actor models.Actor, reason string) (*models.Booking, error) {
			capturedAction = action
			capturedActor = actor
			return &models.Booking{ID: bookingID, Status: models.StatusApproved}, nil
		},
	}

	e := echo.New()
	body := `{"actor_id":"owner-1","actor_role":"staff"}`
	c, rec := newContext(e, http.MethodPost, "/api/v1/bookings/1/approve", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.statusChange(service.ActionApprove)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ActionApprove, capturedAction)
	assert.Equal(t, models.RoleStaff, capturedActor.Role)

	var resp dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusApproved, resp.Status)
}

func TestStatusChange_Handler_AlreadyProcessed(t *testing.T) {
	svc := &mockBookingService{
		changeStatusFn: func(ctx context.Context, bookingID uint, action service.Action, actor models.Actor, reason string) (*models.Booking, error) {
			return nil, service.ErrInvalidTransition
		},
	}

	e := echo.New()
	body := `{"actor_id":"owner-1","actor_role":"staff"}`
	c, _ := newContext(e, http.MethodPost, "/api/v1/bookings/1/approve", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.statusChange(service.ActionApprove)(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestStatusChange_Handler_PermissionDenied(t *testing.T) {
	svc := &mockBookingService{
		changeStatusFn: func(ctx context.Context, bookingID uint, action service.Action, actor models.Actor, reason string) (*models.Booking, error) {
			return nil, service.ErrPermissionDenied
		},
	}

	e := echo.New()
	body := `{"actor_id":"user-9","actor_role":"student"}`
	c, _ := newContext(e, http.MethodPost, "/api/v1/bookings/1/cancel", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.statusChange(service.ActionCancel)(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestStatusChange_Handler_RejectPassesReason(t *testing.T) {
	var capturedReason string
	svc := &mockBookingService{
		changeStatusFn: func(ctx context.Context, bookingID uint, action service.Action, actor models.Actor, reason string) (*models.Booking, error) {
			capturedReason = reason
			return &models.Booking{ID: bookingID, Status: models.StatusRejected, Notes: reason}, nil
		},
	}

	e := echo.New()
	body := `{"actor_id":"owner-1","actor_role":"staff","reason":"double maintenance window"}`
	c, rec := newContext(e, http.MethodPost, "/api/v1/bookings/1/reject", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.statusChange(service.ActionReject)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "double maintenance window", capturedReason)
}

func TestGetBooking_Handler_NotFound(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return nil, service.ErrBookingNotFound
		},
	}

	e := echo.New()
	c, _ := newContext(e, http.MethodGet, "/api/v1/bookings/999", "")
	c.SetParamNames("id")
	c.SetParamValues("999")

	h := NewBookingHandler(svc)
	err := h.GetBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestListBookings_Handler_WithStatusFilter(t *testing.T) {
	var capturedStatus *models.BookingStatus
	svc := &mockBookingService{
		listResourceFn: func(ctx context.Context, resourceID uint, status *models.BookingStatus) ([]models.Booking, error) {
			capturedStatus = status
			return []models.Booking{}, nil
		},
	}

	e := echo.New()
	c, _ := newContext(e, http.MethodGet, "/api/v1/resources/1/bookings?status=approved", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.ListBookings(c)

	assert.NoError(t, err)
	assert.NotNil(t, capturedStatus)
	assert.Equal(t, models.StatusApproved, *capturedStatus)
}

func TestListBookings_Handler_InvalidStatusFilter(t *testing.T) {
	e := echo.New()
	c, _ := newContext(e, http.MethodGet, "/api/v1/resources/1/bookings?status=confirmed", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(&mockBookingService{})
	err := h.ListBookings(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCheckAvailability_Handler(t *testing.T) {
	svc := &mockBookingService{
		availabilityFn: func(ctx context.Context, resourceID uint, iv models.Interval) (bool, []models.Booking, error) {
			return false, []models.Booking{{ID: 7, ResourceID: resourceID, Status: models.StatusApproved}}, nil
		},
	}

	e := echo.New()
	c, rec := newContext(e, http.MethodGet, "/api/v1/resources/1/availability?start=2026-03-02T09:00:00Z&end=2026-03-02T10:00:00Z", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.CheckAvailability(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AvailabilityResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Available)
	assert.Len(t, resp.Conflicts, 1)
}

func TestCheckAvailability_Handler_BadTimestamps(t *testing.T) {
	e := echo.New()
	c, _ := newContext(e, http.MethodGet, "/api/v1/resources/1/availability?start=tomorrow&end=later", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(&mockBookingService{})
	err := h.CheckAvailability(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestSweep_Handler(t *testing.T) {
	svc := &mockBookingService{
		sweepFn: func(ctx context.Context, now time.Time) (int64, error) {
			return 3, nil
		},
	}

	e := echo.New()
	c, rec := newContext(e, http.MethodPost, "/api/v1/admin/sweep", "")

	h := NewBookingHandler(svc)
	err := h.Sweep(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.SweepResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Completed)
}

func TestReschedule_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		rescheduleFn: func(ctx context.Context, bookingID uint, iv models.Interval, actor models.Actor) (*models.Booking, error) {
			return &models.Booking{ID: bookingID, StartAt: iv.Start, EndAt: iv.End, Status: models.StatusApproved}, nil
		},
	}

	e := echo.New()
	body := `{"actor_id":"user-1","actor_role":"student","start_at":"2026-03-02T11:00:00Z","end_at":"2026-03-02T12:00:00Z"}`
	c, rec := newContext(e, http.MethodPatch, "/api/v1/bookings/1", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.Reschedule(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
