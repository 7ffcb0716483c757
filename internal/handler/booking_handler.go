package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/campusbook/booking-service/internal/dto"
	"github.com/campusbook/booking-service/internal/models"
	"github.com/campusbook/booking-service/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	resources := e.Group("/api/v1/resources")
	resources.POST("/:id/bookings", h.CreateBooking)
	resources.GET("/:id/bookings", h.ListBookings)
	resources.GET("/:id/availability", h.CheckAvailability)

	bookings := e.Group("/api/v1/bookings")
	bookings.GET("/:id", h.GetBooking)
	bookings.PATCH("/:id", h.Reschedule)
	bookings.POST("/:id/approve", h.statusChange(service.ActionApprove))
	bookings.POST("/:id/reject", h.statusChange(service.ActionReject))
	bookings.POST("/:id/cancel", h.statusChange(service.ActionCancel))

	e.GET("/api/v1/users/:id/bookings", h.ListUserBookings)
	e.GET("/api/v1/users/:id/upcoming", h.ListUpcoming)
	e.GET("/api/v1/owners/:id/pending", h.ListPendingForOwner)
	e.POST("/api/v1/admin/sweep", h.Sweep)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	resourceID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource id")
	}

	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RequesterID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "requester_id is required")
	}

	submit := service.SubmitRequest{
		ResourceID:  uint(resourceID),
		RequesterID: req.RequesterID,
		Start:       req.StartAt,
		End:         req.EndAt,
		Purpose:     req.Purpose,
		Notes:       req.Notes,
	}

	if req.Recurrence != nil {
		rec := service.Recurrence{
			Cadence: service.Cadence(req.Recurrence.Pattern),
			Count:   req.Recurrence.Count,
			EndDate: req.Recurrence.EndDate,
		}
		result, err := h.svc.SubmitRecurring(c.Request().Context(), submit, rec)
		if err != nil {
			return bookingError(err)
		}
		return c.JSON(http.StatusCreated, dto.RecurringBookingResponse{
			Created:     dto.ToBookingResponses(result.Created),
			FailedSlots: dto.ToIntervalResponses(result.FailedSlots),
		})
	}

	booking, err := h.svc.SubmitBooking(c.Request().Context(), submit)
	if err != nil {
		return bookingError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) statusChange(action service.Action) echo.HandlerFunc {
	return func(c echo.Context) error {
		bookingID, err := pathID(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
		}

		var req dto.StatusChangeRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if req.ActorID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "actor_id is required")
		}

		actor := models.Actor{ID: req.ActorID, Role: models.ActorRole(req.ActorRole)}
		booking, err := h.svc.ChangeStatus(c.Request().Context(), uint(bookingID), action, actor, req.Reason)
		if err != nil {
			return bookingError(err)
		}
		return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
	}
}

func (h *BookingHandler) Reschedule(c echo.Context) error {
	bookingID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req dto.RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ActorID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "actor_id is required")
	}

	actor := models.Actor{ID: req.ActorID, Role: models.ActorRole(req.ActorRole)}
	iv := models.Interval{Start: req.StartAt, End: req.EndAt}
	booking, err := h.svc.RescheduleBooking(c.Request().Context(), uint(bookingID), iv, actor)
	if err != nil {
		return bookingError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	bookingID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), uint(bookingID))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	resourceID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource id")
	}

	status, err := statusFilter(c)
	if err != nil {
		return err
	}
	bookings, err := h.svc.ListByResource(c.Request().Context(), uint(resourceID), status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) ListUserBookings(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	status, err := statusFilter(c)
	if err != nil {
		return err
	}
	bookings, err := h.svc.ListByRequester(c.Request().Context(), userID, status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) ListUpcoming(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	limit := 10
	if l := c.QueryParam("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	bookings, err := h.svc.UpcomingForUser(c.Request().Context(), userID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) ListPendingForOwner(c echo.Context) error {
	ownerID := c.Param("id")
	if ownerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid owner id")
	}

	bookings, err := h.svc.PendingForOwner(c.Request().Context(), ownerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	resourceID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource id")
	}

	start, err1 := time.Parse(time.RFC3339, c.QueryParam("start"))
	end, err2 := time.Parse(time.RFC3339, c.QueryParam("end"))
	if err1 != nil || err2 != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start and end must be RFC3339 timestamps")
	}

	available, conflicts, err := h.svc.CheckAvailability(c.Request().Context(), uint(resourceID), models.Interval{Start: start, End: end})
	if err != nil {
		return bookingError(err)
	}

	msg := "time slot is available"
	if !available {
		msg = "time slot is already booked"
	}
	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		Available: available,
		Message:   msg,
		Conflicts: dto.ToBookingResponses(conflicts),
	})
}

func (h *BookingHandler) Sweep(c echo.Context) error {
	count, err := h.svc.SweepCompleted(c.Request().Context(), time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.SweepResponse{Completed: count})
}

func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

func statusFilter(c echo.Context) (*models.BookingStatus, error) {
	s := c.QueryParam("status")
	if s == "" {
		return nil, nil
	}
	status := models.BookingStatus(s)
	if !status.Valid() {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}
	return &status, nil
}

// bookingError maps service sentinels onto HTTP statuses.
func bookingError(err error) error {
	switch {
	case service.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrResourceUnavailable):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrResourceNotFound), errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBookingConflict), errors.Is(err, service.ErrAllSlotsConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
