package handler

import (
	"errors"
	"net/http"

	"github.com/campusbook/booking-service/internal/dto"
	"github.com/campusbook/booking-service/internal/service"
	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) RegisterRoutes(e *echo.Echo) {
	resources := e.Group("/api/v1/resources")
	resources.POST("/:id/reviews", h.CreateReview)
	resources.GET("/:id/reviews", h.ListReviews)

	e.GET("/api/v1/users/:id/reviewable", h.ListReviewable)
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	resourceID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource id")
	}

	var req dto.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ReviewerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reviewer_id is required")
	}

	review, err := h.svc.CreateReview(c.Request().Context(), service.ReviewRequest{
		ResourceID: uint(resourceID),
		ReviewerID: req.ReviewerID,
		BookingID:  req.BookingID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotEligibleToReview):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, dto.ToReviewResponse(review))
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	resourceID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource id")
	}

	reviews, avg, err := h.svc.ListForResource(c.Request().Context(), uint(resourceID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := dto.ResourceReviewsResponse{AverageRating: avg}
	resp.Reviews = make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		resp.Reviews[i] = dto.ToReviewResponse(&reviews[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) ListReviewable(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	bookings, err := h.svc.ReviewableBookings(c.Request().Context(), userID, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}
