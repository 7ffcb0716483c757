package service

import (
	"context"

	"github.com/campusbook/booking-service/internal/models"
	"github.com/campusbook/booking-service/internal/repository"
)

type ReviewRequest struct {
	ResourceID uint
	ReviewerID string
	BookingID  uint
	Rating     int
	Comment    string
}

type ReviewService interface {
	CreateReview(ctx context.Context, req ReviewRequest) (*models.Review, error)
	ReviewableBookings(ctx context.Context, requesterID string, resourceID *uint) ([]models.Booking, error)
	ListForResource(ctx context.Context, resourceID uint) ([]models.Review, float64, error)
}

type reviewService struct {
	reviews  repository.ReviewRepository
	bookings repository.BookingRepository
}

func NewReviewService(reviews repository.ReviewRepository, bookings repository.BookingRepository) ReviewService {
	return &reviewService{reviews: reviews, bookings: bookings}
}

// CreateReview admits a review only from a user holding a completed
// booking for the resource who has not yet reviewed that booking.
// Eligibility is derived from booking state on every call, never cached.
func (s *reviewService) CreateReview(ctx context.Context, req ReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	booking, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	if booking.RequesterID != req.ReviewerID ||
		booking.ResourceID != req.ResourceID ||
		booking.Status != models.StatusCompleted {
		return nil, ErrNotEligibleToReview
	}

	reviewed, err := s.reviews.ExistsForBooking(ctx, req.ReviewerID, req.BookingID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, ErrNotEligibleToReview
	}

	review := &models.Review{
		ResourceID: req.ResourceID,
		ReviewerID: req.ReviewerID,
		BookingID:  req.BookingID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ReviewableBookings returns the user's completed bookings that still
// lack a review, optionally scoped to one resource.
func (s *reviewService) ReviewableBookings(ctx context.Context, requesterID string, resourceID *uint) ([]models.Booking, error) {
	completed, err := s.bookings.FindCompletedByRequester(ctx, requesterID, resourceID)
	if err != nil {
		return nil, err
	}

	var reviewable []models.Booking
	for _, booking := range completed {
		reviewed, err := s.reviews.ExistsForBooking(ctx, requesterID, booking.ID)
		if err != nil {
			return nil, err
		}
		if !reviewed {
			reviewable = append(reviewable, booking)
		}
	}
	return reviewable, nil
}

func (s *reviewService) ListForResource(ctx context.Context, resourceID uint) ([]models.Review, float64, error) {
	reviews, err := s.reviews.FindByResource(ctx, resourceID, false)
	if err != nil {
		return nil, 0, err
	}
	avg, err := s.reviews.AverageRating(ctx, resourceID)
	if err != nil {
		return nil, 0, err
	}
	return reviews, avg, nil
}
