package review

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/booking"
	"github.com/focalfinder/focalfinder-api/internal/pkg/logger"
	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// BookingReader is the part of the booking store reviews depend on
type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	LatestReviewable(ctx context.Context, clientID, photographerID uuid.UUID, before time.Time) (*booking.Booking, error)
}

// Service handles review business logic
type Service struct {
	repo     Repository
	bookings BookingReader
	now      func() time.Time
}

// NewService creates review service
func NewService(repo Repository, bookings BookingReader) *Service {
	return &Service{repo: repo, bookings: bookings, now: time.Now}
}

// CanReview looks only at the most recent past, non-cancelled booking
// between the pair. If that booking is already reviewed the answer is no,
// even when an older booking is still unreviewed.
func (s *Service) CanReview(ctx context.Context, clientID, photographerID uuid.UUID) (*Eligibility, error) {
	b, err := s.bookings.LatestReviewable(ctx, clientID, photographerID, s.now())
	if err != nil {
		return nil, err
	}
	if b == nil {
		return &Eligibility{Allowed: false}, nil
	}

	reviewed, err := s.repo.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return &Eligibility{Allowed: false}, nil
	}

	id := b.ID
	return &Eligibility{Allowed: true, BookingID: &id}, nil
}

// Submit records a review by the booking's client
func (s *Service) Submit(ctx context.Context, reviewerID uuid.UUID, req *CreateRequest) (*Review, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.ClientID != reviewerID {
		return nil, ErrNotBookingClient
	}
	if b.Status == booking.StatusCancelled {
		return nil, ErrBookingCancelled
	}

	now := s.now()
	if !b.StartAt.Before(now) {
		return nil, ErrBookingNotStarted
	}

	reviewed, err := s.repo.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, ErrAlreadyReviewed
	}

	var comment *string
	if req.Comment != nil {
		trimmed := strings.TrimSpace(*req.Comment)
		comment = &trimmed
	}

	rev := &Review{
		ID:             uuid.New(),
		BookingID:      b.ID,
		ReviewerID:     reviewerID,
		PhotographerID: b.PhotographerID,
		Rating:         req.Rating,
		Comment:        nullable.String(comment),
		CreatedAt:      now.UTC(),
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	logger.LogInfo(ctx, "Review submitted",
		"booking_id", b.ID.String(),
		"photographer_id", b.PhotographerID.String(),
		"rating", rev.Rating,
	)
	return rev, nil
}

// List returns a page of a photographer's reviews, newest first
func (s *Service) List(ctx context.Context, photographerID uuid.UUID, limit, offset int) ([]*WithReviewer, int, error) {
	items, err := s.repo.ListByPhotographer(ctx, photographerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByPhotographer(ctx, photographerID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Summary returns average, count and distribution of ratings
func (s *Service) Summary(ctx context.Context, photographerID uuid.UUID) (*Summary, error) {
	return s.repo.Summary(ctx, photographerID)
}
