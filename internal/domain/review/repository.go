package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/focalfinder/focalfinder-api/internal/pkg/database"
)

// Repository handles review database operations
type Repository interface {
	// Create returns ErrAlreadyReviewed if the booking has a review.
	Create(ctx context.Context, review *Review) error
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	ListByPhotographer(ctx context.Context, photographerID uuid.UUID, limit, offset int) ([]*WithReviewer, error)
	CountByPhotographer(ctx context.Context, photographerID uuid.UUID) (int, error)
	Summary(ctx context.Context, photographerID uuid.UUID) (*Summary, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a new review repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, reviewer_id, photographer_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.BookingID,
		review.ReviewerID,
		review.PhotographerID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "reviews_booking_id_key") {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("review repository create: %w", err)
	}
	return nil
}

func (r *repository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID)
	return exists, err
}

func (r *repository) ListByPhotographer(ctx context.Context, photographerID uuid.UUID, limit, offset int) ([]*WithReviewer, error) {
	query := `
		SELECT rv.id, rv.booking_id, rv.reviewer_id, rv.photographer_id, rv.rating, rv.comment, rv.created_at,
		       u.first_name AS reviewer_first_name, u.last_name AS reviewer_last_name
		FROM reviews rv
		JOIN users u ON u.id = rv.reviewer_id
		WHERE rv.photographer_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2 OFFSET $3
	`
	var reviews []*WithReviewer
	if err := r.db.SelectContext(ctx, &reviews, query, photographerID, limit, offset); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *repository) CountByPhotographer(ctx context.Context, photographerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reviews WHERE photographer_id = $1`, photographerID)
	return count, err
}

func (r *repository) Summary(ctx context.Context, photographerID uuid.UUID) (*Summary, error) {
	query := `
		SELECT rating, COUNT(*) AS count
		FROM reviews
		WHERE photographer_id = $1
		GROUP BY rating
	`
	type ratingCount struct {
		Rating int `db:"rating"`
		Count  int `db:"count"`
	}
	var counts []ratingCount
	if err := r.db.SelectContext(ctx, &counts, query, photographerID); err != nil {
		return nil, err
	}

	summary := &Summary{Distribution: make(map[int]int, 5)}
	for i := 1; i <= 5; i++ {
		summary.Distribution[i] = 0
	}
	total := 0
	for _, c := range counts {
		summary.Distribution[c.Rating] = c.Count
		summary.Count += c.Count
		total += c.Rating * c.Count
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}
