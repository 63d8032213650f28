package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// CreateRequest for POST /reviews
type CreateRequest struct {
	BookingID string  `json:"bookingId" validate:"required,uuid"`
	Rating    int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewResponse for API response
type ReviewResponse struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"bookingId"`
	ReviewerID     uuid.UUID `json:"reviewerId"`
	ReviewerName   string    `json:"reviewerName,omitempty"`
	PhotographerID uuid.UUID `json:"photographerId"`
	Rating         int       `json:"rating"`
	Comment        *string   `json:"comment"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToResponse converts entity to response
func (r *Review) ToResponse() *ReviewResponse {
	return &ReviewResponse{
		ID:             r.ID,
		BookingID:      r.BookingID,
		ReviewerID:     r.ReviewerID,
		PhotographerID: r.PhotographerID,
		Rating:         r.Rating,
		Comment:        nullable.StringPtr(r.Comment),
		CreatedAt:      r.CreatedAt,
	}
}

// ToResponse converts a joined row, including the reviewer's name
func (r *WithReviewer) ToResponse() *ReviewResponse {
	resp := r.Review.ToResponse()
	resp.ReviewerName = r.ReviewerFirstName + " " + r.ReviewerLastName
	return resp
}

// ToResponses converts a page of joined rows
func ToResponses(items []*WithReviewer) []*ReviewResponse {
	out := make([]*ReviewResponse, len(items))
	for i, item := range items {
		out[i] = item.ToResponse()
	}
	return out
}
