package review

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Review is a client's rating of a past booking (matches reviews table)
type Review struct {
	ID             uuid.UUID      `db:"id"`
	BookingID      uuid.UUID      `db:"booking_id"`
	ReviewerID     uuid.UUID      `db:"reviewer_id"`
	PhotographerID uuid.UUID      `db:"photographer_id"`
	Rating         int            `db:"rating"`
	Comment        sql.NullString `db:"comment"`
	CreatedAt      time.Time      `db:"created_at"`
}

// WithReviewer is a review joined with the reviewer's name
type WithReviewer struct {
	Review
	ReviewerFirstName string `db:"reviewer_first_name"`
	ReviewerLastName  string `db:"reviewer_last_name"`
}

// Summary is the rating overview of one photographer
type Summary struct {
	Average      float64     `json:"average"`
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution"`
}

// Eligibility is the answer to "may this client review this photographer"
type Eligibility struct {
	Allowed   bool       `json:"allowed"`
	BookingID *uuid.UUID `json:"bookingId,omitempty"`
}
