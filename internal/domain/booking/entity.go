package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents booking status (matches bookings.status check)
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusDeclined  Status = "DECLINED"
	StatusCancelled Status = "CANCELLED"
)

// ActiveStatuses hold the photographer's time slot
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusDeclined, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether a booking in this status blocks its interval
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDeclined || s == StatusCancelled
}

// Booking represents a reserved interval between a client and a photographer
type Booking struct {
	ID             uuid.UUID     `db:"id"`
	ClientID       uuid.UUID     `db:"client_id"`
	PhotographerID uuid.UUID     `db:"photographer_id"`
	BriefID        uuid.NullUUID `db:"brief_id"`
	StartAt        time.Time     `db:"start_at"`
	EndAt          time.Time     `db:"end_at"`
	Price          float64       `db:"price"`
	Status         Status        `db:"status"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

// Interval returns the booked time window
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartAt, End: b.EndAt}
}

// ActorOf returns the role userID plays in this booking
func (b *Booking) ActorOf(userID uuid.UUID) Actor {
	switch userID {
	case b.PhotographerID:
		return ActorPhotographer
	case b.ClientID:
		return ActorClient
	}
	return ActorNone
}

// IsParticipant reports whether userID is the client or the photographer
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return b.ActorOf(userID) != ActorNone
}

// Details is a booking joined with its brief and participant names
type Details struct {
	Booking
	BriefTitle            sql.NullString `db:"brief_title"`
	BriefLocation         sql.NullString `db:"brief_location"`
	ClientFirstName       string         `db:"client_first_name"`
	ClientLastName        string         `db:"client_last_name"`
	PhotographerFirstName string         `db:"photographer_first_name"`
	PhotographerLastName  string         `db:"photographer_last_name"`
}
