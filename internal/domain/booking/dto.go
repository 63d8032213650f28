package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/conversation"
	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// CreateBookingRequest for POST /bookings
type CreateBookingRequest struct {
	PhotographerID string    `json:"photographerId" validate:"required,uuid"`
	BriefID        *string   `json:"briefId" validate:"omitempty,uuid"`
	StartAt        time.Time `json:"startAt" validate:"required"`
	EndAt          time.Time `json:"endAt" validate:"required"`
	Price          *float64  `json:"price" validate:"omitempty,money"`
}

// UpdateBookingRequest for PUT /bookings/{id}
type UpdateBookingRequest struct {
	Status *string  `json:"status" validate:"omitempty,booking_status"`
	Price  *float64 `json:"price" validate:"omitempty,money"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID             uuid.UUID  `json:"id"`
	ClientID       uuid.UUID  `json:"clientId"`
	PhotographerID uuid.UUID  `json:"photographerId"`
	BriefID        *uuid.UUID `json:"briefId"`
	StartAt        time.Time  `json:"startAt"`
	EndAt          time.Time  `json:"endAt"`
	Price          float64    `json:"price"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// PersonResponse is a participant name
type PersonResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// BriefSummary is the part of a brief shown with a booking
type BriefSummary struct {
	Title    string  `json:"title"`
	Location *string `json:"location"`
}

// DetailsResponse is a booking with names and brief summary
type DetailsResponse struct {
	BookingResponse
	Brief        *BriefSummary  `json:"brief"`
	Client       PersonResponse `json:"client"`
	Photographer PersonResponse `json:"photographer"`
}

// CreatedResponse for POST /bookings. Conversation is null when linking failed.
type CreatedResponse struct {
	Booking      *BookingResponse                   `json:"booking"`
	Conversation *conversation.ConversationResponse `json:"conversation"`
}

// ResponseFromEntity converts a booking
func ResponseFromEntity(b *Booking) *BookingResponse {
	return &BookingResponse{
		ID:             b.ID,
		ClientID:       b.ClientID,
		PhotographerID: b.PhotographerID,
		BriefID:        nullable.UUIDPtr(b.BriefID),
		StartAt:        b.StartAt,
		EndAt:          b.EndAt,
		Price:          b.Price,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// DetailsResponseFromEntity converts a joined booking row
func DetailsResponseFromEntity(d *Details) *DetailsResponse {
	resp := &DetailsResponse{
		BookingResponse: *ResponseFromEntity(&d.Booking),
		Client: PersonResponse{
			ID:        d.ClientID,
			FirstName: d.ClientFirstName,
			LastName:  d.ClientLastName,
		},
		Photographer: PersonResponse{
			ID:        d.PhotographerID,
			FirstName: d.PhotographerFirstName,
			LastName:  d.PhotographerLastName,
		},
	}
	if d.BriefTitle.Valid {
		resp.Brief = &BriefSummary{
			Title:    d.BriefTitle.String,
			Location: nullable.StringPtr(d.BriefLocation),
		}
	}
	return resp
}
