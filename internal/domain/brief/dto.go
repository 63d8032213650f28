package brief

import (
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// CreateBriefRequest for POST /briefs
type CreateBriefRequest struct {
	Title       string     `json:"title" validate:"required,notblank,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	EventDate   *time.Time `json:"eventDate"`
	Budget      *float64   `json:"budget" validate:"omitempty,money"`
}

// BriefResponse represents a brief in API responses
type BriefResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClientID    uuid.UUID  `json:"clientId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	EventDate   *time.Time `json:"eventDate"`
	Budget      *float64   `json:"budget"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ResponseFromEntity converts a brief
func ResponseFromEntity(b *Brief) *BriefResponse {
	return &BriefResponse{
		ID:          b.ID,
		ClientID:    b.ClientID,
		Title:       b.Title,
		Description: nullable.StringPtr(b.Description),
		Location:    nullable.StringPtr(b.Location),
		EventDate:   nullable.TimePtr(b.EventDate),
		Budget:      nullable.Float64Ptr(b.Budget),
		CreatedAt:   b.CreatedAt,
	}
}
