package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// UpdateProfileRequest for PUT /photographer/profile. Omitted fields are cleared.
type UpdateProfileRequest struct {
	Bio             *string  `json:"bio" validate:"omitempty,max=2000"`
	Specialty       *string  `json:"specialty" validate:"omitempty,max=100"`
	Location        *string  `json:"location" validate:"omitempty,max=200"`
	HourlyRate      *float64 `json:"hourlyRate" validate:"omitempty,money"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Styles          []string `json:"styles" validate:"omitempty,max=20,dive,max=50"`
	YearsExperience *int     `json:"yearsExperience" validate:"omitempty,gte=0,lte=80"`
	Equipment       []string `json:"equipment" validate:"omitempty,max=30,dive,max=100"`
	TravelDistance  *int     `json:"travelDistance" validate:"omitempty,gte=0,lte=20000"`
}

// ProfileResponse represents a photographer profile in API responses
type ProfileResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	Bio             *string   `json:"bio"`
	Specialty       *string   `json:"specialty"`
	Location        *string   `json:"location"`
	HourlyRate      *float64  `json:"hourlyRate"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	Styles          []string  `json:"styles"`
	YearsExperience *int      `json:"yearsExperience"`
	Equipment       []string  `json:"equipment"`
	TravelDistance  *int      `json:"travelDistance"`
	AvatarURL       *string   `json:"avatarUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ResponseFromEntity converts a profile to its API shape
func ResponseFromEntity(p *Profile) *ProfileResponse {
	styles := []string(p.Styles)
	if styles == nil {
		styles = []string{}
	}
	equipment := []string(p.Equipment)
	if equipment == nil {
		equipment = []string{}
	}

	return &ProfileResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		Bio:             nullable.StringPtr(p.Bio),
		Specialty:       nullable.StringPtr(p.Specialty),
		Location:        nullable.StringPtr(p.Location),
		HourlyRate:      nullable.Float64Ptr(p.HourlyRate),
		Latitude:        nullable.Float64Ptr(p.Latitude),
		Longitude:       nullable.Float64Ptr(p.Longitude),
		Styles:          styles,
		YearsExperience: nullable.IntPtr(p.YearsExperience),
		Equipment:       equipment,
		TravelDistance:  nullable.IntPtr(p.TravelDistance),
		AvatarURL:       nullable.StringPtr(p.AvatarURL),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
