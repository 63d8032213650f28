package servicepackage

import (
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// PackageRequest for POST and PUT /photographer/packages
type PackageRequest struct {
	Name          string   `json:"name" validate:"required,notblank,max=100"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	Price         *float64 `json:"price" validate:"omitempty,money"`
	DurationHours *int     `json:"durationHours" validate:"omitempty,gte=1,lte=240"`
	Features      []string `json:"features" validate:"omitempty,max=30,dive,max=200"`
	IsActive      *bool    `json:"isActive"`
}

// PackageResponse represents a service package in API responses
type PackageResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	DurationHours *int      `json:"durationHours"`
	Features      []string  `json:"features"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ResponseFromEntity converts a package
func ResponseFromEntity(p *Package) *PackageResponse {
	features := []string(p.Features)
	if features == nil {
		features = []string{}
	}
	return &PackageResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   nullable.StringPtr(p.Description),
		Price:         nullable.Float64Ptr(p.Price),
		DurationHours: nullable.IntPtr(p.DurationHours),
		Features:      features,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Responses converts a list of packages, never returning nil
func Responses(pkgs []*Package) []*PackageResponse {
	out := make([]*PackageResponse, len(pkgs))
	for i, p := range pkgs {
		out[i] = ResponseFromEntity(p)
	}
	return out
}
