package photographer

import (
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/portfolio"
	"github.com/focalfinder/focalfinder-api/internal/domain/profile"
	"github.com/focalfinder/focalfinder-api/internal/domain/review"
	"github.com/focalfinder/focalfinder-api/internal/domain/servicepackage"
	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// CardResponse is a directory search result
type CardResponse struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Specialty     *string   `json:"specialty"`
	Location      *string   `json:"location"`
	HourlyRate    *float64  `json:"hourlyRate"`
	AvatarURL     *string   `json:"avatarUrl"`
	CoverImageURL *string   `json:"coverImageUrl"`
	RatingAverage float64   `json:"ratingAverage"`
	RatingCount   int       `json:"ratingCount"`
}

// DetailResponse is the public photographer page
type DetailResponse struct {
	ID        uuid.UUID                         `json:"id"`
	FirstName string                            `json:"firstName"`
	LastName  string                            `json:"lastName"`
	Specialty *string                           `json:"specialty"`
	Profile   *profile.ProfileResponse          `json:"profile"`
	Packages  []*servicepackage.PackageResponse `json:"packages"`
	Portfolio []*portfolio.ItemResponse         `json:"portfolio"`
	Reviews   []*review.ReviewResponse          `json:"reviews"`
	Rating    *review.Summary                   `json:"rating"`
	CreatedAt time.Time                         `json:"createdAt"`
}

// CardResponseFromEntity converts a search row
func CardResponseFromEntity(c *Card) *CardResponse {
	return &CardResponse{
		ID:            c.UserID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Specialty:     nullable.StringPtr(c.Specialty),
		Location:      nullable.StringPtr(c.Location),
		HourlyRate:    nullable.Float64Ptr(c.HourlyRate),
		AvatarURL:     nullable.StringPtr(c.AvatarURL),
		CoverImageURL: nullable.StringPtr(c.CoverImageURL),
		RatingAverage: c.RatingAverage,
		RatingCount:   c.RatingCount,
	}
}
