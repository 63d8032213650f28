package portfolio

import (
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// AddItemRequest holds the form fields sent alongside the image
type AddItemRequest struct {
	Caption    *string `json:"caption" validate:"omitempty,max=500"`
	Category   *string `json:"category" validate:"omitempty,max=50"`
	IsFeatured bool    `json:"isFeatured"`
}

// ItemResponse represents a portfolio item in API responses
type ItemResponse struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Caption      *string   `json:"caption"`
	Category     *string   `json:"category"`
	IsFeatured   bool      `json:"isFeatured"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ItemResponseFromEntity converts a portfolio item
func ItemResponseFromEntity(i *Item) *ItemResponse {
	return &ItemResponse{
		ID:           i.ID,
		URL:          i.URL,
		ThumbnailURL: i.ThumbnailURL,
		Caption:      nullable.StringPtr(i.Caption),
		Category:     nullable.StringPtr(i.Category),
		IsFeatured:   i.IsFeatured,
		CreatedAt:    i.CreatedAt,
	}
}

// ItemResponses converts a list of items, never returning nil
func ItemResponses(items []*Item) []*ItemResponse {
	out := make([]*ItemResponse, len(items))
	for i, item := range items {
		out[i] = ItemResponseFromEntity(item)
	}
	return out
}
