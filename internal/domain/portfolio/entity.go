package portfolio

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Item is one portfolio photo (matches portfolio_items table)
type Item struct {
	ID           uuid.UUID      `db:"id"`
	ProfileID    uuid.UUID      `db:"profile_id"`
	URL          string         `db:"url"`
	StorageKey   string         `db:"storage_key"`
	ThumbnailURL string         `db:"thumbnail_url"`
	ThumbnailKey string         `db:"thumbnail_key"`
	Caption      sql.NullString `db:"caption"`
	Category     sql.NullString `db:"category"`
	IsFeatured   bool           `db:"is_featured"`
	CreatedAt    time.Time      `db:"created_at"`
}
