package photographer

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Filter narrows the public directory search
type Filter struct {
	Query     string
	Specialty string
	Location  string
	MinPrice  *float64
	MaxPrice  *float64
}

// Card is one search result row
type Card struct {
	UserID        uuid.UUID       `db:"user_id"`
	FirstName     string          `db:"first_name"`
	LastName      string          `db:"last_name"`
	Specialty     sql.NullString  `db:"specialty"`
	Location      sql.NullString  `db:"location"`
	HourlyRate    sql.NullFloat64 `db:"hourly_rate"`
	AvatarURL     sql.NullString  `db:"avatar_url"`
	CoverImageURL sql.NullString  `db:"cover_image_url"`
	RatingAverage float64         `db:"rating_average"`
	RatingCount   int             `db:"rating_count"`
	CreatedAt     time.Time       `db:"created_at"`
}

// likePattern escapes LIKE wildcards and wraps s for a substring match
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
