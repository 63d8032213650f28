package servicepackage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Package is a priced offering on a photographer profile (matches service_packages table)
type Package struct {
	ID            uuid.UUID       `db:"id"`
	ProfileID     uuid.UUID       `db:"profile_id"`
	Name          string          `db:"name"`
	Description   sql.NullString  `db:"description"`
	Price         sql.NullFloat64 `db:"price"`
	DurationHours sql.NullInt32   `db:"duration_hours"`
	Features      pq.StringArray  `db:"features"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}
