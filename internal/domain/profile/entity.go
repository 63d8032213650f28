package profile

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Profile is a photographer's public profile (matches photographer_profiles table)
type Profile struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Bio       sql.NullString `db:"bio"`
	Specialty sql.NullString `db:"specialty"`
	Location  sql.NullString `db:"location"`

	HourlyRate sql.NullFloat64 `db:"hourly_rate"`
	Latitude   sql.NullFloat64 `db:"latitude"`
	Longitude  sql.NullFloat64 `db:"longitude"`

	Styles          pq.StringArray `db:"styles"`
	YearsExperience sql.NullInt32  `db:"years_experience"`
	Equipment       pq.StringArray `db:"equipment"`
	TravelDistance  sql.NullInt32  `db:"travel_distance"`

	AvatarURL sql.NullString `db:"avatar_url"`
	AvatarKey sql.NullString `db:"avatar_key"`
}
