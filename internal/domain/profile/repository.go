package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines photographer profile data access
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	// Upsert writes every editable column, creating the row on first use.
	// It fills in the stored ID and CreatedAt.
	Upsert(ctx context.Context, p *Profile) error
	// EnsureForUser returns the user's profile, creating an empty one if needed.
	EnsureForUser(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateAvatar(ctx context.Context, profileID uuid.UUID, url, key string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates profile repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const profileColumns = `
	id, user_id, bio, specialty, location, hourly_rate, latitude, longitude,
	styles, years_experience, equipment, travel_distance, avatar_url, avatar_key,
	created_at, updated_at`

func (r *repository) get(ctx context.Context, where string, arg interface{}) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM photographer_profiles WHERE ` + where

	var p Profile
	if err := r.db.GetContext(ctx, &p, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return r.get(ctx, "user_id = $1", userID)
}

func (r *repository) Upsert(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO photographer_profiles (
			id, user_id, bio, specialty, location, hourly_rate, latitude, longitude,
			styles, years_experience, equipment, travel_distance, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			bio = EXCLUDED.bio,
			specialty = EXCLUDED.specialty,
			location = EXCLUDED.location,
			hourly_rate = EXCLUDED.hourly_rate,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			styles = EXCLUDED.styles,
			years_experience = EXCLUDED.years_experience,
			equipment = EXCLUDED.equipment,
			travel_distance = EXCLUDED.travel_distance,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, avatar_url, avatar_key
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.UserID, p.Bio, p.Specialty, p.Location, p.HourlyRate, p.Latitude, p.Longitude,
		p.Styles, p.YearsExperience, p.Equipment, p.TravelDistance, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.AvatarURL, &p.AvatarKey)
	if err != nil {
		return fmt.Errorf("profile repository upsert: %w", err)
	}
	return nil
}

func (r *repository) EnsureForUser(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO photographer_profiles (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, uuid.New(), userID)
	if err != nil {
		return nil, fmt.Errorf("profile repository ensure: %w", err)
	}

	p, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		// Only possible if the user row vanished in between.
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (r *repository) UpdateAvatar(ctx context.Context, profileID uuid.UUID, url, key string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE photographer_profiles SET avatar_url = $2, avatar_key = $3, updated_at = NOW()
		WHERE id = $1
	`, profileID, url, key)
	return err
}
