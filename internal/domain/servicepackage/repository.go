package servicepackage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines service package data access
type Repository interface {
	Create(ctx context.Context, p *Package) error
	GetByID(ctx context.Context, id uuid.UUID) (*Package, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, activeOnly bool) ([]*Package, error)
	Update(ctx context.Context, p *Package) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates service package repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const packageColumns = `id, profile_id, name, description, price, duration_hours, features, is_active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, p *Package) error {
	query := `
		INSERT INTO service_packages (` + packageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ProfileID, p.Name, p.Description, p.Price, p.DurationHours,
		p.Features, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("service package repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	var p Package
	err := r.db.GetContext(ctx, &p, `SELECT `+packageColumns+` FROM service_packages WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByProfile(ctx context.Context, profileID uuid.UUID, activeOnly bool) ([]*Package, error) {
	query := `
		SELECT ` + packageColumns + ` FROM service_packages
		WHERE profile_id = $1 AND ($2 = FALSE OR is_active)
		ORDER BY price ASC NULLS LAST, created_at ASC
	`
	var pkgs []*Package
	if err := r.db.SelectContext(ctx, &pkgs, query, profileID, activeOnly); err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *repository) Update(ctx context.Context, p *Package) error {
	query := `
		UPDATE service_packages SET
			name = $2, description = $3, price = $4, duration_hours = $5,
			features = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.DurationHours, p.Features, p.IsActive, p.UpdatedAt,
	)
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM service_packages WHERE id = $1`, id)
	return err
}
