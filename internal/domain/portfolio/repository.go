package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines portfolio data access
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// ListByProfile returns featured items first, then newest first.
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates portfolio repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const itemColumns = `id, profile_id, url, storage_key, thumbnail_url, thumbnail_key, caption, category, is_featured, created_at`

func (r *repository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO portfolio_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.ProfileID, item.URL, item.StorageKey, item.ThumbnailURL, item.ThumbnailKey,
		item.Caption, item.Category, item.IsFeatured, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("portfolio repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	var item Item
	err := r.db.GetContext(ctx, &item, `SELECT `+itemColumns+` FROM portfolio_items WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM portfolio_items
		WHERE profile_id = $1
		ORDER BY is_featured DESC, created_at DESC
	`
	var items []*Item
	if err := r.db.SelectContext(ctx, &items, query, profileID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM portfolio_items WHERE id = $1`, id)
	return err
}
