package brief

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines brief data access
type Repository interface {
	Create(ctx context.Context, b *Brief) error
	GetByID(ctx context.Context, id uuid.UUID) (*Brief, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Brief, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates brief repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const briefColumns = `id, client_id, title, description, location, event_date, budget, created_at, updated_at`

func (r *repository) Create(ctx context.Context, b *Brief) error {
	query := `
		INSERT INTO briefs (` + briefColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.ClientID, b.Title, b.Description, b.Location, b.EventDate, b.Budget, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("brief repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Brief, error) {
	var b Brief
	if err := r.db.GetContext(ctx, &b, `SELECT `+briefColumns+` FROM briefs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Brief, error) {
	var briefs []*Brief
	query := `SELECT ` + briefColumns + ` FROM briefs WHERE client_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &briefs, query, clientID); err != nil {
		return nil, err
	}
	return briefs, nil
}
