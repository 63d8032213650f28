package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/focalfinder/focalfinder-api/internal/pkg/database"
)

// Repository defines booking data access
type Repository interface {
	// CreateIfAvailable checks the photographer's active bookings and inserts
	// b in one serializable transaction. An overlap returns ErrConflict.
	CreateIfAvailable(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*Details, error)
	List(ctx context.Context, userID uuid.UUID, status *Status) ([]*Details, error)
	// Update writes status and price only if the stored status still equals
	// expected; otherwise it returns ErrConcurrentUpdate.
	Update(ctx context.Context, b *Booking, expected Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	// LatestReviewable returns the most recent non-cancelled booking between
	// the pair that started before the given time.
	LatestReviewable(ctx context.Context, clientID, photographerID uuid.UUID, before time.Time) (*Booking, error)
	BookingParticipants(ctx context.Context, id uuid.UUID) (clientID, photographerID uuid.UUID, found bool, err error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, client_id, photographer_id, brief_id, start_at, end_at, price, status, created_at, updated_at`

const detailsQuery = `
	SELECT b.id, b.client_id, b.photographer_id, b.brief_id, b.start_at, b.end_at, b.price, b.status,
	       b.created_at, b.updated_at,
	       br.title AS brief_title, br.location AS brief_location,
	       c.first_name AS client_first_name, c.last_name AS client_last_name,
	       p.first_name AS photographer_first_name, p.last_name AS photographer_last_name
	FROM bookings b
	JOIN users c ON c.id = b.client_id
	JOIN users p ON p.id = b.photographer_id
	LEFT JOIN briefs br ON br.id = b.brief_id
`

func (r *repository) CreateIfAvailable(ctx context.Context, b *Booking) error {
	err := database.WithSerializableTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var existing []*Booking
		query := `SELECT ` + bookingColumns + `
			FROM bookings
			WHERE photographer_id = $1 AND status = ANY($2)
			  AND start_at <= $4 AND end_at >= $3`
		if err := tx.SelectContext(ctx, &existing, query,
			b.PhotographerID, pq.Array(ActiveStatuses), b.StartAt, b.EndAt,
		); err != nil {
			return fmt.Errorf("select overlapping bookings: %w", err)
		}

		if FindConflict(existing, b.Interval()) != nil {
			return ErrConflict
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO bookings (id, client_id, photographer_id, brief_id, start_at, end_at, price, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, b.ID, b.ClientID, b.PhotographerID, b.BriefID, b.StartAt, b.EndAt, b.Price, b.Status, b.CreatedAt, b.UpdatedAt)
		if err != nil {
			return err
		}
		return nil
	})
	return classifyCreateError(err)
}

// classifyCreateError folds every way a concurrent overlapping insert can
// lose into ErrConflict.
func classifyCreateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConflict), database.IsExclusionViolation(err), database.IsSerializationFailure(err):
		return ErrConflict
	default:
		return fmt.Errorf("booking repository create: %w", err)
	}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetDetails(ctx context.Context, id uuid.UUID) (*Details, error) {
	var d Details
	if err := r.db.GetContext(ctx, &d, detailsQuery+` WHERE b.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, status *Status) ([]*Details, error) {
	query := detailsQuery + ` WHERE (b.client_id = $1 OR b.photographer_id = $1)`
	args := []interface{}{userID}
	if status != nil {
		query += ` AND b.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY b.created_at DESC`

	var out []*Details
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, b *Booking, expected Status) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET status = $2, price = $3, updated_at = $4
		WHERE id = $1 AND status = $5
	`, b.ID, b.Status, b.Price, b.UpdatedAt, expected)
	if err != nil {
		if database.IsExclusionViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("booking repository update: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	return err
}

func (r *repository) LatestReviewable(ctx context.Context, clientID, photographerID uuid.UUID, before time.Time) (*Booking, error) {
	var b Booking
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE client_id = $1 AND photographer_id = $2
		  AND status <> $3 AND start_at < $4
		ORDER BY start_at DESC
		LIMIT 1`
	if err := r.db.GetContext(ctx, &b, query, clientID, photographerID, StatusCancelled, before); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) BookingParticipants(ctx context.Context, id uuid.UUID) (uuid.UUID, uuid.UUID, bool, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil || b == nil {
		return uuid.Nil, uuid.Nil, false, err
	}
	return b.ClientID, b.PhotographerID, true, nil
}
