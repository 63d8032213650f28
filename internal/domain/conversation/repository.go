package conversation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/focalfinder/focalfinder-api/internal/pkg/database"
)

// Repository defines conversation data access
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Conversation, error)
	GetByPair(ctx context.Context, low, high uuid.UUID) (*Conversation, error)
	// Create returns ErrDuplicate when the booking or the pair already has a
	// conversation.
	Create(ctx context.Context, c *Conversation) error
	// BindBooking sets booking_id on a conversation that has none. It reports
	// false if the conversation was already bound.
	BindBooking(ctx context.Context, id, bookingID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Summary, error)

	CreateMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*Message, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates conversation repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const conversationColumns = `id, booking_id, participant_low, participant_high, created_at, last_message_at`

var uniqueConstraints = []string{"conversations_booking_id_key", "conversations_pair_key"}

func (r *repository) getOne(ctx context.Context, where string, args ...interface{}) (*Conversation, error) {
	var c Conversation
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE ` + where
	if err := r.db.GetContext(ctx, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Conversation, error) {
	return r.getOne(ctx, "booking_id = $1", bookingID)
}

func (r *repository) GetByPair(ctx context.Context, low, high uuid.UUID) (*Conversation, error) {
	return r.getOne(ctx, "participant_low = $1 AND participant_high = $2", low, high)
}

func (r *repository) Create(ctx context.Context, c *Conversation) error {
	query := `
		INSERT INTO conversations (id, booking_id, participant_low, participant_high, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.BookingID, c.ParticipantLow, c.ParticipantHigh, c.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, uniqueConstraints...) {
			return ErrDuplicate
		}
		return fmt.Errorf("conversation repository create: %w", err)
	}
	return nil
}

func (r *repository) BindBooking(ctx context.Context, id, bookingID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE conversations SET booking_id = $2 WHERE id = $1 AND booking_id IS NULL`,
		id, bookingID,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "conversations_booking_id_key") {
			return false, ErrDuplicate
		}
		return false, fmt.Errorf("conversation repository bind booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Summary, error) {
	query := `
		SELECT c.id, c.booking_id, c.participant_low, c.participant_high, c.created_at, c.last_message_at,
		       u.id AS other_id, u.first_name AS other_first_name, u.last_name AS other_last_name,
		       u.role AS other_role,
		       lm.text AS last_message_text, lm.sender_id AS last_message_sender_id
		FROM conversations c
		JOIN users u ON u.id = CASE WHEN c.participant_low = $1 THEN c.participant_high ELSE c.participant_low END
		LEFT JOIN LATERAL (
			SELECT m.text, m.sender_id
			FROM messages m
			WHERE m.conversation_id = c.id
			ORDER BY m.created_at DESC
			LIMIT 1
		) lm ON TRUE
		WHERE c.participant_low = $1 OR c.participant_high = $1
		ORDER BY COALESCE(c.last_message_at, c.created_at) DESC
	`
	var out []*Summary
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) CreateMessage(ctx context.Context, m *Message) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, conversation_id, sender_id, text, attachments, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, m.ID, m.ConversationID, m.SenderID, m.Text, m.Attachments, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("conversation repository create message: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE conversations SET last_message_at = GREATEST(COALESCE(last_message_at, $2), $2)
			WHERE id = $1
		`, m.ConversationID, m.CreatedAt)
		return err
	})
}

func (r *repository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, text, attachments, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`
	var out []*Message
	if err := r.db.SelectContext(ctx, &out, query, conversationID); err != nil {
		return nil, err
	}
	return out, nil
}
