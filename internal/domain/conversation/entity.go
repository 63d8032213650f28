package conversation

import (
	"bytes"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Conversation is a two-party thread, optionally bound to one booking
// (matches conversations table). The participants are stored as an ordered
// pair so the unordered pair {a, b} maps to exactly one row.
type Conversation struct {
	ID              uuid.UUID     `db:"id"`
	BookingID       uuid.NullUUID `db:"booking_id"`
	ParticipantLow  uuid.UUID     `db:"participant_low"`
	ParticipantHigh uuid.UUID     `db:"participant_high"`
	CreatedAt       time.Time     `db:"created_at"`
	LastMessageAt   sql.NullTime  `db:"last_message_at"`
}

// OrderedPair returns a and b sorted by their byte representation, which
// matches PostgreSQL's ordering of the uuid type.
func OrderedPair(a, b uuid.UUID) (low, high uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}

// Participants returns both members, lower id first
func (c *Conversation) Participants() [2]uuid.UUID {
	return [2]uuid.UUID{c.ParticipantLow, c.ParticipantHigh}
}

// HasParticipant reports whether userID is one of the two members
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.ParticipantLow == userID || c.ParticipantHigh == userID
}

// OtherParticipant returns the member that is not userID
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.ParticipantLow == userID {
		return c.ParticipantHigh
	}
	return c.ParticipantLow
}

// Message is one entry in a conversation (matches messages table)
type Message struct {
	ID             uuid.UUID      `db:"id"`
	ConversationID uuid.UUID      `db:"conversation_id"`
	SenderID       uuid.UUID      `db:"sender_id"`
	Text           sql.NullString `db:"text"`
	Attachments    pq.StringArray `db:"attachments"`
	CreatedAt      time.Time      `db:"created_at"`
}

// Summary is a conversation as seen by one participant in their inbox
type Summary struct {
	Conversation
	OtherID             uuid.UUID      `db:"other_id"`
	OtherFirstName      string         `db:"other_first_name"`
	OtherLastName       string         `db:"other_last_name"`
	OtherRole           string         `db:"other_role"`
	LastMessageText     sql.NullString `db:"last_message_text"`
	LastMessageSenderID uuid.NullUUID  `db:"last_message_sender_id"`
}
