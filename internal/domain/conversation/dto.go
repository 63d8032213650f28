package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/user"
	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// StartConversationRequest for POST /conversations
type StartConversationRequest struct {
	ParticipantID string  `json:"participantId" validate:"required,uuid"`
	BookingID     *string `json:"bookingId" validate:"omitempty,uuid"`
}

// SendMessageRequest for POST /conversations/{id}
type SendMessageRequest struct {
	Text        *string  `json:"text" validate:"omitempty,max=5000"`
	Attachments []string `json:"attachments" validate:"omitempty,max=10,dive,required,max=2048"`
}

// ConversationResponse represents a conversation in API responses
type ConversationResponse struct {
	ID             uuid.UUID   `json:"id"`
	BookingID      *uuid.UUID  `json:"bookingId"`
	ParticipantIDs []uuid.UUID `json:"participantIds"`
	CreatedAt      time.Time   `json:"createdAt"`
	LastMessageAt  *time.Time  `json:"lastMessageAt"`
}

// ParticipantResponse is the public view of the other member
type ParticipantResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Online    bool      `json:"online"`
}

// SummaryResponse is one inbox entry
type SummaryResponse struct {
	ConversationResponse
	OtherParticipant ParticipantResponse `json:"otherParticipant"`
	LastMessage      *string             `json:"lastMessage"`
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversationId"`
	SenderID       uuid.UUID `json:"senderId"`
	Text           *string   `json:"text"`
	Attachments    []string  `json:"attachments"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DetailResponse for GET /conversations/{id}
type DetailResponse struct {
	Conversation     *ConversationResponse `json:"conversation"`
	OtherParticipant *ParticipantResponse  `json:"otherParticipant"`
	Messages         []*MessageResponse    `json:"messages"`
}

// ResponseFromEntity converts a conversation
func ResponseFromEntity(c *Conversation) *ConversationResponse {
	p := c.Participants()
	return &ConversationResponse{
		ID:             c.ID,
		BookingID:      nullable.UUIDPtr(c.BookingID),
		ParticipantIDs: p[:],
		CreatedAt:      c.CreatedAt,
		LastMessageAt:  nullable.TimePtr(c.LastMessageAt),
	}
}

// MessageResponseFromEntity converts a message
func MessageResponseFromEntity(m *Message) *MessageResponse {
	attachments := []string(m.Attachments)
	if attachments == nil {
		attachments = []string{}
	}
	return &MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           nullable.StringPtr(m.Text),
		Attachments:    attachments,
		CreatedAt:      m.CreatedAt,
	}
}

// SummaryResponseFromEntity converts an inbox entry
func SummaryResponseFromEntity(s *Summary, online bool) *SummaryResponse {
	return &SummaryResponse{
		ConversationResponse: *ResponseFromEntity(&s.Conversation),
		OtherParticipant: ParticipantResponse{
			ID:        s.OtherID,
			FirstName: s.OtherFirstName,
			LastName:  s.OtherLastName,
			Role:      s.OtherRole,
			Online:    online,
		},
		LastMessage: nullable.StringPtr(s.LastMessageText),
	}
}

func participantFromUser(u *user.User, online bool) *ParticipantResponse {
	return &ParticipantResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Online:    online,
	}
}
