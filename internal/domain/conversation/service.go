package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/user"
	"github.com/focalfinder/focalfinder-api/internal/pkg/logger"
	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

const maxEnsureAttempts = 3

// BookingParticipants resolves the two members of a booking. found is false
// when the booking does not exist.
type BookingParticipants interface {
	BookingParticipants(ctx context.Context, bookingID uuid.UUID) (clientID, photographerID uuid.UUID, found bool, err error)
}

// Realtime pushes events to connected users and reports presence
type Realtime interface {
	SendToUser(userID uuid.UUID, payload any) error
	IsOnline(ctx context.Context, userID uuid.UUID) bool
}

// Service handles conversation business logic
type Service struct {
	repo     Repository
	users    user.Repository
	bookings BookingParticipants
	realtime Realtime
	limiter  *MessageLimiter
	now      func() time.Time
}

// NewService creates conversation service
func NewService(repo Repository, users user.Repository, bookings BookingParticipants, realtime Realtime, limiter *MessageLimiter) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		bookings: bookings,
		realtime: realtime,
		limiter:  limiter,
		now:      time.Now,
	}
}

// EnsureConversation returns the conversation shared by a and b, creating
// it when absent. With a bookingID the conversation bound to that booking
// wins, an unbound conversation of the pair is bound to it, and otherwise a
// new bound conversation is created.
func (s *Service) EnsureConversation(ctx context.Context, a, b uuid.UUID, bookingID *uuid.UUID) (*Conversation, error) {
	if a == b {
		return nil, ErrSameParticipant
	}

	var lastErr error
	for attempt := 0; attempt < maxEnsureAttempts; attempt++ {
		c, err := s.resolve(ctx, a, b, bookingID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrDuplicate) {
			return nil, err
		}
		lastErr = err
		logger.LogDebug(ctx, "Conversation lost a concurrent create, resolving again", "attempt", attempt+1)
	}
	return nil, lastErr
}

func (s *Service) resolve(ctx context.Context, a, b uuid.UUID, bookingID *uuid.UUID) (*Conversation, error) {
	if bookingID != nil {
		c, err := s.repo.GetByBookingID(ctx, *bookingID)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}

	low, high := OrderedPair(a, b)
	existing, err := s.repo.GetByPair(ctx, low, high)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if bookingID == nil || existing.BookingID.Valid {
			return existing, nil
		}

		bound, err := s.repo.BindBooking(ctx, existing.ID, *bookingID)
		if err != nil {
			return nil, err
		}
		if !bound {
			// Someone bound it in between; look again.
			return nil, ErrDuplicate
		}
		existing.BookingID = uuid.NullUUID{UUID: *bookingID, Valid: true}
		return existing, nil
	}

	c := &Conversation{
		ID:              uuid.New(),
		ParticipantLow:  low,
		ParticipantHigh: high,
		CreatedAt:       s.now().UTC(),
	}
	if bookingID != nil {
		c.BookingID = uuid.NullUUID{UUID: *bookingID, Valid: true}
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Start validates a request from actorID and ensures the conversation
func (s *Service) Start(ctx context.Context, actorID uuid.UUID, req *StartConversationRequest) (*Conversation, error) {
	participantID, err := uuid.Parse(req.ParticipantID)
	if err != nil {
		return nil, ErrParticipantNotFound
	}
	if participantID == actorID {
		return nil, ErrSameParticipant
	}

	var bookingID *uuid.UUID
	if req.BookingID != nil && *req.BookingID != "" {
		id, err := uuid.Parse(*req.BookingID)
		if err != nil {
			return nil, ErrBookingNotFound
		}
		clientID, photographerID, found, err := s.bookings.BookingParticipants(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrBookingNotFound
		}
		low, high := OrderedPair(actorID, participantID)
		bLow, bHigh := OrderedPair(clientID, photographerID)
		if low != bLow || high != bHigh {
			return nil, ErrBookingMismatch
		}
		bookingID = &id
	}

	other, err := s.users.GetByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, ErrParticipantNotFound
	}

	return s.EnsureConversation(ctx, actorID, participantID, bookingID)
}

// List returns the user's inbox, most recent activity first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*SummaryResponse, error) {
	summaries, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*SummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, SummaryResponseFromEntity(sum, s.isOnline(ctx, sum.OtherID)))
	}
	return out, nil
}

// Get returns a conversation with its messages in chronological order
func (s *Service) Get(ctx context.Context, userID, conversationID uuid.UUID) (*DetailResponse, error) {
	c, err := s.participantOf(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	detail := &DetailResponse{
		Conversation: ResponseFromEntity(c),
		Messages:     make([]*MessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		detail.Messages = append(detail.Messages, MessageResponseFromEntity(m))
	}

	otherID := c.OtherParticipant(userID)
	other, err := s.users.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other != nil {
		detail.OtherParticipant = participantFromUser(other, s.isOnline(ctx, otherID))
	}

	return detail, nil
}

// SendMessage appends a message and pushes it to both participants
func (s *Service) SendMessage(ctx context.Context, senderID, conversationID uuid.UUID, req *SendMessageRequest) (*Message, error) {
	text := ""
	if req.Text != nil {
		text = strings.TrimSpace(*req.Text)
	}
	attachments := nullable.Strings(req.Attachments)
	if text == "" && len(attachments) == 0 {
		return nil, ErrEmptyMessage
	}

	c, err := s.participantOf(ctx, senderID, conversationID)
	if err != nil {
		return nil, err
	}

	if !s.limiter.Allow(ctx, senderID) {
		return nil, ErrRateLimited
	}

	m := &Message{
		ID:             uuid.New(),
		ConversationID: c.ID,
		SenderID:       senderID,
		Text:           nullable.String(&text),
		Attachments:    attachments,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	event := &Event{
		Type:           EventMessageCreated,
		ConversationID: c.ID,
		SenderID:       &senderID,
		Message:        MessageResponseFromEntity(m),
	}
	for _, participantID := range c.Participants() {
		s.push(ctx, participantID, event)
	}

	return m, nil
}

// RelayTyping forwards a typing indicator to the other participant. Frames
// for conversations the sender does not belong to are dropped.
func (s *Service) RelayTyping(ctx context.Context, senderID, conversationID uuid.UUID) error {
	c, err := s.participantOf(ctx, senderID, conversationID)
	if err != nil {
		return err
	}

	s.push(ctx, c.OtherParticipant(senderID), &Event{
		Type:           EventTyping,
		ConversationID: c.ID,
		SenderID:       &senderID,
	})
	return nil
}

func (s *Service) participantOf(ctx context.Context, userID, conversationID uuid.UUID) (*Conversation, error) {
	c, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrConversationNotFound
	}
	if !c.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return c, nil
}

func (s *Service) push(ctx context.Context, userID uuid.UUID, event *Event) {
	if s.realtime == nil {
		return
	}
	if err := s.realtime.SendToUser(userID, event); err != nil {
		logger.LogWarn(ctx, "Realtime publish failed",
			"user_id", userID.String(),
			"event", string(event.Type),
			"error", err.Error(),
		)
	}
}

func (s *Service) isOnline(ctx context.Context, userID uuid.UUID) bool {
	return s.realtime != nil && s.realtime.IsOnline(ctx, userID)
}
