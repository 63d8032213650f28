package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/brief"
	"github.com/focalfinder/focalfinder-api/internal/domain/conversation"
	"github.com/focalfinder/focalfinder-api/internal/domain/user"
	"github.com/focalfinder/focalfinder-api/internal/pkg/logger"
	"github.com/focalfinder/focalfinder-api/internal/pkg/validator"
)

// BriefReader loads briefs referenced by bookings
type BriefReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*brief.Brief, error)
}

// ConversationLinker opens the conversation that belongs to a new booking
type ConversationLinker interface {
	EnsureConversation(ctx context.Context, a, b uuid.UUID, bookingID *uuid.UUID) (*conversation.Conversation, error)
}

// Created is the result of a successful booking request
type Created struct {
	Booking      *Booking
	Conversation *conversation.Conversation
}

// Service handles booking business logic
type Service struct {
	repo   Repository
	users  user.Repository
	briefs BriefReader
	linker ConversationLinker
	now    func() time.Time
}

// NewService creates booking service
func NewService(repo Repository, users user.Repository, briefs BriefReader, linker ConversationLinker) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		briefs: briefs,
		linker: linker,
		now:    time.Now,
	}
}

// Create books a photographer for the acting client. The conversation for
// the pair is linked afterwards; a linking failure does not undo the booking.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, role string, req *CreateBookingRequest) (*Created, error) {
	if role != string(user.RoleClient) {
		return nil, ErrOnlyClients
	}

	photographerID, err := uuid.Parse(req.PhotographerID)
	if err != nil {
		return nil, ErrPhotographerNotFound
	}

	interval, err := NewInterval(req.StartAt, req.EndAt)
	if err != nil {
		return nil, err
	}

	price := 0.0
	if req.Price != nil {
		price = *req.Price
	}
	if !validator.IsMoney(price) {
		return nil, ErrInvalidPrice
	}

	photographer, err := s.users.GetByID(ctx, photographerID)
	if err != nil {
		return nil, err
	}
	if photographer == nil || !photographer.IsPhotographer() {
		return nil, ErrPhotographerNotFound
	}

	var briefID uuid.NullUUID
	if req.BriefID != nil && *req.BriefID != "" {
		id, err := uuid.Parse(*req.BriefID)
		if err != nil {
			return nil, ErrBriefNotFound
		}
		b, err := s.briefs.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, ErrBriefNotFound
		}
		if !b.IsOwnedBy(actorID) {
			return nil, ErrNotBriefOwner
		}
		briefID = uuid.NullUUID{UUID: id, Valid: true}
	}

	now := s.now().UTC()
	b := &Booking{
		ID:             uuid.New(),
		ClientID:       actorID,
		PhotographerID: photographerID,
		BriefID:        briefID,
		StartAt:        interval.Start.UTC(),
		EndAt:          interval.End.UTC(),
		Price:          price,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateIfAvailable(ctx, b); err != nil {
		return nil, err
	}

	created := &Created{Booking: b}
	conv, err := s.linker.EnsureConversation(ctx, actorID, photographerID, &b.ID)
	if err != nil {
		logger.LogError(ctx, err, "Failed to link conversation to booking", "booking_id", b.ID.String())
	} else {
		created.Conversation = conv
	}

	return created, nil
}

// Get returns a booking visible to its participants
func (s *Service) Get(ctx context.Context, actorID, bookingID uuid.UUID) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrBookingNotFound
	}
	if !d.IsParticipant(actorID) {
		return nil, ErrNotParticipant
	}
	return d, nil
}

// List returns bookings where the user is client or photographer
func (s *Service) List(ctx context.Context, userID uuid.UUID, status *Status) ([]*Details, error) {
	return s.repo.List(ctx, userID, status)
}

// Update applies a status change and/or price change requested by actorID.
// The write only succeeds if nobody changed the status in the meantime.
func (s *Service) Update(ctx context.Context, actorID, bookingID uuid.UUID, req *UpdateBookingRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	actor := b.ActorOf(actorID)
	if actor == ActorNone {
		return nil, ErrNotParticipant
	}

	if req.Status == nil && req.Price == nil {
		return nil, ErrNoChanges
	}

	current := b.Status
	changed := false

	if req.Status != nil {
		target := Status(*req.Status)
		if !target.IsValid() {
			return nil, ErrInvalidStatus
		}
		if !CanActorSet(actor, target) {
			return nil, ErrForbiddenTransition
		}
		if target != current {
			if !CanTransition(current, target) {
				return nil, ErrInvalidTransition
			}
			b.Status = target
			changed = true
		}
	}

	if req.Price != nil {
		if !validator.IsMoney(*req.Price) {
			return nil, ErrInvalidPrice
		}
		if *req.Price != b.Price {
			if current.IsTerminal() {
				return nil, ErrPriceLocked
			}
			b.Price = *req.Price
			changed = true
		}
	}

	if !changed {
		return b, nil
	}

	b.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, b, current); err != nil {
		return nil, err
	}

	logger.LogInfo(ctx, "Booking updated",
		"booking_id", b.ID.String(),
		"actor", string(actor),
		"from", string(current),
		"to", string(b.Status),
	)
	return b, nil
}

// Delete removes a booking; either participant may do so in any status
func (s *Service) Delete(ctx context.Context, actorID, bookingID uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBookingNotFound
	}
	if !b.IsParticipant(actorID) {
		return ErrNotParticipant
	}
	return s.repo.Delete(ctx, bookingID)
}
