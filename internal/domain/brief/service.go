package brief

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// Service handles brief business logic
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates brief service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create stores a new brief for the client
func (s *Service) Create(ctx context.Context, clientID uuid.UUID, req *CreateBriefRequest) (*Brief, error) {
	now := s.now().UTC()
	b := &Brief{
		ID:          uuid.New(),
		ClientID:    clientID,
		Title:       strings.TrimSpace(req.Title),
		Description: nullable.String(req.Description),
		Location:    nullable.String(req.Location),
		EventDate:   nullable.Time(req.EventDate),
		Budget:      nullable.Float64(req.Budget),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the client's briefs, newest first
func (s *Service) List(ctx context.Context, clientID uuid.UUID) ([]*Brief, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// Get returns a brief visible only to its owner
func (s *Service) Get(ctx context.Context, clientID, briefID uuid.UUID) (*Brief, error) {
	b, err := s.repo.GetByID(ctx, briefID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBriefNotFound
	}
	if !b.IsOwnedBy(clientID) {
		return nil, ErrNotBriefOwner
	}
	return b, nil
}
