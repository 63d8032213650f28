package servicepackage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/focalfinder/focalfinder-api/internal/domain/profile"
	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

// Service handles service package business logic
type Service struct {
	repo     Repository
	profiles profile.Repository
	now      func() time.Time
}

// NewService creates service package service
func NewService(repo Repository, profiles profile.Repository) *Service {
	return &Service{repo: repo, profiles: profiles, now: time.Now}
}

// List returns the photographer's own packages, including inactive ones
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Package, error) {
	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prof == nil {
		return []*Package{}, nil
	}
	return s.repo.ListByProfile(ctx, prof.ID, false)
}

// Create adds a package, creating the profile on first use
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *PackageRequest) (*Package, error) {
	prof, err := s.profiles.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &Package{
		ID:        uuid.New(),
		ProfileID: prof.ID,
		IsActive:  true,
		CreatedAt: now,
	}
	apply(p, req, now)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces a package owned by the photographer
func (s *Service) Update(ctx context.Context, userID, packageID uuid.UUID, req *PackageRequest) (*Package, error) {
	p, err := s.owned(ctx, userID, packageID)
	if err != nil {
		return nil, err
	}

	apply(p, req, s.now().UTC())
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a package owned by the photographer
func (s *Service) Delete(ctx context.Context, userID, packageID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, packageID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, packageID)
}

func (s *Service) owned(ctx context.Context, userID, packageID uuid.UUID) (*Package, error) {
	p, err := s.repo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPackageNotFound
	}

	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prof == nil || prof.ID != p.ProfileID {
		return nil, ErrNotPackageOwner
	}
	return p, nil
}

func apply(p *Package, req *PackageRequest, now time.Time) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = nullable.String(req.Description)
	p.Price = nullable.Float64(req.Price)
	p.DurationHours = nullable.Int32(req.DurationHours)
	p.Features = pq.StringArray(nullable.Strings(req.Features))
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = now
}
