package photographer

import (
	"context"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/portfolio"
	"github.com/focalfinder/focalfinder-api/internal/domain/profile"
	"github.com/focalfinder/focalfinder-api/internal/domain/review"
	"github.com/focalfinder/focalfinder-api/internal/domain/servicepackage"
	"github.com/focalfinder/focalfinder-api/internal/domain/user"
	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
)

const detailReviewLimit = 10

// ProfileReader loads a photographer's profile
type ProfileReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
}

// PackageLister loads service packages of a profile
type PackageLister interface {
	ListByProfile(ctx context.Context, profileID uuid.UUID, activeOnly bool) ([]*servicepackage.Package, error)
}

// PortfolioLister loads portfolio items of a profile
type PortfolioLister interface {
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*portfolio.Item, error)
}

// ReviewReader loads reviews and their summary
type ReviewReader interface {
	List(ctx context.Context, photographerID uuid.UUID, limit, offset int) ([]*review.WithReviewer, int, error)
	Summary(ctx context.Context, photographerID uuid.UUID) (*review.Summary, error)
}

// Service handles the public photographer directory
type Service struct {
	repo      Repository
	users     user.Repository
	profiles  ProfileReader
	packages  PackageLister
	portfolio PortfolioLister
	reviews   ReviewReader
}

// NewService creates directory service
func NewService(repo Repository, users user.Repository, profiles ProfileReader, packages PackageLister, portfolio PortfolioLister, reviews ReviewReader) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		profiles:  profiles,
		packages:  packages,
		portfolio: portfolio,
		reviews:   reviews,
	}
}

// Search returns one page of matching photographers and the total count
func (s *Service) Search(ctx context.Context, filter *Filter, limit, offset int) ([]*CardResponse, int, error) {
	cards, total, err := s.repo.Search(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*CardResponse, len(cards))
	for i, c := range cards {
		out[i] = CardResponseFromEntity(c)
	}
	return out, total, nil
}

// Get composes the public page of one photographer
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*DetailResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsPhotographer() {
		return nil, ErrPhotographerNotFound
	}

	detail := &DetailResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Specialty: nullable.StringPtr(u.Specialty),
		Packages:  []*servicepackage.PackageResponse{},
		Portfolio: []*portfolio.ItemResponse{},
		CreatedAt: u.CreatedAt,
	}

	p, err := s.profiles.GetByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		detail.Profile = profile.ResponseFromEntity(p)
		if p.Specialty.Valid {
			detail.Specialty = &p.Specialty.String
		}

		pkgs, err := s.packages.ListByProfile(ctx, p.ID, true)
		if err != nil {
			return nil, err
		}
		detail.Packages = servicepackage.Responses(pkgs)

		items, err := s.portfolio.ListByProfile(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		detail.Portfolio = portfolio.ItemResponses(items)
	}

	reviews, _, err := s.reviews.List(ctx, u.ID, detailReviewLimit, 0)
	if err != nil {
		return nil, err
	}
	detail.Reviews = review.ToResponses(reviews)

	if detail.Rating, err = s.reviews.Summary(ctx, u.ID); err != nil {
		return nil, err
	}

	return detail, nil
}
