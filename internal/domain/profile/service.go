package profile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/focalfinder/focalfinder-api/internal/pkg/imaging"
	"github.com/focalfinder/focalfinder-api/internal/pkg/logger"
	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
	"github.com/focalfinder/focalfinder-api/internal/pkg/storage"
)

// Service handles photographer profile business logic
type Service struct {
	repo   Repository
	store  storage.Storage
	images *imaging.Processor
	now    func() time.Time
}

// NewService creates profile service
func NewService(repo Repository, store storage.Storage, images *imaging.Processor) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		images: images,
		now:    time.Now,
	}
}

// Get returns the photographer's own profile
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// Update replaces the editable profile fields, creating the profile on first use
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	now := s.now().UTC()
	p := &Profile{
		ID:              uuid.New(),
		UserID:          userID,
		Bio:             nullable.String(req.Bio),
		Specialty:       nullable.String(req.Specialty),
		Location:        nullable.String(req.Location),
		HourlyRate:      nullable.Float64(req.HourlyRate),
		Latitude:        nullable.Float64(req.Latitude),
		Longitude:       nullable.Float64(req.Longitude),
		Styles:          pq.StringArray(nullable.Strings(req.Styles)),
		YearsExperience: nullable.Int32(req.YearsExperience),
		Equipment:       pq.StringArray(nullable.Strings(req.Equipment)),
		TravelDistance:  nullable.Int32(req.TravelDistance),
		UpdatedAt:       now,
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadAvatar resizes the image, stores it and replaces the previous avatar
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (*Profile, error) {
	avatar, err := s.images.Avatar(file)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrUnsupportedFormat):
			return nil, ErrInvalidImage
		case errors.Is(err, imaging.ErrTooLarge):
			return nil, ErrImageTooLarge
		}
		return nil, err
	}

	p, err := s.repo.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := storage.NewKey("avatars/"+userID.String(), "avatar"+avatar.Ext)
	if err := s.store.Put(ctx, key, bytes.NewReader(avatar.Data), avatar.ContentType); err != nil {
		return nil, err
	}

	url := s.store.URL(key)
	if err := s.repo.UpdateAvatar(ctx, p.ID, url, key); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.LogWarn(ctx, "Failed to remove orphaned avatar", "key", key, "error", delErr.Error())
		}
		return nil, err
	}

	if p.AvatarKey.Valid && p.AvatarKey.String != key {
		if err := s.store.Delete(ctx, p.AvatarKey.String); err != nil {
			logger.LogWarn(ctx, "Failed to delete previous avatar", "key", p.AvatarKey.String, "error", err.Error())
		}
	}

	p.AvatarURL.String, p.AvatarURL.Valid = url, true
	p.AvatarKey.String, p.AvatarKey.Valid = key, true
	return p, nil
}
