package portfolio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/profile"
	"github.com/focalfinder/focalfinder-api/internal/pkg/imaging"
	"github.com/focalfinder/focalfinder-api/internal/pkg/logger"
	"github.com/focalfinder/focalfinder-api/internal/pkg/nullable"
	"github.com/focalfinder/focalfinder-api/internal/pkg/storage"
)

// Service handles portfolio business logic
type Service struct {
	repo     Repository
	profiles profile.Repository
	store    storage.Storage
	images   *imaging.Processor
	now      func() time.Time
}

// NewService creates portfolio service
func NewService(repo Repository, profiles profile.Repository, store storage.Storage, images *imaging.Processor) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		store:    store,
		images:   images,
		now:      time.Now,
	}
}

// List returns the photographer's own portfolio
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Item, error) {
	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prof == nil {
		return []*Item{}, nil
	}
	return s.repo.ListByProfile(ctx, prof.ID)
}

// Add processes the uploaded image into original and thumbnail and stores both
func (s *Service) Add(ctx context.Context, userID uuid.UUID, file io.Reader, req *AddItemRequest) (*Item, error) {
	processed, err := s.images.Process(file)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrUnsupportedFormat):
			return nil, ErrInvalidImage
		case errors.Is(err, imaging.ErrTooLarge):
			return nil, ErrImageTooLarge
		}
		return nil, err
	}

	prof, err := s.profiles.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefix := "portfolio/" + prof.ID.String()
	originalKey := storage.NewKey(prefix, "photo"+processed.Original.Ext)
	thumbKey := storage.NewKey(prefix, "thumb"+processed.Thumbnail.Ext)

	if err := s.store.Put(ctx, originalKey, bytes.NewReader(processed.Original.Data), processed.Original.ContentType); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail.Data), processed.Thumbnail.ContentType); err != nil {
		s.removeObjects(ctx, originalKey)
		return nil, err
	}

	item := &Item{
		ID:           uuid.New(),
		ProfileID:    prof.ID,
		URL:          s.store.URL(originalKey),
		StorageKey:   originalKey,
		ThumbnailURL: s.store.URL(thumbKey),
		ThumbnailKey: thumbKey,
		Caption:      nullable.String(req.Caption),
		Category:     nullable.String(req.Category),
		IsFeatured:   req.IsFeatured,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(ctx, item); err != nil {
		s.removeObjects(ctx, originalKey, thumbKey)
		return nil, err
	}
	return item, nil
}

// Delete removes an item owned by the photographer along with its files
func (s *Service) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}

	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if prof == nil || prof.ID != item.ProfileID {
		return ErrNotItemOwner
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		return err
	}

	s.removeObjects(ctx, item.StorageKey, item.ThumbnailKey)
	return nil
}

// removeObjects is best effort: a leftover object is harmless, a failed
// request is not.
func (s *Service) removeObjects(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			logger.LogWarn(ctx, "Failed to delete portfolio object", "key", key, "error", err.Error())
		}
	}
}
