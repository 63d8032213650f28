package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/logger"
	"github.com/focalfinder/focalfinder-api/internal/pkg/storage"
)

// AllowedTypes are the sniffed content types accepted as message attachments
var AllowedTypes = []string{"image/*", "application/pdf"}

// Service stores message attachments
type Service struct {
	store    storage.Storage
	maxBytes int64
}

// NewService creates upload service
func NewService(store storage.Storage, maxBytes int64) *Service {
	return &Service{store: store, maxBytes: maxBytes}
}

// Store saves every file under attachments/<userID>/. Either all files are
// stored or none are; objects written before a failure are removed.
func (s *Service) Store(ctx context.Context, userID uuid.UUID, files []FileInput) ([]FileResponse, error) {
	prefix := path.Join("attachments", userID.String())
	out := make([]FileResponse, 0, len(files))
	var stored []string

	for i, f := range files {
		name := storage.SanitizeFilename(f.Name)

		raw, err := decodeData(f.Data)
		if err != nil {
			s.rollback(ctx, stored)
			return nil, &FileError{Index: i, Err: err}
		}

		data, contentType, err := storage.ReadLimited(bytes.NewReader(raw), s.maxBytes, AllowedTypes...)
		if err != nil {
			s.rollback(ctx, stored)
			return nil, &FileError{Index: i, Err: mapStorageError(err)}
		}

		key := storage.NewKey(prefix, name)
		if err := s.store.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
			s.rollback(ctx, stored)
			return nil, fmt.Errorf("store attachment: %w", err)
		}
		stored = append(stored, key)
		out = append(out, FileResponse{Name: name, URL: s.store.URL(key)})
	}

	logger.LogInfo(ctx, "attachments stored", "user_id", userID, "count", len(out))
	return out, nil
}

func (s *Service) rollback(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			logger.LogWarn(ctx, "failed to remove attachment", "key", key, "error", err)
		}
	}
}

// decodeData accepts raw base64 or a "data:<type>;base64,<payload>" URL.
// The declared type is ignored; content is sniffed after decoding.
func decodeData(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		idx := strings.Index(data, ",")
		if idx == -1 || !strings.HasSuffix(data[:idx], ";base64") {
			return nil, ErrInvalidData
		}
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(data)
		if err != nil {
			return nil, ErrInvalidData
		}
	}
	return raw, nil
}

func mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return ErrFileTooLarge
	case errors.Is(err, storage.ErrInvalidMimeType):
		return ErrFileType
	case errors.Is(err, storage.ErrEmptyFile):
		return ErrEmptyFile
	}
	return err
}
