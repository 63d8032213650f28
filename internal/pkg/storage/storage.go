package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("object not found")
	ErrInvalidKey      = errors.New("invalid object key")
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrInvalidMimeType = errors.New("file type not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// Storage is the object store used for portfolio images, avatars and
// message attachments.
type Storage interface {
	// Put stores the object at key, replacing any existing one.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored at key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL for key.
	URL(key string) string
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// SanitizeFilename keeps letters, digits, dash, underscore and dot.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "-")
	name = unsafeChars.ReplaceAllString(name, "-")
	name = strings.TrimLeft(name, ".")
	if len(name) > 200 {
		name = name[len(name)-200:]
	}
	if name == "" || name == "-" {
		return "file"
	}
	return name
}

// NewKey builds a unique object key under prefix for filename.
func NewKey(prefix, filename string) string {
	stamp := time.Now().UTC().Format("20060102150405")
	short := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return path.Join(prefix, stamp+"-"+short+"-"+SanitizeFilename(filename))
}

// validKey rejects empty, absolute and parent-escaping keys.
func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean != key || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
		return ErrInvalidKey
	}
	return nil
}

// ReadLimited reads at most maxSize bytes and sniffs the content type.
// The detected type must appear in allowed; a type ending in "/*" allows the
// whole family.
func ReadLimited(reader io.Reader, maxSize int64, allowed ...string) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyFile
	}
	if int64(len(data)) > maxSize {
		return nil, "", ErrFileTooLarge
	}

	contentType := DetectContentType(data)
	if !typeAllowed(contentType, allowed) {
		return nil, "", ErrInvalidMimeType
	}
	return data, contentType, nil
}

// DetectContentType sniffs data and strips parameters ("; charset=...").
func DetectContentType(data []byte) string {
	ct := http.DetectContentType(data)
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return ct
}

func typeAllowed(contentType string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == contentType {
			return true
		}
		if strings.HasSuffix(a, "/*") && strings.HasPrefix(contentType, strings.TrimSuffix(a, "*")) {
			return true
		}
	}
	return false
}
