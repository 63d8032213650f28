package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidImage    = errors.New("file is not a supported image")
	ErrImageTooLarge   = errors.New("image exceeds maximum size")
)
