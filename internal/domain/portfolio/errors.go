package portfolio

import "errors"

var (
	ErrItemNotFound  = errors.New("portfolio item not found")
	ErrNotItemOwner  = errors.New("not portfolio item owner")
	ErrInvalidImage  = errors.New("file is not a supported image")
	ErrImageTooLarge = errors.New("image exceeds maximum size")
)
