package brief

import "errors"

var (
	ErrBriefNotFound = errors.New("brief not found")
	ErrNotBriefOwner = errors.New("not brief owner")
)
