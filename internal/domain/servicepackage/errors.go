package servicepackage

import "errors"

var (
	ErrPackageNotFound = errors.New("service package not found")
	ErrNotPackageOwner = errors.New("not service package owner")
)
