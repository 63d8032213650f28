package photographer

import "errors"

var ErrPhotographerNotFound = errors.New("photographer not found")
