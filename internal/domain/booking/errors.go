package booking

import "errors"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrNotParticipant       = errors.New("not a booking participant")
	ErrOnlyClients          = errors.New("only clients can create bookings")
	ErrPhotographerNotFound = errors.New("photographer not found")
	ErrBriefNotFound        = errors.New("brief not found")
	ErrNotBriefOwner        = errors.New("brief belongs to another client")
	ErrInvalidInterval      = errors.New("startAt must be before endAt")
	ErrInvalidPrice         = errors.New("price must be between 0 and 99999999.99 with at most 2 decimals")
	ErrInvalidStatus        = errors.New("unknown booking status")
	ErrNoChanges            = errors.New("nothing to update")
	ErrForbiddenTransition  = errors.New("status change not allowed for this participant")
	ErrInvalidTransition    = errors.New("status change not allowed from current status")
	ErrPriceLocked          = errors.New("price cannot change on a closed booking")
	ErrConflict             = errors.New("photographer is already booked for this time")
	ErrConcurrentUpdate     = errors.New("booking was modified concurrently")
)
