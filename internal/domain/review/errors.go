package review

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrNotBookingClient  = errors.New("only the booking's client can review it")
	ErrBookingCancelled  = errors.New("cancelled bookings cannot be reviewed")
	ErrBookingNotStarted = errors.New("booking has not started yet")
	ErrAlreadyReviewed   = errors.New("booking already reviewed")
)
