package booking

import "time"

// Interval is a booked time window. Both ends are inclusive when checking
// for conflicts, so two bookings that touch at a boundary collide.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval returns ErrInvalidInterval unless start is before end
func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether i and other share at least one instant
func (i Interval) Overlaps(other Interval) bool {
	return (!i.Start.After(other.Start) && !i.End.Before(other.Start)) ||
		(!i.Start.After(other.End) && !i.End.Before(other.End)) ||
		(!i.Start.Before(other.Start) && !i.End.After(other.End))
}

// FindConflict returns the first active booking whose interval overlaps
// requested, or nil.
func FindConflict(existing []*Booking, requested Interval) *Booking {
	for _, b := range existing {
		if b.Status.IsActive() && b.Interval().Overlaps(requested) {
			return b
		}
	}
	return nil
}
