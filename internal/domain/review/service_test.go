package review

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focalfinder/focalfinder-api/internal/domain/booking"
)

type memRepo struct {
	reviews []*Review
}

func (m *memRepo) Create(ctx context.Context, review *Review) error {
	for _, r := range m.reviews {
		if r.BookingID == review.BookingID {
			return ErrAlreadyReviewed
		}
	}
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *memRepo) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	for _, r := range m.reviews {
		if r.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ListByPhotographer(ctx context.Context, photographerID uuid.UUID, limit, offset int) ([]*WithReviewer, error) {
	var out []*WithReviewer
	for _, r := range m.reviews {
		if r.PhotographerID == photographerID {
			out = append(out, &WithReviewer{Review: *r, ReviewerFirstName: "Ana", ReviewerLastName: "Client"})
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) CountByPhotographer(ctx context.Context, photographerID uuid.UUID) (int, error) {
	n := 0
	for _, r := range m.reviews {
		if r.PhotographerID == photographerID {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) Summary(ctx context.Context, photographerID uuid.UUID) (*Summary, error) {
	s := &Summary{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	total := 0
	for _, r := range m.reviews {
		if r.PhotographerID == photographerID {
			s.Distribution[r.Rating]++
			s.Count++
			total += r.Rating
		}
	}
	if s.Count > 0 {
		s.Average = float64(total) / float64(s.Count)
	}
	return s, nil
}

type fakeBookings struct {
	bookings []*booking.Booking
}

func (f *fakeBookings) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookings) LatestReviewable(ctx context.Context, clientID, photographerID uuid.UUID, before time.Time) (*booking.Booking, error) {
	var latest *booking.Booking
	for _, b := range f.bookings {
		if b.ClientID != clientID || b.PhotographerID != photographerID ||
			b.Status == booking.StatusCancelled || !b.StartAt.Before(before) {
			continue
		}
		if latest == nil || b.StartAt.After(latest.StartAt) {
			latest = b
		}
	}
	return latest, nil
}

var fixedNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc          *Service
	repo         *memRepo
	bookings     *fakeBookings
	client       uuid.UUID
	photographer uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:         &memRepo{},
		bookings:     &fakeBookings{},
		client:       uuid.New(),
		photographer: uuid.New(),
	}
	f.svc = NewService(f.repo, f.bookings)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) addBooking(start time.Time, status booking.Status) *booking.Booking {
	b := &booking.Booking{
		ID:             uuid.New(),
		ClientID:       f.client,
		PhotographerID: f.photographer,
		StartAt:        start,
		EndAt:          start.Add(2 * time.Hour),
		Status:         status,
	}
	f.bookings.bookings = append(f.bookings.bookings, b)
	return b
}

func TestCanReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.CanReview(ctx, f.client, f.photographer)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "no bookings")

	f.addBooking(fixedNow.Add(24*time.Hour), booking.StatusConfirmed)
	f.addBooking(fixedNow.Add(-24*time.Hour), booking.StatusCancelled)
	res, err = f.svc.CanReview(ctx, f.client, f.photographer)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "only future or cancelled bookings")

	older := f.addBooking(fixedNow.Add(-72*time.Hour), booking.StatusCompleted)
	latest := f.addBooking(fixedNow.Add(-48*time.Hour), booking.StatusCompleted)
	res, err = f.svc.CanReview(ctx, f.client, f.photographer)
	require.NoError(t, err)
	require.True(t, res.Allowed)
	assert.Equal(t, latest.ID, *res.BookingID)

	_, err = f.svc.Submit(ctx, f.client, &CreateRequest{BookingID: latest.ID.String(), Rating: 5})
	require.NoError(t, err)

	res, err = f.svc.CanReview(ctx, f.client, f.photographer)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "most recent booking already reviewed")
	assert.Nil(t, res.BookingID)

	// The older booking can still be reviewed directly.
	_, err = f.svc.Submit(ctx, f.client, &CreateRequest{BookingID: older.ID.String(), Rating: 4})
	assert.NoError(t, err)
}

func TestSubmitPreconditions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	past := f.addBooking(fixedNow.Add(-48*time.Hour), booking.StatusCompleted)
	tomorrow := f.addBooking(fixedNow.Add(24*time.Hour), booking.StatusConfirmed)
	cancelled := f.addBooking(fixedNow.Add(-24*time.Hour), booking.StatusCancelled)

	tests := []struct {
		name     string
		reviewer uuid.UUID
		booking  string
		wantErr  error
	}{
		{"missing booking", f.client, uuid.NewString(), ErrBookingNotFound},
		{"not the client", f.photographer, past.ID.String(), ErrNotBookingClient},
		{"cancelled", f.client, cancelled.ID.String(), ErrBookingCancelled},
		{"starts tomorrow", f.client, tomorrow.ID.String(), ErrBookingNotStarted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, tt.reviewer, &CreateRequest{BookingID: tt.booking, Rating: 3})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	comment := "  Great light  "
	rev, err := f.svc.Submit(ctx, f.client, &CreateRequest{BookingID: past.ID.String(), Rating: 4, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, f.photographer, rev.PhotographerID)
	assert.Equal(t, "Great light", rev.Comment.String)

	_, err = f.svc.Submit(ctx, f.client, &CreateRequest{BookingID: past.ID.String(), Rating: 2})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestListAndSummary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i, rating := range []int{5, 4, 5} {
		b := f.addBooking(fixedNow.Add(-time.Duration(i+1)*24*time.Hour), booking.StatusCompleted)
		_, err := f.svc.Submit(ctx, f.client, &CreateRequest{BookingID: b.ID.String(), Rating: rating})
		require.NoError(t, err)
	}

	items, total, err := f.svc.List(ctx, f.photographer, 2, 0)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, total)
	assert.Equal(t, "Ana Client", items[0].ToResponse().ReviewerName)

	summary, err := f.svc.Summary(ctx, f.photographer)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 4.666, summary.Average, 0.001)
	assert.Equal(t, 2, summary.Distribution[5])
	assert.Equal(t, 0, summary.Distribution[1])
}
