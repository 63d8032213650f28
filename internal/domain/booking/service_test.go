package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/focalfinder/focalfinder-api/internal/domain/brief"
	"github.com/focalfinder/focalfinder-api/internal/domain/conversation"
	"github.com/focalfinder/focalfinder-api/internal/domain/user"
)

type memRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
}

func newMemRepo() *memRepo {
	return &memRepo{bookings: map[uuid.UUID]*Booking{}}
}

func (m *memRepo) CreateIfAvailable(ctx context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var existing []*Booking
	for _, other := range m.bookings {
		if other.PhotographerID == b.PhotographerID {
			existing = append(existing, other)
		}
	}
	if FindConflict(existing, b.Interval()) != nil {
		return ErrConflict
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (m *memRepo) GetDetails(ctx context.Context, id uuid.UUID) (*Details, error) {
	b, _ := m.GetByID(ctx, id)
	if b == nil {
		return nil, nil
	}
	return &Details{Booking: *b}, nil
}

func (m *memRepo) List(ctx context.Context, userID uuid.UUID, status *Status) ([]*Details, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Details
	for _, b := range m.bookings {
		if !b.IsParticipant(userID) || (status != nil && b.Status != *status) {
			continue
		}
		out = append(out, &Details{Booking: *b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, b *Booking, expected Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.bookings[b.ID]
	if !ok || stored.Status != expected {
		return ErrConcurrentUpdate
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookings, id)
	return nil
}

func (m *memRepo) LatestReviewable(ctx context.Context, clientID, photographerID uuid.UUID, before time.Time) (*Booking, error) {
	return nil, nil
}

func (m *memRepo) BookingParticipants(ctx context.Context, id uuid.UUID) (uuid.UUID, uuid.UUID, bool, error) {
	b, _ := m.GetByID(ctx, id)
	if b == nil {
		return uuid.Nil, uuid.Nil, false, nil
	}
	return b.ClientID, b.PhotographerID, true, nil
}

func (m *memRepo) setStatus(id uuid.UUID, s Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[id].Status = s
}

type fakeUsers map[uuid.UUID]*user.User

func (f fakeUsers) Create(ctx context.Context, u *user.User) error { f[u.ID] = u; return nil }
func (f fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f[id], nil
}
func (f fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

type fakeBriefs map[uuid.UUID]*brief.Brief

func (f fakeBriefs) GetByID(ctx context.Context, id uuid.UUID) (*brief.Brief, error) {
	return f[id], nil
}

type mockLinker struct {
	mock.Mock
}

func (m *mockLinker) EnsureConversation(ctx context.Context, a, b uuid.UUID, bookingID *uuid.UUID) (*conversation.Conversation, error) {
	args := m.Called(ctx, a, b, bookingID)
	c, _ := args.Get(0).(*conversation.Conversation)
	return c, args.Error(1)
}

type fixture struct {
	svc          *Service
	repo         *memRepo
	users        fakeUsers
	briefs       fakeBriefs
	linker       *mockLinker
	client       uuid.UUID
	otherClient  uuid.UUID
	photographer uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:         newMemRepo(),
		users:        fakeUsers{},
		briefs:       fakeBriefs{},
		linker:       &mockLinker{},
		client:       uuid.New(),
		otherClient:  uuid.New(),
		photographer: uuid.New(),
	}
	f.users[f.client] = &user.User{ID: f.client, Role: user.RoleClient}
	f.users[f.otherClient] = &user.User{ID: f.otherClient, Role: user.RoleClient}
	f.users[f.photographer] = &user.User{ID: f.photographer, Role: user.RolePhotographer}

	f.linker.On("EnsureConversation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&conversation.Conversation{ID: uuid.New()}, nil).Maybe()

	f.svc = NewService(f.repo, f.users, f.briefs, f.linker)
	return f
}

func (f *fixture) book(t *testing.T, clientID uuid.UUID, start, end time.Time) (*Created, error) {
	t.Helper()
	return f.svc.Create(context.Background(), clientID, "client", &CreateBookingRequest{
		PhotographerID: f.photographer.String(),
		StartAt:        start,
		EndAt:          end,
	})
}

func statusPtr(s Status) *string {
	v := string(s)
	return &v
}

func TestCreateBookingOverlapReturnsConflict(t *testing.T) {
	f := newFixture(t)

	first, err := f.book(t, f.client, at(10, 0), at(12, 0))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, first.Booking.Status)
	assert.Zero(t, first.Booking.Price)
	require.NotNil(t, first.Conversation)
	f.linker.AssertCalled(t, "EnsureConversation", mock.Anything, f.client, f.photographer, &first.Booking.ID)

	_, err = f.book(t, f.otherClient, at(11, 0), at(13, 0))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.book(t, f.otherClient, at(12, 0), at(14, 0))
	assert.ErrorIs(t, err, ErrConflict, "touching intervals conflict")

	_, err = f.book(t, f.otherClient, at(12, 1), at(14, 0))
	assert.NoError(t, err)
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	f := newFixture(t)
	first, err := f.book(t, f.client, at(10, 0), at(12, 0))
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), f.client, first.Booking.ID, &UpdateBookingRequest{Status: statusPtr(StatusCancelled)})
	require.NoError(t, err)

	_, err = f.book(t, f.otherClient, at(11, 0), at(13, 0))
	assert.NoError(t, err)
}

func TestCreateBookingPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownBrief := &brief.Brief{ID: uuid.New(), ClientID: f.client}
	foreignBrief := &brief.Brief{ID: uuid.New(), ClientID: f.otherClient}
	f.briefs[ownBrief.ID] = ownBrief
	f.briefs[foreignBrief.ID] = foreignBrief
	ptr := func(s string) *string { return &s }
	negative := -5.0
	huge, subCent := 1e12, 10.005

	tests := []struct {
		name    string
		actor   uuid.UUID
		role    string
		req     CreateBookingRequest
		wantErr error
	}{
		{"photographer cannot book", f.photographer, "photographer",
			CreateBookingRequest{PhotographerID: f.photographer.String(), StartAt: at(10, 0), EndAt: at(11, 0)}, ErrOnlyClients},
		{"inverted interval", f.client, "client",
			CreateBookingRequest{PhotographerID: f.photographer.String(), StartAt: at(11, 0), EndAt: at(10, 0)}, ErrInvalidInterval},
		{"negative price", f.client, "client",
			CreateBookingRequest{PhotographerID: f.photographer.String(), StartAt: at(10, 0), EndAt: at(11, 0), Price: &negative}, ErrInvalidPrice},
		{"price beyond column range", f.client, "client",
			CreateBookingRequest{PhotographerID: f.photographer.String(), StartAt: at(10, 0), EndAt: at(11, 0), Price: &huge}, ErrInvalidPrice},
		{"sub-cent price", f.client, "client",
			CreateBookingRequest{PhotographerID: f.photographer.String(), StartAt: at(10, 0), EndAt: at(11, 0), Price: &subCent}, ErrInvalidPrice},
		{"unknown photographer", f.client, "client",
			CreateBookingRequest{PhotographerID: uuid.NewString(), StartAt: at(10, 0), EndAt: at(11, 0)}, ErrPhotographerNotFound},
		{"target is a client", f.client, "client",
			CreateBookingRequest{PhotographerID: f.otherClient.String(), StartAt: at(10, 0), EndAt: at(11, 0)}, ErrPhotographerNotFound},
		{"missing brief", f.client, "client",
			CreateBookingRequest{PhotographerID: f.photographer.String(), BriefID: ptr(uuid.NewString()), StartAt: at(10, 0), EndAt: at(11, 0)}, ErrBriefNotFound},
		{"brief of another client", f.client, "client",
			CreateBookingRequest{PhotographerID: f.photographer.String(), BriefID: ptr(foreignBrief.ID.String()), StartAt: at(10, 0), EndAt: at(11, 0)}, ErrNotBriefOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.actor, tt.role, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.repo.bookings)

	price := 250.0
	created, err := f.svc.Create(ctx, f.client, "client", &CreateBookingRequest{
		PhotographerID: f.photographer.String(),
		BriefID:        ptr(ownBrief.ID.String()),
		StartAt:        at(10, 0),
		EndAt:          at(11, 0),
		Price:          &price,
	})
	require.NoError(t, err)
	assert.Equal(t, ownBrief.ID, created.Booking.BriefID.UUID)
	assert.Equal(t, 250.0, created.Booking.Price)
}

func TestCreateBookingSurvivesLinkerFailure(t *testing.T) {
	f := newFixture(t)
	f.linker.ExpectedCalls = nil
	f.linker.On("EnsureConversation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("redis down"))

	created, err := f.book(t, f.client, at(10, 0), at(12, 0))
	require.NoError(t, err)
	assert.Nil(t, created.Conversation)
	assert.Len(t, f.repo.bookings, 1)
}

func TestStatusLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.book(t, f.client, at(10, 0), at(12, 0))
	require.NoError(t, err)
	id := created.Booking.ID

	_, err = f.svc.Update(ctx, f.client, id, &UpdateBookingRequest{Status: statusPtr(StatusConfirmed)})
	assert.ErrorIs(t, err, ErrForbiddenTransition, "client cannot confirm")

	b, err := f.svc.Update(ctx, f.photographer, id, &UpdateBookingRequest{Status: statusPtr(StatusConfirmed)})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)

	b, err = f.svc.Update(ctx, f.client, id, &UpdateBookingRequest{Status: statusPtr(StatusCancelled)})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, b.Status)

	_, err = f.svc.Update(ctx, f.client, id, &UpdateBookingRequest{Status: statusPtr(StatusConfirmed)})
	assert.ErrorIs(t, err, ErrForbiddenTransition)

	_, err = f.svc.Update(ctx, f.photographer, id, &UpdateBookingRequest{Status: statusPtr(StatusConfirmed)})
	assert.ErrorIs(t, err, ErrInvalidTransition, "cancelled is terminal")
}

func TestUpdateAuthorizationAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.book(t, f.client, at(10, 0), at(12, 0))
	require.NoError(t, err)
	id := created.Booking.ID

	_, err = f.svc.Update(ctx, f.photographer, uuid.New(), &UpdateBookingRequest{Status: statusPtr(StatusConfirmed)})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.svc.Update(ctx, f.otherClient, id, &UpdateBookingRequest{Status: statusPtr(StatusCancelled)})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.svc.Update(ctx, f.client, id, &UpdateBookingRequest{})
	assert.ErrorIs(t, err, ErrNoChanges)

	_, err = f.svc.Update(ctx, f.photographer, id, &UpdateBookingRequest{Status: statusPtr(StatusCompleted)})
	assert.ErrorIs(t, err, ErrInvalidTransition, "pending cannot complete")

	b, err := f.svc.Update(ctx, f.photographer, id, &UpdateBookingRequest{Status: statusPtr(StatusPending)})
	require.NoError(t, err, "same status is a no-op")
	assert.Equal(t, StatusPending, b.Status)
}

func TestPriceRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.book(t, f.client, at(10, 0), at(12, 0))
	require.NoError(t, err)
	id := created.Booking.ID

	price := 300.0
	b, err := f.svc.Update(ctx, f.client, id, &UpdateBookingRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 300.0, b.Price)

	negative := -1.0
	_, err = f.svc.Update(ctx, f.photographer, id, &UpdateBookingRequest{Price: &negative})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = f.svc.Update(ctx, f.photographer, id, &UpdateBookingRequest{Status: statusPtr(StatusDeclined)})
	require.NoError(t, err)

	newPrice := 350.0
	_, err = f.svc.Update(ctx, f.photographer, id, &UpdateBookingRequest{Price: &newPrice})
	assert.ErrorIs(t, err, ErrPriceLocked)

	_, err = f.svc.Update(ctx, f.photographer, id, &UpdateBookingRequest{Price: &price})
	assert.NoError(t, err, "unchanged price is accepted on a closed booking")
}

// staleRepo changes the stored status between the read and the write.
type staleRepo struct {
	*memRepo
	intruder Status
}

func (s *staleRepo) Update(ctx context.Context, b *Booking, expected Status) error {
	s.setStatus(b.ID, s.intruder)
	return s.memRepo.Update(ctx, b, expected)
}

func TestUpdateDetectsConcurrentChange(t *testing.T) {
	f := newFixture(t)
	created, err := f.book(t, f.client, at(10, 0), at(12, 0))
	require.NoError(t, err)

	f.svc.repo = &staleRepo{memRepo: f.repo, intruder: StatusCancelled}
	_, err = f.svc.Update(context.Background(), f.photographer, created.Booking.ID, &UpdateBookingRequest{Status: statusPtr(StatusConfirmed)})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)

	stored, _ := f.repo.GetByID(context.Background(), created.Booking.ID)
	assert.Equal(t, StatusCancelled, stored.Status)
}

func TestGetListDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.book(t, f.client, at(10, 0), at(12, 0))
	require.NoError(t, err)
	id := created.Booking.ID

	_, err = f.svc.Get(ctx, f.otherClient, id)
	assert.ErrorIs(t, err, ErrNotParticipant)

	d, err := f.svc.Get(ctx, f.photographer, id)
	require.NoError(t, err)
	assert.Equal(t, id, d.ID)

	list, err := f.svc.List(ctx, f.photographer, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	confirmed := StatusConfirmed
	list, err = f.svc.List(ctx, f.client, &confirmed)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.otherClient, id), ErrNotParticipant)
	require.NoError(t, f.svc.Delete(ctx, f.client, id))
	assert.ErrorIs(t, f.svc.Delete(ctx, f.client, id), ErrBookingNotFound)
}
