package conversation

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focalfinder/focalfinder-api/internal/domain/user"
)

// memRepo mirrors the unique constraints on booking_id and the ordered pair.
type memRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*Conversation
	messages      []*Message

	// beforeCreate runs once before the next Create, to simulate a
	// concurrent writer winning the race.
	beforeCreate func()
}

func newMemRepo() *memRepo {
	return &memRepo{conversations: map[uuid.UUID]*Conversation{}}
}

func (m *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.conversations[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.conversations {
		if c.BookingID.Valid && c.BookingID.UUID == bookingID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) GetByPair(ctx context.Context, low, high uuid.UUID) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.conversations {
		if c.ParticipantLow == low && c.ParticipantHigh == high {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Create(ctx context.Context, c *Conversation) error {
	if hook := m.beforeCreate; hook != nil {
		m.beforeCreate = nil
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.conversations {
		if existing.ParticipantLow == c.ParticipantLow && existing.ParticipantHigh == c.ParticipantHigh {
			return ErrDuplicate
		}
		if c.BookingID.Valid && existing.BookingID == c.BookingID {
			return ErrDuplicate
		}
	}
	cp := *c
	m.conversations[c.ID] = &cp
	return nil
}

func (m *memRepo) BindBooking(ctx context.Context, id, bookingID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok || c.BookingID.Valid {
		return false, nil
	}
	c.BookingID = uuid.NullUUID{UUID: bookingID, Valid: true}
	return true, nil
}

func (m *memRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Summary
	for _, c := range m.conversations {
		if c.HasParticipant(userID) {
			out = append(out, &Summary{Conversation: *c, OtherID: c.OtherParticipant(userID)})
		}
	}
	return out, nil
}

func (m *memRepo) CreateMessage(ctx context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	if c, ok := m.conversations[msg.ConversationID]; ok {
		c.LastMessageAt.Time, c.LastMessageAt.Valid = msg.CreatedAt, true
	}
	return nil
}

func (m *memRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeUsers map[uuid.UUID]*user.User

func (f fakeUsers) Create(ctx context.Context, u *user.User) error {
	f[u.ID] = u
	return nil
}

func (f fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f[id], nil
}

func (f fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

type bookingPair struct{ client, photographer uuid.UUID }

type fakeBookings map[uuid.UUID]bookingPair

func (f fakeBookings) BookingParticipants(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, uuid.UUID, bool, error) {
	p, ok := f[bookingID]
	return p.client, p.photographer, ok, nil
}

type sentEvent struct {
	userID uuid.UUID
	event  *Event
}

type fakeRealtime struct {
	mu     sync.Mutex
	sent   []sentEvent
	online map[uuid.UUID]bool
}

func (f *fakeRealtime) SendToUser(userID uuid.UUID, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEvent{userID: userID, event: payload.(*Event)})
	return nil
}

func (f *fakeRealtime) IsOnline(ctx context.Context, userID uuid.UUID) bool {
	return f.online[userID]
}

type fixture struct {
	svc      *Service
	repo     *memRepo
	users    fakeUsers
	bookings fakeBookings
	realtime *fakeRealtime
	client   *user.User
	photog   *user.User
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMemRepo(),
		users:    fakeUsers{},
		bookings: fakeBookings{},
		realtime: &fakeRealtime{online: map[uuid.UUID]bool{}},
		client:   &user.User{ID: uuid.New(), FirstName: "Ana", LastName: "Client", Role: user.RoleClient},
		photog:   &user.User{ID: uuid.New(), FirstName: "Pia", LastName: "Lens", Role: user.RolePhotographer},
	}
	f.users[f.client.ID] = f.client
	f.users[f.photog.ID] = f.photog
	f.svc = NewService(f.repo, f.users, f.bookings, f.realtime, NewMessageLimiter(nil))
	return f
}

func TestEnsureConversationSamePairReturnsSameConversation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, nil)
	require.NoError(t, err)

	second, err := f.svc.EnsureConversation(ctx, f.photog.ID, f.client.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.repo.conversations, 1)
}

func TestEnsureConversationWithBookingIsStable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	bookingID := uuid.New()

	first, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, &bookingID)
	require.NoError(t, err)
	second, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, &bookingID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.True(t, second.BookingID.Valid)
	assert.Equal(t, bookingID, second.BookingID.UUID)
}

func TestEnsureConversationBindsExistingPairToBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	unbound, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, nil)
	require.NoError(t, err)
	assert.False(t, unbound.BookingID.Valid)

	bookingID := uuid.New()
	bound, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, &bookingID)
	require.NoError(t, err)
	assert.Equal(t, unbound.ID, bound.ID)
	assert.Equal(t, bookingID, bound.BookingID.UUID)

	// A second booking for the same pair keeps the first binding.
	otherBooking := uuid.New()
	again, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, &otherBooking)
	require.NoError(t, err)
	assert.Equal(t, unbound.ID, again.ID)
	assert.Equal(t, bookingID, again.BookingID.UUID)
	assert.Len(t, f.repo.conversations, 1)
}

func TestEnsureConversationRejectsSelf(t *testing.T) {
	f := newFixture()
	_, err := f.svc.EnsureConversation(context.Background(), f.client.ID, f.client.ID, nil)
	assert.ErrorIs(t, err, ErrSameParticipant)
}

func TestEnsureConversationConvergesAfterLostRace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	low, high := OrderedPair(f.client.ID, f.photog.ID)
	winner := &Conversation{ID: uuid.New(), ParticipantLow: low, ParticipantHigh: high}

	f.repo.beforeCreate = func() {
		f.repo.mu.Lock()
		f.repo.conversations[winner.ID] = winner
		f.repo.mu.Unlock()
	}

	c, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, c.ID)
	assert.Len(t, f.repo.conversations, 1)
}

func TestStartValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	bookingID := uuid.New()
	f.bookings[bookingID] = bookingPair{client: f.client.ID, photographer: f.photog.ID}
	stranger := &user.User{ID: uuid.New(), Role: user.RolePhotographer}
	f.users[stranger.ID] = stranger

	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name    string
		actor   uuid.UUID
		req     StartConversationRequest
		wantErr error
	}{
		{"self", f.client.ID, StartConversationRequest{ParticipantID: f.client.ID.String()}, ErrSameParticipant},
		{"unknown participant", f.client.ID, StartConversationRequest{ParticipantID: uuid.NewString()}, ErrParticipantNotFound},
		{"missing booking", f.client.ID, StartConversationRequest{ParticipantID: f.photog.ID.String(), BookingID: strPtr(uuid.NewString())}, ErrBookingNotFound},
		{"booking of another pair", f.client.ID, StartConversationRequest{ParticipantID: stranger.ID.String(), BookingID: strPtr(bookingID.String())}, ErrBookingMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Start(ctx, tt.actor, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	c, err := f.svc.Start(ctx, f.photog.ID, &StartConversationRequest{
		ParticipantID: f.client.ID.String(),
		BookingID:     strPtr(bookingID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, bookingID, c.BookingID.UUID)
}

func TestSendMessagePushesToBothParticipants(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, nil)
	require.NoError(t, err)

	text := "  See you at ten  "
	m, err := f.svc.SendMessage(ctx, f.client.ID, c.ID, &SendMessageRequest{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "See you at ten", m.Text.String)
	assert.NotNil(t, m.Attachments)

	require.Len(t, f.realtime.sent, 2)
	recipients := []uuid.UUID{f.realtime.sent[0].userID, f.realtime.sent[1].userID}
	assert.ElementsMatch(t, []uuid.UUID{f.client.ID, f.photog.ID}, recipients)
	assert.Equal(t, EventMessageCreated, f.realtime.sent[0].event.Type)
	assert.Equal(t, c.ID, f.realtime.sent[0].event.ConversationID)

	detail, err := f.svc.Get(ctx, f.photog.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 1)
	assert.Equal(t, f.client.ID, detail.OtherParticipant.ID)
	assert.NotNil(t, detail.Conversation.LastMessageAt)
}

func TestSendMessageRules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, nil)
	require.NoError(t, err)

	blank := "   "
	_, err = f.svc.SendMessage(ctx, f.client.ID, c.ID, &SendMessageRequest{Text: &blank})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = f.svc.SendMessage(ctx, uuid.New(), c.ID, &SendMessageRequest{Attachments: []string{"/uploads/a.pdf"}})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.svc.SendMessage(ctx, f.client.ID, uuid.New(), &SendMessageRequest{Attachments: []string{"/uploads/a.pdf"}})
	assert.ErrorIs(t, err, ErrConversationNotFound)

	m, err := f.svc.SendMessage(ctx, f.photog.ID, c.ID, &SendMessageRequest{Attachments: []string{"/uploads/a.pdf"}})
	require.NoError(t, err)
	assert.False(t, m.Text.Valid)
	assert.Equal(t, []string{"/uploads/a.pdf"}, []string(m.Attachments))
}

func TestRelayTypingOnlyReachesOtherParticipant(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.RelayTyping(ctx, f.client.ID, c.ID))
	require.Len(t, f.realtime.sent, 1)
	assert.Equal(t, f.photog.ID, f.realtime.sent[0].userID)
	assert.Equal(t, EventTyping, f.realtime.sent[0].event.Type)

	assert.ErrorIs(t, f.svc.RelayTyping(ctx, uuid.New(), c.ID), ErrNotParticipant)
	assert.Len(t, f.realtime.sent, 1)
}

func TestListReportsPresence(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.EnsureConversation(ctx, f.client.ID, f.photog.ID, nil)
	require.NoError(t, err)
	f.realtime.online[f.photog.ID] = true

	items, err := f.svc.List(ctx, f.client.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.photog.ID, items[0].OtherParticipant.ID)
	assert.True(t, items[0].OtherParticipant.Online)
}
