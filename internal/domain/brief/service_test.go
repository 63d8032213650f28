package brief

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	briefs map[uuid.UUID]*Brief
}

func (m *memRepo) Create(ctx context.Context, b *Brief) error {
	m.briefs[b.ID] = b
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*Brief, error) {
	return m.briefs[id], nil
}

func (m *memRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Brief, error) {
	var out []*Brief
	for _, b := range m.briefs {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestCreateAndGetBrief(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memRepo{briefs: map[uuid.UUID]*Brief{}})
	owner := uuid.New()
	eventDate := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	location := "  "

	b, err := svc.Create(ctx, owner, &CreateBriefRequest{
		Title:     " Wedding in Lisbon ",
		Location:  &location,
		EventDate: &eventDate,
	})
	require.NoError(t, err)
	assert.Equal(t, "Wedding in Lisbon", b.Title)
	assert.False(t, b.Location.Valid)
	assert.Equal(t, eventDate, b.EventDate.Time)

	got, err := svc.Get(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.Get(ctx, uuid.New(), b.ID)
	assert.ErrorIs(t, err, ErrNotBriefOwner)

	_, err = svc.Get(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, ErrBriefNotFound)

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
