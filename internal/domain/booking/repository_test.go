package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/focalfinder/focalfinder-api/internal/pkg/database"
	"github.com/focalfinder/focalfinder-api/migrations"
)

func TestClassifyCreateError(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"success", nil, nil},
		{"overlap found by select", ErrConflict, ErrConflict},
		{"exclusion constraint", &pq.Error{Code: database.SQLStateExclusionViolation}, ErrConflict},
		{"serialization retries exhausted", fmt.Errorf("after 3 attempts: %w", &pq.Error{Code: database.SQLStateSerializationFailure}), ErrConflict},
		{"deadlock", &pq.Error{Code: database.SQLStateDeadlockDetected}, ErrConflict},
		{"other failure", boom, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyCreateError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
			if tt.want != ErrConflict {
				assert.NotErrorIs(t, got, ErrConflict)
			}
		})
	}
}

var (
	pgOnce sync.Once
	pgDB   *sqlx.DB
	pgErr  error
)

// testDB starts one PostgreSQL container for the package and migrates it.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	pgOnce.Do(func() {
		ctx := context.Background()
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("focalfinder"),
			postgres.WithUsername("focalfinder"),
			postgres.WithPassword("password"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			pgErr = fmt.Errorf("start container: %w", err)
			return
		}

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			pgErr = fmt.Errorf("connection string: %w", err)
			return
		}
		db, err := database.NewPostgres(ctx, dsn)
		if err != nil {
			pgErr = err
			return
		}
		if err := database.Migrate(db, migrations.FS); err != nil {
			pgErr = err
			return
		}
		pgDB = db
	})
	if pgErr != nil {
		t.Skipf("postgres unavailable: %v", pgErr)
	}
	return pgDB
}

func insertUser(t *testing.T, db *sqlx.DB, role string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`
		INSERT INTO users (id, email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, 'x', 'Test', 'User', $3)
	`, id, id.String()+"@example.com", role)
	require.NoError(t, err)
	return id
}

type slotFixture struct {
	repo         Repository
	client       uuid.UUID
	photographer uuid.UUID
	day          time.Time
}

func newSlotFixture(t *testing.T) *slotFixture {
	db := testDB(t)
	return &slotFixture{
		repo:         NewRepository(db),
		client:       insertUser(t, db, "client"),
		photographer: insertUser(t, db, "photographer"),
		day:          time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *slotFixture) booking(from, to int) *Booking {
	now := time.Now().UTC()
	return &Booking{
		ID:             uuid.New(),
		ClientID:       f.client,
		PhotographerID: f.photographer,
		StartAt:        f.day.Add(time.Duration(from) * time.Hour),
		EndAt:          f.day.Add(time.Duration(to) * time.Hour),
		Price:          150,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCreateIfAvailableRejectsOverlaps(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.CreateIfAvailable(ctx, f.booking(10, 12)))

	assert.ErrorIs(t, f.repo.CreateIfAvailable(ctx, f.booking(11, 13)), ErrConflict)
	assert.ErrorIs(t, f.repo.CreateIfAvailable(ctx, f.booking(9, 14)), ErrConflict)
	assert.ErrorIs(t, f.repo.CreateIfAvailable(ctx, f.booking(12, 13)), ErrConflict, "touching end boundary")
	assert.ErrorIs(t, f.repo.CreateIfAvailable(ctx, f.booking(8, 10)), ErrConflict, "touching start boundary")

	assert.NoError(t, f.repo.CreateIfAvailable(ctx, f.booking(13, 14)))
}

func TestCreateIfAvailableIgnoresInactiveBookings(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()

	first := f.booking(10, 12)
	require.NoError(t, f.repo.CreateIfAvailable(ctx, first))

	first.Status = StatusCancelled
	first.UpdatedAt = time.Now().UTC()
	require.NoError(t, f.repo.Update(ctx, first, StatusPending))

	assert.NoError(t, f.repo.CreateIfAvailable(ctx, f.booking(10, 12)))
}

func TestCreateIfAvailableConcurrentSameSlot(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()

	const workers = 2
	errs := make([]error, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = f.repo.CreateIfAvailable(ctx, f.booking(10, 12))
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	list, err := f.repo.List(ctx, f.photographer, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
