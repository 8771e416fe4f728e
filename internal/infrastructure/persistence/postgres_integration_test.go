package persistence

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigflow-backend/internal/db"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
)

// openTestDB подключается к базе из GIGFLOW_TEST_DATABASE_URL. Без неё тест пропускается.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("GIGFLOW_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("GIGFLOW_TEST_DATABASE_URL не задан")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := db.NewPostgres(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(conn))
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createUser(t *testing.T, users *UserRepositoryAdapter) *entity.User {
	t.Helper()
	user, err := entity.NewUser(gofakeit.FirstName()+" Tester", uuid.NewString()+"@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestPostgres_BidLifecycle(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	users := NewUserRepositoryAdapter(conn)
	gigs := NewGigRepositoryAdapter(conn)
	bids := NewBidRepositoryAdapter(conn)
	tx := NewTransactor(conn)

	owner := createUser(t, users)
	bidder := createUser(t, users)

	gig, err := entity.NewGig(owner.ID, entity.GigFields{
		Title:       "Integration test gig",
		Description: gofakeit.Sentence(20),
		Budget:      750,
		Deadline:    time.Now().Add(48 * time.Hour),
		Skills:      []string{"Go", "SQL"},
		Category:    string(valueobject.CategoryWebDevelopment),
	})
	require.NoError(t, err)
	require.NoError(t, gigs.Create(ctx, gig))

	stored, err := gigs.FindByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, stored.Skills)

	bid, err := entity.NewBid(gig.ID, bidder.ID, 500, "Integration proposal text, long enough.", 3)
	require.NoError(t, err)
	require.NoError(t, bids.Create(ctx, bid))

	dup, err := entity.NewBid(gig.ID, bidder.ID, 400, "Second proposal from the same bidder.", 3)
	require.NoError(t, err)
	assert.ErrorIs(t, bids.Create(ctx, dup), repository.ErrBidAlreadyExists)

	// Откат: ставка и заказ остаются как были.
	boom := errors.New("boom")
	err = tx.WithinTransaction(ctx, func(ctx context.Context, store repository.Store) error {
		locked, err := store.Gigs().FindByIDForUpdate(ctx, gig.ID)
		require.NoError(t, err)
		require.NoError(t, store.Bids().UpdateStatus(ctx, bid.ID, valueobject.BidStatusAccepted))
		require.NoError(t, locked.Hire(bid))
		require.NoError(t, store.Gigs().Update(ctx, locked))
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err = gigs.FindByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.GigStatusOpen, stored.Status)

	_, err = gigs.FindByID(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}
