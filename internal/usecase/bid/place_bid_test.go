package bid_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/bid"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/notification"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/usecasetest"
)

func newPlaceBid(env *usecasetest.Env) *bid.PlaceBidUseCase {
	return bid.NewPlaceBidUseCase(env.Store, env.Dispatcher, env.Resolver, env.Log)
}

func placeInput(gigID, bidderID uuid.UUID, amount float64) bid.PlaceBidInput {
	return bid.PlaceBidInput{
		GigID:        gigID,
		BidderID:     bidderID,
		Amount:       amount,
		Proposal:     usecasetest.Proposal(),
		DeliveryTime: 5,
	}
}

func TestPlaceBid_Success(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	owner, bidder := env.User(t), env.User(t)
	gig := env.Gig(t, owner.ID)

	placed, err := newPlaceBid(env).Execute(ctx, placeInput(gig.ID, bidder.ID, 450))
	require.NoError(t, err)

	assert.Equal(t, valueobject.BidStatusPending, placed.Bid.Status)
	assert.Equal(t, 450.0, placed.Bid.Amount.Float64())
	require.NotNil(t, placed.Bidder)
	assert.Equal(t, bidder.Name, placed.Bidder.Name)

	stored, err := env.Store.Bids().FindByID(ctx, placed.Bid.ID)
	require.NoError(t, err)
	assert.Equal(t, bidder.ID, stored.BidderID)

	inbox := env.Notifications(t, owner.ID, valueobject.NotificationNewBid)
	require.Len(t, inbox, 1)
	assert.Equal(t, fmt.Sprintf("New bid of $450 on your gig \"%s\"", gig.Title), inbox[0].Message)
	assert.Equal(t, gig.ID, *inbox[0].Data.GigID)
	assert.Equal(t, placed.Bid.ID, *inbox[0].Data.BidID)

	events := env.Publisher.GigEvents(gig.ID, notification.EventNewBid)
	require.Len(t, events, 1)
	event, ok := events[0].Data.(bid.NewBidEvent)
	require.True(t, ok)
	assert.Equal(t, placed.Bid.ID, event.BidID)
	assert.Equal(t, bidder.Name, event.Bidder.Name)
}

func TestPlaceBid_CheckOrder(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	owner, bidder := env.User(t), env.User(t)
	uc := newPlaceBid(env)

	t.Run("validation before lookup", func(t *testing.T) {
		input := placeInput(uuid.New(), bidder.ID, 0)
		_, err := uc.Execute(ctx, input)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("missing gig", func(t *testing.T) {
		_, err := uc.Execute(ctx, placeInput(uuid.New(), bidder.ID, 100))
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("closed gig before ownership", func(t *testing.T) {
		gig := env.Gig(t, owner.ID)
		require.NoError(t, gig.Cancel())
		require.NoError(t, env.Store.Gigs().Update(ctx, gig))

		_, err := uc.Execute(ctx, placeInput(gig.ID, owner.ID, 100))
		assert.True(t, apperror.IsInvalidState(err))
	})

	t.Run("owner cannot bid", func(t *testing.T) {
		gig := env.Gig(t, owner.ID)
		_, err := uc.Execute(ctx, placeInput(gig.ID, owner.ID, 100))
		assert.True(t, apperror.IsForbidden(err))
	})

	t.Run("second bid conflicts", func(t *testing.T) {
		gig := env.Gig(t, owner.ID)
		_, err := uc.Execute(ctx, placeInput(gig.ID, bidder.ID, 100))
		require.NoError(t, err)

		_, err = uc.Execute(ctx, placeInput(gig.ID, bidder.ID, 90))
		assert.True(t, apperror.IsConflict(err))

		bids, err := env.Store.Bids().FindByGigID(ctx, gig.ID)
		require.NoError(t, err)
		assert.Len(t, bids, 1)
	})
}

// Сценарий: заказ уже в работе, новая ставка отклоняется без побочных эффектов.
func TestPlaceBid_OnHiredGig(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	owner, first, late := env.User(t), env.User(t), env.User(t)
	gig := env.Gig(t, owner.ID)
	b := env.Bid(t, gig.ID, first.ID, 300)

	_, err := newAcceptBid(env).Execute(ctx, bid.AcceptBidInput{GigID: gig.ID, BidID: b.ID, CallerID: owner.ID})
	require.NoError(t, err)

	_, err = newPlaceBid(env).Execute(ctx, placeInput(gig.ID, late.ID, 200))
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))

	bids, err := env.Store.Bids().FindByGigID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Len(t, bids, 1)
	assert.Empty(t, env.Notifications(t, owner.ID, valueobject.NotificationNewBid))
}

func TestPlaceBid_PublisherFailureIgnored(t *testing.T) {
	tests := []struct {
		name      string
		configure func(p *usecasetest.RecordingPublisher)
	}{
		{name: "error", configure: func(p *usecasetest.RecordingPublisher) { p.FailWith = usecasetest.ErrPublish }},
		{name: "panic", configure: func(p *usecasetest.RecordingPublisher) { p.Panic = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := usecasetest.NewEnv(t)
			tt.configure(env.Publisher)
			owner, bidder := env.User(t), env.User(t)
			gig := env.Gig(t, owner.ID)

			placed, err := newPlaceBid(env).Execute(ctx, placeInput(gig.ID, bidder.ID, 120))
			require.NoError(t, err)
			assert.NotNil(t, placed.Bid)

			// Уведомление сохранено, хотя публикация не удалась.
			assert.Len(t, env.Notifications(t, owner.ID, valueobject.NotificationNewBid), 1)
		})
	}
}

func TestListMyBids_SkipsDeletedGigs(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	owner, bidder := env.User(t), env.User(t)
	kept := env.Gig(t, owner.ID)
	removed := env.Gig(t, owner.ID)
	env.Bid(t, kept.ID, bidder.ID, 100)
	env.Bid(t, removed.ID, bidder.ID, 200)

	require.NoError(t, env.Store.Gigs().Delete(ctx, removed.ID))

	uc := bid.NewListMyBidsUseCase(env.Store.Bids(), env.Store.Gigs(), env.Resolver)
	bids, err := uc.Execute(ctx, bidder.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, kept.ID, bids[0].Bid.GigID)
	require.NotNil(t, bids[0].Gig)
	assert.Equal(t, kept.Title, bids[0].Gig.Gig.Title)
}

func TestListBids_NewestFirst(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	owner := env.User(t)
	gig := env.Gig(t, owner.ID)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		ids = append(ids, env.Bid(t, gig.ID, env.User(t).ID, 100).ID)
	}

	bids, err := bid.NewListBidsUseCase(env.Store.Bids(), env.Resolver).Execute(ctx, gig.ID)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	assert.Equal(t, ids[2], bids[0].Bid.ID)
	assert.Equal(t, ids[0], bids[2].Bid.ID)
	assert.NotNil(t, bids[0].Bidder)

	empty, err := bid.NewListBidsUseCase(env.Store.Bids(), env.Resolver).Execute(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
