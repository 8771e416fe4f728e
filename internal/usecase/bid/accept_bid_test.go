package bid_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/bid"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/notification"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/usecasetest"
)

func newAcceptBid(env *usecasetest.Env) *bid.AcceptBidUseCase {
	return bid.NewAcceptBidUseCase(env.Store, env.Store.Bids(), env.Dispatcher, env.Resolver, time.Second, env.Log)
}

func bidStatus(t *testing.T, env *usecasetest.Env, id uuid.UUID) valueobject.BidStatus {
	t.Helper()
	b, err := env.Store.Bids().FindByID(context.Background(), id)
	require.NoError(t, err)
	return b.Status
}

// Сценарий: владелец принимает одну из трёх ставок.
func TestAcceptBid_HiresFreelancer(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	owner := env.User(t)
	alice, bob, carol := env.User(t), env.User(t), env.User(t)
	gig := env.Gig(t, owner.ID)
	bidA := env.Bid(t, gig.ID, alice.ID, 400)
	bidB := env.Bid(t, gig.ID, bob.ID, 350)
	bidC := env.Bid(t, gig.ID, carol.ID, 450)

	result, err := newAcceptBid(env).Execute(ctx, bid.AcceptBidInput{GigID: gig.ID, BidID: bidB.ID, CallerID: owner.ID})
	require.NoError(t, err)

	assert.Equal(t, bid.AcceptedMessage, result.Message)
	require.NotNil(t, result.Gig)
	assert.Equal(t, valueobject.GigStatusInProgress, result.Gig.Gig.Status)
	require.NotNil(t, result.Gig.HiredFreelancer)
	assert.Equal(t, bob.Name, result.Gig.HiredFreelancer.Name)
	require.NotNil(t, result.Gig.Owner)
	assert.Equal(t, owner.ID, result.Gig.Owner.ID)

	stored, err := env.Store.Gigs().FindByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.GigStatusInProgress, stored.Status)
	require.NotNil(t, stored.HiredFreelancerID)
	assert.Equal(t, bob.ID, *stored.HiredFreelancerID)
	require.NotNil(t, stored.AcceptedBidID)
	assert.Equal(t, bidB.ID, *stored.AcceptedBidID)

	assert.Equal(t, valueobject.BidStatusAccepted, bidStatus(t, env, bidB.ID))
	assert.Equal(t, valueobject.BidStatusRejected, bidStatus(t, env, bidA.ID))
	assert.Equal(t, valueobject.BidStatusRejected, bidStatus(t, env, bidC.ID))

	accepted := env.Notifications(t, bob.ID, valueobject.NotificationBidAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, fmt.Sprintf("Congratulations! Your bid on \"%s\" has been accepted!", gig.Title), accepted[0].Message)

	for _, loser := range []uuid.UUID{alice.ID, carol.ID} {
		rejected := env.Notifications(t, loser, valueobject.NotificationBidRejected)
		require.Len(t, rejected, 1)
		assert.Equal(t, fmt.Sprintf("Your bid on \"%s\" was not selected.", gig.Title), rejected[0].Message)
	}
	assert.Empty(t, env.Notifications(t, bob.ID, valueobject.NotificationBidRejected))

	hired := env.Publisher.GigEvents(gig.ID, notification.EventGigHired)
	require.Len(t, hired, 1)
	event, ok := hired[0].Data.(bid.GigHiredEvent)
	require.True(t, ok)
	assert.Equal(t, bob.ID, event.FreelancerID)
	assert.Equal(t, bob.Name, event.FreelancerName)
}

func TestAcceptBid_Rejections(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	owner, stranger, bidder := env.User(t), env.User(t), env.User(t)
	uc := newAcceptBid(env)

	gig := env.Gig(t, owner.ID)
	b := env.Bid(t, gig.ID, bidder.ID, 200)
	other := env.Gig(t, owner.ID)
	foreign := env.Bid(t, other.ID, bidder.ID, 200)

	tests := []struct {
		name  string
		input bid.AcceptBidInput
		check func(error) bool
	}{
		{
			name:  "missing gig",
			input: bid.AcceptBidInput{GigID: uuid.New(), BidID: b.ID, CallerID: owner.ID},
			check: apperror.IsNotFound,
		},
		{
			name:  "not the owner",
			input: bid.AcceptBidInput{GigID: gig.ID, BidID: b.ID, CallerID: stranger.ID},
			check: apperror.IsForbidden,
		},
		{
			name:  "missing bid",
			input: bid.AcceptBidInput{GigID: gig.ID, BidID: uuid.New(), CallerID: owner.ID},
			check: apperror.IsNotFound,
		},
		{
			name:  "bid of another gig",
			input: bid.AcceptBidInput{GigID: gig.ID, BidID: foreign.ID, CallerID: owner.ID},
			check: apperror.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}

	// Ни одна попытка ничего не изменила.
	assert.Equal(t, valueobject.BidStatusPending, bidStatus(t, env, b.ID))
	assert.Equal(t, valueobject.BidStatusPending, bidStatus(t, env, foreign.ID))
	assert.Empty(t, env.Publisher.Events())
}

func TestAcceptBid_Twice(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	owner, first, second := env.User(t), env.User(t), env.User(t)
	gig := env.Gig(t, owner.ID)
	b1 := env.Bid(t, gig.ID, first.ID, 100)
	b2 := env.Bid(t, gig.ID, second.ID, 120)
	uc := newAcceptBid(env)

	_, err := uc.Execute(ctx, bid.AcceptBidInput{GigID: gig.ID, BidID: b1.ID, CallerID: owner.ID})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, bid.AcceptBidInput{GigID: gig.ID, BidID: b1.ID, CallerID: owner.ID})
	assert.True(t, apperror.IsInvalidState(err))

	_, err = uc.Execute(ctx, bid.AcceptBidInput{GigID: gig.ID, BidID: b2.ID, CallerID: owner.ID})
	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, valueobject.BidStatusRejected, bidStatus(t, env, b2.ID))
}

func TestAcceptBid_Concurrent(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	owner := env.User(t)
	gig := env.Gig(t, owner.ID)
	uc := newAcceptBid(env)

	const contenders = 8
	bids := make([]uuid.UUID, contenders)
	for i := range bids {
		bids[i] = env.Bid(t, gig.ID, env.User(t).ID, float64(100+i)).ID
	}

	errs := make([]error, contenders)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range bids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.Execute(ctx, bid.AcceptBidInput{GigID: gig.ID, BidID: bids[i], CallerID: owner.ID})
		}(i)
	}
	close(start)
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "more than one accept succeeded")
			winner = i
			continue
		}
		assert.True(t, apperror.IsInvalidState(err), "unexpected error: %v", err)
	}
	require.NotEqual(t, -1, winner)

	stored, err := env.Store.Gigs().FindByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.GigStatusInProgress, stored.Status)
	assert.Equal(t, bids[winner], *stored.AcceptedBidID)

	accepted := 0
	for _, id := range bids {
		switch bidStatus(t, env, id) {
		case valueobject.BidStatusAccepted:
			accepted++
		case valueobject.BidStatusPending:
			t.Errorf("bid %s left pending", id)
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestAcceptBid_Timeout(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	owner, bidder := env.User(t), env.User(t)
	gig := env.Gig(t, owner.ID)
	b := env.Bid(t, gig.ID, bidder.ID, 100)

	// Держим единственную транзакцию хранилища, пока принятие не истечёт.
	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- env.Store.WithinTransaction(ctx, func(ctx context.Context, _ repository.Store) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	uc := bid.NewAcceptBidUseCase(env.Store, env.Store.Bids(), env.Dispatcher, env.Resolver, 30*time.Millisecond, env.Log)
	_, err := uc.Execute(ctx, bid.AcceptBidInput{GigID: gig.ID, BidID: b.ID, CallerID: owner.ID})
	close(release)
	require.NoError(t, <-done)

	require.Error(t, err)
	assert.True(t, apperror.IsTimeout(err), "unexpected error: %v", err)

	stored, err := env.Store.Gigs().FindByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.GigStatusOpen, stored.Status)
	assert.Nil(t, stored.HiredFreelancerID)
	assert.Equal(t, valueobject.BidStatusPending, bidStatus(t, env, b.ID))
	assert.Empty(t, env.Notifications(t, bidder.ID, valueobject.NotificationBidAccepted))
}
