package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/notification"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/usecasetest"
)

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (*entity.Notification, error) {
	args := m.Called(ctx, id, userID)
	n, _ := args.Get(0).(*entity.Notification)
	return n, args.Error(1)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error) {
	args := m.Called(ctx, userID, limit)
	list, _ := args.Get(0).([]*entity.Notification)
	return list, args.Error(1)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func TestDispatcher_Notify(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	recipient := uuid.New()
	gigID := uuid.New()

	n, err := env.Dispatcher.Notify(ctx, recipient, valueobject.NotificationNewBid, "New bid", entity.NotificationData{GigID: entity.IDRef(gigID)})
	require.NoError(t, err)
	assert.False(t, n.Read)

	stored := env.Notifications(t, recipient, valueobject.NotificationNewBid)
	require.Len(t, stored, 1)
	assert.Equal(t, n.ID, stored[0].ID)

	events := env.Publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, recipient, events[0].Topic)
	assert.False(t, events[0].ToGig)
	assert.Equal(t, notification.EventNotification, events[0].Name)
	payload, ok := events[0].Data.(notification.EventPayload)
	require.True(t, ok)
	assert.Equal(t, n.ID, payload.ID)
	assert.Equal(t, gigID, *payload.Data.GigID)
}

func TestDispatcher_StorageFailureSurfaces(t *testing.T) {
	repo := &mockNotificationRepo{}
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	publisher := &usecasetest.RecordingPublisher{}
	log, _ := test.NewNullLogger()

	d := notification.NewDispatcher(repo, publisher, log)
	_, err := d.Notify(context.Background(), uuid.New(), valueobject.NotificationBidAccepted, "hello", entity.NotificationData{})

	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
	assert.Empty(t, publisher.Events())
	repo.AssertExpectations(t)
}

func TestDispatcher_InvalidType(t *testing.T) {
	env := usecasetest.NewEnv(t)
	_, err := env.Dispatcher.Notify(context.Background(), uuid.New(), valueobject.NotificationType("bogus"), "hello", entity.NotificationData{})
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, env.Publisher.Events())
}

func TestDispatcher_PublishFailureSwallowed(t *testing.T) {
	tests := []struct {
		name      string
		configure func(p *usecasetest.RecordingPublisher)
	}{
		{name: "error", configure: func(p *usecasetest.RecordingPublisher) { p.FailWith = usecasetest.ErrPublish }},
		{name: "panic", configure: func(p *usecasetest.RecordingPublisher) { p.Panic = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := usecasetest.NewEnv(t)
			tt.configure(env.Publisher)
			recipient := uuid.New()

			n, err := env.Dispatcher.Notify(context.Background(), recipient, valueobject.NotificationBidRejected, "sorry", entity.NotificationData{})
			require.NoError(t, err)
			require.NotNil(t, n)
			assert.Len(t, env.Notifications(t, recipient, valueobject.NotificationBidRejected), 1)

			assert.NotPanics(t, func() {
				env.Dispatcher.PublishToGig(uuid.New(), notification.EventNewBid, nil)
			})
		})
	}
}

func TestDispatcher_WithoutPublisher(t *testing.T) {
	store := memory.NewStore()
	log, _ := test.NewNullLogger()
	d := notification.NewDispatcher(store.Notifications(), nil, log)
	recipient := uuid.New()

	_, err := d.Notify(context.Background(), recipient, valueobject.NotificationNewBid, "stored only", entity.NotificationData{})
	require.NoError(t, err)
	d.PublishToGig(uuid.New(), notification.EventGigHired, nil)

	count, err := store.Notifications().CountUnread(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func seedInbox(t *testing.T, env *usecasetest.Env, userID uuid.UUID, n int) []*entity.Notification {
	t.Helper()
	result := make([]*entity.Notification, 0, n)
	for i := 0; i < n; i++ {
		created, err := env.Dispatcher.Notify(context.Background(), userID, valueobject.NotificationNewBid, "New bid", entity.NotificationData{})
		require.NoError(t, err)
		result = append(result, created)
	}
	return result
}

func TestInbox(t *testing.T) {
	ctx := context.Background()
	env := usecasetest.NewEnv(t)
	me, other := uuid.New(), uuid.New()
	mine := seedInbox(t, env, me, 5)
	theirs := seedInbox(t, env, other, 1)

	list := notification.NewListInboxUseCase(env.Store.Notifications(), 0)
	markRead := notification.NewMarkReadUseCase(env.Store.Notifications())
	markAll := notification.NewMarkAllReadUseCase(env.Store.Notifications())

	result, err := list.Execute(ctx, me, 2)
	require.NoError(t, err)
	assert.Len(t, result.Notifications, 2)
	assert.Equal(t, 5, result.UnreadCount)
	assert.Equal(t, mine[4].ID, result.Notifications[0].ID)

	read, err := markRead.Execute(ctx, mine[0].ID, me)
	require.NoError(t, err)
	assert.True(t, read.Read)

	// Повторная отметка ничего не ломает.
	_, err = markRead.Execute(ctx, mine[0].ID, me)
	require.NoError(t, err)

	_, err = markRead.Execute(ctx, theirs[0].ID, me)
	assert.True(t, apperror.IsNotFound(err))

	updated, err := markAll.Execute(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 4, updated)

	updated, err = markAll.Execute(ctx, me)
	require.NoError(t, err)
	assert.Zero(t, updated)

	result, err = list.Execute(ctx, me, 0)
	require.NoError(t, err)
	assert.Len(t, result.Notifications, 5)
	assert.Zero(t, result.UnreadCount)

	result, err = list.Execute(ctx, other, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UnreadCount)
}

func TestInbox_StorageError(t *testing.T) {
	repo := &mockNotificationRepo{}
	userID := uuid.New()
	repo.On("ListByUser", mock.Anything, userID, notification.MaxInboxLimit).Return(nil, errors.New("boom"))

	_, err := notification.NewListInboxUseCase(repo, 20).Execute(context.Background(), userID, 500)
	require.Error(t, err)
	repo.AssertExpectations(t)
}
