package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = time.Second

func startHub(t *testing.T) *Hub {
	t.Helper()
	log, _ := test.NewNullLogger()
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// fakeClient создаёт клиента без сетевого соединения, только с буфером отправки.
func fakeClient(hub *Hub, buffer int) *Client {
	userID := uuid.New()
	return &Client{
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, buffer),
		log:    hub.log.WithField("user_id", userID),
	}
}

func registered(t *testing.T, hub *Hub, buffer int) *Client {
	t.Helper()
	c := fakeClient(hub, buffer)
	require.NoError(t, hub.Register(c))
	require.Eventually(t, func() bool {
		return hub.TopicSize(UserTopic(c.userID)) == 1
	}, waitFor, time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	case <-time.After(waitFor):
		t.Fatal("no message delivered")
		return Envelope{}
	}
}

func TestHub_RegisterJoinsUserTopic(t *testing.T) {
	hub := startHub(t)
	c := registered(t, hub, 4)

	assert.Equal(t, 1, hub.ClientCount())
	assert.Equal(t, []string{UserTopic(c.userID)}, hub.Topics(c))

	require.NoError(t, hub.PublishToUser(c.userID, "notification", map[string]string{"message": "hi"}))
	env := receive(t, c)
	assert.Equal(t, "notification", env.Type)
	assert.Equal(t, map[string]any{"message": "hi"}, env.Data)
}

func TestHub_JoinLeaveIdempotent(t *testing.T) {
	hub := startHub(t)
	c := registered(t, hub, 4)
	topic := GigTopic(uuid.New())

	hub.Join(c, topic)
	hub.Join(c, topic)
	require.Eventually(t, func() bool { return hub.TopicSize(topic) == 1 }, waitFor, time.Millisecond)
	assert.Len(t, hub.Topics(c), 2)

	hub.Leave(c, topic)
	hub.Leave(c, topic)
	require.Eventually(t, func() bool { return hub.TopicSize(topic) == 0 }, waitFor, time.Millisecond)
	assert.Equal(t, []string{UserTopic(c.userID)}, hub.Topics(c))
}

func TestHub_PublishReachesOnlySubscribers(t *testing.T) {
	hub := startHub(t)
	subscriber := registered(t, hub, 4)
	bystander := registered(t, hub, 4)
	gigID := uuid.New()

	hub.Join(subscriber, GigTopic(gigID))
	require.Eventually(t, func() bool { return hub.TopicSize(GigTopic(gigID)) == 1 }, waitFor, time.Millisecond)

	require.NoError(t, hub.PublishToGig(gigID, "new-bid", map[string]any{"amount": 100}))
	assert.Equal(t, "new-bid", receive(t, subscriber).Type)

	// Публикация в топик без подписчиков не ошибка.
	require.NoError(t, hub.PublishToGig(uuid.New(), "new-bid", nil))

	require.NoError(t, hub.PublishToUser(bystander.userID, "ping", nil))
	assert.Equal(t, "ping", receive(t, bystander).Type)
	assert.Empty(t, subscriber.send)
}

func TestHub_UnregisterDropsMemberships(t *testing.T) {
	hub := startHub(t)
	c := registered(t, hub, 4)
	topic := GigTopic(uuid.New())
	hub.Join(c, topic)
	require.Eventually(t, func() bool { return hub.TopicSize(topic) == 1 }, waitFor, time.Millisecond)

	hub.Unregister(c)
	hub.Unregister(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, waitFor, time.Millisecond)
	assert.Zero(t, hub.TopicSize(topic))
	assert.Zero(t, hub.TopicSize(UserTopic(c.userID)))

	_, ok := <-c.send
	assert.False(t, ok)

	// Подписка отключённого клиента игнорируется.
	hub.Join(c, topic)
	assert.Never(t, func() bool { return hub.TopicSize(topic) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestHub_SlowConsumerDisconnected(t *testing.T) {
	hub := startHub(t)
	slow := registered(t, hub, 1)
	healthy := registered(t, hub, 8)
	gigID := uuid.New()
	hub.Join(slow, GigTopic(gigID))
	hub.Join(healthy, GigTopic(gigID))
	require.Eventually(t, func() bool { return hub.TopicSize(GigTopic(gigID)) == 2 }, waitFor, time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, hub.PublishToGig(gigID, "new-bid", nil))
	}

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, waitFor, time.Millisecond)
	assert.Equal(t, 1, hub.TopicSize(GigTopic(gigID)))
	for i := 0; i < 3; i++ {
		assert.Equal(t, "new-bid", receive(t, healthy).Type)
	}
}

func TestHub_ClosedAfterStop(t *testing.T) {
	log, _ := test.NewNullLogger()
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := fakeClient(hub, 1)
	require.NoError(t, hub.Register(c))
	cancel()
	<-done

	_, ok := <-c.send
	assert.False(t, ok)
	assert.ErrorIs(t, hub.Register(fakeClient(hub, 1)), ErrHubClosed)
	assert.ErrorIs(t, hub.PublishToUser(uuid.New(), "x", nil), ErrHubClosed)
	hub.Unregister(c)
}

func TestHub_PublishUnmarshalable(t *testing.T) {
	hub := startHub(t)
	err := hub.Publish("user:x", "bad", make(chan int))
	assert.Error(t, err)
}

func TestTopics(t *testing.T) {
	id := uuid.MustParse("6f1c3b5e-8a5d-4c8e-9f1a-2b3c4d5e6f70")
	assert.Equal(t, "user:6f1c3b5e-8a5d-4c8e-9f1a-2b3c4d5e6f70", UserTopic(id))
	assert.Equal(t, "gig:6f1c3b5e-8a5d-4c8e-9f1a-2b3c4d5e6f70", GigTopic(id))
}
