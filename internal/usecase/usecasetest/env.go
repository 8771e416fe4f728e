// Package usecasetest содержит общее окружение для тестов use case'ов:
// хранилище в памяти, записывающий паблишер и фабрики сущностей.
package usecasetest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/notification"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
)

// ErrPublish возвращает RecordingPublisher в режиме FailWith.
var ErrPublish = errors.New("publish failed")

type Event struct {
	Topic uuid.UUID
	ToGig bool
	Name  string
	Data  any
}

// RecordingPublisher запоминает опубликованные события.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event

	FailWith error
	Panic    bool
}

func (p *RecordingPublisher) PublishToUser(userID uuid.UUID, event string, data any) error {
	return p.record(Event{Topic: userID, Name: event, Data: data})
}

func (p *RecordingPublisher) PublishToGig(gigID uuid.UUID, event string, data any) error {
	return p.record(Event{Topic: gigID, ToGig: true, Name: event, Data: data})
}

func (p *RecordingPublisher) record(e Event) error {
	if p.Panic {
		panic("publisher exploded")
	}
	if p.FailWith != nil {
		return p.FailWith
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *RecordingPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// GigEvents возвращает события топика заказа с заданным именем.
func (p *RecordingPublisher) GigEvents(gigID uuid.UUID, name string) []Event {
	var result []Event
	for _, e := range p.Events() {
		if e.ToGig && e.Topic == gigID && e.Name == name {
			result = append(result, e)
		}
	}
	return result
}

type Env struct {
	Store      *memory.Store
	Publisher  *RecordingPublisher
	Dispatcher *notification.Dispatcher
	Resolver   *view.Resolver
	Log        *logrus.Logger
	LogHook    *test.Hook
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	store := memory.NewStore()
	publisher := &RecordingPublisher{}
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	return &Env{
		Store:      store,
		Publisher:  publisher,
		Dispatcher: notification.NewDispatcher(store.Notifications(), publisher, log),
		Resolver:   view.NewResolver(store.Users()),
		Log:        log,
		LogHook:    hook,
	}
}

func (e *Env) User(t *testing.T) *entity.User {
	t.Helper()
	name := gofakeit.FirstName() + " " + gofakeit.LastName()
	email := strings.ToLower(gofakeit.LetterN(12)) + "@example.com"
	user, err := entity.NewUser(name, email, "hash")
	require.NoError(t, err)
	require.NoError(t, e.Store.Users().Create(context.Background(), user))
	return user
}

// GigFields возвращает валидные поля заказа.
func GigFields(budget float64) entity.GigFields {
	return entity.GigFields{
		Title:       "Build a " + gofakeit.Word() + " dashboard",
		Description: "We need a small internal tool. " + gofakeit.Sentence(12),
		Budget:      budget,
		Deadline:    time.Now().Add(30 * 24 * time.Hour),
		Skills:      []string{"React"},
		Category:    string(valueobject.CategoryWebDevelopment),
	}
}

func (e *Env) Gig(t *testing.T, ownerID uuid.UUID) *entity.Gig {
	t.Helper()
	gig, err := entity.NewGig(ownerID, GigFields(500))
	require.NoError(t, err)
	require.NoError(t, e.Store.Gigs().Create(context.Background(), gig))
	return gig
}

func Proposal() string {
	return strings.Repeat("x", 20)
}

func (e *Env) Bid(t *testing.T, gigID, bidderID uuid.UUID, amount float64) *entity.Bid {
	t.Helper()
	bid, err := entity.NewBid(gigID, bidderID, amount, Proposal(), 7)
	require.NoError(t, err)
	require.NoError(t, e.Store.Bids().Create(context.Background(), bid))
	return bid
}

// Notifications возвращает уведомления пользователя заданного типа.
func (e *Env) Notifications(t *testing.T, userID uuid.UUID, typ valueobject.NotificationType) []*entity.Notification {
	t.Helper()
	all, err := e.Store.Notifications().ListByUser(context.Background(), userID, 0)
	require.NoError(t, err)
	var result []*entity.Notification
	for _, n := range all {
		if n.Type == typ {
			result = append(result, n)
		}
	}
	return result
}
