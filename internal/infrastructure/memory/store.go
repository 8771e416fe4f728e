// Package memory реализует хранилище в памяти процесса для разработки и тестов.
// Транзакции сериализуются, изменения применяются только при фиксации.
package memory

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
)

type gigRow struct {
	gig *entity.Gig
	seq uint64
}

type bidRow struct {
	bid *entity.Bid
	seq uint64
}

// tables хранит заказы и ставки. Для транзакции это копия с отметками изменённых ключей.
type tables struct {
	gigs      map[uuid.UUID]gigRow
	bids      map[uuid.UUID]bidRow
	dirtyGigs map[uuid.UUID]struct{}
	dirtyBids map[uuid.UUID]struct{}
}

func (t *tables) touchGig(id uuid.UUID) {
	if t.dirtyGigs != nil {
		t.dirtyGigs[id] = struct{}{}
	}
}

func (t *tables) touchBid(id uuid.UUID) {
	if t.dirtyBids != nil {
		t.dirtyBids[id] = struct{}{}
	}
}

type Store struct {
	// Единственный слот транзакции, захват учитывает ctx.
	txSlot chan struct{}
	seq    atomic.Uint64

	mu   sync.RWMutex
	data tables

	notifMu       sync.RWMutex
	notifications map[uuid.UUID]notificationRow

	userMu sync.RWMutex
	users  map[uuid.UUID]*entity.User
}

func NewStore() *Store {
	return &Store{
		txSlot: make(chan struct{}, 1),
		data: tables{
			gigs: make(map[uuid.UUID]gigRow),
			bids: make(map[uuid.UUID]bidRow),
		},
		notifications: make(map[uuid.UUID]notificationRow),
		users:         make(map[uuid.UUID]*entity.User),
	}
}

func (s *Store) nextSeq() uint64 {
	return s.seq.Add(1)
}

// Gigs возвращает репозиторий заказов вне транзакции.
func (s *Store) Gigs() repository.GigRepository {
	return &GigRepository{view: view{store: s}}
}

func (s *Store) Bids() repository.BidRepository {
	return &BidRepository{view: view{store: s}}
}

func (s *Store) Notifications() repository.NotificationRepository {
	return &NotificationRepository{store: s}
}

func (s *Store) Users() repository.UserRepository {
	return &UserRepository{store: s}
}

// Ping всегда успешен: хранилище живёт в памяти процесса.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// WithinTransaction выполняет fn на копии данных. Изменения применяются
// только если fn вернула nil и контекст ещё не истёк.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store repository.Store) error) error {
	select {
	case s.txSlot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.txSlot }()

	s.mu.RLock()
	tx := &tables{
		gigs:      maps.Clone(s.data.gigs),
		bids:      maps.Clone(s.data.bids),
		dirtyGigs: make(map[uuid.UUID]struct{}),
		dirtyBids: make(map[uuid.UUID]struct{}),
	}
	s.mu.RUnlock()

	if err := fn(ctx, &txStore{view: view{store: s, tx: tx}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range tx.dirtyGigs {
		if row, ok := tx.gigs[id]; ok {
			s.data.gigs[id] = row
		} else {
			delete(s.data.gigs, id)
		}
	}
	for id := range tx.dirtyBids {
		if row, ok := tx.bids[id]; ok {
			s.data.bids[id] = row
		} else {
			delete(s.data.bids, id)
		}
	}
	return nil
}

type txStore struct {
	view view
}

func (t *txStore) Gigs() repository.GigRepository {
	return &GigRepository{view: t.view}
}

func (t *txStore) Bids() repository.BidRepository {
	return &BidRepository{view: t.view}
}

// view направляет чтение и запись либо в копию транзакции, либо в общие
// таблицы под мьютексом.
type view struct {
	store *Store
	tx    *tables
}

func (v view) read(fn func(t *tables)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	fn(&v.store.data)
}

func (v view) write(fn func(t *tables) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(&v.store.data)
}
