package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gigflow-backend/internal/config"
	"github.com/ignatzorin/gigflow-backend/internal/db"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/gigflow-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/gigflow-backend/internal/interface/http/handler"
)

// Backend объединяет репозитории одного хранилища.
type Backend struct {
	Name          string
	Tx            repository.Transactor
	Gigs          repository.GigRepository
	Bids          repository.BidRepository
	Notifications repository.NotificationRepository
	Users         repository.UserRepository
	Pinger        handler.Pinger

	close func() error
}

func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func NewMemoryBackend() *Backend {
	store := memory.NewStore()
	return &Backend{
		Name:          config.StorageMemory,
		Tx:            store,
		Gigs:          store.Gigs(),
		Bids:          store.Bids(),
		Notifications: store.Notifications(),
		Users:         store.Users(),
		Pinger:        store,
	}
}

// NewPostgresBackend подключается к базе и при migrate=true применяет миграции.
func NewPostgresBackend(ctx context.Context, dsn string, migrate bool) (*Backend, error) {
	conn, err := db.NewPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := db.RunMigrations(conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	return newSQLBackend(conn), nil
}

func newSQLBackend(conn *sqlx.DB) *Backend {
	tx := persistence.NewTransactor(conn)
	return &Backend{
		Name:          config.StoragePostgres,
		Tx:            tx,
		Gigs:          persistence.NewGigRepositoryAdapter(conn),
		Bids:          persistence.NewBidRepositoryAdapter(conn),
		Notifications: persistence.NewNotificationRepositoryAdapter(conn),
		Users:         persistence.NewUserRepositoryAdapter(conn),
		Pinger:        tx,
		close:         conn.Close,
	}
}

// OpenBackend выбирает хранилище по cfg.StorageDriver.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return NewMemoryBackend(), nil
	case config.StoragePostgres:
		return NewPostgresBackend(ctx, cfg.DatabaseURL, cfg.MigrateOnStart)
	default:
		return nil, fmt.Errorf("app: неизвестное хранилище %q", cfg.StorageDriver)
	}
}
