package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

type Transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

// Ping проверяет доступность базы (используется health check).
func (t *Transactor) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

// WithinTransaction открывает транзакцию READ COMMITTED. Согласованность
// обеспечивают блокировки строк (FOR UPDATE / FOR SHARE) внутри fn.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store repository.Store) error) error {
	tx, err := t.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return apperror.Storage(err, "не удалось начать транзакцию")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, &txStore{tx: tx}); err != nil {
		// При отмене ctx database/sql уже откатил транзакцию сам.
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Storage(err, "не удалось зафиксировать транзакцию")
	}
	return nil
}

type txStore struct {
	tx *sqlx.Tx
}

func (s *txStore) Gigs() repository.GigRepository {
	return &GigRepositoryAdapter{db: s.tx}
}

func (s *txStore) Bids() repository.BidRepository {
	return &BidRepositoryAdapter{db: s.tx}
}
