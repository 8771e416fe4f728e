package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
)

type CancelGigUseCase struct {
	tx       repository.Transactor
	resolver *view.Resolver
}

func NewCancelGigUseCase(tx repository.Transactor, resolver *view.Resolver) *CancelGigUseCase {
	return &CancelGigUseCase{tx: tx, resolver: resolver}
}

// Execute закрывает открытый заказ. Ожидающие ставки остаются как есть,
// но новые ставки и принятие уже невозможны.
func (uc *CancelGigUseCase) Execute(ctx context.Context, gigID, callerID uuid.UUID) (*view.GigView, error) {
	var cancelled *entity.Gig

	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context, store repository.Store) error {
		gig, err := lockOwnedGig(ctx, store, gigID, callerID)
		if err != nil {
			return err
		}
		if err := gig.Cancel(); err != nil {
			return err
		}
		if err := store.Gigs().Update(ctx, gig); err != nil {
			return err
		}
		cancelled = gig
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.resolver.Gig(ctx, cancelled)
}
