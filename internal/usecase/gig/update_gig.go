package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
)

type UpdateGigInput struct {
	GigID    uuid.UUID
	CallerID uuid.UUID
	Patch    entity.GigPatch
}

type UpdateGigUseCase struct {
	tx       repository.Transactor
	resolver *view.Resolver
}

func NewUpdateGigUseCase(tx repository.Transactor, resolver *view.Resolver) *UpdateGigUseCase {
	return &UpdateGigUseCase{tx: tx, resolver: resolver}
}

func (uc *UpdateGigUseCase) Execute(ctx context.Context, input UpdateGigInput) (*view.GigView, error) {
	var updated *entity.Gig

	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context, store repository.Store) error {
		gig, err := lockOwnedGig(ctx, store, input.GigID, input.CallerID)
		if err != nil {
			return err
		}
		if !gig.IsOpen() {
			return apperror.InvalidState("редактировать можно только открытый заказ")
		}

		if err := gig.ApplyPatch(input.Patch); err != nil {
			return err
		}
		if err := store.Gigs().Update(ctx, gig); err != nil {
			return err
		}

		updated = gig
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.resolver.Gig(ctx, updated)
}

// lockOwnedGig блокирует заказ и проверяет владельца: NotFound, затем Forbidden.
func lockOwnedGig(ctx context.Context, store repository.Store, gigID, callerID uuid.UUID) (*entity.Gig, error) {
	gig, err := store.Gigs().FindByIDForUpdate(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if !gig.IsOwnedBy(callerID) {
		return nil, apperror.Forbidden("только владелец может изменять заказ")
	}
	return gig, nil
}
