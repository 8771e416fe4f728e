package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/logger"
	"github.com/sirupsen/logrus"
)

type DeleteGigUseCase struct {
	tx  repository.Transactor
	log logrus.FieldLogger
}

func NewDeleteGigUseCase(tx repository.Transactor, log logrus.FieldLogger) *DeleteGigUseCase {
	return &DeleteGigUseCase{tx: tx, log: logger.OrDefault(log)}
}

// Execute удаляет заказ вместе со всеми ставками в одной транзакции.
func (uc *DeleteGigUseCase) Execute(ctx context.Context, gigID, callerID uuid.UUID) error {
	removed := 0
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context, store repository.Store) error {
		gig, err := lockOwnedGig(ctx, store, gigID, callerID)
		if err != nil {
			return err
		}
		if err := gig.CanBeDeleted(); err != nil {
			return err
		}

		removed, err = store.Bids().DeleteByGigID(ctx, gig.ID)
		if err != nil {
			return err
		}
		return store.Gigs().Delete(ctx, gig.ID)
	})
	if err != nil {
		return err
	}

	uc.log.WithFields(logrus.Fields{
		"gig_id":       gigID,
		"bids_removed": removed,
	}).Info("заказ удалён")
	return nil
}
