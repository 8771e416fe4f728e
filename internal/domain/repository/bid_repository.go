package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
)

// ErrBidAlreadyExists возвращается при нарушении уникальности (заказ, исполнитель).
var ErrBidAlreadyExists = errors.New("bid already exists for this gig and bidder")

type BidRepository interface {
	Create(ctx context.Context, bid *entity.Bid) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	// FindByGigID возвращает ставки заказа, новые первыми.
	FindByGigID(ctx context.Context, gigID uuid.UUID) ([]*entity.Bid, error)
	FindByBidderID(ctx context.Context, bidderID uuid.UUID) ([]*entity.Bid, error)
	// FindByGigAndBidder возвращает nil, nil если ставки нет.
	FindByGigAndBidder(ctx context.Context, gigID, bidderID uuid.UUID) (*entity.Bid, error)
	CountByGigID(ctx context.Context, gigID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.BidStatus) error
	// RejectPending отклоняет все ожидающие ставки заказа, кроме exceptID.
	RejectPending(ctx context.Context, gigID, exceptID uuid.UUID) (int, error)
	DeleteByGigID(ctx context.Context, gigID uuid.UUID) (int, error)
}
