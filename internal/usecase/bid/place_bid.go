package bid

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/logger"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/notification"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
	"github.com/sirupsen/logrus"
)

type PlaceBidInput struct {
	GigID        uuid.UUID
	BidderID     uuid.UUID
	Amount       float64
	Proposal     string
	DeliveryTime int
}

// NewBidEvent описывает событие "new-bid" в топике заказа.
type NewBidEvent struct {
	BidID  uuid.UUID   `json:"bidId"`
	GigID  uuid.UUID   `json:"gigId"`
	Amount float64     `json:"amount"`
	Bidder EventBidder `json:"bidder"`
}

type EventBidder struct {
	Name string `json:"name"`
}

type PlaceBidUseCase struct {
	tx         repository.Transactor
	dispatcher *notification.Dispatcher
	resolver   *view.Resolver
	log        logrus.FieldLogger
}

func NewPlaceBidUseCase(tx repository.Transactor, dispatcher *notification.Dispatcher, resolver *view.Resolver, log logrus.FieldLogger) *PlaceBidUseCase {
	return &PlaceBidUseCase{tx: tx, dispatcher: dispatcher, resolver: resolver, log: logger.OrDefault(log)}
}

// Execute проверяет ставку в порядке: поля, заказ существует, заказ открыт,
// автор не владелец, ставки от автора ещё нет.
func (uc *PlaceBidUseCase) Execute(ctx context.Context, input PlaceBidInput) (*view.BidView, error) {
	bid, err := entity.NewBid(input.GigID, input.BidderID, input.Amount, input.Proposal, input.DeliveryTime)
	if err != nil {
		return nil, err
	}

	var gig *entity.Gig
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context, store repository.Store) error {
		// Разделяемая блокировка: принятие и удаление заказа ждут конца транзакции.
		g, err := store.Gigs().FindByIDForShare(ctx, input.GigID)
		if err != nil {
			return err
		}
		if !g.IsOpen() {
			return apperror.InvalidState("заказ не принимает ставки")
		}
		if g.IsOwnedBy(input.BidderID) {
			return apperror.Forbidden("нельзя делать ставку на собственный заказ")
		}

		existing, err := store.Bids().FindByGigAndBidder(ctx, g.ID, input.BidderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errDuplicateBid()
		}

		if err := store.Bids().Create(ctx, bid); err != nil {
			if errors.Is(err, repository.ErrBidAlreadyExists) {
				return errDuplicateBid()
			}
			return err
		}

		gig = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	fanCtx := context.WithoutCancel(ctx)
	bidder, err := uc.resolver.User(fanCtx, bid.BidderID)
	if err != nil {
		uc.log.WithError(err).WithField("bid_id", bid.ID).Warn("bid: не удалось загрузить автора ставки")
	}

	uc.announce(fanCtx, gig, bid, bidder)

	return &view.BidView{Bid: bid, Bidder: bidder}, nil
}

// announce уведомляет владельца и подписчиков заказа. Ошибки только логируются.
func (uc *PlaceBidUseCase) announce(ctx context.Context, gig *entity.Gig, bid *entity.Bid, bidder *entity.UserSummary) {
	message := fmt.Sprintf("New bid of %s on your gig \"%s\"", bid.Amount, gig.Title)
	_, err := uc.dispatcher.Notify(ctx, gig.OwnerID, valueobject.NotificationNewBid, message, entity.NotificationData{
		GigID:  entity.IDRef(gig.ID),
		BidID:  entity.IDRef(bid.ID),
		UserID: entity.IDRef(bid.BidderID),
	})
	if err != nil {
		uc.log.WithError(err).WithField("gig_id", gig.ID).Warn("bid: не удалось уведомить владельца заказа")
	}

	event := NewBidEvent{BidID: bid.ID, GigID: gig.ID, Amount: bid.Amount.Float64()}
	if bidder != nil {
		event.Bidder.Name = bidder.Name
	}
	uc.dispatcher.PublishToGig(gig.ID, notification.EventNewBid, event)
}

func errDuplicateBid() error {
	return apperror.Conflict("вы уже сделали ставку на этот заказ")
}
