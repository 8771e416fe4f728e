package bid

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const (
	DefaultAcceptTimeout = 5 * time.Second

	AcceptedMessage = "Bid accepted successfully"
)

type AcceptBidInput struct {
	GigID    uuid.UUID
	BidID    uuid.UUID
	CallerID uuid.UUID
}

type AcceptBidResult struct {
	Message string
	Gig     *view.GigView
}

// GigHiredEvent описывает событие "gig-hired" в топике заказа.
type GigHiredEvent struct {
	GigID          uuid.UUID `json:"gigId"`
	FreelancerID   uuid.UUID `json:"freelancerId"`
	FreelancerName string    `json:"freelancerName"`
}

// AcceptBidUseCase атомарно принимает ставку: ставка принята, остальные
// ожидающие отклонены, заказ переходит в работу. Уведомления рассылаются
// после фиксации и на результат не влияют.
type AcceptBidUseCase struct {
	tx         repository.Transactor
	bidRepo    repository.BidRepository
	dispatcher *notification.Dispatcher
	resolver   *view.Resolver
	timeout    time.Duration
	log        logrus.FieldLogger
}

func NewAcceptBidUseCase(
	tx repository.Transactor,
	bidRepo repository.BidRepository,
	dispatcher *notification.Dispatcher,
	resolver *view.Resolver,
	timeout time.Duration,
	log logrus.FieldLogger,
) *AcceptBidUseCase {
	if timeout <= 0 {
		timeout = DefaultAcceptTimeout
	}
	return &AcceptBidUseCase{
		tx:         tx,
		bidRepo:    bidRepo,
		dispatcher: dispatcher,
		resolver:   resolver,
		timeout:    timeout,
		log:        logger.OrDefault(log),
	}
}

func (uc *AcceptBidUseCase) Execute(ctx context.Context, input AcceptBidInput) (*AcceptBidResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	var gig *entity.Gig
	var accepted *entity.Bid

	err := uc.tx.WithinTransaction(txCtx, func(ctx context.Context, store repository.Store) error {
		g, err := store.Gigs().FindByIDForUpdate(ctx, input.GigID)
		if err != nil {
			return err
		}
		if !g.IsOwnedBy(input.CallerID) {
			return apperror.Forbidden("только владелец заказа может принимать ставки")
		}
		if !g.IsOpen() {
			return apperror.InvalidState("заказ не открыт для найма")
		}

		b, err := store.Bids().FindByIDForUpdate(ctx, input.BidID)
		if err != nil {
			return err
		}
		if b.GigID != g.ID {
			return apperror.ErrBidNotFound
		}
		if err := b.Accept(); err != nil {
			return err
		}

		if err := store.Bids().UpdateStatus(ctx, b.ID, valueobject.BidStatusAccepted); err != nil {
			return err
		}
		if _, err := store.Bids().RejectPending(ctx, g.ID, b.ID); err != nil {
			return err
		}
		if err := g.Hire(b); err != nil {
			return err
		}
		if err := store.Gigs().Update(ctx, g); err != nil {
			return err
		}

		gig, accepted = g, b
		return nil
	})
	if err != nil {
		return nil, classifyTxError(txCtx, err)
	}

	uc.log.WithFields(logrus.Fields{
		"gig_id":        gig.ID,
		"bid_id":        accepted.ID,
		"freelancer_id": accepted.BidderID,
	}).Info("ставка принята")

	// Рассылка не зависит от отмены запроса: транзакция уже зафиксирована.
	fanCtx := context.WithoutCancel(ctx)
	freelancer := uc.fanOut(fanCtx, gig, accepted)

	result := &view.GigView{Gig: gig, HiredFreelancer: freelancer}
	if v, err := uc.resolver.Gig(fanCtx, gig); err != nil {
		uc.log.WithError(err).WithField("gig_id", gig.ID).Warn("bid: не удалось загрузить участников заказа")
	} else {
		result = v
	}

	return &AcceptBidResult{Message: AcceptedMessage, Gig: result}, nil
}

// fanOut уведомляет победителя, отклонённых исполнителей и подписчиков заказа.
// Отклонённые ставки перечитываются после фиксации, поэтому доставка
// не гарантирует ровно один раз.
func (uc *AcceptBidUseCase) fanOut(ctx context.Context, gig *entity.Gig, accepted *entity.Bid) *entity.UserSummary {
	log := uc.log.WithField("gig_id", gig.ID)

	_, err := uc.dispatcher.Notify(ctx, accepted.BidderID, valueobject.NotificationBidAccepted,
		fmt.Sprintf("Congratulations! Your bid on \"%s\" has been accepted!", gig.Title),
		entity.NotificationData{GigID: entity.IDRef(gig.ID), BidID: entity.IDRef(accepted.ID)},
	)
	if err != nil {
		log.WithError(err).Warn("bid: не удалось уведомить принятого исполнителя")
	}

	bids, err := uc.bidRepo.FindByGigID(ctx, gig.ID)
	if err != nil {
		log.WithError(err).Warn("bid: не удалось перечитать ставки для уведомлений")
	}
	for _, b := range bids {
		if b.ID == accepted.ID || b.BidderID == accepted.BidderID || b.Status != valueobject.BidStatusRejected {
			continue
		}
		_, err := uc.dispatcher.Notify(ctx, b.BidderID, valueobject.NotificationBidRejected,
			fmt.Sprintf("Your bid on \"%s\" was not selected.", gig.Title),
			entity.NotificationData{GigID: entity.IDRef(gig.ID), BidID: entity.IDRef(b.ID)},
		)
		if err != nil {
			log.WithError(err).WithField("bid_id", b.ID).Warn("bid: не удалось уведомить отклонённого исполнителя")
		}
	}

	freelancer, err := uc.resolver.User(ctx, accepted.BidderID)
	if err != nil {
		log.WithError(err).Warn("bid: не удалось загрузить исполнителя")
	}
	event := GigHiredEvent{GigID: gig.ID, FreelancerID: accepted.BidderID}
	if freelancer != nil {
		event.FreelancerName = freelancer.Name
	}
	uc.dispatcher.PublishToGig(gig.ID, notification.EventGigHired, event)

	return freelancer
}

// classifyTxError оставляет бизнес-ошибки как есть, истечение срока
// транзакции превращает в TIMEOUT, остальное в DATABASE_ERROR.
func classifyTxError(txCtx context.Context, err error) error {
	if apperror.IsBusiness(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(txCtx.Err(), context.DeadlineExceeded) {
		return apperror.Timeout(err, "время ожидания транзакции истекло")
	}
	if apperror.CodeOf(err) != "" {
		return err
	}
	return apperror.Storage(err, "не удалось принять ставку")
}
