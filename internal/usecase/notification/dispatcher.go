package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/logger"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// Имена realtime-событий.
const (
	EventNotification = "notification"
	EventNewBid       = "new-bid"
	EventGigHired     = "gig-hired"
)

// Publisher доставляет события подписчикам топиков. Доставка не гарантируется.
type Publisher interface {
	PublishToUser(userID uuid.UUID, event string, data any) error
	PublishToGig(gigID uuid.UUID, event string, data any) error
}

// EventPayload содержит данные события "notification" в личном топике.
type EventPayload struct {
	ID        uuid.UUID                    `json:"id"`
	Type      valueobject.NotificationType `json:"type"`
	Message   string                       `json:"message"`
	Data      entity.NotificationData      `json:"data"`
	CreatedAt time.Time                    `json:"createdAt"`
}

func NewEventPayload(n *entity.Notification) EventPayload {
	return EventPayload{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		Data:      n.Data,
		CreatedAt: n.CreatedAt,
	}
}

// Dispatcher сохраняет уведомление, затем публикует его получателю.
// Сохранение обязательно, публикация выполняется по возможности.
type Dispatcher struct {
	repo      repository.NotificationRepository
	publisher Publisher
	log       logrus.FieldLogger
}

// NewDispatcher создаёт диспетчер. publisher может быть nil: тогда
// уведомления только сохраняются.
func NewDispatcher(repo repository.NotificationRepository, publisher Publisher, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{repo: repo, publisher: publisher, log: logger.OrDefault(log)}
}

// Notify сохраняет уведомление и публикует его в топик user:<recipientID>.
// Ошибка возвращается только если уведомление не сохранилось.
func (d *Dispatcher) Notify(ctx context.Context, recipientID uuid.UUID, notificationType valueobject.NotificationType, message string, data entity.NotificationData) (*entity.Notification, error) {
	n, err := entity.NewNotification(recipientID, notificationType, message, data)
	if err != nil {
		return nil, err
	}

	if err := d.repo.Create(ctx, n); err != nil {
		return nil, apperror.Storage(err, "не удалось сохранить уведомление")
	}

	d.publish(func() error {
		return d.publisher.PublishToUser(n.UserID, EventNotification, NewEventPayload(n))
	}, logrus.Fields{"user_id": n.UserID, "notification_id": n.ID})

	return n, nil
}

// PublishToGig отправляет событие подписчикам заказа без сохранения.
func (d *Dispatcher) PublishToGig(gigID uuid.UUID, event string, data any) {
	d.publish(func() error {
		return d.publisher.PublishToGig(gigID, event, data)
	}, logrus.Fields{"gig_id": gigID, "event": event})
}

func (d *Dispatcher) publish(send func() error, fields logrus.Fields) {
	if d.publisher == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.WithFields(fields).Warnf("notification: panic при публикации: %v", r)
		}
	}()

	if err := send(); err != nil {
		d.log.WithFields(fields).WithError(err).Debug("notification: событие не доставлено")
	}
}
