package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	// MarkRead возвращает ErrNotificationNotFound, если уведомление
	// не существует или принадлежит другому пользователю.
	MarkRead(ctx context.Context, id, userID uuid.UUID) (*entity.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}
