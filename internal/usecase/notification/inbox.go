package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
)

const (
	DefaultInboxLimit = 50
	MaxInboxLimit     = 100
)

type InboxResult struct {
	Notifications []*entity.Notification
	// UnreadCount считается по всем уведомлениям, а не по странице.
	UnreadCount int
}

type ListInboxUseCase struct {
	repo         repository.NotificationRepository
	defaultLimit int
}

func NewListInboxUseCase(repo repository.NotificationRepository, defaultLimit int) *ListInboxUseCase {
	if defaultLimit <= 0 || defaultLimit > MaxInboxLimit {
		defaultLimit = DefaultInboxLimit
	}
	return &ListInboxUseCase{repo: repo, defaultLimit: defaultLimit}
}

func (uc *ListInboxUseCase) Execute(ctx context.Context, userID uuid.UUID, limit int) (*InboxResult, error) {
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	if limit > MaxInboxLimit {
		limit = MaxInboxLimit
	}

	notifications, err := uc.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	unread, err := uc.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &InboxResult{Notifications: notifications, UnreadCount: unread}, nil
}

type MarkReadUseCase struct {
	repo repository.NotificationRepository
}

func NewMarkReadUseCase(repo repository.NotificationRepository) *MarkReadUseCase {
	return &MarkReadUseCase{repo: repo}
}

// Execute отмечает уведомление прочитанным. Чужое уведомление неотличимо от отсутствующего.
func (uc *MarkReadUseCase) Execute(ctx context.Context, id, userID uuid.UUID) (*entity.Notification, error) {
	return uc.repo.MarkRead(ctx, id, userID)
}

type MarkAllReadUseCase struct {
	repo repository.NotificationRepository
}

func NewMarkAllReadUseCase(repo repository.NotificationRepository) *MarkAllReadUseCase {
	return &MarkAllReadUseCase{repo: repo}
}

// Execute возвращает число уведомлений, которые были непрочитанными.
func (uc *MarkAllReadUseCase) Execute(ctx context.Context, userID uuid.UUID) (int, error) {
	return uc.repo.MarkAllRead(ctx, userID)
}
