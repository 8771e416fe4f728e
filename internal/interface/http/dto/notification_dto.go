package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
)

type NotificationResponse struct {
	ID        uuid.UUID               `json:"id"`
	UserID    uuid.UUID               `json:"userId"`
	Type      string                  `json:"type"`
	Message   string                  `json:"message"`
	Data      entity.NotificationData `json:"data"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"createdAt"`
}

func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Message:   n.Message,
		Data:      n.Data,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type InboxResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

func ToInboxResponse(list []*entity.Notification, unread int) InboxResponse {
	items := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, ToNotificationResponse(n))
	}
	return InboxResponse{Notifications: items, UnreadCount: unread}
}
