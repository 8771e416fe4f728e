package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      valueobject.NotificationType
	Message   string
	Data      NotificationData
	Read      bool
	CreatedAt time.Time
}

// NotificationData хранит ссылки на связанные сущности.
type NotificationData struct {
	GigID  *uuid.UUID `json:"gigId,omitempty"`
	BidID  *uuid.UUID `json:"bidId,omitempty"`
	UserID *uuid.UUID `json:"userId,omitempty"`
}

func NewNotification(userID uuid.UUID, notificationType valueobject.NotificationType, message string, data NotificationData) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, apperror.Validation("получатель уведомления обязателен")
	}
	if !notificationType.IsValid() {
		return nil, apperror.Validation("некорректный тип уведомления")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.Validation("текст уведомления обязателен")
	}

	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notificationType,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}, nil
}

func (n *Notification) MarkRead() {
	n.Read = true
}

func (n *Notification) IsOwnedBy(userID uuid.UUID) bool {
	return n.UserID == userID
}

func (n *Notification) Clone() *Notification {
	c := *n
	return &c
}

// IDRef возвращает указатель на копию id для NotificationData.
func IDRef(id uuid.UUID) *uuid.UUID { return &id }
