package ws

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	userTopicPrefix = "user:"
	gigTopicPrefix  = "gig:"
)

// UserTopic возвращает личный канал пользователя, подписка на него автоматическая.
func UserTopic(userID uuid.UUID) string {
	return userTopicPrefix + userID.String()
}

// GigTopic возвращает канал событий заказа, подписка по запросу клиента.
func GigTopic(gigID uuid.UUID) string {
	return gigTopicPrefix + gigID.String()
}

// Кадры клиента.
const (
	frameJoinGig  = "join-gig"
	frameLeaveGig = "leave-gig"
)

// Envelope задаёт формат кадра в обе стороны: {"type": ..., "data": ...}.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type inboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
