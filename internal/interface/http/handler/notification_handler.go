package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigflow-backend/internal/interface/http/dto"
	"github.com/ignatzorin/gigflow-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/notification"
)

type NotificationHandler struct {
	listInboxUC   *notification.ListInboxUseCase
	markReadUC    *notification.MarkReadUseCase
	markAllReadUC *notification.MarkAllReadUseCase
}

func NewNotificationHandler(
	listInboxUC *notification.ListInboxUseCase,
	markReadUC *notification.MarkReadUseCase,
	markAllReadUC *notification.MarkAllReadUseCase,
) *NotificationHandler {
	return &NotificationHandler{
		listInboxUC:   listInboxUC,
		markReadUC:    markReadUC,
		markAllReadUC: markAllReadUC,
	}
}

// ListNotifications обрабатывает GET /api/users/me/notifications?limit=N.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.listInboxUC.Execute(c.Request.Context(), userID, parseIntQuery(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToInboxResponse(result.Notifications, result.UnreadCount))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "некорректный ID уведомления")
	if !ok {
		return
	}

	n, err := h.markReadUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"notification": dto.ToNotificationResponse(n)})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	updated, err := h.markAllReadUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}
