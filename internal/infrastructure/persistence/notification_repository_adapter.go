package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

const notificationColumns = `id, user_id, type, message, data, is_read, created_at`

type NotificationRepositoryAdapter struct {
	db *sqlx.DB
}

func NewNotificationRepositoryAdapter(db *sqlx.DB) *NotificationRepositoryAdapter {
	return &NotificationRepositoryAdapter{db: db}
}

func (r *NotificationRepositoryAdapter) Create(ctx context.Context, n *entity.Notification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return apperror.Storage(err, "не удалось сериализовать данные уведомления")
	}

	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		string(n.Type),
		n.Message,
		types.JSONText(data),
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return apperror.Storage(err, "не удалось сохранить уведомление")
	}
	return nil
}

func (r *NotificationRepositoryAdapter) MarkRead(ctx context.Context, id, userID uuid.UUID) (*entity.Notification, error) {
	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING ` + notificationColumns

	var row notificationRow
	if err := r.db.GetContext(ctx, &row, query, id, userID); err != nil {
		return nil, wrapQueryError(err, apperror.ErrNotificationNotFound, "не удалось обновить уведомление")
	}
	return row.toEntity()
}

func (r *NotificationRepositoryAdapter) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, apperror.Storage(err, "не удалось обновить уведомления")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperror.Storage(err, "не удалось проверить результат запроса")
	}
	return int(rows), nil
}

func (r *NotificationRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, apperror.Storage(err, "не удалось получить уведомления")
	}

	result := make([]*entity.Notification, 0, len(rows))
	for i := range rows {
		n, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

func (r *NotificationRepositoryAdapter) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, apperror.Storage(err, "не удалось посчитать уведомления")
	}
	return count, nil
}

type notificationRow struct {
	ID        uuid.UUID      `db:"id"`
	UserID    uuid.UUID      `db:"user_id"`
	Type      string         `db:"type"`
	Message   string         `db:"message"`
	Data      types.JSONText `db:"data"`
	IsRead    bool           `db:"is_read"`
	CreatedAt time.Time      `db:"created_at"`
}

func (n *notificationRow) toEntity() (*entity.Notification, error) {
	var data entity.NotificationData
	if len(n.Data) > 0 {
		if err := n.Data.Unmarshal(&data); err != nil {
			return nil, apperror.Storage(err, "некорректные данные уведомления")
		}
	}
	return &entity.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      valueobject.NotificationType(n.Type),
		Message:   n.Message,
		Data:      data,
		Read:      n.IsRead,
		CreatedAt: n.CreatedAt,
	}, nil
}
