package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
)

type notificationRow struct {
	notification *entity.Notification
	seq          uint64
}

type NotificationRepository struct {
	store *Store
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.notifMu.Lock()
	defer r.store.notifMu.Unlock()
	r.store.notifications[n.ID] = notificationRow{notification: n.Clone(), seq: r.store.nextSeq()}
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (*entity.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.notifMu.Lock()
	defer r.store.notifMu.Unlock()

	row, ok := r.store.notifications[id]
	if !ok || !row.notification.IsOwnedBy(userID) {
		return nil, apperror.ErrNotificationNotFound
	}
	updated := row.notification.Clone()
	updated.MarkRead()
	row.notification = updated
	r.store.notifications[id] = row
	return updated.Clone(), nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.store.notifMu.Lock()
	defer r.store.notifMu.Unlock()

	count := 0
	for id, row := range r.store.notifications {
		if !row.notification.IsOwnedBy(userID) || row.notification.Read {
			continue
		}
		updated := row.notification.Clone()
		updated.MarkRead()
		row.notification = updated
		r.store.notifications[id] = row
		count++
	}
	return count, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.notifMu.RLock()
	var rows []notificationRow
	for _, row := range r.store.notifications {
		if row.notification.IsOwnedBy(userID) {
			rows = append(rows, row)
		}
	}
	r.store.notifMu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.notification.CreatedAt.Equal(b.notification.CreatedAt) {
			return a.notification.CreatedAt.After(b.notification.CreatedAt)
		}
		return a.seq > b.seq
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	result := make([]*entity.Notification, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.notification.Clone())
	}
	return result, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.store.notifMu.RLock()
	defer r.store.notifMu.RUnlock()

	count := 0
	for _, row := range r.store.notifications {
		if row.notification.IsOwnedBy(userID) && !row.notification.Read {
			count++
		}
	}
	return count, nil
}
