package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
)

func TestNewNotification(t *testing.T) {
	userID := uuid.New()
	n, err := entity.NewNotification(userID, valueobject.NotificationNewBid, "New bid", entity.NotificationData{})
	require.NoError(t, err)

	assert.False(t, n.Read)
	assert.True(t, n.IsOwnedBy(userID))

	n.MarkRead()
	assert.True(t, n.Read)
}

func TestNewNotification_Validation(t *testing.T) {
	_, err := entity.NewNotification(uuid.Nil, valueobject.NotificationNewBid, "msg", entity.NotificationData{})
	assert.True(t, apperror.IsValidation(err))

	_, err = entity.NewNotification(uuid.New(), "unknown", "msg", entity.NotificationData{})
	assert.True(t, apperror.IsValidation(err))

	_, err = entity.NewNotification(uuid.New(), valueobject.NotificationBidRejected, "   ", entity.NotificationData{})
	assert.True(t, apperror.IsValidation(err))
}

func TestNotificationData_OmitsEmptyRefs(t *testing.T) {
	gigID := uuid.New()
	raw, err := json.Marshal(entity.NotificationData{GigID: entity.IDRef(gigID)})
	require.NoError(t, err)

	assert.JSONEq(t, `{"gigId":"`+gigID.String()+`"}`, string(raw))
}
