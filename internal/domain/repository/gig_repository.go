package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
)

type GigRepository interface {
	Create(ctx context.Context, gig *entity.Gig) error
	Update(ctx context.Context, gig *entity.Gig) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
	// FindByIDForUpdate блокирует строку заказа до конца транзакции.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
	// FindByIDForShare берёт разделяемую блокировку: параллельные ставки
	// допускаются, принятие и удаление ждут.
	FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Gig, error)
	List(ctx context.Context, filter GigFilter) ([]*entity.Gig, int, error)
}

type GigFilter struct {
	Status    valueobject.GigStatus
	Category  valueobject.Category
	MinBudget *float64
	MaxBudget *float64
	Search    string
	Limit     int
	Offset    int
}
