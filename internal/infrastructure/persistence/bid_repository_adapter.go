package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

const (
	bidColumns = `id, gig_id, bidder_id, amount, proposal, delivery_time, status, created_at, updated_at`

	bidsGigBidderConstraint = "bids_gig_id_bidder_id_key"
)

type BidRepositoryAdapter struct {
	db sqlx.ExtContext
}

func NewBidRepositoryAdapter(db *sqlx.DB) *BidRepositoryAdapter {
	return &BidRepositoryAdapter{db: db}
}

func (r *BidRepositoryAdapter) Create(ctx context.Context, bid *entity.Bid) error {
	query := `
		INSERT INTO bids (` + bidColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		bid.ID,
		bid.GigID,
		bid.BidderID,
		bid.Amount.Float64(),
		bid.Proposal,
		bid.DeliveryTime,
		string(bid.Status),
		bid.CreatedAt,
		bid.UpdatedAt,
	)
	if isUniqueViolation(err, bidsGigBidderConstraint) {
		return repository.ErrBidAlreadyExists
	}
	if err != nil {
		return apperror.Storage(err, "не удалось создать ставку")
	}
	return nil
}

func (r *BidRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return r.findOne(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, id)
}

func (r *BidRepositoryAdapter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return r.findOne(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1 FOR UPDATE`, id)
}

func (r *BidRepositoryAdapter) FindByGigID(ctx context.Context, gigID uuid.UUID) ([]*entity.Bid, error) {
	return r.findMany(ctx, `SELECT `+bidColumns+` FROM bids WHERE gig_id = $1 ORDER BY created_at DESC, id DESC`, gigID)
}

func (r *BidRepositoryAdapter) FindByBidderID(ctx context.Context, bidderID uuid.UUID) ([]*entity.Bid, error) {
	return r.findMany(ctx, `SELECT `+bidColumns+` FROM bids WHERE bidder_id = $1 ORDER BY created_at DESC, id DESC`, bidderID)
}

func (r *BidRepositoryAdapter) FindByGigAndBidder(ctx context.Context, gigID, bidderID uuid.UUID) (*entity.Bid, error) {
	bids, err := r.findMany(ctx, `SELECT `+bidColumns+` FROM bids WHERE gig_id = $1 AND bidder_id = $2`, gigID, bidderID)
	if err != nil || len(bids) == 0 {
		return nil, err
	}
	return bids[0], nil
}

func (r *BidRepositoryAdapter) CountByGigID(ctx context.Context, gigID uuid.UUID) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM bids WHERE gig_id = $1`, gigID); err != nil {
		return 0, apperror.Storage(err, "не удалось посчитать ставки")
	}
	return count, nil
}

func (r *BidRepositoryAdapter) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.BidStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bids SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), time.Now(),
	)
	if err != nil {
		return apperror.Storage(err, "не удалось обновить ставку")
	}
	return expectAffected(result, apperror.ErrBidNotFound)
}

func (r *BidRepositoryAdapter) RejectPending(ctx context.Context, gigID, exceptID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bids SET status = $3, updated_at = $4
		WHERE gig_id = $1 AND id <> $2 AND status = $5
	`, gigID, exceptID, string(valueobject.BidStatusRejected), time.Now(), string(valueobject.BidStatusPending))
	if err != nil {
		return 0, apperror.Storage(err, "не удалось отклонить ставки")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperror.Storage(err, "не удалось проверить результат запроса")
	}
	return int(rows), nil
}

func (r *BidRepositoryAdapter) DeleteByGigID(ctx context.Context, gigID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bids WHERE gig_id = $1`, gigID)
	if err != nil {
		return 0, apperror.Storage(err, "не удалось удалить ставки")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperror.Storage(err, "не удалось проверить результат запроса")
	}
	return int(rows), nil
}

func (r *BidRepositoryAdapter) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Bid, error) {
	var row bidRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		return nil, wrapQueryError(err, apperror.ErrBidNotFound, "не удалось получить ставку")
	}
	return row.toEntity(), nil
}

func (r *BidRepositoryAdapter) findMany(ctx context.Context, query string, args ...interface{}) ([]*entity.Bid, error) {
	var rows []bidRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, apperror.Storage(err, "не удалось получить ставки")
	}
	result := make([]*entity.Bid, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toEntity())
	}
	return result, nil
}

type bidRow struct {
	ID           uuid.UUID `db:"id"`
	GigID        uuid.UUID `db:"gig_id"`
	BidderID     uuid.UUID `db:"bidder_id"`
	Amount       float64   `db:"amount"`
	Proposal     string    `db:"proposal"`
	DeliveryTime int       `db:"delivery_time"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (b *bidRow) toEntity() *entity.Bid {
	return &entity.Bid{
		ID:           b.ID,
		GigID:        b.GigID,
		BidderID:     b.BidderID,
		Amount:       valueobject.Money(b.Amount),
		Proposal:     b.Proposal,
		DeliveryTime: b.DeliveryTime,
		Status:       valueobject.BidStatus(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
