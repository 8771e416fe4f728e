package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
)

// errSecondAccepted повторяет ограничение частичного уникального индекса на принятую ставку.
var errSecondAccepted = errors.New("gig already has an accepted bid")

type BidRepository struct {
	view view
}

func (r *BidRepository) Create(ctx context.Context, bid *entity.Bid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.view.write(func(t *tables) error {
		if _, ok := t.gigs[bid.GigID]; !ok {
			return apperror.ErrGigNotFound
		}
		for _, row := range t.bids {
			if row.bid.GigID == bid.GigID && row.bid.BidderID == bid.BidderID {
				return repository.ErrBidAlreadyExists
			}
		}
		t.bids[bid.ID] = bidRow{bid: bid.Clone(), seq: r.view.store.nextSeq()}
		t.touchBid(bid.ID)
		return nil
	})
}

func (r *BidRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var bid *entity.Bid
	r.view.read(func(t *tables) {
		if row, ok := t.bids[id]; ok {
			bid = row.bid.Clone()
		}
	})
	if bid == nil {
		return nil, apperror.ErrBidNotFound
	}
	return bid, nil
}

func (r *BidRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return r.FindByID(ctx, id)
}

func (r *BidRepository) FindByGigID(ctx context.Context, gigID uuid.UUID) ([]*entity.Bid, error) {
	return r.filter(ctx, func(b *entity.Bid) bool { return b.GigID == gigID })
}

func (r *BidRepository) FindByBidderID(ctx context.Context, bidderID uuid.UUID) ([]*entity.Bid, error) {
	return r.filter(ctx, func(b *entity.Bid) bool { return b.BidderID == bidderID })
}

func (r *BidRepository) FindByGigAndBidder(ctx context.Context, gigID, bidderID uuid.UUID) (*entity.Bid, error) {
	bids, err := r.filter(ctx, func(b *entity.Bid) bool { return b.GigID == gigID && b.BidderID == bidderID })
	if err != nil || len(bids) == 0 {
		return nil, err
	}
	return bids[0], nil
}

func (r *BidRepository) CountByGigID(ctx context.Context, gigID uuid.UUID) (int, error) {
	bids, err := r.FindByGigID(ctx, gigID)
	return len(bids), err
}

func (r *BidRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.BidStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.view.write(func(t *tables) error {
		row, ok := t.bids[id]
		if !ok {
			return apperror.ErrBidNotFound
		}
		if status == valueobject.BidStatusAccepted {
			for otherID, other := range t.bids {
				if otherID != id && other.bid.GigID == row.bid.GigID && other.bid.Status == valueobject.BidStatusAccepted {
					return apperror.Storage(errSecondAccepted, "не удалось обновить ставку")
				}
			}
		}
		updated := row.bid.Clone()
		updated.Status = status
		updated.UpdatedAt = time.Now()
		row.bid = updated
		t.bids[id] = row
		t.touchBid(id)
		return nil
	})
}

func (r *BidRepository) RejectPending(ctx context.Context, gigID, exceptID uuid.UUID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	err := r.view.write(func(t *tables) error {
		now := time.Now()
		for id, row := range t.bids {
			if id == exceptID || row.bid.GigID != gigID || !row.bid.IsPending() {
				continue
			}
			updated := row.bid.Clone()
			updated.Status = valueobject.BidStatusRejected
			updated.UpdatedAt = now
			row.bid = updated
			t.bids[id] = row
			t.touchBid(id)
			count++
		}
		return nil
	})
	return count, err
}

func (r *BidRepository) DeleteByGigID(ctx context.Context, gigID uuid.UUID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	err := r.view.write(func(t *tables) error {
		for id, row := range t.bids {
			if row.bid.GigID == gigID {
				delete(t.bids, id)
				t.touchBid(id)
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *BidRepository) filter(ctx context.Context, match func(*entity.Bid) bool) ([]*entity.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []bidRow
	r.view.read(func(t *tables) {
		for _, row := range t.bids {
			if match(row.bid) {
				rows = append(rows, row)
			}
		}
	})

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.bid.CreatedAt.Equal(b.bid.CreatedAt) {
			return a.bid.CreatedAt.After(b.bid.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]*entity.Bid, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.bid.Clone())
	}
	return result, nil
}
