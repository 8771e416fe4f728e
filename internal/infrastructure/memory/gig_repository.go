package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
)

type GigRepository struct {
	view view
}

func (r *GigRepository) Create(ctx context.Context, gig *entity.Gig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.view.write(func(t *tables) error {
		if _, exists := t.gigs[gig.ID]; exists {
			return apperror.Storage(nil, "заказ с таким id уже существует")
		}
		t.gigs[gig.ID] = gigRow{gig: gig.Clone(), seq: r.view.store.nextSeq()}
		t.touchGig(gig.ID)
		return nil
	})
}

func (r *GigRepository) Update(ctx context.Context, gig *entity.Gig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.view.write(func(t *tables) error {
		row, ok := t.gigs[gig.ID]
		if !ok {
			return apperror.ErrGigNotFound
		}
		row.gig = gig.Clone()
		t.gigs[gig.ID] = row
		t.touchGig(gig.ID)
		return nil
	})
}

func (r *GigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.view.write(func(t *tables) error {
		if _, ok := t.gigs[id]; !ok {
			return apperror.ErrGigNotFound
		}
		delete(t.gigs, id)
		t.touchGig(id)
		return nil
	})
}

func (r *GigRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var gig *entity.Gig
	r.view.read(func(t *tables) {
		if row, ok := t.gigs[id]; ok {
			gig = row.gig.Clone()
		}
	})
	if gig == nil {
		return nil, apperror.ErrGigNotFound
	}
	return gig, nil
}

// FindByIDForUpdate совпадает с FindByID: транзакции и так выполняются по одной.
func (r *GigRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return r.FindByID(ctx, id)
}

func (r *GigRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return r.FindByID(ctx, id)
}

func (r *GigRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Gig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []gigRow
	r.view.read(func(t *tables) {
		for _, row := range t.gigs {
			if row.gig.OwnerID == ownerID {
				rows = append(rows, row)
			}
		}
	})
	return cloneGigs(sortGigRows(rows)), nil
}

func (r *GigRepository) List(ctx context.Context, filter repository.GigFilter) ([]*entity.Gig, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	search := strings.ToLower(filter.Search)

	var rows []gigRow
	r.view.read(func(t *tables) {
		for _, row := range t.gigs {
			g := row.gig
			if filter.Status != "" && g.Status != filter.Status {
				continue
			}
			if filter.Category != "" && g.Category != filter.Category {
				continue
			}
			if filter.MinBudget != nil && g.Budget.Float64() < *filter.MinBudget {
				continue
			}
			if filter.MaxBudget != nil && g.Budget.Float64() > *filter.MaxBudget {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(g.Title), search) &&
				!strings.Contains(strings.ToLower(g.Description), search) {
				continue
			}
			rows = append(rows, row)
		}
	})

	rows = sortGigRows(rows)
	total := len(rows)

	start := filter.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < total {
		end = start + filter.Limit
	}

	return cloneGigs(rows[start:end]), total, nil
}

// sortGigRows сортирует новые первыми, при равном времени по порядку вставки.
func sortGigRows(rows []gigRow) []gigRow {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.gig.CreatedAt.Equal(b.gig.CreatedAt) {
			return a.gig.CreatedAt.After(b.gig.CreatedAt)
		}
		return a.seq > b.seq
	})
	return rows
}

func cloneGigs(rows []gigRow) []*entity.Gig {
	result := make([]*entity.Gig, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.gig.Clone())
	}
	return result
}
