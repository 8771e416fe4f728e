// Package view собирает ответы с отображаемыми полями пользователей.
package view

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
)

// GigView содержит заказ с владельцем и нанятым исполнителем.
type GigView struct {
	Gig             *entity.Gig
	Owner           *entity.UserSummary
	HiredFreelancer *entity.UserSummary
}

// BidView содержит ставку с автором и, если нужно, краткий заказ.
type BidView struct {
	Bid    *entity.Bid
	Bidder *entity.UserSummary
	Gig    *GigView
}

type Resolver struct {
	users repository.UserRepository
}

func NewResolver(users repository.UserRepository) *Resolver {
	return &Resolver{users: users}
}

func (r *Resolver) Gig(ctx context.Context, gig *entity.Gig) (*GigView, error) {
	views, err := r.Gigs(ctx, []*entity.Gig{gig})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (r *Resolver) Gigs(ctx context.Context, gigs []*entity.Gig) ([]*GigView, error) {
	ids := make([]uuid.UUID, 0, len(gigs)*2)
	for _, g := range gigs {
		ids = append(ids, g.OwnerID)
		if g.HiredFreelancerID != nil {
			ids = append(ids, *g.HiredFreelancerID)
		}
	}

	users, err := r.users.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}

	result := make([]*GigView, 0, len(gigs))
	for _, g := range gigs {
		v := &GigView{Gig: g, Owner: summary(users, g.OwnerID)}
		if g.HiredFreelancerID != nil {
			v.HiredFreelancer = summary(users, *g.HiredFreelancerID)
		}
		result = append(result, v)
	}
	return result, nil
}

func (r *Resolver) Bids(ctx context.Context, bids []*entity.Bid) ([]*BidView, error) {
	ids := make([]uuid.UUID, 0, len(bids))
	for _, b := range bids {
		ids = append(ids, b.BidderID)
	}

	users, err := r.users.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}

	result := make([]*BidView, 0, len(bids))
	for _, b := range bids {
		result = append(result, &BidView{Bid: b, Bidder: summary(users, b.BidderID)})
	}
	return result, nil
}

// User возвращает отображаемые поля одного пользователя или nil.
func (r *Resolver) User(ctx context.Context, id uuid.UUID) (*entity.UserSummary, error) {
	users, err := r.users.FindByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return summary(users, id), nil
}

func summary(users map[uuid.UUID]*entity.User, id uuid.UUID) *entity.UserSummary {
	u, ok := users[id]
	if !ok {
		return nil
	}
	s := u.Summary()
	return &s
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
