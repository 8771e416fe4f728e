package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
)

type GetGigResult struct {
	Gig       *view.GigView
	BidsCount int
}

type GetGigUseCase struct {
	gigRepo  repository.GigRepository
	bidRepo  repository.BidRepository
	resolver *view.Resolver
}

func NewGetGigUseCase(gigRepo repository.GigRepository, bidRepo repository.BidRepository, resolver *view.Resolver) *GetGigUseCase {
	return &GetGigUseCase{gigRepo: gigRepo, bidRepo: bidRepo, resolver: resolver}
}

func (uc *GetGigUseCase) Execute(ctx context.Context, gigID uuid.UUID) (*GetGigResult, error) {
	gig, err := uc.gigRepo.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	count, err := uc.bidRepo.CountByGigID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	v, err := uc.resolver.Gig(ctx, gig)
	if err != nil {
		return nil, err
	}
	return &GetGigResult{Gig: v, BidsCount: count}, nil
}
