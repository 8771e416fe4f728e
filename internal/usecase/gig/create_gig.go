package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
)

type CreateGigInput struct {
	OwnerID uuid.UUID
	Fields  entity.GigFields
}

type CreateGigUseCase struct {
	gigRepo  repository.GigRepository
	resolver *view.Resolver
}

func NewCreateGigUseCase(gigRepo repository.GigRepository, resolver *view.Resolver) *CreateGigUseCase {
	return &CreateGigUseCase{gigRepo: gigRepo, resolver: resolver}
}

func (uc *CreateGigUseCase) Execute(ctx context.Context, input CreateGigInput) (*view.GigView, error) {
	gig, err := entity.NewGig(input.OwnerID, input.Fields)
	if err != nil {
		return nil, err
	}

	if err := uc.gigRepo.Create(ctx, gig); err != nil {
		return nil, err
	}

	return uc.resolver.Gig(ctx, gig)
}
