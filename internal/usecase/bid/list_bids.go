package bid

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
)

type ListBidsUseCase struct {
	bidRepo  repository.BidRepository
	resolver *view.Resolver
}

func NewListBidsUseCase(bidRepo repository.BidRepository, resolver *view.Resolver) *ListBidsUseCase {
	return &ListBidsUseCase{bidRepo: bidRepo, resolver: resolver}
}

// Execute возвращает ставки заказа, новые первыми. Для неизвестного заказа возвращает пустой список.
func (uc *ListBidsUseCase) Execute(ctx context.Context, gigID uuid.UUID) ([]*view.BidView, error) {
	bids, err := uc.bidRepo.FindByGigID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	return uc.resolver.Bids(ctx, bids)
}

type ListMyBidsUseCase struct {
	bidRepo  repository.BidRepository
	gigRepo  repository.GigRepository
	resolver *view.Resolver
}

func NewListMyBidsUseCase(bidRepo repository.BidRepository, gigRepo repository.GigRepository, resolver *view.Resolver) *ListMyBidsUseCase {
	return &ListMyBidsUseCase{bidRepo: bidRepo, gigRepo: gigRepo, resolver: resolver}
}

// Execute возвращает ставки пользователя с краткой информацией о заказах.
// Ставки удалённых заказов пропускаются.
func (uc *ListMyBidsUseCase) Execute(ctx context.Context, bidderID uuid.UUID) ([]*view.BidView, error) {
	bids, err := uc.bidRepo.FindByBidderID(ctx, bidderID)
	if err != nil {
		return nil, err
	}

	gigs := make([]*entity.Gig, 0, len(bids))
	kept := make([]*entity.Bid, 0, len(bids))
	for _, b := range bids {
		g, err := uc.gigRepo.FindByID(ctx, b.GigID)
		if err != nil {
			if apperror.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		gigs = append(gigs, g)
		kept = append(kept, b)
	}

	gigViews, err := uc.resolver.Gigs(ctx, gigs)
	if err != nil {
		return nil, err
	}
	views, err := uc.resolver.Bids(ctx, kept)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].Gig = gigViews[i]
	}
	return views, nil
}
