package gig

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
	"github.com/ignatzorin/gigflow-backend/internal/validation"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	// StatusAll отключает фильтр по статусу.
	StatusAll = "all"
)

type ListGigsInput struct {
	Status    string
	Category  string
	MinBudget *float64
	MaxBudget *float64
	Search    string
	Page      int
	Limit     int
}

type Pagination struct {
	Page  int
	Limit int
	Total int
	Pages int
}

type ListGigsResult struct {
	Gigs       []*view.GigView
	Pagination Pagination
}

type ListGigsUseCase struct {
	gigRepo  repository.GigRepository
	resolver *view.Resolver
}

func NewListGigsUseCase(gigRepo repository.GigRepository, resolver *view.Resolver) *ListGigsUseCase {
	return &ListGigsUseCase{gigRepo: gigRepo, resolver: resolver}
}

// Execute возвращает страницу заказов, новые первыми. По умолчанию только открытые.
func (uc *ListGigsUseCase) Execute(ctx context.Context, input ListGigsInput) (*ListGigsResult, error) {
	filter, page, limit, err := buildFilter(input)
	if err != nil {
		return nil, err
	}

	gigs, total, err := uc.gigRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views, err := uc.resolver.Gigs(ctx, gigs)
	if err != nil {
		return nil, err
	}

	return &ListGigsResult{
		Gigs: views,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func buildFilter(input ListGigsInput) (repository.GigFilter, int, int, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	// Смещение (page-1)*limit не должно переполнять int.
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	filter := repository.GigFilter{
		MinBudget: input.MinBudget,
		MaxBudget: input.MaxBudget,
		Search:    validation.SanitizeSearch(input.Search),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}

	switch input.Status {
	case "":
		filter.Status = valueobject.GigStatusOpen
	case StatusAll:
	default:
		status, err := valueobject.NewGigStatus(input.Status)
		if err != nil {
			return filter, 0, 0, err
		}
		filter.Status = status
	}

	if input.Category != "" {
		category, err := valueobject.NewCategory(input.Category)
		if err != nil {
			return filter, 0, 0, err
		}
		filter.Category = category
	}

	return filter, page, limit, nil
}

type ListMyGigsUseCase struct {
	gigRepo  repository.GigRepository
	resolver *view.Resolver
}

func NewListMyGigsUseCase(gigRepo repository.GigRepository, resolver *view.Resolver) *ListMyGigsUseCase {
	return &ListMyGigsUseCase{gigRepo: gigRepo, resolver: resolver}
}

func (uc *ListMyGigsUseCase) Execute(ctx context.Context, ownerID uuid.UUID) ([]*view.GigView, error) {
	gigs, err := uc.gigRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return uc.resolver.Gigs(ctx, gigs)
}
