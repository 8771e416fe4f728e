package repository

import "context"

// Store отдаёт репозитории, работающие в рамках одной транзакции.
type Store interface {
	Gigs() GigRepository
	Bids() BidRepository
}

// Transactor выполняет fn в транзакции: изменения фиксируются только
// если fn вернула nil, иначе откатываются целиком.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
