package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/validation"
)

type Bid struct {
	ID           uuid.UUID
	GigID        uuid.UUID
	BidderID     uuid.UUID
	Amount       valueobject.Money
	Proposal     string
	DeliveryTime int
	Status       valueobject.BidStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewBid(gigID, bidderID uuid.UUID, amount float64, proposal string, deliveryTime int) (*Bid, error) {
	money, err := valueobject.NewBidAmount(amount)
	if err != nil {
		return nil, err
	}
	proposal = strings.TrimSpace(proposal)
	if err := validation.ValidateLength("предложение", proposal, validation.MinProposalLength, validation.MaxProposalLength); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if deliveryTime < validation.MinDeliveryTimeDays {
		return nil, apperror.Validation("срок выполнения должен быть не меньше 1 дня")
	}

	now := time.Now()
	return &Bid{
		ID:           uuid.New(),
		GigID:        gigID,
		BidderID:     bidderID,
		Amount:       money,
		Proposal:     proposal,
		DeliveryTime: deliveryTime,
		Status:       valueobject.BidStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (b *Bid) Accept() error {
	if !b.IsPending() {
		return apperror.InvalidState("ставка не ожидает решения")
	}
	b.Status = valueobject.BidStatusAccepted
	b.UpdatedAt = time.Now()
	return nil
}

func (b *Bid) Reject() error {
	if !b.IsPending() {
		return apperror.InvalidState("ставка не ожидает решения")
	}
	b.Status = valueobject.BidStatusRejected
	b.UpdatedAt = time.Now()
	return nil
}

func (b *Bid) IsPending() bool {
	return b.Status == valueobject.BidStatusPending
}

func (b *Bid) Clone() *Bid {
	c := *b
	return &c
}
