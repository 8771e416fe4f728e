package valueobject

import "github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"

type GigStatus string

const (
	GigStatusOpen       GigStatus = "open"
	GigStatusInProgress GigStatus = "in-progress"
	GigStatusCompleted  GigStatus = "completed"
	GigStatusCancelled  GigStatus = "cancelled"
)

func (s GigStatus) IsValid() bool {
	switch s {
	case GigStatusOpen, GigStatusInProgress, GigStatusCompleted, GigStatusCancelled:
		return true
	}
	return false
}

func (s GigStatus) CanTransitionTo(newStatus GigStatus) bool {
	transitions := map[GigStatus][]GigStatus{
		GigStatusOpen:       {GigStatusInProgress, GigStatusCancelled},
		GigStatusInProgress: {GigStatusCompleted},
		GigStatusCompleted:  {},
		GigStatusCancelled:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewGigStatus(status string) (GigStatus, error) {
	s := GigStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус заказа")
	}
	return s, nil
}

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
)

func (s BidStatus) IsValid() bool {
	switch s {
	case BidStatusPending, BidStatusAccepted, BidStatusRejected:
		return true
	}
	return false
}

func NewBidStatus(status string) (BidStatus, error) {
	s := BidStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус ставки")
	}
	return s, nil
}
