package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
)

type PlaceBidRequest struct {
	Amount       float64 `json:"amount"`
	Proposal     string  `json:"proposal"`
	DeliveryTime int     `json:"deliveryTime"`
}

type BidResponse struct {
	ID           uuid.UUID     `json:"id"`
	GigID        uuid.UUID     `json:"gigId"`
	BidderID     uuid.UUID     `json:"bidderId"`
	Bidder       *UserResponse `json:"bidder,omitempty"`
	Amount       float64       `json:"amount"`
	Proposal     string        `json:"proposal"`
	DeliveryTime int           `json:"deliveryTime"`
	Status       string        `json:"status"`
	Gig          *GigResponse  `json:"gig,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func ToBidResponse(v *view.BidView) BidResponse {
	b := v.Bid
	resp := BidResponse{
		ID:           b.ID,
		GigID:        b.GigID,
		BidderID:     b.BidderID,
		Bidder:       ToUserResponse(v.Bidder),
		Amount:       b.Amount.Float64(),
		Proposal:     b.Proposal,
		DeliveryTime: b.DeliveryTime,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if v.Gig != nil {
		g := ToGigResponse(v.Gig)
		resp.Gig = &g
	}
	return resp
}

func ToBidResponses(views []*view.BidView) []BidResponse {
	result := make([]BidResponse, 0, len(views))
	for _, v := range views {
		result = append(result, ToBidResponse(v))
	}
	return result
}

type AcceptBidResponse struct {
	Message string      `json:"message"`
	Gig     GigResponse `json:"gig"`
}
