package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigflow-backend/internal/interface/http/dto"
	"github.com/ignatzorin/gigflow-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/bid"
)

type BidHandler struct {
	placeBidUC   *bid.PlaceBidUseCase
	listBidsUC   *bid.ListBidsUseCase
	acceptBidUC  *bid.AcceptBidUseCase
	listMyBidsUC *bid.ListMyBidsUseCase
}

func NewBidHandler(
	placeBidUC *bid.PlaceBidUseCase,
	listBidsUC *bid.ListBidsUseCase,
	acceptBidUC *bid.AcceptBidUseCase,
	listMyBidsUC *bid.ListMyBidsUseCase,
) *BidHandler {
	return &BidHandler{
		placeBidUC:   placeBidUC,
		listBidsUC:   listBidsUC,
		acceptBidUC:  acceptBidUC,
		listMyBidsUC: listMyBidsUC,
	}
}

// PlaceBid обрабатывает POST /api/gigs/:gigId/bids.
func (h *BidHandler) PlaceBid(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gigID, ok := uuidParam(c, "gigId", msgBadGigID)
	if !ok {
		return
	}

	var req dto.PlaceBidRequest
	if !bindJSON(c, &req) {
		return
	}

	placed, err := h.placeBidUC.Execute(c.Request.Context(), bid.PlaceBidInput{
		GigID:        gigID,
		BidderID:     userID,
		Amount:       req.Amount,
		Proposal:     req.Proposal,
		DeliveryTime: req.DeliveryTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"bid": dto.ToBidResponse(placed)})
}

// ListBids обрабатывает GET /api/gigs/:gigId/bids. Новые ставки первыми.
func (h *BidHandler) ListBids(c *gin.Context) {
	gigID, ok := uuidParam(c, "gigId", msgBadGigID)
	if !ok {
		return
	}

	bids, err := h.listBidsUC.Execute(c.Request.Context(), gigID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"bids": dto.ToBidResponses(bids)})
}

// AcceptBid обрабатывает POST /api/gigs/:gigId/bids/:bidId/accept.
func (h *BidHandler) AcceptBid(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gigID, ok := uuidParam(c, "gigId", msgBadGigID)
	if !ok {
		return
	}
	bidID, ok := uuidParam(c, "bidId", "некорректный ID ставки")
	if !ok {
		return
	}

	result, err := h.acceptBidUC.Execute(c.Request.Context(), bid.AcceptBidInput{
		GigID:    gigID,
		BidID:    bidID,
		CallerID: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.AcceptBidResponse{
		Message: result.Message,
		Gig:     dto.ToGigResponse(result.Gig),
	})
}

// ListMyBids обрабатывает GET /api/users/me/bids.
func (h *BidHandler) ListMyBids(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bids, err := h.listMyBidsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"bids": dto.ToBidResponses(bids)})
}
