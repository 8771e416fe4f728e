package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigflow-backend/internal/interface/http/dto"
	"github.com/ignatzorin/gigflow-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/gig"
)

const msgBadGigID = "некорректный ID заказа"

type GigHandler struct {
	createGigUC  *gig.CreateGigUseCase
	updateGigUC  *gig.UpdateGigUseCase
	deleteGigUC  *gig.DeleteGigUseCase
	cancelGigUC  *gig.CancelGigUseCase
	getGigUC     *gig.GetGigUseCase
	listGigsUC   *gig.ListGigsUseCase
	listMyGigsUC *gig.ListMyGigsUseCase
}

func NewGigHandler(
	createGigUC *gig.CreateGigUseCase,
	updateGigUC *gig.UpdateGigUseCase,
	deleteGigUC *gig.DeleteGigUseCase,
	cancelGigUC *gig.CancelGigUseCase,
	getGigUC *gig.GetGigUseCase,
	listGigsUC *gig.ListGigsUseCase,
	listMyGigsUC *gig.ListMyGigsUseCase,
) *GigHandler {
	return &GigHandler{
		createGigUC:  createGigUC,
		updateGigUC:  updateGigUC,
		deleteGigUC:  deleteGigUC,
		cancelGigUC:  cancelGigUC,
		getGigUC:     getGigUC,
		listGigsUC:   listGigsUC,
		listMyGigsUC: listMyGigsUC,
	}
}

// ListGigs обрабатывает GET /api/gigs.
func (h *GigHandler) ListGigs(c *gin.Context) {
	result, err := h.listGigsUC.Execute(c.Request.Context(), gig.ListGigsInput{
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		MinBudget: parseFloatQuery(c, "minBudget"),
		MaxBudget: parseFloatQuery(c, "maxBudget"),
		Search:    c.Query("search"),
		Page:      parseIntQuery(c, "page", 1),
		Limit:     parseIntQuery(c, "limit", gig.DefaultPageLimit),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToGigListResponse(result))
}

// GetGig обрабатывает GET /api/gigs/:gigId.
func (h *GigHandler) GetGig(c *gin.Context) {
	gigID, ok := uuidParam(c, "gigId", msgBadGigID)
	if !ok {
		return
	}

	result, err := h.getGigUC.Execute(c.Request.Context(), gigID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.GigDetailResponse{
		Gig:       dto.ToGigResponse(result.Gig),
		BidsCount: result.BidsCount,
	})
}

func (h *GigHandler) CreateGig(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGigRequest
	if !bindJSON(c, &req) {
		return
	}

	fields, err := req.ToFields()
	if err != nil {
		response.Error(c, err)
		return
	}

	created, err := h.createGigUC.Execute(c.Request.Context(), gig.CreateGigInput{
		OwnerID: userID,
		Fields:  fields,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"gig": dto.ToGigResponse(created)})
}

func (h *GigHandler) UpdateGig(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gigID, ok := uuidParam(c, "gigId", msgBadGigID)
	if !ok {
		return
	}

	var req dto.UpdateGigRequest
	if !bindJSON(c, &req) {
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.updateGigUC.Execute(c.Request.Context(), gig.UpdateGigInput{
		GigID:    gigID,
		CallerID: userID,
		Patch:    patch,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"gig": dto.ToGigResponse(updated)})
}

func (h *GigHandler) DeleteGig(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gigID, ok := uuidParam(c, "gigId", msgBadGigID)
	if !ok {
		return
	}

	if err := h.deleteGigUC.Execute(c.Request.Context(), gigID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Gig deleted successfully"})
}

func (h *GigHandler) CancelGig(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gigID, ok := uuidParam(c, "gigId", msgBadGigID)
	if !ok {
		return
	}

	cancelled, err := h.cancelGigUC.Execute(c.Request.Context(), gigID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"gig": dto.ToGigResponse(cancelled)})
}

// ListMyGigs обрабатывает GET /api/users/me/gigs.
func (h *GigHandler) ListMyGigs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	gigs, err := h.listMyGigsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"gigs": dto.ToGigResponses(gigs)})
}
