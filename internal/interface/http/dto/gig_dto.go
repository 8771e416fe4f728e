package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/gig"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
)

const dateLayout = "2006-01-02"

type CreateGigRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      float64  `json:"budget"`
	Deadline    string   `json:"deadline"`
	Skills      []string `json:"skills"`
	Category    string   `json:"category"`
}

func (r CreateGigRequest) ToFields() (entity.GigFields, error) {
	deadline, err := ParseDeadline(r.Deadline)
	if err != nil {
		return entity.GigFields{}, err
	}
	return entity.GigFields{
		Title:       r.Title,
		Description: r.Description,
		Budget:      r.Budget,
		Deadline:    deadline,
		Skills:      r.Skills,
		Category:    r.Category,
	}, nil
}

// UpdateGigRequest описывает частичное обновление: отсутствующие поля не меняются.
type UpdateGigRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Budget      *float64 `json:"budget"`
	Deadline    *string  `json:"deadline"`
	Skills      []string `json:"skills"`
	Category    *string  `json:"category"`
}

func (r UpdateGigRequest) ToPatch() (entity.GigPatch, error) {
	patch := entity.GigPatch{
		Title:       r.Title,
		Description: r.Description,
		Budget:      r.Budget,
		Skills:      r.Skills,
		Category:    r.Category,
	}
	if r.Deadline != nil {
		deadline, err := ParseDeadline(*r.Deadline)
		if err != nil {
			return patch, err
		}
		patch.Deadline = &deadline
	}
	return patch, nil
}

// ParseDeadline принимает RFC3339 или дату вида 2006-01-02.
func ParseDeadline(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperror.Validation("дедлайн обязателен")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.Validation("некорректный формат дедлайна")
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func ToUserResponse(u *entity.UserSummary) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type GigResponse struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Budget          float64       `json:"budget"`
	Deadline        time.Time     `json:"deadline"`
	Skills          []string      `json:"skills"`
	Category        string        `json:"category"`
	Status          string        `json:"status"`
	OwnerID         uuid.UUID     `json:"ownerId"`
	Owner           *UserResponse `json:"owner,omitempty"`
	HiredFreelancer *UserResponse `json:"hiredFreelancer"`
	AcceptedBidID   *uuid.UUID    `json:"acceptedBidId"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func ToGigResponse(v *view.GigView) GigResponse {
	g := v.Gig
	skills := g.Skills
	if skills == nil {
		skills = []string{}
	}
	return GigResponse{
		ID:              g.ID,
		Title:           g.Title,
		Description:     g.Description,
		Budget:          g.Budget.Float64(),
		Deadline:        g.Deadline,
		Skills:          skills,
		Category:        string(g.Category),
		Status:          string(g.Status),
		OwnerID:         g.OwnerID,
		Owner:           ToUserResponse(v.Owner),
		HiredFreelancer: ToUserResponse(v.HiredFreelancer),
		AcceptedBidID:   g.AcceptedBidID,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

func ToGigResponses(views []*view.GigView) []GigResponse {
	result := make([]GigResponse, 0, len(views))
	for _, v := range views {
		result = append(result, ToGigResponse(v))
	}
	return result
}

type PaginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type GigListResponse struct {
	Gigs       []GigResponse      `json:"gigs"`
	Pagination PaginationResponse `json:"pagination"`
}

func ToGigListResponse(res *gig.ListGigsResult) GigListResponse {
	return GigListResponse{
		Gigs: ToGigResponses(res.Gigs),
		Pagination: PaginationResponse{
			Page:  res.Pagination.Page,
			Limit: res.Pagination.Limit,
			Total: res.Pagination.Total,
			Pages: res.Pagination.Pages,
		},
	}
}

type GigDetailResponse struct {
	Gig       GigResponse `json:"gig"`
	BidsCount int         `json:"bidsCount"`
}
