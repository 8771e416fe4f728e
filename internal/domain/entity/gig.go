package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/validation"
)

type Gig struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Title             string
	Description       string
	Budget            valueobject.Money
	Deadline          time.Time
	Skills            []string
	Category          valueobject.Category
	Status            valueobject.GigStatus
	HiredFreelancerID *uuid.UUID
	AcceptedBidID     *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// GigFields содержит поля заказа, задаваемые владельцем.
type GigFields struct {
	Title       string
	Description string
	Budget      float64
	Deadline    time.Time
	Skills      []string
	Category    string
}

// GigPatch описывает частичное обновление заказа. nil означает "не менять".
type GigPatch struct {
	Title       *string
	Description *string
	Budget      *float64
	Deadline    *time.Time
	Skills      []string
	Category    *string
}

func NewGig(ownerID uuid.UUID, fields GigFields) (*Gig, error) {
	title, err := validateGigTitle(fields.Title)
	if err != nil {
		return nil, err
	}
	description, err := validateGigDescription(fields.Description)
	if err != nil {
		return nil, err
	}
	budget, err := valueobject.NewBudget(fields.Budget)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := validateDeadline(fields.Deadline, now); err != nil {
		return nil, err
	}
	skills, err := validation.NormalizeSkills(fields.Skills)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	category, err := valueobject.NewCategory(fields.Category)
	if err != nil {
		return nil, err
	}

	return &Gig{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Budget:      budget,
		Deadline:    fields.Deadline,
		Skills:      skills,
		Category:    category,
		Status:      valueobject.GigStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ApplyPatch проверяет и применяет частичное обновление по тем же правилам,
// что и при создании. При ошибке заказ не меняется.
func (g *Gig) ApplyPatch(patch GigPatch) error {
	if !g.IsOpen() {
		return apperror.InvalidState("редактировать можно только открытый заказ")
	}

	next := g.Clone()
	now := time.Now()

	if patch.Title != nil {
		title, err := validateGigTitle(*patch.Title)
		if err != nil {
			return err
		}
		next.Title = title
	}
	if patch.Description != nil {
		description, err := validateGigDescription(*patch.Description)
		if err != nil {
			return err
		}
		next.Description = description
	}
	if patch.Budget != nil {
		budget, err := valueobject.NewBudget(*patch.Budget)
		if err != nil {
			return err
		}
		next.Budget = budget
	}
	if patch.Deadline != nil {
		if err := validateDeadline(*patch.Deadline, now); err != nil {
			return err
		}
		next.Deadline = *patch.Deadline
	}
	if patch.Skills != nil {
		skills, err := validation.NormalizeSkills(patch.Skills)
		if err != nil {
			return apperror.Validation(err.Error())
		}
		next.Skills = skills
	}
	if patch.Category != nil {
		category, err := valueobject.NewCategory(*patch.Category)
		if err != nil {
			return err
		}
		next.Category = category
	}

	next.UpdatedAt = now
	*g = *next
	return nil
}

// Hire переводит заказ в работу по принятой ставке.
func (g *Gig) Hire(bid *Bid) error {
	if !g.Status.CanTransitionTo(valueobject.GigStatusInProgress) {
		return apperror.InvalidState("заказ не открыт для найма")
	}
	if bid.GigID != g.ID {
		return apperror.ErrBidNotFound
	}
	freelancerID := bid.BidderID
	bidID := bid.ID
	g.HiredFreelancerID = &freelancerID
	g.AcceptedBidID = &bidID
	g.Status = valueobject.GigStatusInProgress
	g.UpdatedAt = time.Now()
	return nil
}

func (g *Gig) Cancel() error {
	if !g.IsOpen() {
		return apperror.InvalidState("отменить можно только открытый заказ")
	}
	g.Status = valueobject.GigStatusCancelled
	g.UpdatedAt = time.Now()
	return nil
}

// CanBeDeleted запрещает удаление заказа, по которому уже идёт работа.
func (g *Gig) CanBeDeleted() error {
	if g.Status == valueobject.GigStatusInProgress {
		return apperror.InvalidState("нельзя удалить заказ в работе")
	}
	return nil
}

func (g *Gig) IsOpen() bool {
	return g.Status == valueobject.GigStatusOpen
}

func (g *Gig) IsOwnedBy(userID uuid.UUID) bool {
	return g.OwnerID == userID
}

// Clone возвращает глубокую копию.
func (g *Gig) Clone() *Gig {
	c := *g
	c.Skills = append([]string(nil), g.Skills...)
	if g.HiredFreelancerID != nil {
		id := *g.HiredFreelancerID
		c.HiredFreelancerID = &id
	}
	if g.AcceptedBidID != nil {
		id := *g.AcceptedBidID
		c.AcceptedBidID = &id
	}
	return &c
}

func validateGigTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if err := validation.ValidateLength("заголовок", title, validation.MinGigTitleLength, validation.MaxGigTitleLength); err != nil {
		return "", apperror.Validation(err.Error())
	}
	return title, nil
}

func validateGigDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if err := validation.ValidateLength("описание", description, validation.MinGigDescLength, validation.MaxGigDescLength); err != nil {
		return "", apperror.Validation(err.Error())
	}
	return description, nil
}

func validateDeadline(deadline, now time.Time) error {
	if !deadline.After(now) {
		return apperror.Validation("дедлайн должен быть в будущем")
	}
	return nil
}
