package entity_test

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
)

func validFields() entity.GigFields {
	return entity.GigFields{
		Title:       "Landing page for a bakery",
		Description: gofakeit.Sentence(20),
		Budget:      gofakeit.Price(50, 5000),
		Deadline:    time.Now().Add(14 * 24 * time.Hour),
		Skills:      []string{"Go", "PostgreSQL"},
		Category:    string(valueobject.CategoryWebDevelopment),
	}
}

func TestNewGig_Success(t *testing.T) {
	ownerID := uuid.New()
	fields := validFields()
	fields.Title = "  " + fields.Title + "  "
	fields.Skills = []string{" Go ", "React"}

	gig, err := entity.NewGig(ownerID, fields)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, gig.ID)
	assert.Equal(t, ownerID, gig.OwnerID)
	assert.Equal(t, strings.TrimSpace(fields.Title), gig.Title)
	assert.Equal(t, []string{"Go", "React"}, gig.Skills)
	assert.Equal(t, valueobject.GigStatusOpen, gig.Status)
	assert.Nil(t, gig.HiredFreelancerID)
	assert.Nil(t, gig.AcceptedBidID)
}

func TestNewGig_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *entity.GigFields)
	}{
		{"short title", func(f *entity.GigFields) { f.Title = "abc" }},
		{"short description", func(f *entity.GigFields) { f.Description = "too short" }},
		{"budget below one", func(f *entity.GigFields) { f.Budget = 0.5 }},
		{"deadline in the past", func(f *entity.GigFields) { f.Deadline = time.Now().Add(-time.Hour) }},
		{"no skills", func(f *entity.GigFields) { f.Skills = nil }},
		{"too many skills", func(f *entity.GigFields) {
			f.Skills = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
		}},
		{"duplicate skills", func(f *entity.GigFields) { f.Skills = []string{"Go", "go"} }},
		{"empty skill", func(f *entity.GigFields) { f.Skills = []string{"Go", "  "} }},
		{"unknown category", func(f *entity.GigFields) { f.Category = "gardening" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			tt.mutate(&fields)

			_, err := entity.NewGig(uuid.New(), fields)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
}

func TestGig_ApplyPatch(t *testing.T) {
	gig, err := entity.NewGig(uuid.New(), validFields())
	require.NoError(t, err)

	title := "A completely new title"
	budget := 900.0
	require.NoError(t, gig.ApplyPatch(entity.GigPatch{Title: &title, Budget: &budget}))

	assert.Equal(t, title, gig.Title)
	assert.Equal(t, valueobject.Money(900), gig.Budget)
}

func TestGig_ApplyPatch_InvalidLeavesGigUntouched(t *testing.T) {
	gig, err := entity.NewGig(uuid.New(), validFields())
	require.NoError(t, err)
	before := gig.Clone()

	title := "Another valid title"
	badBudget := 0.0
	err = gig.ApplyPatch(entity.GigPatch{Title: &title, Budget: &badBudget})

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, before, gig)
}

func TestGig_ApplyPatch_NotOpen(t *testing.T) {
	gig, err := entity.NewGig(uuid.New(), validFields())
	require.NoError(t, err)
	require.NoError(t, gig.Cancel())

	title := "Another valid title"
	err = gig.ApplyPatch(entity.GigPatch{Title: &title})
	assert.True(t, apperror.IsInvalidState(err))
}

func TestGig_Hire(t *testing.T) {
	gig, err := entity.NewGig(uuid.New(), validFields())
	require.NoError(t, err)
	bid, err := entity.NewBid(gig.ID, uuid.New(), 100, gofakeit.Sentence(10)+" extra words here", 3)
	require.NoError(t, err)

	require.NoError(t, gig.Hire(bid))

	assert.Equal(t, valueobject.GigStatusInProgress, gig.Status)
	require.NotNil(t, gig.HiredFreelancerID)
	require.NotNil(t, gig.AcceptedBidID)
	assert.Equal(t, bid.BidderID, *gig.HiredFreelancerID)
	assert.Equal(t, bid.ID, *gig.AcceptedBidID)

	// Второй найм невозможен.
	err = gig.Hire(bid)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestGig_Hire_BidOfAnotherGig(t *testing.T) {
	gig, err := entity.NewGig(uuid.New(), validFields())
	require.NoError(t, err)
	bid, err := entity.NewBid(uuid.New(), uuid.New(), 100, gofakeit.Sentence(10)+" extra words here", 3)
	require.NoError(t, err)

	err = gig.Hire(bid)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, valueobject.GigStatusOpen, gig.Status)
}

func TestGig_CancelAndDelete(t *testing.T) {
	gig, err := entity.NewGig(uuid.New(), validFields())
	require.NoError(t, err)
	assert.NoError(t, gig.CanBeDeleted())

	require.NoError(t, gig.Cancel())
	assert.Equal(t, valueobject.GigStatusCancelled, gig.Status)
	assert.NoError(t, gig.CanBeDeleted())
	assert.True(t, apperror.IsInvalidState(gig.Cancel()))

	inProgress := gig.Clone()
	inProgress.Status = valueobject.GigStatusInProgress
	assert.True(t, apperror.IsInvalidState(inProgress.CanBeDeleted()))
}

func TestGig_CloneIsDeep(t *testing.T) {
	gig, err := entity.NewGig(uuid.New(), validFields())
	require.NoError(t, err)

	clone := gig.Clone()
	clone.Skills[0] = "Changed"
	assert.NotEqual(t, "Changed", gig.Skills[0])
}
