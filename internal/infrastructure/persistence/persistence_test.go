package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
)

func TestBuildGigFilter(t *testing.T) {
	min, max := 100.0, 500.0
	where, args := buildGigFilter(repository.GigFilter{
		Status:    valueobject.GigStatusOpen,
		Category:  valueobject.CategoryDesign,
		MinBudget: &min,
		MaxBudget: &max,
		Search:    "50%_off",
	})

	assert.Equal(t,
		" WHERE status = $1 AND category = $2 AND budget >= $3 AND budget <= $4 AND (title ILIKE $5 OR description ILIKE $5)",
		where)
	assert.Equal(t, []interface{}{"open", "design", 100.0, 500.0, `%50\%\_off%`}, args)
}

func TestBuildGigFilter_Empty(t *testing.T) {
	where, args := buildGigFilter(repository.GigFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: bidsGigBidderConstraint})

	assert.True(t, isUniqueViolation(err, bidsGigBidderConstraint))
	assert.True(t, isUniqueViolation(err, ""))
	assert.False(t, isUniqueViolation(err, "users_email_key"))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("plain"), ""))
}

func TestWrapQueryError(t *testing.T) {
	assert.Equal(t, apperror.ErrGigNotFound, wrapQueryError(sql.ErrNoRows, apperror.ErrGigNotFound, "x"))

	err := wrapQueryError(errors.New("connection reset"), apperror.ErrGigNotFound, "не удалось получить заказ")
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
}
