package persistence

import (
	"database/sql"
	"errors"

	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/lib/pq"
)

// pqUniqueViolation: SQLSTATE нарушения уникальности.
const pqUniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// wrapQueryError превращает sql.ErrNoRows в notFound, остальное в DATABASE_ERROR.
func wrapQueryError(err error, notFound error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return apperror.Storage(err, message)
}

// expectAffected возвращает notFound, если запрос не затронул ни одной строки.
func expectAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage(err, "не удалось проверить результат запроса")
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
