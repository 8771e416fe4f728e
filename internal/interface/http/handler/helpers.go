package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigflow-backend/internal/http/middleware"
	"github.com/ignatzorin/gigflow-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
)

// currentUserID достаёт пользователя, положенного AuthMiddleware.
// При отсутствии сам пишет 401 и возвращает false.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		response.Unauthorized(c, "требуется авторизация")
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		response.Unauthorized(c, "требуется авторизация")
		return uuid.Nil, false
	}
	return userID, true
}

// uuidParam разбирает path-параметр. При ошибке пишет 400 и возвращает false.
func uuidParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON разбирает тело запроса. Неверный тип известного поля отдаётся как
// VALIDATION_ERROR, остальной битый JSON как 400 BAD_REQUEST.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		response.Error(c, apperror.Validation(fmt.Sprintf("поле %s имеет неверный тип", typeErr.Field)))
		return false
	}

	response.BadRequest(c, "некорректные данные запроса")
	return false
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseFloatQuery(c *gin.Context, key string) *float64 {
	valueStr := c.Query(key)
	if valueStr == "" {
		return nil
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return nil
	}

	return &value
}
