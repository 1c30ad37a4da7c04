package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/designmatch-backend/internal/http/middleware"
	"github.com/ignatzorin/designmatch-backend/internal/service"
	"github.com/ignatzorin/designmatch-backend/internal/usecase/matching"
)

var errUserNotFound = errors.New("пользователь не найден в контексте")

func getUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, errUserNotFound
	}
	userID, ok := raw.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errUserNotFound
	}
	return userID, nil
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.ContextRoleKey) == service.RoleAdmin
}

// parseMatchQuery читает rematch и alternatives. Отсутствующее alternatives
// означает значение по умолчанию.
func parseMatchQuery(c *gin.Context) (rematch bool, alternatives int, err error) {
	alternatives = -1
	if raw := c.Query("rematch"); raw != "" {
		if rematch, err = strconv.ParseBool(raw); err != nil {
			return false, 0, errors.New("rematch должен быть true или false")
		}
	}
	if raw := c.Query("alternatives"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 || n > matching.MaxAlternatives {
			return false, 0, errors.New("alternatives должен быть числом от 0 до 5")
		}
		alternatives = n
	}
	return rematch, alternatives, nil
}

// writeSSEEvent отправляет SSE событие с типом. data должна быть одной строкой.
func writeSSEEvent(w io.Writer, eventType, data string) (int, error) {
	total := 0
	n, err := io.WriteString(w, "event: "+eventType+"\n")
	total += n
	if err != nil {
		return total, err
	}
	n, err = io.WriteString(w, "data: "+data+"\n\n")
	total += n
	return total, err
}
