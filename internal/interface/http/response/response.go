package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// ErrorBody формирует тело ошибки и HTTP статус. Неизвестные ошибки маскируются.
func ErrorBody(err error) (int, Response) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus, Response{
			Success: false,
			Error:   string(appErr.Code),
			Message: appErr.Message,
		}
	}
	return http.StatusInternalServerError, Response{
		Success: false,
		Error:   string(apperror.ErrCodeInternal),
		Message: "внутренняя ошибка сервера",
	}
}

func Error(c *gin.Context, err error) {
	status, body := ErrorBody(err)
	c.JSON(status, body)
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   string(apperror.ErrCodeBadRequest),
		Message: message,
	})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{
		Success: false,
		Error:   string(apperror.ErrCodeNotFound),
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{
		Success: false,
		Error:   string(apperror.ErrCodeUnauthorized),
		Message: message,
	})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Response{
		Success: false,
		Error:   string(apperror.ErrCodeForbidden),
		Message: message,
	})
}
