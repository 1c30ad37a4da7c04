package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designmatch-backend/internal/interface/http/response"
	"github.com/ignatzorin/designmatch-backend/internal/logger"
)

// ErrorHandler отвечает на ошибки, добавленные через c.Error, если обработчик
// сам ничего не записал. Внутренние ошибки маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("http: ошибка запроса")

		response.Error(c, err)
	}
}
