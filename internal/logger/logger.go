package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log по умолчанию инициализирован, чтобы пакеты можно было использовать
// в тестах без вызова Init.
var Log = logrus.New()

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// Используем JSON формат для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// Silence отключает вывод логов (используется в тестах и CLI).
func Silence() {
	Log.SetOutput(io.Discard)
}

// WithRun возвращает запись лога, привязанную к запуску подбора.
func WithRun(runID, briefID string) *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"run_id":   runID,
		"brief_id": briefID,
	})
}
