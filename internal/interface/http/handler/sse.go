package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// sseStream откладывает отправку заголовков до первого события, чтобы ошибки
// до начала подбора уходили обычным JSON ответом.
type sseStream struct {
	c       *gin.Context
	flusher http.Flusher
	started bool
}

func newSSEStream(c *gin.Context) (*sseStream, bool) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		return nil, false
	}
	return &sseStream{c: c, flusher: flusher}, true
}

func (s *sseStream) send(event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if !s.started {
		h := s.c.Writer.Header()
		h.Set("Content-Type", "text/event-stream; charset=utf-8")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		s.c.Status(http.StatusOK)
		s.started = true
	}
	if _, err := writeSSEEvent(s.c.Writer, event, string(raw)); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
