package matching

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/metrics"
)

// run хранит состояние одного запуска подбора.
type run struct {
	id    string
	start time.Time
	log   *logrus.Entry

	emit   Emitter
	last   valueobject.Phase
	closed bool
}

// send передаёт этап получателю, если он строго старше уже отправленного.
// После ошибки получателя дальнейшие этапы не отправляются.
func (r *run) send(u PhaseUpdate) {
	if r.emit == nil || r.closed || !u.Phase.After(r.last) {
		return
	}
	u.Elapsed = time.Since(r.start)
	metrics.PhaseLatency.WithLabelValues(string(u.Phase)).Observe(u.Elapsed.Seconds())

	if err := r.emit(u); err != nil {
		r.closed = true
		r.log.WithError(err).Info("matching: получатель отключился, выдача этапов остановлена")
		return
	}
	r.last = u.Phase
}
