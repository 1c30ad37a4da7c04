package events

import (
	"context"
	"errors"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/repository"
)

// MultiNotifier рассылает событие всем получателям и собирает их ошибки.
type MultiNotifier struct {
	notifiers []repository.MatchNotifier
}

// NewMultiNotifier пропускает nil-получателей.
func NewMultiNotifier(notifiers ...repository.MatchNotifier) *MultiNotifier {
	m := &MultiNotifier{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

func (m *MultiNotifier) Len() int {
	return len(m.notifiers)
}

func (m *MultiNotifier) MatchCreated(ctx context.Context, match *entity.Match) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.MatchCreated(ctx, match); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
