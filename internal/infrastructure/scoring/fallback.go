package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/repository"
	"github.com/ignatzorin/designmatch-backend/internal/logger"
	"github.com/ignatzorin/designmatch-backend/internal/metrics"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

// ProviderWithFallback вызывает основной провайдер и при ошибке, пустом
// результате или оценке ниже порога переключается на резервный.
type ProviderWithFallback struct {
	primary       repository.ScoringProvider
	fallback      repository.ScoringProvider
	timeout       time.Duration
	minValidScore int
}

// NewProviderWithFallback: primary может быть nil, тогда сразу используется fallback.
func NewProviderWithFallback(primary, fallback repository.ScoringProvider, timeout time.Duration, minValidScore int) *ProviderWithFallback {
	return &ProviderWithFallback{
		primary:       primary,
		fallback:      fallback,
		timeout:       timeout,
		minValidScore: minValidScore,
	}
}

func (p *ProviderWithFallback) Score(ctx context.Context, designer *entity.Designer, brief *entity.Brief) (*entity.MatchResult, error) {
	result, reason, primaryErr := p.tryPrimary(ctx, designer, brief)
	if reason == "" {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	metrics.FallbackUsed.WithLabelValues(reason).Inc()
	if primaryErr != nil {
		logger.Log.WithError(primaryErr).WithField("designer_id", designer.ID).
			Warn("scoring: основной провайдер недоступен, используем резервный")
	}

	if p.fallback == nil {
		return nil, allFailed(primaryErr)
	}
	fb, err := p.fallback.Score(ctx, designer, brief)
	if err != nil {
		return nil, allFailed(errors.Join(primaryErr, err))
	}
	if fb == nil {
		return nil, allFailed(errors.Join(primaryErr, errors.New("резервный провайдер вернул пустой результат")))
	}
	return fb, nil
}

// tryPrimary возвращает пустую причину, если результат основного провайдера принят.
func (p *ProviderWithFallback) tryPrimary(ctx context.Context, designer *entity.Designer, brief *entity.Brief) (*entity.MatchResult, string, error) {
	if p.primary == nil {
		return nil, "disabled", nil
	}

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	result, err := p.primary.Score(callCtx, designer, brief)
	switch {
	case err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return nil, "timeout", err
	case err != nil:
		return nil, "error", err
	case result == nil:
		return nil, "empty", nil
	case result.Score < p.minValidScore:
		return nil, "below_threshold", nil
	}
	return result, "", nil
}

func allFailed(cause error) error {
	return apperror.Wrap(cause, apperror.ErrCodeProviderFailure, apperror.ErrAllProvidersFailed.Message)
}
