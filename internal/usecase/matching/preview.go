package matching

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/logger"
)

// PreviewReport - результат пробного подбора без сохранения.
type PreviewReport struct {
	Brief    *entity.Brief
	Ranked   []Candidate
	Rejected []Rejection
	Elapsed  time.Duration
}

// Preview прогоняет фильтры и оценку для брифа, ничего не записывая.
// Проверка владельца не выполняется: инструмент предназначен для администраторов.
func (uc *FindMatchUseCase) Preview(ctx context.Context, briefID uuid.UUID) (*PreviewReport, error) {
	start := time.Now()
	log := logger.WithRun(uuid.NewString(), briefID.String())

	brief, err := uc.briefs.FindByID(ctx, briefID)
	if err != nil {
		return nil, err
	}

	candidates, rejected, err := uc.collect(ctx, brief)
	if err != nil {
		return nil, err
	}

	report := &PreviewReport{Brief: brief, Rejected: rejected}
	if len(candidates) > 0 {
		scored, err := uc.scoreAll(ctx, brief, candidates, nil, log)
		if err != nil {
			return nil, err
		}
		report.Ranked = Rank(scored)
	}
	report.Elapsed = time.Since(start)
	return report, nil
}
