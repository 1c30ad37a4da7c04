package repository

import (
	"context"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
)

type ScoringProvider interface {
	Score(ctx context.Context, designer *entity.Designer, brief *entity.Brief) (*entity.MatchResult, error)
}

// MatchNotifier оповещает о новых подборах. Ошибки не влияют на результат подбора.
type MatchNotifier interface {
	MatchCreated(ctx context.Context, match *entity.Match) error
}
