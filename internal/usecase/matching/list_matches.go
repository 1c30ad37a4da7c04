package matching

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/repository"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

type ListMatchesUseCase struct {
	briefs  repository.BriefRepository
	matches repository.MatchRepository
}

func NewListMatchesUseCase(briefs repository.BriefRepository, matches repository.MatchRepository) *ListMatchesUseCase {
	return &ListMatchesUseCase{briefs: briefs, matches: matches}
}

// Execute возвращает сохранённые подборы брифа, начиная с последнего.
func (uc *ListMatchesUseCase) Execute(ctx context.Context, briefID, userID uuid.UUID, isAdmin bool) ([]*entity.Match, error) {
	brief, err := uc.briefs.FindByID(ctx, briefID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !brief.OwnedBy(userID) {
		return nil, apperror.ErrForbidden
	}
	return uc.matches.FindByBrief(ctx, briefID)
}
