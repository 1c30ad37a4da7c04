package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
)

type MatchRepository interface {
	// Create сохраняет подбор. При конфликте по (brief, designer) возвращает
	// уже существующую запись и created=false.
	Create(ctx context.Context, match *entity.Match) (stored *entity.Match, created bool, err error)
	// FindByBrief возвращает подборы брифа, начиная с последнего.
	FindByBrief(ctx context.Context, briefID uuid.UUID) ([]*entity.Match, error)
	DesignerIDsForClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error)
}
