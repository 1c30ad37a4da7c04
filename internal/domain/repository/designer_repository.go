package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
)

type DesignerRepository interface {
	// FindCandidates возвращает одобренных и верифицированных дизайнеров категории
	// со статусом available или busy. Пустой результат не является ошибкой.
	FindCandidates(ctx context.Context, category string) ([]*entity.Designer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Designer, error)
}
