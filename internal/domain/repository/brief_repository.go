package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
)

type BriefRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Brief, error)
}
