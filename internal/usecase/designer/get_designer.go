package designer

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/repository"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

type GetDesignerUseCase struct {
	designerRepo repository.DesignerRepository
}

func NewGetDesignerUseCase(designerRepo repository.DesignerRepository) *GetDesignerUseCase {
	return &GetDesignerUseCase{designerRepo: designerRepo}
}

// Execute возвращает карточку дизайнера. Неодобренные карточки видит только администратор.
func (uc *GetDesignerUseCase) Execute(ctx context.Context, designerID uuid.UUID, isAdmin bool) (*entity.Designer, error) {
	d, err := uc.designerRepo.FindByID(ctx, designerID)
	if err != nil {
		return nil, err
	}
	if !d.Approved && !isAdmin {
		return nil, apperror.ErrDesignerNotFound
	}
	return d, nil
}
