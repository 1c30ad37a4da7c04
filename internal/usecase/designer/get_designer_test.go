package designer_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
	"github.com/ignatzorin/designmatch-backend/internal/usecase/designer"
)

type MockDesignerRepository struct {
	mock.Mock
}

func (m *MockDesignerRepository) FindCandidates(ctx context.Context, category string) ([]*entity.Designer, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]*entity.Designer), args.Error(1)
}

func (m *MockDesignerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Designer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Designer), args.Error(1)
}

func TestGetDesigner_Approved(t *testing.T) {
	repo := new(MockDesignerRepository)
	d := &entity.Designer{ID: uuid.New(), Approved: true}
	repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)

	got, err := designer.NewGetDesignerUseCase(repo).Execute(context.Background(), d.ID, false)

	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestGetDesigner_UnapprovedHiddenFromClients(t *testing.T) {
	repo := new(MockDesignerRepository)
	d := &entity.Designer{ID: uuid.New()}
	repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	uc := designer.NewGetDesignerUseCase(repo)

	_, err := uc.Execute(context.Background(), d.ID, false)
	assert.ErrorIs(t, err, apperror.ErrDesignerNotFound)

	got, err := uc.Execute(context.Background(), d.ID, true)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
}

func TestGetDesigner_NotFound(t *testing.T) {
	repo := new(MockDesignerRepository)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, apperror.ErrDesignerNotFound)

	_, err := designer.NewGetDesignerUseCase(repo).Execute(context.Background(), id, false)

	assert.True(t, apperror.IsNotFound(err))
}
