package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

type BriefRepositoryAdapter struct {
	db *sqlx.DB
}

func NewBriefRepositoryAdapter(db *sqlx.DB) *BriefRepositoryAdapter {
	return &BriefRepositoryAdapter{db: db}
}

func (r *BriefRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Brief, error) {
	var b briefRow
	query := `SELECT id, client_id, category, industry, budget_band, timeline, description, style_keywords, created_at
		FROM briefs WHERE id = $1`
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrBriefNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить бриф")
	}
	return b.toEntity(), nil
}

type briefRow struct {
	ID            uuid.UUID      `db:"id"`
	ClientID      uuid.UUID      `db:"client_id"`
	Category      string         `db:"category"`
	Industry      string         `db:"industry"`
	BudgetBand    string         `db:"budget_band"`
	Timeline      string         `db:"timeline"`
	Description   string         `db:"description"`
	StyleKeywords pq.StringArray `db:"style_keywords"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (b *briefRow) toEntity() *entity.Brief {
	return &entity.Brief{
		ID:            b.ID,
		ClientID:      b.ClientID,
		Category:      b.Category,
		Industry:      b.Industry,
		Budget:        valueobject.BudgetBand(b.BudgetBand),
		Timeline:      valueobject.Timeline(b.Timeline),
		Description:   b.Description,
		StyleKeywords: []string(b.StyleKeywords),
		CreatedAt:     b.CreatedAt,
	}
}
