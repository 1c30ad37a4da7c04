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

// uniqueViolation - код ошибки PostgreSQL для нарушения уникальности.
const uniqueViolation = "23505"

type MatchRepositoryAdapter struct {
	db *sqlx.DB
}

func NewMatchRepositoryAdapter(db *sqlx.DB) *MatchRepositoryAdapter {
	return &MatchRepositoryAdapter{db: db}
}

const matchColumns = `id, brief_id, designer_id, client_id, score, reasons, personalized_reasons,
	confidence, status, created_at, updated_at`

// Create вставляет подбор. Если пара (brief, designer) уже сохранена, возвращается
// существующая запись: повторная вставка не считается ошибкой.
func (r *MatchRepositoryAdapter) Create(ctx context.Context, m *entity.Match) (*entity.Match, bool, error) {
	query := `INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (brief_id, designer_id) DO NOTHING
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRowxContext(ctx, query,
		m.ID,
		m.BriefID,
		m.DesignerID,
		m.ClientID,
		m.Score,
		pq.Array(nonNilStrings(m.Reasons)),
		pq.Array(nonNilStrings(m.PersonalizedReasons)),
		string(m.Confidence),
		string(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	).Scan(&id)

	switch {
	case err == nil:
		return m, true, nil
	case errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err):
		existing, findErr := r.findByPair(ctx, m.BriefID, m.DesignerID)
		if findErr != nil {
			return nil, false, findErr
		}
		return existing, false, nil
	default:
		return nil, false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить подбор")
	}
}

// nonNilStrings заменяет nil на пустой срез: pq.Array(nil) уходит в базу как NULL,
// а колонки причин объявлены NOT NULL.
func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (r *MatchRepositoryAdapter) findByPair(ctx context.Context, briefID, designerID uuid.UUID) (*entity.Match, error) {
	var row matchRow
	query := `SELECT ` + matchColumns + ` FROM matches WHERE brief_id = $1 AND designer_id = $2`
	if err := r.db.GetContext(ctx, &row, query, briefID, designerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrMatchNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось прочитать существующий подбор")
	}
	return row.toEntity(), nil
}

func (r *MatchRepositoryAdapter) FindByBrief(ctx context.Context, briefID uuid.UUID) ([]*entity.Match, error) {
	var rows []matchRow
	query := `SELECT ` + matchColumns + ` FROM matches WHERE brief_id = $1 ORDER BY created_at DESC, score DESC`
	if err := r.db.SelectContext(ctx, &rows, query, briefID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить подборы")
	}
	result := make([]*entity.Match, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// DesignerIDsForClient возвращает дизайнеров, уже показанных клиенту в любом статусе.
func (r *MatchRepositoryAdapter) DesignerIDsForClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT DISTINCT designer_id FROM matches WHERE client_id = $1`
	if err := r.db.SelectContext(ctx, &ids, query, clientID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить историю подборов клиента")
	}
	return ids, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type matchRow struct {
	ID                  uuid.UUID      `db:"id"`
	BriefID             uuid.UUID      `db:"brief_id"`
	DesignerID          uuid.UUID      `db:"designer_id"`
	ClientID            uuid.UUID      `db:"client_id"`
	Score               int            `db:"score"`
	Reasons             pq.StringArray `db:"reasons"`
	PersonalizedReasons pq.StringArray `db:"personalized_reasons"`
	Confidence          string         `db:"confidence"`
	Status              string         `db:"status"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (m *matchRow) toEntity() *entity.Match {
	return &entity.Match{
		ID:                  m.ID,
		BriefID:             m.BriefID,
		DesignerID:          m.DesignerID,
		ClientID:            m.ClientID,
		Score:               m.Score,
		Reasons:             []string(m.Reasons),
		PersonalizedReasons: []string(m.PersonalizedReasons),
		Confidence:          valueobject.Confidence(m.Confidence),
		Status:              valueobject.MatchStatus(m.Status),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
