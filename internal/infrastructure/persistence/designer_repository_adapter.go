package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

type DesignerRepositoryAdapter struct {
	db *sqlx.DB
}

func NewDesignerRepositoryAdapter(db *sqlx.DB) *DesignerRepositoryAdapter {
	return &DesignerRepositoryAdapter{db: db}
}

const designerColumns = `id, user_id, display_name, email, phone, bio, portfolio_url,
	primary_category, secondary_categories, styles, industries, project_sizes, turnaround_days,
	availability, approved, verified, rating, completed_projects, on_time_rate, years_experience,
	admin_notes, created_at, updated_at`

func (r *DesignerRepositoryAdapter) FindCandidates(ctx context.Context, category string) ([]*entity.Designer, error) {
	var rows []designerRow
	query := `SELECT ` + designerColumns + `
		FROM designers
		WHERE approved AND verified
		  AND availability IN ('available', 'busy')
		  AND (LOWER(primary_category) = LOWER($1)
		       OR LOWER($1) = ANY (SELECT LOWER(c) FROM UNNEST(secondary_categories) AS c))
		ORDER BY rating DESC, id`
	if err := r.db.SelectContext(ctx, &rows, query, category); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить кандидатов")
	}

	result := make([]*entity.Designer, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *DesignerRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Designer, error) {
	var d designerRow
	query := `SELECT ` + designerColumns + ` FROM designers WHERE id = $1`
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrDesignerNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить дизайнера")
	}
	return d.toEntity(), nil
}

// turnaroundMap хранит сроки по категориям в JSONB колонке.
type turnaroundMap map[string]int

func (t *turnaroundMap) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*t = turnaroundMap{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("turnaround_days: неподдерживаемый тип %T", src)
	}
	m := map[string]int{}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("turnaround_days: %w", err)
	}
	*t = m
	return nil
}

func (t turnaroundMap) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]int(t))
}

type designerRow struct {
	ID                  uuid.UUID      `db:"id"`
	UserID              uuid.UUID      `db:"user_id"`
	DisplayName         string         `db:"display_name"`
	Email               string         `db:"email"`
	Phone               string         `db:"phone"`
	Bio                 string         `db:"bio"`
	PortfolioURL        string         `db:"portfolio_url"`
	PrimaryCategory     string         `db:"primary_category"`
	SecondaryCategories pq.StringArray `db:"secondary_categories"`
	Styles              pq.StringArray `db:"styles"`
	Industries          pq.StringArray `db:"industries"`
	ProjectSizes        pq.StringArray `db:"project_sizes"`
	TurnaroundDays      turnaroundMap  `db:"turnaround_days"`
	Availability        string         `db:"availability"`
	Approved            bool           `db:"approved"`
	Verified            bool           `db:"verified"`
	Rating              float64        `db:"rating"`
	CompletedProjects   int            `db:"completed_projects"`
	OnTimeRate          float64        `db:"on_time_rate"`
	YearsExperience     int            `db:"years_experience"`
	AdminNotes          string         `db:"admin_notes"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (d *designerRow) toEntity() *entity.Designer {
	sizes := make([]valueobject.ProjectSize, 0, len(d.ProjectSizes))
	for _, s := range d.ProjectSizes {
		sizes = append(sizes, valueobject.ProjectSize(s))
	}
	return &entity.Designer{
		ID:                  d.ID,
		UserID:              d.UserID,
		DisplayName:         d.DisplayName,
		Email:               d.Email,
		Phone:               d.Phone,
		Bio:                 d.Bio,
		PortfolioURL:        d.PortfolioURL,
		PrimaryCategory:     d.PrimaryCategory,
		SecondaryCategories: []string(d.SecondaryCategories),
		Styles:              []string(d.Styles),
		Industries:          []string(d.Industries),
		ProjectSizes:        sizes,
		Turnaround:          map[string]int(d.TurnaroundDays),
		Availability:        valueobject.Availability(d.Availability),
		Approved:            d.Approved,
		Verified:            d.Verified,
		Rating:              d.Rating,
		CompletedProjects:   d.CompletedProjects,
		OnTimeRate:          d.OnTimeRate,
		YearsExperience:     d.YearsExperience,
		AdminNotes:          d.AdminNotes,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}
