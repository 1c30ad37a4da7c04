package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "postgres"), mock
}

var designerCols = []string{
	"id", "user_id", "display_name", "email", "phone", "bio", "portfolio_url",
	"primary_category", "secondary_categories", "styles", "industries", "project_sizes", "turnaround_days",
	"availability", "approved", "verified", "rating", "completed_projects", "on_time_rate", "years_experience",
	"admin_notes", "created_at", "updated_at",
}

var matchCols = []string{
	"id", "brief_id", "designer_id", "client_id", "score", "reasons", "personalized_reasons",
	"confidence", "status", "created_at", "updated_at",
}

func TestDesignerRepository_FindCandidates(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewDesignerRepositoryAdapter(conn)
	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(designerCols).AddRow(
		id.String(), uuid.New().String(), "Олег", "oleg@example.com", "", "bio", "",
		"branding", "{logo,web}", "{minimal}", "{retail}", "{small,medium}", `{"logo": 5}`,
		"busy", true, true, 4.6, 12, 0.9, 6,
		"", now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM designers WHERE approved AND verified").
		WithArgs("logo").
		WillReturnRows(rows)

	got, err := repo.FindCandidates(context.Background(), "logo")

	require.NoError(t, err)
	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, id, d.ID)
	assert.Equal(t, []string{"logo", "web"}, d.SecondaryCategories)
	assert.Equal(t, []valueobject.ProjectSize{valueobject.ProjectSizeSmall, valueobject.ProjectSizeMedium}, d.ProjectSizes)
	assert.Equal(t, 5, d.TurnaroundFor("logo"))
	assert.Equal(t, valueobject.AvailabilityBusy, d.Availability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDesignerRepository_FindCandidatesEmpty(t *testing.T) {
	conn, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM designers").WillReturnRows(sqlmock.NewRows(designerCols))

	got, err := NewDesignerRepositoryAdapter(conn).FindCandidates(context.Background(), "motion")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDesignerRepository_FindByIDNotFound(t *testing.T) {
	conn, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM designers WHERE id").WillReturnRows(sqlmock.NewRows(designerCols))

	_, err := NewDesignerRepositoryAdapter(conn).FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, apperror.ErrDesignerNotFound)
}

func TestBriefRepository_FindByID(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		dbErr   error
		wantErr apperror.ErrorCode
	}{
		{
			name: "found",
			rows: sqlmock.NewRows([]string{"id", "client_id", "category", "industry", "budget_band", "timeline", "description", "style_keywords", "created_at"}).
				AddRow(uuid.New().String(), uuid.New().String(), "logo", "retail", "entry", "urgent", "Логотип", "{minimal,bold}", time.Now()),
		},
		{
			name:    "not found",
			rows:    sqlmock.NewRows([]string{"id"}),
			wantErr: apperror.ErrCodeNotFound,
		},
		{
			name:    "db error",
			dbErr:   errors.New("connection reset"),
			wantErr: apperror.ErrCodeDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := setupMockDB(t)
			exp := mock.ExpectQuery("SELECT (.+) FROM briefs WHERE id")
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			brief, err := NewBriefRepositoryAdapter(conn).FindByID(context.Background(), uuid.New())

			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, apperror.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, valueobject.BudgetEntry, brief.Budget)
			assert.Equal(t, 7, brief.Timeline.MaxDays())
			assert.Equal(t, []string{"minimal", "bold"}, brief.StyleKeywords)
		})
	}
}

func newTestMatch() *entity.Match {
	brief := &entity.Brief{ID: uuid.New(), ClientID: uuid.New()}
	return entity.NewMatch(brief, uuid.New(), &entity.MatchResult{
		Score:      82,
		Reasons:    []string{"Совпадает категория"},
		Confidence: valueobject.ConfidenceHigh,
	})
}

func existingRow(m *entity.Match, id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows(matchCols).AddRow(
		id.String(), m.BriefID.String(), m.DesignerID.String(), m.ClientID.String(), 75,
		"{old}", "{}", "fallback", "pending", m.CreatedAt, m.UpdatedAt,
	)
}

func TestMatchRepository_CreateInserted(t *testing.T) {
	conn, mock := setupMockDB(t)
	m := newTestMatch()

	mock.ExpectQuery("INSERT INTO matches").
		WithArgs(m.ID, m.BriefID, m.DesignerID, m.ClientID, 82,
			pq.Array([]string{"Совпадает категория"}), pq.Array([]string{}),
			"high", "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(m.ID.String()))

	stored, created, err := NewMatchRepositoryAdapter(conn).Create(context.Background(), m)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, m.ID, stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepository_CreateStoresEmptyArraysInsteadOfNull(t *testing.T) {
	conn, mock := setupMockDB(t)
	brief := &entity.Brief{ID: uuid.New(), ClientID: uuid.New()}
	m := entity.NewMatch(brief, uuid.New(), &entity.MatchResult{
		Score:      61,
		Confidence: valueobject.ConfidenceFallback,
	})
	require.Nil(t, m.Reasons)
	require.Nil(t, m.PersonalizedReasons)

	mock.ExpectQuery("INSERT INTO matches").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 61,
			"{}", "{}",
			"fallback", "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(m.ID.String()))

	_, created, err := NewMatchRepositoryAdapter(conn).Create(context.Background(), m)

	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepository_CreateConflictReturnsExisting(t *testing.T) {
	conn, mock := setupMockDB(t)
	m := newTestMatch()
	existingID := uuid.New()

	mock.ExpectQuery("INSERT INTO matches").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM matches WHERE brief_id = \\$1 AND designer_id = \\$2").
		WithArgs(m.BriefID, m.DesignerID).
		WillReturnRows(existingRow(m, existingID))

	stored, created, err := NewMatchRepositoryAdapter(conn).Create(context.Background(), m)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existingID, stored.ID)
	assert.Equal(t, 75, stored.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepository_CreateUniqueViolationReturnsExisting(t *testing.T) {
	conn, mock := setupMockDB(t)
	m := newTestMatch()
	existingID := uuid.New()

	mock.ExpectQuery("INSERT INTO matches").WillReturnError(&pq.Error{Code: uniqueViolation})
	mock.ExpectQuery("SELECT (.+) FROM matches WHERE brief_id").
		WillReturnRows(existingRow(m, existingID))

	stored, created, err := NewMatchRepositoryAdapter(conn).Create(context.Background(), m)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existingID, stored.ID)
}

func TestMatchRepository_CreateOtherErrorIsPersistenceFailure(t *testing.T) {
	conn, mock := setupMockDB(t)
	mock.ExpectQuery("INSERT INTO matches").WillReturnError(&pq.Error{Code: "23503"})

	_, _, err := NewMatchRepositoryAdapter(conn).Create(context.Background(), newTestMatch())

	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
}

func TestMatchRepository_DesignerIDsForClient(t *testing.T) {
	conn, mock := setupMockDB(t)
	clientID := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT DISTINCT designer_id FROM matches WHERE client_id").
		WithArgs(clientID).
		WillReturnRows(sqlmock.NewRows([]string{"designer_id"}).AddRow(a.String()).AddRow(b.String()))

	ids, err := NewMatchRepositoryAdapter(conn).DesignerIDsForClient(context.Background(), clientID)

	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, ids)
}

func TestMatchRepository_FindByBrief(t *testing.T) {
	conn, mock := setupMockDB(t)
	m := newTestMatch()

	mock.ExpectQuery("SELECT (.+) FROM matches WHERE brief_id = \\$1 ORDER BY").
		WithArgs(m.BriefID).
		WillReturnRows(existingRow(m, m.ID))

	got, err := NewMatchRepositoryAdapter(conn).FindByBrief(context.Background(), m.BriefID)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"old"}, got[0].Reasons)
	assert.Equal(t, valueobject.MatchStatusPending, got[0].Status)
}
