package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

const (
	MaxReasons             = 3
	MaxPersonalizedReasons = 5
)

type Match struct {
	ID                  uuid.UUID
	BriefID             uuid.UUID
	DesignerID          uuid.UUID
	ClientID            uuid.UUID
	Score               int
	Reasons             []string
	PersonalizedReasons []string
	Confidence          valueobject.Confidence
	Status              valueobject.MatchStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewMatch переносит результат оценки в запись подбора.
func NewMatch(brief *Brief, designerID uuid.UUID, result *MatchResult) *Match {
	now := time.Now()
	return &Match{
		ID:                  uuid.New(),
		BriefID:             brief.ID,
		DesignerID:          designerID,
		ClientID:            brief.ClientID,
		Score:               result.Score,
		Reasons:             result.Reasons,
		PersonalizedReasons: result.PersonalizedReasons,
		Confidence:          result.Confidence,
		Status:              valueobject.MatchStatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (m *Match) Unlock() error {
	if !m.Status.CanTransitionTo(valueobject.MatchStatusUnlocked) {
		return apperror.New(apperror.ErrCodeBadRequest, "невозможно открыть подбор в текущем статусе")
	}
	m.Status = valueobject.MatchStatusUnlocked
	m.UpdatedAt = time.Now()
	return nil
}

func (m *Match) Accept() error {
	if !m.Status.CanTransitionTo(valueobject.MatchStatusAccepted) {
		return apperror.New(apperror.ErrCodeBadRequest, "невозможно принять подбор в текущем статусе")
	}
	m.Status = valueobject.MatchStatusAccepted
	m.UpdatedAt = time.Now()
	return nil
}

// MatchResult - результат оценки пары дизайнер/бриф до сохранения.
type MatchResult struct {
	Score               int
	Reasons             []string
	PersonalizedReasons []string
	Confidence          valueobject.Confidence
	MatchSummary        string
	UniqueValue         string
	Challenges          []string
	RiskLevel           valueobject.RiskLevel
}

// Validate проверяет диапазон оценки и уровень уверенности.
func (r *MatchResult) Validate() error {
	if r.Score < 0 || r.Score > 100 {
		return apperror.New(apperror.ErrCodeValidation, "оценка должна быть в диапазоне 0..100")
	}
	if !r.Confidence.IsValid() {
		return apperror.New(apperror.ErrCodeValidation, "некорректный уровень уверенности")
	}
	return nil
}

// Trim обрезает списки причин до допустимой длины.
func (r *MatchResult) Trim() {
	if len(r.Reasons) > MaxReasons {
		r.Reasons = r.Reasons[:MaxReasons]
	}
	if len(r.PersonalizedReasons) > MaxPersonalizedReasons {
		r.PersonalizedReasons = r.PersonalizedReasons[:MaxPersonalizedReasons]
	}
}
