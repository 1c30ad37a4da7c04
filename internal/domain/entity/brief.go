package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

// Brief - запрос клиента на проект. Для подбора не изменяется:
// правка брифа создаёт новый цикл подбора.
type Brief struct {
	ID            uuid.UUID
	ClientID      uuid.UUID
	Category      string
	Industry      string
	Budget        valueobject.BudgetBand
	Timeline      valueobject.Timeline
	Description   string
	StyleKeywords []string
	CreatedAt     time.Time
}

func NewBrief(clientID uuid.UUID, category, industry, budget, timeline, description string, styles []string) (*Brief, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "категория проекта обязательна")
	}

	band, err := valueobject.NewBudgetBand(budget)
	if err != nil {
		return nil, err
	}
	tl, err := valueobject.NewTimeline(timeline)
	if err != nil {
		return nil, err
	}

	return &Brief{
		ID:            uuid.New(),
		ClientID:      clientID,
		Category:      category,
		Industry:      strings.TrimSpace(industry),
		Budget:        band,
		Timeline:      tl,
		Description:   description,
		StyleKeywords: styles,
		CreatedAt:     time.Now(),
	}, nil
}

func (b *Brief) OwnedBy(userID uuid.UUID) bool {
	return b.ClientID == userID
}
