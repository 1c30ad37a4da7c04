package valueobject

import "github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"

// DefaultTurnaroundDays используется, если у дизайнера не указан срок для категории.
const DefaultTurnaroundDays = 14

type ProjectSize string

const (
	ProjectSizeSmall  ProjectSize = "small"
	ProjectSizeMedium ProjectSize = "medium"
	ProjectSizeLarge  ProjectSize = "large"
)

func (s ProjectSize) IsValid() bool {
	switch s {
	case ProjectSizeSmall, ProjectSizeMedium, ProjectSizeLarge:
		return true
	}
	return false
}

type BudgetBand string

const (
	BudgetEntry   BudgetBand = "entry"
	BudgetMid     BudgetBand = "mid"
	BudgetPremium BudgetBand = "premium"
)

var budgetSizes = map[BudgetBand][]ProjectSize{
	BudgetEntry:   {ProjectSizeSmall},
	BudgetMid:     {ProjectSizeSmall, ProjectSizeMedium},
	BudgetPremium: {ProjectSizeMedium, ProjectSizeLarge},
}

func (b BudgetBand) IsValid() bool {
	_, ok := budgetSizes[b]
	return ok
}

// AllowedSizes возвращает размеры проектов, совместимые с бюджетом.
func (b BudgetBand) AllowedSizes() []ProjectSize {
	return budgetSizes[b]
}

// Accepts проверяет пересечение предпочтений дизайнера с бюджетом брифа.
func (b BudgetBand) Accepts(preferred []ProjectSize) bool {
	for _, allowed := range budgetSizes[b] {
		for _, p := range preferred {
			if p == allowed {
				return true
			}
		}
	}
	return false
}

func NewBudgetBand(value string) (BudgetBand, error) {
	b := BudgetBand(value)
	if !b.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный бюджетный диапазон")
	}
	return b, nil
}

type Timeline string

const (
	TimelineUrgent   Timeline = "urgent"
	TimelineStandard Timeline = "standard"
	TimelineRelaxed  Timeline = "relaxed"
	TimelineFlexible Timeline = "flexible"
)

var timelineDays = map[Timeline]int{
	TimelineUrgent:   7,
	TimelineStandard: 14,
	TimelineRelaxed:  30,
	TimelineFlexible: 60,
}

func (t Timeline) IsValid() bool {
	_, ok := timelineDays[t]
	return ok
}

// MaxDays возвращает максимально допустимый срок выполнения в днях.
func (t Timeline) MaxDays() int {
	return timelineDays[t]
}

func NewTimeline(value string) (Timeline, error) {
	t := Timeline(value)
	if !t.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный срок проекта")
	}
	return t, nil
}
