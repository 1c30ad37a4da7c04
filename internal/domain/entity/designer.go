package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
)

// Designer - карточка дизайнера в каталоге. Не удаляется, отключается
// через доступность или снятие одобрения.
type Designer struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	DisplayName         string
	Email               string
	Phone               string
	Bio                 string
	PortfolioURL        string
	PrimaryCategory     string
	SecondaryCategories []string
	Styles              []string
	Industries          []string
	ProjectSizes        []valueobject.ProjectSize
	Turnaround          map[string]int
	Availability        valueobject.Availability
	Approved            bool
	Verified            bool
	Rating              float64
	CompletedProjects   int
	OnTimeRate          float64
	YearsExperience     int
	AdminNotes          string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (d *Designer) IsPrimaryCategory(category string) bool {
	return strings.EqualFold(d.PrimaryCategory, category)
}

func (d *Designer) IsSecondaryCategory(category string) bool {
	return containsFold(d.SecondaryCategories, category)
}

func (d *Designer) HasCategory(category string) bool {
	return d.IsPrimaryCategory(category) || d.IsSecondaryCategory(category)
}

func (d *Designer) ServesIndustry(industry string) bool {
	return industry != "" && containsFold(d.Industries, industry)
}

// TurnaroundFor возвращает срок в днях для категории или значение по умолчанию.
// Точное совпадение ключа важнее регистронезависимого, среди последних
// выигрывает первый ключ в лексикографическом порядке.
func (d *Designer) TurnaroundFor(category string) int {
	if days, ok := d.Turnaround[category]; ok && days > 0 {
		return days
	}

	keys := make([]string, 0, len(d.Turnaround))
	for cat := range d.Turnaround {
		keys = append(keys, cat)
	}
	sort.Strings(keys)

	for _, cat := range keys {
		if days := d.Turnaround[cat]; days > 0 && strings.EqualFold(cat, category) {
			return days
		}
	}
	return valueobject.DefaultTurnaroundDays
}

// StyleOverlap считает количество совпавших стилевых ключевых слов.
func (d *Designer) StyleOverlap(keywords []string) int {
	n := 0
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if containsFold(d.Styles, k) {
			n++
		}
	}
	return n
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}
