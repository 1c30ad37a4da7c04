package matching

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
)

// Rejection - кандидат, отсеянный до оценки, и причина.
type Rejection struct {
	Designer *entity.Designer
	Reason   string
}

const ReasonAlreadyMatched = "уже подбирался этому клиенту"

// Exclude убирает дизайнеров, которые уже были в любом подборе клиента.
func Exclude(candidates []*entity.Designer, matched []uuid.UUID) []*entity.Designer {
	kept, _ := exclude(candidates, matched)
	return kept
}

func exclude(candidates []*entity.Designer, matched []uuid.UUID) ([]*entity.Designer, []Rejection) {
	if len(matched) == 0 {
		return candidates, nil
	}
	seen := make(map[uuid.UUID]struct{}, len(matched))
	for _, id := range matched {
		seen[id] = struct{}{}
	}

	kept := make([]*entity.Designer, 0, len(candidates))
	var dropped []Rejection
	for _, d := range candidates {
		if _, ok := seen[d.ID]; ok {
			dropped = append(dropped, Rejection{Designer: d, Reason: ReasonAlreadyMatched})
			continue
		}
		kept = append(kept, d)
	}
	return kept, dropped
}

// FilterFeasible оставляет дизайнеров, совместимых с брифом по бюджету,
// срокам и доступности.
func FilterFeasible(candidates []*entity.Designer, brief *entity.Brief) []*entity.Designer {
	kept, _ := filterFeasible(candidates, brief)
	return kept
}

func filterFeasible(candidates []*entity.Designer, brief *entity.Brief) ([]*entity.Designer, []Rejection) {
	kept := make([]*entity.Designer, 0, len(candidates))
	var dropped []Rejection
	for _, d := range candidates {
		if reason := CheckFeasibility(d, brief); reason != "" {
			dropped = append(dropped, Rejection{Designer: d, Reason: reason})
			continue
		}
		kept = append(kept, d)
	}
	return kept, dropped
}

// CheckFeasibility возвращает пустую строку, если дизайнер проходит все проверки.
func CheckFeasibility(d *entity.Designer, brief *entity.Brief) string {
	if !d.Availability.Matchable() {
		return "недоступен"
	}
	if !brief.Budget.Accepts(d.ProjectSizes) {
		return fmt.Sprintf("размер проектов %v не подходит под бюджет %s", d.ProjectSizes, brief.Budget)
	}
	// граница включительно
	if days, limit := d.TurnaroundFor(brief.Category), brief.Timeline.MaxDays(); days > limit {
		return fmt.Sprintf("срок %d дн. больше допустимых %d", days, limit)
	}
	return ""
}
