package matching

import (
	"sort"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
)

// Candidate - дизайнер с результатом оценки.
type Candidate struct {
	Designer *entity.Designer
	Result   *entity.MatchResult
}

// Rank сортирует по оценке, затем по рейтингу и опыту. Идентификатор
// закрепляет порядок при полном совпадении.
func Rank(candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return better(ranked[i], ranked[j])
	})
	return ranked
}

func better(a, b Candidate) bool {
	if a.Result.Score != b.Result.Score {
		return a.Result.Score > b.Result.Score
	}
	if a.Designer.Rating != b.Designer.Rating {
		return a.Designer.Rating > b.Designer.Rating
	}
	if a.Designer.YearsExperience != b.Designer.YearsExperience {
		return a.Designer.YearsExperience > b.Designer.YearsExperience
	}
	return a.Designer.ID.String() < b.Designer.ID.String()
}
