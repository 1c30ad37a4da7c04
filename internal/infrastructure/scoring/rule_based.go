package scoring

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/metrics"
)

const providerRuleBased = "rule_based"

const (
	RuleBaseScore = 58
	RuleMinScore  = 50
	RuleMaxScore  = 98

	bonusPrimaryCategory   = 10
	bonusSecondaryCategory = 5
	bonusIndustry          = 8
	bonusAvailable         = 5
	maxExperienceBonus     = 8
	ratingMidpoint         = 3.0
	ratingWeight           = 4.0
	styleBonusPerKeyword   = 3
	maxStyleBonus          = 9
)

// RuleBasedProvider - детерминированная оценка без внешних вызовов.
// Небольшой случайный сдвиг разводит одинаковые оценки разных кандидатов.
type RuleBasedProvider struct {
	jitter int

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRuleBasedProvider(jitter int) *RuleBasedProvider {
	seed := uint64(time.Now().UnixNano())
	return NewRuleBasedProviderWithSource(jitter, rand.NewPCG(seed, seed>>1))
}

// NewRuleBasedProviderWithSource позволяет зафиксировать источник случайности.
func NewRuleBasedProviderWithSource(jitter int, src rand.Source) *RuleBasedProvider {
	if jitter < 0 {
		jitter = 0
	}
	return &RuleBasedProvider{jitter: jitter, rnd: rand.New(src)}
}

func (p *RuleBasedProvider) Score(_ context.Context, designer *entity.Designer, brief *entity.Brief) (*entity.MatchResult, error) {
	score, reasons, personalized := p.Evaluate(designer, brief)
	score += p.nextJitter()

	metrics.ScoringCalls.WithLabelValues(providerRuleBased, "ok").Inc()
	return &entity.MatchResult{
		Score:               clamp(score, RuleMinScore, RuleMaxScore),
		Reasons:             reasons,
		PersonalizedReasons: personalized,
		Confidence:          valueobject.ConfidenceFallback,
		MatchSummary:        fmt.Sprintf("%s: %s", designer.DisplayName, designer.PrimaryCategory),
		RiskLevel:           riskFor(designer),
	}, nil
}

// Evaluate считает оценку без случайного сдвига и ограничения диапазона.
func (p *RuleBasedProvider) Evaluate(designer *entity.Designer, brief *entity.Brief) (int, []string, []string) {
	score := float64(RuleBaseScore)
	reasons, personalized := []string{}, []string{}

	switch {
	case designer.IsPrimaryCategory(brief.Category):
		score += bonusPrimaryCategory
		reasons = append(reasons, "Основная специализация совпадает с задачей")
		personalized = append(personalized, fmt.Sprintf("%s - основное направление дизайнера", brief.Category))
	case designer.IsSecondaryCategory(brief.Category):
		score += bonusSecondaryCategory
		reasons = append(reasons, "Есть опыт в нужной категории")
	}

	if designer.ServesIndustry(brief.Industry) {
		score += bonusIndustry
		reasons = append(reasons, "Работал с вашей отраслью")
		personalized = append(personalized, fmt.Sprintf("Опыт в отрасли «%s»", brief.Industry))
	}

	if designer.Availability == valueobject.AvailabilityAvailable {
		score += bonusAvailable
		personalized = append(personalized, "Готов приступить без ожидания")
	}

	if years := designer.YearsExperience; years > 0 {
		score += float64(min(years, maxExperienceBonus))
		personalized = append(personalized, fmt.Sprintf("Опыт работы: %d лет", years))
	}

	if designer.Rating > ratingMidpoint {
		score += (designer.Rating - ratingMidpoint) * ratingWeight
		reasons = append(reasons, fmt.Sprintf("Высокий рейтинг: %.1f", designer.Rating))
	}

	if overlap := designer.StyleOverlap(brief.StyleKeywords); overlap > 0 {
		score += float64(min(overlap*styleBonusPerKeyword, maxStyleBonus))
		reasons = append(reasons, "Стиль совпадает с вашими пожеланиями")
		personalized = append(personalized, fmt.Sprintf("Совпадение по стилю: %d из %d", overlap, len(brief.StyleKeywords)))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Подходит по бюджету и срокам")
	}
	if len(reasons) > entity.MaxReasons {
		reasons = reasons[:entity.MaxReasons]
	}
	if len(personalized) > entity.MaxPersonalizedReasons {
		personalized = personalized[:entity.MaxPersonalizedReasons]
	}

	return int(math.Round(score)), reasons, personalized
}

func (p *RuleBasedProvider) nextJitter() int {
	if p.jitter == 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.IntN(2*p.jitter+1) - p.jitter
}

func riskFor(d *entity.Designer) valueobject.RiskLevel {
	switch {
	case d.CompletedProjects == 0:
		return valueobject.RiskHigh
	case d.OnTimeRate > 0 && d.OnTimeRate < 0.8:
		return valueobject.RiskMedium
	}
	return valueobject.RiskLow
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
