package scoring

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/ignatzorin/designmatch-backend/internal/ai"
	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/fieldcaps"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/metrics"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

const providerAI = "ai"

// AIProvider оценивает пару дизайнер/бриф через языковую модель.
// Любая ошибка сети, ответа или разбора возвращается как ошибка провайдера.
type AIProvider struct {
	completer ai.Completer
	fields    *fieldcaps.Table
	opts      ai.Options
}

func NewAIProvider(completer ai.Completer, fields *fieldcaps.Table, opts ai.Options) *AIProvider {
	if fields == nil {
		fields = fieldcaps.Default()
	}
	return &AIProvider{completer: completer, fields: fields, opts: opts}
}

type aiPayload struct {
	Score               float64  `json:"score"`
	Reasons             []string `json:"reasons"`
	PersonalizedReasons []string `json:"personalizedReasons"`
	Confidence          string   `json:"confidence"`
	MatchSummary        string   `json:"matchSummary"`
	UniqueValue         string   `json:"uniqueValue"`
	Challenges          []string `json:"challenges"`
	RiskLevel           string   `json:"riskLevel"`
}

func (p *AIProvider) Score(ctx context.Context, designer *entity.Designer, brief *entity.Brief) (*entity.MatchResult, error) {
	start := time.Now()
	result, err := p.score(ctx, designer, brief)
	metrics.ScoringDuration.WithLabelValues(providerAI).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ScoringCalls.WithLabelValues(providerAI, "error").Inc()
		return nil, err
	}
	metrics.ScoringCalls.WithLabelValues(providerAI, "ok").Inc()
	return result, nil
}

func (p *AIProvider) score(ctx context.Context, designer *entity.Designer, brief *entity.Brief) (*entity.MatchResult, error) {
	messages, err := ai.BuildMatchMessages(p.fields, designer, brief)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeProviderFailure, "не удалось собрать промпт оценки")
	}

	text, err := p.completer.Complete(ctx, messages, p.opts)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeProviderFailure, "модель оценки недоступна")
	}

	raw, err := ai.ExtractJSON(text)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeProviderFailure, "ответ модели не содержит JSON")
	}
	if err := validateResultJSON(raw); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeProviderFailure, "ответ модели не прошёл проверку схемы")
	}

	var payload aiPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeProviderFailure, "не удалось разобрать ответ модели")
	}

	result := &entity.MatchResult{
		Score:               int(math.Round(payload.Score)),
		Reasons:             cleanList(payload.Reasons),
		PersonalizedReasons: cleanList(payload.PersonalizedReasons),
		Confidence:          valueobject.Confidence(payload.Confidence),
		MatchSummary:        strings.TrimSpace(payload.MatchSummary),
		UniqueValue:         strings.TrimSpace(payload.UniqueValue),
		Challenges:          cleanList(payload.Challenges),
		RiskLevel:           valueobject.RiskLevel(payload.RiskLevel),
	}
	result.Trim()
	if err := result.Validate(); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeProviderFailure, "ответ модели вне допустимых значений")
	}
	return result, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
