package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/repository"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/logger"
	"github.com/ignatzorin/designmatch-backend/internal/metrics"
)

// CachedProvider кэширует успешные оценки в Redis по паре бриф/дизайнер.
// Недоступность Redis не мешает оценке.
type CachedProvider struct {
	next  repository.ScoringProvider
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedProvider(next repository.ScoringProvider, client *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, redis: client, ttl: ttl}
}

type cachedResult struct {
	Score               int      `json:"score"`
	Reasons             []string `json:"reasons"`
	PersonalizedReasons []string `json:"personalized_reasons"`
	Confidence          string   `json:"confidence"`
	MatchSummary        string   `json:"match_summary,omitempty"`
	UniqueValue         string   `json:"unique_value,omitempty"`
	Challenges          []string `json:"challenges,omitempty"`
	RiskLevel           string   `json:"risk_level,omitempty"`
}

func CacheKey(briefID, designerID fmt.Stringer) string {
	return fmt.Sprintf("match:score:%s:%s", briefID, designerID)
}

func (p *CachedProvider) Score(ctx context.Context, designer *entity.Designer, brief *entity.Brief) (*entity.MatchResult, error) {
	key := CacheKey(brief.ID, designer.ID)

	if val, err := p.redis.Get(ctx, key).Result(); err == nil {
		var cached cachedResult
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
			metrics.ScoreCacheLookups.WithLabelValues("hit").Inc()
			return cached.toEntity(), nil
		}
		metrics.ScoreCacheLookups.WithLabelValues("corrupt").Inc()
	} else if !errors.Is(err, redis.Nil) {
		metrics.ScoreCacheLookups.WithLabelValues("error").Inc()
		logger.Log.WithError(err).Warn("scoring: кэш оценок недоступен")
	} else {
		metrics.ScoreCacheLookups.WithLabelValues("miss").Inc()
	}

	result, err := p.next.Score(ctx, designer, brief)
	if err != nil || result == nil {
		return result, err
	}

	data, err := json.Marshal(fromEntity(result))
	if err == nil {
		if setErr := p.redis.Set(ctx, key, data, p.ttl).Err(); setErr != nil {
			logger.Log.WithError(setErr).Warn("scoring: не удалось сохранить оценку в кэш")
		}
	}
	return result, nil
}

func fromEntity(r *entity.MatchResult) cachedResult {
	return cachedResult{
		Score:               r.Score,
		Reasons:             r.Reasons,
		PersonalizedReasons: r.PersonalizedReasons,
		Confidence:          string(r.Confidence),
		MatchSummary:        r.MatchSummary,
		UniqueValue:         r.UniqueValue,
		Challenges:          r.Challenges,
		RiskLevel:           string(r.RiskLevel),
	}
}

func (c cachedResult) toEntity() *entity.MatchResult {
	return &entity.MatchResult{
		Score:               c.Score,
		Reasons:             c.Reasons,
		PersonalizedReasons: c.PersonalizedReasons,
		Confidence:          valueobject.Confidence(c.Confidence),
		MatchSummary:        c.MatchSummary,
		UniqueValue:         c.UniqueValue,
		Challenges:          c.Challenges,
		RiskLevel:           valueobject.RiskLevel(c.RiskLevel),
	}
}
