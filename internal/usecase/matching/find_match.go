package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/repository"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/goroutine"
	"github.com/ignatzorin/designmatch-backend/internal/logger"
	"github.com/ignatzorin/designmatch-backend/internal/metrics"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
)

const MaxAlternatives = 5

type Status string

const (
	StatusMatched           Status = "matched"
	StatusExisting          Status = "existing"
	StatusNoSuitableMatches Status = "no_suitable_matches"
)

type FindMatchInput struct {
	BriefID uuid.UUID
	UserID  uuid.UUID
	IsAdmin bool
	Rematch bool
	// Alternatives < 0 означает значение из конфигурации.
	Alternatives int
}

type FindMatchResult struct {
	RunID        string
	Status       Status
	Match        *entity.Match
	Designer     *entity.Designer
	Result       *entity.MatchResult
	Alternatives []Candidate
	Created      bool
}

// PhaseUpdate - очередной этап прогрессивной выдачи.
type PhaseUpdate struct {
	Phase        valueobject.Phase
	Status       Status
	Best         *Candidate
	Match        *entity.Match
	Confidence   valueobject.Confidence
	Elapsed      time.Duration
	Alternatives []Candidate
}

// Emitter получает этапы в порядке instant, refined, final. Ошибка означает,
// что получатель больше не слушает.
type Emitter func(PhaseUpdate) error

type Config struct {
	Concurrency  int
	Alternatives int
}

type FindMatchUseCase struct {
	briefs    repository.BriefRepository
	designers repository.DesignerRepository
	matches   repository.MatchRepository
	scorer    repository.ScoringProvider
	quick     repository.ScoringProvider
	notifier  repository.MatchNotifier
	cfg       Config
}

// NewFindMatchUseCase: scorer выполняет полную оценку, quick - быструю
// локальную для этапа instant. notifier может быть nil.
func NewFindMatchUseCase(
	briefs repository.BriefRepository,
	designers repository.DesignerRepository,
	matches repository.MatchRepository,
	scorer repository.ScoringProvider,
	quick repository.ScoringProvider,
	notifier repository.MatchNotifier,
	cfg Config,
) *FindMatchUseCase {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	cfg.Alternatives = clampAlternatives(cfg.Alternatives)
	return &FindMatchUseCase{
		briefs:    briefs,
		designers: designers,
		matches:   matches,
		scorer:    scorer,
		quick:     quick,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Execute выполняет подбор без прогрессивной выдачи.
func (uc *FindMatchUseCase) Execute(ctx context.Context, input FindMatchInput) (*FindMatchResult, error) {
	return uc.Stream(ctx, input, nil)
}

// Stream выполняет подбор и передаёт этапы в emit по мере готовности.
func (uc *FindMatchUseCase) Stream(ctx context.Context, input FindMatchInput, emit Emitter) (*FindMatchResult, error) {
	r := &run{
		id:    uuid.NewString(),
		start: time.Now(),
		emit:  emit,
	}
	r.log = logger.WithRun(r.id, input.BriefID.String())

	result, err := uc.run(ctx, r, input)
	if err != nil {
		outcome := string(apperror.CodeOf(err))
		if ctx.Err() != nil {
			outcome = "canceled"
		}
		metrics.MatchRuns.WithLabelValues(outcome).Inc()
		r.log.WithError(err).Warn("matching: подбор завершён с ошибкой")
		return nil, err
	}
	metrics.MatchRuns.WithLabelValues(string(result.Status)).Inc()
	r.log.WithFields(logrus.Fields{
		"status":     result.Status,
		"created":    result.Created,
		"elapsed_ms": time.Since(r.start).Milliseconds(),
	}).Info("matching: подбор завершён")
	return result, nil
}

func (uc *FindMatchUseCase) run(ctx context.Context, r *run, input FindMatchInput) (*FindMatchResult, error) {
	brief, err := uc.briefs.FindByID(ctx, input.BriefID)
	if err != nil {
		return nil, err
	}
	if !input.IsAdmin && !brief.OwnedBy(input.UserID) {
		return nil, apperror.ErrForbidden
	}

	if !input.Rematch {
		existing, err := uc.existingMatch(ctx, r, brief)
		if err != nil || existing != nil {
			return existing, err
		}
	}

	candidates, _, err := uc.collect(ctx, brief)
	if err != nil {
		return nil, err
	}
	metrics.CandidatesConsidered.Observe(float64(len(candidates)))
	r.log.WithField("candidates", len(candidates)).Debug("matching: фильтры применены")

	if len(candidates) == 0 {
		r.send(PhaseUpdate{Phase: valueobject.PhaseFinal, Status: StatusNoSuitableMatches})
		return &FindMatchResult{RunID: r.id, Status: StatusNoSuitableMatches}, nil
	}

	instant := uc.instantPick(ctx, brief, candidates)
	if instant != nil {
		r.send(PhaseUpdate{
			Phase:      valueobject.PhaseInstant,
			Status:     StatusMatched,
			Best:       instant,
			Confidence: instant.Result.Confidence,
		})
	}

	scored, err := uc.scoreAll(ctx, brief, candidates, func(c Candidate) {
		if instant != nil && c.Designer.ID == instant.Designer.ID {
			r.send(PhaseUpdate{
				Phase:      valueobject.PhaseRefined,
				Status:     StatusMatched,
				Best:       &c,
				Confidence: c.Result.Confidence,
			})
		}
	}, r.log)
	if err != nil {
		return nil, err
	}

	ranked := Rank(scored)
	top := ranked[0]
	alternatives := ranked[1:]
	if n := uc.alternativesFor(input); len(alternatives) > n {
		alternatives = alternatives[:n]
	}

	stored, created, err := uc.matches.Create(ctx, entity.NewMatch(brief, top.Designer.ID, top.Result))
	if err != nil {
		return nil, err
	}
	if created {
		uc.notify(ctx, r, stored)
	} else {
		r.log.WithField("match_id", stored.ID).Info("matching: подбор уже существовал, возвращаем сохранённый")
	}

	r.send(PhaseUpdate{
		Phase:        valueobject.PhaseFinal,
		Status:       StatusMatched,
		Best:         &top,
		Match:        stored,
		Confidence:   top.Result.Confidence,
		Alternatives: alternatives,
	})

	return &FindMatchResult{
		RunID:        r.id,
		Status:       StatusMatched,
		Match:        stored,
		Designer:     top.Designer,
		Result:       top.Result,
		Alternatives: alternatives,
		Created:      created,
	}, nil
}

// existingMatch возвращает последний сохранённый подбор брифа, если он есть.
func (uc *FindMatchUseCase) existingMatch(ctx context.Context, r *run, brief *entity.Brief) (*FindMatchResult, error) {
	existing, err := uc.matches.FindByBrief(ctx, brief.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, nil
	}

	m := existing[0]
	d, err := uc.designers.FindByID(ctx, m.DesignerID)
	if err != nil {
		return nil, err
	}
	result := &entity.MatchResult{
		Score:               m.Score,
		Reasons:             m.Reasons,
		PersonalizedReasons: m.PersonalizedReasons,
		Confidence:          m.Confidence,
	}
	best := Candidate{Designer: d, Result: result}

	r.send(PhaseUpdate{
		Phase:      valueobject.PhaseFinal,
		Status:     StatusExisting,
		Best:       &best,
		Match:      m,
		Confidence: m.Confidence,
	})
	return &FindMatchResult{
		RunID:    r.id,
		Status:   StatusExisting,
		Match:    m,
		Designer: d,
		Result:   result,
	}, nil
}

// collect загружает кандидатов категории и применяет фильтры исключения и выполнимости.
func (uc *FindMatchUseCase) collect(ctx context.Context, brief *entity.Brief) ([]*entity.Designer, []Rejection, error) {
	candidates, err := uc.designers.FindCandidates(ctx, brief.Category)
	if err != nil {
		return nil, nil, err
	}
	matched, err := uc.matches.DesignerIDsForClient(ctx, brief.ClientID)
	if err != nil {
		return nil, nil, err
	}

	kept, excluded := exclude(candidates, matched)
	kept, infeasible := filterFeasible(kept, brief)
	return kept, append(excluded, infeasible...), nil
}

// instantPick выбирает лидера быстрой оценкой без внешних вызовов.
func (uc *FindMatchUseCase) instantPick(ctx context.Context, brief *entity.Brief, candidates []*entity.Designer) *Candidate {
	if uc.quick == nil {
		return nil
	}
	quick := make([]Candidate, 0, len(candidates))
	for _, d := range candidates {
		res, err := uc.quick.Score(ctx, d, brief)
		if err != nil || res == nil {
			continue
		}
		quick = append(quick, Candidate{Designer: d, Result: res})
	}
	if len(quick) == 0 {
		return nil
	}
	best := Rank(quick)[0]
	return &best
}

type scoreOutcome struct {
	candidate Candidate
	err       error
}

// scoreAll оценивает кандидатов параллельно. Ошибка отдельного кандидата
// исключает его из ранжирования; подбор прерывается, только если не
// удалось оценить никого.
func (uc *FindMatchUseCase) scoreAll(
	ctx context.Context,
	brief *entity.Brief,
	candidates []*entity.Designer,
	onScored func(Candidate),
	log *logrus.Entry,
) ([]Candidate, error) {
	outcomes := make(chan scoreOutcome, len(candidates))
	sem := make(chan struct{}, uc.cfg.Concurrency)

	for _, d := range candidates {
		goroutine.SafeGo(func() {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				outcomes <- scoreOutcome{candidate: Candidate{Designer: d}, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			res, err := uc.scorer.Score(ctx, d, brief)
			if err == nil && res == nil {
				err = fmt.Errorf("пустой результат оценки")
			}
			outcomes <- scoreOutcome{candidate: Candidate{Designer: d, Result: res}, err: err}
		}, func(recovered any) {
			outcomes <- scoreOutcome{candidate: Candidate{Designer: d}, err: fmt.Errorf("panic: %v", recovered)}
		})
	}

	scored := make([]Candidate, 0, len(candidates))
	var lastErr error
	for range candidates {
		var out scoreOutcome
		select {
		case out = <-outcomes:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if out.err != nil {
			lastErr = out.err
			log.WithError(out.err).WithField("designer_id", out.candidate.Designer.ID).
				Warn("matching: кандидат не оценён, исключаем из ранжирования")
			continue
		}
		if err := out.candidate.Result.Validate(); err != nil {
			lastErr = err
			continue
		}
		scored = append(scored, out.candidate)
		if onScored != nil {
			onScored(out.candidate)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, apperror.Wrap(lastErr, apperror.ErrCodeProviderFailure, apperror.ErrAllProvidersFailed.Message)
	}
	return scored, nil
}

func (uc *FindMatchUseCase) notify(ctx context.Context, r *run, m *entity.Match) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.MatchCreated(ctx, m); err != nil {
		r.log.WithError(err).WithField("match_id", m.ID).Warn("matching: не удалось отправить уведомление")
	}
}

func (uc *FindMatchUseCase) alternativesFor(input FindMatchInput) int {
	if input.Alternatives < 0 {
		return uc.cfg.Alternatives
	}
	return clampAlternatives(input.Alternatives)
}

func clampAlternatives(n int) int {
	return max(0, min(n, MaxAlternatives))
}
