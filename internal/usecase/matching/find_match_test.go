package matching_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/domain/valueobject"
	"github.com/ignatzorin/designmatch-backend/internal/infrastructure/scoring"
	"github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"
	"github.com/ignatzorin/designmatch-backend/internal/usecase/matching"
)

type mockBriefRepository struct {
	briefs map[uuid.UUID]*entity.Brief
}

func (m *mockBriefRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Brief, error) {
	if b, ok := m.briefs[id]; ok {
		return b, nil
	}
	return nil, apperror.ErrBriefNotFound
}

type mockDesignerRepository struct {
	designers []*entity.Designer
}

func (m *mockDesignerRepository) FindCandidates(ctx context.Context, category string) ([]*entity.Designer, error) {
	var out []*entity.Designer
	for _, d := range m.designers {
		if d.Approved && d.Verified && d.Availability.Matchable() && d.HasCategory(category) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDesignerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Designer, error) {
	for _, d := range m.designers {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, apperror.ErrDesignerNotFound
}

type pairKey struct{ brief, designer uuid.UUID }

type mockMatchRepository struct {
	mu      sync.Mutex
	rows    map[pairKey]*entity.Match
	order   []*entity.Match
	failErr error
}

func newMockMatchRepository() *mockMatchRepository {
	return &mockMatchRepository{rows: make(map[pairKey]*entity.Match)}
}

func (m *mockMatchRepository) Create(ctx context.Context, match *entity.Match) (*entity.Match, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, false, m.failErr
	}
	key := pairKey{match.BriefID, match.DesignerID}
	if existing, ok := m.rows[key]; ok {
		return existing, false, nil
	}
	m.rows[key] = match
	m.order = append(m.order, match)
	return match, true, nil
}

func (m *mockMatchRepository) FindByBrief(ctx context.Context, briefID uuid.UUID) ([]*entity.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Match
	for i := len(m.order) - 1; i >= 0; i-- {
		if m.order[i].BriefID == briefID {
			out = append(out, m.order[i])
		}
	}
	return out, nil
}

func (m *mockMatchRepository) DesignerIDsForClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uuid.UUID
	for _, row := range m.order {
		if row.ClientID == clientID {
			out = append(out, row.DesignerID)
		}
	}
	return out, nil
}

func (m *mockMatchRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

type scorerFunc func(ctx context.Context, d *entity.Designer, b *entity.Brief) (*entity.MatchResult, error)

func (f scorerFunc) Score(ctx context.Context, d *entity.Designer, b *entity.Brief) (*entity.MatchResult, error) {
	return f(ctx, d, b)
}

func fixedScores(scores map[uuid.UUID]int) scorerFunc {
	return func(ctx context.Context, d *entity.Designer, b *entity.Brief) (*entity.MatchResult, error) {
		s, ok := scores[d.ID]
		if !ok {
			return nil, errors.New("нет оценки")
		}
		return &entity.MatchResult{Score: s, Reasons: []string{"test"}, Confidence: valueobject.ConfidenceHigh}, nil
	}
}

type mockNotifier struct {
	mu      sync.Mutex
	created []*entity.Match
}

func (n *mockNotifier) MatchCreated(ctx context.Context, m *entity.Match) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, m)
	return nil
}

type fixture struct {
	brief     *entity.Brief
	briefs    *mockBriefRepository
	designers *mockDesignerRepository
	matches   *mockMatchRepository
	notifier  *mockNotifier
	d1, d2    *entity.Designer
	d3        *entity.Designer
}

func feasibleDesigner(name string, rating float64) *entity.Designer {
	return &entity.Designer{
		ID:              uuid.New(),
		DisplayName:     name,
		PrimaryCategory: "logo",
		ProjectSizes:    []valueobject.ProjectSize{valueobject.ProjectSizeSmall},
		Turnaround:      map[string]int{"logo": 5},
		Availability:    valueobject.AvailabilityAvailable,
		Approved:        true,
		Verified:        true,
		Rating:          rating,
	}
}

func newFixture() *fixture {
	brief := &entity.Brief{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Category: "logo",
		Industry: "retail",
		Budget:   valueobject.BudgetEntry,
		Timeline: valueobject.TimelineUrgent,
	}
	d1 := feasibleDesigner("Первый", 4.9)
	d2 := feasibleDesigner("Второй", 4.5)
	d3 := feasibleDesigner("Третий", 4.0)

	infeasible := feasibleDesigner("Крупные проекты", 5.0)
	infeasible.ProjectSizes = []valueobject.ProjectSize{valueobject.ProjectSizeLarge}
	unapproved := feasibleDesigner("Не одобрен", 5.0)
	unapproved.Approved = false

	return &fixture{
		brief:     brief,
		briefs:    &mockBriefRepository{briefs: map[uuid.UUID]*entity.Brief{brief.ID: brief}},
		designers: &mockDesignerRepository{designers: []*entity.Designer{d1, d2, d3, infeasible, unapproved}},
		matches:   newMockMatchRepository(),
		notifier:  &mockNotifier{},
		d1:        d1,
		d2:        d2,
		d3:        d3,
	}
}

func (f *fixture) useCase(scorer scorerFunc) *matching.FindMatchUseCase {
	quick := scoring.NewRuleBasedProviderWithSource(0, rand.NewPCG(1, 1))
	return matching.NewFindMatchUseCase(f.briefs, f.designers, f.matches, scorer, quick, f.notifier,
		matching.Config{Concurrency: 2, Alternatives: 2})
}

func (f *fixture) input() matching.FindMatchInput {
	return matching.FindMatchInput{BriefID: f.brief.ID, UserID: f.brief.ClientID, Alternatives: -1}
}

func TestFindMatch_RanksAndPersistsTopCandidate(t *testing.T) {
	f := newFixture()
	uc := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 70, f.d2.ID: 91, f.d3.ID: 70}))

	result, err := uc.Execute(context.Background(), f.input())

	require.NoError(t, err)
	assert.Equal(t, matching.StatusMatched, result.Status)
	assert.True(t, result.Created)
	assert.Equal(t, f.d2.ID, result.Match.DesignerID)
	assert.Equal(t, 91, result.Match.Score)
	assert.Equal(t, f.brief.ClientID, result.Match.ClientID)
	require.Len(t, result.Alternatives, 2)
	// равные оценки: выше рейтинг
	assert.Equal(t, f.d1.ID, result.Alternatives[0].Designer.ID)
	assert.Equal(t, f.d3.ID, result.Alternatives[1].Designer.ID)
	assert.Equal(t, 1, f.matches.count())
	assert.Len(t, f.notifier.created, 1)
}

func TestFindMatch_AlternativesOverride(t *testing.T) {
	f := newFixture()
	uc := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 70, f.d2.ID: 91, f.d3.ID: 60}))
	input := f.input()
	input.Alternatives = 0

	result, err := uc.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Empty(t, result.Alternatives)
}

func TestFindMatch_NoCandidatesIsSuccess(t *testing.T) {
	f := newFixture()
	f.brief.Category = "motion"
	uc := f.useCase(fixedScores(nil))

	var phases []matching.PhaseUpdate
	result, err := uc.Stream(context.Background(), f.input(), func(u matching.PhaseUpdate) error {
		phases = append(phases, u)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, matching.StatusNoSuitableMatches, result.Status)
	assert.Nil(t, result.Match)
	require.Len(t, phases, 1)
	assert.Equal(t, valueobject.PhaseFinal, phases[0].Phase)
	assert.Nil(t, phases[0].Best)
	assert.Zero(t, f.matches.count())
}

func TestFindMatch_BriefNotFound(t *testing.T) {
	f := newFixture()
	input := f.input()
	input.BriefID = uuid.New()

	_, err := f.useCase(fixedScores(nil)).Execute(context.Background(), input)

	assert.ErrorIs(t, err, apperror.ErrBriefNotFound)
}

func TestFindMatch_Ownership(t *testing.T) {
	f := newFixture()
	uc := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 80, f.d2.ID: 70, f.d3.ID: 60}))
	input := f.input()
	input.UserID = uuid.New()

	_, err := uc.Execute(context.Background(), input)
	assert.True(t, apperror.IsForbidden(err))

	input.IsAdmin = true
	result, err := uc.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, f.d1.ID, result.Match.DesignerID)
}

func TestFindMatch_RepeatCallIsIdempotent(t *testing.T) {
	f := newFixture()
	uc := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 80, f.d2.ID: 70, f.d3.ID: 60}))

	first, err := uc.Execute(context.Background(), f.input())
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), f.input())
	require.NoError(t, err)

	assert.Equal(t, matching.StatusExisting, second.Status)
	assert.Equal(t, first.Match.ID, second.Match.ID)
	assert.Equal(t, 1, f.matches.count())
	assert.Len(t, f.notifier.created, 1)
}

func TestFindMatch_RematchExcludesPreviouslyMatched(t *testing.T) {
	f := newFixture()
	uc := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 80, f.d2.ID: 70, f.d3.ID: 60}))

	first, err := uc.Execute(context.Background(), f.input())
	require.NoError(t, err)

	input := f.input()
	input.Rematch = true
	second, err := uc.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, f.d1.ID, first.Match.DesignerID)
	assert.Equal(t, f.d2.ID, second.Match.DesignerID)
	for _, alt := range second.Alternatives {
		assert.NotEqual(t, f.d1.ID, alt.Designer.ID)
	}
}

func TestFindMatch_ExcludesDesignersFromOtherBriefsOfClient(t *testing.T) {
	f := newFixture()
	other := &entity.Brief{ID: uuid.New(), ClientID: f.brief.ClientID}
	_, _, err := f.matches.Create(context.Background(), entity.NewMatch(other, f.d2.ID, &entity.MatchResult{Score: 90, Confidence: valueobject.ConfidenceHigh}))
	require.NoError(t, err)

	uc := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 60, f.d2.ID: 99, f.d3.ID: 70}))
	result, err := uc.Execute(context.Background(), f.input())

	require.NoError(t, err)
	assert.Equal(t, f.d3.ID, result.Match.DesignerID)
	for _, alt := range result.Alternatives {
		assert.NotEqual(t, f.d2.ID, alt.Designer.ID)
	}
}

func TestFindMatch_SingleCandidateFailureIsDropped(t *testing.T) {
	f := newFixture()
	uc := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 75, f.d3.ID: 65}))

	result, err := uc.Execute(context.Background(), f.input())

	require.NoError(t, err)
	assert.Equal(t, f.d1.ID, result.Match.DesignerID)
	require.Len(t, result.Alternatives, 1)
	assert.Equal(t, f.d3.ID, result.Alternatives[0].Designer.ID)
}

func TestFindMatch_AllCandidatesFailAborts(t *testing.T) {
	f := newFixture()

	_, err := f.useCase(fixedScores(nil)).Execute(context.Background(), f.input())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrAllProvidersFailed)
	assert.Zero(t, f.matches.count())
}

func TestFindMatch_PrimaryNetworkErrorFallsBack(t *testing.T) {
	f := newFixture()
	primary := scorerFunc(func(ctx context.Context, d *entity.Designer, b *entity.Brief) (*entity.MatchResult, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	chain := scoring.NewProviderWithFallback(primary, scoring.NewRuleBasedProvider(2), time.Second, 50)
	uc := matching.NewFindMatchUseCase(f.briefs, f.designers, f.matches, chain, nil, nil, matching.Config{Concurrency: 4})

	result, err := uc.Execute(context.Background(), f.input())

	require.NoError(t, err)
	assert.Equal(t, valueobject.ConfidenceFallback, result.Match.Confidence)
	assert.GreaterOrEqual(t, result.Match.Score, scoring.RuleMinScore)
	assert.LessOrEqual(t, result.Match.Score, scoring.RuleMaxScore)
}

func TestFindMatch_PersistenceFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.matches.failErr = apperror.Wrap(errors.New("disk full"), apperror.ErrCodeDatabaseError, "не удалось сохранить подбор")

	_, err := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 80})).Execute(context.Background(), f.input())

	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
	assert.Empty(t, f.notifier.created)
}

func TestFindMatch_PhasesAreOrdered(t *testing.T) {
	f := newFixture()
	uc := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 80, f.d2.ID: 95, f.d3.ID: 60}))

	var phases []valueobject.Phase
	var final matching.PhaseUpdate
	_, err := uc.Stream(context.Background(), f.input(), func(u matching.PhaseUpdate) error {
		phases = append(phases, u.Phase)
		final = u
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []valueobject.Phase{valueobject.PhaseInstant, valueobject.PhaseRefined, valueobject.PhaseFinal}, phases)
	assert.NotNil(t, final.Match)
	assert.Equal(t, f.d2.ID, final.Best.Designer.ID)
	assert.Len(t, final.Alternatives, 2)
}

func TestFindMatch_PhasesNeverRegress(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture()
		delay := scorerFunc(func(ctx context.Context, d *entity.Designer, b *entity.Brief) (*entity.MatchResult, error) {
			time.Sleep(time.Duration(rand.IntN(3)) * time.Millisecond)
			return &entity.MatchResult{Score: 50 + rand.IntN(50), Reasons: []string{"r"}, Confidence: valueobject.ConfidenceMedium}, nil
		})

		var last valueobject.Phase
		_, err := f.useCase(delay).Stream(context.Background(), f.input(), func(u matching.PhaseUpdate) error {
			assert.True(t, u.Phase.After(last), "этап %s после %s", u.Phase, last)
			last = u.Phase
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, valueobject.PhaseFinal, last)
	}
}

func TestFindMatch_EmitterErrorStopsEmission(t *testing.T) {
	f := newFixture()
	uc := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 80, f.d2.ID: 70, f.d3.ID: 60}))

	calls := 0
	result, err := uc.Stream(context.Background(), f.input(), func(u matching.PhaseUpdate) error {
		calls++
		return errors.New("broken pipe")
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	// уже начатый подбор сохраняется
	assert.NotNil(t, result.Match)
}

func TestFindMatch_CanceledContextStopsRun(t *testing.T) {
	f := newFixture()
	blocking := scorerFunc(func(ctx context.Context, d *entity.Designer, b *entity.Brief) (*entity.MatchResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.useCase(blocking).Execute(ctx, f.input())
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("подбор не остановился после отмены")
	}
	assert.Zero(t, f.matches.count())
}

func TestFindMatch_ConcurrentRunsShareOneMatch(t *testing.T) {
	f := newFixture()
	scores := fixedScores(map[uuid.UUID]int{f.d1.ID: 80, f.d2.ID: 70, f.d3.ID: 60})

	// оба запуска проходят фильтры до того, как кто-то сохранит подбор
	const runs = 2
	var mu sync.Mutex
	inFlight := 0
	ready := make(chan struct{})
	barrier := scorerFunc(func(ctx context.Context, d *entity.Designer, b *entity.Brief) (*entity.MatchResult, error) {
		mu.Lock()
		inFlight++
		if inFlight == runs*2 {
			close(ready)
		}
		mu.Unlock()
		select {
		case <-ready:
		case <-time.After(2 * time.Second):
		}
		return scores(ctx, d, b)
	})
	uc := f.useCase(barrier)

	ids := make(chan uuid.UUID, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := uc.Execute(context.Background(), f.input())
			if assert.NoError(t, err) {
				ids <- result.Match.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	var got []uuid.UUID
	for id := range ids {
		got = append(got, id)
	}
	require.Len(t, got, runs)
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, 1, f.matches.count())
	assert.Len(t, f.notifier.created, 1)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	f := newFixture()
	uc := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 80, f.d2.ID: 70, f.d3.ID: 60}))

	report, err := uc.Preview(context.Background(), f.brief.ID)

	require.NoError(t, err)
	require.Len(t, report.Ranked, 3)
	assert.Equal(t, f.d1.ID, report.Ranked[0].Designer.ID)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "Крупные проекты", report.Rejected[0].Designer.DisplayName)
	assert.Zero(t, f.matches.count())
}

func TestListMatches_OwnerOnly(t *testing.T) {
	f := newFixture()
	_, err := f.useCase(fixedScores(map[uuid.UUID]int{f.d1.ID: 80})).Execute(context.Background(), f.input())
	require.NoError(t, err)
	uc := matching.NewListMatchesUseCase(f.briefs, f.matches)

	list, err := uc.Execute(context.Background(), f.brief.ID, f.brief.ClientID, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.d1.ID, list[0].DesignerID)

	_, err = uc.Execute(context.Background(), f.brief.ID, uuid.New(), false)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
