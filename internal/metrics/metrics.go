package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoringCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "designmatch_scoring_calls_total",
			Help: "Scoring provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "designmatch_scoring_duration_seconds",
			Help:    "Duration of a single scoring call in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	FallbackUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "designmatch_scoring_fallback_total",
			Help: "Fallback provider invocations by trigger",
		},
		[]string{"reason"},
	)

	ScoreCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "designmatch_score_cache_lookups_total",
			Help: "Score cache lookups by result",
		},
		[]string{"result"},
	)

	MatchRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "designmatch_match_runs_total",
			Help: "Matching runs by terminal outcome",
		},
		[]string{"outcome"},
	)

	PhaseLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "designmatch_phase_latency_seconds",
			Help:    "Time from run start to phase emission",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"phase"},
	)

	CandidatesConsidered = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "designmatch_candidates_after_filters",
			Help:    "Number of candidates left after exclusion and feasibility filters",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
)
