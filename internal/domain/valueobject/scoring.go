package valueobject

type Confidence string

const (
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceFallback Confidence = "fallback"
)

func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh, ConfidenceFallback:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Phase - этап прогрессивной выдачи результата.
type Phase string

const (
	PhaseInstant Phase = "instant"
	PhaseRefined Phase = "refined"
	PhaseFinal   Phase = "final"
)

// Rank задаёт порядок этапов; неизвестный этап имеет ранг 0.
func (p Phase) Rank() int {
	switch p {
	case PhaseInstant:
		return 1
	case PhaseRefined:
		return 2
	case PhaseFinal:
		return 3
	}
	return 0
}

func (p Phase) After(other Phase) bool {
	return p.Rank() > other.Rank()
}
