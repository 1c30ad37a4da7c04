package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetBand_Accepts(t *testing.T) {
	tests := []struct {
		name      string
		band      BudgetBand
		preferred []ProjectSize
		want      bool
	}{
		{"entry small", BudgetEntry, []ProjectSize{ProjectSizeSmall}, true},
		{"entry large only", BudgetEntry, []ProjectSize{ProjectSizeLarge}, false},
		{"mid medium", BudgetMid, []ProjectSize{ProjectSizeMedium}, true},
		{"premium any overlap", BudgetPremium, []ProjectSize{ProjectSizeSmall, ProjectSizeLarge}, true},
		{"premium small only", BudgetPremium, []ProjectSize{ProjectSizeSmall}, false},
		{"no preferences", BudgetMid, nil, false},
		{"unknown band", BudgetBand("luxury"), []ProjectSize{ProjectSizeSmall}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.band.Accepts(tt.preferred))
		})
	}
}

func TestTimeline_MaxDays(t *testing.T) {
	assert.Equal(t, 7, TimelineUrgent.MaxDays())
	assert.Equal(t, 14, TimelineStandard.MaxDays())
	assert.Equal(t, 30, TimelineRelaxed.MaxDays())
	assert.Equal(t, 60, TimelineFlexible.MaxDays())

	_, err := NewTimeline("yesterday")
	assert.Error(t, err)
}

func TestMatchStatus_Transitions(t *testing.T) {
	assert.True(t, MatchStatusPending.CanTransitionTo(MatchStatusUnlocked))
	assert.True(t, MatchStatusUnlocked.CanTransitionTo(MatchStatusAccepted))
	assert.False(t, MatchStatusPending.CanTransitionTo(MatchStatusAccepted))
	assert.False(t, MatchStatusAccepted.CanTransitionTo(MatchStatusPending))
}

func TestAvailability_Matchable(t *testing.T) {
	assert.True(t, AvailabilityAvailable.Matchable())
	assert.True(t, AvailabilityBusy.Matchable())
	assert.False(t, AvailabilityUnavailable.Matchable())
}

func TestPhase_Order(t *testing.T) {
	assert.True(t, PhaseRefined.After(PhaseInstant))
	assert.True(t, PhaseFinal.After(PhaseRefined))
	assert.False(t, PhaseInstant.After(PhaseFinal))
	assert.False(t, PhaseFinal.After(PhaseFinal))
}
