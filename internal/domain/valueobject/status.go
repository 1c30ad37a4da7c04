package valueobject

import "github.com/ignatzorin/designmatch-backend/internal/pkg/apperror"

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusUnlocked MatchStatus = "unlocked"
	MatchStatusAccepted MatchStatus = "accepted"
)

func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusPending, MatchStatusUnlocked, MatchStatusAccepted:
		return true
	}
	return false
}

func (s MatchStatus) CanTransitionTo(newStatus MatchStatus) bool {
	transitions := map[MatchStatus][]MatchStatus{
		MatchStatusPending:  {MatchStatusUnlocked},
		MatchStatusUnlocked: {MatchStatusAccepted},
		MatchStatusAccepted: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewMatchStatus(status string) (MatchStatus, error) {
	s := MatchStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус подбора")
	}
	return s, nil
}

type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityBusy        Availability = "busy"
	AvailabilityUnavailable Availability = "unavailable"
)

func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityUnavailable:
		return true
	}
	return false
}

// Matchable: занятые дизайнеры остаются в выдаче, недоступные нет.
func (a Availability) Matchable() bool {
	return a == AvailabilityAvailable || a == AvailabilityBusy
}

func NewAvailability(value string) (Availability, error) {
	a := Availability(value)
	if !a.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус доступности")
	}
	return a, nil
}
