package contract

import (
	"fmt"

	"github.com/k5602/course-pilot/internal/domain"
)

const (
	MinSessionLengthMinutes = 15
	MaxSessionLengthMinutes = 300
	MinSessionsPerWeek      = 1
	MaxSessionsPerWeek      = 14
	MaxBreakHours           = 168 // one week
)

// ValidateSettings checks plan settings against the documented ranges and
// returns the first violation as a ValidationError.
func ValidateSettings(s domain.PlanSettings) error {
	if s.SessionLengthMinutes < MinSessionLengthMinutes || s.SessionLengthMinutes > MaxSessionLengthMinutes {
		return &ValidationError{
			Code: ErrSessionLengthOutOfRange,
			Message: fmt.Sprintf("session length must be between %d and %d minutes, got %d",
				MinSessionLengthMinutes, MaxSessionLengthMinutes, s.SessionLengthMinutes),
		}
	}
	if s.SessionsPerWeek < MinSessionsPerWeek || s.SessionsPerWeek > MaxSessionsPerWeek {
		return &ValidationError{
			Code: ErrSessionsPerWeekOutOfRange,
			Message: fmt.Sprintf("sessions per week must be between %d and %d, got %d",
				MinSessionsPerWeek, MaxSessionsPerWeek, s.SessionsPerWeek),
		}
	}

	adv := s.Advanced
	if adv == nil {
		return nil
	}

	if adv.SpacedRepetitionEnabled && adv.Strategy != domain.DistributionSpacedRepetition {
		return &ValidationError{
			Code:    ErrSpacedRepetitionStrategyMismatch,
			Message: "spaced repetition enabled but strategy is not spaced_repetition",
		}
	}
	if adv.CustomIntervals != nil {
		if len(adv.CustomIntervals) == 0 {
			return &ValidationError{
				Code:    ErrCustomIntervalsInvalid,
				Message: "custom intervals cannot be empty",
			}
		}
		for _, d := range adv.CustomIntervals {
			if d <= 0 {
				return &ValidationError{
					Code:    ErrCustomIntervalsInvalid,
					Message: fmt.Sprintf("custom intervals must be positive, got %d", d),
				}
			}
		}
	}
	if adv.MaxSessionDurationMinutes != nil {
		if *adv.MaxSessionDurationMinutes < MinSessionLengthMinutes || *adv.MaxSessionDurationMinutes > MaxSessionLengthMinutes {
			return &ValidationError{
				Code: ErrSessionLengthOutOfRange,
				Message: fmt.Sprintf("max session duration must be between %d and %d minutes, got %d",
					MinSessionLengthMinutes, MaxSessionLengthMinutes, *adv.MaxSessionDurationMinutes),
			}
		}
	}
	if adv.MinBreakBetweenSessionsHrs != nil && (*adv.MinBreakBetweenSessionsHrs < 0 || *adv.MinBreakBetweenSessionsHrs > MaxBreakHours) {
		return &ValidationError{
			Code:    ErrMinBreakOutOfRange,
			Message: fmt.Sprintf("minimum break between sessions must be between 0 and %d hours", MaxBreakHours),
		}
	}
	return nil
}
