package domain

import (
	"fmt"
	"time"
)

// Alert level of an active applicant's stage occupancy.
type AlertLevel string

const (
	AlertNormal   AlertLevel = "normal"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

func (a AlertLevel) String() string {
	return string(a)
}

// Elapsed-fraction thresholds for stage alerts.
//
// NOTE: these are placeholder policy, not confirmed product numbers;
// keep them in one place.
const (
	WarningFraction  = 0.75
	CriticalFraction = 0.98

	// critical also when this few days remain, whichever triggers first.
	CriticalRemainingDays = 3
)

const day = 24 * time.Hour

// DaysInStage is elapsed stage occupancy in (fractional) days.
func DaysInStage(now, stageEnteredAt time.Time) float64 {
	return now.Sub(stageEnteredAt).Hours() / 24
}

// StageAlert derives the alert level for an applicant who entered their
// stage at stageEnteredAt, with the effective timeout timeoutDays.
//
// timeoutDays < 1 means the stage is not tracked; such occupancy never
// alerts and never goes inactive.
func StageAlert(now, stageEnteredAt time.Time, timeoutDays int) AlertLevel {
	if timeoutDays < 1 {
		return AlertNormal
	}

	elapsed := DaysInStage(now, stageEnteredAt)
	fraction := elapsed / float64(timeoutDays)
	remaining := float64(timeoutDays) - elapsed

	switch {
	case CriticalFraction <= fraction || remaining <= CriticalRemainingDays:
		return AlertCritical
	case WarningFraction <= fraction:
		return AlertWarning
	default:
		return AlertNormal
	}
}

// Overdue tells whether the occupancy has used up its whole timeout, i.e.
// whether the automatic active -> inactive transition should fire.
func Overdue(now, stageEnteredAt time.Time, timeoutDays int) bool {
	if timeoutDays < 1 {
		return false
	}
	return float64(timeoutDays) <= DaysInStage(now, stageEnteredAt)
}

// InactivityDeadline is the instant the occupancy becomes overdue.
func InactivityDeadline(stageEnteredAt time.Time, timeoutDays int) time.Time {
	return stageEnteredAt.Add(time.Duration(timeoutDays) * day)
}

type LoopType string

const (
	// transitions overdue active applicants to inactive.
	InactivityLoop LoopType = "inactivity"

	// records an audit entry once when an applicant turns critical.
	EscalationLoop LoopType = "escalation"
)

func (lt LoopType) String() string {
	return string(lt)
}

func (lt LoopType) IsKnown() bool {
	switch lt {
	case InactivityLoop, EscalationLoop:
		return true
	default:
		return false
	}
}

func AsLoopType(s string) (LoopType, error) {
	l := LoopType(s)
	if l.IsKnown() {
		return l, nil
	}
	return l, fmt.Errorf("unknown loop type: %q", s)
}
