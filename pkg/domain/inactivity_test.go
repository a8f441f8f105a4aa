package domain_test

import (
	"testing"
	"time"

	"github.com/openadmit/openadmit/pkg/domain"
)

func TestStageAlert(t *testing.T) {
	now, _ := time.Parse(time.RFC3339, "2025-10-01T00:00:00+00:00")
	daysAgo := func(d float64) time.Time {
		return now.Add(-time.Duration(d * 24 * float64(time.Hour)))
	}

	for name, testcase := range map[string]struct {
		enteredAt   time.Time
		timeoutDays int
		then        domain.AlertLevel
	}{
		"a fresh occupancy is normal": {
			enteredAt: daysAgo(1), timeoutDays: 30,
			then: domain.AlertNormal,
		},
		"under three quarters of the timeout is normal": {
			enteredAt: daysAgo(22), timeoutDays: 30,
			then: domain.AlertNormal,
		},
		"over three quarters of the timeout warns": {
			enteredAt: daysAgo(23), timeoutDays: 30,
			then: domain.AlertWarning,
		},
		"three days before the deadline is critical": {
			enteredAt: daysAgo(27), timeoutDays: 30,
			then: domain.AlertCritical,
		},
		"a long timeout turns critical by elapsed fraction": {
			enteredAt: daysAgo(176.5), timeoutDays: 180,
			then: domain.AlertCritical,
		},
		"past the deadline stays critical": {
			enteredAt: daysAgo(40), timeoutDays: 30,
			then: domain.AlertCritical,
		},
		"an untracked stage never alerts": {
			enteredAt: daysAgo(400), timeoutDays: 0,
			then: domain.AlertNormal,
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := domain.StageAlert(now, testcase.enteredAt, testcase.timeoutDays)
			if actual != testcase.then {
				t.Errorf("unmatch: (actual, expected) = (%s, %s)", actual, testcase.then)
			}
		})
	}
}

func TestOverdue(t *testing.T) {
	now, _ := time.Parse(time.RFC3339, "2025-10-01T00:00:00+00:00")

	if domain.Overdue(now, now.Add(-29*24*time.Hour), 30) {
		t.Error("29 of 30 days should not be overdue")
	}
	if !domain.Overdue(now, now.Add(-30*24*time.Hour), 30) {
		t.Error("30 of 30 days should be overdue")
	}
	if domain.Overdue(now, now.Add(-400*24*time.Hour), 0) {
		t.Error("an untracked stage should never be overdue")
	}
}

func TestInactivityDeadline(t *testing.T) {
	enteredAt, _ := time.Parse(time.RFC3339, "2025-09-01T00:00:00+00:00")
	expected := enteredAt.Add(30 * 24 * time.Hour)
	if actual := domain.InactivityDeadline(enteredAt, 30); !actual.Equal(expected) {
		t.Errorf("unmatch: (actual, expected) = (%s, %s)", actual, expected)
	}
}

func TestAsLoopType(t *testing.T) {
	for _, known := range []string{"inactivity", "escalation"} {
		if lt, err := domain.AsLoopType(known); err != nil || lt.String() != known {
			t.Errorf("unmatch: (loop type, err) = (%s, %v)", lt, err)
		}
	}
	if _, err := domain.AsLoopType("housekeeping"); err == nil {
		t.Error("expected error does not occured")
	}
}
