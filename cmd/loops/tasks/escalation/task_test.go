package escalation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openadmit/openadmit/cmd/loops/tasks/escalation"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/domain/admission/db/mocks"
)

func TestSeed(t *testing.T) {
	seed := escalation.Seed()
	if !seed.Equal(domain.ApplicantCursor{
		Status: []domain.ApplicantStatus{domain.Active},
	}) {
		t.Errorf("seed should pick active applicants only: %+v", seed)
	}
	if seed.Debounce <= 0 {
		t.Errorf("seed should debounce repicks: %+v", seed)
	}
}

func TestTask(t *testing.T) {
	t.Run("when an applicant is escalated, it yields the moved cursor and continues", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		picked := domain.ApplicantCursor{
			Head:     "applicant-3",
			Debounce: 30 * time.Second,
			Status:   []domain.ApplicantStatus{domain.Active},
		}
		mockDB.MockApplicant().Impl.PickAndEscalate = func(
			ctx context.Context, cursor domain.ApplicantCursor,
		) (domain.ApplicantCursor, bool, error) {
			return picked, true, nil
		}

		testee := escalation.Task(mockDB)
		seed := escalation.Seed()
		cursor, ok, err := testee(context.Background(), seed)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("the task should report progress")
		}
		if !cursor.Equal(picked) {
			t.Errorf("unmatch: cursor: (actual, expected) = (%+v, %+v)", cursor, picked)
		}

		calls := mockDB.MockApplicant().Calls.PickAndEscalate
		if calls.Times() != 1 || !calls[0].Equal(seed) {
			t.Errorf("unexpected PickAndEscalate calls: %+v", calls)
		}
	})

	t.Run("when the pick fails, it passes the error through", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		mockDB := mocks.NewDatabase()
		mockDB.MockApplicant().Impl.PickAndEscalate = func(
			ctx context.Context, cursor domain.ApplicantCursor,
		) (domain.ApplicantCursor, bool, error) {
			return cursor, false, expectedErr
		}

		testee := escalation.Task(mockDB)
		if _, _, err := testee(context.Background(), escalation.Seed()); !errors.Is(err, expectedErr) {
			t.Errorf("unmatch: error: (actual, expected) = (%+v, %+v)", err, expectedErr)
		}
	})
}
