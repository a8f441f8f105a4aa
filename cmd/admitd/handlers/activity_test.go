package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openadmit/openadmit/cmd/admitd/handlers"
	httptestutil "github.com/openadmit/openadmit/internal/testutils/http"
	apiactivity "github.com/openadmit/openadmit/pkg/api/types/activity"
	bindactivity "github.com/openadmit/openadmit/pkg/api-types-binding/activity"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/domain/admission/db/mocks"
)

func TestListActivityHandler(t *testing.T) {
	t.Run("it responds a page of the applicant's audit log", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		happenedAt, _ := time.Parse(time.RFC3339, "2025-10-02T08:00:00+00:00")
		entries := []domain.ActivityEntry{
			{
				Id: 42, ApplicantId: "applicant-1", Actor: "coordinator@example.org",
				Action: "advance", Detail: "form received", HappenedAt: happenedAt,
			},
			{
				Id: 41, ApplicantId: "applicant-1", Actor: domain.SystemActor,
				Action: "register", HappenedAt: happenedAt.Add(-time.Hour),
			},
		}
		mockDB.MockActivity().Impl.List = func(
			ctx context.Context, applicantId string, page domain.Page,
		) ([]domain.ActivityEntry, error) {
			return entries, nil
		}
		mockDB.MockActivity().Impl.Count = func(
			ctx context.Context, applicantId string,
		) (int, error) {
			return 12, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/applicants/applicant-1/activity?page=2&size=2")
		c.SetParamNames("applicantId")
		c.SetParamValues("applicant-1")

		testee := handlers.ListActivityHandler(mockDB.Activity())
		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", resp.Code, http.StatusOK)
		}

		if calls := mockDB.MockActivity().Calls.List; calls.Times() != 1 {
			t.Fatalf("List should be called once")
		} else {
			if calls[0].ApplicantId != "applicant-1" {
				t.Errorf("unmatch: applicant id: %s", calls[0].ApplicantId)
			}
			if calls[0].Page.Number != 2 || calls[0].Page.Size != 2 {
				t.Errorf("unexpected page passed to List: %+v", calls[0].Page)
			}
		}

		actual := apiactivity.Page{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if actual.Page != 2 || actual.Size != 2 || actual.Total != 12 {
			t.Errorf("unexpected page envelope: %+v", actual)
		}
		if len(actual.Items) != len(entries) {
			t.Fatalf("unmatch: item count: (actual, expected) = (%d, %d)", len(actual.Items), len(entries))
		}
		for i := range entries {
			if expected := bindactivity.ComposeEntry(entries[i]); !actual.Items[i].Equal(expected) {
				t.Errorf("unmatch: item[%d]: (actual, expected) = (%+v, %+v)", i, actual.Items[i], expected)
			}
		}
	})

	t.Run("when the page parameter is not a number, it responds 400", func(t *testing.T) {
		mockDB := mocks.NewDatabase()

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/applicants/applicant-1/activity?page=first")
		c.SetParamNames("applicantId")
		c.SetParamValues("applicant-1")

		testee := handlers.ListActivityHandler(mockDB.Activity())
		err := testee(c)
		if err == nil {
			t.Fatal("no error is returned")
		}
		if status := statusOf(t, err); status != http.StatusBadRequest {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", status, http.StatusBadRequest)
		}
	})
}
