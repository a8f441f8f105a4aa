package conversion_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/domain/conversion"
)

func dummyApplicant() domain.Applicant {
	return domain.Applicant{
		ApplicantBody: domain.ApplicantBody{
			Id:         "applicant-1",
			PipelineId: "pipeline-1",
			Profile: domain.Profile{
				Name:  "Taylor Prospect",
				Email: "taylor@example.org",
				Phone: "555-0100",
			},
			TargetMembershipType: domain.Probationary,
			TargetRoleId:         "role-9",
			Status:               domain.Active,
		},
	}
}

func TestHTTPProvisioner(t *testing.T) {
	t.Run("it posts the member request and returns the result", func(t *testing.T) {
		requests := []map[string]any{}
		var authHeader string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader = r.Header.Get("Authorization")
			payload := map[string]any{}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Error(err)
			}
			requests = append(requests, payload)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"member_id": "member-1",
				"membership_number": "M-0042",
				"message": "welcome aboard"
			}`))
		}))
		defer server.Close()

		hireDate, _ := time.Parse("2006-01-02", "2025-11-01")
		testee := conversion.NewHTTPProvisioner(server.URL, "fake-token")
		result, err := testee.Provision(context.Background(), dummyApplicant(), domain.ConversionSpec{
			TargetMembershipType: domain.Probationary,
			Rank:                 "firefighter",
			HireDate:             hireDate,
			SendWelcomeEmail:     true,
			EmergencyContact: &domain.EmergencyContact{
				Name: "Jordan Prospect", Phone: "555-0101", Relation: "spouse",
			},
		})
		if err != nil {
			t.Fatal(err)
		}

		expected := domain.ConversionResult{
			MemberId: "member-1", MembershipNumber: "M-0042", Message: "welcome aboard",
		}
		if result != expected {
			t.Errorf("unmatch: result: (actual, expected) = (%+v, %+v)", result, expected)
		}

		if authHeader != "Bearer fake-token" {
			t.Errorf("unmatch: authorization header: %s", authHeader)
		}
		if len(requests) != 1 {
			t.Fatalf("the endpoint should be called once: %d", len(requests))
		}
		payload := requests[0]
		if payload["applicant_id"] != "applicant-1" ||
			payload["name"] != "Taylor Prospect" ||
			payload["membership_type"] != "probationary" ||
			payload["hire_date"] != "2025-11-01" {
			t.Errorf("unexpected payload: %+v", payload)
		}
		if contacts, ok := payload["emergency_contacts"].([]any); !ok || len(contacts) != 1 {
			t.Errorf("unexpected emergency contacts: %+v", payload["emergency_contacts"])
		} else if contact, ok := contacts[0].(map[string]any); !ok || contact["primary"] != true {
			t.Errorf("the single contact should be primary: %+v", contacts[0])
		}
	})

	t.Run("a non-2xx response is ErrProvisioningFailed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "duplicate member", http.StatusConflict)
		}))
		defer server.Close()

		testee := conversion.NewHTTPProvisioner(server.URL, "")
		_, err := testee.Provision(
			context.Background(), dummyApplicant(),
			domain.ConversionSpec{TargetMembershipType: domain.Probationary},
		)
		if !errors.Is(err, conversion.ErrProvisioningFailed) {
			t.Errorf("unmatch: error: (actual, expected) = (%v, %v)", err, conversion.ErrProvisioningFailed)
		}
	})

	t.Run("a response without a member id is ErrProvisioningFailed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"message": "accepted, id to follow"}`))
		}))
		defer server.Close()

		testee := conversion.NewHTTPProvisioner(server.URL, "")
		_, err := testee.Provision(
			context.Background(), dummyApplicant(),
			domain.ConversionSpec{TargetMembershipType: domain.Probationary},
		)
		if !errors.Is(err, conversion.ErrProvisioningFailed) {
			t.Errorf("unmatch: error: (actual, expected) = (%v, %v)", err, conversion.ErrProvisioningFailed)
		}
	})

	t.Run("an unreachable endpoint is ErrProvisioningFailed", func(t *testing.T) {
		testee := conversion.NewHTTPProvisioner("http://127.0.0.1:1/api/members", "")
		_, err := testee.Provision(
			context.Background(), dummyApplicant(),
			domain.ConversionSpec{TargetMembershipType: domain.Probationary},
		)
		if !errors.Is(err, conversion.ErrProvisioningFailed) {
			t.Errorf("unmatch: error: (actual, expected) = (%v, %v)", err, conversion.ErrProvisioningFailed)
		}
	})
}
