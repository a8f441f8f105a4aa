package conversion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openadmit/openadmit/pkg/domain"
)

// the provisioning endpoint refused or failed the request;
// the applicant must stay unconverted.
var ErrProvisioningFailed = errors.New("member provisioning failed")

// Provisioner creates a member record in the membership subsystem.
//
// Implementations must be safe to call at most once per applicant per
// conversion attempt; the caller holds the applicant's row lock
// while it runs.
type Provisioner interface {
	Provision(ctx context.Context, applicant domain.Applicant, spec domain.ConversionSpec) (domain.ConversionResult, error)
}

type memberRequest struct {
	ApplicantId    string `json:"applicant_id"`
	Name           string `json:"name"`
	MiddleName     string `json:"middle_name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	MembershipType string `json:"membership_type"`
	RoleId         string `json:"role_id,omitempty"`
	Rank           string `json:"rank,omitempty"`
	Station        string `json:"station,omitempty"`
	HireDate       string `json:"hire_date"`

	SendWelcomeEmail bool   `json:"send_welcome_email"`
	Notes            string `json:"notes,omitempty"`

	EmergencyContacts []emergencyContact `json:"emergency_contacts,omitempty"`
}

type emergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
	Primary  bool   `json:"primary"`
}

type memberResponse struct {
	MemberId         string `json:"member_id"`
	MembershipNumber string `json:"membership_number"`
	Message          string `json:"message"`
}

type httpProvisioner struct {
	endpoint string
	token    string
	client   *http.Client
}

var _ Provisioner = &httpProvisioner{}

// NewHTTPProvisioner builds a Provisioner POSTing to endpoint,
// authenticated with a bearer token.
func NewHTTPProvisioner(endpoint string, token string) *httpProvisioner {
	return &httpProvisioner{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *httpProvisioner) Provision(ctx context.Context, applicant domain.Applicant, spec domain.ConversionSpec) (domain.ConversionResult, error) {
	hireDate := spec.HireDate
	if hireDate.IsZero() {
		hireDate = time.Now()
	}

	payload := memberRequest{
		ApplicantId:      applicant.Id,
		Name:             applicant.Profile.Name,
		MiddleName:       spec.MiddleName,
		Email:            applicant.Profile.Email,
		Phone:            applicant.Profile.Phone,
		Address:          applicant.Profile.Address,
		MembershipType:   spec.TargetMembershipType.String(),
		RoleId:           applicant.TargetRoleId,
		Rank:             spec.Rank,
		Station:          spec.Station,
		HireDate:         hireDate.Format("2006-01-02"),
		SendWelcomeEmail: spec.SendWelcomeEmail,
		Notes:            spec.Notes,
	}
	if dob := applicant.Profile.DateOfBirth; dob != nil {
		payload.DateOfBirth = dob.Format("2006-01-02")
	}
	if ec := spec.EmergencyContact; ec != nil {
		payload.EmergencyContacts = []emergencyContact{{
			Name: ec.Name, Phone: ec.Phone, Relation: ec.Relation, Primary: true,
		}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, p.endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("%w: %s", ErrProvisioningFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("%w: %s", ErrProvisioningFailed, err)
	}

	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		return domain.ConversionResult{}, fmt.Errorf(
			"%w: status %d: %s", ErrProvisioningFailed, resp.StatusCode, string(raw),
		)
	}

	var result memberResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.ConversionResult{}, fmt.Errorf("%w: %s", ErrProvisioningFailed, err)
	}
	if result.MemberId == "" {
		return domain.ConversionResult{}, fmt.Errorf(
			"%w: response has no member id", ErrProvisioningFailed,
		)
	}

	return domain.ConversionResult{
		MemberId:         result.MemberId,
		MembershipNumber: result.MembershipNumber,
		Message:          result.Message,
	}, nil
}
