package domain

import "time"

// Step-2 payload of the conversion process, collected from the coordinator.
type ConversionSpec struct {
	TargetMembershipType MembershipType

	Rank       string
	Station    string
	MiddleName string

	// defaults to today when zero.
	HireDate time.Time

	SendWelcomeEmail bool
	Notes            string

	// optional single emergency contact, marked primary.
	EmergencyContact *EmergencyContact
}

type EmergencyContact struct {
	Name     string
	Phone    string
	Relation string
	Primary  bool
}

// What the member-provisioning endpoint returns.
//
// The applicant becomes Converted if and only if provisioning succeeded;
// this module trusts the response rather than flipping status itself.
type ConversionResult struct {
	MemberId         string
	MembershipNumber string
	Message          string
}
