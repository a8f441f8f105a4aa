// Package domain holds the model of openadmit:
// pipelines and their stages, applicants moving through them,
// stage occupancy history, election packages and conversion results.
//
// Repository interfaces for each entity live in subpackages
// (for example, pkg/domain/applicant/db), with postgres implementations
// and call-log mocks next to them.
package domain
