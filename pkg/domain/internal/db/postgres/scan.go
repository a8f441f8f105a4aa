package internal

import (
	"fmt"

	"github.com/openadmit/openadmit/pkg/domain"
)

type ApplicantStatus domain.ApplicantStatus

// implement sql.Scanner
func (as *ApplicantStatus) Scan(v any) error {
	var s string
	switch vv := v.(type) {
	case string:
		s = vv
	case []byte:
		s = string(vv)
	default:
		return fmt.Errorf("parse error for ApplicantStatus: %#v", v)
	}

	parsed, err := domain.AsApplicantStatus(s)
	if err != nil {
		return err
	}
	*as = ApplicantStatus(parsed)
	return nil
}

type StageType domain.StageType

// implement sql.Scanner
func (st *StageType) Scan(v any) error {
	var s string
	switch vv := v.(type) {
	case string:
		s = vv
	case []byte:
		s = string(vv)
	default:
		return fmt.Errorf("parse error for StageType: %#v", v)
	}

	parsed, err := domain.AsStageType(s)
	if err != nil {
		return err
	}
	*st = StageType(parsed)
	return nil
}

type ElectionPackageStatus domain.ElectionPackageStatus

// implement sql.Scanner
func (ps *ElectionPackageStatus) Scan(v any) error {
	var s string
	switch vv := v.(type) {
	case string:
		s = vv
	case []byte:
		s = string(vv)
	default:
		return fmt.Errorf("parse error for ElectionPackageStatus: %#v", v)
	}

	parsed, err := domain.AsElectionPackageStatus(s)
	if err != nil {
		return err
	}
	*ps = ElectionPackageStatus(parsed)
	return nil
}
