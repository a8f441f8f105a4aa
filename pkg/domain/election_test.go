package domain_test

import (
	"testing"

	"github.com/openadmit/openadmit/pkg/domain"
)

func TestElectionPackageStatusCanTransit(t *testing.T) {
	allStatuses := []domain.ElectionPackageStatus{
		domain.PackageDraft, domain.PackageReady, domain.PackageAddedToBallot,
		domain.PackageElected, domain.PackageNotElected,
	}

	allowed := map[domain.ElectionPackageStatus][]domain.ElectionPackageStatus{
		domain.PackageDraft:         {domain.PackageReady},
		domain.PackageReady:         {domain.PackageAddedToBallot},
		domain.PackageAddedToBallot: {domain.PackageElected, domain.PackageNotElected},
		domain.PackageElected:       {},
		domain.PackageNotElected:    {},
	}

	for from, tos := range allowed {
		permitted := map[domain.ElectionPackageStatus]bool{}
		for _, to := range tos {
			permitted[to] = true
		}
		for _, to := range allStatuses {
			if actual := from.CanTransit(to); actual != permitted[to] {
				t.Errorf(
					"unmatch: CanTransit(%s -> %s): (actual, expected) = (%v, %v)",
					from, to, actual, permitted[to],
				)
			}
		}
	}
}

func TestAsElectionPackageStatus(t *testing.T) {
	if status, err := domain.AsElectionPackageStatus("added_to_ballot"); err != nil ||
		status != domain.PackageAddedToBallot {
		t.Errorf("unmatch: (status, err) = (%s, %v)", status, err)
	}
	if _, err := domain.AsElectionPackageStatus("shortlisted"); err == nil {
		t.Error("expected error does not occured")
	}
}
