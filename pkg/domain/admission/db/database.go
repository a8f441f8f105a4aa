package db

import (
	actdb "github.com/openadmit/openadmit/pkg/domain/activity/db"
	appdb "github.com/openadmit/openadmit/pkg/domain/applicant/db"
	docdb "github.com/openadmit/openadmit/pkg/domain/document/db"
	eledb "github.com/openadmit/openadmit/pkg/domain/election/db"
	pipdb "github.com/openadmit/openadmit/pkg/domain/pipeline/db"
	schdb "github.com/openadmit/openadmit/pkg/domain/schema/db"
)

// Database bundles the repositories of the admission domain.
type Database interface {
	Pipeline() pipdb.Interface
	Applicant() appdb.Interface
	Election() eledb.Interface
	Document() docdb.Interface
	Activity() actdb.Interface
	Schema() schdb.Interface

	Close() error
}
