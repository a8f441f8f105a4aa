package mocks

import (
	actdb "github.com/openadmit/openadmit/pkg/domain/activity/db"
	admdb "github.com/openadmit/openadmit/pkg/domain/admission/db"
	appdb "github.com/openadmit/openadmit/pkg/domain/applicant/db"
	docdb "github.com/openadmit/openadmit/pkg/domain/document/db"
	eledb "github.com/openadmit/openadmit/pkg/domain/election/db"
	pipdb "github.com/openadmit/openadmit/pkg/domain/pipeline/db"
	schdb "github.com/openadmit/openadmit/pkg/domain/schema/db"
)

// Database bundles the mock repositories. Each field starts empty;
// set Impl on the ones the test exercises.
type Database struct {
	pipeline  *PipelineInterface
	applicant *ApplicantInterface
	election  *ElectionInterface
	document  *DocumentInterface
	activity  *ActivityInterface
	schema    *SchemaInterface
}

func NewDatabase() *Database {
	return &Database{
		pipeline:  NewPipelineInterface(),
		applicant: NewApplicantInterface(),
		election:  NewElectionInterface(),
		document:  NewDocumentInterface(),
		activity:  NewActivityInterface(),
		schema:    NewSchemaInterface(),
	}
}

var _ admdb.Database = &Database{}

func (d *Database) Pipeline() pipdb.Interface   { return d.pipeline }
func (d *Database) Applicant() appdb.Interface  { return d.applicant }
func (d *Database) Election() eledb.Interface   { return d.election }
func (d *Database) Document() docdb.Interface   { return d.document }
func (d *Database) Activity() actdb.Interface   { return d.activity }
func (d *Database) Schema() schdb.Interface     { return d.schema }
func (d *Database) Close() error                { return nil }

// typed accessors for tests which need Impl and Calls.

func (d *Database) MockPipeline() *PipelineInterface   { return d.pipeline }
func (d *Database) MockApplicant() *ApplicantInterface { return d.applicant }
func (d *Database) MockElection() *ElectionInterface   { return d.election }
func (d *Database) MockDocument() *DocumentInterface   { return d.document }
func (d *Database) MockActivity() *ActivityInterface   { return d.activity }
func (d *Database) MockSchema() *SchemaInterface       { return d.schema }
