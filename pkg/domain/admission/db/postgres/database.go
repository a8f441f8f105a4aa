package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
	actdb "github.com/openadmit/openadmit/pkg/domain/activity/db"
	actpg "github.com/openadmit/openadmit/pkg/domain/activity/db/postgres"
	admdb "github.com/openadmit/openadmit/pkg/domain/admission/db"
	appdb "github.com/openadmit/openadmit/pkg/domain/applicant/db"
	apppg "github.com/openadmit/openadmit/pkg/domain/applicant/db/postgres"
	docdb "github.com/openadmit/openadmit/pkg/domain/document/db"
	docpg "github.com/openadmit/openadmit/pkg/domain/document/db/postgres"
	eledb "github.com/openadmit/openadmit/pkg/domain/election/db"
	elepg "github.com/openadmit/openadmit/pkg/domain/election/db/postgres"
	pipdb "github.com/openadmit/openadmit/pkg/domain/pipeline/db"
	pippg "github.com/openadmit/openadmit/pkg/domain/pipeline/db/postgres"
	schdb "github.com/openadmit/openadmit/pkg/domain/schema/db"
	schpg "github.com/openadmit/openadmit/pkg/domain/schema/db/postgres"
	xe "github.com/openadmit/openadmit/pkg/errors"
)

type admissionDBPostgres struct {
	pool      *pgxpool.Pool
	pipeline  pipdb.Interface
	applicant appdb.Interface
	election  eledb.Interface
	document  docdb.Interface
	activity  actdb.Interface
	schema    schdb.Interface
}

type Config struct {
	SchemaRepository string
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (admdb.Database, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	p := xpool.Wrap(pool)
	var schema schdb.Interface = schpg.Null()
	if c.SchemaRepository != "" {
		schema = schpg.New(p, c.SchemaRepository)
	}

	return &admissionDBPostgres{
		pool:      pool,
		pipeline:  pippg.New(p),
		applicant: apppg.New(p),
		election:  elepg.New(p),
		document:  docpg.New(p),
		activity:  actpg.New(p),
		schema:    schema,
	}, nil
}

func (d *admissionDBPostgres) Pipeline() pipdb.Interface {
	return d.pipeline
}

func (d *admissionDBPostgres) Applicant() appdb.Interface {
	return d.applicant
}

func (d *admissionDBPostgres) Election() eledb.Interface {
	return d.election
}

func (d *admissionDBPostgres) Document() docdb.Interface {
	return d.document
}

func (d *admissionDBPostgres) Activity() actdb.Interface {
	return d.activity
}

func (d *admissionDBPostgres) Schema() schdb.Interface {
	return d.schema
}

func (d *admissionDBPostgres) Close() error {
	d.pool.Close()
	return nil
}
