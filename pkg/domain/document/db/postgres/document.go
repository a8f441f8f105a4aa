package postgres

import (
	"context"
	"fmt"

	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
	"github.com/openadmit/openadmit/pkg/domain"
	docdb "github.com/openadmit/openadmit/pkg/domain/document/db"
	"github.com/openadmit/openadmit/pkg/domain/errors/dberrors"
	"github.com/openadmit/openadmit/pkg/domain/internal/db/postgres"
)

type documentPG struct {
	pool xpool.Pool
}

var _ docdb.Interface = &documentPG{}

func New(pool xpool.Pool) *documentPG {
	return &documentPG{pool: pool}
}

func (m *documentPG) Register(ctx context.Context, spec domain.DocumentSpec) (string, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var documentId string
	if err := tx.QueryRow(
		ctx,
		`
		insert into "document" (
			"applicant_id", "stage_id", "document_type", "file_name", "url"
		)
		values ($1, $2, $3, $4, $5)
		returning "document_id"
		`,
		spec.ApplicantId, spec.StageId, spec.DocumentType, spec.FileName, spec.URL,
	).Scan(&documentId); err != nil {
		return "", err
	}

	if err := internal.RecordActivity(
		ctx, tx, spec.ApplicantId, domain.SystemActor, "document_uploaded",
		fmt.Sprintf("%s (%s)", spec.FileName, spec.DocumentType),
	); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return documentId, nil
}

func (m *documentPG) ListByApplicant(ctx context.Context, applicantId string) ([]domain.Document, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select
			"document_id", "applicant_id", "stage_id",
			"document_type", "file_name", "url", "uploaded_at"
		from "document"
		where "applicant_id" = $1
		order by "uploaded_at" desc, "document_id"
		`,
		applicantId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := []domain.Document{}
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(
			&doc.Id, &doc.ApplicantId, &doc.StageId,
			&doc.DocumentType, &doc.FileName, &doc.URL, &doc.UploadedAt,
		); err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

func (m *documentPG) Get(ctx context.Context, documentId string) (domain.Document, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return domain.Document{}, err
	}
	defer conn.Release()

	var doc domain.Document
	if err := conn.QueryRow(
		ctx,
		`
		select
			"document_id", "applicant_id", "stage_id",
			"document_type", "file_name", "url", "uploaded_at"
		from "document"
		where "document_id" = $1
		`,
		documentId,
	).Scan(
		&doc.Id, &doc.ApplicantId, &doc.StageId,
		&doc.DocumentType, &doc.FileName, &doc.URL, &doc.UploadedAt,
	); err != nil {
		if internal.IsNoRows(err) {
			return domain.Document{}, dberrors.Missing{
				Table: "document", Identity: documentId,
			}
		}
		return domain.Document{}, err
	}
	return doc, nil
}

func (m *documentPG) Delete(ctx context.Context, documentId string) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx, `delete from "document" where "document_id" = $1`, documentId,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() < 1 {
		return dberrors.Missing{Table: "document", Identity: documentId}
	}
	return nil
}
