package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	binddocuments "github.com/openadmit/openadmit/pkg/api-types-binding/documents"
	binderr "github.com/openadmit/openadmit/pkg/api-types-binding/errors"
	"github.com/openadmit/openadmit/pkg/domain"
	applicantdb "github.com/openadmit/openadmit/pkg/domain/applicant/db"
	documentdb "github.com/openadmit/openadmit/pkg/domain/document/db"
	"github.com/openadmit/openadmit/pkg/storage"
	"github.com/openadmit/openadmit/pkg/utils/slices"
)

// UploadDocumentHandler takes a multipart form with a "file" part, a
// "document_type" field and an optional "stage_id" field (defaults to
// the applicant's current stage). The bytes go to storage; the record
// goes to the database.
func UploadDocumentHandler(
	dbdocument documentdb.Interface,
	dbapplicant applicantdb.Interface,
	store storage.Storage,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		applicantId := c.Param("applicantId")

		documentType := c.FormValue("document_type")
		if documentType == "" {
			return binderr.BadRequest("document_type is required", nil)
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return binderr.BadRequest(`a "file" part is required`, err)
		}

		stageId := c.FormValue("stage_id")
		if stageId == "" {
			applicants, err := dbapplicant.Get(ctx, []string{applicantId})
			if err != nil {
				return binderr.InternalServerError(err)
			}
			applicant, ok := applicants[applicantId]
			if !ok {
				return binderr.NotFound()
			}
			stageId = applicant.CurrentStageId
		}

		file, err := fileHeader.Open()
		if err != nil {
			return binderr.InternalServerError(err)
		}
		defer file.Close()

		key := path.Join(
			applicantId,
			fmt.Sprintf("%d_%s", time.Now().UnixNano(), path.Base(fileHeader.Filename)),
		)
		if _, err := store.Save(ctx, key, file); err != nil {
			return binderr.InternalServerError(err)
		}

		documentId, err := dbdocument.Register(ctx, domain.DocumentSpec{
			ApplicantId:  applicantId,
			StageId:      stageId,
			DocumentType: documentType,
			FileName:     fileHeader.Filename,
			URL:          key,
		})
		if err != nil {
			// keep storage consistent with the database
			store.Remove(ctx, key)
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		document, err := dbdocument.Get(ctx, documentId)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, binddocuments.ComposeDetail(document))
	}
}

func ListDocumentsHandler(dbdocument documentdb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		documents, err := dbdocument.ListByApplicant(ctx, c.Param("applicantId"))
		if err != nil {
			return binderr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(documents, binddocuments.ComposeDetail))
	}
}

func DownloadDocumentHandler(
	dbdocument documentdb.Interface, store storage.Storage,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		document, err := dbdocument.Get(ctx, c.Param("documentId"))
		if err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		content, err := store.Open(ctx, document.URL)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}
		defer content.Close()

		contentType := mime.TypeByExtension(path.Ext(document.FileName))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Response().Header().Set(
			"Content-Disposition",
			fmt.Sprintf(`attachment; filename=%q`, document.FileName),
		)
		return c.Stream(http.StatusOK, contentType, content)
	}
}

func DeleteDocumentHandler(
	dbdocument documentdb.Interface, store storage.Storage,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		documentId := c.Param("documentId")

		document, err := dbdocument.Get(ctx, documentId)
		if err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		if err := dbdocument.Delete(ctx, documentId); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		// storage cleanup is best effort; the record is already gone.
		store.Remove(ctx, document.URL)

		return c.NoContent(http.StatusNoContent)
	}
}
