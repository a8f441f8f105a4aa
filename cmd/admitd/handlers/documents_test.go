package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openadmit/openadmit/cmd/admitd/handlers"
	httptestutil "github.com/openadmit/openadmit/internal/testutils/http"
	apidocuments "github.com/openadmit/openadmit/pkg/api/types/documents"
	binddocuments "github.com/openadmit/openadmit/pkg/api-types-binding/documents"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/domain/admission/db/mocks"
	"github.com/openadmit/openadmit/pkg/storage"
	storagemock "github.com/openadmit/openadmit/pkg/storage/mock"
)

func dummyDocument(documentId string) domain.Document {
	uploadedAt, _ := time.Parse(time.RFC3339, "2025-10-05T15:00:00+00:00")
	return domain.Document{
		Id:           documentId,
		ApplicantId:  "applicant-1",
		StageId:      "stage-1",
		DocumentType: "reference_letter",
		FileName:     "letter.pdf",
		URL:          "applicant-1/1759676400000000000_letter.pdf",
		UploadedAt:   uploadedAt,
	}
}

func TestUploadDocumentHandler(t *testing.T) {
	t.Run("when a file is posted, it stores the bytes and registers the record", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		document := dummyDocument("document-1")
		mockDB.MockDocument().Impl.Register = func(
			ctx context.Context, spec domain.DocumentSpec,
		) (string, error) {
			return "document-1", nil
		}
		mockDB.MockDocument().Impl.Get = func(
			ctx context.Context, documentId string,
		) (domain.Document, error) {
			return document, nil
		}
		store := storagemock.New()
		store.Impl.Save = func(ctx context.Context, key string, r io.Reader) (int64, error) {
			n, err := io.Copy(io.Discard, r)
			return n, err
		}

		payload := []byte("%PDF-1.7 dear board members")
		body, ctyp := httptestutil.Multipart(
			map[string]string{
				"document_type": "reference_letter",
				"stage_id":      "stage-1",
			},
			httptestutil.MultipartFile{
				FieldName: "file", FileName: "letter.pdf", Content: payload,
			},
		)

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/applicants/applicant-1/documents", body,
			httptestutil.ContentType(ctyp),
		)
		c.SetParamNames("applicantId")
		c.SetParamValues("applicant-1")

		testee := handlers.UploadDocumentHandler(mockDB.Document(), mockDB.Applicant(), store)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", resp.Code, http.StatusOK)
		}

		if len(store.Calls.Save) != 1 {
			t.Fatalf("Save should be called once")
		}
		if !bytes.Equal(store.Calls.Save[0].Content, payload) {
			t.Errorf("stored content does not match the uploaded file")
		}

		if calls := mockDB.MockDocument().Calls.Register; calls.Times() != 1 {
			t.Fatalf("Register should be called once")
		} else {
			spec := calls[0]
			if spec.ApplicantId != "applicant-1" ||
				spec.StageId != "stage-1" ||
				spec.DocumentType != "reference_letter" ||
				spec.FileName != "letter.pdf" {
				t.Errorf("unexpected spec passed to Register: %+v", spec)
			}
			if spec.URL != store.Calls.Save[0].Key {
				t.Errorf(
					"the registered URL should be the storage key: (url, key) = (%s, %s)",
					spec.URL, store.Calls.Save[0].Key,
				)
			}
		}

		actual := apidocuments.Detail{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if expected := binddocuments.ComposeDetail(document); !actual.Equal(expected) {
			t.Errorf("unmatch: response: (actual, expected) = (%+v, %+v)", actual, expected)
		}
	})

	t.Run("when stage_id is omitted, it falls back to the applicant's current stage", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		mockGetApplicant(mockDB, dummyApplicant("applicant-1", domain.Active))
		mockDB.MockDocument().Impl.Register = func(
			ctx context.Context, spec domain.DocumentSpec,
		) (string, error) {
			return "document-1", nil
		}
		mockDB.MockDocument().Impl.Get = func(
			ctx context.Context, documentId string,
		) (domain.Document, error) {
			return dummyDocument("document-1"), nil
		}
		store := storagemock.New()
		store.Impl.Save = func(ctx context.Context, key string, r io.Reader) (int64, error) {
			return io.Copy(io.Discard, r)
		}

		body, ctyp := httptestutil.Multipart(
			map[string]string{"document_type": "reference_letter"},
			httptestutil.MultipartFile{
				FieldName: "file", FileName: "letter.pdf", Content: []byte("hello"),
			},
		)

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/applicants/applicant-1/documents", body,
			httptestutil.ContentType(ctyp),
		)
		c.SetParamNames("applicantId")
		c.SetParamValues("applicant-1")

		testee := handlers.UploadDocumentHandler(mockDB.Document(), mockDB.Applicant(), store)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if calls := mockDB.MockDocument().Calls.Register; calls.Times() != 1 {
			t.Fatalf("Register should be called once")
		} else if calls[0].StageId != "stage-1" {
			t.Errorf("unmatch: stage id: (actual, expected) = (%s, %s)", calls[0].StageId, "stage-1")
		}
	})

	t.Run("when document_type is missing, it responds 400", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		store := storagemock.New()

		body, ctyp := httptestutil.Multipart(
			map[string]string{},
			httptestutil.MultipartFile{
				FieldName: "file", FileName: "letter.pdf", Content: []byte("hello"),
			},
		)

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/applicants/applicant-1/documents", body,
			httptestutil.ContentType(ctyp),
		)
		c.SetParamNames("applicantId")
		c.SetParamValues("applicant-1")

		testee := handlers.UploadDocumentHandler(mockDB.Document(), mockDB.Applicant(), store)
		err := testee(c)
		if err == nil {
			t.Fatal("no error is returned")
		}
		if status := statusOf(t, err); status != http.StatusBadRequest {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", status, http.StatusBadRequest)
		}
		if len(store.Calls.Save) != 0 {
			t.Errorf("Save should not be called")
		}
	})

	t.Run("when the record fails to register, it removes the stored bytes", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		mockDB.MockDocument().Impl.Register = func(
			ctx context.Context, spec domain.DocumentSpec,
		) (string, error) {
			return "", domain.ErrMissing
		}
		store := storagemock.New()
		store.Impl.Save = func(ctx context.Context, key string, r io.Reader) (int64, error) {
			return io.Copy(io.Discard, r)
		}
		store.Impl.Remove = func(ctx context.Context, key string) error { return nil }

		body, ctyp := httptestutil.Multipart(
			map[string]string{
				"document_type": "reference_letter",
				"stage_id":      "stage-1",
			},
			httptestutil.MultipartFile{
				FieldName: "file", FileName: "letter.pdf", Content: []byte("hello"),
			},
		)

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/applicants/no-such-applicant/documents", body,
			httptestutil.ContentType(ctyp),
		)
		c.SetParamNames("applicantId")
		c.SetParamValues("no-such-applicant")

		testee := handlers.UploadDocumentHandler(mockDB.Document(), mockDB.Applicant(), store)
		err := testee(c)
		if err == nil {
			t.Fatal("no error is returned")
		}
		if status := statusOf(t, err); status != http.StatusNotFound {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", status, http.StatusNotFound)
		}
		if len(store.Calls.Remove) != 1 || store.Calls.Remove[0] != store.Calls.Save[0].Key {
			t.Errorf("the stored bytes should be removed: %+v", store.Calls.Remove)
		}
	})
}

func TestListDocumentsHandler(t *testing.T) {
	t.Run("it responds the applicant's documents", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		document := dummyDocument("document-1")
		mockDB.MockDocument().Impl.ListByApplicant = func(
			ctx context.Context, applicantId string,
		) ([]domain.Document, error) {
			return []domain.Document{document}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/applicants/applicant-1/documents")
		c.SetParamNames("applicantId")
		c.SetParamValues("applicant-1")

		testee := handlers.ListDocumentsHandler(mockDB.Document())
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		actual := []apidocuments.Detail{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if len(actual) != 1 || !actual[0].Equal(binddocuments.ComposeDetail(document)) {
			t.Errorf("unmatch: response: %+v", actual)
		}
	})
}

func TestDownloadDocumentHandler(t *testing.T) {
	t.Run("when the document exists, it streams the content", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		document := dummyDocument("document-1")
		mockDB.MockDocument().Impl.Get = func(
			ctx context.Context, documentId string,
		) (domain.Document, error) {
			return document, nil
		}
		store := storagemock.New()
		payload := "%PDF-1.7 dear board members"
		store.Impl.Open = func(ctx context.Context, key string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(payload)), nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/documents/document-1/content")
		c.SetParamNames("documentId")
		c.SetParamValues("document-1")

		testee := handlers.DownloadDocumentHandler(mockDB.Document(), store)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", resp.Code, http.StatusOK)
		}
		if store.Calls.Open[0] != document.URL {
			t.Errorf("unmatch: opened key: (actual, expected) = (%s, %s)", store.Calls.Open[0], document.URL)
		}
		if resp.Body.String() != payload {
			t.Errorf("unmatch: body: (actual, expected) = (%s, %s)", resp.Body.String(), payload)
		}
		if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, `"letter.pdf"`) {
			t.Errorf("Content-Disposition should carry the file name: %s", cd)
		}
	})

	t.Run("when the bytes are gone from storage, it responds 404", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		mockDB.MockDocument().Impl.Get = func(
			ctx context.Context, documentId string,
		) (domain.Document, error) {
			return dummyDocument("document-1"), nil
		}
		store := storagemock.New()
		store.Impl.Open = func(ctx context.Context, key string) (io.ReadCloser, error) {
			return nil, storage.ErrNotFound
		}

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/documents/document-1/content")
		c.SetParamNames("documentId")
		c.SetParamValues("document-1")

		testee := handlers.DownloadDocumentHandler(mockDB.Document(), store)
		err := testee(c)
		if err == nil {
			t.Fatal("no error is returned")
		}
		if status := statusOf(t, err); status != http.StatusNotFound {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", status, http.StatusNotFound)
		}
	})

	t.Run("when the record is missing, it responds 404", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		mockDB.MockDocument().Impl.Get = func(
			ctx context.Context, documentId string,
		) (domain.Document, error) {
			return domain.Document{}, domain.ErrMissing
		}
		store := storagemock.New()

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/documents/no-such-document/content")
		c.SetParamNames("documentId")
		c.SetParamValues("no-such-document")

		testee := handlers.DownloadDocumentHandler(mockDB.Document(), store)
		err := testee(c)
		if err == nil {
			t.Fatal("no error is returned")
		}
		if status := statusOf(t, err); status != http.StatusNotFound {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", status, http.StatusNotFound)
		}
	})
}

func TestDeleteDocumentHandler(t *testing.T) {
	t.Run("when the document exists, it deletes the record and the bytes", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		document := dummyDocument("document-1")
		mockDB.MockDocument().Impl.Get = func(
			ctx context.Context, documentId string,
		) (domain.Document, error) {
			return document, nil
		}
		mockDB.MockDocument().Impl.Delete = func(ctx context.Context, documentId string) error {
			return nil
		}
		store := storagemock.New()
		store.Impl.Remove = func(ctx context.Context, key string) error { return nil }

		e := echo.New()
		c, resp := httptestutil.Delete(e, "/api/documents/document-1")
		c.SetParamNames("documentId")
		c.SetParamValues("document-1")

		testee := handlers.DeleteDocumentHandler(mockDB.Document(), store)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusNoContent {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", resp.Code, http.StatusNoContent)
		}
		if calls := mockDB.MockDocument().Calls.Delete; calls.Times() != 1 || calls[0] != "document-1" {
			t.Errorf("unexpected Delete calls: %+v", calls)
		}
		if len(store.Calls.Remove) != 1 || store.Calls.Remove[0] != document.URL {
			t.Errorf("unexpected Remove calls: %+v", store.Calls.Remove)
		}
	})
}
