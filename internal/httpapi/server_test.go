package httpapi_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/proglv/evalworker/internal/facade"
	"github.com/proglv/evalworker/internal/httpapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	received []facade.Request
}

func (f *fakeSubmitter) Submit(req facade.Request) {
	f.received = append(f.received, req)
}

func TestHandleHealth(t *testing.T) {
	server := httpapi.New(&fakeSubmitter{}, "", "", nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleExecute_MissingAPIKeyRejected(t *testing.T) {
	server := httpapi.New(&fakeSubmitter{}, "X-Api-Key", "secret", nil)
	req := httptest.NewRequest(http.MethodPost, "/execute", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleExecute_ValidRequestAcksAndDispatches(t *testing.T) {
	submitter := &fakeSubmitter{}
	server := httpapi.New(submitter, "X-Api-Key", "secret", nil)

	body := `{"language":"c","submissionId":"sub-1","codeFilePath":"src","testCases":[{"testCaseId":"t1","inputFilePath":"in","expectedOutputFilePath":"exp","timeLimitMs":2000,"maxRamMB":64}]}`
	req := httptest.NewRequest(http.MethodPost, "/execute", bytes.NewReader([]byte(body)))
	req.Header.Set("X-Api-Key", "secret")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, submitter.received, 1)
	assert.Equal(t, "sub-1", submitter.received[0].SubmissionID)
}

func TestHandleExecute_InvalidLanguageRejected(t *testing.T) {
	submitter := &fakeSubmitter{}
	server := httpapi.New(submitter, "X-Api-Key", "secret", nil)

	body := `{"language":"brainfuck","submissionId":"sub-1","codeFilePath":"src","testCases":[]}`
	req := httptest.NewRequest(http.MethodPost, "/execute", bytes.NewReader([]byte(body)))
	req.Header.Set("X-Api-Key", "secret")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, submitter.received)
}
