package callback_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/proglv/evalworker/internal/callback"
	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPNotifier_DeliversOnce(t *testing.T) {
	var received evalmodel.BatchResult
	var calls int
	var apiKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		apiKey = r.Header.Get("X-Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := callback.NewHTTPNotifier(server.URL, "X-Api-Key", "secret", nil, nil)
	job := evalmodel.BatchJob{SubmissionID: "sub-1"}
	result := evalmodel.BatchResult{
		SubmissionID:       "sub-1",
		CompilationSuccess: true,
		TestCaseResults:    []evalmodel.TestCaseResult{{Status: evalmodel.Accepted}},
	}

	err := notifier.Notify(context.Background(), job, result)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "secret", apiKey)
	assert.Equal(t, "sub-1", received.SubmissionID)
	assert.True(t, received.CompilationSuccess)
}

func TestHTTPNotifier_DeliveryFailureIsReturned(t *testing.T) {
	notifier := callback.NewHTTPNotifier("http://127.0.0.1:0", "X-Api-Key", "secret", nil, nil)
	job := evalmodel.BatchJob{SubmissionID: "sub-2"}
	err := notifier.Notify(context.Background(), job, evalmodel.BatchResult{SubmissionID: "sub-2"})
	assert.Error(t, err)
}
