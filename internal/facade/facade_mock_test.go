package facade_test

import (
	"testing"

	"github.com/proglv/evalworker/internal/batch"
	"github.com/proglv/evalworker/internal/blobstore/mocks"
	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/facade"
	"github.com/proglv/evalworker/internal/langkit"
	"github.com/proglv/evalworker/internal/sandbox"
	"github.com/proglv/evalworker/internal/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// TestSubmit_FetcherCalledForEveryBlob exercises blobstore.Fetcher through a
// hand-written gomock double, asserting the facade fetches the source plus
// every test case's input and expected output exactly once each.
func TestSubmit_FetcherCalledForEveryBlob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), "src").Return(`#include <stdio.h>
int main(){ printf("1\n"); return 0; }`, nil).Times(1)
	fetcher.EXPECT().Fetch(gomock.Any(), "in1").Return("", nil).Times(1)
	fetcher.EXPECT().Fetch(gomock.Any(), "exp1").Return("1\n", nil).Times(1)

	sup := supervisor.New(nil)
	adapter, err := langkit.New(evalmodel.LangC, sup, nil)
	require.NoError(t, err)
	sbox, err := sandbox.New(t.TempDir())
	require.NoError(t, err)
	evaluator := batch.New(adapter, sbox, evalmodel.GlobalLimits{MaxTimeSec: 30, MaxMemoryMB: 4096}, nil)

	notifier := &recordingNotifier{}
	svc := facade.New(evaluator, fetcher, notifier, 1, nil)

	svc.Submit(facade.Request{
		Language:     evalmodel.LangC,
		SubmissionID: "sub-mock",
		CodeFilePath: "src",
		TestCases: []facade.TestCaseRequest{
			{TestCaseID: "t1", InputFilePath: "in1", ExpectedOutputFilePath: "exp1", TimeLimitMs: 2000, MaxRAMMB: 64},
		},
	})
	require.NoError(t, svc.Wait())

	require.Len(t, notifier.results, 1)
	assert.Equal(t, evalmodel.Accepted, notifier.results[0].TestCaseResults[0].Status)
}
