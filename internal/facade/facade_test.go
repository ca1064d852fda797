package facade_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/proglv/evalworker/internal/batch"
	"github.com/proglv/evalworker/internal/blobstore"
	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/facade"
	"github.com/proglv/evalworker/internal/langkit"
	"github.com/proglv/evalworker/internal/sandbox"
	"github.com/proglv/evalworker/internal/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	blobs map[string]string
}

func (f *fakeFetcher) Fetch(ctx context.Context, key string) (string, error) {
	v, ok := f.blobs[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", blobstore.ErrNotFound, key)
	}
	return v, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	results []evalmodel.BatchResult
}

func (n *recordingNotifier) Notify(ctx context.Context, job evalmodel.BatchJob, result evalmodel.BatchResult) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results = append(n.results, result)
	return nil
}

func newService(t *testing.T, fetcher blobstore.Fetcher, notifier *recordingNotifier) *facade.Service {
	t.Helper()
	sup := supervisor.New(nil)
	adapter, err := langkit.New(evalmodel.LangC, sup, nil)
	require.NoError(t, err)
	sbox, err := sandbox.New(t.TempDir())
	require.NoError(t, err)
	evaluator := batch.New(adapter, sbox, evalmodel.GlobalLimits{MaxTimeSec: 30, MaxMemoryMB: 4096}, nil)
	return facade.New(evaluator, fetcher, notifier, 2, nil)
}

func TestSubmit_HappyPath(t *testing.T) {
	fetcher := &fakeFetcher{blobs: map[string]string{
		"src": `#include <stdio.h>
int main(){ printf("42\n"); return 0; }`,
		"in1":  "",
		"exp1": "42\n",
	}}
	notifier := &recordingNotifier{}
	svc := newService(t, fetcher, notifier)

	svc.Submit(facade.Request{
		Language:     evalmodel.LangC,
		SubmissionID: "sub-1",
		CodeFilePath: "src",
		TestCases: []facade.TestCaseRequest{
			{TestCaseID: "t1", InputFilePath: "in1", ExpectedOutputFilePath: "exp1", TimeLimitMs: 2000, MaxRAMMB: 64},
		},
	})
	require.NoError(t, svc.Wait())

	require.Len(t, notifier.results, 1)
	result := notifier.results[0]
	assert.True(t, result.CompilationSuccess)
	require.Len(t, result.TestCaseResults, 1)
	assert.Equal(t, evalmodel.Accepted, result.TestCaseResults[0].Status)
}

func TestSubmit_BlobNotFoundProducesFileError(t *testing.T) {
	fetcher := &fakeFetcher{blobs: map[string]string{}}
	notifier := &recordingNotifier{}
	svc := newService(t, fetcher, notifier)

	svc.Submit(facade.Request{
		Language:     evalmodel.LangC,
		SubmissionID: "sub-2",
		CodeFilePath: "missing-src",
		TestCases: []facade.TestCaseRequest{
			{TestCaseID: "t1", InputFilePath: "missing-in", ExpectedOutputFilePath: "missing-exp", TimeLimitMs: 2000, MaxRAMMB: 64},
		},
	})
	require.NoError(t, svc.Wait())

	require.Len(t, notifier.results, 1)
	result := notifier.results[0]
	assert.False(t, result.CompilationSuccess)
	require.Len(t, result.TestCaseResults, 1)
	assert.Equal(t, evalmodel.FileError, result.TestCaseResults[0].Status)
}

func TestSubmit_CallbackInvokedExactlyOncePerJob(t *testing.T) {
	fetcher := &fakeFetcher{blobs: map[string]string{
		"src": `#include <stdio.h>
int main(){ return 0; }`,
		"in1": "", "exp1": "",
		"in2": "", "exp2": "",
	}}
	notifier := &recordingNotifier{}
	svc := newService(t, fetcher, notifier)

	svc.Submit(facade.Request{Language: evalmodel.LangC, SubmissionID: "a", CodeFilePath: "src", TestCases: []facade.TestCaseRequest{{TestCaseID: "t1", InputFilePath: "in1", ExpectedOutputFilePath: "exp1", TimeLimitMs: 2000, MaxRAMMB: 64}}})
	svc.Submit(facade.Request{Language: evalmodel.LangC, SubmissionID: "b", CodeFilePath: "src", TestCases: []facade.TestCaseRequest{{TestCaseID: "t2", InputFilePath: "in2", ExpectedOutputFilePath: "exp2", TimeLimitMs: 2000, MaxRAMMB: 64}}})
	require.NoError(t, svc.Wait())

	assert.Len(t, notifier.results, 2)
}
