package durable

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/internal/workflows"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/temporal"
)

type fakeStarter struct {
	workflowID   string
	taskQueue    string
	workflowName string
	args         []interface{}
	run          client.WorkflowRun
	err          error
}

func (s *fakeStarter) StartWorkflow(_ context.Context, workflowID, taskQueue, workflowName string, args ...interface{}) (client.WorkflowRun, error) {
	s.workflowID, s.taskQueue, s.workflowName, s.args = workflowID, taskQueue, workflowName, args
	return s.run, s.err
}

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("durable-test")
	cfg.Output = io.Discard
	return logging.New(cfg)
}

func TestStartReleaseRetry(t *testing.T) {
	run := &mocks.WorkflowRun{}
	run.On("GetRunID").Return("run-42")
	starter := &fakeStarter{run: run}

	retrier := NewReleaseRetrier(starter, domain.DefaultReleaseDefaults(), testLogger())
	retrier.now = func() time.Time { return time.UnixMilli(1715956200000) }

	runID, err := retrier.StartReleaseRetry(context.Background(), application.PendingRelease{
		Pallets:   []domain.Pallet{{RFIDID: 17}, {RFIDID: 18}},
		Notes:     "dock 4",
		CreatedBy: "maria",
	})

	require.NoError(t, err)
	assert.Equal(t, "run-42", runID)
	assert.Equal(t, "release-retry-17-1715956200000", starter.workflowID)
	assert.Equal(t, temporal.TaskQueues.ReleaseRetry, starter.taskQueue)
	assert.Equal(t, temporal.WorkflowNames.ReleaseRetry, starter.workflowName)

	require.Len(t, starter.args, 1)
	input, ok := starter.args[0].(workflows.ReleaseRetryInput)
	require.True(t, ok)
	assert.Len(t, input.Pallets, 2)
	assert.Equal(t, "dock 4", input.Notes)
	assert.Equal(t, domain.DefaultCompanyID, input.Defaults.CompanyID)
	run.AssertExpectations(t)
}

func TestStartReleaseRetry_StartFailure(t *testing.T) {
	starter := &fakeStarter{err: errors.New("frontend unavailable")}
	retrier := NewReleaseRetrier(starter, domain.DefaultReleaseDefaults(), testLogger())

	_, err := retrier.StartReleaseRetry(context.Background(), application.PendingRelease{
		Pallets: []domain.Pallet{{RFIDID: 1}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "frontend unavailable")
}

func TestStartReleaseRetry_NoPallets(t *testing.T) {
	starter := &fakeStarter{}
	retrier := NewReleaseRetrier(starter, domain.DefaultReleaseDefaults(), testLogger())

	_, err := retrier.StartReleaseRetry(context.Background(), application.PendingRelease{})

	require.Error(t, err)
	assert.Empty(t, starter.workflowID, "nothing is started")
}

