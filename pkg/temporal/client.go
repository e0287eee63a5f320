package temporal

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

// Config holds Temporal client configuration
type Config struct {
	HostPort  string
	Namespace string
	Identity  string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HostPort:  "localhost:7233",
		Namespace: "default",
		Identity:  "tarima-dispatch",
	}
}

// TaskQueues contains the task queues used by the dispatch worker
var TaskQueues = struct {
	ReleaseRetry string
}{
	ReleaseRetry: "tarima-release-queue",
}

// WorkflowNames contains the registered workflow names
var WorkflowNames = struct {
	ReleaseRetry string
}{
	ReleaseRetry: "ReleaseRetryWorkflow",
}

// ActivityNames contains the registered activity names
var ActivityNames = struct {
	FetchNextReleaseSequence string
	CreateRelease            string
}{
	FetchNextReleaseSequence: "FetchNextReleaseSequence",
	CreateRelease:            "CreateRelease",
}

// Client wraps the Temporal client
type Client struct {
	client client.Client
	config *Config
}

// NewClient dials the Temporal frontend
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	c, err := client.DialContext(ctx, client.Options{
		HostPort:  config.HostPort,
		Namespace: config.Namespace,
		Identity:  config.Identity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}

	return &Client{client: c, config: config}, nil
}

// Client returns the underlying Temporal client
func (c *Client) Client() client.Client {
	return c.client
}

// Close closes the client connection
func (c *Client) Close() {
	c.client.Close()
}

// StartWorkflow starts a workflow execution
func (c *Client) StartWorkflow(ctx context.Context, workflowID, taskQueue, workflowName string, args ...interface{}) (client.WorkflowRun, error) {
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: taskQueue,
	}
	return c.client.ExecuteWorkflow(ctx, options, workflowName, args...)
}

// WorkerOptions contains options for creating a worker
type WorkerOptions struct {
	TaskQueue               string
	MaxConcurrentActivities int
	MaxConcurrentWorkflows  int
}

// DefaultWorkerOptions returns default worker options
func DefaultWorkerOptions(taskQueue string) *WorkerOptions {
	return &WorkerOptions{
		TaskQueue:               taskQueue,
		MaxConcurrentActivities: 10,
		MaxConcurrentWorkflows:  10,
	}
}

// NewWorker creates a new Temporal worker
func (c *Client) NewWorker(opts *WorkerOptions) worker.Worker {
	return worker.New(c.client, opts.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     opts.MaxConcurrentActivities,
		MaxConcurrentWorkflowTaskExecutionSize: opts.MaxConcurrentWorkflows,
	})
}
