package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// RetryPolicyType defines different retry policy configurations
type RetryPolicyType int

const (
	// StandardRetry for normal operations (3 attempts, 1s-1m backoff)
	StandardRetry RetryPolicyType = iota
	// PersistentRetry keeps retrying until the operation succeeds or is rejected
	PersistentRetry
	// NoRetry for best-effort lookups that have a local fallback
	NoRetry
)

// GetRetryPolicy returns a configured retry policy based on type
func GetRetryPolicy(policyType RetryPolicyType) *temporal.RetryPolicy {
	switch policyType {
	case PersistentRetry:
		return &temporal.RetryPolicy{
			InitialInterval:    DefaultRetryInitialInterval,
			BackoffCoefficient: DefaultRetryBackoffCoefficient,
			MaximumInterval:    PersistentRetryMaxInterval,
			MaximumAttempts:    0,
			NonRetryableErrorTypes: []string{
				ErrTypeRemoteRejected,
				ErrTypeValidation,
			},
		}

	case NoRetry:
		return &temporal.RetryPolicy{
			MaximumAttempts: 1,
		}

	case StandardRetry:
		fallthrough
	default:
		return &temporal.RetryPolicy{
			InitialInterval:    DefaultRetryInitialInterval,
			BackoffCoefficient: DefaultRetryBackoffCoefficient,
			MaximumInterval:    DefaultRetryMaxInterval,
			MaximumAttempts:    DefaultMaxRetryAttempts,
			NonRetryableErrorTypes: []string{
				ErrTypeRemoteRejected,
				ErrTypeValidation,
			},
		}
	}
}

// GetActivityOptions returns activity options with the given timeout and retry policy
func GetActivityOptions(timeout time.Duration, policy RetryPolicyType) workflow.ActivityOptions {
	if timeout == 0 {
		timeout = DefaultActivityTimeout
	}
	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy:         GetRetryPolicy(policy),
	}
}
