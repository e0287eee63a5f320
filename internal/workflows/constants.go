package workflows

import "time"

// Activity timeout defaults
const (
	DefaultActivityTimeout  time.Duration = 2 * time.Minute
	SequenceActivityTimeout time.Duration = 30 * time.Second
)

// Retry policy defaults
const (
	DefaultRetryInitialInterval    time.Duration = time.Second
	DefaultRetryMaxInterval        time.Duration = time.Minute
	DefaultRetryBackoffCoefficient float64       = 2.0
	DefaultMaxRetryAttempts        int32         = 3

	// PersistentRetryMaxInterval caps the backoff of release creation retries
	PersistentRetryMaxInterval time.Duration = 5 * time.Minute
)

// Error types that must not be retried
const (
	ErrTypeRemoteRejected = "RemoteRejected"
	ErrTypeValidation     = "ValidationError"
)
