package inventoryapi

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

const maxErrorBody = 2048

// RemoteError is a non-success response from the inventory service.
// Status and body are kept verbatim so they can be shown to the operator.
type RemoteError struct {
	Operation  string
	Endpoint   string
	StatusCode int
	Body       string
	Timestamp  time.Time
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Operation, e.Endpoint, e.StatusCode, e.Body)
}

// RemoteStatus returns the HTTP status code
func (e *RemoteError) RemoteStatus() int { return e.StatusCode }

// RemoteBody returns the response body text
func (e *RemoteError) RemoteBody() string { return e.Body }

// IsClientError reports a 4xx rejection, which says nothing about service health
func (e *RemoteError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

func newRemoteError(operation, endpoint string, status int, body []byte) *RemoteError {
	text := string(body)
	if len(text) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return &RemoteError{
		Operation:  operation,
		Endpoint:   endpoint,
		StatusCode: status,
		Body:       text,
		Timestamp:  time.Now().UTC(),
	}
}

// countsAsSuccess keeps client-side rejections from tripping the breaker
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr) && remoteErr.IsClientError()
}
