package judge

import (
	"errors"
	"fmt"
)

// ErrPollTimeout indicates polling exhausted its attempt budget before the
// judge reported a terminal status.
var ErrPollTimeout = errors.New("timed out waiting for submission result")

// NetworkError wraps a transport-level failure: the request never produced a
// judge response. It is surfaced to the caller without automatic retries.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("judge unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RejectedError means the judge responded but reported failure. The message
// carries the judge's own wording when available.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsRejected reports whether err is a judge-side rejection.
func IsRejected(err error) bool {
	var rejErr *RejectedError
	return errors.As(err, &rejErr)
}
