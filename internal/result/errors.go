package result

import (
	"errors"
	"fmt"
)

// Domain errors for result construction.
var (
	// ErrMalformedPayload indicates rows whose width does not match the axis count.
	ErrMalformedPayload = errors.New("result: malformed payload (inconsistent dependent-value count)")

	// ErrPayloadStatus indicates the server reported a non-success status.
	ErrPayloadStatus = errors.New("result: payload status is not success")
)

// PayloadError wraps an error with the offending sample position.
type PayloadError struct {
	Sample   int
	Expected int
	Got      int
	Wrapped  error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: sample %d has %d values, expected %d", e.Wrapped.Error(), e.Sample, e.Got, e.Expected)
}

func (e *PayloadError) Unwrap() error {
	return e.Wrapped
}
