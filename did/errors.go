package did

import (
	"errors"
	"fmt"
)

// Resolution error codes reported in didResolutionMetadata.error.
const (
	ErrorInvalidDID         = "invalidDid"
	ErrorNotFound           = "notFound"
	ErrorMethodNotSupported = "methodNotSupported"
	ErrorInternal           = "internalError"
)

var (
	// ErrMalformedDID is returned when a DID string does not have the expected shape.
	ErrMalformedDID = errors.New("malformed DID")
	// ErrInvalidAddress is returned when the address segment fails the chain's format check.
	ErrInvalidAddress = errors.New("invalid address")
)

// AdapterError reports that a chain lookup could not be performed at all,
// as opposed to a lookup that succeeded and found nothing.
type AdapterError struct {
	Op  string
	Err error
}

// NewAdapterError wraps err as an AdapterError for operation op.
func NewAdapterError(op string, err error) *AdapterError {
	return &AdapterError{Op: op, Err: err}
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// IsAdapterError reports whether err carries an AdapterError.
func IsAdapterError(err error) bool {
	var adapterErr *AdapterError
	return errors.As(err, &adapterErr)
}
