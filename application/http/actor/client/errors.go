package client

import (
	"hypersinc/application/http"
	"hypersinc/application/util/uri"

	"github.com/pkg/errors"
)

// Failures before any network I/O.
var (
	ErrMalformedURL      = uri.ErrMalformedURL
	ErrInvalidPort       = uri.ErrInvalidPort
	ErrUnsupportedMethod = http.ErrUnsupportedMethod
	ErrClientBusy        = errors.New("client is busy with another request")
)

// Failures of the exchange itself. They are reported as [*Error].
var (
	ErrConnection = errors.New("connection failed")
	ErrTransport  = errors.New("transport failed")
	ErrDecode     = errors.New("response decoding failed")
)

// Error is a failed step of a request.
// errors.Is matches both Kind and the underlying cause.
type Error struct {
	Op   string
	Kind error

	cause error
}

func newError(op string, kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, cause: cause}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.cause.Error()
}

func (e *Error) Cause() error    { return e.cause }
func (e *Error) Unwrap() []error { return []error{e.Kind, e.cause} }
