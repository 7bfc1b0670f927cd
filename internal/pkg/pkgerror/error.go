package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrFetch indicates that a dataset could not be retrieved or is not tabular.
	ErrFetch = errors.New("dataset fetch failed")

	// ErrSchema indicates that a dataset lacks an expected identifying column,
	// or that two datasets that must be row-aligned are not.
	ErrSchema = errors.New("dataset schema mismatch")

	// ErrDivisionUndefined indicates a ratio was requested over a zero denominator.
	ErrDivisionUndefined = errors.New("division undefined")

	// ErrStale indicates a write belongs to a load that was invalidated while it ran.
	ErrStale = errors.New("dataset was invalidated during load")
)

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	TypeServer     Type = iota // Server-side errors (e.g., upstream or parsing issues).
	TypeBusiness               // Business logic errors (e.g., undefined ratios).
	TypeValidation             // Validation errors (e.g., input validation failures).
)

func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier used for mapping errors to HTTP status codes.
type Code int

const (
	CodeInternal      Code = iota // Internal or unspecified error.
	CodeInvalidFormat             // Error code for invalid format.
	CodeInvalidInput              // Error code for invalid input.
	CodeNotFound                  // Error code for resource not found.
	CodeConflict                  // Error code for conflict situations.
	CodeTimeout                   // Error code for operation timeout.
	CodeUpstream                  // Error code for an unreachable or malformed dataset source.
	CodeSchema                    // Error code for a dataset missing expected columns.
	CodeUndefined                 // Error code for a value that is mathematically undefined.
)

func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeConflict:
		return "ERROR_CODE_CONFLICT"
	case CodeTimeout:
		return "ERROR_CODE_TIMEOUT"
	case CodeUpstream:
		return "ERROR_CODE_UPSTREAM"
	case CodeSchema:
		return "ERROR_CODE_SCHEMA"
	case CodeUndefined:
		return "ERROR_CODE_UNDEFINED"
	case CodeInternal:
		return "ERROR_CODE_INTERNAL"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is a structured error used across the application.
//
// It can wrap an underlying error while also carrying a user-facing message,
// a high-level type, and a stable error code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}

	if e.msg != "" {
		return e.msg
	}

	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeBusiness:
		return "Logical business not meet with requirement"
	case TypeServer:
		return "Internal error"
	}

	return "Unknown error"
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType.String(),
		e.code.String(),
		e.msg,
		e.err,
	)
}

// Msg returns the user-facing error message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeInvalidInput, CodeUndefined:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeConflict:
		return http.StatusConflict
	case CodeUpstream, CodeSchema:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer creates a server-type error with the provided error.
func NewServer(err error) error {
	return new(err, "Internal server error", TypeServer, CodeInternal)
}

// NewBusiness creates a business-type error with the specified message and code.
func NewBusiness(msg string, code Code) error {
	return new(nil, msg, TypeBusiness, code)
}

// NewInvalidInput creates a validation error for invalid input with a message and underlying error.
func NewInvalidInput(err error) error {
	return new(err, "validation error", TypeValidation, CodeInvalidInput)
}

// NewInvalidFormat creates a validation error for an invalid request format.
func NewInvalidFormat() error {
	return new(nil, "invalid request format", TypeValidation, CodeInvalidFormat)
}

// NewFetch wraps a failure to retrieve or read a dataset. The result matches
// both ErrFetch and cause with errors.Is.
func NewFetch(cause error) error {
	return new(fmt.Errorf("%w: %w", ErrFetch, cause), "failed to fetch dataset", TypeServer, CodeUpstream)
}

// NewSchema wraps a dataset schema violation. The result matches ErrSchema.
func NewSchema(cause error) error {
	return new(fmt.Errorf("%w: %w", ErrSchema, cause), "dataset schema mismatch", TypeServer, CodeSchema)
}

// NewDivisionUndefined reports a ratio with a zero denominator for subject.
func NewDivisionUndefined(subject string) error {
	return new(
		fmt.Errorf("%w: zero denominator for %q", ErrDivisionUndefined, subject),
		"ratio is undefined for "+subject,
		TypeBusiness,
		CodeUndefined,
	)
}
