package errors

import (
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies why a transcript could not be acquired.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindRateLimited
	KindDisabled
	KindNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindRateLimited:
		return "rate_limited"
	case KindDisabled:
		return "disabled"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// StatusCode maps a kind to the HTTP status returned to API clients.
func (k Kind) StatusCode() int {
	switch k {
	case KindInvalidURL:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindDisabled:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

type AppError struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func E(kind Kind, op string, err error, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    kind.StatusCode(),
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidURL(op string, err error, message string) *AppError {
	return E(KindInvalidURL, op, err, message)
}

func RateLimited(op string, err error, message string) *AppError {
	return E(KindRateLimited, op, err, message)
}

func Disabled(op string, err error, message string) *AppError {
	return E(KindDisabled, op, err, message)
}

func NotFound(op string, err error, message string) *AppError {
	return E(KindNotFound, op, err, message)
}

// TooLong reports media the configured source refuses to process. It keeps
// the not-found kind but answers 422 instead of 404.
func TooLong(op string, err error, message string) *AppError {
	e := E(KindNotFound, op, err, message)
	e.Code = http.StatusUnprocessableEntity
	return e
}

func Unknown(op string, err error, message string) *AppError {
	return E(KindUnknown, op, err, message)
}

func Internal(op string, err error, message string) *AppError {
	return E(KindInternal, op, err, message)
}

// KindOf reports the kind of the first AppError in err's chain.
// Errors that carry no AppError are KindUnknown.
func KindOf(err error) Kind {
	var appErr *AppError
	if pkgerrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// Message returns the client-facing message of the first AppError in err's
// chain, or err.Error() when there is none.
func Message(err error) string {
	var appErr *AppError
	if pkgerrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// StatusCode returns the HTTP status carried by the first AppError in err's
// chain, falling back to its kind's default.
func StatusCode(err error) int {
	var appErr *AppError
	if pkgerrors.As(err, &appErr) {
		if appErr.Code != 0 {
			return appErr.Code
		}
		return appErr.Kind.StatusCode()
	}
	return KindUnknown.StatusCode()
}
