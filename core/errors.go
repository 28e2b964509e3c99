package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// APIError kinds. Every failure crossing the HTTP boundary is tagged with
// exactly one of these so upstream code can match on Kind instead of probing
// response shapes.
const (
	KindNetwork    = "network"
	KindValidation = "validation"
	KindAuth       = "auth"
	KindForbidden  = "forbidden"
	KindNotFound   = "not_found"
	KindServer     = "server"
)

// APIError is a failed call to the backend API.
type APIError struct {
	Kind   string
	Status int // 0 for transport failures
	Detail string
	Fields map[string]string // field-level messages from the server, if any
	Err    error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		flds := make([]string, 0, len(e.Fields))
		for f, msg := range e.Fields {
			flds = append(flds, f+": "+msg)
		}
		sort.Strings(flds)
		return strings.Join(flds, "; ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("api error (%s)", e.Kind)
}

func (e *APIError) Unwrap() error { return e.Err }

// APIErrorKind returns err's Kind or "" if err is not an *APIError.
func APIErrorKind(err error) string {
	if apiErr, ok := errors.Cause(err).(*APIError); ok {
		return apiErr.Kind
	}
	return ""
}

func IsAuthError(err error) bool      { return APIErrorKind(err) == KindAuth }
func IsForbiddenError(err error) bool { return APIErrorKind(err) == KindForbidden }
func IsNotFoundError(err error) bool  { return APIErrorKind(err) == KindNotFound }
func IsNetworkError(err error) bool   { return APIErrorKind(err) == KindNetwork }

// FieldError is used to indicate an error with a specific form field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a client-side precondition failure; it is raised before
// any request is issued.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}
