package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the partner rejected the supplied credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict indicates the upstream resource is busy (e.g. a sync already running)
	ErrConflict = errors.New("conflict")

	// ErrInvalidState indicates an OAuth state token is unknown, expired or already used
	ErrInvalidState = errors.New("invalid or expired state")

	// ErrTimeout indicates an operation did not finish within its attempt budget
	ErrTimeout = errors.New("timed out")

	// ErrUpstream indicates a partner or AWS API call failed
	ErrUpstream = errors.New("upstream request failed")

	// ErrMisconfigured indicates required environment configuration is missing
	ErrMisconfigured = errors.New("missing configuration")

	// ErrTokenInvalid indicates a bearer token failed verification
	ErrTokenInvalid = errors.New("invalid token")
)

// ErrorKind classifies a failure for the handler boundary.
type ErrorKind string

const (
	KindClient   ErrorKind = "client"
	KindUpstream ErrorKind = "upstream"
	KindTimeout  ErrorKind = "timeout"
	KindInternal ErrorKind = "internal"
)

// Error is the tagged result error returned by service steps.
// Status is optional; when zero the kind's default status applies.
type Error struct {
	Kind    ErrorKind
	Status  int
	Title   string
	Message string
	Details string
	Missing []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Title != "" {
		b.WriteString(": ")
		b.WriteString(e.Title)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind to the HTTP status reported to callers.
func (e *Error) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindClient:
		return http.StatusBadRequest
	case KindTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ClientError reports invalid caller input.
func ClientError(title, message string) *Error {
	return &Error{Kind: KindClient, Title: title, Message: message, Err: ErrInvalidInput}
}

// NotFoundError reports a missing resource the caller referenced.
func NotFoundError(title, message string) *Error {
	return &Error{Kind: KindClient, Status: http.StatusNotFound, Title: title, Message: message, Err: ErrNotFound}
}

// UpstreamError wraps a failed partner or AWS call.
func UpstreamError(title string, err error) *Error {
	return &Error{Kind: KindUpstream, Title: title, Message: messageOf(err), Err: err}
}

// AuthError reports a partner authentication failure (401).
func AuthError(title, details string, err error) *Error {
	if err == nil {
		err = ErrUnauthorized
	}
	return &Error{Kind: KindUpstream, Status: http.StatusUnauthorized, Title: title, Message: messageOf(err), Details: details, Err: err}
}

// ConflictError reports an upstream conflict (409).
func ConflictError(title, message string, err error) *Error {
	if err == nil {
		err = ErrConflict
	}
	return &Error{Kind: KindUpstream, Status: http.StatusConflict, Title: title, Message: message, Err: err}
}

// TimeoutError reports an exhausted polling or request budget (408).
func TimeoutError(title, message string) *Error {
	return &Error{Kind: KindTimeout, Title: title, Message: message, Err: ErrTimeout}
}

// InternalError wraps an unexpected failure.
func InternalError(err error) *Error {
	return &Error{Kind: KindInternal, Title: "Internal Server Error", Message: messageOf(err), Err: err}
}

// MissingFieldsError lists the required fields absent from a request or secret.
func MissingFieldsError(missing []string) *Error {
	sorted := append([]string(nil), missing...)
	sort.Strings(sorted)
	return &Error{
		Kind:    KindClient,
		Title:   "Missing Required Parameters",
		Message: fmt.Sprintf("missing required fields: %s", strings.Join(sorted, ", ")),
		Missing: sorted,
		Err:     ErrInvalidInput,
	}
}

// AsError classifies any error. Untyped errors become internal errors,
// except sentinels with a well-known kind.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	switch {
	case errors.Is(err, ErrInvalidState):
		return &Error{Kind: KindClient, Title: "Invalid State", Message: err.Error(), Err: err}
	case errors.Is(err, ErrInvalidInput):
		return &Error{Kind: KindClient, Title: "Bad Request", Message: err.Error(), Err: err}
	case errors.Is(err, ErrNotFound):
		return &Error{Kind: KindClient, Status: http.StatusNotFound, Title: "Not Found", Message: err.Error(), Err: err}
	case errors.Is(err, ErrUnauthorized):
		return &Error{Kind: KindUpstream, Status: http.StatusUnauthorized, Title: "Unauthorized", Message: err.Error(), Err: err}
	case errors.Is(err, ErrConflict):
		return &Error{Kind: KindUpstream, Status: http.StatusConflict, Title: "Conflict", Message: err.Error(), Err: err}
	case errors.Is(err, ErrTimeout):
		return &Error{Kind: KindTimeout, Title: "Timeout", Message: err.Error(), Err: err}
	case errors.Is(err, ErrUpstream):
		return &Error{Kind: KindUpstream, Title: "Upstream Error", Message: err.Error(), Err: err}
	}
	return InternalError(err)
}

// KindOf returns the kind of err, KindInternal for untyped errors.
func KindOf(err error) ErrorKind {
	if e := AsError(err); e != nil {
		return e.Kind
	}
	return ""
}

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
