package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"nathanbeddoewebdev/panelctl/internal/domain"
)

// Kind classifies an Error.
type Kind string

const (
	KindConfig       Kind = "config"
	KindTransport    Kind = "transport"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindMalformed    Kind = "malformed"
	KindAPI          Kind = "api"
)

// Messages used when the pipeline has nothing better to report.
const (
	networkErrorMessage   = "Network error occurred"
	networkErrorDetail    = "Failed to connect to server or unexpected error"
	malformedMessage      = "Invalid response format"
	malformedDetail       = "The server returned a response that could not be parsed"
	unauthenticatedDetail = "Authentication required"
)

// GeneralField is the errors key used for messages not tied to a field.
const GeneralField = "general"

// Error is the only error type the pipeline returns.
type Error struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Kind    Kind                `json:"-"`

	err error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.err }

// Is matches the shared sentinels in the domain package by status.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	case domain.ErrValidation:
		return e.Status == http.StatusUnprocessableEntity
	case domain.ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	}
	return false
}

// Temporary reports whether repeating the same call later may succeed.
func (e *Error) Temporary() bool {
	if e.Kind == KindTransport {
		return true
	}
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// FieldMessages returns "field: message" lines in field order, with the
// general field first.
func (e *Error) FieldMessages() []string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		if field != GeneralField {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	var lines []string
	for _, msg := range e.Errors[GeneralField] {
		if msg != e.Message {
			lines = append(lines, msg)
		}
	}
	for _, field := range fields {
		for _, msg := range e.Errors[field] {
			lines = append(lines, field+": "+msg)
		}
	}
	return lines
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ErrMissingBaseURL is wrapped by the configuration error returned when no
// API base URL is configured.
var ErrMissingBaseURL = errors.New("API base URL is not configured")

func configError() *Error {
	msg := ErrMissingBaseURL.Error() + ": set PANELCTL_API_BASE_URL or run 'panelctl config set api-base-url <url>'"
	return &Error{
		Message: msg,
		Errors:  map[string][]string{GeneralField: {msg}},
		Kind:    KindConfig,
		err:     ErrMissingBaseURL,
	}
}

// transportError is the fallback for anything that escapes the structured
// branches: network failures, unreadable bodies, unencodable payloads.
func transportError(cause error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: networkErrorMessage,
		Errors:  map[string][]string{GeneralField: {networkErrorDetail}},
		Kind:    KindTransport,
		err:     cause,
	}
}

func malformedError(status int, cause error) *Error {
	return &Error{
		Status:  status,
		Message: malformedMessage,
		Errors:  map[string][]string{GeneralField: {malformedDetail}},
		Kind:    KindMalformed,
		err:     cause,
	}
}

func unauthenticatedError() *Error {
	return &Error{
		Status:  http.StatusUnauthorized,
		Message: unauthenticatedDetail,
		Errors:  map[string][]string{GeneralField: {unauthenticatedDetail}},
		Kind:    KindUnauthorized,
	}
}

// kindForStatus classifies a non-2xx status.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusUnprocessableEntity, status == http.StatusBadRequest:
		return KindValidation
	default:
		return KindAPI
	}
}

// textError wraps a non-JSON error body.
func textError(status int, text string) *Error {
	msg := strings.TrimSpace(text)
	if msg == "" {
		msg = defaultMessage(status)
	}
	return &Error{
		Status:  status,
		Message: msg,
		Errors:  map[string][]string{GeneralField: {msg}},
		Kind:    kindForStatus(status),
	}
}

func defaultMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "An error occurred"
}
