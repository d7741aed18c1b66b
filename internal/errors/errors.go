// Package errors provides structured error types for kai.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for kai.
const (
	// Client-side pre-flight failures; never reach the network.
	CodeValidation           Code = "VALIDATION_FAILED"
	CodeConfirmationMismatch Code = "CONFIRMATION_MISMATCH"

	// Session errors. 401/403 responses are handled globally, not surfaced inline.
	CodeUnauthenticated Code = "UNAUTHENTICATED"

	// Remote API errors.
	CodeAPI      Code = "API_ERROR"
	CodeNotFound Code = "NOT_FOUND"

	// Transport failures with no response.
	CodeNetwork Code = "NETWORK_ERROR"

	// Config errors
	CodeConfigInvalid Code = "CONFIG_INVALID"
	CodeConfigMissing Code = "CONFIG_MISSING"
)

// Category groups error codes for display and retry policy.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryValidation
	CategoryAuth
	CategoryNotFound
	CategoryAPI
	CategoryNetwork
)

// codeCategories maps error codes to their categories.
var codeCategories = map[Code]Category{
	CodeValidation:           CategoryValidation,
	CodeConfirmationMismatch: CategoryValidation,
	CodeUnauthenticated:      CategoryAuth,
	CodeAPI:                  CategoryAPI,
	CodeNotFound:             CategoryNotFound,
	CodeNetwork:              CategoryNetwork,
	CodeConfigInvalid:        CategoryValidation,
	CodeConfigMissing:        CategoryValidation,
}

// KaiError is the structured error type for kai.
type KaiError struct {
	Code Code   `json:"code"`
	What string `json:"what"`
	Why  string `json:"why,omitempty"`
	Fix  string `json:"fix,omitempty"`

	// HTTPStatus is the remote status code for API errors, 0 otherwise.
	HTTPStatus int `json:"http_status,omitempty"`

	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *KaiError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *KaiError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *KaiError) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// Category returns the error category.
func (e *KaiError) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// MarshalJSON implements json.Marshaler.
func (e *KaiError) MarshalJSON() ([]byte, error) {
	type alias KaiError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// Is reports whether target is a KaiError with the same code.
func (e *KaiError) Is(target error) bool {
	t, ok := target.(*KaiError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *KaiError) WithCause(err error) *KaiError {
	out := *e
	out.Cause = err
	return &out
}

// --- Error constructors ---

// ErrValidation returns an error for a failed client-side pre-flight check.
func ErrValidation(field, reason string) *KaiError {
	return &KaiError{
		Code: CodeValidation,
		What: fmt.Sprintf("invalid %s", field),
		Why:  reason,
		Fix:  "Correct the input and retry; no request was sent",
	}
}

// ErrConfirmationMismatch returns an error when a destructive confirmation
// phrase does not match.
func ErrConfirmationMismatch(expected string) *KaiError {
	return &KaiError{
		Code: CodeConfirmationMismatch,
		What: "confirmation phrase does not match",
		Why:  fmt.Sprintf("Folder deletion requires typing %q exactly", expected),
		Fix:  fmt.Sprintf("Type %q to confirm, or omit --delete-folder", expected),
	}
}

// ErrUnauthenticated returns an error for an expired or missing session.
func ErrUnauthenticated() *KaiError {
	return &KaiError{
		Code: CodeUnauthenticated,
		What: "session is not authenticated",
		Why:  "The server rejected the stored credentials (401/403)",
		Fix:  "Run 'kai login' to authenticate again",
	}
}

// ErrAPI returns an error for a non-2xx API response.
func ErrAPI(status int, message string) *KaiError {
	if message == "" {
		message = "API call failed"
	}
	return &KaiError{
		Code:       CodeAPI,
		What:       message,
		Why:        fmt.Sprintf("Server responded with HTTP %d", status),
		HTTPStatus: status,
	}
}

// ErrNotFound returns an error when an entity does not exist.
func ErrNotFound(kind, id string) *KaiError {
	return &KaiError{
		Code:       CodeNotFound,
		What:       fmt.Sprintf("%s %s not found", kind, id),
		Why:        "No entity with this ID exists on the server",
		HTTPStatus: 404,
	}
}

// ErrNetwork returns an error for a transport failure with no response.
func ErrNetwork(err error) *KaiError {
	return &KaiError{
		Code:  CodeNetwork,
		What:  "could not reach the kai API",
		Why:   "The request failed before a response was received",
		Fix:   "Check the API URL in config and your network connection",
		Cause: err,
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(field, reason string) *KaiError {
	return &KaiError{
		Code: CodeConfigInvalid,
		What: fmt.Sprintf("invalid configuration: %s", field),
		Why:  reason,
		Fix:  "Check ~/.kai/config.yaml and fix the invalid field",
	}
}

// ErrConfigMissing returns an error for missing configuration.
func ErrConfigMissing(field string) *KaiError {
	return &KaiError{
		Code: CodeConfigMissing,
		What: fmt.Sprintf("missing required configuration: %s", field),
		Why:  "This field is required but not set in configuration",
		Fix:  fmt.Sprintf("Add '%s' to ~/.kai/config.yaml or set the KAI_* environment variable", field),
	}
}

// AsKaiError attempts to convert an error to a KaiError.
// Returns nil if the error is not a KaiError.
func AsKaiError(err error) *KaiError {
	var kaiErr *KaiError
	if stderrors.As(err, &kaiErr) {
		return kaiErr
	}
	return nil
}

// Wrap wraps a generic error into a KaiError with unknown code.
func Wrap(err error, what string) *KaiError {
	return &KaiError{
		Code:  Code("UNKNOWN"),
		What:  what,
		Cause: err,
	}
}
