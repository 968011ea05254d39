// Package errors provides the structured error taxonomy shared by use cases,
// adapters and the hexa CLI. Every failure carried by a result.Result is an
// *Error with a stable machine-readable code.
package errors

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"
)

// Kind represents the category of an error.
type Kind uint8

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindValidation indicates invalid input supplied by a caller.
	KindValidation
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindConflict indicates a conflict with existing state.
	KindConflict
	// KindPermission indicates the caller may not perform the operation.
	KindPermission
	// KindInfra indicates a failure in an adapter or external system.
	KindInfra
	// KindInternal indicates an unexpected fault.
	KindInternal
	// KindState indicates an invalid lifecycle transition.
	KindState
	// KindCanceled indicates the operation was canceled.
	KindCanceled
	// KindConfig indicates a configuration error.
	KindConfig
	// KindTemplate indicates a template rendering error.
	KindTemplate
	// KindIO indicates a file I/O error.
	KindIO
)

// Default codes carried in error payloads.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodePermission = "permission_denied"
	CodeInfra      = "infra_error"
	CodeInternal   = "internal_error"
	CodeState      = "invalid_state"
	CodeCanceled   = "canceled"
	CodeUnknown    = "error"
)

type kindInfo struct {
	name   string
	code   string
	domain bool
}

// kinds is indexed by Kind.
var kinds = [...]kindInfo{
	KindUnknown:    {"unknown", CodeUnknown, false},
	KindValidation: {"validation", CodeValidation, true},
	KindNotFound:   {"not_found", CodeNotFound, true},
	KindConflict:   {"conflict", CodeConflict, true},
	KindPermission: {"permission", CodePermission, true},
	KindInfra:      {"infrastructure", CodeInfra, false},
	KindInternal:   {"internal", CodeInternal, false},
	KindState:      {"state", CodeState, false},
	KindCanceled:   {"canceled", CodeCanceled, false},
	KindConfig:     {"configuration", CodeUnknown, false},
	KindTemplate:   {"template", CodeUnknown, false},
	KindIO:         {"io", CodeUnknown, false},
}

func (k Kind) info() kindInfo {
	if int(k) < len(kinds) {
		return kinds[k]
	}
	return kinds[KindUnknown]
}

// String returns the kind's name.
func (k Kind) String() string { return k.info().name }

// Code returns the default payload code for the kind.
func (k Kind) Code() string { return k.info().code }

// IsDomain reports whether the kind belongs to the domain taxonomy, as
// opposed to infrastructure or programming faults.
func (k Kind) IsDomain() bool { return k.info().domain }

// Error is the error type carried by every failed Result.
type Error struct {
	// Kind is the category of the error.
	Kind Kind
	// Code overrides the default code of Kind when set.
	Code string
	// Op is the operation being performed when the error occurred.
	Op string
	// Message is a human-readable error message.
	Message string
	// Err is the underlying error.
	Err error
	// Recoverable indicates a retry may succeed.
	Recoverable bool
	// Details contains additional context about the error.
	Details map[string]any
}

// Error renders "op: message: cause", leaving out empty parts.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether the target error matches this error.
// A target without Op matches by Kind only (sentinel pattern).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Op == t.Op
}

// ErrorCode returns the explicit code or the default code of the kind.
func (e *Error) ErrorCode() string {
	if e.Code != "" {
		return e.Code
	}
	return e.Kind.Code()
}

// WithCode sets an explicit code and returns the modified error.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithDetails merges details into e and returns e.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	maps.Copy(e.Details, details)
	return e
}

// WithDetail sets one detail on e and returns e.
func (e *Error) WithDetail(key string, value any) *Error {
	return e.WithDetails(map[string]any{key: value})
}

// Payload is the serializable shape of an error.
type Payload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Payload returns the serializable form of the error. The underlying cause
// is not included.
func (e *Error) Payload() Payload {
	p := Payload{Code: e.ErrorCode(), Message: e.Message}
	if len(e.Details) > 0 {
		p.Details = maps.Clone(e.Details)
	}
	return p
}

// New returns an error of kind with no operation or cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap returns an error of kind raised by op and caused by err.
func Wrap(err error, kind Kind, op string, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, kind Kind, op string, format string, args ...any) *Error {
	return Wrap(err, kind, op, fmt.Sprintf(format, args...))
}

// E is a convenience function to create errors with various arguments.
// Arguments can be of type Kind, string (operation, then message), error,
// map[string]any (details) or bool (recoverable).
func E(args ...any) *Error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Kind:
			e.Kind = a
		case string:
			if e.Op == "" {
				e.Op = a
			} else if e.Message == "" {
				e.Message = a
			}
		case *Error:
			e.Err = a
			if e.Kind == KindUnknown {
				e.Kind = a.Kind
			}
		case error:
			e.Err = a
		case map[string]any:
			e.Details = a
		case bool:
			e.Recoverable = a
		}
	}
	return e
}

// From converts any error into an *Error. An *Error anywhere in the chain is
// returned as is; other errors become internal errors that keep the cause.
// From returns nil for a nil error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := find(err); ok {
		return e
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, KindCanceled, "", msgCanceled)
	}
	return Wrap(err, KindInternal, "", "Unexpected error").
		WithDetail("type", fmt.Sprintf("%T", err)).
		WithDetail("error", RedactSensitive(err.Error()))
}

// find returns the first *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// GetKind returns the kind of the first *Error in err's chain, or
// KindUnknown.
func GetKind(err error) Kind {
	if e, ok := find(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// IsRecoverable reports whether a retry may succeed.
func IsRecoverable(err error) bool {
	e, ok := find(err)
	return ok && e.Recoverable
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool { return GetKind(err) == kind }

// IsDomain reports whether err carries a domain kind.
func IsDomain(err error) bool {
	return GetKind(err).IsDomain()
}

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bsk-(?:proj-|svc-)?[a-zA-Z0-9_-]{20,}\b`),
	regexp.MustCompile(`\bgh[posh]_[a-zA-Z0-9]{36,}\b`),
	regexp.MustCompile(`\bBearer\s+[a-zA-Z0-9_.-]{20,}`),
	// user:password@ in URLs
	regexp.MustCompile(`://[^:/\s]+:[^@\s]+@`),
}

// RedactSensitive removes tokens and credentials from s so it can be logged
// or returned to a client.
func RedactSensitive(s string) string {
	for _, pattern := range sensitivePatterns {
		s = pattern.ReplaceAllString(s, "[REDACTED]")
	}
	return s
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// Join returns an error that wraps the given errors.
func Join(errs ...error) error { return errors.Join(errs...) }
