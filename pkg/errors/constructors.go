package errors

// Default messages used when a domain constructor gets an empty message.
const (
	msgNotFound   = "Resource not found"
	msgConflict   = "Conflict"
	msgPermission = "Permission denied"
	msgCanceled   = "Operation canceled"
)

func raise(kind Kind, op, message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	return &Error{Kind: kind, Op: op, Message: message}
}

func recoverable(e *Error) *Error {
	e.Recoverable = true
	return e
}

// Validation reports bad input. The caller can fix it and retry, so the
// error is recoverable.
func Validation(op, message string) *Error {
	return recoverable(raise(KindValidation, op, message, ""))
}

// ValidationWrap is Validation with a cause.
func ValidationWrap(err error, op, message string) *Error {
	return recoverable(Wrap(err, KindValidation, op, message))
}

// NotFound reports a missing resource. An empty message uses the default.
func NotFound(op, message string) *Error {
	return raise(KindNotFound, op, message, msgNotFound)
}

// Conflict reports a clash with existing state. An empty message uses the
// default.
func Conflict(op, message string) *Error {
	return raise(KindConflict, op, message, msgConflict)
}

// PermissionDenied reports a forbidden operation. An empty message uses the
// default.
func PermissionDenied(op, message string) *Error {
	return raise(KindPermission, op, message, msgPermission)
}

// Infra reports an adapter failure under a custom code; an empty code
// falls back to infra_error.
func Infra(op, code, message string) *Error {
	return raise(KindInfra, op, message, "").WithCode(code)
}

// InfraWrap wraps an adapter failure. Adapter failures are recoverable.
func InfraWrap(err error, op, message string) *Error {
	return recoverable(Wrap(err, KindInfra, op, message))
}

func Internal(op, message string) *Error {
	return raise(KindInternal, op, message, "")
}

func InternalWrap(err error, op, message string) *Error {
	return Wrap(err, KindInternal, op, message)
}

// State reports an invalid lifecycle transition.
func State(op, message string) *Error {
	return raise(KindState, op, message, "")
}

// Canceled wraps a context error.
func Canceled(op string, err error) *Error {
	return Wrap(err, KindCanceled, op, msgCanceled)
}

func Config(op, message string) *Error {
	return raise(KindConfig, op, message, "")
}

func ConfigWrap(err error, op, message string) *Error {
	return Wrap(err, KindConfig, op, message)
}

func IO(op, message string) *Error {
	return raise(KindIO, op, message, "")
}

func IOWrap(err error, op, message string) *Error {
	return Wrap(err, KindIO, op, message)
}

func TemplateWrap(err error, op, message string) *Error {
	return Wrap(err, KindTemplate, op, message)
}
