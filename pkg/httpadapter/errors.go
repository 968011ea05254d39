package httpadapter

import (
	"net/http"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

// ErrorMapper converts a use case failure into a status code and a JSON body.
type ErrorMapper func(e *errors.Error) (status int, body any)

// ErrorBody is the response envelope for failures.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the failure payload. Details is null when empty.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// StatusFor returns the HTTP status for an error kind.
func StatusFor(e *errors.Error) int {
	switch e.Kind {
	case errors.KindValidation:
		return http.StatusUnprocessableEntity
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindConflict:
		return http.StatusConflict
	case errors.KindPermission:
		return http.StatusForbidden
	case errors.KindInfra, errors.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// DefaultErrorMapper maps errors with StatusFor and the error payload.
func DefaultErrorMapper(e *errors.Error) (int, any) {
	return StatusFor(e), NewErrorBody(e)
}

// NewErrorBody builds the failure envelope for e.
func NewErrorBody(e *errors.Error) ErrorBody {
	p := e.Payload()
	if p.Message == "" {
		p.Message = e.Error()
	}
	return ErrorBody{Error: ErrorDetail{Code: p.Code, Message: p.Message, Details: p.Details}}
}
