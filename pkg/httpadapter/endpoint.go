// Package httpadapter exposes use cases as HTTP endpoints on a chi router.
package httpadapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
	"github.com/KeSHaMI/hexaframe/pkg/usecase"
)

// maxBodyBytes limits request bodies read by the default parser.
const maxBodyBytes = 1 << 20

// Endpoint binds one use case to a method and path. Exactly one of UseCase
// or Factory must be set.
type Endpoint[I, O any] struct {
	Method string
	Path   string

	// UseCase is shared by every request.
	UseCase usecase.Executor[I, O]
	// Factory builds a use case per request.
	Factory func(r *http.Request) usecase.Executor[I, O]

	// Parse builds the use case input. Defaults to JSONBody.
	Parse func(r *http.Request) (I, error)
	// Render maps the use case output to the response value. Defaults to
	// the output itself.
	Render func(out O) any
	// MapError maps a failure to a status and body. Defaults to
	// DefaultErrorMapper.
	MapError ErrorMapper
	// Status is the success status code. Defaults to 200.
	Status int
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Register validates the endpoint and mounts it on r.
func (e Endpoint[I, O]) Register(r chi.Router) error {
	h, err := e.Handler()
	if err != nil {
		return err
	}
	r.Method(strings.ToUpper(e.Method), e.Path, h)
	return nil
}

// Handler validates the endpoint and returns its http.Handler.
func (e Endpoint[I, O]) Handler() (http.Handler, error) {
	const op = "Endpoint.Register"
	if (e.UseCase == nil) == (e.Factory == nil) {
		return nil, errors.Config(op, "provide exactly one of UseCase or Factory")
	}
	method := strings.ToUpper(e.Method)
	if !allowedMethods[method] {
		return nil, errors.Config(op, fmt.Sprintf("unsupported method: %s", e.Method))
	}
	if e.Path == "" || !strings.HasPrefix(e.Path, "/") {
		return nil, errors.Config(op, fmt.Sprintf("path must start with /: %q", e.Path))
	}

	parse := e.Parse
	if parse == nil {
		parse = JSONBody[I]
	}
	render := e.Render
	if render == nil {
		render = func(out O) any { return out }
	}
	mapErr := e.MapError
	if mapErr == nil {
		mapErr = DefaultErrorMapper
	}
	status := e.Status
	if status == 0 {
		status = http.StatusOK
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uc := e.UseCase
		if e.Factory != nil {
			uc = e.Factory(r)
		}

		in, err := parse(r)
		if err != nil {
			writeError(w, mapErr, asInputError(err))
			return
		}

		res := uc.Execute(r.Context(), in)
		if fail, ok := res.Error(); ok {
			writeError(w, mapErr, fail)
			return
		}
		out, _ := res.Value()

		body, err := successBody(render(out))
		if err != nil {
			writeError(w, mapErr, errors.InternalWrap(err, "Render", "response is not serializable"))
			return
		}
		writeJSON(w, status, body)
	}), nil
}

// JSONBody decodes the request body into I. An empty body yields the zero
// value.
func JSONBody[I any](r *http.Request) (I, error) {
	var in I
	if r.Body == nil {
		return in, nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return in, errors.ValidationWrap(err, "JSONBody", "could not read request body")
	}
	if len(data) > maxBodyBytes {
		return in, errors.Validation("JSONBody", "request body too large")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, errors.ValidationWrap(err, "JSONBody", "invalid JSON body").
			WithDetail("reason", err.Error())
	}
	return in, nil
}

// PathParam returns the named chi URL parameter.
func PathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func asInputError(err error) *errors.Error {
	var e *errors.Error
	if errors.As(err, &e) {
		return e
	}
	return errors.ValidationWrap(err, "Parse", err.Error())
}

// successBody writes JSON objects as they are and wraps anything else as
// {"data": value}.
func successBody(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return data, nil
	}
	return json.Marshal(map[string]json.RawMessage{"data": data})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, mapErr ErrorMapper, e *errors.Error) {
	status, body := mapErr(e)
	writeJSON(w, status, body)
}
