// Package httpvet validates JSON request bodies against a schema before
// a handler runs. It is a thin translator: the engine makes the pass/fail
// decision and the middleware maps a failure to a 400 response instead of
// letting it crash the handler.
package httpvet

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	typevet "github.com/typevet/typevet-go"
	"github.com/typevet/typevet-go/checks"
	"github.com/typevet/typevet-go/descriptor"
)

const defaultMaxBodySize = 1 << 20 // 1 MiB

// errorResponse is the payload returned for rejected requests.
type errorResponse struct {
	Error string      `json:"error"`
	Code  checks.Code `json:"code,omitempty"`
	Field string      `json:"field,omitempty"`
}

// Option configures the middleware.
type Option func(*bodyValidator)

// WithLogger sets the logger used for rejected requests.
func WithLogger(logger *slog.Logger) Option {
	return func(v *bodyValidator) {
		v.logger = logger
	}
}

// WithMaxBodySize caps how many bytes of request body are read.
func WithMaxBodySize(n int64) Option {
	return func(v *bodyValidator) {
		v.maxBodySize = n
	}
}

// WithNormalize fills schema defaults into the decoded body before
// validation. The normalized body is what the next handler sees.
func WithNormalize(enabled bool) Option {
	return func(v *bodyValidator) {
		v.normalize = enabled
	}
}

type bodyValidator struct {
	engine      *typevet.Engine
	schema      *descriptor.Schema
	logger      *slog.Logger
	maxBodySize int64
	normalize   bool
}

// RequireBody returns middleware that validates the request body against
// the schema. Requests whose body is not valid JSON, or whose fields fail
// the schema check, receive a 400 response carrying the failure message;
// valid requests are forwarded unchanged with the body restored. Note
// that a warn-only engine reports failures to its logger and lets the
// request through.
func RequireBody(engine *typevet.Engine, schema *descriptor.Schema, opts ...Option) func(http.Handler) http.Handler {
	v := &bodyValidator{
		engine:      engine,
		schema:      schema,
		logger:      slog.Default(),
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(v)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, v.maxBodySize))
			if err != nil {
				v.reject(w, r, errorResponse{Error: "failed to read request body"})
				return
			}
			r.Body.Close()

			var payload map[string]any
			if err := json.Unmarshal(body, &payload); err != nil {
				v.reject(w, r, errorResponse{Error: "request body is not a JSON object"})
				return
			}

			if v.normalize {
				payload = v.schema.Normalize(payload)
				if body, err = json.Marshal(payload); err != nil {
					v.reject(w, r, errorResponse{Error: "failed to normalize request body"})
					return
				}
			}

			if err := v.engine.CheckObject(r.Context(), payload, v.schema); err != nil {
				resp := errorResponse{Error: err.Error()}
				var violation *checks.Violation
				if errors.As(err, &violation) {
					resp.Code = violation.Code
					resp.Field = violation.Field
				}
				v.reject(w, r, resp)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

func (v *bodyValidator) reject(w http.ResponseWriter, r *http.Request, resp errorResponse) {
	v.logger.Warn("request body rejected",
		"method", r.Method,
		"path", r.URL.Path,
		"schema", v.schema.Name,
		"error", resp.Error,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(resp)
}
