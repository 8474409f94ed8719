package endpoint

import (
	"net/http"

	"github.com/inkwell/pkg/fault"
)

// ApiHandler is the shape every route handler implements. Returning a non-nil
// *ApiError hands the response over to NewApiHandler, which owns the error
// envelope.
type ApiHandler func(http.ResponseWriter, *http.Request) *ApiError

type Middleware func(ApiHandler) ApiHandler

type ApiError struct {
	Message string
	Status  int
	Fields  []fault.FieldError
	Err     error
}

func (e *ApiError) Error() string {
	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the wire envelope for every failed request.
type ErrorResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Errors  []FieldErrorResponse `json:"errors,omitempty"`
}

type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func fieldResponsesFrom(fields []fault.FieldError) []FieldErrorResponse {
	if len(fields) == 0 {
		return nil
	}

	out := make([]FieldErrorResponse, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldErrorResponse{
			Field:   f.Field,
			Message: f.Message,
			Value:   f.Value,
		})
	}

	return out
}
