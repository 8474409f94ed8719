package endpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkwell/pkg/fault"
)

type Response struct {
	etag         string
	cacheControl string
	writer       http.ResponseWriter
	request      *http.Request
	headers      func(w http.ResponseWriter)
}

func NewResponseWithCache(salt string, maxAgeSeconds int, writer http.ResponseWriter, request *http.Request) *Response {
	if maxAgeSeconds < 0 {
		maxAgeSeconds = 0
	}

	etag := fmt.Sprintf(`"%s"`, strings.TrimSpace(salt))
	cacheControl := fmt.Sprintf("public, max-age=%d", maxAgeSeconds)

	return &Response{
		writer:       writer,
		request:      request,
		etag:         etag,
		cacheControl: cacheControl,
		headers: func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Cache-Control", cacheControl)
			w.Header().Set("ETag", etag)
		},
	}
}

func NewResponseFrom(salt string, writer http.ResponseWriter, request *http.Request) *Response {
	return NewResponseWithCache(salt, 3600, writer, request)
}

func NewNoCacheResponse(writer http.ResponseWriter, request *http.Request) *Response {
	cacheControl := "no-store"

	return &Response{
		writer:       writer,
		request:      request,
		cacheControl: cacheControl,
		headers: func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Cache-Control", cacheControl)
		},
	}
}

func (r *Response) Respond(status int, payload any) error {
	r.headers(r.writer)
	r.writer.WriteHeader(status)

	return json.NewEncoder(r.writer).Encode(payload)
}

func (r *Response) RespondOk(payload any) error {
	return r.Respond(http.StatusOK, payload)
}

func (r *Response) RespondCreated(payload any) error {
	return r.Respond(http.StatusCreated, payload)
}

func (r *Response) HasCache() bool {
	if r.etag == "" {
		return false
	}

	match := strings.TrimSpace(r.request.Header.Get("If-None-Match"))

	return match == r.etag
}

func (r *Response) RespondWithNotModified() {
	r.writer.WriteHeader(http.StatusNotModified)
}

// FromFault translates a domain failure into the matching HTTP error. Internal
// detail never reaches the client; it travels on Err for logging and capture.
func FromFault(err error) *ApiError {
	switch fault.KindOf(err) {
	case fault.Validation:
		return &ApiError{
			Message: messageOf(err),
			Status:  http.StatusUnprocessableEntity,
			Fields:  fault.FieldsOf(err),
			Err:     err,
		}
	case fault.NotFound:
		return &ApiError{Message: messageOf(err), Status: http.StatusNotFound, Err: err}
	case fault.Conflict:
		return &ApiError{Message: messageOf(err), Status: http.StatusConflict, Err: err}
	case fault.Forbidden:
		return &ApiError{Message: messageOf(err), Status: http.StatusForbidden, Err: err}
	case fault.Authentication:
		return &ApiError{Message: messageOf(err), Status: http.StatusUnauthorized, Err: err}
	case fault.Storage:
		// The message is written for clients; the wrapped cause stays on
		// Err for logs and capture.
		slog.Error(err.Error(), "error", err)

		return &ApiError{Message: messageOf(err), Status: http.StatusInternalServerError, Err: err}
	default:
		return LogInternalError("something went wrong", err)
	}
}

// messageOf surfaces the domain message without the kind prefix that
// fault.Error.Error() adds.
func messageOf(err error) string {
	var domain *fault.Error
	if errors.As(err, &domain) {
		return domain.Message
	}

	return err.Error()
}

func InternalError(msg string) *ApiError {
	message := fmt.Sprintf("Internal server error: %s", msg)

	return &ApiError{
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     errors.New(message),
	}
}

func LogInternalError(msg string, err error) *ApiError {
	slog.Error(err.Error(), "error", err)

	return &ApiError{
		Message: fmt.Sprintf("Internal server error: %s", msg),
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func BadRequestError(msg string) *ApiError {
	message := fmt.Sprintf("Bad request error: %s", msg)

	return &ApiError{
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     errors.New(message),
	}
}

func LogBadRequestError(msg string, err error) *ApiError {
	slog.Error(err.Error(), "error", err)

	return &ApiError{
		Message: fmt.Sprintf("Bad request error: %s", msg),
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func UnauthorisedError(msg string) *ApiError {
	message := fmt.Sprintf("Unauthorised request: %s", msg)

	return &ApiError{
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     errors.New(message),
	}
}

func LogUnauthorisedError(msg string, err error) *ApiError {
	slog.Error(err.Error(), "error", err)

	return &ApiError{
		Message: fmt.Sprintf("Unauthorised request: %s", msg),
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func ForbiddenError(msg string) *ApiError {
	message := fmt.Sprintf("Forbidden: %s", msg)

	return &ApiError{
		Message: message,
		Status:  http.StatusForbidden,
		Err:     errors.New(message),
	}
}

func ConflictError(msg string) *ApiError {
	return &ApiError{
		Message: msg,
		Status:  http.StatusConflict,
		Err:     errors.New(msg),
	}
}

func UnprocessableEntity(msg string, fields []fault.FieldError) *ApiError {
	return &ApiError{
		Message: msg,
		Status:  http.StatusUnprocessableEntity,
		Fields:  fields,
		Err:     errors.New(msg),
	}
}

func TooManyRequestsError(msg string) *ApiError {
	return &ApiError{
		Message: msg,
		Status:  http.StatusTooManyRequests,
		Err:     errors.New(msg),
	}
}

func NotFound(msg string) *ApiError {
	return &ApiError{
		Message: msg,
		Status:  http.StatusNotFound,
		Err:     errors.New(msg),
	}
}
