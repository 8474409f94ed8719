package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the request boundary can translate it into a
// structured response without inspecting messages.
type Kind uint8

const (
	Validation Kind = iota + 1
	NotFound
	Conflict
	Forbidden
	Authentication
	Storage
	Internal
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Forbidden:
		return "forbidden"
	case Authentication:
		return "authentication"
	case Storage:
		return "storage"
	case Internal:
		return "internal"
	}

	return "unknown"
}

// FieldError carries field-level detail for validation failures.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "unknown error"
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Err.Error())
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

func NewValidation(message string, fields ...FieldError) *Error {
	return &Error{Kind: Validation, Message: message, Fields: fields}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: NotFound, Message: message}
}

func NewConflict(message string) *Error {
	return &Error{Kind: Conflict, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Kind: Forbidden, Message: message}
}

func NewAuthentication(message string) *Error {
	return &Error{Kind: Authentication, Message: message}
}

func NewStorage(message string, err error) *Error {
	return &Error{Kind: Storage, Message: message, Err: err}
}

func NewInternal(err error) *Error {
	return &Error{Kind: Internal, Message: "unexpected failure", Err: err}
}

// KindOf reports the taxonomy kind of err, or zero when err is not an *Error.
func KindOf(err error) Kind {
	var fErr *Error

	if errors.As(err, &fErr) {
		return fErr.Kind
	}

	return 0
}

// FieldsOf returns the field-level detail attached to err, if any.
func FieldsOf(err error) []FieldError {
	var fErr *Error

	if errors.As(err, &fErr) {
		return fErr.Fields
	}

	return nil
}

func IsValidation(err error) bool     { return KindOf(err) == Validation }
func IsNotFound(err error) bool       { return KindOf(err) == NotFound }
func IsConflict(err error) bool       { return KindOf(err) == Conflict }
func IsForbidden(err error) bool      { return KindOf(err) == Forbidden }
func IsAuthentication(err error) bool { return KindOf(err) == Authentication }
func IsStorage(err error) bool        { return KindOf(err) == Storage }
