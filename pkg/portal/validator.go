package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/inkwell/pkg/fault"
)

// Validator wraps go-playground/validator. It keeps no per-call state, so a
// single instance can serve concurrent requests.
type Validator struct {
	validate *validator.Validate
}

func GetDefaultValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Passes reports whether subject validates, along with field-level detail
// for every failed rule.
func (v *Validator) Passes(subject any) (bool, []fault.FieldError) {
	err := v.validate.Struct(subject)
	if err == nil {
		return true, nil
	}

	var issues validator.ValidationErrors
	if !errors.As(err, &issues) {
		// Not a rule failure: the subject itself could not be validated.
		return false, []fault.FieldError{{Message: err.Error()}}
	}

	fields := make([]fault.FieldError, 0, len(issues))

	for _, issue := range issues {
		fields = append(fields, fault.FieldError{
			Field:   strings.ToLower(issue.Field()),
			Message: fmt.Sprintf("failed on the '%s' rule", issue.Tag()),
			Value:   issue.Value(),
		})
	}

	return false, fields
}

func (v *Validator) Rejects(subject any) (bool, []fault.FieldError) {
	passes, fields := v.Passes(subject)

	return !passes, fields
}

// FieldErrorsAsJson renders fields as a field-to-message JSON object, used
// by boot-time panics.
func FieldErrorsAsJson(fields []fault.FieldError) string {
	if len(fields) == 0 {
		return ""
	}

	out := make(map[string]string, len(fields))
	for _, field := range fields {
		out[field.Field] = field.Message
	}

	data, err := json.Marshal(out)
	if err != nil {
		return ""
	}

	return string(data)
}
