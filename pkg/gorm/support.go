package gorm

import (
	"errors"

	stdgorm "gorm.io/gorm"
)

func IsNotFound(err error) bool {
	return errors.Is(err, stdgorm.ErrRecordNotFound)
}

// IsDuplicated reports whether err is a unique-constraint violation. It
// relies on gorm's TranslateError config so postgres and sqlite drivers
// surface the same sentinel.
func IsDuplicated(err error) bool {
	return errors.Is(err, stdgorm.ErrDuplicatedKey)
}

func IsFoundButHasErrors(err error) bool {
	return err != nil && !IsNotFound(err)
}

func HasDbIssues(err error) bool {
	return err != nil
}
