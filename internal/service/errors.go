package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("client not found")
	ErrUniqueness = errors.New("slug already in use")
)

// Err tags innerErr (may be nil) with one of the sentinel errors above so callers
// can classify it with errors.Is.
func Err(typedError error, innerErr error, msgTemplate string, args ...any) error {
	if msgTemplate == "" {
		return errors.Join(typedError, innerErr)
	}
	return errors.Join(typedError, innerErr, fmt.Errorf(msgTemplate, args...))
}
