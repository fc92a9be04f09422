package utils

import (
	"github.com/pkg/errors"
)

// NewLengthMismatchError is used when two slices that must be the same length are not.
func NewLengthMismatchError(what string, expected, actual int) error {
	return errors.Errorf("%s length mismatch: expected %d but got %d", what, expected, actual)
}
