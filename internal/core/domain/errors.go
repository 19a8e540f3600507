package domain

import (
	"errors"
	"fmt"
)

var (
	ErrLectureNotFound    = errors.New("lecture not found")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPageOutOfRange     = errors.New("page number invalid")
	ErrExtraction         = errors.New("text extraction failed")
	ErrServiceUnavailable = errors.New("generation service unavailable")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
