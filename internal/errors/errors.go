package apperrors

import (
	"fmt"
	"strings"
)

// ValidationError reports the required campaign fields that were missing or
// invalid. No mutation happens when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

func NewValidationError(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// GenerationError wraps a failure of the generation backend: missing
// credential, transport error, or a rejected request. Empty generated content
// is not a GenerationError.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("content generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func NewGenerationError(err error) error {
	return &GenerationError{Err: err}
}

// StorageError wraps a snapshot load/save failure. It is logged by the
// lifecycle manager and never interrupts in-memory operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
