package ledger

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category name already exists")
	ErrConflict          = errors.New("conflicting concurrent update")

	// ErrInvalidInput matches every *ValidationError through errors.Is.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports a malformed or out of range field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
