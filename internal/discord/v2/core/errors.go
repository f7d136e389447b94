package core

import "fmt"

// HandlerError is an error with a message that is safe to show the user
type HandlerError struct {
	Err error

	UserMessage string

	// ShowToUser false means the generic message is shown instead
	ShowToUser bool

	// HTTP-like status code for categorization
	Code int
}

// Error implements the error interface
func (e *HandlerError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrorCodeBadRequest = 400
	ErrorCodeNotFound   = 404
)

// GenericErrorMessage is shown when nothing more specific is known
const GenericErrorMessage = "エラーが発生しました。しばらくしてからもう一度お試しください。"

// NewHandlerError creates a new handler error
func NewHandlerError(err error, userMessage string, code int) *HandlerError {
	return &HandlerError{
		Err:         err,
		UserMessage: userMessage,
		ShowToUser:  true,
		Code:        code,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *HandlerError {
	return &HandlerError{
		UserMessage: fmt.Sprintf("%sが見つかりません。", resource),
		ShowToUser:  true,
		Code:        ErrorCodeNotFound,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *HandlerError {
	return &HandlerError{
		UserMessage: message,
		ShowToUser:  true,
		Code:        ErrorCodeBadRequest,
	}
}
