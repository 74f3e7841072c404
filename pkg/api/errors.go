package api

import "fmt"

// ErrorType represents the category of an error.
type ErrorType string

const (
	ErrorTypeConfig          ErrorType = "config_error"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeVendor          ErrorType = "vendor_error"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeTooManyRequests ErrorType = "too_many_requests"
	ErrorTypeInternal        ErrorType = "internal_error"
)

// APIError represents a structured error with type, optional param, and message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewConfigError creates an APIError for invalid or missing configuration.
func NewConfigError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeConfig,
		Param:   param,
		Message: message,
	}
}

// NewInvalidRequestError creates an APIError for invalid tool arguments.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources the vendor cannot find.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewVendorError creates an APIError for vendor call failures (network
// errors, authentication rejection, run failures).
func NewVendorError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeVendor,
		Message: message,
	}
}

// NewTimeoutError creates an APIError for a poll loop that exceeded its bound.
func NewTimeoutError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeTimeout,
		Message: message,
	}
}

// NewTooManyRequestsError creates an APIError for vendor rate limiting.
func NewTooManyRequestsError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeTooManyRequests,
		Message: message,
	}
}

// NewInternalError creates an APIError for unexpected server-side failures.
func NewInternalError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInternal,
		Message: message,
	}
}

// IsTimeout reports whether err is an APIError with the timeout type.
func IsTimeout(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Type == ErrorTypeTimeout
}
