package domain

import "fmt"

// Error codes
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeFileNotFound   = "FILE_NOT_FOUND"
	ErrCodeParseError     = "PARSE_ERROR"
	ErrCodeConfigError    = "CONFIG_ERROR"
	ErrCodeOutputError    = "OUTPUT_ERROR"
	ErrCodeTransformError = "TRANSFORM_ERROR"
	ErrCodeScanError      = "SCAN_ERROR"
)

// DomainError is an error carrying a stable code for callers and exit handling
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, "file not found: "+path, cause)
}

// NewParseError creates a parse error for a file
func NewParseError(file string, cause error) error {
	return NewDomainError(ErrCodeParseError, "failed to parse "+file, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewTransformError creates an error for a file whose transform failed.
// The file is named in the message so that bundler output points at it.
func NewTransformError(file string, cause error) error {
	return NewDomainError(ErrCodeTransformError, "failed to transform "+file, cause)
}

// NewScanError creates an error for a failed directory or package scan
func NewScanError(message string, cause error) error {
	return NewDomainError(ErrCodeScanError, message, cause)
}
