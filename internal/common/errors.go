package common

import (
	"errors"
	"fmt"
	"strings"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
	ErrNoCheckpoint = errors.New("no checkpoint to resume from")
)

// Error codes carried by AppError.
const (
	CodeConfig     = "CONFIG_ERROR"
	CodeResume     = "RESUME_ERROR"
	CodeTable      = "TABLE_ERROR"
	CodeProfile    = "PROFILE_ERROR"
	CodeRasterize  = "RASTERIZE_ERROR"
	CodeDetect     = "DETECT_ERROR"
	CodeAssemble   = "ASSEMBLE_ERROR"
	CodeCheckpoint = "CHECKPOINT_ERROR"
	CodeRender     = "RENDER_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// PageError reports a page whose analysis left required fields empty.
type PageError struct {
	Page       int
	Identifier string
	Missing    []string
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d (identifier %s): missing %s", e.Page, e.Identifier, strings.Join(e.Missing, ", "))
}

func (e *PageError) Unwrap() error {
	return ErrValidation
}
