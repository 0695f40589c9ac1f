// Package apperrors provides structured application errors with HTTP status
// mapping and the gin middleware that renders them.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory defines the type of error for proper handling
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryInternal      ErrorCategory = "internal"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryNotFound      ErrorCategory = "not_found"
)

// AppError wraps an errbuilder error with HTTP context.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	codeStr := "UNKNOWN_ERROR"
	switch e.ErrBuilder.ErrCode() {
	case errbuilder.CodeInvalidArgument:
		codeStr = "VALIDATION_ERROR"
	case errbuilder.CodeInternal:
		codeStr = "INTERNAL_ERROR"
	case errbuilder.CodeFailedPrecondition:
		codeStr = "CONFIGURATION_ERROR"
	case errbuilder.CodeNotFound:
		codeStr = "NOT_FOUND"
	}
	return fmt.Sprintf("[%s] %s", codeStr, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// NewAppError creates an AppError from an errbuilder with HTTP context.
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return NewAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewInternalError creates an internal server error.
func NewInternalError(message string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("internal_details", errors.New(message))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("Internal server error").
		WithDetails(errbuilder.NewErrDetails(errorMap))
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return NewAppError(builder, CategoryInternal, http.StatusInternalServerError)
}

// NewConfigurationError creates a configuration error.
func NewConfigurationError(message string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("config_details", errors.New(message))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("Configuration error").
		WithDetails(errbuilder.NewErrDetails(errorMap))
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return NewAppError(builder, CategoryConfiguration, http.StatusInternalServerError)
}

// ToAppError converts any error into an AppError, passing through ones that
// already are.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err.Error(), err)
}

// ErrorHandler is a gin middleware that renders errors attached to the
// context as structured responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			appErr := ToAppError(c.Errors.Last().Err)
			if id, ok := c.Get("request_id"); ok {
				if s, sok := id.(string); sok {
					appErr.RequestID = s
				}
			}
			c.JSON(appErr.HTTPStatus, gin.H{
				"error":      appErr.Error(),
				"category":   appErr.Category,
				"request_id": appErr.RequestID,
				"timestamp":  appErr.Timestamp.Format(time.RFC3339),
			})
		}
	}
}

// RecoveryHandler converts panics into structured 500 responses.
func RecoveryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				appErr := NewInternalError(
					fmt.Sprintf("panic recovered: %v", r),
					fmt.Errorf("%v", r),
				)
				c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
					"error":    appErr.Error(),
					"category": appErr.Category,
				})
			}
		}()
		c.Next()
	}
}
