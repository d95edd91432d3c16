package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeRateLimited indicates the subject exhausted its alert quota for
	// the current window.
	ErrCodeRateLimited ErrorCode = "rate_limited"
	// ErrCodeNoEligibleContacts indicates the relationship filter matched no
	// deliverable contacts.
	ErrCodeNoEligibleContacts ErrorCode = "no_eligible_contacts"
	// ErrCodeFeatureDisabled indicates emergency alerts are switched off.
	ErrCodeFeatureDisabled ErrorCode = "feature_disabled"
	// ErrCodeInvalidConfiguration indicates required dispatch configuration
	// (such as sender credentials) is missing or malformed.
	ErrCodeInvalidConfiguration ErrorCode = "invalid_configuration"
	// ErrCodeTransportAuth indicates the transport rejected our credentials.
	ErrCodeTransportAuth ErrorCode = "transport_auth"
	// ErrCodeTransportRecipientsRefused indicates the transport refused one
	// or more recipient addresses.
	ErrCodeTransportRecipientsRefused ErrorCode = "transport_recipients_refused"
	// ErrCodeTransportConnection indicates the transport could not be reached
	// or dropped the connection.
	ErrCodeTransportConnection ErrorCode = "transport_connection"
	// ErrCodeTransportUnknown indicates an unclassified transport failure.
	ErrCodeTransportUnknown ErrorCode = "transport_unknown"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// RateLimited creates a new RateLimited error.
func RateLimited(message string) *AppError {
	return &AppError{Code: ErrCodeRateLimited, Message: message}
}

// NoEligibleContacts creates a new NoEligibleContacts error.
func NoEligibleContacts(message string) *AppError {
	return &AppError{Code: ErrCodeNoEligibleContacts, Message: message}
}

// FeatureDisabled creates a new FeatureDisabled error.
func FeatureDisabled(message string) *AppError {
	return &AppError{Code: ErrCodeFeatureDisabled, Message: message}
}

// InvalidConfiguration creates a new InvalidConfiguration error.
func InvalidConfiguration(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfiguration, Message: message}
}

// InvalidConfigurationf creates a new InvalidConfiguration error with formatted message.
func InvalidConfigurationf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInvalidConfiguration, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsRateLimited checks if an error is a RateLimited error.
func IsRateLimited(err error) bool {
	return isCode(err, ErrCodeRateLimited)
}

// IsNoEligibleContacts checks if an error is a NoEligibleContacts error.
func IsNoEligibleContacts(err error) bool {
	return isCode(err, ErrCodeNoEligibleContacts)
}

// IsFeatureDisabled checks if an error is a FeatureDisabled error.
func IsFeatureDisabled(err error) bool {
	return isCode(err, ErrCodeFeatureDisabled)
}

// IsInvalidConfiguration checks if an error is an InvalidConfiguration error.
func IsInvalidConfiguration(err error) bool {
	return isCode(err, ErrCodeInvalidConfiguration)
}

// IsTransportFailure checks if an error carries any of the transport failure codes.
func IsTransportFailure(err error) bool {
	switch GetCode(err) {
	case ErrCodeTransportAuth,
		ErrCodeTransportRecipientsRefused,
		ErrCodeTransportConnection,
		ErrCodeTransportUnknown:
		return true
	default:
		return false
	}
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
