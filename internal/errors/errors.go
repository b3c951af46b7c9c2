// Package errors provides custom error types for the Carteira API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that
// errors.Is matches a sentinel even after Wrap or WithMessage.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid login or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrPersistence    = &AppError{Code: "PERSISTENCE_FAILURE", Message: "The operation could not be saved", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound     = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateLogin   = &AppError{Code: "DUPLICATE_LOGIN", Message: "This login is already taken", StatusCode: http.StatusConflict}
	ErrSameLogin        = &AppError{Code: "SAME_LOGIN", Message: "The new login must differ from the current one", StatusCode: http.StatusBadRequest}
	ErrPasswordMismatch = &AppError{Code: "PASSWORD_MISMATCH", Message: "Password and confirmation do not match", StatusCode: http.StatusBadRequest}
)

// Ledger errors.
var (
	ErrValidation            = &AppError{Code: "VALIDATION_FAILED", Message: "The operation violates a ledger rule", StatusCode: http.StatusBadRequest}
	ErrUnsupportedAssetClass = &AppError{Code: "UNSUPPORTED_ASSET_CLASS", Message: "Unsupported asset class", StatusCode: http.StatusBadRequest}
	ErrHoldingNotFound       = &AppError{Code: "HOLDING_NOT_FOUND", Message: "Asset not found or does not belong to you", StatusCode: http.StatusNotFound}
	ErrFixedIncomeNotFound   = &AppError{Code: "FIXED_INCOME_NOT_FOUND", Message: "Fixed-income holding not found or does not belong to you", StatusCode: http.StatusNotFound}
)

// Quote provider errors.
var (
	ErrQuoteNotFound       = &AppError{Code: "QUOTE_NOT_FOUND", Message: "No quote found for this ticker", StatusCode: http.StatusNotFound}
	ErrUpstreamUnavailable = &AppError{Code: "UPSTREAM_UNAVAILABLE", Message: "The quote provider is unavailable", StatusCode: http.StatusBadGateway}
)
